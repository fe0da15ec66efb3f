package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"pikachu/internal/models"
	"pikachu/internal/services"
	"pikachu/internal/upstream"
)

// Deps are the collaborators the API routes are built from.
type Deps struct {
	Client   *upstream.Client
	Catalog  upstream.Catalog
	Users    *services.UserService
	Projects *services.ProjectService
	Tasks    *services.TaskService
	Pomodoro *services.PomodoroService
}

func RegisterRoutes(api *echo.Group, d Deps) {
	p := NewProxyHandler(d.Client, d.Catalog)
	api.GET("/nasa/apod", p.Serve(upstream.EndpointNASAAPOD))
	api.GET("/pokemon/random", p.Serve(upstream.EndpointRandomPokemon))
	api.GET("/pokemon/:name", p.Serve(upstream.EndpointPokemon))
	api.GET("/horoscope/:sign", p.Serve(upstream.EndpointHoroscope))
	api.GET("/astronomy/moon-phase", p.Serve(upstream.EndpointMoonPhase))
	api.GET("/astronomy/iss-location", p.Serve(upstream.EndpointISSLocation))
	api.GET("/astronomy/people-in-space", p.Serve(upstream.EndpointPeopleInSpace))

	registerCRUD[models.User, models.UserPatch](api, "/users", "User", d.Users)
	registerCRUD[models.Project, models.ProjectPatch](api, "/projects", "Project", d.Projects)
	registerCRUD[models.Task, models.TaskPatch](api, "/tasks", "Task", d.Tasks)

	pom := &PomodoroHandler{svc: d.Pomodoro}
	pg := api.Group("/pomodoro")
	pg.GET("/categories", pom.ListCategories)
	pg.POST("/categories", pom.CreateCategory)
	pg.DELETE("/categories/:id", pom.DeleteCategory)
	pg.GET("/tasks", pom.ListTasks)
	pg.POST("/tasks", pom.CreateTask)
	pg.PUT("/tasks/:id", pom.UpdateTask)
	pg.DELETE("/tasks/:id", pom.DeleteTask)

	api.GET("/presentations/templates", ListTemplates)
	api.GET("/presentations/example", ExampleMarkdown)
}

func jsonError(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"error": msg})
}

// serviceError maps service sentinels onto HTTP statuses.
func serviceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return jsonError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrConflict):
		return jsonError(c, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrInvalid):
		return jsonError(c, http.StatusBadRequest, err.Error())
	}
	log.WithContext(c.Request().Context()).WithError(err).
		WithField("uri", c.Request().RequestURI).
		Error("request failed")
	return jsonError(c, http.StatusInternalServerError, err.Error())
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id " + strconv.Quote(c.Param("id")))
	}
	return uint(id), nil
}

func bindBody(c echo.Context, v any) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, v); err != nil {
		return errors.New("invalid JSON body")
	}
	return nil
}
