package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"pikachu/internal/models"
	"pikachu/internal/services"
)

type PomodoroHandler struct {
	svc *services.PomodoroService
}

type deleted struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (h *PomodoroHandler) ListCategories(c echo.Context) error {
	cats, err := h.svc.ListCategories(c.Request().Context())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, cats)
}

func (h *PomodoroHandler) CreateCategory(c echo.Context) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := bindBody(c, &req); err != nil {
		return jsonError(c, http.StatusBadRequest, err.Error())
	}
	cat, err := h.svc.CreateCategory(c.Request().Context(), req.Name)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, cat)
}

func (h *PomodoroHandler) DeleteCategory(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, err.Error())
	}
	if err := h.svc.DeleteCategory(c.Request().Context(), id); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, deleted{Success: true, Message: "Category deleted"})
}

func (h *PomodoroHandler) ListTasks(c echo.Context) error {
	tasks, err := h.svc.ListTasks(c.Request().Context())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, tasks)
}

func (h *PomodoroHandler) CreateTask(c echo.Context) error {
	var req struct {
		Title      string `json:"title"`
		CategoryID uint   `json:"category_id"`
	}
	if err := bindBody(c, &req); err != nil {
		return jsonError(c, http.StatusBadRequest, err.Error())
	}
	task, err := h.svc.CreateTask(c.Request().Context(), req.Title, req.CategoryID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, task)
}

func (h *PomodoroHandler) UpdateTask(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, err.Error())
	}
	var patch models.PomodoroTaskPatch
	if err := bindBody(c, &patch); err != nil {
		return jsonError(c, http.StatusBadRequest, err.Error())
	}
	task, err := h.svc.UpdateTask(c.Request().Context(), id, patch)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, task)
}

func (h *PomodoroHandler) DeleteTask(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, err.Error())
	}
	if err := h.svc.DeleteTask(c.Request().Context(), id); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, deleted{Success: true, Message: "Task deleted"})
}
