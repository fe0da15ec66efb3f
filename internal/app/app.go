package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"pikachu/internal/config"
	"pikachu/internal/database"
	"pikachu/internal/handlers"
	"pikachu/internal/logging"
	"pikachu/internal/services"
	"pikachu/internal/upstream"
	"pikachu/internal/web"
)

const shutdownTimeout = 10 * time.Second

// App owns everything a running server needs. Build one per process, or one
// per test.
type App struct {
	cfg  *config.Config
	db   *gorm.DB
	echo *echo.Echo
}

// New opens and migrates the database, seeds it when configured, and builds
// the HTTP router. Catalog options are passed through to upstream.NewCatalog.
func New(ctx context.Context, cfg *config.Config, opts ...upstream.Option) (*App, error) {
	conn, err := database.Open(cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(conn); err != nil {
		_ = database.Close(conn)
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if cfg.SeedData {
		if err := services.Seed(ctx, conn); err != nil {
			_ = database.Close(conn)
			return nil, err
		}
	}

	a := &App{cfg: cfg, db: conn, echo: echo.New()}
	a.routes(opts)
	return a, nil
}

func (a *App) routes(opts []upstream.Option) {
	e := a.echo
	e.HideBanner = true
	e.HidePort = true

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(logging.RequestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{AllowOrigins: a.cfg.AllowedOrigins()}))

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api := e.Group("/api")
	handlers.RegisterRoutes(api, handlers.Deps{
		Client:   upstream.NewClient(nil),
		Catalog:  upstream.NewCatalog(a.cfg, opts...),
		Users:    services.NewUserService(a.db),
		Projects: services.NewProjectService(a.db),
		Tasks:    services.NewTaskService(a.db),
		Pomodoro: services.NewPomodoroService(a.db),
	})
	api.Any("/*", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Not Found"})
	})

	web.NewSPA(a.cfg.StaticDir).Register(e)
}

func (a *App) Handler() http.Handler {
	return a.echo
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Infof("Pikachu API listening on %s", a.cfg.ListenAddress)
		err := a.echo.Start(a.cfg.ListenAddress)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		errCh <- err
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

func (a *App) Close() error {
	return database.Close(a.db)
}

// Migrate opens the configured database and applies the schema.
func Migrate(cfg *config.Config) error {
	conn, err := database.Open(cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer database.Close(conn)
	return database.Migrate(conn)
}
