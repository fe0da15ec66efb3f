package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// crudService is the repository surface behind a REST collection.
type crudService[T, P any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id uint) (*T, error)
	Create(ctx context.Context, row *T) error
	Update(ctx context.Context, id uint, patch P) (*T, error)
	Delete(ctx context.Context, id uint) error
}

// CRUDHandler exposes list/get/create/update/delete for one entity.
type CRUDHandler[T, P any] struct {
	svc    crudService[T, P]
	entity string
}

func registerCRUD[T, P any](g *echo.Group, path, entity string, svc crudService[T, P]) {
	h := &CRUDHandler[T, P]{svc: svc, entity: entity}
	g.GET(path, h.List)
	g.POST(path, h.Create)
	g.GET(path+"/:id", h.Get)
	g.PUT(path+"/:id", h.Update)
	g.DELETE(path+"/:id", h.Delete)
}

func (h *CRUDHandler[T, P]) List(c echo.Context) error {
	rows, err := h.svc.List(c.Request().Context())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *CRUDHandler[T, P]) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, err.Error())
	}
	row, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, row)
}

func (h *CRUDHandler[T, P]) Create(c echo.Context) error {
	row := new(T)
	if err := bindBody(c, row); err != nil {
		return jsonError(c, http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), row); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, row)
}

func (h *CRUDHandler[T, P]) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, err.Error())
	}
	var patch P
	if err := bindBody(c, &patch); err != nil {
		return jsonError(c, http.StatusBadRequest, err.Error())
	}
	row, err := h.svc.Update(c.Request().Context(), id, patch)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, row)
}

func (h *CRUDHandler[T, P]) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": h.entity + " deleted"})
}
