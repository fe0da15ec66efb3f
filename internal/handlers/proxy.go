package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"pikachu/internal/upstream"
)

// ProxyHandler answers a local route with one upstream call.
type ProxyHandler struct {
	client  *upstream.Client
	catalog upstream.Catalog
}

func NewProxyHandler(client *upstream.Client, catalog upstream.Catalog) *ProxyHandler {
	return &ProxyHandler{client: client, catalog: catalog}
}

// Serve returns the handler for the named endpoint. Route parameters become
// upstream params under the same names. It panics on an unknown name since
// routes are registered once at start-up.
func (h *ProxyHandler) Serve(name string) echo.HandlerFunc {
	spec, ok := h.catalog[name]
	if !ok {
		panic(fmt.Sprintf("handlers: no upstream endpoint %q", name))
	}
	return func(c echo.Context) error {
		params := make(upstream.Params, len(c.ParamNames()))
		for _, n := range c.ParamNames() {
			params[n] = c.Param(n)
		}

		out := h.client.Execute(c.Request().Context(), spec, params)
		if !out.OK() {
			return jsonError(c, http.StatusInternalServerError, out.Err.Error())
		}
		return c.JSONBlob(http.StatusOK, out.Body)
	}
}
