package web

import (
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/labstack/echo/v4"
)

const indexFile = "index.html"

// SPA serves a built single-page frontend. Unknown paths get index.html so
// client-side routing works on reload.
type SPA struct {
	root string
}

func NewSPA(root string) *SPA {
	return &SPA{root: root}
}

// Register mounts the frontend on every GET path not claimed by another route.
func (s *SPA) Register(e *echo.Echo) {
	e.GET("/*", s.Serve)
}

func (s *SPA) Serve(c echo.Context) error {
	// Clean against "/" so ".." cannot climb out of root.
	name := path.Clean("/" + c.Param("*"))
	if name != "/" {
		full := filepath.Join(s.root, filepath.FromSlash(name))
		if fi, err := os.Stat(full); err == nil && !fi.IsDir() {
			return c.File(full)
		}
	}

	index := filepath.Join(s.root, indexFile)
	if _, err := os.Stat(index); err != nil {
		return c.String(http.StatusNotFound, indexFile+" not found")
	}
	return c.File(index)
}
