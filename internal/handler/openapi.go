package handler

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/deppfellow/sales-org-service/internal/server"
	"github.com/labstack/echo/v4"
)

// DefaultStaticDir holds openapi.html and openapi.json, relative to the
// working directory.
const DefaultStaticDir = "static"

// OpenAPIHandler serves the API docs UI. The page loads its renderer from
// a CDN and reads /static/openapi.json.
type OpenAPIHandler struct {
	Handler
	staticDir string
}

func NewOpenAPIHandler(s *server.Server) *OpenAPIHandler {
	return &OpenAPIHandler{
		Handler:   NewHandler(s),
		staticDir: DefaultStaticDir,
	}
}

// StaticDir returns the directory docs assets are served from.
func (h *OpenAPIHandler) StaticDir() string {
	return h.staticDir
}

// ServeOpenAPIUI serves openapi.html uncached, so docs changes show up
// immediately.
func (h *OpenAPIHandler) ServeOpenAPIUI(c echo.Context) error {
	templateBytes, err := os.ReadFile(filepath.Join(h.staticDir, "openapi.html"))

	c.Response().Header().Set("Cache-Control", "no-cache")

	if err != nil {
		return fmt.Errorf("failed to read OpenAPI UI template: %w", err)
	}

	if err := c.HTML(http.StatusOK, string(templateBytes)); err != nil {
		return fmt.Errorf("failed to write HTML response: %w", err)
	}

	return nil
}
