package router

import (
	"github.com/deppfellow/sales-org-service/internal/handler"
	"github.com/deppfellow/sales-org-service/internal/server"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes registers the endpoints outside the API: health,
// metrics and docs.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers, s *server.Server) {
	r.GET("/status", h.Health.CheckHealth)

	if s.Metrics != nil {
		r.GET("/metrics", echo.WrapHandler(s.Metrics.Handler()))
	}

	r.Static("/static", h.OpenAPI.StaticDir())
	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
