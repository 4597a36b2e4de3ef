// Package router builds the Echo instance: global middleware order, the
// error handler and every route group.
package router

import (
	"github.com/deppfellow/sales-org-service/internal/handler"
	"github.com/deppfellow/sales-org-service/internal/middleware"
	"github.com/deppfellow/sales-org-service/internal/server"
	"github.com/labstack/echo/v4"
)

// NewRouter wires middleware and routes. Middleware order matters:
// request IDs first so every later layer can log them, New Relic before
// the context enhancer so trace ids reach the request logger.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
	)

	registerSystemRoutes(router, h, s)

	v1 := router.Group("/api/v1")
	registerSalesRoutes(v1, h, middlewares)

	return router
}
