package router

import (
	"net/http"

	"github.com/deppfellow/sales-org-service/internal/handler"
	"github.com/deppfellow/sales-org-service/internal/middleware"
	"github.com/labstack/echo/v4"
)

// registerSalesRoutes registers the lookup action and sales rule CRUD.
// Lookup and reads are public; writes go through the auth guard.
func registerSalesRoutes(v1 *echo.Group, h *handler.Handlers, m *middleware.Middlewares) {
	v1.POST("/sales/lookup", handler.Handle(h.Sales.Lookup, http.StatusOK), m.RateLimit.Lookup())

	guard := m.Auth.WriteGuard()

	rules := v1.Group("/sales-rules")
	rules.GET("", handler.Handle(h.SalesRules.List, http.StatusOK))
	rules.GET("/:id", handler.Handle(h.SalesRules.Get, http.StatusOK))
	rules.POST("", handler.Handle(h.SalesRules.Create, http.StatusCreated), guard)
	rules.PATCH("/:id", handler.Handle(h.SalesRules.Update, http.StatusOK), guard)
	rules.DELETE("/:id", handler.HandleNoContent(h.SalesRules.Delete, http.StatusNoContent), guard)
}
