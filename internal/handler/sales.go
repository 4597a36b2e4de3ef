package handler

import (
	"github.com/deppfellow/sales-org-service/internal/model"
	"github.com/deppfellow/sales-org-service/internal/server"
	"github.com/deppfellow/sales-org-service/internal/service"
	"github.com/labstack/echo/v4"
)

// SalesHandler serves the public lookup action.
type SalesHandler struct {
	Handler
	sales *service.SalesService
}

func NewSalesHandler(s *server.Server, sales *service.SalesService) *SalesHandler {
	return &SalesHandler{
		Handler: NewHandler(s),
		sales:   sales,
	}
}

// Lookup answers POST /api/v1/sales/lookup.
func (h *SalesHandler) Lookup(c echo.Context, req *model.LookupRequest) (*model.LookupResponse, error) {
	return h.sales.Lookup(c.Request().Context(), req.Request.Country, req.Request.Region)
}
