// Package handler is the HTTP layer: it binds and validates requests,
// calls the service layer and writes responses.
package handler

import (
	"github.com/deppfellow/sales-org-service/internal/server"
	"github.com/deppfellow/sales-org-service/internal/service"
)

// Handlers groups every HTTP handler.
type Handlers struct {
	Health     *HealthHandler
	OpenAPI    *OpenAPIHandler
	Sales      *SalesHandler
	SalesRules *SalesRuleHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:     NewHealthHandler(s),
		OpenAPI:    NewOpenAPIHandler(s),
		Sales:      NewSalesHandler(s, services.Sales),
		SalesRules: NewSalesRuleHandler(s, services.SalesRules),
	}
}
