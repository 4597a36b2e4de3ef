package handler

import (
	"github.com/deppfellow/sales-org-service/internal/errs"
	"github.com/deppfellow/sales-org-service/internal/model"
	"github.com/deppfellow/sales-org-service/internal/server"
	"github.com/deppfellow/sales-org-service/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// SalesRuleHandler serves CRUD over /api/v1/sales-rules.
type SalesRuleHandler struct {
	Handler
	rules *service.SalesRuleService
}

func NewSalesRuleHandler(s *server.Server, rules *service.SalesRuleService) *SalesRuleHandler {
	return &SalesRuleHandler{
		Handler: NewHandler(s),
		rules:   rules,
	}
}

func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errs.NewBadRequestError("Invalid sales rule id", true, nil,
			[]errs.FieldError{{Field: "id", Error: "must be a valid UUID"}}, nil)
	}
	return id, nil
}

func (h *SalesRuleHandler) Create(c echo.Context, req *model.CreateSalesRuleRequest) (*model.SalesRule, error) {
	return h.rules.Create(c.Request().Context(), req.Changes())
}

func (h *SalesRuleHandler) Get(c echo.Context, req *model.SalesRuleIDRequest) (*model.SalesRule, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}
	return h.rules.Get(c.Request().Context(), id)
}

func (h *SalesRuleHandler) List(c echo.Context, req *model.ListSalesRulesRequest) (*model.Page[model.SalesRule], error) {
	return h.rules.List(c.Request().Context(), req.Filter())
}

func (h *SalesRuleHandler) Update(c echo.Context, req *model.UpdateSalesRuleRequest) (*model.SalesRule, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}
	return h.rules.Update(c.Request().Context(), id, req.Changes())
}

func (h *SalesRuleHandler) Delete(c echo.Context, req *model.SalesRuleIDRequest) error {
	id, err := parseID(req.ID)
	if err != nil {
		return err
	}
	return h.rules.Delete(c.Request().Context(), id)
}
