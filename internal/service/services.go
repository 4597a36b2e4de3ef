// Package service contains the business logic.
//
// It sits between the handler and repository layers: it receives
// validated requests from handlers, applies the sales rule semantics
// (normalization hooks, cache invalidation, notifications) and calls the
// repositories.
package service

import (
	"github.com/deppfellow/sales-org-service/internal/lib/job"
	"github.com/deppfellow/sales-org-service/internal/repository"
	"github.com/deppfellow/sales-org-service/internal/server"
)

type Services struct {
	Auth       *AuthService
	Job        *job.JobService
	Sales      *SalesService
	SalesRules *SalesRuleService
}

func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	var lookupCache LookupCache
	if s.Cache != nil {
		lookupCache = s.Cache
	}

	opts := []SalesRuleOption{
		WithCache(lookupCache),
		WithMetrics(s.Metrics),
	}
	if s.Job != nil {
		opts = append(opts, WithNotifier(s.Job))
	}

	return &Services{
		Auth:       NewAuthService(s),
		Job:        s.Job,
		Sales:      NewSalesService(repos.SalesRules, lookupCache, s.Metrics),
		SalesRules: NewSalesRuleService(repos.SalesRules, opts...),
	}, nil
}
