package service

import (
	"context"
	"fmt"
	"time"

	"github.com/deppfellow/sales-org-service/internal/errs"
	"github.com/deppfellow/sales-org-service/internal/metrics"
	"github.com/deppfellow/sales-org-service/internal/model"
	"github.com/deppfellow/sales-org-service/internal/repository"
	"github.com/deppfellow/sales-org-service/internal/sqlerr"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// LookupCache caches lookup responses by exact rule key. Implementations
// return (nil, nil) on a miss.
//
// Invalidate advances the generation of each key. SetIfGeneration must not
// store anything once the key has moved past gen.
type LookupCache interface {
	Get(ctx context.Context, key model.RuleKey) (*model.LookupResponse, error)
	Generation(ctx context.Context, key model.RuleKey) (int64, error)
	SetIfGeneration(ctx context.Context, key model.RuleKey, gen int64, resp *model.LookupResponse) (bool, error)
	Invalidate(ctx context.Context, keys ...model.RuleKey) error
}

// SalesService answers sales org lookups.
type SalesService struct {
	rules   repository.SalesRuleStore
	cache   LookupCache
	metrics *metrics.Collector
}

// NewSalesService builds the lookup service. cache and collector may be nil.
func NewSalesService(rules repository.SalesRuleStore, cache LookupCache, collector *metrics.Collector) *SalesService {
	return &SalesService{
		rules:   rules,
		cache:   cache,
		metrics: collector,
	}
}

// Lookup resolves the sales org and representative of an exact
// (country, region) pair. A nil region only matches rules without one.
func (s *SalesService) Lookup(ctx context.Context, country string, region *string) (*model.LookupResponse, error) {
	start := time.Now()

	if country == "" {
		s.metrics.ObserveLookup(metrics.OutcomeInvalid, 0)
		return nil, errs.NewBadRequestError("Country code is required", true, nil, nil, nil)
	}

	key := model.RuleKey{Country: country, Region: region}
	logger := zerolog.Ctx(ctx).With().
		Str("country", country).
		Str("region", key.RegionLabel()).
		Logger()

	// The generation is read before the store so a write that commits
	// during this lookup keeps its result out of the cache.
	var (
		gen       int64
		cacheable bool
	)
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key)
		if err != nil {
			logger.Warn().Err(err).Msg("lookup cache read failed")
		} else if cached != nil {
			s.metrics.ObserveLookup(metrics.OutcomeCacheHit, time.Since(start))
			return cached, nil
		}

		if gen, err = s.cache.Generation(ctx, key); err != nil {
			logger.Warn().Err(err).Msg("lookup cache generation read failed")
		} else {
			cacheable = true
		}
	}

	rule, err := s.rules.FindOne(ctx, country, region)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.metrics.ObserveLookup(metrics.OutcomeNotFound, time.Since(start))
			message := fmt.Sprintf("No sales rule found for country=%q, region=%q", country, key.RegionLabel())
			return nil, errs.NewNotFoundError(message, true, nil)
		}
		s.metrics.ObserveLookup(metrics.OutcomeError, time.Since(start))
		logger.Error().Err(err).Msg("sales rule lookup failed")
		return nil, sqlerr.HandleError(err)
	}

	resp := &model.LookupResponse{
		SalesOrg:      rule.SalesOrg,
		SalesRepEmail: rule.SalesRepEmail,
	}

	if cacheable {
		stored, err := s.cache.SetIfGeneration(ctx, key, gen, resp)
		switch {
		case err != nil:
			logger.Warn().Err(err).Msg("lookup cache write failed")
		case !stored:
			logger.Debug().Msg("sales rule changed during lookup, result not cached")
		}
	}

	s.metrics.ObserveLookup(metrics.OutcomeHit, time.Since(start))
	return resp, nil
}
