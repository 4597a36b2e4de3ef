package service

import (
	"context"
	"strings"

	"github.com/deppfellow/sales-org-service/internal/lib/job"
	"github.com/deppfellow/sales-org-service/internal/metrics"
	"github.com/deppfellow/sales-org-service/internal/model"
	"github.com/deppfellow/sales-org-service/internal/repository"
	"github.com/deppfellow/sales-org-service/internal/sqlerr"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// MaxListLimit caps the page size of a listing.
const MaxListLimit = 200

// Notifier queues assignment notifications for representatives.
type Notifier interface {
	EnqueueRuleAssigned(ctx context.Context, p job.RuleAssignedPayload) error
}

// SalesRuleService manages sales rules. Every create and update runs the
// before-write hooks on the change set first; every write invalidates the
// cached lookups of the scopes it touched.
type SalesRuleService struct {
	rules    repository.SalesRuleStore
	hooks    []BeforeWriteHook
	cache    LookupCache
	notifier Notifier
	metrics  *metrics.Collector
}

// SalesRuleOption configures a SalesRuleService.
type SalesRuleOption func(*SalesRuleService)

// WithHooks replaces the default before-write hooks.
func WithHooks(hooks ...BeforeWriteHook) SalesRuleOption {
	return func(s *SalesRuleService) { s.hooks = hooks }
}

func WithCache(cache LookupCache) SalesRuleOption {
	return func(s *SalesRuleService) { s.cache = cache }
}

func WithNotifier(n Notifier) SalesRuleOption {
	return func(s *SalesRuleService) { s.notifier = n }
}

func WithMetrics(c *metrics.Collector) SalesRuleOption {
	return func(s *SalesRuleService) { s.metrics = c }
}

func NewSalesRuleService(rules repository.SalesRuleStore, opts ...SalesRuleOption) *SalesRuleService {
	s := &SalesRuleService{
		rules: rules,
		hooks: DefaultHooks(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SalesRuleService) Create(ctx context.Context, changes model.SalesRuleChanges) (*model.SalesRule, error) {
	if err := runHooks(ctx, s.hooks, OperationCreate, &changes); err != nil {
		return nil, err
	}

	rule := &model.SalesRule{}
	changes.Apply(rule)

	created, err := s.rules.Create(ctx, rule)
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}

	s.invalidate(ctx, created.Key())
	s.notify(ctx, created)
	s.metrics.RecordWrite(string(OperationCreate))

	zerolog.Ctx(ctx).Info().
		Str("sales_rule_id", created.ID.String()).
		Str("country", created.Country).
		Msg("sales rule created")

	return created, nil
}

func (s *SalesRuleService) Get(ctx context.Context, id uuid.UUID) (*model.SalesRule, error) {
	rule, err := s.rules.GetByID(ctx, id)
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}
	return rule, nil
}

// List returns one page of rules. The country filter is matched in
// uppercase, like stored countries.
func (s *SalesRuleService) List(ctx context.Context, filter model.ListFilter) (*model.Page[model.SalesRule], error) {
	if filter.Limit <= 0 {
		filter.Limit = repository.DefaultListLimit
	}
	filter.Limit = min(filter.Limit, MaxListLimit)
	filter.Offset = max(filter.Offset, 0)

	if filter.Country != nil {
		filter.Country = model.StringPtr(strings.ToUpper(*filter.Country))
	}

	rules, total, err := s.rules.List(ctx, filter)
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}

	return &model.Page[model.SalesRule]{
		Items:  rules,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}, nil
}

// Update applies a partial change set. Absent fields keep their stored
// values.
func (s *SalesRuleService) Update(ctx context.Context, id uuid.UUID, changes model.SalesRuleChanges) (*model.SalesRule, error) {
	existing, err := s.rules.GetByID(ctx, id)
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}

	if err := runHooks(ctx, s.hooks, OperationUpdate, &changes); err != nil {
		return nil, err
	}

	next := *existing
	changes.Apply(&next)

	updated, err := s.rules.Update(ctx, &next)
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}

	s.invalidate(ctx, existing.Key(), updated.Key())
	if updated.SalesRepEmail != existing.SalesRepEmail {
		s.notify(ctx, updated)
	}
	s.metrics.RecordWrite(string(OperationUpdate))

	zerolog.Ctx(ctx).Info().
		Str("sales_rule_id", updated.ID.String()).
		Msg("sales rule updated")

	return updated, nil
}

func (s *SalesRuleService) Delete(ctx context.Context, id uuid.UUID) error {
	existing, err := s.rules.GetByID(ctx, id)
	if err != nil {
		return sqlerr.HandleError(err)
	}

	if err := s.rules.Delete(ctx, id); err != nil {
		return sqlerr.HandleError(err)
	}

	s.invalidate(ctx, existing.Key())
	s.metrics.RecordWrite("delete")

	zerolog.Ctx(ctx).Info().
		Str("sales_rule_id", id.String()).
		Msg("sales rule deleted")

	return nil
}

// invalidate drops cached lookups. Failures are logged; the entries expire
// with the cache TTL.
func (s *SalesRuleService) invalidate(ctx context.Context, keys ...model.RuleKey) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, keys...); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("lookup cache invalidation failed")
	}
}

// notify queues an assignment email for the rule's representative.
// Failures are logged and never fail the write.
func (s *SalesRuleService) notify(ctx context.Context, rule *model.SalesRule) {
	if s.notifier == nil {
		return
	}

	err := s.notifier.EnqueueRuleAssigned(ctx, job.RuleAssignedPayload{
		RuleID:        rule.ID.String(),
		Country:       rule.Country,
		Region:        rule.Region,
		SalesOrg:      rule.SalesOrg,
		SalesRepEmail: rule.SalesRepEmail,
	})
	if err != nil {
		zerolog.Ctx(ctx).Warn().
			Err(err).
			Str("sales_rule_id", rule.ID.String()).
			Msg("failed to enqueue rule assigned notification")
	}
}
