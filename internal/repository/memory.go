package repository

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/deppfellow/sales-org-service/internal/model"
	"github.com/deppfellow/sales-org-service/internal/sqlerr"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// MemorySalesRuleStore keeps rules in a map. It enforces the same scope
// uniqueness as the sales_rules table and reports violations with the
// same PostgreSQL error, so callers cannot tell the two stores apart.
type MemorySalesRuleStore struct {
	mu    sync.RWMutex
	rules map[uuid.UUID]model.SalesRule
	now   func() time.Time
}

func NewMemorySalesRuleStore() *MemorySalesRuleStore {
	return &MemorySalesRuleStore{
		rules: make(map[uuid.UUID]model.SalesRule),
		now:   time.Now,
	}
}

func sameRegion(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func copyRule(rule model.SalesRule) *model.SalesRule {
	if rule.Region != nil {
		rule.Region = model.StringPtr(*rule.Region)
	}
	return &rule
}

func scopeViolation() error {
	return &pgconn.PgError{
		Severity:       "ERROR",
		Code:           "23505",
		Message:        `duplicate key value violates unique constraint "sales_rules_scope_key"`,
		TableName:      salesRulesTable,
		ConstraintName: "sales_rules_scope_key",
	}
}

// conflicts reports whether a rule other than id already owns the scope.
// Callers hold the lock.
func (s *MemorySalesRuleStore) conflicts(id uuid.UUID, country string, region *string) bool {
	for _, existing := range s.rules {
		if existing.ID != id && existing.Country == country && sameRegion(existing.Region, region) {
			return true
		}
	}
	return false
}

func (s *MemorySalesRuleStore) FindOne(_ context.Context, country string, region *string) (*model.SalesRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rule := range s.rules {
		if rule.Country == country && sameRegion(rule.Region, region) {
			return copyRule(rule), nil
		}
	}
	return nil, sqlerr.NoRows(salesRulesTable)
}

func (s *MemorySalesRuleStore) GetByID(_ context.Context, id uuid.UUID) (*model.SalesRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rule, ok := s.rules[id]
	if !ok {
		return nil, sqlerr.NoRows(salesRulesTable)
	}
	return copyRule(rule), nil
}

func (s *MemorySalesRuleStore) List(_ context.Context, filter model.ListFilter) ([]model.SalesRule, int, error) {
	s.mu.RLock()
	matched := make([]model.SalesRule, 0, len(s.rules))
	for _, rule := range s.rules {
		if filter.Country != nil && rule.Country != *filter.Country {
			continue
		}
		matched = append(matched, *copyRule(rule))
	}
	s.mu.RUnlock()

	// country, region NULLS FIRST, id
	slices.SortFunc(matched, func(a, b model.SalesRule) int {
		if a.Country != b.Country {
			if a.Country < b.Country {
				return -1
			}
			return 1
		}
		switch {
		case a.Region == nil && b.Region != nil:
			return -1
		case a.Region != nil && b.Region == nil:
			return 1
		case a.Region != nil && *a.Region != *b.Region:
			if *a.Region < *b.Region {
				return -1
			}
			return 1
		}
		return slices.Compare(a.ID[:], b.ID[:])
	})

	total := len(matched)
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	start := min(filter.Offset, total)
	end := min(start+limit, total)

	return matched[start:end], total, nil
}

func (s *MemorySalesRuleStore) Create(_ context.Context, rule *model.SalesRule) (*model.SalesRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conflicts(uuid.Nil, rule.Country, rule.Region) {
		return nil, scopeViolation()
	}

	stored := *copyRule(*rule)
	stored.ID = uuid.New()
	stored.CreatedAt = s.now().UTC()
	stored.UpdatedAt = stored.CreatedAt
	s.rules[stored.ID] = stored

	return copyRule(stored), nil
}

func (s *MemorySalesRuleStore) Update(_ context.Context, rule *model.SalesRule) (*model.SalesRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.rules[rule.ID]
	if !ok {
		return nil, sqlerr.NoRows(salesRulesTable)
	}
	if s.conflicts(rule.ID, rule.Country, rule.Region) {
		return nil, scopeViolation()
	}

	stored := *copyRule(*rule)
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = s.now().UTC()
	s.rules[stored.ID] = stored

	return copyRule(stored), nil
}

func (s *MemorySalesRuleStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rules[id]; !ok {
		return sqlerr.NoRows(salesRulesTable)
	}
	delete(s.rules, id)
	return nil
}
