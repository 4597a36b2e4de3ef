package repository

import (
	"github.com/deppfellow/sales-org-service/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	SalesRules SalesRuleStore
}

// NewRepositories constructs the PostgreSQL-backed repositories.
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		SalesRules: NewSalesRuleRepository(s.DB.Pool),
	}
}

// NewMemoryRepositories constructs in-memory repositories for tests and
// local runs without a database.
func NewMemoryRepositories() *Repositories {
	return &Repositories{
		SalesRules: NewMemorySalesRuleStore(),
	}
}
