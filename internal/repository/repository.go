// Package repository handles all interactions with the database.
//
// It contains raw SQL queries and methods to fetch, persist,
// or update data, abstracting SQL logic away from the service layer.
package repository

import (
	"context"

	"github.com/deppfellow/sales-org-service/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of pgxpool.Pool the repositories use. pgx.Tx and
// pgxmock satisfy it too.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// SalesRuleStore persists sales rules.
//
// Lookups are exact on (country, region): a nil region only matches rules
// stored without a region. Missing rows are reported as errors wrapping
// pgx.ErrNoRows.
type SalesRuleStore interface {
	FindOne(ctx context.Context, country string, region *string) (*model.SalesRule, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.SalesRule, error)
	List(ctx context.Context, filter model.ListFilter) ([]model.SalesRule, int, error)
	Create(ctx context.Context, rule *model.SalesRule) (*model.SalesRule, error)
	Update(ctx context.Context, rule *model.SalesRule) (*model.SalesRule, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
