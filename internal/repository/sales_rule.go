package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/deppfellow/sales-org-service/internal/model"
	"github.com/deppfellow/sales-org-service/internal/sqlerr"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

const salesRulesTable = "sales_rules"

const salesRuleColumns = `id, country, region, sales_org, sales_rep_email, created_at, updated_at`

// DefaultListLimit applies when a listing does not ask for a page size.
const DefaultListLimit = 50

type SalesRuleRepository struct {
	db DBTX
}

func NewSalesRuleRepository(db DBTX) *SalesRuleRepository {
	return &SalesRuleRepository{db: db}
}

func scanSalesRule(row pgx.Row) (*model.SalesRule, error) {
	var rule model.SalesRule
	err := row.Scan(
		&rule.ID,
		&rule.Country,
		&rule.Region,
		&rule.SalesOrg,
		&rule.SalesRepEmail,
		&rule.CreatedAt,
		&rule.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *SalesRuleRepository) FindOne(ctx context.Context, country string, region *string) (*model.SalesRule, error) {
	stmt := `
		SELECT ` + salesRuleColumns + `
		FROM sales_rules
		WHERE country = $1 AND region IS NOT DISTINCT FROM $2
		ORDER BY created_at
		LIMIT 1`

	rule, err := scanSalesRule(r.db.QueryRow(ctx, stmt, country, region))
	if err != nil {
		return nil, r.wrap(err, "find sales rule")
	}
	return rule, nil
}

func (r *SalesRuleRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.SalesRule, error) {
	stmt := `SELECT ` + salesRuleColumns + ` FROM sales_rules WHERE id = $1`

	rule, err := scanSalesRule(r.db.QueryRow(ctx, stmt, id))
	if err != nil {
		return nil, r.wrap(err, "get sales rule")
	}
	return rule, nil
}

func (r *SalesRuleRepository) List(ctx context.Context, filter model.ListFilter) ([]model.SalesRule, int, error) {
	var (
		where []string
		args  []any
	)
	if filter.Country != nil {
		args = append(args, *filter.Country)
		where = append(where, fmt.Sprintf("country = $%d", len(args)))
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM sales_rules`+clause, args...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "count sales rules")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	args = append(args, limit, filter.Offset)

	stmt := fmt.Sprintf(`
		SELECT %s
		FROM sales_rules%s
		ORDER BY country, region NULLS FIRST, id
		LIMIT $%d OFFSET $%d`, salesRuleColumns, clause, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, stmt, args...)
	if err != nil {
		return nil, 0, errors.Wrap(err, "list sales rules")
	}
	defer rows.Close()

	rules := make([]model.SalesRule, 0, limit)
	for rows.Next() {
		rule, err := scanSalesRule(rows)
		if err != nil {
			return nil, 0, errors.Wrap(err, "scan sales rule")
		}
		rules = append(rules, *rule)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.Wrap(err, "list sales rules")
	}

	return rules, total, nil
}

func (r *SalesRuleRepository) Create(ctx context.Context, rule *model.SalesRule) (*model.SalesRule, error) {
	stmt := `
		INSERT INTO sales_rules (country, region, sales_org, sales_rep_email)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + salesRuleColumns

	created, err := scanSalesRule(r.db.QueryRow(ctx, stmt,
		rule.Country,
		rule.Region,
		rule.SalesOrg,
		rule.SalesRepEmail,
	))
	if err != nil {
		return nil, errors.Wrap(err, "insert sales rule")
	}
	return created, nil
}

func (r *SalesRuleRepository) Update(ctx context.Context, rule *model.SalesRule) (*model.SalesRule, error) {
	stmt := `
		UPDATE sales_rules
		SET country = $2,
			region = $3,
			sales_org = $4,
			sales_rep_email = $5,
			updated_at = now()
		WHERE id = $1
		RETURNING ` + salesRuleColumns

	updated, err := scanSalesRule(r.db.QueryRow(ctx, stmt,
		rule.ID,
		rule.Country,
		rule.Region,
		rule.SalesOrg,
		rule.SalesRepEmail,
	))
	if err != nil {
		return nil, r.wrap(err, "update sales rule")
	}
	return updated, nil
}

func (r *SalesRuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM sales_rules WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "delete sales rule")
	}
	if tag.RowsAffected() == 0 {
		return sqlerr.NoRows(salesRulesTable)
	}
	return nil
}

// wrap tags missing rows with the table so they surface as
// "Sales Rule not found", and adds a stack to everything else.
func (r *SalesRuleRepository) wrap(err error, op string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return sqlerr.NoRows(salesRulesTable)
	}
	return errors.Wrap(err, op)
}
