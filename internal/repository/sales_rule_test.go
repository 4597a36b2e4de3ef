package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/deppfellow/sales-org-service/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ruleColumns = []string{"id", "country", "region", "sales_org", "sales_rep_email", "created_at", "updated_at"}

func newMock(t *testing.T) (pgxmock.PgxPoolIface, *SalesRuleRepository) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})

	return mock, NewSalesRuleRepository(mock)
}

func TestSalesRuleRepository_FindOneWithRegion(t *testing.T) {
	mock, repo := newMock(t)
	id := uuid.New()
	now := time.Now().UTC()
	region := model.StringPtr("EU")

	mock.ExpectQuery(`WHERE country = \$1 AND region IS NOT DISTINCT FROM \$2`).
		WithArgs("FR", region).
		WillReturnRows(pgxmock.NewRows(ruleColumns).
			AddRow(id, "FR", model.StringPtr("EU"), "FR-EU", "eu@x.com", now, now))

	rule, err := repo.FindOne(context.Background(), "FR", region)
	require.NoError(t, err)
	assert.Equal(t, id, rule.ID)
	require.NotNil(t, rule.Region)
	assert.Equal(t, "EU", *rule.Region)
	assert.Equal(t, "FR-EU", rule.SalesOrg)
}

func TestSalesRuleRepository_FindOneWithoutRegion(t *testing.T) {
	mock, repo := newMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`region IS NOT DISTINCT FROM \$2`).
		WithArgs("FR", (*string)(nil)).
		WillReturnRows(pgxmock.NewRows(ruleColumns).
			AddRow(uuid.New(), "FR", (*string)(nil), "FR-ALL", "all@x.com", now, now))

	rule, err := repo.FindOne(context.Background(), "FR", nil)
	require.NoError(t, err)
	assert.Nil(t, rule.Region)
	assert.Equal(t, "FR-ALL", rule.SalesOrg)
}

func TestSalesRuleRepository_FindOneNotFound(t *testing.T) {
	mock, repo := newMock(t)

	mock.ExpectQuery(`FROM sales_rules`).
		WithArgs("DE", (*string)(nil)).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.FindOne(context.Background(), "DE", nil)
	require.ErrorIs(t, err, pgx.ErrNoRows)
	assert.Contains(t, err.Error(), "table:sales_rules:")
}

func TestSalesRuleRepository_CreateUniqueViolation(t *testing.T) {
	mock, repo := newMock(t)

	mock.ExpectQuery(`INSERT INTO sales_rules`).
		WithArgs("FR", (*string)(nil), "FR-ALL", "all@x.com").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "sales_rules_scope_key"})

	_, err := repo.Create(context.Background(), &model.SalesRule{
		Country:       "FR",
		SalesOrg:      "FR-ALL",
		SalesRepEmail: "all@x.com",
	})

	var pgErr *pgconn.PgError
	require.True(t, errors.As(err, &pgErr))
	assert.Equal(t, "23505", pgErr.Code)
}

func TestSalesRuleRepository_List(t *testing.T) {
	mock, repo := newMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT count\(\*\) FROM sales_rules WHERE country = \$1`).
		WithArgs("FR").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`ORDER BY country, region NULLS FIRST, id\s+LIMIT \$2 OFFSET \$3`).
		WithArgs("FR", 10, 0).
		WillReturnRows(pgxmock.NewRows(ruleColumns).
			AddRow(uuid.New(), "FR", (*string)(nil), "FR-ALL", "all@x.com", now, now).
			AddRow(uuid.New(), "FR", model.StringPtr("EU"), "FR-EU", "eu@x.com", now, now))

	rules, total, err := repo.List(context.Background(), model.ListFilter{
		Country: model.StringPtr("FR"),
		Limit:   10,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, rules, 2)
	assert.Nil(t, rules[0].Region)
	assert.Equal(t, "EU", *rules[1].Region)
}

func TestSalesRuleRepository_ListDefaultsLimit(t *testing.T) {
	mock, repo := newMock(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM sales_rules`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`LIMIT \$1 OFFSET \$2`).
		WithArgs(DefaultListLimit, 0).
		WillReturnRows(pgxmock.NewRows(ruleColumns))

	rules, total, err := repo.List(context.Background(), model.ListFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, rules)
}

func TestSalesRuleRepository_Update(t *testing.T) {
	mock, repo := newMock(t)
	id := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(`UPDATE sales_rules`).
		WithArgs(id, "FR", (*string)(nil), "FR-NEW", "new@x.com").
		WillReturnRows(pgxmock.NewRows(ruleColumns).
			AddRow(id, "FR", (*string)(nil), "FR-NEW", "new@x.com", now, now))

	rule, err := repo.Update(context.Background(), &model.SalesRule{
		ID:            id,
		Country:       "FR",
		SalesOrg:      "FR-NEW",
		SalesRepEmail: "new@x.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "FR-NEW", rule.SalesOrg)
}

func TestSalesRuleRepository_Delete(t *testing.T) {
	mock, repo := newMock(t)
	id := uuid.New()

	mock.ExpectExec(`DELETE FROM sales_rules WHERE id = \$1`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`DELETE FROM sales_rules WHERE id = \$1`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, repo.Delete(context.Background(), id))
	assert.ErrorIs(t, repo.Delete(context.Background(), id), pgx.ErrNoRows)
}
