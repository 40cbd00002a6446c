package store

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelcm/commerce-insights-go/internal/models"
)

func TestStaticExpensesGet(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT cogs_percentage").
		WithArgs("cust-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"cogs_percentage", "shipping_cost_per_order", "transaction_cost_percentage",
			"marketing_bureau_cost", "marketing_tooling_cost", "fixed_expenses",
		}).AddRow(0.4, 30.0, 0.02, 5000.0, 1000.0, 10000.0))

	s := NewSettingsStore(db)
	e, err := s.StaticExpenses(context.Background(), "cust-1")
	require.NoError(t, err)
	assert.Equal(t, "cust-1", e.CustomerID)
	assert.Equal(t, 0.4, e.COGSPercentage)
	assert.Equal(t, 30.0, e.ShippingCostPerOrder)
	assert.Equal(t, 10000.0, e.FixedExpenses)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStaticExpensesNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT cogs_percentage").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"cogs_percentage"}))

	s := NewSettingsStore(db)
	_, err = s.StaticExpenses(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPutStaticExpenses(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO static_expenses").
		WithArgs("cust-1", 0.4, 30.0, 0.02, 5000.0, 1000.0, 10000.0).
		WillReturnResult(sqlmock.NewResult(0, 1))

	s := NewSettingsStore(db)
	err = s.PutStaticExpenses(context.Background(), models.StaticExpenses{
		CustomerID:             "cust-1",
		COGSPercentage:         0.4,
		ShippingCostPerOrder:   30,
		TransactionCostPercent: 0.02,
		MarketingBureauCost:    5000,
		MarketingToolingCost:   1000,
		FixedExpenses:          10000,
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaceBudgetRoundTrip(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO pace_budgets").
		WithArgs("cust-1", "2025-03", 33000.0, 900.0, 8000.0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT revenue_budget").
		WithArgs("cust-1", "2025-03").
		WillReturnRows(sqlmock.NewRows([]string{"revenue_budget", "orders_budget", "ad_spend_budget"}).
			AddRow(33000.0, 900.0, 8000.0))

	s := NewSettingsStore(db)
	require.NoError(t, s.PutPaceBudget(context.Background(), models.PaceBudget{
		CustomerID: "cust-1", Month: "2025-03",
		RevenueBudget: 33000, OrdersBudget: 900, AdSpendBudget: 8000,
	}))

	b, err := s.PaceBudget(context.Background(), "cust-1", "2025-03")
	require.NoError(t, err)
	assert.Equal(t, 33000.0, b.RevenueBudget)
	assert.Equal(t, 900.0, b.OrdersBudget)
	assert.NoError(t, mock.ExpectationsWereMet())
}
