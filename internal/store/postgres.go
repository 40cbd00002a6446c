package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/angelcm/commerce-insights-go/internal/models"
)

// ErrNotFound is returned when a customer has no stored configuration.
var ErrNotFound = errors.New("settings not found")

// SettingsStore reads and writes per-customer dashboard configuration
// (static expenses, monthly budgets) from PostgreSQL.
type SettingsStore struct{ db *sql.DB }

func NewSettingsStore(db *sql.DB) *SettingsStore { return &SettingsStore{db: db} }

// OpenSettingsStore connects to Postgres with the given DSN.
func OpenSettingsStore(dsn string) (*SettingsStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &SettingsStore{db: db}, nil
}

func (s *SettingsStore) StaticExpenses(ctx context.Context, customerID string) (*models.StaticExpenses, error) {
	e := &models.StaticExpenses{CustomerID: customerID}
	err := s.db.QueryRowContext(ctx, `
		SELECT cogs_percentage, shipping_cost_per_order, transaction_cost_percentage,
		       marketing_bureau_cost, marketing_tooling_cost, fixed_expenses
		FROM static_expenses
		WHERE customer_id = $1
	`, customerID).Scan(
		&e.COGSPercentage, &e.ShippingCostPerOrder, &e.TransactionCostPercent,
		&e.MarketingBureauCost, &e.MarketingToolingCost, &e.FixedExpenses,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get static expenses: %w", err)
	}
	return e, nil
}

func (s *SettingsStore) PutStaticExpenses(ctx context.Context, e models.StaticExpenses) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO static_expenses
			(customer_id, cogs_percentage, shipping_cost_per_order, transaction_cost_percentage,
			 marketing_bureau_cost, marketing_tooling_cost, fixed_expenses, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (customer_id) DO UPDATE SET
			cogs_percentage = EXCLUDED.cogs_percentage,
			shipping_cost_per_order = EXCLUDED.shipping_cost_per_order,
			transaction_cost_percentage = EXCLUDED.transaction_cost_percentage,
			marketing_bureau_cost = EXCLUDED.marketing_bureau_cost,
			marketing_tooling_cost = EXCLUDED.marketing_tooling_cost,
			fixed_expenses = EXCLUDED.fixed_expenses,
			updated_at = NOW()
	`, e.CustomerID, e.COGSPercentage, e.ShippingCostPerOrder, e.TransactionCostPercent,
		e.MarketingBureauCost, e.MarketingToolingCost, e.FixedExpenses)
	if err != nil {
		return fmt.Errorf("put static expenses: %w", err)
	}
	return nil
}

func (s *SettingsStore) PaceBudget(ctx context.Context, customerID, month string) (*models.PaceBudget, error) {
	b := &models.PaceBudget{CustomerID: customerID, Month: month}
	err := s.db.QueryRowContext(ctx, `
		SELECT revenue_budget, orders_budget, ad_spend_budget
		FROM pace_budgets
		WHERE customer_id = $1 AND month = $2
	`, customerID, month).Scan(&b.RevenueBudget, &b.OrdersBudget, &b.AdSpendBudget)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get pace budget: %w", err)
	}
	return b, nil
}

func (s *SettingsStore) PutPaceBudget(ctx context.Context, b models.PaceBudget) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pace_budgets
			(customer_id, month, revenue_budget, orders_budget, ad_spend_budget, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (customer_id, month) DO UPDATE SET
			revenue_budget = EXCLUDED.revenue_budget,
			orders_budget = EXCLUDED.orders_budget,
			ad_spend_budget = EXCLUDED.ad_spend_budget,
			updated_at = NOW()
	`, b.CustomerID, b.Month, b.RevenueBudget, b.OrdersBudget, b.AdSpendBudget)
	if err != nil {
		return fmt.Errorf("put pace budget: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *SettingsStore) Close() error { return s.db.Close() }
