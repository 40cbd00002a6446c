package analytics

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelcm/commerce-insights-go/internal/kpi"
	"github.com/angelcm/commerce-insights-go/internal/models"
	"github.com/angelcm/commerce-insights-go/internal/store"
)

type fakeSettings struct {
	expenses *models.StaticExpenses
	budget   *models.PaceBudget
}

func (f *fakeSettings) StaticExpenses(ctx context.Context, customerID string) (*models.StaticExpenses, error) {
	if f.expenses == nil {
		return nil, store.ErrNotFound
	}
	return f.expenses, nil
}

func (f *fakeSettings) PaceBudget(ctx context.Context, customerID, month string) (*models.PaceBudget, error) {
	if f.budget == nil {
		return nil, store.ErrNotFound
	}
	return f.budget, nil
}

func newTestService(t *testing.T, settings SettingsReader) (*Service, *store.MemoryStore) {
	t.Helper()
	rows := store.NewMemoryStore()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(rows, settings, nil, kpi.NewConverter(nil, nil), log), rows
}

func seedMarch(rows *store.MemoryStore) {
	// current window: 2025-03-10..11, comparison (previous period): 03-08..09
	rows.UpsertRow("c1", models.MetricRow{Date: "2025-03-08", Revenue: 40, Cost: 10, Orders: 1, AdSpend: 10, NetSales: 40})
	rows.UpsertRow("c1", models.MetricRow{Date: "2025-03-09", Revenue: 60, Cost: 10, Orders: 1, AdSpend: 10, NetSales: 60})
	rows.UpsertRow("c1", models.MetricRow{Date: "2025-03-10", Revenue: 70, Cost: 20, Orders: 2, AdSpend: 20, NetSales: 70})
	rows.UpsertRow("c1", models.MetricRow{Date: "2025-03-11", Revenue: 50, Cost: 20, Orders: 2, AdSpend: 20, NetSales: 50})
}

func TestSummaryWithDeltas(t *testing.T) {
	svc, rows := newTestService(t, nil)
	seedMarch(rows)

	resp, err := svc.Summary(context.Background(), "c1", "2025-03-10", "2025-03-11", models.PreviousPeriod)
	require.NoError(t, err)

	assert.Equal(t, 120.0, resp.Current.Revenue)
	assert.Equal(t, 100.0, resp.Previous.Revenue)
	assert.InDelta(t, 3.0, resp.Current.ROAS, 1e-9)

	rev := resp.Current.Deltas["revenue"]
	require.NotNil(t, rev)
	assert.InDelta(t, 20.0, *rev, 1e-9)

	// baseline zero -> nil delta
	assert.Nil(t, resp.Current.Deltas["impressions"])
}

func TestSummaryEmptyWindow(t *testing.T) {
	svc, _ := newTestService(t, nil)
	resp, err := svc.Summary(context.Background(), "c1", "2025-05-01", "2025-05-31", models.PreviousYear)
	require.NoError(t, err)
	assert.Zero(t, resp.Current.Revenue)
	assert.Zero(t, resp.Current.ROAS)
}

func TestSeriesWeekly(t *testing.T) {
	svc, rows := newTestService(t, nil)
	seedMarch(rows)

	resp, err := svc.Series(context.Background(), "c1", "2025-03-10", "2025-03-11", models.Weekly, models.PreviousPeriod)
	require.NoError(t, err)
	require.Len(t, resp.Current["revenue"], 1)
	assert.Equal(t, "2025-03-10", resp.Current["revenue"][0].Label)
	assert.Equal(t, 120.0, resp.Current["revenue"][0].Value)
	// comparison window 03-08..09 falls in the prior ISO week
	require.Len(t, resp.Previous["revenue"], 1)
	assert.Equal(t, "2025-03-03", resp.Previous["revenue"][0].Label)
	assert.Equal(t, 100.0, resp.Previous["revenue"][0].Value)
}

func TestSeriesYTD(t *testing.T) {
	svc, rows := newTestService(t, nil)
	rows.UpsertRow("c1", models.MetricRow{Date: "2025-01-15", Revenue: 10})
	rows.UpsertRow("c1", models.MetricRow{Date: "2025-03-02", Revenue: 20})
	rows.UpsertRow("c1", models.MetricRow{Date: "2024-02-10", Revenue: 5})
	rows.UpsertRow("c1", models.MetricRow{Date: "2024-06-01", Revenue: 99}) // outside YTD comparison

	resp, err := svc.Series(context.Background(), "c1", "", "2025-03-31", models.YTD, models.PreviousYear)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-01", resp.From)
	assert.Equal(t, "2025-03-31", resp.To)
	require.Len(t, resp.Current["revenue"], 2)
	assert.Equal(t, "2025-01", resp.Current["revenue"][0].Label)
	assert.Equal(t, "2025-03", resp.Current["revenue"][1].Label)
	require.Len(t, resp.Previous["revenue"], 1)
	assert.Equal(t, "2024-02", resp.Previous["revenue"][0].Label)
}

func TestPaceWithStoredBudgetAndOverride(t *testing.T) {
	settings := &fakeSettings{budget: &models.PaceBudget{
		CustomerID: "c1", Month: "2025-03",
		RevenueBudget: 3000, OrdersBudget: 90, AdSpendBudget: 900,
	}}
	svc, rows := newTestService(t, settings)
	seedMarch(rows)

	resp, err := svc.Pace(context.Background(), "c1", "2025-03-01", "2025-03-11",
		map[string]string{"revenue_budget": "kr. 3.100"})
	require.NoError(t, err)

	assert.Equal(t, "2025-03", resp.Month)
	assert.Equal(t, 31, resp.DaysInMonth)
	assert.Equal(t, 11, resp.DaysElapsed)
	// free-text override wins over the stored revenue budget
	assert.Equal(t, 3.1, resp.Revenue.Budget)
	assert.Equal(t, 900.0, resp.AdSpend.Budget)
	assert.Equal(t, 220.0, resp.Revenue.Cumulative)
	assert.InDelta(t, 220.0/31.0*10.0, resp.Revenue.ProjectedTotal, 1e-9)
}

func TestPaceBadDate(t *testing.T) {
	svc, _ := newTestService(t, nil)
	_, err := svc.Pace(context.Background(), "c1", "2025-03-01", "soon", nil)
	assert.Error(t, err)
}

func TestPnLWaterfall(t *testing.T) {
	settings := &fakeSettings{expenses: &models.StaticExpenses{
		CustomerID:             "c1",
		COGSPercentage:         0.4,
		ShippingCostPerOrder:   30,
		TransactionCostPercent: 0.02,
		MarketingBureauCost:    5000,
		MarketingToolingCost:   1000,
		FixedExpenses:          10000,
	}}
	svc, rows := newTestService(t, settings)
	rows.UpsertRow("c1", models.MetricRow{Date: "2025-03-01", NetSales: 100000, Orders: 500, AdSpend: 20000})

	w, err := svc.PnL(context.Background(), "c1", "2025-03-01", "2025-03-31", "USD", "")
	require.NoError(t, err)
	assert.InDelta(t, 40000, w.COGS, 1e-9)
	assert.InDelta(t, 17000, w.DB3, 1e-9)
	assert.InDelta(t, 7000, w.Result, 1e-9)
}

func TestPnLMissingSettings(t *testing.T) {
	svc, _ := newTestService(t, &fakeSettings{})
	_, err := svc.PnL(context.Background(), "c1", "2025-03-01", "2025-03-31", "USD", "")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPnLFallsBackToPlatformSpend(t *testing.T) {
	settings := &fakeSettings{expenses: &models.StaticExpenses{CustomerID: "c1"}}
	svc, rows := newTestService(t, settings)
	rows.UpsertRow("c1", models.MetricRow{Date: "2025-03-01", NetSales: 1000, GoogleAdsCost: 100, MetaSpend: 50})

	w, err := svc.PnL(context.Background(), "c1", "2025-03-01", "2025-03-31", "USD", "")
	require.NoError(t, err)
	assert.Equal(t, 150.0, w.MarketingSpend)
}

func TestPaceOverrideParsing(t *testing.T) {
	// "kr. 12.500" style strings strip down to the numeric part
	assert.Equal(t, 12.500, kpi.ParseAmount("kr. 12.500"))
	assert.Equal(t, 12500.0, kpi.ParseAmount("12500 kr"))
}
