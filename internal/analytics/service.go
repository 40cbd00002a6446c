package analytics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/angelcm/commerce-insights-go/internal/cache"
	"github.com/angelcm/commerce-insights-go/internal/kpi"
	"github.com/angelcm/commerce-insights-go/internal/models"
	"github.com/angelcm/commerce-insights-go/internal/store"
	"github.com/angelcm/commerce-insights-go/internal/timeseries"
)

// Service turns stored warehouse rows into dashboard payloads: series,
// scalar summaries with comparison deltas, pace reports and P&L
// waterfalls. Everything below the HTTP layer is a pure computation
// over the materialized rows.
type Service struct {
	rows     *store.MemoryStore
	settings SettingsReader
	cache    *cache.SummaryCache
	conv     *kpi.Converter
	log      *slog.Logger
}

// SettingsReader is the slice of the settings store the service needs.
type SettingsReader interface {
	StaticExpenses(ctx context.Context, customerID string) (*models.StaticExpenses, error)
	PaceBudget(ctx context.Context, customerID, month string) (*models.PaceBudget, error)
}

func NewService(rows *store.MemoryStore, settings SettingsReader, c *cache.SummaryCache, conv *kpi.Converter, log *slog.Logger) *Service {
	return &Service{rows: rows, settings: settings, cache: c, conv: conv, log: log}
}

// seriesMetrics maps metric names onto bucket-sum extractors. Ratio
// entries read the recomputed bucket ratios, never per-row values.
var seriesMetrics = map[string]func(models.MetricRow) float64{
	"revenue":      func(m models.MetricRow) float64 { return m.Revenue },
	"gross_profit": func(m models.MetricRow) float64 { return m.GrossProfit },
	"orders":       func(m models.MetricRow) float64 { return m.Orders },
	"cost":         func(m models.MetricRow) float64 { return m.Cost },
	"ad_spend":     func(m models.MetricRow) float64 { return m.AdSpend },
	"impressions":  func(m models.MetricRow) float64 { return m.Impressions },
	"clicks":       func(m models.MetricRow) float64 { return m.Clicks },
	"conversions":  func(m models.MetricRow) float64 { return m.Conversions },
	"sessions":     func(m models.MetricRow) float64 { return m.Sessions },
	"net_sales":    func(m models.MetricRow) float64 { return m.NetSales },
	"roas":         func(m models.MetricRow) float64 { return m.ROAS },
	"poas":         func(m models.MetricRow) float64 { return m.POAS },
	"aov":          func(m models.MetricRow) float64 { return m.AOV },
	"ctr":          func(m models.MetricRow) float64 { return m.CTR },
	"cpc":          func(m models.MetricRow) float64 { return m.CPC },
	"cpm":          func(m models.MetricRow) float64 { return m.CPM },
	"conv_rate":    func(m models.MetricRow) float64 { return m.ConvRate },
}

// SeriesResponse carries chart-ready series for the current and
// comparison windows, one ordered point list per metric.
type SeriesResponse struct {
	From        string                          `json:"from"`
	To          string                          `json:"to"`
	CompareFrom string                          `json:"compare_from"`
	CompareTo   string                          `json:"compare_to"`
	Granularity models.Granularity              `json:"granularity"`
	Current     map[string][]models.SeriesPoint `json:"current"`
	Previous    map[string][]models.SeriesPoint `json:"previous"`
}

// Series buckets the customer's rows for [from, to] and the derived
// comparison window. YTD overrides the window to Jan 1..to and buckets
// monthly; its comparison runs the prior year through the same day.
func (s *Service) Series(ctx context.Context, customer, from, to string, g models.Granularity, mode models.CompareMode) (*SeriesResponse, error) {
	key := cache.Key(customer, "series", from, to, string(g), string(mode))
	var cached SeriesResponse
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	curFrom, curTo := from, to
	compFrom, compTo := "", ""
	bucketG := g
	if g == models.YTD {
		curFrom, curTo = timeseries.YTDWindow(to)
		compFrom, compTo = timeseries.YTDCompareWindow(to)
		bucketG = models.Monthly
	} else {
		compFrom, compTo = timeseries.CompareWindow(from, to, mode)
	}

	rows := s.rows.Rows(customer)
	cur := timeseries.Aggregate(timeseries.FilterRange(rows, curFrom, curTo), bucketG)
	prev := timeseries.Aggregate(timeseries.FilterRange(rows, compFrom, compTo), bucketG)

	resp := &SeriesResponse{
		From: curFrom, To: curTo,
		CompareFrom: compFrom, CompareTo: compTo,
		Granularity: g,
		Current:     toSeries(cur),
		Previous:    toSeries(prev),
	}
	if err := s.cache.Set(ctx, key, resp); err != nil {
		s.log.Warn("cache write failed", slog.String("err", err.Error()))
	}
	return resp, nil
}

func toSeries(buckets []models.Bucket) map[string][]models.SeriesPoint {
	out := make(map[string][]models.SeriesPoint, len(seriesMetrics))
	for name, get := range seriesMetrics {
		pts := make([]models.SeriesPoint, 0, len(buckets))
		for _, b := range buckets {
			pts = append(pts, models.SeriesPoint{Label: b.Key, Value: get(b.Sums)})
		}
		out[name] = pts
	}
	return out
}

// SummaryResponse pairs the current and comparison period roll-ups.
type SummaryResponse struct {
	Current  models.Summary `json:"current"`
	Previous models.Summary `json:"previous"`
}

// Summary reduces [from, to] and its comparison window to scalar
// roll-ups, with per-metric percentage deltas on the current side.
func (s *Service) Summary(ctx context.Context, customer, from, to string, mode models.CompareMode) (*SummaryResponse, error) {
	key := cache.Key(customer, "summary", from, to, string(mode))
	var cached SummaryResponse
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	compFrom, compTo := timeseries.CompareWindow(from, to, mode)
	rows := s.rows.Rows(customer)
	cur := summarize(timeseries.FilterRange(rows, from, to), from, to)
	prev := summarize(timeseries.FilterRange(rows, compFrom, compTo), compFrom, compTo)

	cur.Deltas = make(map[string]*float64, len(seriesMetrics))
	for name, get := range seriesMetrics {
		cur.Deltas[name] = kpi.DeltaPercent(summaryMetric(cur, name, get), summaryMetric(prev, name, get))
	}

	resp := &SummaryResponse{Current: cur, Previous: prev}
	if err := s.cache.Set(ctx, key, resp); err != nil {
		s.log.Warn("cache write failed", slog.String("err", err.Error()))
	}
	return resp, nil
}

func summarize(rows []models.MetricRow, from, to string) models.Summary {
	t := timeseries.SumPeriod(rows)
	return models.Summary{
		From: from, To: to,
		Revenue:         t.Revenue,
		GrossProfit:     t.GrossProfit,
		Orders:          t.Orders,
		Cost:            t.Cost,
		Impressions:     t.Impressions,
		Clicks:          t.Clicks,
		Conversions:     t.Conversions,
		ConversionValue: t.ConversionValue,
		Sessions:        t.Sessions,
		NetSales:        t.NetSales,
		AdSpend:         t.AdSpend,
		ChannelSessions: t.ChannelSessions,
		ROAS:            t.ROAS,
		POAS:            t.POAS,
		AOV:             t.AOV,
		CTR:             t.CTR,
		CPC:             t.CPC,
		CPM:             t.CPM,
		ConvRate:        t.ConvRate,
	}
}

func summaryMetric(sum models.Summary, name string, get func(models.MetricRow) float64) float64 {
	// Summary mirrors the MetricRow sum fields, so rebuild a row view
	// for the shared extractors.
	return get(models.MetricRow{
		Revenue: sum.Revenue, GrossProfit: sum.GrossProfit, Orders: sum.Orders,
		Cost: sum.Cost, Impressions: sum.Impressions, Clicks: sum.Clicks,
		Conversions: sum.Conversions, ConversionValue: sum.ConversionValue,
		Sessions: sum.Sessions, NetSales: sum.NetSales, AdSpend: sum.AdSpend,
		ROAS: sum.ROAS, POAS: sum.POAS, AOV: sum.AOV, CTR: sum.CTR,
		CPC: sum.CPC, CPM: sum.CPM, ConvRate: sum.ConvRate,
	})
}

// PaceResponse tracks the three budgeted metrics against the month.
type PaceResponse struct {
	Month       string         `json:"month"`
	DaysInMonth int            `json:"days_in_month"`
	DaysElapsed int            `json:"days_elapsed"`
	Revenue     kpi.PaceReport `json:"revenue"`
	Orders      kpi.PaceReport `json:"orders"`
	AdSpend     kpi.PaceReport `json:"ad_spend"`
}

// Pace extrapolates the cumulative sums of [from, to] against the
// monthly budgets of the month containing to. Budgets come from the
// settings store; override strings (free text) win when present.
func (s *Service) Pace(ctx context.Context, customer, from, to string, override map[string]string) (*PaceResponse, error) {
	end, err := time.Parse("2006-01-02", to)
	if err != nil {
		return nil, fmt.Errorf("bad date %q", to)
	}
	month := end.Format("2006-01")

	budget := models.PaceBudget{CustomerID: customer, Month: month}
	if s.settings != nil {
		if b, err := s.settings.PaceBudget(ctx, customer, month); err == nil {
			budget = *b
		} else if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
	}
	if v, ok := override["revenue_budget"]; ok {
		budget.RevenueBudget = kpi.ParseAmount(v)
	}
	if v, ok := override["orders_budget"]; ok {
		budget.OrdersBudget = kpi.ParseAmount(v)
	}
	if v, ok := override["ad_spend_budget"]; ok {
		budget.AdSpendBudget = kpi.ParseAmount(v)
	}

	total := timeseries.SumPeriod(timeseries.FilterRange(s.rows.Rows(customer), from, to))
	daysInMonth := kpi.DaysInMonth(end)
	daysElapsed := timeseries.DaysInclusive(from, to)

	pace := func(b, cum float64) kpi.PaceReport {
		return kpi.Pace(kpi.PaceInput{Budget: b, Cumulative: cum, DaysInMonth: daysInMonth, DaysElapsed: daysElapsed})
	}
	return &PaceResponse{
		Month:       month,
		DaysInMonth: daysInMonth,
		DaysElapsed: daysElapsed,
		Revenue:     pace(budget.RevenueBudget, total.Revenue),
		Orders:      pace(budget.OrdersBudget, total.Orders),
		AdSpend:     pace(budget.AdSpendBudget, total.AdSpend),
	}, nil
}

// PnL runs the waterfall for [from, to] using the customer's stored
// static expenses. When currency differs from baseCurrency, the
// monetary inputs are rebased before the decomposition.
func (s *Service) PnL(ctx context.Context, customer, from, to, baseCurrency, currency string) (*kpi.Waterfall, error) {
	if s.settings == nil {
		return nil, fmt.Errorf("settings store not configured")
	}
	exp, err := s.settings.StaticExpenses(ctx, customer)
	if err != nil {
		return nil, err
	}

	total := timeseries.SumPeriod(timeseries.FilterRange(s.rows.Rows(customer), from, to))
	netSales := total.NetSales
	spend := marketingSpend(total)

	if currency != "" && currency != baseCurrency && s.conv != nil {
		netSales = s.conv.Convert(netSales, baseCurrency, currency)
		spend = s.conv.Convert(spend, baseCurrency, currency)
		exp = convertExpenses(s.conv, *exp, baseCurrency, currency)
	}

	w := kpi.ComputeWaterfall(netSales, total.Orders, spend, *exp)
	return &w, nil
}

// marketingSpend prefers the consolidated ad_spend column; dashboards
// that only deliver per-platform spend fall back to the platform sum.
func marketingSpend(t models.MetricRow) float64 {
	if t.AdSpend > 0 {
		return t.AdSpend
	}
	return t.GoogleAdsCost + t.MetaSpend
}

func convertExpenses(conv *kpi.Converter, e models.StaticExpenses, from, to string) *models.StaticExpenses {
	// Percentages are currency-neutral; only absolute amounts rebased.
	e.ShippingCostPerOrder = conv.Convert(e.ShippingCostPerOrder, from, to)
	e.MarketingBureauCost = conv.Convert(e.MarketingBureauCost, from, to)
	e.MarketingToolingCost = conv.Convert(e.MarketingToolingCost, from, to)
	e.FixedExpenses = conv.Convert(e.FixedExpenses, from, to)
	return &e
}
