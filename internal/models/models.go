package models

// Granularity selects how daily rows are bucketed for series views.
type Granularity string

const (
	Daily   Granularity = "daily"
	Weekly  Granularity = "weekly"
	Monthly Granularity = "monthly"
	YTD     Granularity = "ytd"
)

// CompareMode selects how the comparison window is derived from the
// current window.
type CompareMode string

const (
	PreviousYear   CompareMode = "previous_year"
	PreviousPeriod CompareMode = "previous_period"
)

// MetricRow is one observation for one calendar day for one customer.
// Which additive fields are populated depends on the dashboard the row
// was fetched for; absent fields stay zero.
type MetricRow struct {
	Date string `json:"date"` // YYYY-MM-DD

	Revenue         float64 `json:"revenue"`
	GrossProfit     float64 `json:"gross_profit"`
	Orders          float64 `json:"orders"`
	Cost            float64 `json:"cost"`
	GoogleAdsCost   float64 `json:"google_ads_cost"`
	MetaSpend       float64 `json:"meta_spend"`
	Impressions     float64 `json:"impressions"`
	Clicks          float64 `json:"clicks"`
	Conversions     float64 `json:"conversions"`
	ConversionValue float64 `json:"conversion_value"`
	Sessions        float64 `json:"sessions"`
	NetSales        float64 `json:"net_sales"`
	AdSpend         float64 `json:"ad_spend"`

	ChannelSessions map[string]float64 `json:"channel_sessions,omitempty"`

	// Ratio fields may arrive on input but are recomputed after every
	// aggregation step, never carried forward.
	ROAS     float64 `json:"roas"`
	POAS     float64 `json:"poas"`
	AOV      float64 `json:"aov"`
	CTR      float64 `json:"ctr"`
	CPC      float64 `json:"cpc"`
	CPM      float64 `json:"cpm"`
	ConvRate float64 `json:"conv_rate"`
	OpenRate float64 `json:"open_rate"`
}

// Bucket groups one or more MetricRows under a single period key: the
// date itself (daily), the Monday of the ISO week (weekly) or YYYY-MM
// (monthly). Additive fields hold sums; ratio fields are recomputed
// from those sums.
type Bucket struct {
	Key  string    `json:"key"`
	Rows int       `json:"rows"`
	Sums MetricRow `json:"sums"`
}

// SeriesPoint is one chart-ready observation for a single metric.
type SeriesPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Summary is the scalar roll-up of one period, with ratios recomputed
// from the period sums. Delta values are percentage changes against the
// comparison period; nil when the baseline is zero.
type Summary struct {
	From string `json:"from"`
	To   string `json:"to"`

	Revenue         float64 `json:"revenue"`
	GrossProfit     float64 `json:"gross_profit"`
	Orders          float64 `json:"orders"`
	Cost            float64 `json:"cost"`
	Impressions     float64 `json:"impressions"`
	Clicks          float64 `json:"clicks"`
	Conversions     float64 `json:"conversions"`
	ConversionValue float64 `json:"conversion_value"`
	Sessions        float64 `json:"sessions"`
	NetSales        float64 `json:"net_sales"`
	AdSpend         float64 `json:"ad_spend"`

	ChannelSessions map[string]float64 `json:"channel_sessions,omitempty"`

	ROAS     float64 `json:"roas"`
	POAS     float64 `json:"poas"`
	AOV      float64 `json:"aov"`
	CTR      float64 `json:"ctr"`
	CPC      float64 `json:"cpc"`
	CPM      float64 `json:"cpm"`
	ConvRate float64 `json:"conv_rate"`

	Deltas map[string]*float64 `json:"deltas,omitempty"`
}

// StaticExpenses is the per-customer cost configuration feeding the P&L
// waterfall. Owned by the settings store; read-only input here.
type StaticExpenses struct {
	CustomerID             string  `json:"customer_id"`
	COGSPercentage         float64 `json:"cogs_percentage"`
	ShippingCostPerOrder   float64 `json:"shipping_cost_per_order"`
	TransactionCostPercent float64 `json:"transaction_cost_percentage"`
	MarketingBureauCost    float64 `json:"marketing_bureau_cost"`
	MarketingToolingCost   float64 `json:"marketing_tooling_cost"`
	FixedExpenses          float64 `json:"fixed_expenses"`
}

// PaceBudget carries the user-entered monthly targets for pace tracking.
type PaceBudget struct {
	CustomerID    string  `json:"customer_id"`
	Month         string  `json:"month"` // YYYY-MM
	RevenueBudget float64 `json:"revenue_budget"`
	OrdersBudget  float64 `json:"orders_budget"`
	AdSpendBudget float64 `json:"ad_spend_budget"`
}

// ParseGranularity maps a query value onto a Granularity, defaulting to
// daily for anything unrecognized.
func ParseGranularity(s string) Granularity {
	switch Granularity(s) {
	case Weekly, Monthly, YTD:
		return Granularity(s)
	default:
		return Daily
	}
}

// ParseCompareMode defaults to previous_period.
func ParseCompareMode(s string) CompareMode {
	if CompareMode(s) == PreviousYear {
		return PreviousYear
	}
	return PreviousPeriod
}
