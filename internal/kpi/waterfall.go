package kpi

import "github.com/angelcm/commerce-insights-go/internal/models"

// Waterfall is the DB1/DB2/DB3 profit decomposition of one period.
//
// The share percentages are the fraction of total costs that is still
// ahead of (not yet deducted at) each stage. They drive circular
// progress indicators in the dashboard and are deliberately not margin
// percentages.
type Waterfall struct {
	NetSales       float64 `json:"net_sales"`
	Orders         float64 `json:"orders"`
	MarketingSpend float64 `json:"marketing_spend"`

	COGS            float64 `json:"cogs"`
	DB1             float64 `json:"db1"`
	ShippingCost    float64 `json:"shipping_cost"`
	TransactionCost float64 `json:"transaction_cost"`
	DB2             float64 `json:"db2"`
	MarketingCosts  float64 `json:"marketing_costs"`
	DB3             float64 `json:"db3"`
	FixedExpenses   float64 `json:"fixed_expenses"`
	Result          float64 `json:"result"`

	TotalCosts    float64 `json:"total_costs"`
	RealizedROAS  float64 `json:"realized_roas"`
	BreakEvenROAS float64 `json:"break_even_roas"`

	DB1SharePct float64 `json:"db1_share_pct"`
	DB2SharePct float64 `json:"db2_share_pct"`
	DB3SharePct float64 `json:"db3_share_pct"`
}

// ComputeWaterfall runs the P&L decomposition for one period given the
// period sums and the customer's static expense configuration.
func ComputeWaterfall(netSales, orders, marketingSpend float64, exp models.StaticExpenses) Waterfall {
	w := Waterfall{NetSales: netSales, Orders: orders, MarketingSpend: marketingSpend}

	w.COGS = netSales * exp.COGSPercentage
	w.DB1 = netSales - w.COGS
	w.ShippingCost = orders * exp.ShippingCostPerOrder
	w.TransactionCost = netSales * exp.TransactionCostPercent
	w.DB2 = w.DB1 - w.ShippingCost - w.TransactionCost
	w.MarketingCosts = marketingSpend + exp.MarketingBureauCost + exp.MarketingToolingCost
	w.DB3 = w.DB2 - w.MarketingCosts
	w.FixedExpenses = exp.FixedExpenses
	w.Result = w.DB3 - exp.FixedExpenses

	w.TotalCosts = w.COGS + w.ShippingCost + w.TransactionCost + w.MarketingCosts + exp.FixedExpenses
	w.RealizedROAS = SafeDiv(netSales, marketingSpend)
	w.BreakEvenROAS = SafeDiv(w.TotalCosts, marketingSpend)

	// Costs-remaining share after each stage's deductions.
	w.DB1SharePct = costsRemainingPct(w.TotalCosts, w.COGS)
	w.DB2SharePct = costsRemainingPct(w.TotalCosts, w.COGS+w.ShippingCost+w.TransactionCost)
	w.DB3SharePct = costsRemainingPct(w.TotalCosts, w.COGS+w.ShippingCost+w.TransactionCost+w.MarketingCosts)
	return w
}

func costsRemainingPct(totalCosts, removed float64) float64 {
	return SafeDiv(totalCosts-removed, totalCosts) * 100
}
