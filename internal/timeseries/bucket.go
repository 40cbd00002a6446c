package timeseries

import (
	"sort"
	"time"

	"github.com/angelcm/commerce-insights-go/internal/kpi"
	"github.com/angelcm/commerce-insights-go/internal/models"
)

// ratioDef recomputes one ratio field from a bucket's summed
// numerator/denominator. Ratios coming in on rows are discarded; the
// mean of per-row ratios is not the period ratio. Monetary ratios get
// two decimals, rate ratios three.
type ratioDef struct {
	num   func(models.MetricRow) float64
	den   func(models.MetricRow) float64
	scale float64
	round func(float64) float64
	set   func(*models.MetricRow, float64)
}

var ratios = []ratioDef{
	{num: func(m models.MetricRow) float64 { return m.Revenue }, den: func(m models.MetricRow) float64 { return m.Cost }, scale: 1,
		round: kpi.Round2, set: func(m *models.MetricRow, v float64) { m.ROAS = v }},
	{num: func(m models.MetricRow) float64 { return m.GrossProfit }, den: func(m models.MetricRow) float64 { return m.Cost }, scale: 1,
		round: kpi.Round2, set: func(m *models.MetricRow, v float64) { m.POAS = v }},
	{num: func(m models.MetricRow) float64 { return m.Revenue }, den: func(m models.MetricRow) float64 { return m.Orders }, scale: 1,
		round: kpi.Round2, set: func(m *models.MetricRow, v float64) { m.AOV = v }},
	{num: func(m models.MetricRow) float64 { return m.Clicks }, den: func(m models.MetricRow) float64 { return m.Impressions }, scale: 1,
		round: kpi.Round3, set: func(m *models.MetricRow, v float64) { m.CTR = v }},
	{num: func(m models.MetricRow) float64 { return m.Cost }, den: func(m models.MetricRow) float64 { return m.Clicks }, scale: 1,
		round: kpi.Round3, set: func(m *models.MetricRow, v float64) { m.CPC = v }},
	{num: func(m models.MetricRow) float64 { return m.Cost }, den: func(m models.MetricRow) float64 { return m.Impressions }, scale: 1000,
		round: kpi.Round2, set: func(m *models.MetricRow, v float64) { m.CPM = v }},
	{num: func(m models.MetricRow) float64 { return m.Conversions }, den: func(m models.MetricRow) float64 { return m.Clicks }, scale: 1,
		round: kpi.Round3, set: func(m *models.MetricRow, v float64) { m.ConvRate = v }},
}

// Aggregate re-buckets daily rows at the requested granularity. Daily
// is an identity pass (one bucket per distinct date, duplicates merge).
// Weekly buckets key on the Monday of the Mon–Sun span containing the
// date; monthly buckets key on YYYY-MM. Rows with unparseable dates are
// dropped. Output is sorted ascending by key.
func Aggregate(rows []models.MetricRow, g models.Granularity) []models.Bucket {
	byKey := make(map[string]*models.Bucket)
	for _, r := range rows {
		key, ok := bucketKey(r.Date, g)
		if !ok {
			continue
		}
		b, exists := byKey[key]
		if !exists {
			b = &models.Bucket{Key: key, Sums: models.MetricRow{Date: key}}
			byKey[key] = b
		}
		addRow(&b.Sums, r)
		b.Rows++
	}

	out := make([]models.Bucket, 0, len(byKey))
	for _, b := range byKey {
		finalize(&b.Sums)
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// SumPeriod collapses rows into a single period total with ratios
// recomputed from the summed fields.
func SumPeriod(rows []models.MetricRow) models.MetricRow {
	var total models.MetricRow
	for _, r := range rows {
		addRow(&total, r)
	}
	finalize(&total)
	return total
}

func bucketKey(date string, g models.Granularity) (string, bool) {
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return "", false
	}
	switch g {
	case models.Weekly:
		return mondayOf(d).Format(dateLayout), true
	case models.Monthly, models.YTD:
		return d.Format("2006-01"), true
	default:
		return d.Format(dateLayout), true
	}
}

// mondayOf maps a date onto the Monday starting its week: Sunday goes
// back six days, any other day goes back weekday-1 days.
func mondayOf(d time.Time) time.Time {
	wd := int(d.Weekday())
	if wd == 0 {
		return d.AddDate(0, 0, -6)
	}
	return d.AddDate(0, 0, -(wd - 1))
}

func addRow(dst *models.MetricRow, src models.MetricRow) {
	dst.Revenue += src.Revenue
	dst.GrossProfit += src.GrossProfit
	dst.Orders += src.Orders
	dst.Cost += src.Cost
	dst.GoogleAdsCost += src.GoogleAdsCost
	dst.MetaSpend += src.MetaSpend
	dst.Impressions += src.Impressions
	dst.Clicks += src.Clicks
	dst.Conversions += src.Conversions
	dst.ConversionValue += src.ConversionValue
	dst.Sessions += src.Sessions
	dst.NetSales += src.NetSales
	dst.AdSpend += src.AdSpend
	if len(src.ChannelSessions) > 0 {
		if dst.ChannelSessions == nil {
			dst.ChannelSessions = make(map[string]float64, len(src.ChannelSessions))
		}
		for ch, n := range src.ChannelSessions {
			dst.ChannelSessions[ch] += n
		}
	}
}

func finalize(m *models.MetricRow) {
	for _, r := range ratios {
		r.set(m, r.round(kpi.SafeDiv(r.num(*m), r.den(*m))*r.scale))
	}
	// Open rate has no numerator/denominator pair in the row schema, so
	// it cannot be recomputed and is dropped instead of carried forward.
	m.OpenRate = 0
}
