package kpi

import "time"

// PaceInput holds one metric's budget tracking state inside a calendar
// month: the monthly target, the cumulative actual over the filtered
// window, and the day counts of that window.
type PaceInput struct {
	Budget      float64 `json:"budget"`
	Cumulative  float64 `json:"cumulative"`
	DaysInMonth int     `json:"days_in_month"`
	DaysElapsed int     `json:"days_elapsed"`
}

// PaceReport is the extrapolated budget position for one metric.
type PaceReport struct {
	Budget         float64 `json:"budget"`
	Cumulative     float64 `json:"cumulative"`
	ProjectedTotal float64 `json:"projected_total"`
	PaceRatio      float64 `json:"pace_ratio"`
	DaysRemaining  int     `json:"days_remaining"`
	DailyGap       float64 `json:"daily_gap"`
}

// Pace extrapolates the cumulative actual across the month and relates
// it to the budget. On the first elapsed day the projection is zero, so
// the ratio guard kicks in instead of dividing by a near-zero value.
func Pace(in PaceInput) PaceReport {
	r := PaceReport{Budget: in.Budget, Cumulative: in.Cumulative}
	if in.DaysInMonth > 0 {
		r.ProjectedTotal = in.Cumulative / float64(in.DaysInMonth) * float64(in.DaysElapsed-1)
	}
	if r.ProjectedTotal > 0 {
		r.PaceRatio = in.Budget / r.ProjectedTotal
	}
	r.DaysRemaining = in.DaysInMonth - in.DaysElapsed
	if r.DaysRemaining > 0 {
		r.DailyGap = (in.Budget - in.Cumulative) / float64(r.DaysRemaining)
	} else {
		r.DaysRemaining = 0
	}
	return r
}

// DaysInMonth returns the calendar length of the month containing t.
func DaysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
