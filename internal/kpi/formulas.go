package kpi

import (
	"fmt"
	"strconv"
	"strings"
)

// SafeDiv divides a by b, returning 0 when the denominator is zero.
// Every ratio in the package goes through this guard so malformed
// business data renders as 0 instead of NaN or Inf.
func SafeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

func ROAS(revenue, cost float64) float64      { return SafeDiv(revenue, cost) }
func POAS(grossProfit, cost float64) float64  { return SafeDiv(grossProfit, cost) }
func AOV(revenue, orders float64) float64     { return SafeDiv(revenue, orders) }
func CTR(clicks, impressions float64) float64 { return SafeDiv(clicks, impressions) }
func CPC(cost, clicks float64) float64        { return SafeDiv(cost, clicks) }
func CPM(cost, impressions float64) float64   { return SafeDiv(cost, impressions) * 1000 }

func ConversionRate(conversions, clicks float64) float64 { return SafeDiv(conversions, clicks) }

// DeltaPercent is the percentage change of current against prev. A zero
// baseline has no meaningful delta, so the result is nil rather than an
// infinite percentage.
func DeltaPercent(current, prev float64) *float64 {
	if prev == 0 {
		return nil
	}
	d := (current - prev) / prev * 100
	return &d
}

// FormatDelta renders a delta as a signed one-decimal percentage, e.g.
// "+20.0%" or "-20.0%". Nil when the baseline is zero.
func FormatDelta(current, prev float64) *string {
	d := DeltaPercent(current, prev)
	if d == nil {
		return nil
	}
	s := fmt.Sprintf("%+.1f%%", *d)
	return &s
}

// ParseAmount parses a budget figure out of free-text input by dropping
// everything that is not part of a number ("DKK 12.500" -> 12.500).
func ParseAmount(s string) float64 {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return v
}

func Round2(f float64) float64 { return float64(int64(f*100+0.5)) / 100 }
func Round3(f float64) float64 { return float64(int64(f*1000+0.5)) / 1000 }
