package kpi

import (
	"log/slog"

	"github.com/shopspring/decimal"
)

// Converter rebases amounts between currencies through a static table
// of units-per-USD rates. Decimal arithmetic keeps the intermediate
// division exact; the caller-facing value stays float64 like the rest
// of the metric pipeline.
type Converter struct {
	rates map[string]decimal.Decimal
	log   *slog.Logger
}

// DefaultRates is the built-in units-per-USD table used when the caller
// supplies none.
var DefaultRates = map[string]float64{
	"USD": 1,
	"EUR": 0.92,
	"GBP": 0.79,
	"DKK": 6.86,
	"SEK": 10.42,
	"NOK": 10.61,
}

func NewConverter(rates map[string]float64, log *slog.Logger) *Converter {
	if rates == nil {
		rates = DefaultRates
	}
	m := make(map[string]decimal.Decimal, len(rates))
	for c, r := range rates {
		m[c] = decimal.NewFromFloat(r)
	}
	return &Converter{rates: m, log: log}
}

// Convert rebases amount from one currency to another. Identity when
// the currencies match; unknown currencies pass the amount through
// unconverted with a warning.
func (c *Converter) Convert(amount float64, from, to string) float64 {
	if from == to {
		return amount
	}
	rf, okFrom := c.rates[from]
	rt, okTo := c.rates[to]
	if !okFrom || !okTo || rf.IsZero() {
		if c.log != nil {
			c.log.Warn("unknown currency, passing amount through",
				slog.String("from", from), slog.String("to", to))
		}
		return amount
	}
	v, _ := decimal.NewFromFloat(amount).Div(rf).Mul(rt).Float64()
	return v
}

// Known reports whether the converter has a rate for the currency.
func (c *Converter) Known(currency string) bool {
	_, ok := c.rates[currency]
	return ok
}
