package kpi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeDivZeroDenominator(t *testing.T) {
	assert.Equal(t, 0.0, SafeDiv(10, 0))
	assert.Equal(t, 0.0, SafeDiv(0, 0))
	assert.Equal(t, 2.5, SafeDiv(5, 2))
}

func TestRatioZeroGuards(t *testing.T) {
	// cost=0 everywhere must yield 0, never NaN or Inf
	assert.Equal(t, 0.0, ROAS(1000, 0))
	assert.Equal(t, 0.0, POAS(400, 0))
	assert.Equal(t, 0.0, CPC(0, 0))
	assert.Equal(t, 0.0, CPM(0, 0))
	assert.Equal(t, 0.0, AOV(500, 0))
	assert.Equal(t, 0.0, CTR(10, 0))
	assert.Equal(t, 0.0, ConversionRate(5, 0))
}

func TestRatioValues(t *testing.T) {
	assert.InDelta(t, 4.0, ROAS(1000, 250), 1e-9)
	assert.InDelta(t, 0.1, CTR(10, 100), 1e-9)
	assert.InDelta(t, 25.0, CPM(5, 200), 1e-9)
	assert.InDelta(t, 120.0, AOV(600, 5), 1e-9)
}

func TestRounding(t *testing.T) {
	assert.Equal(t, 0.33, Round2(1.0/3.0))
	assert.Equal(t, 2.67, Round2(2.0/0.75))
	assert.Equal(t, 0.333, Round3(1.0/3.0))
	assert.Equal(t, 0.667, Round3(2.0/3.0))
	assert.Equal(t, 0.0, Round2(0))
}

func TestDeltaSignConvention(t *testing.T) {
	up := FormatDelta(120, 100)
	require.NotNil(t, up)
	assert.Equal(t, "+20.0%", *up)

	down := FormatDelta(80, 100)
	require.NotNil(t, down)
	assert.Equal(t, "-20.0%", *down)

	assert.Nil(t, FormatDelta(50, 0), "zero baseline has no delta")
	assert.Nil(t, DeltaPercent(50, 0))

	d := DeltaPercent(110, 100)
	require.NotNil(t, d)
	assert.InDelta(t, 10.0, *d, 1e-9)
}

func TestParseAmount(t *testing.T) {
	assert.Equal(t, 12500.0, ParseAmount("DKK 12500"))
	assert.Equal(t, 99.5, ParseAmount("$99.5 per month"))
	assert.Equal(t, -40.0, ParseAmount("-40"))
	assert.Equal(t, 0.0, ParseAmount("no numbers here"))
	assert.Equal(t, 0.0, ParseAmount(""))
}
