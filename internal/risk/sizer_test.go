package risk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSizeBasic(t *testing.T) {
	act, ok := Size(SizeInputs{
		Equity:       10000,
		RiskPct:      0.01,
		TriggerPrice: 20,
		StopRef:      19.5,
		PriceNow:     19.9,
	})
	require.True(t, ok)
	assert.Equal(t, 100.0, act.RiskDollars)
	assert.Equal(t, 0.5, act.RiskPerShare)
	assert.Equal(t, 200, act.Shares)
}

func TestSizeFloors(t *testing.T) {
	act, ok := Size(SizeInputs{
		Equity:       10000,
		RiskPct:      0.01,
		TriggerPrice: 20,
		StopRef:      19.7,
		PriceNow:     19.9,
	})
	require.True(t, ok)
	// 100 / 0.3 = 333.33 -> 333
	assert.Equal(t, 333, act.Shares)
}

func TestSizeFallsBackToOnePercentFloor(t *testing.T) {
	// stop above trigger: degenerate distance
	act, ok := Size(SizeInputs{
		Equity:       10000,
		RiskPct:      0.01,
		TriggerPrice: 20,
		StopRef:      21,
		PriceNow:     20,
	})
	require.True(t, ok)
	assert.Equal(t, 0.2, act.RiskPerShare) // 1% of 20
	assert.Equal(t, 500, act.Shares)

	// NaN stop reference
	act, ok = Size(SizeInputs{
		Equity:       10000,
		RiskPct:      0.01,
		TriggerPrice: 20,
		StopRef:      math.NaN(),
		PriceNow:     20,
	})
	require.True(t, ok)
	assert.Equal(t, 0.2, act.RiskPerShare)
}

func TestSizeRejectsNonPositiveResults(t *testing.T) {
	// zero equity -> zero shares
	_, ok := Size(SizeInputs{Equity: 0, RiskPct: 0.01, TriggerPrice: 20, StopRef: 19.5, PriceNow: 20})
	assert.False(t, ok)

	// zero price with degenerate stop -> division blows up -> rejected
	_, ok = Size(SizeInputs{Equity: 10000, RiskPct: 0.01, TriggerPrice: 0, StopRef: 0, PriceNow: 0})
	assert.False(t, ok)

	// risk per share bigger than risk budget -> floor to 0 shares
	_, ok = Size(SizeInputs{Equity: 100, RiskPct: 0.01, TriggerPrice: 25, StopRef: 20, PriceNow: 25})
	assert.False(t, ok)
}
