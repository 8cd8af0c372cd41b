package ta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEMASeriesSeedsWithSimpleAverage(t *testing.T) {
	vals := []float64{1, 2, 3, 4, 5}
	out := EMASeries(vals, 3)
	require.Len(t, out, 3)
	assert.InDelta(t, 2.0, out[0], 1e-9) // (1+2+3)/3

	// k = 2/(3+1) = 0.5
	assert.InDelta(t, 4*0.5+2.0*0.5, out[1], 1e-9)
	assert.InDelta(t, 5*0.5+3.0*0.5, out[2], 1e-9)
}

func TestEMASeriesConstantInput(t *testing.T) {
	vals := make([]float64, 40)
	for i := range vals {
		vals[i] = 7.5
	}
	for _, v := range EMASeries(vals, 9) {
		assert.InDelta(t, 7.5, v, 1e-9)
	}
}

func TestEMASeriesInsufficientData(t *testing.T) {
	assert.Nil(t, EMASeries([]float64{1, 2}, 3))
	assert.Nil(t, EMASeries(nil, 3))
	assert.Nil(t, EMASeries([]float64{1, 2, 3}, 0))
}

func TestMACDMonotonicIncreasing(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	res, ok := MACD(closes, 12, 26, 9)
	require.True(t, ok)
	assert.Greater(t, res.Line, 0.0)
	assert.True(t, res.Positive() || res.Line <= res.Signal)
}

func TestMACDMonotonicDecreasing(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 200 - float64(i)
	}
	res, ok := MACD(closes, 12, 26, 9)
	require.True(t, ok)
	assert.Less(t, res.Line, 0.0)
}

func TestMACDRequiresSlowPlusSignal(t *testing.T) {
	closes := make([]float64, 34) // one short of 26+9
	for i := range closes {
		closes[i] = float64(i)
	}
	_, ok := MACD(closes, 12, 26, 9)
	assert.False(t, ok)

	closes = append(closes, 35)
	_, ok = MACD(closes, 12, 26, 9)
	assert.True(t, ok)
}

func TestMACDHistogramIsLineMinusSignal(t *testing.T) {
	closes := make([]float64, 80)
	for i := range closes {
		closes[i] = 50 + float64(i%7)
	}
	res, ok := MACD(closes, 12, 26, 9)
	require.True(t, ok)
	assert.InDelta(t, res.Line-res.Signal, res.Histogram, 1e-12)
}
