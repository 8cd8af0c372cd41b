package ta

import "math"

func SMA(vals []float64, n int) float64 {
	if len(vals) < n || n <= 0 {
		return math.NaN()
	}
	sum := 0.0
	for i := len(vals) - n; i < len(vals); i++ {
		sum += vals[i]
	}
	return sum / float64(n)
}

// EMASeries computes the exponential moving average of vals with smoothing
// k = 2/(period+1), seeded with the simple average of the first period
// values. The result is aligned so result[i] is the EMA at vals index
// period-1+i; nil when there is not enough data.
func EMASeries(vals []float64, period int) []float64 {
	if period <= 0 || len(vals) < period {
		return nil
	}
	k := 2.0 / (float64(period) + 1.0)
	out := make([]float64, 0, len(vals)-period+1)

	seed := 0.0
	for _, v := range vals[:period] {
		seed += v
	}
	seed /= float64(period)
	out = append(out, seed)

	prev := seed
	for _, v := range vals[period:] {
		prev = v*k + prev*(1.0-k)
		out = append(out, prev)
	}
	return out
}

// MACDResult holds the latest MACD line, signal and histogram values.
type MACDResult struct {
	Line      float64
	Signal    float64
	Histogram float64
}

// Positive reports whether the MACD line is above its signal line at the
// latest point, the momentum precondition for every entry pattern.
func (m MACDResult) Positive() bool {
	return m.Line > m.Signal
}

// MACD computes the latest MACD(fast, slow, signal) values from closes.
// It needs at least slow+signal observations; ok is false otherwise.
func MACD(closes []float64, fast, slow, signal int) (MACDResult, bool) {
	if fast <= 0 || slow <= fast || signal <= 0 {
		return MACDResult{}, false
	}
	if len(closes) < slow+signal {
		return MACDResult{}, false
	}

	emaFast := EMASeries(closes, fast)
	emaSlow := EMASeries(closes, slow)

	// The line exists only where both EMAs are defined, i.e. from closes
	// index slow-1 onward.
	offset := slow - fast
	line := make([]float64, len(emaSlow))
	for i := range emaSlow {
		line[i] = emaFast[i+offset] - emaSlow[i]
	}

	sig := EMASeries(line, signal)
	if len(sig) == 0 {
		return MACDResult{}, false
	}

	res := MACDResult{
		Line:   line[len(line)-1],
		Signal: sig[len(sig)-1],
	}
	res.Histogram = res.Line - res.Signal
	if math.IsNaN(res.Line) || math.IsInf(res.Line, 0) ||
		math.IsNaN(res.Signal) || math.IsInf(res.Signal, 0) {
		return MACDResult{}, false
	}
	return res, true
}
