package risk

import (
	"math"

	"breakout-trading-bot/internal/types"
)

// SizeInputs feed the position sizer.
type SizeInputs struct {
	Equity       float64
	RiskPct      float64 // fraction of equity risked per trade, e.g. 0.01
	TriggerPrice float64
	StopRef      float64 // pullback: red bar low; abcd: point C
	PriceNow     float64
}

// Size turns an equity and a stop distance into a share count. When the
// stop distance is degenerate it falls back to risking 1% of the current
// price per share. ok is false when no positive share count results.
func Size(in SizeInputs) (types.SignalAction, bool) {
	riskDollars := in.Equity * in.RiskPct

	riskPerShare := in.TriggerPrice - in.StopRef
	if math.IsNaN(riskPerShare) || math.IsInf(riskPerShare, 0) || riskPerShare <= 0 {
		riskPerShare = in.PriceNow * 0.01
	}

	shares := math.Floor(riskDollars / riskPerShare)
	if math.IsNaN(shares) || math.IsInf(shares, 0) || shares <= 0 {
		return types.SignalAction{}, false
	}

	return types.SignalAction{
		PriceNow:     in.PriceNow,
		TriggerPrice: in.TriggerPrice,
		Shares:       int(shares),
		RiskDollars:  riskDollars,
		RiskPerShare: riskPerShare,
	}, true
}
