// Package scanner runs the per-symbol signal pipeline: momentum gate,
// pattern detection, breakout confirmation, position sizing.
package scanner

import (
	"context"

	"breakout-trading-bot/internal/interfaces"
	"breakout-trading-bot/internal/logger"
	"breakout-trading-bot/internal/pattern"
	"breakout-trading-bot/internal/risk"
	"breakout-trading-bot/internal/ta"
	"breakout-trading-bot/internal/types"
)

// Standard MACD periods.
const (
	FastPeriod   = 12
	SlowPeriod   = 26
	SignalPeriod = 9
)

// SkipReason names why a symbol produced no signal this run. Every skip is
// final for the run; setups are not remembered across runs.
type SkipReason string

const (
	SkipNone             SkipReason = ""
	SkipPositionOpen     SkipReason = "position-open"
	SkipBarsFetchFailed  SkipReason = "bars-fetch-failed"
	SkipInsufficientBars SkipReason = "insufficient-bars"
	SkipMACDUndefined    SkipReason = "macd-undefined"
	SkipMACDNegative     SkipReason = "macd-negative"
	SkipNoPattern        SkipReason = "no-pattern"
	SkipNotConfirmed     SkipReason = "not-confirmed"
	SkipSizing           SkipReason = "sizing"
)

// Config sets the bar fetch depth and the minimum history the detectors
// need.
type Config struct {
	BarCount int // bars requested per symbol
	MinBars  int // below this the symbol is skipped
}

type Scanner struct {
	md  interfaces.MarketData
	cfg Config
}

func New(md interfaces.MarketData, cfg Config) *Scanner {
	if cfg.BarCount == 0 {
		cfg.BarCount = 60
	}
	if cfg.MinBars == 0 {
		cfg.MinBars = pattern.Lookback
	}
	return &Scanner{md: md, cfg: cfg}
}

// ScanSymbol evaluates one watchlist entry against the full pipeline and
// returns a sized signal, or the reason it was skipped.
func (s *Scanner) ScanSymbol(ctx context.Context, symbol string, equity, riskPct float64) (*types.SignalAction, SkipReason) {
	bars, err := s.md.Bars(ctx, symbol, s.cfg.BarCount)
	if err != nil {
		logger.Warn(ctx, "Bar fetch failed", "symbol", symbol, "error", err)
		return nil, SkipBarsFetchFailed
	}
	if len(bars) < s.cfg.MinBars {
		logger.Debug(ctx, "Insufficient bars", "symbol", symbol, "received", len(bars), "required", s.cfg.MinBars)
		return nil, SkipInsufficientBars
	}

	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}

	macd, ok := ta.MACD(closes, FastPeriod, SlowPeriod, SignalPeriod)
	if !ok {
		return nil, SkipMACDUndefined
	}
	if !macd.Positive() {
		return nil, SkipMACDNegative
	}

	setup, ok := pattern.Detect(bars)
	if !ok {
		return nil, SkipNoPattern
	}
	if !pattern.Confirmed(bars, setup.TriggerPrice) {
		logger.Debug(ctx, "Setup not confirmed",
			"symbol", symbol,
			"pattern", string(setup.Pattern),
			"trigger_price", setup.TriggerPrice,
		)
		return nil, SkipNotConfirmed
	}

	priceNow := bars[len(bars)-1].Close
	action, ok := risk.Size(risk.SizeInputs{
		Equity:       equity,
		RiskPct:      riskPct,
		TriggerPrice: setup.TriggerPrice,
		StopRef:      setup.StopRef,
		PriceNow:     priceNow,
	})
	if !ok {
		logger.Debug(ctx, "Sizing produced no tradable quantity", "symbol", symbol)
		return nil, SkipSizing
	}

	action.Symbol = symbol
	action.Pattern = setup.Pattern
	logger.Signal(ctx, symbol, string(setup.Pattern), action.Shares, action.TriggerPrice,
		"price_now", priceNow,
		"risk_dollars", action.RiskDollars,
		"risk_per_share", action.RiskPerShare,
		"macd_line", macd.Line,
		"macd_signal", macd.Signal,
	)
	return &action, SkipNone
}
