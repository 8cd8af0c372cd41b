package interfaces

import (
	"context"

	"breakout-trading-bot/internal/types"
)

// RiskStore tracks per-trading-day risk state. Both operations are
// read-modify-write and must be serialized per day key.
type RiskStore interface {
	GetOrUpdate(ctx context.Context, day string, equity, dailyMaxLossPct float64) (types.RiskSnapshot, error)
	RegisterTradeResult(ctx context.Context, day string, pnl float64) (types.TradeResult, error)
}
