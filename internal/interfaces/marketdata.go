package interfaces

import (
	"context"

	"breakout-trading-bot/internal/types"
)

// MarketData is the market-data collaborator. Snapshot returns the raw
// ticker universe; Bars returns up to n one-minute bars oldest to newest
// (short or empty results are permitted).
type MarketData interface {
	Snapshot(ctx context.Context) ([]types.SnapshotRow, error)
	Bars(ctx context.Context, symbol string, n int) ([]types.Bar, error)
}
