package interfaces

import (
	"context"

	"breakout-trading-bot/internal/types"
)

// Runner executes one scan-and-trade cycle. Runs are independent; overlap
// is tolerated because every run re-derives its state.
type Runner interface {
	RunOnce(ctx context.Context, force bool) (*types.RunResult, error)
}
