package engineobs

import (
	"context"
	"time"

	"breakout-trading-bot/internal/interfaces"
	"breakout-trading-bot/internal/logger"
	"breakout-trading-bot/internal/trace"
	"breakout-trading-bot/internal/types"
)

type observableRunner struct {
	runner interfaces.Runner
}

var _ interfaces.Runner = (*observableRunner)(nil)

func Wrap(r interfaces.Runner) interfaces.Runner {
	return &observableRunner{
		runner: r,
	}
}

func (or *observableRunner) RunOnce(ctx context.Context, force bool) (*types.RunResult, error) {
	ctx, span := trace.StartSpan(ctx, "engine.RunOnce")
	defer span.End()

	start := time.Now()

	logger.InfoSkip(ctx, 1, "Starting run", "force", force)

	result, err := or.runner.RunOnce(ctx, force)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Run failed", err,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	logger.InfoSkip(ctx, 1, "Run finished",
		"run_id", result.RunID,
		"ok", result.OK,
		"reason", result.Reason,
		"scanned", result.Scanned,
		"signals", len(result.Signals),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}
