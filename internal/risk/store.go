// Package risk holds the per-trading-day risk state machine, the position
// sizer, and the RPC surface over the store.
package risk

import (
	"context"
	"math"
	"sync"

	"breakout-trading-bot/internal/interfaces"
	"breakout-trading-bot/internal/logger"
	"breakout-trading-bot/internal/types"
)

// sanitize treats non-finite numeric input as 0, the permissive-parse
// policy for equity and pnl observations.
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// apply runs the GetOrUpdate state transition on st in place and returns the
// derived day P&L. StartEquity is set exactly once per day; HitDailyMaxLoss
// is sticky until the day key changes.
func apply(st *types.RiskState, day string, equity, dailyMaxLossPct float64) float64 {
	equity = sanitize(equity)
	if st.Date != day || !st.HasStartEquity {
		*st = types.RiskState{
			Date:            day,
			StartEquity:     equity,
			HasStartEquity:  true,
			DailyMaxLossPct: dailyMaxLossPct,
		}
	} else {
		st.DailyMaxLossPct = dailyMaxLossPct
	}

	pl := equity - st.StartEquity
	threshold := -math.Abs(st.StartEquity * st.DailyMaxLossPct)
	if pl <= threshold {
		st.HitDailyMaxLoss = true
	}
	return pl
}

// applyTrade runs the RegisterTradeResult transition. A new day resets only
// the loss streak; StartEquity and HitDailyMaxLoss are deliberately left
// alone on this path and roll over on the next GetOrUpdate.
func applyTrade(st *types.RiskState, day string, pnl float64) {
	pnl = sanitize(pnl)
	if st.Date != day {
		st.Date = day
		st.ConsecLosses = 0
	}
	switch {
	case pnl < 0:
		st.ConsecLosses++
	case pnl > 0:
		st.ConsecLosses = 0
	}
}

// MemoryStore is an in-process RiskStore used for tests and redis-less dry
// runs. The mutex makes each operation an atomic read-modify-write.
type MemoryStore struct {
	mu sync.Mutex
	st types.RiskState
}

var _ interfaces.RiskStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) GetOrUpdate(ctx context.Context, day string, equity, dailyMaxLossPct float64) (types.RiskSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pl := apply(&m.st, day, equity, dailyMaxLossPct)
	if m.st.HitDailyMaxLoss {
		logger.Risk(ctx, "", "DAILY_MAX_LOSS",
			"day", day,
			"current_day_pl", pl,
			"start_equity", m.st.StartEquity,
		)
	}
	return types.RiskSnapshot{RiskState: m.st, CurrentDayPL: pl}, nil
}

func (m *MemoryStore) RegisterTradeResult(ctx context.Context, day string, pnl float64) (types.TradeResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	applyTrade(&m.st, day, pnl)
	return types.TradeResult{Date: m.st.Date, ConsecLosses: m.st.ConsecLosses}, nil
}
