package tradelog

import (
	"context"
	"path/filepath"
	"testing"

	"breakout-trading-bot/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "tradelog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestAppendAndQuerySignals(t *testing.T) {
	ctx := context.Background()
	j := openTestJournal(t)

	act := types.SignalAction{
		Symbol:       "RELIANCE",
		Pattern:      types.PatternPullback,
		PriceNow:     102.4,
		TriggerPrice: 102.2,
		Shares:       140,
		RiskDollars:  100,
		RiskPerShare: 0.7,
	}
	require.NoError(t, j.AppendSignal(ctx, act))
	act.Symbol = "TCS"
	act.Pattern = types.PatternABCD
	require.NoError(t, j.AppendSignal(ctx, act))

	day, _ := now()
	entries, err := j.DaySignals(ctx, day)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "RELIANCE", entries[0].Symbol)
	assert.Equal(t, "PULLBACK", entries[0].Pattern)
	assert.Equal(t, 140, entries[0].Shares)
	assert.Equal(t, "TCS", entries[1].Symbol)

	// other days are empty
	empty, err := j.DaySignals(ctx, "1999-01-01")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestDaySummary(t *testing.T) {
	ctx := context.Background()
	j := openTestJournal(t)

	require.NoError(t, j.AppendSignal(ctx, types.SignalAction{Symbol: "A", Pattern: types.PatternPullback, RiskDollars: 100}))
	require.NoError(t, j.AppendSignal(ctx, types.SignalAction{Symbol: "B", Pattern: types.PatternABCD, RiskDollars: 50}))
	require.NoError(t, j.AppendOrder(ctx,
		types.OrderReq{Symbol: "A", Side: "BUY", Qty: 10},
		types.OrderResp{OrderID: "SIM-1", Status: "SIMULATED"},
		"DRY_RUN"))

	day, _ := now()
	s, err := j.DaySummary(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Signals)
	assert.Equal(t, 1, s.Orders)
	assert.Equal(t, 150.0, s.RiskDollars)
}
