package engine

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"breakout-trading-bot/internal/markethours"
	"breakout-trading-bot/internal/metrics"
	"breakout-trading-bot/internal/risk"
	"breakout-trading-bot/internal/store"
	"breakout-trading-bot/internal/tradelog"
	"breakout-trading-bot/internal/types"
)

type fakeBroker struct {
	account      types.Account
	accountErr   error
	positions    []types.Position
	positionsErr error

	accountCalls int
	orders       []types.OrderReq
}

func (f *fakeBroker) GetAccount(ctx context.Context) (types.Account, error) {
	f.accountCalls++
	if f.accountErr != nil {
		return types.Account{}, f.accountErr
	}
	return f.account, nil
}

func (f *fakeBroker) GetPositions(ctx context.Context) ([]types.Position, error) {
	if f.positionsErr != nil {
		return nil, f.positionsErr
	}
	return f.positions, nil
}

func (f *fakeBroker) PlaceOrder(ctx context.Context, req types.OrderReq) (types.OrderResp, error) {
	f.orders = append(f.orders, req)
	return types.OrderResp{OrderID: "SIM-1", Status: "SIMULATED", Message: "dry-run"}, nil
}

type fakeMarketData struct {
	rows    []types.SnapshotRow
	rowsErr error
	bars    map[string][]types.Bar

	snapshotCalls int
}

func (f *fakeMarketData) Snapshot(ctx context.Context) ([]types.SnapshotRow, error) {
	f.snapshotCalls++
	if f.rowsErr != nil {
		return nil, f.rowsErr
	}
	return f.rows, nil
}

func (f *fakeMarketData) Bars(ctx context.Context, symbol string, n int) ([]types.Bar, error) {
	return f.bars[symbol], nil
}

// breakoutBars builds a rising tape ending in a confirmed pullback breakout.
func breakoutBars() []types.Bar {
	bars := make([]types.Bar, 60)
	close := 100.0
	for i := range bars {
		close += 0.1 + 0.02*float64(i)
		bars[i] = types.Bar{Ts: int64(i) * 60, Open: close - 0.05, High: close + 0.2, Low: close - 0.2, Close: close, Vol: 100}
	}
	c := bars[58].Close
	bars[57].Open = bars[57].Close - 0.5
	bars[58] = types.Bar{Ts: bars[58].Ts, Open: c + 0.2, High: c + 0.4, Low: c - 0.3, Close: c, Vol: 100}
	bars[59] = types.Bar{Ts: bars[59].Ts, Open: c + 0.1, High: c + 0.6, Low: c, Close: c + 0.5, Vol: 150}
	return bars
}

func passingRow(symbol string) types.SnapshotRow {
	return types.SnapshotRow{Symbol: symbol, DayClose: 100, DayVolume: 600_000, PctChange: 3, AvgMinuteVol: 10_000}
}

func istTime(t *testing.T, hour, min int) time.Time {
	t.Helper()
	return time.Date(2025, 6, 10, hour, min, 0, 0, markethours.IST)
}

func newTestEngine(t *testing.T, brk *fakeBroker, md *fakeMarketData, at time.Time) *Engine {
	t.Helper()
	cfg := store.DefaultConfig()
	jrnl, err := tradelog.Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { jrnl.Close() })

	eng := New(cfg, brk, md, risk.NewMemoryStore(), jrnl, metrics.New())
	eng.clock = func() time.Time { return at }
	return eng
}

func TestRunOnceTooEarlySkipsEverything(t *testing.T) {
	brk := &fakeBroker{account: types.Account{Equity: 10_000}}
	md := &fakeMarketData{}
	eng := newTestEngine(t, brk, md, istTime(t, 9, 0))

	res, err := eng.RunOnce(context.Background(), false)
	require.NoError(t, err)

	assert.True(t, res.OK)
	assert.Equal(t, ReasonTooEarly, res.Reason)
	assert.Nil(t, res.Risk)
	assert.Equal(t, 0, brk.accountCalls)
	assert.Equal(t, 0, md.snapshotCalls)
}

func TestRunOnceTooLate(t *testing.T) {
	eng := newTestEngine(t, &fakeBroker{}, &fakeMarketData{}, istTime(t, 12, 0))

	res, err := eng.RunOnce(context.Background(), false)
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, ReasonTooLate, res.Reason)
}

func TestRunOnceForceBypassesWindow(t *testing.T) {
	brk := &fakeBroker{account: types.Account{Equity: 10_000}}
	md := &fakeMarketData{rows: []types.SnapshotRow{passingRow("ABC")}}
	eng := newTestEngine(t, brk, md, istTime(t, 12, 0))

	res, err := eng.RunOnce(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 1, brk.accountCalls)
	assert.Equal(t, 1, res.Scanned)
}

func TestRunOnceAccountFetchFailure(t *testing.T) {
	brk := &fakeBroker{accountErr: errors.New("broker 503")}
	eng := newTestEngine(t, brk, &fakeMarketData{}, istTime(t, 10, 0))

	res, err := eng.RunOnce(context.Background(), false)
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, ReasonAccountFailed, res.Reason)
}

func TestRunOnceDailyMaxLossGate(t *testing.T) {
	brk := &fakeBroker{account: types.Account{Equity: 10_000}}
	md := &fakeMarketData{rows: []types.SnapshotRow{passingRow("ABC")}}
	eng := newTestEngine(t, brk, md, istTime(t, 10, 0))

	// Trip the breaker: default daily max loss is 3% of the 10k baseline.
	day := markethours.DayKey(istTime(t, 10, 0))
	_, err := eng.risk.GetOrUpdate(context.Background(), day, 10_000, 0.03)
	require.NoError(t, err)
	_, err = eng.RecordTradeResult(context.Background(), day, -400)
	require.NoError(t, err)
	_, err = eng.risk.GetOrUpdate(context.Background(), day, 9_600, 0.03)
	require.NoError(t, err)

	res, err := eng.RunOnce(context.Background(), false)
	require.NoError(t, err)

	assert.True(t, res.OK)
	assert.Equal(t, ReasonMaxLossHit, res.Reason)
	require.NotNil(t, res.Risk)
	assert.True(t, res.Risk.HitDailyMaxLoss)
	assert.Equal(t, 0, res.Scanned)
	assert.Equal(t, 0, md.snapshotCalls)
}

func TestRunOnceEmptyWatchlist(t *testing.T) {
	brk := &fakeBroker{account: types.Account{Equity: 10_000}}
	md := &fakeMarketData{rowsErr: errors.New("snapshot down")}
	eng := newTestEngine(t, brk, md, istTime(t, 10, 0))

	res, err := eng.RunOnce(context.Background(), false)
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, ReasonEmptyWatchlist, res.Reason)
}

func TestRunOnceEmitsSignalAndOrder(t *testing.T) {
	brk := &fakeBroker{account: types.Account{Equity: 10_000}}
	md := &fakeMarketData{
		rows: []types.SnapshotRow{passingRow("ABC"), passingRow("DEF")},
		bars: map[string][]types.Bar{"ABC": breakoutBars()},
	}
	eng := newTestEngine(t, brk, md, istTime(t, 10, 0))

	res, err := eng.RunOnce(context.Background(), false)
	require.NoError(t, err)

	assert.True(t, res.OK)
	assert.Empty(t, res.Reason)
	assert.Equal(t, 2, res.Scanned)
	require.Len(t, res.Signals, 1)
	assert.Equal(t, "ABC", res.Signals[0].Symbol)
	assert.Equal(t, types.PatternPullback, res.Signals[0].Pattern)

	require.Len(t, brk.orders, 1)
	assert.Equal(t, "BUY", brk.orders[0].Side)
	assert.Equal(t, res.Signals[0].Shares, brk.orders[0].Qty)
	require.Len(t, res.Actions, 1)
	assert.Equal(t, "SIMULATED", res.Actions[0].Status)

	day := markethours.DayKey(istTime(t, 10, 0))
	entries, err := eng.jrnl.DaySignals(context.Background(), day)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "ABC", entries[0].Symbol)
}

func TestRunOnceSkipsHeldSymbol(t *testing.T) {
	brk := &fakeBroker{
		account:   types.Account{Equity: 10_000},
		positions: []types.Position{{Symbol: "ABC", Qty: 10, Avg: 99}},
	}
	md := &fakeMarketData{
		rows: []types.SnapshotRow{passingRow("ABC")},
		bars: map[string][]types.Bar{"ABC": breakoutBars()},
	}
	eng := newTestEngine(t, brk, md, istTime(t, 10, 0))

	res, err := eng.RunOnce(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Scanned)
	assert.Empty(t, res.Signals)
	assert.Empty(t, brk.orders)
}
