// Package engine orchestrates one scan-and-trade cycle: window gate, risk
// gate, watchlist build, per-symbol scan, journal and order submission.
package engine

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"

	"breakout-trading-bot/internal/interfaces"
	"breakout-trading-bot/internal/logger"
	"breakout-trading-bot/internal/markethours"
	"breakout-trading-bot/internal/metrics"
	"breakout-trading-bot/internal/scanner"
	"breakout-trading-bot/internal/store"
	"breakout-trading-bot/internal/tradelog"
	"breakout-trading-bot/internal/types"
	"breakout-trading-bot/internal/watchlist"
)

// Run skip/abort reasons carried on RunResult.
const (
	ReasonTooEarly        = "too-early"
	ReasonTooLate         = "too-late"
	ReasonAccountFailed   = "account-fetch-failed"
	ReasonRiskStoreFailed = "risk-store-failed"
	ReasonMaxLossHit      = "daily-max-loss-hit"
	ReasonEmptyWatchlist  = "empty-watchlist"
)

type Engine struct {
	cfg   *store.Config
	brk   interfaces.Broker
	risk  interfaces.RiskStore
	wl    *watchlist.Builder
	scan  *scanner.Scanner
	jrnl  *tradelog.Journal
	mx    *metrics.Metrics
	clock func() time.Time
}

var _ interfaces.Runner = (*Engine)(nil)

func New(cfg *store.Config, brk interfaces.Broker, md interfaces.MarketData, rs interfaces.RiskStore, jrnl *tradelog.Journal, mx *metrics.Metrics) *Engine {
	return &Engine{
		cfg:   cfg,
		brk:   brk,
		risk:  rs,
		wl:    watchlist.New(md),
		scan:  scanner.New(md, scanner.Config{BarCount: cfg.Scan.BarCount, MinBars: cfg.Scan.MinBars}),
		jrnl:  jrnl,
		mx:    mx,
		clock: time.Now,
	}
}

func (e *Engine) filters() watchlist.Filters {
	return watchlist.Filters{
		PriceMin:     e.cfg.Screen.PriceMin,
		PriceMax:     e.cfg.Screen.PriceMax,
		PctChangeMin: e.cfg.Screen.PctChangeMin,
		RelVolMin:    e.cfg.Screen.RelVolMin,
		VolMin:       e.cfg.Screen.VolMin,
		MaxScreen:    e.cfg.Screen.MaxScreen,
	}
}

// RunOnce executes a single cycle. Gate skips and failures travel on the
// result, never as a returned error; runs re-derive all state so overlap
// is harmless.
func (e *Engine) RunOnce(ctx context.Context, force bool) (*types.RunResult, error) {
	start := e.clock()
	res := &types.RunResult{RunID: ulid.Make().String(), OK: true}
	defer func() {
		res.Duration = time.Since(start).Milliseconds()
		e.mx.ObserveRun(res.Reason, time.Since(start).Seconds())
	}()

	now := e.clock()
	day := markethours.DayKey(now)

	if !force {
		startMin, endMin := e.cfg.WindowMinutes()
		switch markethours.CheckWindow(now, startMin, endMin) {
		case markethours.TooEarly:
			res.Reason = ReasonTooEarly
			return res, nil
		case markethours.TooLate:
			res.Reason = ReasonTooLate
			return res, nil
		}
	}

	acct, err := e.brk.GetAccount(ctx)
	if err != nil {
		logger.ErrorWithErr(ctx, "Account fetch failed, aborting run", err, "run_id", res.RunID)
		res.OK = false
		res.Reason = ReasonAccountFailed
		return res, nil
	}

	snap, err := e.risk.GetOrUpdate(ctx, day, acct.Equity, e.cfg.Risk.DailyMaxLossPct)
	if err != nil {
		logger.ErrorWithErr(ctx, "Risk store unavailable, aborting run", err, "run_id", res.RunID)
		res.OK = false
		res.Reason = ReasonRiskStoreFailed
		return res, nil
	}
	res.Risk = &snap

	if snap.HitDailyMaxLoss && !force {
		logger.Risk(ctx, "", "DAILY_MAX_LOSS",
			"day", day,
			"start_equity", snap.StartEquity,
			"day_pl", snap.CurrentDayPL,
		)
		res.Reason = ReasonMaxLossHit
		return res, nil
	}

	entries := e.wl.GetOrBuild(ctx, day, e.filters())
	if len(entries) == 0 {
		res.OK = false
		res.Reason = ReasonEmptyWatchlist
		return res, nil
	}

	// One position snapshot per run; anything we buy this run joins it so a
	// symbol never gets two bullets in one cycle.
	held := map[string]bool{}
	if positions, err := e.brk.GetPositions(ctx); err != nil {
		logger.Warn(ctx, "Positions fetch failed, assuming flat", "run_id", res.RunID, "error", err.Error())
	} else {
		for _, p := range positions {
			held[p.Symbol] = true
		}
	}

	for _, entry := range entries {
		res.Scanned++
		e.mx.SymbolsScanned.Inc()

		if held[entry.Symbol] {
			e.mx.SkipsTotal.WithLabelValues(string(scanner.SkipPositionOpen)).Inc()
			continue
		}

		act, skip := e.scan.ScanSymbol(ctx, entry.Symbol, acct.Equity, e.cfg.Risk.PerTradeRiskPct)
		if act == nil {
			e.mx.SkipsTotal.WithLabelValues(string(skip)).Inc()
			continue
		}

		res.Signals = append(res.Signals, *act)
		e.mx.SignalsTotal.WithLabelValues(string(act.Pattern)).Inc()
		if err := e.jrnl.AppendSignal(ctx, *act); err != nil {
			logger.ErrorWithErr(ctx, "Failed to journal signal", err, "symbol", act.Symbol)
		}

		req := types.OrderReq{
			Symbol: act.Symbol,
			Side:   "BUY",
			Qty:    act.Shares,
			Tag:    "BRK-" + string(act.Pattern),
		}
		resp, err := e.brk.PlaceOrder(ctx, req)
		if err != nil {
			logger.ErrorWithErr(ctx, "Order submission failed", err, "symbol", act.Symbol, "qty", act.Shares)
			continue
		}
		held[act.Symbol] = true
		res.Actions = append(res.Actions, resp)
		e.mx.OrdersTotal.WithLabelValues(orderMode(e.cfg.Mode)).Inc()
		if err := e.jrnl.AppendOrder(ctx, req, resp, e.cfg.Mode); err != nil {
			logger.ErrorWithErr(ctx, "Failed to journal order", err, "symbol", act.Symbol)
		}
	}

	logger.Info(ctx, "Run completed",
		"run_id", res.RunID,
		"day", day,
		"scanned", res.Scanned,
		"signals", len(res.Signals),
		"orders", len(res.Actions),
	)
	return res, nil
}

// RecordTradeResult registers a realized P&L with the risk store. Exits are
// managed outside this engine; the EOD path calls this per closed trade.
func (e *Engine) RecordTradeResult(ctx context.Context, day string, pnl float64) (types.TradeResult, error) {
	return e.risk.RegisterTradeResult(ctx, day, pnl)
}

func orderMode(mode string) string {
	if mode == "LIVE" {
		return "live"
	}
	return "dry_run"
}
