// Package eod writes the end-of-day CSV summary from the signal journal.
package eod

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"breakout-trading-bot/internal/logger"
	"breakout-trading-bot/internal/markethours"
	"breakout-trading-bot/internal/tradelog"
)

// Market close plus settle time; summaries before this are premature.
const eodMinute = 15*60 + 40

type Summarizer struct {
	jrnl   *tradelog.Journal
	outDir string
}

func NewSummarizer(jrnl *tradelog.Journal, outDir string) *Summarizer {
	if outDir == "" {
		outDir = "eod"
	}
	return &Summarizer{jrnl: jrnl, outDir: outDir}
}

func (s *Summarizer) csvPath(day string) string {
	return filepath.Join(s.outDir, day+".csv")
}

// ShouldRunNow reports whether the summary is due: past 15:40 IST on a
// weekday and not yet written.
func (s *Summarizer) ShouldRunNow(now time.Time) (bool, string) {
	t := now.In(markethours.IST)
	path := s.csvPath(markethours.DayKey(t))
	if !markethours.IsWeekday(t) {
		return false, path
	}
	if t.Hour()*60+t.Minute() < eodMinute {
		return false, path
	}
	if _, err := os.Stat(path); err == nil {
		return false, path
	}
	return true, path
}

// SummarizeDay writes the day's signals as CSV and logs the aggregate. A
// day with no signals writes nothing and returns an empty path.
func (s *Summarizer) SummarizeDay(ctx context.Context, day string) (string, error) {
	entries, err := s.jrnl.DaySignals(ctx, day)
	if err != nil {
		return "", fmt.Errorf("read journal: %w", err)
	}
	if len(entries) == 0 {
		logger.Info(ctx, "No signals today, skipping EOD summary", "day", day)
		return "", nil
	}

	if err := os.MkdirAll(s.outDir, 0o755); err != nil {
		return "", err
	}
	path := s.csvPath(day)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	_ = w.Write([]string{"at", "symbol", "pattern", "shares", "trigger_price", "price_now", "risk_dollars", "risk_per_share"})
	for _, e := range entries {
		_ = w.Write([]string{
			e.At, e.Symbol, e.Pattern,
			strconv.Itoa(e.Shares),
			fmtF(e.TriggerPrice), fmtF(e.PriceNow),
			fmtF(e.RiskDollars), fmtF(e.RiskPerShare),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	summary, err := s.jrnl.DaySummary(ctx, day)
	if err != nil {
		return path, err
	}
	logger.Info(ctx, "EOD summary written",
		"day", day,
		"path", path,
		"signals", summary.Signals,
		"orders", summary.Orders,
		"risk_dollars", summary.RiskDollars,
	)
	return path, nil
}

func fmtF(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
