// Package watchlist screens the raw market snapshot into the day's trading
// universe and caches the result per trading day.
package watchlist

import (
	"context"
	"sync"

	"breakout-trading-bot/internal/interfaces"
	"breakout-trading-bot/internal/logger"
	"breakout-trading-bot/internal/types"
)

// Filters are the numeric liquidity/volatility thresholds a ticker must
// pass. A missing or non-numeric field fails its sub-check.
type Filters struct {
	PriceMin     float64
	PriceMax     float64
	PctChangeMin float64
	RelVolMin    float64
	VolMin       float64
	MaxScreen    int
}

// Builder owns the per-day watchlist cache. The mutex doubles as the
// per-day build lock: concurrent first builds for the same day do the
// external fetch once.
type Builder struct {
	md interfaces.MarketData

	mu     sync.Mutex
	day    string
	cached []types.WatchlistEntry
}

func New(md interfaces.MarketData) *Builder {
	return &Builder{md: md}
}

// GetOrBuild returns the cached watchlist for day, building it on the first
// call. A failed snapshot fetch caches an empty list; there is no retry
// within the same trading day.
func (b *Builder) GetOrBuild(ctx context.Context, day string, f Filters) []types.WatchlistEntry {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.day == day {
		logger.Debug(ctx, "Watchlist cache hit", "day", day, "size", len(b.cached))
		return b.cached
	}

	rows, err := b.md.Snapshot(ctx)
	if err != nil {
		logger.Warn(ctx, "Snapshot fetch failed, caching empty watchlist",
			"day", day, "error", err)
		rows = nil
	}

	entries := screen(rows, f)
	b.day = day
	b.cached = entries
	logger.Info(ctx, "Watchlist built",
		"day", day,
		"snapshot_size", len(rows),
		"watchlist_size", len(entries),
	)
	return entries
}

// screen applies every filter in snapshot iteration order and truncates at
// MaxScreen. Truncation, not best-N selection: position in the snapshot
// decides who makes the cut.
func screen(rows []types.SnapshotRow, f Filters) []types.WatchlistEntry {
	entries := make([]types.WatchlistEntry, 0, f.MaxScreen)
	for _, row := range rows {
		if f.MaxScreen > 0 && len(entries) >= f.MaxScreen {
			break
		}
		entry, ok := evaluate(row, f)
		if !ok {
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

func evaluate(row types.SnapshotRow, f Filters) (types.WatchlistEntry, bool) {
	price := row.DayClose
	if !(price >= f.PriceMin && price <= f.PriceMax) {
		return types.WatchlistEntry{}, false
	}
	if !(abs(row.PctChange) >= f.PctChangeMin) {
		return types.WatchlistEntry{}, false
	}
	// Relative volume is undefined when the trailing average is missing or
	// non-positive; undefined fails the check.
	if row.AvgMinuteVol <= 0 {
		return types.WatchlistEntry{}, false
	}
	relVol := row.DayVolume / row.AvgMinuteVol
	if !(relVol >= f.RelVolMin) {
		return types.WatchlistEntry{}, false
	}
	if !(row.DayVolume >= f.VolMin) {
		return types.WatchlistEntry{}, false
	}
	return types.WatchlistEntry{
		Symbol:    row.Symbol,
		LastPrice: price,
		PctChange: row.PctChange,
		RelVolume: relVol,
		Volume:    row.DayVolume,
	}, true
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
