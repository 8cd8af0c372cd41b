package zerodha

import (
	"context"
	"fmt"
	"time"

	"breakout-trading-bot/internal/markethours"
	"breakout-trading-bot/internal/types"
)

// quoteBatch caps instruments per GetQuote call; the API rejects larger sets.
const quoteBatch = 500

func (c *Client) Snapshot(ctx context.Context) ([]types.SnapshotRow, error) {
	if c.p.DataSource != "LIVE" {
		return staticSnapshot(c.p.Candidates), nil
	}
	if len(c.p.Candidates) == 0 {
		return nil, nil
	}

	rows := make([]types.SnapshotRow, 0, len(c.p.Candidates))
	for start := 0; start < len(c.p.Candidates); start += quoteBatch {
		end := start + quoteBatch
		if end > len(c.p.Candidates) {
			end = len(c.p.Candidates)
		}
		batch := c.p.Candidates[start:end]

		instruments := make([]string, len(batch))
		for i, sym := range batch {
			instruments[i] = c.p.Exchange + ":" + sym
		}
		quotes, err := c.kc.GetQuote(instruments...)
		if err != nil {
			return nil, fmt.Errorf("quote batch: %w", err)
		}

		elapsed := minutesSinceOpen(time.Now())
		for _, sym := range batch {
			q, ok := quotes[c.p.Exchange+":"+sym]
			if !ok {
				continue
			}
			pct := 0.0
			if q.OHLC.Close > 0 {
				pct = (q.LastPrice - q.OHLC.Close) / q.OHLC.Close * 100
			}
			rows = append(rows, types.SnapshotRow{
				Symbol:       sym,
				DayClose:     q.LastPrice,
				DayVolume:    float64(q.Volume),
				PctChange:    pct,
				AvgMinuteVol: float64(q.Volume) / elapsed,
			})
		}
	}
	return rows, nil
}

func (c *Client) Bars(ctx context.Context, symbol string, n int) ([]types.Bar, error) {
	if c.p.DataSource != "LIVE" {
		return staticBars(symbol, n), nil
	}

	token, err := c.tokens.lookup(c.kc, c.p.Exchange, symbol)
	if err != nil {
		return nil, err
	}

	now := time.Now().In(markethours.IST)
	from := now.Add(-time.Duration(n+5) * time.Minute)
	candles, err := c.kc.GetHistoricalData(token, "minute", from, now, false, false)
	if err != nil {
		return nil, fmt.Errorf("historical %s: %w", symbol, err)
	}

	bars := make([]types.Bar, 0, len(candles))
	for _, cd := range candles {
		bars = append(bars, types.Bar{
			Ts:    cd.Date.Time.Unix(),
			Open:  cd.Open,
			High:  cd.High,
			Low:   cd.Low,
			Close: cd.Close,
			Vol:   float64(cd.Volume),
		})
	}
	if len(bars) > n {
		bars = bars[len(bars)-n:]
	}
	return bars, nil
}

// minutesSinceOpen approximates the elapsed session minutes used to turn a
// cumulative day volume into a per-minute average. Clamped to 1 so early
// quotes do not divide by zero.
func minutesSinceOpen(now time.Time) float64 {
	t := now.In(markethours.IST)
	open := time.Date(t.Year(), t.Month(), t.Day(), 9, 15, 0, 0, markethours.IST)
	mins := t.Sub(open).Minutes()
	if mins < 1 {
		return 1
	}
	return mins
}
