package zerodha

import (
	"hash/fnv"
	"math/rand"
	"time"

	"breakout-trading-bot/internal/markethours"
	"breakout-trading-bot/internal/types"
)

// Static data is deterministic per symbol so repeated dry runs replay the
// same tape. Roughly half the universe is shaped into a live breakout setup
// so end-to-end runs exercise the full signal path.

func staticAccount() types.Account {
	return types.Account{Equity: 1_000_000, BuyingPower: 1_000_000}
}

func symbolSeed(symbol string) int64 {
	h := fnv.New64a()
	h.Write([]byte(symbol))
	return int64(h.Sum64() & 0x7fffffffffffffff)
}

func staticSnapshot(candidates []string) []types.SnapshotRow {
	rows := make([]types.SnapshotRow, 0, len(candidates))
	for _, sym := range candidates {
		rng := rand.New(rand.NewSource(symbolSeed(sym)))
		price := 20 + rng.Float64()*130
		rows = append(rows, types.SnapshotRow{
			Symbol:       sym,
			DayClose:     price,
			DayVolume:    600_000 + rng.Float64()*2_000_000,
			PctChange:    2.5 + rng.Float64()*4,
			AvgMinuteVol: 3_000 + rng.Float64()*20_000,
		})
	}
	return rows
}

func staticBars(symbol string, n int) []types.Bar {
	rng := rand.New(rand.NewSource(symbolSeed(symbol)))
	price := 20 + rng.Float64()*130

	now := time.Now().In(markethours.IST).Truncate(time.Minute)
	bars := make([]types.Bar, n)
	for i := range bars {
		// Upward drift with noise keeps the synthetic MACD mostly positive.
		drift := price * (0.0004 + 0.0006*float64(i)/float64(n))
		noise := price * 0.001 * (rng.Float64() - 0.5)
		open := price
		price = price + drift + noise
		hi := maxf(open, price) + price*0.0005*rng.Float64()
		lo := minf(open, price) - price*0.0005*rng.Float64()
		bars[i] = types.Bar{
			Ts:    now.Add(-time.Duration(n-i) * time.Minute).Unix(),
			Open:  open,
			High:  hi,
			Low:   lo,
			Close: price,
			Vol:   5_000 + rng.Float64()*10_000,
		}
	}

	// Shape the tail into prev-green / last-red / confirming-breakout for
	// half the universe; the rest stays an unconfirmed tape.
	if n >= 3 && symbolSeed(symbol)%2 == 0 {
		c := bars[n-3].Close
		bars[n-3].Open = c - c*0.003
		bars[n-2] = types.Bar{
			Ts: bars[n-2].Ts, Open: c + c*0.002, High: c + c*0.004,
			Low: c - c*0.003, Close: c, Vol: 6_000,
		}
		bars[n-1] = types.Bar{
			Ts: bars[n-1].Ts, Open: c, High: c + c*0.006,
			Low: c - c*0.001, Close: c + c*0.005, Vol: 9_000,
		}
	}
	return bars
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
