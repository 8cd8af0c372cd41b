// Package tradelog is the durable journal of emitted signals and submitted
// orders, one sqlite database shared by every run.
package tradelog

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"breakout-trading-bot/internal/markethours"
	"breakout-trading-bot/internal/types"

	_ "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"
)

const schema = `
CREATE TABLE IF NOT EXISTS signals (
	id             TEXT PRIMARY KEY,
	day            TEXT NOT NULL,
	at             TEXT NOT NULL,
	symbol         TEXT NOT NULL,
	pattern        TEXT NOT NULL,
	shares         INTEGER NOT NULL,
	trigger_price  REAL NOT NULL,
	price_now      REAL NOT NULL,
	risk_dollars   REAL NOT NULL,
	risk_per_share REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_signals_day ON signals(day);

CREATE TABLE IF NOT EXISTS orders (
	id       TEXT PRIMARY KEY,
	day      TEXT NOT NULL,
	at       TEXT NOT NULL,
	symbol   TEXT NOT NULL,
	side     TEXT NOT NULL,
	qty      INTEGER NOT NULL,
	order_id TEXT NOT NULL,
	status   TEXT NOT NULL,
	mode     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_orders_day ON orders(day);
`

// Journal is a sqlite-backed append log. Writes are serialized; sqlite does
// not love concurrent writers.
type Journal struct {
	mu sync.Mutex
	db *sql.DB
}

func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("tradelog schema: %w", err)
	}
	return &Journal{db: db}, nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}

func now() (day, at string) {
	t := time.Now().In(markethours.IST)
	return markethours.DayKey(t), t.Format("2006-01-02 15:04:05")
}

// AppendSignal records an emitted signal.
func (j *Journal) AppendSignal(ctx context.Context, act types.SignalAction) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	day, at := now()
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO signals
		(id, day, at, symbol, pattern, shares, trigger_price, price_now, risk_dollars, risk_per_share)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ulid.Make().String(), day, at,
		act.Symbol, string(act.Pattern), act.Shares,
		act.TriggerPrice, act.PriceNow, act.RiskDollars, act.RiskPerShare,
	)
	return err
}

// AppendOrder records an order submission (or its dry-run simulation).
func (j *Journal) AppendOrder(ctx context.Context, req types.OrderReq, resp types.OrderResp, mode string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	day, at := now()
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO orders
		(id, day, at, symbol, side, qty, order_id, status, mode)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ulid.Make().String(), day, at,
		req.Symbol, req.Side, req.Qty, resp.OrderID, resp.Status, mode,
	)
	return err
}

// SignalEntry is one journaled signal row.
type SignalEntry struct {
	ID           string
	Day          string
	At           string
	Symbol       string
	Pattern      string
	Shares       int
	TriggerPrice float64
	PriceNow     float64
	RiskDollars  float64
	RiskPerShare float64
}

// DaySignals returns the day's signals in insertion order.
func (j *Journal) DaySignals(ctx context.Context, day string) ([]SignalEntry, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, day, at, symbol, pattern, shares, trigger_price, price_now, risk_dollars, risk_per_share
		FROM signals WHERE day = ? ORDER BY id`, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SignalEntry
	for rows.Next() {
		var e SignalEntry
		if err := rows.Scan(&e.ID, &e.Day, &e.At, &e.Symbol, &e.Pattern, &e.Shares,
			&e.TriggerPrice, &e.PriceNow, &e.RiskDollars, &e.RiskPerShare); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Summary aggregates one day's journal for the end-of-day log line.
type Summary struct {
	Day         string
	Signals     int
	Orders      int
	RiskDollars float64
}

// DaySummary aggregates the day's rows.
func (j *Journal) DaySummary(ctx context.Context, day string) (Summary, error) {
	s := Summary{Day: day}
	err := j.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(risk_dollars), 0) FROM signals WHERE day = ?`, day).
		Scan(&s.Signals, &s.RiskDollars)
	if err != nil {
		return s, err
	}
	err = j.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders WHERE day = ?`, day).Scan(&s.Orders)
	return s, err
}
