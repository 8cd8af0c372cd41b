package types

// Bar is a single one-minute OHLCV bar. Sequences are ordered oldest to
// newest with strictly increasing timestamps.
type Bar struct {
	Ts                          int64
	Open, High, Low, Close, Vol float64
}

// SnapshotRow is one ticker from the raw market snapshot, before screening.
type SnapshotRow struct {
	Symbol       string
	DayClose     float64
	DayVolume    float64
	PctChange    float64
	AvgMinuteVol float64
}

// WatchlistEntry is a ticker that passed every screen filter.
type WatchlistEntry struct {
	Symbol    string  `json:"symbol"`
	LastPrice float64 `json:"last_price"`
	PctChange float64 `json:"pct_change"`
	RelVolume float64 `json:"rel_volume"`
	Volume    float64 `json:"volume"`
}

// Account is a read-only equity snapshot from the broker.
type Account struct {
	Equity      float64
	BuyingPower float64
}

// Position marks an already-open position; the scanner only uses presence
// (one position per symbol).
type Position struct {
	Symbol string
	Qty    int
	Avg    float64
}

type Pattern string

const (
	PatternPullback Pattern = "PULLBACK"
	PatternABCD     Pattern = "ABCD"
)

// SignalAction is a sized, confirmed breakout entry produced by one run.
// Never persisted as state; journaled for audit only.
type SignalAction struct {
	Symbol       string  `json:"symbol"`
	Pattern      Pattern `json:"pattern"`
	PriceNow     float64 `json:"price_now"`
	TriggerPrice float64 `json:"trigger_price"`
	Shares       int     `json:"shares"`
	RiskDollars  float64 `json:"risk_dollars"`
	RiskPerShare float64 `json:"risk_per_share"`
}

// RiskState is the per-trading-day risk ledger. StartEquity is set once at
// the first observation of the day; HitDailyMaxLoss is sticky until the day
// key changes.
type RiskState struct {
	Date            string  `json:"date"`
	StartEquity     float64 `json:"start_equity"`
	HasStartEquity  bool    `json:"has_start_equity"`
	HitDailyMaxLoss bool    `json:"hit_daily_max_loss"`
	ConsecLosses    int     `json:"consecutive_losses"`
	DailyMaxLossPct float64 `json:"daily_max_loss_pct"`
}

// RiskSnapshot is what GetOrUpdate returns: the stored state plus the
// derived P&L for the day.
type RiskSnapshot struct {
	RiskState
	CurrentDayPL float64 `json:"current_day_pl"`
}

// TradeResult is what RegisterTradeResult returns.
type TradeResult struct {
	Date         string `json:"date"`
	ConsecLosses int    `json:"consecutive_losses"`
}

// RunResult is the structured outcome of one scan-and-trade run. Failure
// reasons travel here, never as panics out of a run.
type RunResult struct {
	RunID    string         `json:"run_id"`
	OK       bool           `json:"ok"`
	Reason   string         `json:"reason,omitempty"`
	Risk     *RiskSnapshot  `json:"risk_state,omitempty"`
	Scanned  int            `json:"scanned"`
	Signals  []SignalAction `json:"signals,omitempty"`
	Actions  []OrderResp    `json:"actions,omitempty"`
	Duration int64          `json:"duration_ms"`
}

type OrderReq struct {
	Symbol, Side string
	Qty          int
	Tag          string
}

type OrderResp struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}
