package risk

import (
	"encoding/json"
	"net/http"
	"strconv"

	"breakout-trading-bot/internal/interfaces"
	"breakout-trading-bot/internal/logger"
)

// Request kinds form a closed set; anything else is rejected at the
// boundary.
const (
	kindGetOrUpdate    = "get_or_update"
	kindRegisterResult = "register_trade_result"
)

// looseFloat accepts a JSON number or a numeric string. Anything that does
// not parse to a finite number becomes 0 (documented permissive-parse
// default for equity, pnl and thresholds).
type looseFloat float64

func (f *looseFloat) UnmarshalJSON(b []byte) error {
	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		*f = looseFloat(sanitize(n))
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			*f = looseFloat(sanitize(n))
			return nil
		}
	}
	*f = 0
	return nil
}

type rpcRequest struct {
	Kind            string     `json:"kind"`
	Date            string     `json:"date"`
	Equity          looseFloat `json:"equity"`
	DailyMaxLossPct looseFloat `json:"daily_max_loss_pct"`
	PnL             looseFloat `json:"pnl"`
}

type rpcError struct {
	Error string `json:"error"`
}

// Handler serves the risk store as a typed request/response endpoint keyed
// by trading day.
type Handler struct {
	store interfaces.RiskStore
}

func NewHandler(store interfaces.RiskStore) *Handler {
	return &Handler{store: store}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, rpcError{Error: "malformed request body"})
		return
	}

	switch req.Kind {
	case kindGetOrUpdate:
		snap, err := h.store.GetOrUpdate(ctx, req.Date, float64(req.Equity), float64(req.DailyMaxLossPct))
		if err != nil {
			logger.ErrorWithErr(ctx, "Risk getOrUpdate failed", err, "day", req.Date)
			writeJSON(w, http.StatusInternalServerError, rpcError{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, snap)
	case kindRegisterResult:
		res, err := h.store.RegisterTradeResult(ctx, req.Date, float64(req.PnL))
		if err != nil {
			logger.ErrorWithErr(ctx, "Risk registerTradeResult failed", err, "day", req.Date)
			writeJSON(w, http.StatusInternalServerError, rpcError{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, res)
	default:
		writeJSON(w, http.StatusBadRequest, rpcError{Error: "unknown request kind"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
