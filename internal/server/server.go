// Package server exposes the run trigger, risk RPC, health and metrics
// endpoints, and owns the timer loop that fires scheduled runs.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"breakout-trading-bot/internal/interfaces"
	"breakout-trading-bot/internal/logger"
	"breakout-trading-bot/internal/metrics"
	"breakout-trading-bot/internal/types"
)

type Server struct {
	runner interfaces.Runner
	riskH  http.Handler
	mx     *metrics.Metrics
	srv    *http.Server
}

func New(addr string, runner interfaces.Runner, riskHandler http.Handler, mx *metrics.Metrics) *Server {
	s := &Server{
		runner: runner,
		riskH:  riskHandler,
		mx:     mx,
	}
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/run", s.handleRun)
	mux.Handle("/risk", s.riskH)
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.Handle("/metrics", s.mx.Handler())
	return mux
}

// Start serves until ctx is cancelled, then drains with a short shutdown
// grace period.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "HTTP server listening", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	}
}

// RunLoop fires a supervised run every interval until ctx is cancelled.
// The first tick waits one full interval; manual /run covers "now".
func (s *Server) RunLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			res, err := s.safeRun(ctx, false)
			if err != nil {
				logger.ErrorWithErr(ctx, "Scheduled run failed", err)
				continue
			}
			logger.Debug(ctx, "Scheduled run finished", "run_id", res.RunID, "ok", res.OK, "reason", res.Reason)
		}
	}
}

// safeRun wraps RunOnce so a panicking run can never take down the timer
// loop or the trigger handler.
func (s *Server) safeRun(ctx context.Context, force bool) (res *types.RunResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error(ctx, "Run panicked", "panic", fmt.Sprint(r))
			res = nil
			err = fmt.Errorf("run panicked: %v", r)
		}
	}()
	return s.runner.RunOnce(ctx, force)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	force := r.URL.Query().Get("force") == "true"
	res, err := s.safeRun(r.Context(), force)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
