package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"breakout-trading-bot/internal/broker/brokerobs"
	"breakout-trading-bot/internal/broker/zerodha"
	"breakout-trading-bot/internal/engine"
	"breakout-trading-bot/internal/engine/engineobs"
	"breakout-trading-bot/internal/eod"
	"breakout-trading-bot/internal/interfaces"
	"breakout-trading-bot/internal/logger"
	"breakout-trading-bot/internal/metrics"
	"breakout-trading-bot/internal/movers"
	"breakout-trading-bot/internal/risk"
	"breakout-trading-bot/internal/store"
	"breakout-trading-bot/internal/trace"
	"breakout-trading-bot/internal/tradelog"
)

// system is everything a command needs, fully wired.
type system struct {
	cfg        *store.Config
	runner     interfaces.Runner
	riskH      http.Handler
	mx         *metrics.Metrics
	jrnl       *tradelog.Journal
	summarizer *eod.Summarizer
}

// initializeSystem initializes logger and tracer
func initializeSystem() error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}
	return nil
}

// initializeMarketData picks the snapshot source; bar history always comes
// from the broker feed.
func initializeMarketData(ctx context.Context, cfg *store.Config, client *zerodha.Client) interfaces.MarketData {
	if cfg.SnapshotSource == "SCRAPE" {
		logger.Info(ctx, "Using scraped movers table as snapshot source")
		return movers.NewScraper(client, 20*time.Second)
	}
	return client
}

// initializeRiskStore uses redis when configured so risk state survives
// restarts; otherwise per-process memory.
func initializeRiskStore(ctx context.Context, cfg *store.Config) (interfaces.RiskStore, error) {
	if cfg.Redis.Addr == "" {
		logger.Warn(ctx, "No redis configured - risk state is per-process only")
		return risk.NewMemoryStore(), nil
	}
	rs, err := risk.NewRedisStore(risk.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("redis risk store: %w", err)
	}
	logger.Info(ctx, "Risk state backed by redis", "addr", cfg.Redis.Addr)
	return rs, nil
}

// buildSystem loads config and wires every collaborator.
func buildSystem(ctx context.Context) (*system, error) {
	cfg, err := store.LoadConfig(configPath)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err, "path", configPath)
		return nil, err
	}

	client := zerodha.New(zerodha.Params{
		Mode:        cfg.Mode,
		DataSource:  cfg.DataSource,
		APIKey:      os.Getenv("KITE_API_KEY"),
		AccessToken: os.Getenv("KITE_ACCESS_TOKEN"),
		Exchange:    cfg.Exchange,
		Candidates:  cfg.Candidates,
	})
	if cfg.Mode == "DRY_RUN" {
		logger.Warn(ctx, "Running in DRY_RUN mode - orders will be simulated")
	}
	if cfg.DataSource == "LIVE" {
		logger.Info(ctx, "Using LIVE market data from Zerodha")
	} else {
		logger.Info(ctx, "Using STATIC synthetic market data for testing")
	}

	brk := brokerobs.Wrap(client)
	md := initializeMarketData(ctx, cfg, client)

	rs, err := initializeRiskStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	jrnl, err := tradelog.Open(cfg.JournalPath)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	mx := metrics.New()
	eng := engine.New(cfg, brk, md, rs, jrnl, mx)

	return &system{
		cfg:        cfg,
		runner:     engineobs.Wrap(eng),
		riskH:      risk.NewHandler(rs),
		mx:         mx,
		jrnl:       jrnl,
		summarizer: eod.NewSummarizer(jrnl, "eod"),
	}, nil
}

func (s *system) Close(ctx context.Context) {
	if err := s.jrnl.Close(); err != nil {
		logger.Warn(ctx, "Failed to close journal", "error", err)
	}
	if err := trace.Shutdown(ctx); err != nil {
		logger.Warn(ctx, "Failed to shut down tracer", "error", err)
	}
}
