package cmd

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"breakout-trading-bot/internal/logger"
	"breakout-trading-bot/internal/markethours"
	"breakout-trading-bot/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bot: HTTP trigger surface plus the scheduled scan loop",
	Long: `Starts the HTTP server (POST /run, POST /risk, GET /healthz, GET /metrics)
and fires a scan every poll interval. The end-of-day summary is written once
after market close.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := initializeSystem(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sys, err := buildSystem(ctx)
	if err != nil {
		return err
	}
	defer sys.Close(context.Background())

	srv := server.New(sys.cfg.HTTPAddr, sys.runner, sys.riskH, sys.mx)

	go srv.RunLoop(ctx, time.Duration(sys.cfg.PollSeconds)*time.Second)
	go eodLoop(ctx, sys)

	logger.Info(ctx, "Bot started",
		"mode", sys.cfg.Mode,
		"data_source", sys.cfg.DataSource,
		"addr", sys.cfg.HTTPAddr,
		"poll_seconds", sys.cfg.PollSeconds,
	)
	return srv.Start(ctx)
}

// eodLoop checks once a minute whether the end-of-day summary is due.
func eodLoop(ctx context.Context, sys *system) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if ok, _ := sys.summarizer.ShouldRunNow(now); !ok {
				continue
			}
			day := markethours.DayKey(now)
			if _, err := sys.summarizer.SummarizeDay(ctx, day); err != nil {
				logger.ErrorWithErr(ctx, "EOD summary failed", err, "day", day)
			}
		}
	}
}
