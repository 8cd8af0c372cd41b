package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"breakout-trading-bot/internal/markethours"
)

var summaryCmd = &cobra.Command{
	Use:   "summary [day]",
	Short: "Write the end-of-day CSV summary for a trading day",
	Long: `Writes the CSV summary of journaled signals for the given day
(YYYY-MM-DD, default today) and prints the output path.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	if err := initializeSystem(); err != nil {
		return err
	}

	ctx := context.Background()
	sys, err := buildSystem(ctx)
	if err != nil {
		return err
	}
	defer sys.Close(ctx)

	day := markethours.DayKey(time.Now())
	if len(args) == 1 {
		if _, err := time.Parse("2006-01-02", args[0]); err != nil {
			return fmt.Errorf("invalid day %q: want YYYY-MM-DD", args[0])
		}
		day = args[0]
	}

	path, err := sys.summarizer.SummarizeDay(ctx, day)
	if err != nil {
		return err
	}
	if path == "" {
		fmt.Printf("no signals journaled for %s\n", day)
		return nil
	}
	fmt.Println(path)
	return nil
}
