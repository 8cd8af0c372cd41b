package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var runForce bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute a single scan cycle and print the result",
	Long: `Runs one scan-and-trade cycle and prints the RunResult as JSON.

Example:
  bot run --force`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVar(&runForce, "force", false, "bypass the entry window and risk gate")
}

func runRun(cmd *cobra.Command, args []string) error {
	if err := initializeSystem(); err != nil {
		return err
	}

	ctx := context.Background()
	sys, err := buildSystem(ctx)
	if err != nil {
		return err
	}
	defer sys.Close(ctx)

	res, err := sys.runner.RunOnce(ctx, runForce)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
