package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"RiskSentinel/internal/assessment"
	"RiskSentinel/internal/notifier"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one assessment and print the ranking",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		runner, err := assessment.NewRunner(cfg, log, nil)
		if err != nil {
			return err
		}
		defer runner.Recorder.Close()

		res, err := runner.Run(ctx)
		if err != nil {
			return err
		}

		top, _ := cmd.Flags().GetInt("top")
		out := notifier.NewWriterNotifier(os.Stdout)
		report := notifier.FormatRanking(res.RunID, res.StartedAt, res.Scores, top)
		if verbose, _ := cmd.Flags().GetBool("failures"); verbose {
			if f := notifier.FormatFailures(res.Metrics); f != "" {
				report += "\n" + f
			}
		}
		return out.Send(ctx, report)
	},
}

func init() {
	runCmd.Flags().Int("top", 10, "ranking rows to print (0 prints all)")
	runCmd.Flags().Bool("failures", false, "also list per-pair estimator failures")
}
