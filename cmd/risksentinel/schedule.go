package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"RiskSentinel/internal/assessment"
	"RiskSentinel/internal/metrics"
	"RiskSentinel/internal/notifier"
	"RiskSentinel/internal/scheduler"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run assessments on the configured cron schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		m := metrics.New()
		runner, err := assessment.NewRunner(cfg, log, m)
		if err != nil {
			return err
		}
		defer runner.Recorder.Close()

		sched := scheduler.NewScheduler(ctx, runner, notifier.NewWriterNotifier(os.Stdout), log)
		sched.Top, _ = cmd.Flags().GetInt("top")
		if err := sched.Register(cfg.Schedule.Cron); err != nil {
			return err
		}

		var srv *http.Server
		if cfg.Server.MetricsAddr != "" {
			mux := http.NewServeMux()
			mux.Handle("/metrics", m.Handler())
			srv = &http.Server{Addr: cfg.Server.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
			go func() {
				log.Info().Str("addr", cfg.Server.MetricsAddr).Msg("metrics server listening")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error().Err(err).Msg("metrics server")
				}
			}()
		}

		sched.Start()

		if now, _ := cmd.Flags().GetBool("run-now"); now || os.Getenv("RUN_ON_START") == "true" {
			log.Info().Msg("run-on-start enabled, executing assessment now")
			go sched.RunNow()
		}

		log.Info().Msg("RiskSentinel is running. Press Ctrl+C to stop.")

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		log.Info().Msg("shutdown signal received, stopping...")
		cancel()
		sched.Stop()
		if srv != nil {
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			_ = srv.Shutdown(shutdownCtx)
		}
		log.Info().Msg("RiskSentinel stopped")
		return nil
	},
}

func init() {
	scheduleCmd.Flags().Bool("run-now", false, "run one assessment immediately on start")
	scheduleCmd.Flags().Int("top", 10, "ranking rows per report (0 reports all)")
}
