package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"RiskSentinel/internal/assessment"
	"RiskSentinel/internal/notifier"
)

// Job is one assessment run.
type Job interface {
	Run(ctx context.Context) (*assessment.Result, error)
}

// Scheduler runs the assessment on a cron schedule and reports each run.
type Scheduler struct {
	Cron     *cron.Cron
	Job      Job
	Notifier notifier.Notifier
	Ctx      context.Context
	// Top limits the ranking rows in a report; 0 reports all.
	Top int

	running sync.Mutex
	log     zerolog.Logger
}

// ErrRunInProgress is returned by RunNow when another assessment is still running.
var ErrRunInProgress = errors.New("assessment already running")

// NewScheduler creates a Scheduler. Overlapping runs are skipped.
func NewScheduler(ctx context.Context, job Job, n notifier.Notifier, log zerolog.Logger) *Scheduler {
	log = log.With().Str("component", "scheduler").Logger()
	cl := cronLogger{log: log}
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds(), cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		Job:      job,
		Notifier: n,
		Ctx:      ctx,
		log:      log,
	}
}

// Register adds the assessment task under a 6-field cron spec.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.assessmentTask); err != nil {
		return fmt.Errorf("register assessment task: %w", err)
	}
	s.log.Info().Str("cron", spec).Msg("assessment task registered")
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info().Msg("scheduler started")
}

// Stop stops the scheduler and waits for a running assessment to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}

// RunNow executes the assessment immediately and reports it. It returns
// ErrRunInProgress without running when a scheduled or manual run is active.
func (s *Scheduler) RunNow() (*assessment.Result, error) {
	return s.run()
}

func (s *Scheduler) assessmentTask() {
	_, _ = s.run()
}

func (s *Scheduler) run() (*assessment.Result, error) {
	if !s.running.TryLock() {
		s.log.Warn().Msg("assessment already running, skipping")
		return nil, ErrRunInProgress
	}
	defer s.running.Unlock()

	s.log.Info().Msg("running assessment task")
	res, err := s.Job.Run(s.Ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("assessment task")
		s.trySend(fmt.Sprintf("RiskSentinel run failed: %v\n", err))
		return res, err
	}

	report := notifier.FormatRanking(res.RunID, res.StartedAt, res.Scores, s.Top)
	if f := notifier.FormatFailures(res.Metrics); f != "" {
		report += "\n" + f
	}
	s.trySend(report)
	return res, nil
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := notifier.SendWithRetry(s.Ctx, s.Notifier, text, 2, time.Second, s.log); err != nil {
		s.log.Error().Err(err).Msg("send report")
	}
}

// cronLogger adapts zerolog to the cron.Logger interface.
type cronLogger struct {
	log zerolog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
