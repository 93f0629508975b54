// Package scheduler runs the daily pricing job on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is the work run on every tick. ctx is cancelled when the run timeout
// expires or the scheduler stops.
type Job func(ctx context.Context)

// Scheduler runs one Job on a standard 5-field cron spec. A tick that fires
// while the previous run is still executing is skipped, and a panicking
// run is recovered and logged.
type Scheduler struct {
	cron    *cron.Cron
	entry   cron.EntryID
	job     Job
	timeout time.Duration
	loc     *time.Location
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New builds a Scheduler. spec is evaluated in loc (nil means UTC); a
// timeout <= 0 lets runs go unbounded.
func New(spec string, loc *time.Location, timeout time.Duration, job Job, logger *slog.Logger) (*Scheduler, error) {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}

	cl := cronLogger{logger: logger.With("component", "scheduler")}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		job:     job,
		timeout: timeout,
		loc:     loc,
		logger:  cl.logger,
		ctx:     ctx,
		cancel:  cancel,
	}

	id, err := s.cron.AddFunc(spec, s.run)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("scheduler.New: spec %q: %w", spec, err)
	}
	s.entry = id
	return s, nil
}

// Start begins firing the job on schedule. It does not block.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", "next", s.Next())
}

// Trigger runs the job now, through the same skip-if-running and recover
// wrappers as scheduled ticks. It blocks until the run finishes or is skipped.
func (s *Scheduler) Trigger() {
	s.cron.Entry(s.entry).WrappedJob.Run()
}

// Next returns the next scheduled fire time after now.
func (s *Scheduler) Next() time.Time {
	return s.cron.Entry(s.entry).Schedule.Next(time.Now().In(s.loc))
}

// Stop halts the schedule, cancels a running job and waits for it to return
// or for ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.cron.Stop()
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler.Stop: %w", ctx.Err())
	}
}

func (s *Scheduler) run() {
	if s.ctx.Err() != nil {
		return
	}
	s.wg.Add(1)
	defer s.wg.Done()

	ctx := s.ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	s.job(ctx)
}

// cronLogger adapts slog to cron.Logger. Cron's own info chatter
// (wake, schedule, run) is logged at debug.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
