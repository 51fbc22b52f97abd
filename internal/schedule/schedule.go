// Package schedule runs background jobs on cron schedules.
package schedule

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/litescript/ls-arcana/internal/logging"
)

// Job represents a scheduled job.
type Job interface {
	Run() error
	Name() string
}

// parser accepts the usual five fields, an optional leading seconds field,
// and descriptors such as "@hourly" or "@every 30s".
var parser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Scheduler manages background jobs.
type Scheduler struct {
	cron *cron.Cron
	log  *logging.Logger
}

// cronLogger routes cron's own messages into the scheduler log. Routine
// chatter goes to debug.
type cronLogger struct {
	zl zerolog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.zl.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.zl.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}

// New creates a new scheduler. A tick that arrives while the previous run
// of the same job is still going is skipped.
func New(log *logging.Logger) *Scheduler {
	log = log.With("component", "scheduler")
	cl := cronLogger{zl: log.Zerolog()}
	return &Scheduler{
		cron: cron.New(
			cron.WithParser(parser),
			cron.WithLogger(cl),
			cron.WithChain(cron.SkipIfStillRunning(cl)),
		),
		log: log,
	}
}

// Validate reports whether spec is a schedule the scheduler accepts.
func Validate(spec string) error {
	if _, err := parser.Parse(spec); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return nil
}

// Start starts the scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("Scheduler started")
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("Scheduler stopped")
}

// AddJob registers a job on a cron schedule.
// Schedule examples:
//   - "*/5 * * * *"     - Every 5 minutes
//   - "0 9 * * MON-FRI" - 9 AM weekdays
//   - "@every 30s"      - Every 30 seconds
func (s *Scheduler) AddJob(spec string, job Job) error {
	_, err := s.cron.AddFunc(spec, func() {
		s.log.Debug("Running job %s", job.Name())

		if err := job.Run(); err != nil {
			s.log.Error("Job %s failed: %v", job.Name(), err)
		} else {
			s.log.Debug("Job %s completed", job.Name())
		}
	})
	if err != nil {
		return fmt.Errorf("register %s: %w", job.Name(), err)
	}

	s.log.Info("Job %s registered on %q", job.Name(), spec)
	return nil
}

// RunNow executes a job immediately (outside schedule).
func (s *Scheduler) RunNow(job Job) error {
	s.log.Info("Running job %s immediately", job.Name())
	return job.Run()
}
