// Package scheduler repeats the scoring pass on a cron expression.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultSpec runs the pass every day at 08:00, right after the application window closes.
const DefaultSpec = "0 8 * * *"

type Job func(ctx context.Context)

type Scheduler struct {
	cron    *cron.Cron
	entryID cron.EntryID
	logger  *zap.Logger
	// ctx is handed to every job; Run replaces it before the cron starts.
	ctx context.Context
}

// New schedules job on spec, evaluated in loc. A run that is still going when
// the next one is due makes the next one skip.
func New(spec string, loc *time.Location, logger *zap.Logger, job Job) (*Scheduler, error) {
	if job == nil {
		return nil, errors.New("job must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}

	cronLog := cronLogger{logger: logger.Sugar()}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(cronLog),
		cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
	)

	s := &Scheduler{cron: c, logger: logger, ctx: context.Background()}

	id, err := c.AddFunc(spec, func() { job(s.ctx) })
	if err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	s.entryID = id

	return s, nil
}

// Next returns the next activation time.
func (s *Scheduler) Next() time.Time {
	if next := s.cron.Entry(s.entryID).Next; !next.IsZero() {
		return next
	}

	return s.cron.Entry(s.entryID).Schedule.Next(time.Now().In(s.cron.Location()))
}

// Run starts the scheduler and blocks until ctx is done. Jobs receive ctx, and
// a running job is waited for before Run returns.
func (s *Scheduler) Run(ctx context.Context) error {
	s.ctx = ctx
	s.cron.Start()
	s.logger.Info("scheduler started", zap.Time("next_run", s.Next()))

	<-ctx.Done()

	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()

	return nil
}

type cronLogger struct {
	logger *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Errorw(msg, append(keysAndValues, "error", err)...)
}
