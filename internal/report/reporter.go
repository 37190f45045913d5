// Package report writes the evaluation records to CSV and mails the file.
package report

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/FOX2920/Automated-CV-Scoring/internal/scoring"
)

// ErrNoRecords is returned when there is nothing to report. Nothing is written or sent.
var ErrNoRecords = errors.New("no records to report")

var ErrMailNotConfigured = errors.New("mail is not configured")

const DefaultPath = "cv_evaluations.csv"

type sender interface {
	Send(ctx context.Context, path string, count int, day time.Time) error
}

type Reporter struct {
	Path string
	// DryRun writes the file and skips the mail.
	DryRun   bool
	Location *time.Location

	sender sender
	logger *zap.Logger
	now    func() time.Time
}

func NewReporter(mailer *Mailer, logger *zap.Logger) *Reporter {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &Reporter{
		Path:     DefaultPath,
		Location: time.Local,
		logger:   logger,
		now:      time.Now,
	}
	if mailer != nil {
		r.sender = mailer
	}

	return r
}

// Report writes records to the report file and mails it. Delivery failures are
// logged and returned; nothing is retried.
func (r *Reporter) Report(ctx context.Context, records []scoring.Record) error {
	if len(records) == 0 {
		r.logger.Info("no results to report")
		return ErrNoRecords
	}

	log := r.logger.With(zap.String("path", r.Path), zap.Int("records", len(records)))

	if err := WriteFile(r.Path, records); err != nil {
		log.Error("writing report failed", zap.Error(err))
		return err
	}
	log.Info("report written")

	if r.DryRun {
		log.Info("dry run, report not sent")
		return nil
	}

	if r.sender == nil {
		log.Error("mail is not configured, report not sent")
		return ErrMailNotConfigured
	}

	loc := r.Location
	if loc == nil {
		loc = time.Local
	}

	err := r.sender.Send(ctx, r.Path, len(records), r.now().In(loc))
	switch {
	case err == nil:
		log.Info("report sent")
	case errors.Is(err, ErrReportNotFound):
		log.Error("report file not found", zap.Error(err))
	case errors.Is(err, ErrAuthentication):
		log.Error("smtp authentication failed, check the sender email and password", zap.Error(err))
	default:
		log.Error("sending report failed", zap.Error(err))
	}

	return err
}
