// Package pipeline drives one scoring pass: openings, their recent
// candidates, resume text, rubric evaluation and aggregation.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/FOX2920/Automated-CV-Scoring/internal/ai"
	"github.com/FOX2920/Automated-CV-Scoring/internal/basehiring"
	"github.com/FOX2920/Automated-CV-Scoring/internal/filtering"
	"github.com/FOX2920/Automated-CV-Scoring/internal/logger"
	"github.com/FOX2920/Automated-CV-Scoring/internal/scoring"
	"github.com/FOX2920/Automated-CV-Scoring/internal/utils"
)

// DefaultDelay is the pause after every scored candidate.
const DefaultDelay = 3 * time.Second

const (
	SkipNoResume   = "no_resume"
	SkipNoText     = "no_text"
	SkipEvaluation = "evaluation_failed"
)

type OpeningSource interface {
	ListOpenings(ctx context.Context) (*basehiring.Openings, error)
}

type CandidateSource interface {
	ListCandidates(ctx context.Context, openingID string) (*basehiring.Candidates, error)
}

type TextExtractor interface {
	Extract(ctx context.Context, url string) (string, bool)
}

type Options struct {
	Openings   OpeningSource
	Candidates CandidateSource
	Extractor  TextExtractor
	Evaluator  ai.Evaluator
	Aggregator scoring.Aggregator

	Filters        []filtering.Filter
	FilterConfig   *filtering.Config
	// DisableFilters names filter steps to switch off. Mandatory steps ignore it.
	DisableFilters []string

	Delay  time.Duration
	Logger *zap.Logger
}

type Pipeline struct {
	opts Options
	wait func(ctx context.Context, d time.Duration) error
}

// Summary counts what happened during a pass.
type Summary struct {
	Openings       int
	FailedOpenings int
	Candidates     int
	Scored         int
	Skipped        map[string]int
}

func (s *Summary) skip(reason string) {
	if s.Skipped == nil {
		s.Skipped = map[string]int{}
	}
	s.Skipped[reason]++
}

func (s Summary) Fields() []zap.Field {
	return []zap.Field{
		zap.Int("openings", s.Openings),
		zap.Int("failed_openings", s.FailedOpenings),
		zap.Int("candidates", s.Candidates),
		zap.Int("scored", s.Scored),
		zap.Any("skipped", s.Skipped),
	}
}

func New(opts Options) *Pipeline {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Filters == nil {
		opts.Filters = filtering.Default()
	}
	for _, name := range opts.DisableFilters {
		filtering.DisableByName(opts.Filters, name, "disabled by config")
	}

	return &Pipeline{opts: opts, wait: utils.WaitFor}
}

// Run processes every eligible opening and returns the records in processing
// order. Only a failure to list openings or an invalid filter setup aborts the
// pass; a cancelled context stops it and returns what was scored so far.
func (p *Pipeline) Run(ctx context.Context) ([]scoring.Record, Summary, error) {
	var summary Summary
	log := p.opts.Logger

	openings, err := p.opts.Openings.ListOpenings(ctx)
	if err != nil {
		return nil, summary, fmt.Errorf("listing openings: %w", err)
	}

	openings, err = filtering.Run(ctx, p.opts.FilterConfig, filtering.Deps{Logger: log}, p.opts.Filters, openings)
	if err != nil {
		return nil, summary, fmt.Errorf("filtering openings: %w", err)
	}
	log.Debug("filters", zap.Any("steps", filtering.Describe(p.opts.Filters)))

	summary.Openings = openings.Len()
	log.Info("found open jobs", zap.Int("count", openings.Len()))

	var records []scoring.Record
	for _, opening := range openings.Items {
		if err := ctx.Err(); err != nil {
			return records, summary, err
		}

		scored, err := p.processOpening(ctx, opening, &summary)
		records = append(records, scored...)
		if err != nil {
			return records, summary, err
		}
	}

	return records, summary, nil
}

func (p *Pipeline) processOpening(ctx context.Context, opening *basehiring.Opening, summary *Summary) ([]scoring.Record, error) {
	log := p.opts.Logger.With(zap.String(logger.FieldOpeningID, opening.ID), zap.String("opening", opening.Name))
	log.Info("processing job")

	candidates, err := p.opts.Candidates.ListCandidates(ctx, opening.ID)
	if err != nil {
		summary.FailedOpenings++
		log.Warn("listing candidates failed", zap.Error(err))
		return nil, nil
	}

	if !candidates.Present {
		log.Info("no candidates found")
		return nil, nil
	}

	var records []scoring.Record
	for _, candidate := range candidates.Items {
		if err := ctx.Err(); err != nil {
			return records, err
		}
		summary.Candidates++

		clog := logger.WithFields(log, zap.String(logger.FieldCandidateID, candidate.ID))

		resumeURL := candidate.ResumeURL()
		if resumeURL == "" {
			summary.skip(SkipNoResume)
			clog.Debug("candidate has no resume")
			continue
		}

		text, ok := p.opts.Extractor.Extract(ctx, resumeURL)
		if !ok {
			summary.skip(SkipNoText)
			clog.Info("skipping candidate, resume text unavailable")
			continue
		}

		evaluation, err := p.opts.Evaluator.Evaluate(ctx, opening.Content, text)
		if err != nil {
			summary.skip(SkipEvaluation)
			clog.Warn("evaluating resume failed", zap.Error(err))
			continue
		}

		record := p.opts.Aggregator.Aggregate(opening, candidate, evaluation)
		records = append(records, record)
		summary.Scored++
		clog.Info("candidate scored", zap.Float64("overall", record.Overall))

		if err := p.wait(ctx, p.opts.Delay); err != nil {
			return records, err
		}
	}

	return records, nil
}
