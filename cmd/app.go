package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/FOX2920/Automated-CV-Scoring/internal/ai/gemini"
	"github.com/FOX2920/Automated-CV-Scoring/internal/basehiring"
	"github.com/FOX2920/Automated-CV-Scoring/internal/filtering"
	"github.com/FOX2920/Automated-CV-Scoring/internal/logger"
	"github.com/FOX2920/Automated-CV-Scoring/internal/pipeline"
	"github.com/FOX2920/Automated-CV-Scoring/internal/report"
	"github.com/FOX2920/Automated-CV-Scoring/internal/resume"
	"github.com/FOX2920/Automated-CV-Scoring/internal/scoring"
)

const aiProvider = "gemini"

// application holds what survives between passes in schedule mode.
type application struct {
	config    *Config
	location  *time.Location
	generator *gemini.Generator
	logger    *zap.Logger
	dryRun    bool
}

func newApplication(ctx context.Context, config *Config, log *zap.Logger, dryRun bool) (*application, error) {
	location, err := time.LoadLocation(config.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone: %w", err)
	}

	if config.PDF != nil {
		if err := resume.SetPDFLicense(config.PDF.LicenseKey); err != nil {
			return nil, err
		}
	}

	generator, err := gemini.NewGenerator(ctx, config.AI.Gemini.APIKey, config.AI.Gemini.Model)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &application{
		config:    config,
		location:  location,
		generator: generator,
		logger:    log,
		dryRun:    dryRun,
	}, nil
}

// pass runs one scoring pass and reports its records. Having nothing to
// report is not an error.
func (a *application) pass(ctx context.Context) error {
	log, runID := logger.WithRun(a.logger)
	started := time.Now()
	log.Info("starting scoring pass", zap.Bool("dry_run", a.dryRun))

	records, summary, err := a.newPipeline(log).Run(ctx)
	log.Info("scoring finished", append(summary.Fields(), zap.Duration("took", time.Since(started)))...)
	if err != nil {
		return fmt.Errorf("run %s: %w", runID, err)
	}

	err = a.newReporter(log).Report(ctx, records)
	if errors.Is(err, report.ErrNoRecords) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("run %s: %w", runID, err)
	}

	return nil
}

func (a *application) newPipeline(log *zap.Logger) *pipeline.Pipeline {
	cfg := a.config

	base := basehiring.New(log, cfg.Base.AccessToken)
	base.BaseURL = cfg.Base.URL
	base.Location = a.location
	base.PageSize = cfg.Base.PageSize
	base.WindowEndHour = cfg.Base.WindowEndHour
	base.WindowDays = cfg.Base.WindowDays

	extractor := resume.New(log)

	if ua := strings.TrimSpace(cfg.UserAgent); ua != "" {
		base.UserAgent = ua
		extractor.UserAgent = ua
	}

	evaluator := gemini.NewEvaluator(
		a.generator,
		logger.WithCommonFields(log, aiProvider, a.generator.Model()),
		cfg.AI.Gemini.MaxLogLength,
	)

	filterConfig := &filtering.Config{}
	var disabled []string
	if cfg.Filters != nil {
		filterConfig.MinDescriptionLength = cfg.Filters.MinDescriptionLength
		filterConfig.ExcludeOpenings = cfg.Filters.ExcludeOpenings
		disabled = cfg.Filters.Disable
	}

	return pipeline.New(pipeline.Options{
		Openings:       base,
		Candidates:     base,
		Extractor:      extractor,
		Evaluator:      evaluator,
		Aggregator:     scoring.Aggregator{BaseURL: cfg.Base.URL, Location: a.location},
		FilterConfig:   filterConfig,
		DisableFilters: disabled,
		Delay:          cfg.Delay,
		Logger:         log,
	})
}

func (a *application) newReporter(log *zap.Logger) *report.Reporter {
	var mailer *report.Mailer
	if mail := a.config.Mail; mail != nil {
		mailer = report.NewMailer(report.MailSettings{
			Host:     mail.Host,
			Port:     mail.Port,
			From:     mail.From,
			Password: mail.Password,
			To:       mail.To,
			Company:  mail.Company,
		}, log)
	}

	reporter := report.NewReporter(mailer, log)
	reporter.Path = a.config.Report.Path
	reporter.DryRun = a.dryRun
	reporter.Location = a.location

	return reporter
}
