package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/FOX2920/Automated-CV-Scoring/internal/scheduler"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Keep running and repeat the scoring pass on a cron schedule",
	Run: func(cmd *cobra.Command, _ []string) {
		schedule(cmd)
	},
}

func init() {
	rootCmd.AddCommand(scheduleCmd)

	scheduleCmd.Flags().Bool("dry-run", false, "write the report file but do not send it")
	scheduleCmd.Flags().String("cron", "", "cron expression overriding the schedule config key")
	scheduleCmd.Flags().Bool("now", false, "run a pass immediately before waiting for the schedule")
}

func schedule(cmd *cobra.Command) {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	spec, _ := cmd.Flags().GetString("cron")
	now, _ := cmd.Flags().GetBool("now")

	logger, config := setup(dryRun)
	if spec == "" {
		spec = config.Schedule
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := newApplication(ctx, config, logger, dryRun)
	if err != nil {
		logger.Error("preparing the scheduler", zap.Error(err))
		return
	}

	job := func(ctx context.Context) {
		if err := app.pass(ctx); err != nil {
			logger.Error("scoring pass failed", zap.Error(err))
		}
	}

	s, err := scheduler.New(spec, app.location, logger, job)
	if err != nil {
		logger.Error("creating the scheduler", zap.Error(err))
		return
	}

	if now {
		job(ctx)
	}

	if err := s.Run(ctx); err != nil {
		logger.Error("scheduler stopped", zap.Error(err))
	}
}
