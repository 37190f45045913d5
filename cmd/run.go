package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/FOX2920/Automated-CV-Scoring/internal/logger"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Score the candidates of the last application window once and mail the report",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("dry-run", false, "write the report file but do not send it")
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	logger, config := setup(dryRun)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := newApplication(ctx, config, logger, dryRun)
	if err != nil {
		logger.Error("preparing the run", zap.Error(err))
		return
	}

	if err := app.pass(ctx); err != nil {
		logger.Error("scoring pass failed", zap.Error(err))
		return
	}

	logger.Info("done")
}

// setup builds the logger and the validated config. It exits the process
// when either is unusable.
func setup(dryRun bool) (*zap.Logger, *Config) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig(!dryRun)
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the cv-scoring", zap.String("version", version))
	logger.Debug("starting with config",
		zap.String("base_url", config.Base.URL),
		zap.String("model", config.AI.Gemini.Model),
		zap.String("timezone", config.Timezone),
		zap.String("report", config.Report.Path),
		zap.Duration("delay", config.Delay),
	)

	return logger, config
}
