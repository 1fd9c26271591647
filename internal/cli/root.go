package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"timed-quiz-service/internal/config"
	"timed-quiz-service/internal/logging"
)

// Execute runs the CLI until the command finishes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	if err := config.LoadDotEnv(); err != nil {
		logging.L().WithError(err).Warn("failed to load .env")
	}

	var (
		port       string
		configPath string
	)
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = config.DefaultPath
	}

	cmd := &cobra.Command{
		Use:          "quiz-service",
		Short:        "Timed multiple-choice quiz: question API, seeding and terminal client",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&port, "port", "", "port to listen on (overrides PORT and server.port)")
	cmd.PersistentFlags().StringVar(&configPath, "config", envConfig, "path to YAML config")
	cmd.AddCommand(NewStartCmd(&configPath, &port))
	cmd.AddCommand(NewSeedCmd(&configPath))
	cmd.AddCommand(NewMigrateCmd(&configPath))
	cmd.AddCommand(NewPlayCmd(&configPath))
	return cmd
}

// loadConfig reads configuration and installs the process logger it describes.
func loadConfig(path string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	if err != nil {
		return cfg, err
	}
	logging.SetDefault(logger)
	return cfg, nil
}
