package cli

import (
	"context"

	"github.com/spf13/cobra"

	"timed-quiz-service/internal/infra/postgres"
	"timed-quiz-service/internal/logging"
)

// NewMigrateCmd applies database migrations.
func NewMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrations(cmd.Context(), *configPath)
		},
	}
}

func runMigrations(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if err := cfg.RequireStore(); err != nil {
		return err
	}
	backend, err := storeBackend(cfg.Store.URI)
	if err != nil {
		return err
	}
	if backend != backendPostgres {
		logging.L().WithField("backend", backend).Info("no schema migrations for this store")
		return nil
	}

	store, err := postgres.Open(ctx, cfg.Store.URI)
	if err != nil {
		return err
	}
	defer store.Close()
	return migrateStore(ctx, store)
}
