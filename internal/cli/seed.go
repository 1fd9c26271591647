package cli

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"timed-quiz-service/internal/app"
	"timed-quiz-service/internal/domain"
	infraredis "timed-quiz-service/internal/infra/redis"
	"timed-quiz-service/internal/logging"
)

// NewSeedCmd replaces the stored questions with the built-in or a file-provided set.
func NewSeedCmd(configPath *string) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace all stored questions with fixtures",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), *configPath, file)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML or JSON fixture file (defaults to the built-in set)")
	return cmd
}

func runSeed(ctx context.Context, configPath, file string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if err := cfg.RequireStore(); err != nil {
		return err
	}

	fixtures, err := loadSeedFixtures(file)
	if err != nil {
		return err
	}

	var caches []app.CacheInvalidator
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		caches = append(caches, infraredis.NewQuestionCache(client, nil, 0))
	}

	return withStore(ctx, cfg, func(ctx context.Context, store app.QuestionStore) error {
		n, err := app.NewSeeder(store, caches...).Seed(ctx, fixtures)
		if err != nil {
			logging.L().WithError(err).Error("seeding failed")
			return err
		}
		logging.L().Infof("Seeded %d questions", n)
		return nil
	})
}

func loadSeedFixtures(file string) ([]domain.Question, error) {
	if file == "" {
		return app.DefaultFixtures()
	}
	return app.LoadFixtures(file)
}
