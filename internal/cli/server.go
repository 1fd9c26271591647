package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"timed-quiz-service/internal/app"
	"timed-quiz-service/internal/config"
	"timed-quiz-service/internal/infra/memory"
	infraredis "timed-quiz-service/internal/infra/redis"
	"timed-quiz-service/internal/logging"
	"timed-quiz-service/internal/quiz"
	transport "timed-quiz-service/internal/transport/http"
)

const defaultCacheTTL = 30 * time.Second

type sessionRegistry interface {
	transport.SessionRegistry
	CloseAll()
}

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:     "start",
		Aliases: []string{"serve"},
		Short:   "Start the question API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	log := logging.L()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.WithError(err).Error("failed to open question store")
		return err
	}
	defer closeStore()

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}

	var questions app.QuestionRepository = store
	if cacheTTL := config.TTLDuration(cfg.Questions.CacheTTL, defaultCacheTTL); cacheTTL > 0 {
		if redisClient != nil {
			questions = infraredis.NewQuestionCache(redisClient, store, cacheTTL)
		} else {
			questions = memory.NewQuestionCache(store, cacheTTL)
		}
	}

	var sessions sessionRegistry
	if redisClient != nil {
		redisSessions := infraredis.NewSessionStore(redisClient, config.TTLDuration(cfg.Redis.TTL, 15*time.Minute))
		go redisSessions.KeepAlive(ctx)
		sessions = redisSessions
	} else {
		sessions = memory.NewSessionStore()
	}
	defer sessions.CloseAll()

	service := app.NewQuestionService(questions)
	budget := config.Seconds(cfg.Client.Duration, quiz.DefaultBudget)
	handler := transport.NewRouter(transport.RouterConfig{
		Questions:      service,
		WS:             transport.NewWSHandler(service, sessions, quiz.WithBudget(budget)),
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	server := &http.Server{
		Addr:              ":" + finalPort,
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infof("Server listening on port %s", finalPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err, ok := <-serveErr:
		if ok {
			log.WithError(err).Error("failed to start server")
			return err
		}
		return nil
	case <-ctx.Done():
		log.Info("shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
