package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"timed-quiz-service/internal/app"
	"timed-quiz-service/internal/config"
	"timed-quiz-service/internal/domain"
	"timed-quiz-service/internal/infra/mongo"
	"timed-quiz-service/internal/infra/postgres"
	"timed-quiz-service/internal/logging"
)

const (
	backendMongo    = "mongo"
	backendPostgres = "postgres"
)

// storeBackend maps a store URI onto a backend by scheme.
func storeBackend(uri string) (string, error) {
	scheme, _, ok := strings.Cut(strings.TrimSpace(uri), "://")
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedStore, uri)
	}
	switch strings.ToLower(scheme) {
	case "mongodb", "mongodb+srv":
		return backendMongo, nil
	case "postgres", "postgresql":
		return backendPostgres, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedStore, scheme)
	}
}

// openStore connects the configured backend. PostgreSQL schemas are migrated
// before the store is returned. The caller must invoke the returned close func.
func openStore(ctx context.Context, cfg config.Config) (app.QuestionStore, func(), error) {
	if err := cfg.RequireStore(); err != nil {
		return nil, nil, err
	}
	backend, err := storeBackend(cfg.Store.URI)
	if err != nil {
		return nil, nil, err
	}

	switch backend {
	case backendPostgres:
		store, err := postgres.Open(ctx, cfg.Store.URI)
		if err != nil {
			return nil, nil, err
		}
		if err := migrateStore(ctx, store); err != nil {
			_ = store.Close()
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	default:
		conn := mongo.NewConn(cfg.Store.URI, cfg.Store.Database)
		db, err := conn.Connect(ctx)
		if err != nil {
			return nil, nil, err
		}
		logging.L().WithField("database", conn.Database()).Info("connected to MongoDB")
		return mongo.NewQuestionStore(db), func() {
			if err := conn.Disconnect(context.Background()); err != nil {
				logging.L().WithError(err).Warn("mongo disconnect failed")
			}
		}, nil
	}
}

// withStore opens the store for the duration of fn only.
func withStore(ctx context.Context, cfg config.Config, fn func(context.Context, app.QuestionStore) error) error {
	if err := cfg.RequireStore(); err != nil {
		return err
	}
	backend, err := storeBackend(cfg.Store.URI)
	if err != nil {
		return err
	}
	if backend == backendMongo {
		return mongo.WithConn(ctx, cfg.Store.URI, cfg.Store.Database, func(ctx context.Context, db *mongodriver.Database) error {
			return fn(ctx, mongo.NewQuestionStore(db))
		})
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()
	return fn(ctx, store)
}

func migrateStore(ctx context.Context, store *postgres.Store) error {
	group, err := store.Migrate(ctx)
	if err != nil {
		return err
	}
	entry := logging.L().WithFields(logrus.Fields{"group": group.ID})
	if group.IsZero() {
		entry.Info("database schema up to date")
		return nil
	}
	entry.WithField("migrations", group.Migrations.String()).Info("migrations applied")
	return nil
}
