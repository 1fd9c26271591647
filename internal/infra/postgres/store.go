package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"timed-quiz-service/internal/domain"
	pgmigrations "timed-quiz-service/internal/infra/postgres/migrations"
)

const listQuestionsSQL = `SELECT id::text, prompt, options, correct_index, explanation, created_at, updated_at
FROM questions
ORDER BY position, created_at, id`

type questionModel struct {
	bun.BaseModel `bun:"table:questions"`

	ID           string    `bun:"id,pk,type:uuid"`
	Position     int       `bun:"position,notnull"`
	Prompt       string    `bun:"prompt,notnull"`
	Options      []string  `bun:"options,type:jsonb,notnull"`
	CorrectIndex int       `bun:"correct_index,notnull"`
	Explanation  string    `bun:"explanation,notnull"`
	CreatedAt    time.Time `bun:"created_at,notnull"`
	UpdatedAt    time.Time `bun:"updated_at,notnull"`
}

// Store keeps questions in PostgreSQL. Reads go through pgxpool; writes and
// migrations go through bun.
type Store struct {
	pool *pgxpool.Pool
	db   *bun.DB
	now  func() time.Time
}

// Open connects both the read pool and the bun handle to dsn.
func Open(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return NewStore(pool, bun.NewDB(sqldb, pgdialect.New())), nil
}

func NewStore(pool *pgxpool.Pool, db *bun.DB) *Store {
	return &Store{pool: pool, db: db, now: time.Now}
}

// Migrate applies pending schema migrations.
func (s *Store) Migrate(ctx context.Context) (*migrate.MigrationGroup, error) {
	migrator := migrate.NewMigrator(s.db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return nil, fmt.Errorf("init migrations: %w", err)
	}
	group, err := migrator.Migrate(ctx)
	if err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return group, nil
}

func (s *Store) ListQuestions(ctx context.Context) ([]domain.Question, error) {
	rows, err := s.pool.Query(ctx, listQuestionsSQL)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	questions := []domain.Question{}
	for rows.Next() {
		var (
			q       domain.Question
			options []byte
		)
		if err := rows.Scan(&q.ID, &q.Prompt, &options, &q.CorrectIndex, &q.Explanation, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if err := json.Unmarshal(options, &q.Options); err != nil {
			return nil, fmt.Errorf("decode options: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read questions: %w", err)
	}
	return questions, nil
}

// ReplaceAll deletes every row and inserts questions in one transaction.
func (s *Store) ReplaceAll(ctx context.Context, questions []domain.Question) (int, error) {
	models := toModels(questions, s.now().UTC())
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*questionModel)(nil)).Where("TRUE").Exec(ctx); err != nil {
			return fmt.Errorf("delete questions: %w", err)
		}
		if len(models) == 0 {
			return nil
		}
		if _, err := tx.NewInsert().Model(&models).Exec(ctx); err != nil {
			return fmt.Errorf("insert questions: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(models), nil
}

// Close releases the pool and the bun handle.
func (s *Store) Close() error {
	s.pool.Close()
	return s.db.Close()
}

func toModels(questions []domain.Question, now time.Time) []questionModel {
	models := make([]questionModel, 0, len(questions))
	for i, q := range questions {
		id := q.ID
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		models = append(models, questionModel{
			ID:           id,
			Position:     i,
			Prompt:       q.Prompt,
			Options:      append([]string(nil), q.Options...),
			CorrectIndex: q.CorrectIndex,
			Explanation:  q.Explanation,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}
	return models
}
