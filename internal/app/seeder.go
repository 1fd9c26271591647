package app

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"timed-quiz-service/internal/domain"
	"timed-quiz-service/internal/logging"
)

//go:embed fixtures/questions.yaml
var defaultFixtures []byte

// CacheInvalidator drops cached copies of the question list.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// Seeder replaces the stored questions with a fixture set.
type Seeder struct {
	store  QuestionWriter
	caches []CacheInvalidator
}

func NewSeeder(store QuestionWriter, caches ...CacheInvalidator) *Seeder {
	return &Seeder{store: store, caches: caches}
}

// Seed validates every fixture, then deletes all stored questions and inserts the
// fixtures. Nothing is written when any fixture is invalid.
func (s *Seeder) Seed(ctx context.Context, questions []domain.Question) (int, error) {
	if err := domain.ValidateQuestions(questions); err != nil {
		return 0, err
	}
	normalized := make([]domain.Question, 0, len(questions))
	for _, q := range questions {
		normalized = append(normalized, domain.NormalizeQuestion(q))
	}

	n, err := s.store.ReplaceAll(ctx, normalized)
	if err != nil {
		return 0, fmt.Errorf("replace questions: %w", err)
	}

	for _, c := range s.caches {
		if err := c.Invalidate(ctx); err != nil {
			logging.WithContext(ctx).WithError(err).Warn("failed to invalidate question cache")
		}
	}
	return n, nil
}

// DefaultFixtures returns the built-in question set.
func DefaultFixtures() ([]domain.Question, error) {
	return parseFixtures(defaultFixtures, false)
}

// LoadFixtures reads a YAML or JSON fixture file. Both a bare list and an object
// with a "questions" key are accepted.
func LoadFixtures(path string) ([]domain.Question, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseFixtures(raw, strings.EqualFold(filepath.Ext(path), ".json"))
}

func parseFixtures(raw []byte, isJSON bool) ([]domain.Question, error) {
	var wrapper struct {
		Questions []domain.Question `json:"questions" yaml:"questions"`
	}
	var list []domain.Question

	unmarshal := yaml.Unmarshal
	if isJSON {
		unmarshal = json.Unmarshal
	}
	if err := unmarshal(raw, &wrapper); err == nil && len(wrapper.Questions) > 0 {
		return wrapper.Questions, nil
	}
	if err := unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	return list, nil
}
