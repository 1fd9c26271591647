package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"timed-quiz-service/internal/domain"
)

// QuestionStore is an in-process question collection (useful for tests/demos).
type QuestionStore struct {
	mu        sync.RWMutex
	questions []domain.Question
	now       func() time.Time
}

func NewQuestionStore(questions ...domain.Question) *QuestionStore {
	s := &QuestionStore{now: time.Now}
	s.questions = s.stamp(questions)
	return s
}

func (s *QuestionStore) ListQuestions(_ context.Context) ([]domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Question, len(s.questions))
	copy(out, s.questions)
	return out, nil
}

// ReplaceAll drops every stored question and stores the given ones in order.
func (s *QuestionStore) ReplaceAll(_ context.Context, questions []domain.Question) (int, error) {
	stamped := s.stamp(questions)
	s.mu.Lock()
	s.questions = stamped
	s.mu.Unlock()
	return len(stamped), nil
}

func (s *QuestionStore) stamp(questions []domain.Question) []domain.Question {
	now := s.now().UTC()
	out := make([]domain.Question, 0, len(questions))
	for _, q := range questions {
		if q.ID == "" {
			q.ID = uuid.NewString()
		}
		if q.CreatedAt.IsZero() {
			q.CreatedAt = now
		}
		q.UpdatedAt = now
		out = append(out, q)
	}
	return out
}
