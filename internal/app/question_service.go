package app

import (
	"context"
	"fmt"

	"timed-quiz-service/internal/domain"
	"timed-quiz-service/internal/logging"
)

// QuestionRepository loads the question collection (from cache/backing store).
type QuestionRepository interface {
	ListQuestions(ctx context.Context) ([]domain.Question, error)
}

// QuestionWriter replaces the whole question collection.
type QuestionWriter interface {
	ReplaceAll(ctx context.Context, questions []domain.Question) (int, error)
}

// QuestionStore is a backing store that can both serve and seed questions.
type QuestionStore interface {
	QuestionRepository
	QuestionWriter
}

// QuestionService serves the question list to clients.
type QuestionService struct {
	questions QuestionRepository
}

func NewQuestionService(questions QuestionRepository) *QuestionService {
	return &QuestionService{questions: questions}
}

// ListQuestions returns every question in store order. An empty store yields an
// empty, non-nil slice.
func (s *QuestionService) ListQuestions(ctx context.Context) ([]domain.Question, error) {
	questions, err := s.questions.ListQuestions(ctx)
	if err != nil {
		logging.WithContext(ctx).WithError(err).Error("failed to fetch questions")
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	if questions == nil {
		questions = []domain.Question{}
	}
	return questions, nil
}
