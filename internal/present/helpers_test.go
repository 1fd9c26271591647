package present

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"timed-quiz-service/internal/domain"
	"timed-quiz-service/internal/quiz"
)

type idleTicker struct{ ch chan time.Time }

func (t idleTicker) C() <-chan time.Time { return t.ch }

func (t idleTicker) Stop() {}

func idle(time.Duration) quiz.Ticker { return idleTicker{ch: make(chan time.Time)} }

func fixtureQuestions() []domain.Question {
	return []domain.Question{
		{
			ID:           "q1",
			Prompt:       "Which method parses JSON text?",
			Options:      []string{"JSON.parse()", "JSON.stringify()", "JSON.convert()", "JSON.toObject()"},
			CorrectIndex: 0,
			Explanation:  "Use JSON.parse() to parse a JSON string.",
		},
		{
			ID:           "q2",
			Prompt:       "Which status code means unauthorized?",
			Options:      []string{"200", "301", "401", "500"},
			CorrectIndex: 2,
			Explanation:  "401 Unauthorized signals authentication is required or failed.",
		},
	}
}

func readySession(t *testing.T, questions []domain.Question, opts ...quiz.Option) *quiz.Session {
	t.Helper()
	s := quiz.NewSession(append([]quiz.Option{quiz.WithTicker(idle)}, opts...)...)
	t.Cleanup(s.Close)
	err := s.Start(context.Background(), quiz.SourceFunc(func(context.Context) ([]domain.Question, error) {
		return questions, nil
	}))
	require.NoError(t, err)
	return s
}
