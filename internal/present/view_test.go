package present

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timed-quiz-service/internal/domain"
	"timed-quiz-service/internal/quiz"
)

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "10:00", FormatClock(600))
	assert.Equal(t, "00:30", FormatClock(30))
	assert.Equal(t, "01:05", FormatClock(65))
	assert.Equal(t, "00:00", FormatClock(-4))
}

func TestProjectLoadingAndError(t *testing.T) {
	loading := Project(quiz.NewSession().Snapshot())
	assert.Equal(t, LoadingMessage, loading.Message)
	assert.Nil(t, loading.Question)

	s := quiz.NewSession()
	_ = s.Start(context.Background(), quiz.SourceFunc(func(context.Context) ([]domain.Question, error) {
		return nil, errors.New("unreachable")
	}))
	failed := Project(s.Snapshot())
	assert.Equal(t, quiz.StatusError, failed.Status)
	assert.Equal(t, ErrorMessage, failed.Message)
	assert.Nil(t, failed.Timer)
}

func TestProjectReadyFirstQuestion(t *testing.T) {
	s := readySession(t, fixtureQuestions())
	require.NoError(t, s.Select("q1", 1))

	v := Project(s.Snapshot())
	require.NotNil(t, v.Timer)
	assert.Equal(t, "10:00", v.Timer.Display)
	assert.False(t, v.Timer.Danger)
	assert.Equal(t, &ProgressView{Answered: 1, Total: 2}, v.Progress)

	require.Len(t, v.Nav, 2)
	assert.True(t, v.Nav[0].Current)
	assert.True(t, v.Nav[0].Answered)
	assert.False(t, v.Nav[1].Answered)

	require.NotNil(t, v.Question)
	assert.Equal(t, 1, v.Question.Number)
	assert.True(t, v.Question.Options[1].Selected)
	assert.False(t, v.Question.Options[1].Disabled)
	assert.Nil(t, v.Question.Review)

	assert.Equal(t, Controls{
		PreviousEnabled: false,
		ShowSkip:        true,
		SkipEnabled:     true,
		ShowNext:        true,
	}, v.Controls)
	assert.Nil(t, v.Result)
}

func TestProjectDangerTimer(t *testing.T) {
	s := readySession(t, fixtureQuestions(), quiz.WithBudget(DangerThreshold))
	v := Project(s.Snapshot())
	assert.True(t, v.Timer.Danger)
	assert.Equal(t, "00:30", v.Timer.Display)

	s2 := readySession(t, fixtureQuestions(), quiz.WithBudget(DangerThreshold+1))
	assert.False(t, Project(s2.Snapshot()).Timer.Danger)
}

func TestProjectLastQuestionShowsSubmit(t *testing.T) {
	s := readySession(t, fixtureQuestions())
	s.GoTo(1)

	v := Project(s.Snapshot())
	assert.True(t, v.Controls.PreviousEnabled)
	assert.False(t, v.Controls.ShowNext)
	assert.False(t, v.Controls.ShowSkip)
	assert.True(t, v.Controls.ShowSubmit)
}

func TestProjectReviewed(t *testing.T) {
	s := readySession(t, fixtureQuestions())
	require.NoError(t, s.Select("q1", 3))
	s.GoTo(1)
	_, ok := s.Submit()
	require.True(t, ok)
	s.GoTo(0)

	v := Project(s.Snapshot())
	assert.Equal(t, quiz.StatusReviewed, v.Status)
	assert.Equal(t, VerdictIncorrect, v.Nav[0].Verdict)
	assert.Equal(t, VerdictIncorrect, v.Nav[1].Verdict)

	require.NotNil(t, v.Question.Review)
	assert.Equal(t, "JSON.toObject()", v.Question.Review.UserAnswer)
	assert.Equal(t, "JSON.parse()", v.Question.Review.CorrectAnswer)
	assert.Equal(t, "Use JSON.parse() to parse a JSON string.", v.Question.Review.Explanation)
	for _, opt := range v.Question.Options {
		assert.True(t, opt.Disabled)
	}

	assert.Equal(t, Controls{
		ShowSkip:        true,
		SkipEnabled:     false,
		ShowReviewAgain: true,
	}, v.Controls)

	require.NotNil(t, v.Result)
	assert.Equal(t, "0 / 2", v.Result.Score)
	assert.False(t, v.Result.AutoSubmitted)
	assert.Empty(t, v.Result.Note)

	s.GoTo(1)
	unanswered := Project(s.Snapshot()).Question.Review
	assert.Equal(t, NotAnswered, unanswered.UserAnswer)
}

func TestProjectCorrectAnswerHidesExplanation(t *testing.T) {
	s := readySession(t, fixtureQuestions()[:1])
	require.NoError(t, s.Select("q1", 0))
	_, ok := s.Submit()
	require.True(t, ok)

	v := Project(s.Snapshot())
	assert.Equal(t, VerdictCorrect, v.Question.Verdict)
	assert.True(t, v.Question.Review.Correct)
	assert.Empty(t, v.Question.Review.Explanation)
}

func TestProjectEmptyListIsInert(t *testing.T) {
	s := readySession(t, nil)
	v := Project(s.Snapshot())

	assert.Equal(t, quiz.StatusReady, v.Status)
	assert.Nil(t, v.Question)
	assert.Empty(t, v.Nav)
	assert.Equal(t, Controls{SkipEnabled: true}, v.Controls)
}
