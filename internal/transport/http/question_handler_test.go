package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timed-quiz-service/internal/app"
	"timed-quiz-service/internal/domain"
	"timed-quiz-service/internal/infra/memory"
	"timed-quiz-service/internal/logging"
)

func TestListQuestionsReturnsArray(t *testing.T) {
	router := NewRouter(RouterConfig{Questions: memory.NewQuestionStore(sampleQuestions()...)})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/questions", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var body []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 2)
	assert.Equal(t, "q1", body[0]["_id"])
	assert.Equal(t, "What is 2 + 2?", body[0]["prompt"])
	assert.Len(t, body[0]["options"], 4)
	assert.EqualValues(t, 1, body[0]["correctIndex"])
	assert.Equal(t, "Basic arithmetic.", body[0]["explanation"])
}

func TestListQuestionsEmptyStore(t *testing.T) {
	router := NewRouter(RouterConfig{Questions: memory.NewQuestionStore()})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/questions", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestListQuestionsStoreFailure(t *testing.T) {
	router := NewRouter(RouterConfig{Questions: failingLister{}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/questions", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"Failed to fetch questions"}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestListQuestionsStoreFailureLoggedOnce(t *testing.T) {
	hook := captureLogs(t)
	router := NewRouter(RouterConfig{Questions: app.NewQuestionService(failingLister{})})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/questions", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var errorsLogged int
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.ErrorLevel {
			errorsLogged++
		}
	}
	assert.Equal(t, 1, errorsLogged)
}

func TestHealth(t *testing.T) {
	router := NewRouter(RouterConfig{Questions: failingLister{}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCORSAllowsAnyOriginByDefault(t *testing.T) {
	router := NewRouter(RouterConfig{Questions: memory.NewQuestionStore()})

	req := httptest.NewRequest(http.MethodGet, "/api/questions", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSRestrictedOrigins(t *testing.T) {
	router := NewRouter(RouterConfig{
		Questions:      memory.NewQuestionStore(),
		AllowedOrigins: []string{"http://quiz.local"},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/questions", nil)
	req.Header.Set("Origin", "http://evil.local")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestWebsocketRouteAbsentWithoutHandler(t *testing.T) {
	router := NewRouter(RouterConfig{Questions: memory.NewQuestionStore()})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// captureLogs swaps the process logger for one recording entries until the test ends.
func captureLogs(t *testing.T) *logtest.Hook {
	t.Helper()
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	prev := logging.L()
	logging.SetDefault(logger)
	t.Cleanup(func() { logging.SetDefault(prev) })
	return hook
}

type failingLister struct{}

func (failingLister) ListQuestions(context.Context) ([]domain.Question, error) {
	return nil, errors.New("connection refused")
}

func sampleQuestions() []domain.Question {
	return []domain.Question{
		{
			ID:           "q1",
			Prompt:       "What is 2 + 2?",
			Options:      []string{"3", "4", "5", "22"},
			CorrectIndex: 1,
			Explanation:  "Basic arithmetic.",
		},
		{
			ID:           "q2",
			Prompt:       "Capital of France?",
			Options:      []string{"Berlin", "Madrid", "Paris", "Rome"},
			CorrectIndex: 2,
			Explanation:  "Paris is the capital.",
		},
	}
}
