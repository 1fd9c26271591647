package http

import (
	"context"
	"encoding/json"
	"net/http"

	"timed-quiz-service/internal/domain"
)

// QuestionLister serves the full question list.
type QuestionLister interface {
	ListQuestions(ctx context.Context) ([]domain.Question, error)
}

type QuestionHandler struct {
	questions QuestionLister
}

func NewQuestionHandler(questions QuestionLister) *QuestionHandler {
	return &QuestionHandler{questions: questions}
}

type messagePayload struct {
	Message string `json:"message"`
}

// ListQuestions answers GET /api/questions. Store failures are hidden behind a
// generic message; the service has already logged them.
func (h *QuestionHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := h.questions.ListQuestions(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, messagePayload{Message: "Failed to fetch questions"})
		return
	}
	if questions == nil {
		questions = []domain.Question{}
	}
	writeJSON(w, http.StatusOK, questions)
}

// Health is a liveness probe; it checks no dependencies.
func Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
