package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"timed-quiz-service/internal/logging"
)

type RouterConfig struct {
	Questions      QuestionLister
	WS             *WSHandler
	AllowedOrigins []string
}

// NewRouter mounts the question API, the liveness probe and, when configured,
// the hosted-session websocket.
func NewRouter(cfg RouterConfig) http.Handler {
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.Middleware)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))

	questions := NewQuestionHandler(cfg.Questions)
	r.Get("/health", Health)
	r.Get("/api/questions", questions.ListQuestions)
	if cfg.WS != nil {
		r.Get("/ws", cfg.WS.ServeWS)
	}
	return r
}
