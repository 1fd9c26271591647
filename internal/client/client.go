package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"timed-quiz-service/internal/domain"
)

// DefaultBaseURL is the backend origin used when none is configured.
const DefaultBaseURL = "http://localhost:5000"

// APIClient reads questions from the quiz backend.
type APIClient struct {
	baseURL string
	http    *http.Client
}

// New returns a client for baseURL. A nil httpClient falls back to one with a 15s timeout.
func New(baseURL string, httpClient *http.Client) *APIClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &APIClient{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// FetchQuestions calls GET /api/questions. Any non-2xx response is an error.
func (c *APIClient) FetchQuestions(ctx context.Context) ([]domain.Question, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/questions", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch questions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch questions: unexpected status %d", resp.StatusCode)
	}

	var questions []domain.Question
	if err := json.NewDecoder(resp.Body).Decode(&questions); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	return questions, nil
}
