package quiz

import "timed-quiz-service/internal/domain"

// Status is the lifecycle phase of a quiz session.
type Status string

const (
	StatusLoading  Status = "loading"
	StatusReady    Status = "ready"
	StatusReviewed Status = "reviewed"
	StatusError    Status = "error"
)

// Snapshot is an immutable view of a session at one point in time.
// Questions and Result are shared with the session and must be treated as read-only.
type Snapshot struct {
	Status    Status
	Questions []domain.Question
	Answers   map[string]int
	Remaining int
	Current   int
	Result    *domain.Result
	Err       error
}

// CurrentQuestion returns the question under the navigation cursor.
func (s Snapshot) CurrentQuestion() (domain.Question, bool) {
	if s.Current < 0 || s.Current >= len(s.Questions) {
		return domain.Question{}, false
	}
	return s.Questions[s.Current], true
}

// Answer returns the recorded choice for a question.
func (s Snapshot) Answer(questionID string) (int, bool) {
	choice, ok := s.Answers[questionID]
	return choice, ok
}

// AnsweredCount is the number of questions with a recorded choice.
func (s Snapshot) AnsweredCount() int {
	return len(s.Answers)
}

// LastIndex is the index of the final question, or -1 for an empty list.
func (s Snapshot) LastIndex() int {
	return len(s.Questions) - 1
}

// Reviewed reports whether the result has been computed.
func (s Snapshot) Reviewed() bool {
	return s.Result != nil
}
