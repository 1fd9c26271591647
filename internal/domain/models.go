package domain

import "time"

// OptionCount is the fixed number of options every question carries.
const OptionCount = 4

// Question models a multiple-choice item with exactly one correct option.
type Question struct {
	ID           string    `json:"_id"`
	Prompt       string    `json:"prompt" yaml:"prompt" validate:"required"`
	Options      []string  `json:"options" yaml:"options" validate:"len=4,dive,required"`
	CorrectIndex int       `json:"correctIndex" yaml:"correctIndex" validate:"min=0,max=3"`
	Explanation  string    `json:"explanation" yaml:"explanation" validate:"required"`
	CreatedAt    time.Time `json:"createdAt" yaml:"-"`
	UpdatedAt    time.Time `json:"updatedAt" yaml:"-"`
}

// CorrectAnswer returns the text of the correct option.
func (q Question) CorrectAnswer() string {
	return q.Option(q.CorrectIndex)
}

// Option returns the option text at index, or "" when out of range.
func (q Question) Option(index int) string {
	if index < 0 || index >= len(q.Options) {
		return ""
	}
	return q.Options[index]
}

// ResultDetail is the per-question review record of a submitted quiz.
type ResultDetail struct {
	ID            string  `json:"id"`
	Prompt        string  `json:"prompt"`
	UserAnswer    *string `json:"userAnswer"`
	CorrectAnswer string  `json:"correctAnswer"`
	IsCorrect     bool    `json:"isCorrect"`
	Explanation   string  `json:"explanation"`
}

// Result is the scored outcome of a quiz session. It is immutable once computed.
type Result struct {
	Total         int            `json:"total"`
	Correct       int            `json:"correct"`
	AutoSubmitted bool           `json:"autoSubmitted"`
	Details       []ResultDetail `json:"details"`
}

// Detail returns the review record for a question ID.
func (r *Result) Detail(questionID string) (ResultDetail, bool) {
	if r == nil {
		return ResultDetail{}, false
	}
	for _, d := range r.Details {
		if d.ID == questionID {
			return d, true
		}
	}
	return ResultDetail{}, false
}
