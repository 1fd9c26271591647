package domain

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// NormalizeQuestion trims the free-text fields the way they are persisted.
func NormalizeQuestion(q Question) Question {
	q.Prompt = strings.TrimSpace(q.Prompt)
	q.Explanation = strings.TrimSpace(q.Explanation)
	opts := make([]string, len(q.Options))
	for i, o := range q.Options {
		opts[i] = strings.TrimSpace(o)
	}
	q.Options = opts
	return q
}

// ValidateQuestion checks the write-time invariants of a question record.
func ValidateQuestion(q Question) error {
	if err := validate.Struct(NormalizeQuestion(q)); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidQuestion, strings.Join(fields, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidQuestion, err)
	}
	return nil
}

// ValidateQuestions validates a batch, reporting the first failing position.
func ValidateQuestions(questions []Question) error {
	for i, q := range questions {
		if err := ValidateQuestion(q); err != nil {
			return fmt.Errorf("question %d: %w", i+1, err)
		}
	}
	return nil
}
