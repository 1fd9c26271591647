package quiz

import "timed-quiz-service/internal/domain"

// Score grades answers against questions in question order. Unanswered questions
// count as incorrect and carry a nil UserAnswer.
func Score(questions []domain.Question, answers map[string]int, autoSubmitted bool) domain.Result {
	details := make([]domain.ResultDetail, 0, len(questions))
	correct := 0
	for _, q := range questions {
		detail := domain.ResultDetail{
			ID:            q.ID,
			Prompt:        q.Prompt,
			CorrectAnswer: q.CorrectAnswer(),
			Explanation:   q.Explanation,
		}
		if choice, ok := answers[q.ID]; ok {
			text := q.Option(choice)
			detail.UserAnswer = &text
			detail.IsCorrect = choice == q.CorrectIndex
		}
		if detail.IsCorrect {
			correct++
		}
		details = append(details, detail)
	}
	return domain.Result{
		Total:         len(questions),
		Correct:       correct,
		AutoSubmitted: autoSubmitted,
		Details:       details,
	}
}
