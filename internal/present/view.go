package present

import (
	"fmt"

	"timed-quiz-service/internal/domain"
	"timed-quiz-service/internal/quiz"
)

const (
	LoadingMessage = "Loading questions..."
	ErrorMessage   = "Something went wrong while loading questions. Please verify that the backend is running and try again."
	NotAnswered    = "Not answered"
	AutoSubmitNote = "Submitted automatically when the timer expired."

	// DangerThreshold is the remaining time, in seconds, at which the timer is flagged.
	DangerThreshold = 30
)

// Verdicts attached to reviewed questions.
const (
	VerdictCorrect   = "correct"
	VerdictIncorrect = "incorrect"
)

// View is everything a renderer needs to draw one frame of the quiz.
type View struct {
	Status   quiz.Status   `json:"status"`
	Message  string        `json:"message,omitempty"`
	Timer    *TimerView    `json:"timer,omitempty"`
	Progress *ProgressView `json:"progress,omitempty"`
	Nav      []NavItem     `json:"nav,omitempty"`
	Question *QuestionView `json:"question,omitempty"`
	Controls Controls      `json:"controls"`
	Result   *ResultView   `json:"result,omitempty"`
}

type TimerView struct {
	Remaining int    `json:"remaining"`
	Display   string `json:"display"`
	Danger    bool   `json:"danger"`
}

type ProgressView struct {
	Answered int `json:"answered"`
	Total    int `json:"total"`
}

type NavItem struct {
	Number   int    `json:"number"`
	Current  bool   `json:"current"`
	Answered bool   `json:"answered"`
	Verdict  string `json:"verdict,omitempty"`
}

type QuestionView struct {
	ID      string       `json:"id"`
	Number  int          `json:"number"`
	Prompt  string       `json:"prompt"`
	Options []OptionView `json:"options"`
	Verdict string       `json:"verdict,omitempty"`
	Review  *ReviewView  `json:"review,omitempty"`
}

type OptionView struct {
	Index    int    `json:"index"`
	Text     string `json:"text"`
	Selected bool   `json:"selected"`
	Disabled bool   `json:"disabled"`
}

// ReviewView is shown for the current question once the quiz is submitted.
// Explanation is only populated for incorrect answers.
type ReviewView struct {
	Correct       bool   `json:"correct"`
	UserAnswer    string `json:"userAnswer"`
	CorrectAnswer string `json:"correctAnswer"`
	Explanation   string `json:"explanation,omitempty"`
}

// Controls describes which actions are shown and enabled.
type Controls struct {
	PreviousEnabled bool `json:"previousEnabled"`
	ShowSkip        bool `json:"showSkip"`
	SkipEnabled     bool `json:"skipEnabled"`
	ShowNext        bool `json:"showNext"`
	ShowSubmit      bool `json:"showSubmit"`
	ShowReviewAgain bool `json:"showReviewAgain"`
}

type ResultView struct {
	Correct       int    `json:"correct"`
	Total         int    `json:"total"`
	Score         string `json:"score"`
	AutoSubmitted bool   `json:"autoSubmitted"`
	Note          string `json:"note,omitempty"`
}

// FormatClock renders seconds as MM:SS, clamping negatives to zero.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// Project maps a session snapshot onto a View. It holds no state of its own.
func Project(snap quiz.Snapshot) View {
	switch snap.Status {
	case quiz.StatusLoading:
		return View{Status: snap.Status, Message: LoadingMessage}
	case quiz.StatusError:
		return View{Status: snap.Status, Message: ErrorMessage}
	}

	reviewed := snap.Result != nil
	last := snap.LastIndex()

	v := View{
		Status: snap.Status,
		Timer: &TimerView{
			Remaining: snap.Remaining,
			Display:   FormatClock(snap.Remaining),
			Danger:    snap.Remaining <= DangerThreshold,
		},
		Progress: &ProgressView{Answered: snap.AnsweredCount(), Total: len(snap.Questions)},
		Nav:      make([]NavItem, 0, len(snap.Questions)),
		Controls: Controls{
			PreviousEnabled: snap.Current != 0,
			ShowSkip:        snap.Current < last,
			SkipEnabled:     !reviewed,
			ShowNext:        !reviewed && snap.Current < last,
			ShowSubmit:      !reviewed && snap.Current == last,
			ShowReviewAgain: reviewed,
		},
	}

	for i, q := range snap.Questions {
		_, answered := snap.Answer(q.ID)
		v.Nav = append(v.Nav, NavItem{
			Number:   i + 1,
			Current:  i == snap.Current,
			Answered: answered,
			Verdict:  verdictFor(snap.Result, q.ID),
		})
	}

	if q, ok := snap.CurrentQuestion(); ok {
		v.Question = projectQuestion(snap, q)
	}

	if reviewed {
		v.Result = &ResultView{
			Correct:       snap.Result.Correct,
			Total:         snap.Result.Total,
			Score:         fmt.Sprintf("%d / %d", snap.Result.Correct, snap.Result.Total),
			AutoSubmitted: snap.Result.AutoSubmitted,
		}
		if snap.Result.AutoSubmitted {
			v.Result.Note = AutoSubmitNote
		}
	}
	return v
}

func projectQuestion(snap quiz.Snapshot, q domain.Question) *QuestionView {
	choice, answered := snap.Answer(q.ID)
	qv := &QuestionView{
		ID:      q.ID,
		Number:  snap.Current + 1,
		Prompt:  q.Prompt,
		Options: make([]OptionView, 0, len(q.Options)),
		Verdict: verdictFor(snap.Result, q.ID),
	}
	for i, text := range q.Options {
		qv.Options = append(qv.Options, OptionView{
			Index:    i,
			Text:     text,
			Selected: answered && choice == i,
			Disabled: snap.Result != nil,
		})
	}

	detail, ok := snap.Result.Detail(q.ID)
	if !ok {
		return qv
	}
	review := &ReviewView{
		Correct:       detail.IsCorrect,
		UserAnswer:    NotAnswered,
		CorrectAnswer: detail.CorrectAnswer,
	}
	if detail.UserAnswer != nil {
		review.UserAnswer = *detail.UserAnswer
	}
	if !detail.IsCorrect {
		review.Explanation = detail.Explanation
	}
	qv.Review = review
	return qv
}

func verdictFor(result *domain.Result, questionID string) string {
	detail, ok := result.Detail(questionID)
	if !ok {
		return ""
	}
	if detail.IsCorrect {
		return VerdictCorrect
	}
	return VerdictIncorrect
}
