package present

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const (
	ansiRed   = "\033[31m"
	ansiGreen = "\033[32m"
	ansiReset = "\033[0m"
	ansiClear = "\033[H\033[2J"
)

// TextRenderer draws a View as plain text.
type TextRenderer struct {
	Color bool
	Clear bool
}

// Render writes one frame of v to w.
func (r TextRenderer) Render(w io.Writer, v View) error {
	bw := bufio.NewWriter(w)
	if r.Clear {
		bw.WriteString(ansiClear)
	}

	if v.Message != "" {
		fmt.Fprintln(bw, v.Message)
		return bw.Flush()
	}

	fmt.Fprintf(bw, "Multiple Choice Quiz    Time Remaining %s\n", r.timer(v.Timer))
	fmt.Fprintln(bw, "Answer all questions within the time limit. Each question has a single correct answer.")
	if v.Progress != nil {
		fmt.Fprintf(bw, "Progress: %d/%d answered\n", v.Progress.Answered, v.Progress.Total)
	}

	if len(v.Nav) > 0 {
		items := make([]string, 0, len(v.Nav))
		for _, item := range v.Nav {
			items = append(items, r.navItem(item))
		}
		fmt.Fprintln(bw, strings.Join(items, " "))
	}

	if q := v.Question; q != nil {
		fmt.Fprintf(bw, "\nQuestion %d: %s\n", q.Number, q.Prompt)
		for _, opt := range q.Options {
			mark := " "
			if opt.Selected {
				mark = "x"
			}
			fmt.Fprintf(bw, "  (%s) %d. %s\n", mark, opt.Index+1, opt.Text)
		}
		if rv := q.Review; rv != nil {
			status := "Wrong"
			if rv.Correct {
				status = "Correct"
			}
			fmt.Fprintf(bw, "Status: %s\n", r.paint(status, rv.Correct))
			fmt.Fprintf(bw, "Your answer: %s\n", rv.UserAnswer)
			fmt.Fprintf(bw, "Correct answer: %s\n", rv.CorrectAnswer)
			if rv.Explanation != "" {
				fmt.Fprintf(bw, "Explanation: %s\n", rv.Explanation)
			}
		}
	}

	if actions := controlHints(v.Controls); len(actions) > 0 {
		fmt.Fprintf(bw, "\n%s\n", strings.Join(actions, "  "))
	}

	if res := v.Result; res != nil {
		fmt.Fprintln(bw, "\nQuiz Results")
		fmt.Fprintf(bw, "Score: %s\n", res.Score)
		if res.Note != "" {
			fmt.Fprintln(bw, res.Note)
		}
	}
	return bw.Flush()
}

func (r TextRenderer) timer(t *TimerView) string {
	if t == nil {
		return FormatClock(0)
	}
	if t.Danger && r.Color {
		return ansiRed + t.Display + ansiReset
	}
	if t.Danger {
		return t.Display + "!"
	}
	return t.Display
}

func (r TextRenderer) navItem(item NavItem) string {
	label := fmt.Sprintf("[%d]", item.Number)
	if item.Current {
		label = fmt.Sprintf("<%d>", item.Number)
	}
	if item.Answered {
		label += "*"
	}
	switch item.Verdict {
	case VerdictCorrect:
		label += r.paint("+", true)
	case VerdictIncorrect:
		label += r.paint("-", false)
	}
	return label
}

func (r TextRenderer) paint(s string, good bool) string {
	if !r.Color {
		return s
	}
	if good {
		return ansiGreen + s + ansiReset
	}
	return ansiRed + s + ansiReset
}

func controlHints(c Controls) []string {
	var actions []string
	if c.PreviousEnabled {
		actions = append(actions, "[p] Previous")
	}
	if c.ShowSkip && c.SkipEnabled {
		actions = append(actions, "[s] Skip")
	}
	if c.ShowNext {
		actions = append(actions, "[n] Next")
	}
	if c.ShowSubmit {
		actions = append(actions, "[submit] Submit Quiz")
	}
	if c.ShowReviewAgain {
		actions = append(actions, "[review] Review Again")
	}
	return actions
}
