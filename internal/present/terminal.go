package present

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"timed-quiz-service/internal/domain"
	"timed-quiz-service/internal/quiz"
)

const helpText = "commands: 1-4 select, n next, p previous, s skip, g N go to, submit, review, q quit"

// Terminal redraws a session on every change and forwards typed commands to it.
type Terminal struct {
	session  *quiz.Session
	in       io.Reader
	renderer TextRenderer

	mu  sync.Mutex
	out io.Writer

	// closed when the input reader of the last Run exits
	readerDone chan struct{}
}

// NewTerminal binds a session to an input and output stream.
func NewTerminal(session *quiz.Session, in io.Reader, out io.Writer, renderer TextRenderer) *Terminal {
	return &Terminal{session: session, in: in, out: out, renderer: renderer}
}

// Run draws until the user quits, input ends, or ctx is canceled.
func (t *Terminal) Run(ctx context.Context) error {
	updates, cancel := t.session.Subscribe()
	drawn := make(chan struct{})
	go func() {
		defer close(drawn)
		for snap := range updates {
			t.draw(Project(snap))
		}
	}()
	defer func() {
		cancel()
		<-drawn
	}()

	// done releases the reader once Run has returned.
	done := make(chan struct{})
	defer close(done)
	readerDone := make(chan struct{})
	t.readerDone = readerDone

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(readerDone)
		scanner := bufio.NewScanner(t.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-readErr:
			return err
		case line := <-lines:
			if quit := t.Dispatch(line); quit {
				return nil
			}
		}
	}
}

// Dispatch applies one command line and reports whether the user asked to quit.
// Actions whose control is hidden or disabled in the current view are ignored.
func (t *Terminal) Dispatch(line string) bool {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return false
	}
	view := Project(t.session.Snapshot())
	c := view.Controls

	switch cmd := fields[0]; cmd {
	case "q", "quit", "exit":
		return true
	case "h", "help", "?":
		t.notice(helpText)
	case "n", "next":
		if c.ShowNext {
			t.session.Next()
		}
	case "p", "prev", "previous":
		if c.PreviousEnabled {
			t.session.Previous()
		}
	case "s", "skip":
		if c.ShowSkip && c.SkipEnabled {
			t.session.Skip()
		}
	case "submit":
		if c.ShowSubmit {
			t.session.Submit()
		}
	case "review":
		if c.ShowReviewAgain {
			t.session.GoTo(0)
		}
	case "g", "goto":
		if len(fields) < 2 {
			t.notice("usage: g N")
			return false
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil || n < 1 || n > len(view.Nav) {
			t.notice(fmt.Sprintf("no question %q", fields[1]))
			return false
		}
		t.session.GoTo(n - 1)
	default:
		n, err := strconv.Atoi(cmd)
		if err != nil {
			t.notice("unknown command; " + helpText)
			return false
		}
		t.selectOption(view, n-1)
	}
	return false
}

func (t *Terminal) selectOption(view View, index int) {
	if view.Question == nil {
		return
	}
	if index < 0 || index >= len(view.Question.Options) {
		t.notice(fmt.Sprintf("choose an option between 1 and %d", len(view.Question.Options)))
		return
	}
	if view.Question.Options[index].Disabled {
		return
	}
	if err := t.session.Select(view.Question.ID, index); err != nil && !errors.Is(err, domain.ErrSessionReviewed) {
		t.notice(err.Error())
	}
}

func (t *Terminal) draw(v View) {
	t.mu.Lock()
	defer t.mu.Unlock()
	_ = t.renderer.Render(t.out, v)
}

func (t *Terminal) notice(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.out, msg)
}
