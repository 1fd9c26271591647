package quiz

import (
	"context"
	"sync"
	"time"

	"timed-quiz-service/internal/domain"
)

// DefaultBudget is the number of seconds a session has before it submits itself.
const DefaultBudget = 600

// Source supplies the question list a session is played against.
type Source interface {
	FetchQuestions(ctx context.Context) ([]domain.Question, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) ([]domain.Question, error)

func (f SourceFunc) FetchQuestions(ctx context.Context) ([]domain.Question, error) {
	return f(ctx)
}

// Option configures a Session.
type Option func(*Session)

// WithBudget overrides the countdown length in seconds. Non-positive values are ignored.
func WithBudget(seconds int) Option {
	return func(s *Session) {
		if seconds > 0 {
			s.budget = seconds
		}
	}
}

// WithTicker replaces the clock's ticker factory (tests drive it by hand).
func WithTicker(f TickerFunc) Option {
	return func(s *Session) {
		if f != nil {
			s.newTicker = f
		}
	}
}

// Session is the quiz state machine for a single player. All events (fetch
// completion, clock ticks, user intents) are applied one at a time under mu.
type Session struct {
	budget    int
	newTicker TickerFunc

	mu        sync.Mutex
	status    Status
	started   bool
	closed    bool
	questions []domain.Question
	answers   map[string]int
	remaining int
	current   int
	result    *domain.Result
	err       error

	ticker    Ticker
	clockDone chan struct{}

	subscribers map[chan Snapshot]struct{}
}

// NewSession returns a session in the loading state.
func NewSession(opts ...Option) *Session {
	s := &Session{
		budget:      DefaultBudget,
		newTicker:   NewTicker,
		status:      StatusLoading,
		answers:     make(map[string]int),
		subscribers: make(map[chan Snapshot]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.remaining = s.budget
	return s
}

// Start fetches the questions and moves the session to ready, or to error when
// the fetch fails. Only the first call has any effect.
func (s *Session) Start(ctx context.Context, src Source) error {
	s.mu.Lock()
	if s.started || s.closed {
		s.mu.Unlock()
		return nil
	}
	s.started = true
	s.mu.Unlock()

	questions, err := src.FetchQuestions(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return err
	}
	if err != nil {
		s.status = StatusError
		s.err = err
		s.broadcastLocked()
		return err
	}
	if questions == nil {
		questions = []domain.Question{}
	}
	s.questions = questions
	s.current = 0
	s.remaining = s.budget
	s.status = StatusReady
	s.startClockLocked()
	s.broadcastLocked()
	return nil
}

// Select records choice as the answer for questionID, replacing any earlier choice.
func (s *Session) Select(questionID string, choice int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectLocked(questionID, choice)
}

// SelectCurrent records choice for the question under the navigation cursor.
func (s *Session) SelectCurrent(choice int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current >= len(s.questions) {
		if s.result != nil {
			return domain.ErrSessionReviewed
		}
		if s.status != StatusReady {
			return domain.ErrSessionNotReady
		}
		return domain.ErrQuestionNotFound
	}
	return s.selectLocked(s.questions[s.current].ID, choice)
}

func (s *Session) selectLocked(questionID string, choice int) error {
	if s.result != nil {
		return domain.ErrSessionReviewed
	}
	if s.status != StatusReady {
		return domain.ErrSessionNotReady
	}
	var question *domain.Question
	for i := range s.questions {
		if s.questions[i].ID == questionID {
			question = &s.questions[i]
			break
		}
	}
	if question == nil {
		return domain.ErrQuestionNotFound
	}
	if choice < 0 || choice >= len(question.Options) {
		return domain.ErrOptionOutOfRange
	}
	s.answers[questionID] = choice
	s.broadcastLocked()
	return nil
}

// GoTo moves the cursor to index, wrapping around both ends of the list.
func (s *Session) GoTo(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goToLocked(index)
}

// Next moves to the following question, wrapping to the first.
func (s *Session) Next() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goToLocked(s.current + 1)
}

// Previous moves to the preceding question, wrapping to the last.
func (s *Session) Previous() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goToLocked(s.current - 1)
}

// Skip advances without answering. It does nothing once the quiz is submitted.
func (s *Session) Skip() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result != nil {
		return
	}
	s.goToLocked(s.current + 1)
}

func (s *Session) goToLocked(index int) {
	if s.status != StatusReady && s.status != StatusReviewed {
		return
	}
	n := len(s.questions)
	if n == 0 {
		return
	}
	s.current = ((index % n) + n) % n
	s.broadcastLocked()
}

// Submit scores the session on explicit user request. It is honoured only on the
// last question; the second return value reports whether this call produced the result.
func (s *Session) Submit() (*domain.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result != nil {
		return s.result, false
	}
	if s.status != StatusReady || len(s.questions) == 0 || s.current != len(s.questions)-1 {
		return nil, false
	}
	s.resolveLocked(false)
	s.broadcastLocked()
	return s.result, true
}

func (s *Session) resolveLocked(auto bool) {
	result := Score(s.questions, s.answers, auto)
	s.result = &result
	s.status = StatusReviewed
	s.stopClockLocked()
}

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe returns a channel that receives a snapshot after every state change,
// starting with the current one. The caller must invoke cancel to avoid leaks.
func (s *Session) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 8)

	s.mu.Lock()
	ch <- s.snapshotLocked()
	if s.closed {
		close(ch)
		s.mu.Unlock()
		return ch, func() {}
	}
	s.subscribers[ch] = struct{}{}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

// Close stops the clock and releases subscribers. The session is inert afterwards.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.stopClockLocked()
	for ch := range s.subscribers {
		delete(s.subscribers, ch)
		close(ch)
	}
}

func (s *Session) startClockLocked() {
	ticker := s.newTicker(time.Second)
	done := make(chan struct{})
	s.ticker = ticker
	s.clockDone = done

	go func() {
		for {
			select {
			case <-ticker.C():
				if !s.tick() {
					return
				}
			case <-done:
				return
			}
		}
	}()
}

func (s *Session) stopClockLocked() {
	if s.ticker == nil {
		return
	}
	s.ticker.Stop()
	close(s.clockDone)
	s.ticker = nil
	s.clockDone = nil
}

// tick applies one elapsed second and reports whether the clock should keep running.
func (s *Session) tick() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.status != StatusReady || s.result != nil {
		s.stopClockLocked()
		return false
	}
	if s.remaining > 0 {
		s.remaining--
	}
	if s.remaining > 0 {
		s.broadcastLocked()
		return true
	}
	s.stopClockLocked()
	if len(s.questions) > 0 {
		s.resolveLocked(true)
	}
	s.broadcastLocked()
	return false
}

func (s *Session) broadcastLocked() {
	snap := s.snapshotLocked()
	for ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
			// drop the oldest pending snapshot; only the latest state matters to a renderer
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

func (s *Session) snapshotLocked() Snapshot {
	answers := make(map[string]int, len(s.answers))
	for id, choice := range s.answers {
		answers[id] = choice
	}
	return Snapshot{
		Status:    s.status,
		Questions: s.questions,
		Answers:   answers,
		Remaining: s.remaining,
		Current:   s.current,
		Result:    s.result,
		Err:       s.err,
	}
}
