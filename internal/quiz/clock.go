package quiz

import "time"

// Ticker is the periodic task that drives the session clock.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFunc creates a Ticker firing every d.
type TickerFunc func(d time.Duration) Ticker

type stdTicker struct {
	t *time.Ticker
}

// NewTicker wraps time.NewTicker.
func NewTicker(d time.Duration) Ticker {
	return stdTicker{t: time.NewTicker(d)}
}

func (s stdTicker) C() <-chan time.Time { return s.t.C }

func (s stdTicker) Stop() { s.t.Stop() }
