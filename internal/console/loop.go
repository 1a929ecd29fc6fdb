package console

import (
	"sync"

	"github.com/rs/zerolog"
)

var consoleLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	consoleLogger = l
}

// eventLoop serializes state transitions. Callbacks invoked from run must not
// call run again.
//
// Side effects that may block, such as preference writes, are queued with
// after and run once the loop is released, in the order they were queued.
type eventLoop struct {
	mu      sync.Mutex
	pending []func()

	flushMu sync.Mutex
}

func (l *eventLoop) run(fn func()) {
	l.mu.Lock()
	queued := len(l.pending)
	fn()
	queued = len(l.pending) - queued
	l.mu.Unlock()

	if queued > 0 {
		l.flush()
	}
}

// after queues fn to run outside the loop. Only valid inside run.
func (l *eventLoop) after(fn func()) {
	l.pending = append(l.pending, fn)
}

func (l *eventLoop) flush() {
	l.flushMu.Lock()
	defer l.flushMu.Unlock()

	l.mu.Lock()
	pending := l.pending
	l.pending = nil
	l.mu.Unlock()

	for _, fn := range pending {
		fn()
	}
}
