// Package clock provides the timer scheduler the intro sequencer runs on.
//
// Production code uses [Real], which is backed by the runtime's timers.
// Tests use [Fake], a manual clock that only moves when [Fake.Advance] is
// called, so stage boundaries can be hit exactly.
//
// Key types:
//   - [Clock] schedules one-shot and repeating callbacks
//   - [Timer] is the cancellation handle returned for every schedule
package clock

import (
	"sync"
	"time"
)

// Timer is the cancellation handle for a scheduled callback.
//
// Stop prevents the callback from firing again. It returns true if the call
// stopped a live timer and false if the timer had already fired (one-shot)
// or was already stopped. Calling Stop more than once is safe.
type Timer interface {
	Stop() bool
}

// Clock schedules deferred callbacks.
//
// AfterFunc runs fn once after d. Every runs fn repeatedly with period d
// until the returned [Timer] is stopped. Callbacks may run on a goroutine
// other than the caller's.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
	Every(d time.Duration, fn func()) Timer
}

// Real returns a [Clock] backed by the runtime's timers.
func Real() Clock {
	return realClock{}
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

func (realClock) Every(d time.Duration, fn func()) Timer {
	t := &ticker{
		ticker: time.NewTicker(d),
		done:   make(chan struct{}),
	}
	go t.loop(fn)
	return t
}

// ticker drives an Every loop on its own goroutine.
type ticker struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

func (t *ticker) loop(fn func()) {
	for {
		select {
		case <-t.done:
			return
		case <-t.ticker.C:
			// A tick that raced with Stop must not run fn.
			select {
			case <-t.done:
				return
			default:
			}
			fn()
		}
	}
}

// Stop halts the loop. The loop goroutine exits on its next wakeup; it is
// safe to call Stop from inside fn.
func (t *ticker) Stop() bool {
	stopped := false
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.done)
		stopped = true
	})
	return stopped
}
