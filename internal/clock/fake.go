package clock

import (
	"sort"
	"sync"
	"time"
)

// Fake is a manual [Clock] for deterministic tests.
//
// Time only moves when [Fake.Advance] is called. Callbacks run synchronously
// on the goroutine calling Advance, in due-time order; timers due at the same
// instant fire in the order they were scheduled.
type Fake struct {
	mu     sync.Mutex
	now    time.Time
	seq    uint64
	timers []*fakeTimer
}

// NewFake creates a [Fake] clock starting at a fixed instant.
func NewFake() *Fake {
	return &Fake{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

type fakeTimer struct {
	clock  *Fake
	due    time.Time
	period time.Duration // zero for one-shot timers
	seq    uint64
	fn     func()
	live   bool
}

// Now returns the clock's current time.
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// AfterFunc schedules fn to run once when the clock has advanced by d.
func (f *Fake) AfterFunc(d time.Duration, fn func()) Timer {
	return f.schedule(d, 0, fn)
}

// Every schedules fn to run each time the clock crosses a multiple of d.
// A non-positive period is treated as one nanosecond.
func (f *Fake) Every(d time.Duration, fn func()) Timer {
	if d <= 0 {
		d = time.Nanosecond
	}
	return f.schedule(d, d, fn)
}

func (f *Fake) schedule(d, period time.Duration, fn func()) *fakeTimer {
	f.mu.Lock()
	defer f.mu.Unlock()

	if d < 0 {
		d = 0
	}
	f.seq++
	t := &fakeTimer{
		clock:  f,
		due:    f.now.Add(d),
		period: period,
		seq:    f.seq,
		fn:     fn,
		live:   true,
	}
	f.timers = append(f.timers, t)
	return t
}

// Stop cancels the timer.
func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	if !t.live {
		return false
	}
	t.live = false
	t.clock.removeLocked(t)
	return true
}

func (f *Fake) removeLocked(t *fakeTimer) {
	for i, other := range f.timers {
		if other == t {
			f.timers = append(f.timers[:i], f.timers[i+1:]...)
			return
		}
	}
}

// Advance moves the clock forward by d, firing every timer that falls due.
//
// Before each callback the clock is set to that timer's due time, so code
// reading Now inside a callback sees the scheduled instant. Timers scheduled
// by a callback fire in the same call if they fall inside the window.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	target := f.now.Add(d)
	f.mu.Unlock()

	for {
		f.mu.Lock()
		next := f.nextDueLocked(target)
		if next == nil {
			f.now = target
			f.mu.Unlock()
			return
		}
		f.now = next.due
		if next.period > 0 {
			f.seq++
			next.due = next.due.Add(next.period)
			next.seq = f.seq
		} else {
			next.live = false
			f.removeLocked(next)
		}
		fn := next.fn
		f.mu.Unlock()

		fn()
	}
}

// nextDueLocked returns the earliest live timer due at or before target.
func (f *Fake) nextDueLocked(target time.Time) *fakeTimer {
	if len(f.timers) == 0 {
		return nil
	}
	sort.SliceStable(f.timers, func(i, j int) bool {
		if f.timers[i].due.Equal(f.timers[j].due) {
			return f.timers[i].seq < f.timers[j].seq
		}
		return f.timers[i].due.Before(f.timers[j].due)
	})
	if first := f.timers[0]; !first.due.After(target) {
		return first
	}
	return nil
}

// Pending reports how many timers are still scheduled, repeating ones included.
func (f *Fake) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.timers)
}
