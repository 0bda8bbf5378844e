// Package sequencer drives a one-shot, time-based progression through a plan.
//
// The sequencer provides [Sequencer] which, when started, enters the plan's
// initial stage, schedules every later stage against a [clock.Clock], and
// invokes a completion callback once the terminal stage is reached.
//
// Key concepts:
//   - The plan is a fixed [timeline.Plan] captured at construction
//   - Every timer is scheduled at start; stale or late timers are reconciled
//     against a single cursor so stages are entered strictly in plan order
//   - Stage progress can be observed via [StageCallback]
//   - [Sequencer.Stop] cancels all pending timers; nothing fires afterwards
package sequencer

import (
	"errors"
	"sync"

	"go.uber.org/zap"

	"folio/internal/clock"
	"folio/internal/timeline"
)

// Sentinel errors for sequencer lifecycle misuse.
var (
	// ErrAlreadyStarted indicates Start was called on a running or finished sequencer.
	ErrAlreadyStarted = errors.New("sequencer already started")

	// ErrStopped indicates Start was called after Stop.
	ErrStopped = errors.New("sequencer stopped")
)

// StageCallback is invoked each time a stage is entered.
//
// The callback receives index (0-based position in the plan), total stage
// count, and the entry. It runs while the sequencer holds its lock, so it
// must not call back into the sequencer.
type StageCallback func(index, total int, entry timeline.Entry)

// Sequencer advances a stage cursor on a fixed schedule.
//
// Sequencer uses dependency injection for testability: the [clock.Clock]
// decides when scheduled entries fire. Use [New] to create an instance and
// [Sequencer.Start] to mount it. A Sequencer runs at most once.
type Sequencer struct {
	plan   timeline.Plan
	clock  clock.Clock
	logger *zap.Logger

	mu            sync.Mutex
	cursor        int
	started       bool
	stopped       bool
	completed     bool
	timers        []clock.Timer
	stageCallback StageCallback
	onComplete    func()
}

// New creates a Sequencer for plan on clk. Stage callback and logger are
// not set by default.
func New(plan timeline.Plan, clk clock.Clock) *Sequencer {
	return &Sequencer{
		plan:   plan,
		clock:  clk,
		logger: zap.NewNop(),
		cursor: -1,
	}
}

// SetStageCallback configures an optional callback for stage entries.
// It must be set before Start.
func (s *Sequencer) SetStageCallback(cb StageCallback) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stageCallback = cb
}

// SetLogger configures the logger used for stage and lifecycle events.
func (s *Sequencer) SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger = l
}

// Plan returns the plan the sequencer executes.
func (s *Sequencer) Plan() timeline.Plan { return s.plan }

// Start mounts the sequencer.
//
// Start enters the initial stage synchronously, then schedules one timer per
// remaining entry at that entry's offset. When the terminal stage is entered,
// onComplete is invoked exactly once, after the stage callback for that
// stage. A single-stage plan completes inside Start. onComplete may be nil.
//
// onComplete runs without the sequencer's lock held and may call Stop. Once
// the terminal stage is entered, completion is committed: a Stop racing with
// the terminal timer on a real clock does not retract it.
func (s *Sequencer) Start(onComplete func()) error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return ErrStopped
	}
	if s.started {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.started = true
	s.onComplete = onComplete

	s.logger.Debug("sequencer mounted",
		zap.String("plan", s.plan.Name()),
		zap.Int("stages", s.plan.Len()),
		zap.Duration("duration", s.plan.Duration()))

	done := s.advanceLocked(0)

	for i := 1; i < s.plan.Len(); i++ {
		target := i
		s.timers = append(s.timers, s.clock.AfterFunc(s.plan.Entry(i).At, func() {
			s.fire(target)
		}))
	}
	s.mu.Unlock()

	if done != nil {
		done()
	}
	return nil
}

// fire handles the timer for entry target.
func (s *Sequencer) fire(target int) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	done := s.advanceLocked(target)
	s.mu.Unlock()

	if done != nil {
		done()
	}
}

// advanceLocked moves the cursor forward to target, entering every
// intermediate stage in order. A target at or behind the cursor is a stale
// timer and does nothing. It returns the completion callback when the
// terminal stage was entered by this call.
func (s *Sequencer) advanceLocked(target int) func() {
	if target <= s.cursor {
		return nil
	}

	total := s.plan.Len()
	for i := s.cursor + 1; i <= target; i++ {
		s.cursor = i
		entry := s.plan.Entry(i)
		s.logger.Debug("stage entered",
			zap.String("plan", s.plan.Name()),
			zap.String("stage", entry.Stage.String()),
			zap.Int("index", i))
		if s.stageCallback != nil {
			s.stageCallback(i, total, entry)
		}
	}

	if s.cursor == total-1 && !s.completed {
		s.completed = true
		// Earlier timers still pending after a catch-up are stale.
		for _, t := range s.timers {
			t.Stop()
		}
		s.timers = nil
		s.logger.Info("intro complete", zap.String("plan", s.plan.Name()))
		return s.onComplete
	}
	return nil
}

// Stop unmounts the sequencer, cancelling every pending timer.
//
// After Stop returns no stage is entered and the completion callback is not
// invoked. Stop is idempotent and may be called before Start.
func (s *Sequencer) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	s.stopped = true
	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = nil

	if s.started && !s.completed {
		s.logger.Debug("sequencer unmounted early",
			zap.String("plan", s.plan.Name()),
			zap.Int("index", s.cursor))
	}
}

// Index returns the current stage position, or -1 before Start.
func (s *Sequencer) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// Stage returns the current stage entry. Before Start it returns the
// initial entry, which is what will be shown first.
func (s *Sequencer) Stage() timeline.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cursor < 0 {
		return s.plan.Initial()
	}
	return s.plan.Entry(s.cursor)
}

// Completed reports whether the terminal stage has been reached.
func (s *Sequencer) Completed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completed
}
