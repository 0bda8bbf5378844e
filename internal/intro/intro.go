// Package intro mounts a skin and its sequencer as one unit with a single
// teardown handle.
//
// A [Screen] pairs a [skin.Generator] with the [clock.Clock] that drives it.
// [Screen.Mount] starts the sequencer and a frame loop together and returns
// a [Scope]; [Scope.Unmount] cancels both. Once Unmount returns, no further
// stage is entered and no further frame is published. The completion
// callback is not started after Unmount returns; one already running is not
// waited for, so the callback itself may unmount.
//
// Key types:
//   - [Screen] is the mountable intro
//   - [Scope] is the live mount and its teardown handle
package intro

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"folio/internal/clock"
	"folio/internal/sequencer"
	"folio/internal/skin"
	"folio/internal/timeline"
)

// DefaultFrameInterval is the frame loop period, about 30 frames per second.
const DefaultFrameInterval = 33 * time.Millisecond

// FrameFunc receives each published frame.
//
// It runs with the scope's lock held: it must not block on the goroutine
// that unmounts the scope, and must not call back into the scope.
type FrameFunc func(skin.Frame)

// Screen is an intro ready to mount.
type Screen struct {
	generator     skin.Generator
	clock         clock.Clock
	frameInterval time.Duration
	logger        *zap.Logger
}

// NewScreen creates a Screen that plays gen's plan on clk.
func NewScreen(gen skin.Generator, clk clock.Clock) *Screen {
	return &Screen{
		generator:     gen,
		clock:         clk,
		frameInterval: DefaultFrameInterval,
		logger:        zap.NewNop(),
	}
}

// SetFrameInterval sets the frame loop period. Non-positive values restore
// [DefaultFrameInterval].
func (s *Screen) SetFrameInterval(d time.Duration) {
	if d <= 0 {
		d = DefaultFrameInterval
	}
	s.frameInterval = d
}

// SetLogger configures the logger shared by the screen and its sequencer.
func (s *Screen) SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	s.logger = l
}

// Plan returns the plan the screen plays.
func (s *Screen) Plan() timeline.Plan { return s.generator.Plan() }

// Scope is a mounted intro.
type Scope struct {
	screen     *Screen
	seq        *sequencer.Sequencer
	onFrame    FrameFunc
	onComplete func()

	mu        sync.Mutex
	loop      clock.Timer
	last      time.Time
	unmounted bool
	completed bool
}

// Mount starts the intro.
//
// The initial stage is entered and its frame published before Mount returns.
// onComplete is invoked exactly once when the terminal stage is entered,
// unless the scope is unmounted first; it runs without any lock held and
// may call [Scope.Unmount]. A single-stage plan completes inside Mount.
// Either callback may be nil.
func (s *Screen) Mount(onComplete func(), onFrame FrameFunc) (*Scope, error) {
	sc := &Scope{
		screen:     s,
		seq:        sequencer.New(s.generator.Plan(), s.clock),
		onFrame:    onFrame,
		onComplete: onComplete,
		last:       s.clock.Now(),
	}
	sc.seq.SetLogger(s.logger)
	sc.seq.SetStageCallback(sc.enter)

	s.logger.Info("intro mounted",
		zap.String("skin", s.generator.Name()),
		zap.Duration("frame_interval", s.frameInterval))

	// The frame loop is armed before the sequencer so a completion inside
	// Start can still be torn down by Unmount.
	sc.mu.Lock()
	sc.loop = s.clock.Every(s.frameInterval, sc.tick)
	sc.mu.Unlock()

	if err := sc.seq.Start(sc.complete); err != nil {
		sc.Unmount()
		return nil, err
	}
	return sc, nil
}

// enter is the sequencer's stage callback.
func (sc *Scope) enter(index, _ int, entry timeline.Entry) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.unmounted {
		return
	}
	sc.screen.generator.Enter(index, entry)
	sc.publishLocked()
}

// tick is the frame loop body.
func (sc *Scope) tick() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.unmounted {
		return
	}
	now := sc.screen.clock.Now()
	sc.screen.generator.Tick(now.Sub(sc.last))
	sc.last = now
	sc.publishLocked()
}

func (sc *Scope) complete() {
	sc.mu.Lock()
	if sc.unmounted || sc.completed {
		sc.mu.Unlock()
		return
	}
	sc.completed = true
	sc.mu.Unlock()

	sc.screen.logger.Debug("intro completion forwarded",
		zap.String("skin", sc.screen.generator.Name()))
	if sc.onComplete != nil {
		sc.onComplete()
	}
}

func (sc *Scope) publishLocked() {
	if sc.onFrame != nil {
		sc.onFrame(sc.screen.generator.Frame())
	}
}

// Unmount cancels the sequencer's timers and the frame loop. It is
// idempotent and safe to call from either callback's goroutine, including
// from onComplete. It does not wait for an onComplete already in progress.
func (sc *Scope) Unmount() {
	sc.mu.Lock()
	if sc.unmounted {
		sc.mu.Unlock()
		return
	}
	sc.unmounted = true
	loop := sc.loop
	sc.mu.Unlock()

	if loop != nil {
		loop.Stop()
	}
	sc.seq.Stop()

	sc.screen.logger.Info("intro unmounted",
		zap.String("skin", sc.screen.generator.Name()),
		zap.String("stage", sc.seq.Stage().Stage.String()),
		zap.Bool("completed", sc.seq.Completed()))
}

// Resize changes the skin canvas and publishes a frame at the new size.
func (sc *Scope) Resize(w, h int) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.unmounted {
		return
	}
	sc.screen.generator.Resize(w, h)
	sc.publishLocked()
}

// Frame returns the skin's current frame.
func (sc *Scope) Frame() skin.Frame {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.screen.generator.Frame()
}

// Stage returns the entry of the stage the sequencer is in.
func (sc *Scope) Stage() timeline.Entry { return sc.seq.Stage() }

// Completed reports whether onComplete was forwarded.
func (sc *Scope) Completed() bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.completed
}

// Unmounted reports whether Unmount was called.
func (sc *Scope) Unmounted() bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.unmounted
}
