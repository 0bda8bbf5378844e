// Package timeline defines intro stages and the fixed plans that order them.
//
// A [Plan] is the static schedule a sequencer executes: an ordered list of
// [Entry] values, each naming the stage entered at an offset from mount. The
// first entry is the initial stage at offset zero and the last entry is the
// terminal stage, at which the intro completes.
//
// Plans come from three places:
//   - the built-in plans of each loading-screen skin ([Builtin])
//   - delay overrides applied to a plan ([Plan.WithDelays])
//   - a CSV timeline manifest ([ReadManifestFile])
package timeline

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for plan validation.
var (
	// ErrEmptyPlan indicates a plan with no entries.
	ErrEmptyPlan = errors.New("plan has no stages")

	// ErrInitialOffset indicates the first entry is not at offset zero.
	// The initial stage is entered at mount, so it cannot be deferred.
	ErrInitialOffset = errors.New("initial stage must be at offset 0")

	// ErrNonIncreasing indicates two entries whose offsets do not strictly increase.
	ErrNonIncreasing = errors.New("stage offsets must strictly increase")

	// ErrDuplicateStage indicates a stage name that appears more than once.
	ErrDuplicateStage = errors.New("stage appears more than once")

	// ErrDelayCount indicates a delay override whose length matches neither
	// the stage count nor the transition count.
	ErrDelayCount = errors.New("delay count does not match stages")

	// ErrUnknownStage indicates a stage that is not part of the plan.
	ErrUnknownStage = errors.New("unknown stage")
)

// Stage is a named point in the one-shot intro timeline.
type Stage string

// String returns the stage name.
func (s Stage) String() string { return string(s) }

// Entry is one step of a plan: the stage entered At this offset from mount.
type Entry struct {
	// At is the offset from mount at which Stage is entered.
	At time.Duration

	// Stage is the stage entered at this offset.
	Stage Stage

	// Caption is the status line shown while the stage is active.
	Caption string
}

// Plan is an immutable, validated stage schedule.
//
// Create with [NewPlan]. The zero Plan is empty and invalid.
type Plan struct {
	name    string
	entries []Entry
}

// NewPlan validates entries and returns a [Plan].
//
// Entries must be non-empty, start at offset zero, have strictly increasing
// offsets, and name each stage once.
func NewPlan(name string, entries []Entry) (Plan, error) {
	if len(entries) == 0 {
		return Plan{}, fmt.Errorf("plan %q: %w", name, ErrEmptyPlan)
	}
	if entries[0].At != 0 {
		return Plan{}, fmt.Errorf("plan %q: stage %q at %s: %w", name, entries[0].Stage, entries[0].At, ErrInitialOffset)
	}

	seen := make(map[Stage]bool, len(entries))
	for i, e := range entries {
		if e.Stage == "" {
			return Plan{}, fmt.Errorf("plan %q: entry %d: stage name is required", name, i)
		}
		if seen[e.Stage] {
			return Plan{}, fmt.Errorf("plan %q: stage %q: %w", name, e.Stage, ErrDuplicateStage)
		}
		seen[e.Stage] = true

		if i > 0 && e.At <= entries[i-1].At {
			return Plan{}, fmt.Errorf("plan %q: stage %q at %s follows %s: %w",
				name, e.Stage, e.At, entries[i-1].At, ErrNonIncreasing)
		}
	}

	cp := make([]Entry, len(entries))
	copy(cp, entries)
	return Plan{name: name, entries: cp}, nil
}

// MustPlan is like [NewPlan] but panics on error. It is intended for the
// built-in plans, which are package constants in all but syntax.
func MustPlan(name string, entries []Entry) Plan {
	p, err := NewPlan(name, entries)
	if err != nil {
		panic(err)
	}
	return p
}

// Name returns the plan name.
func (p Plan) Name() string { return p.name }

// Len returns the number of stages.
func (p Plan) Len() int { return len(p.entries) }

// Entries returns a copy of the plan's entries in order.
func (p Plan) Entries() []Entry {
	cp := make([]Entry, len(p.entries))
	copy(cp, p.entries)
	return cp
}

// Entry returns the i-th entry.
func (p Plan) Entry(i int) Entry { return p.entries[i] }

// Stages returns the stage names in order.
func (p Plan) Stages() []Stage {
	out := make([]Stage, len(p.entries))
	for i, e := range p.entries {
		out[i] = e.Stage
	}
	return out
}

// Initial returns the stage entered at mount.
func (p Plan) Initial() Entry { return p.entries[0] }

// Terminal returns the last stage; entering it completes the intro.
func (p Plan) Terminal() Entry { return p.entries[len(p.entries)-1] }

// Duration returns the offset of the terminal stage.
func (p Plan) Duration() time.Duration { return p.Terminal().At }

// Index returns the position of s in the plan.
func (p Plan) Index(s Stage) (int, error) {
	for i, e := range p.entries {
		if e.Stage == s {
			return i, nil
		}
	}
	return -1, fmt.Errorf("plan %q: %q: %w", p.name, s, ErrUnknownStage)
}

// StageAt returns the index of the entry active at elapsed time from mount.
// Negative elapsed maps to the initial stage.
func (p Plan) StageAt(elapsed time.Duration) int {
	idx := 0
	for i, e := range p.entries {
		if e.At <= elapsed {
			idx = i
		}
	}
	return idx
}

// Progress returns how far through the plan stage index i is, in [0, 1].
func (p Plan) Progress(i int) float64 {
	if len(p.entries) <= 1 {
		return 1
	}
	if i <= 0 {
		return 0
	}
	if i >= len(p.entries)-1 {
		return 1
	}
	return float64(i) / float64(len(p.entries)-1)
}

// WithDelays returns a copy of the plan with new offsets, keeping its stages.
//
// delays may hold one offset per stage, in which case the first must be
// zero, or one offset per transition, in which case the initial stage is
// implied at zero. Any other length returns [ErrDelayCount]. The result is
// validated like [NewPlan].
func (p Plan) WithDelays(delays []time.Duration) (Plan, error) {
	n := len(p.entries)
	var offsets []time.Duration
	switch len(delays) {
	case n:
		offsets = delays
	case n - 1:
		offsets = append([]time.Duration{0}, delays...)
	default:
		return Plan{}, fmt.Errorf("plan %q: got %d delays for %d stages: %w", p.name, len(delays), n, ErrDelayCount)
	}

	entries := p.Entries()
	for i := range entries {
		entries[i].At = offsets[i]
	}
	return NewPlan(p.name, entries)
}

// SameStages reports whether q has exactly p's stages in p's order.
func (p Plan) SameStages(q Plan) bool {
	if p.Len() != q.Len() {
		return false
	}
	for i := range p.entries {
		if p.entries[i].Stage != q.entries[i].Stage {
			return false
		}
	}
	return true
}
