package sequencer

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"folio/internal/clock"
	"folio/internal/timeline"
)

const ms = time.Millisecond

// recorder captures stage entries and completions for assertions.
type recorder struct {
	mu          sync.Mutex
	stages      []timeline.Stage
	completions int
	// stageAtCompletion is the last stage seen when onComplete ran.
	stageAtCompletion timeline.Stage
}

func (r *recorder) onStage(_, _ int, e timeline.Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stages = append(r.stages, e.Stage)
}

func (r *recorder) onComplete() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completions++
	if len(r.stages) > 0 {
		r.stageAtCompletion = r.stages[len(r.stages)-1]
	}
}

func (r *recorder) snapshot() ([]timeline.Stage, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := append([]timeline.Stage(nil), r.stages...)
	return cp, r.completions
}

// sixStagePlan uses the delays [0, 800, 2000, 3200, 4200, 5500].
func sixStagePlan(t *testing.T) timeline.Plan {
	t.Helper()
	p, err := timeline.NewPlan("six", []timeline.Entry{
		{At: 0, Stage: "s0"},
		{At: 800 * ms, Stage: "s1"},
		{At: 2000 * ms, Stage: "s2"},
		{At: 3200 * ms, Stage: "s3"},
		{At: 4200 * ms, Stage: "s4"},
		{At: 5500 * ms, Stage: "s5"},
	})
	require.NoError(t, err)
	return p
}

func newTestSequencer(t *testing.T, p timeline.Plan) (*Sequencer, *clock.Fake, *recorder) {
	t.Helper()
	fake := clock.NewFake()
	seq := New(p, fake)
	rec := &recorder{}
	seq.SetStageCallback(rec.onStage)
	return seq, fake, rec
}

func TestSequencer_StageBoundaries(t *testing.T) {
	p := sixStagePlan(t)
	seq, fake, rec := newTestSequencer(t, p)

	require.NoError(t, seq.Start(rec.onComplete))
	assert.Equal(t, timeline.Stage("s0"), seq.Stage().Stage, "initial stage entered at mount")

	elapsed := time.Duration(0)
	for i := 1; i < p.Len(); i++ {
		entry := p.Entry(i)

		// Just before the boundary the previous stage is still showing.
		fake.Advance(entry.At - elapsed - time.Nanosecond)
		assert.Equal(t, p.Entry(i-1).Stage, seq.Stage().Stage, "before %s", entry.At)

		fake.Advance(time.Nanosecond)
		elapsed = entry.At
		assert.Equal(t, entry.Stage, seq.Stage().Stage, "at %s", entry.At)
	}

	stages, completions := rec.snapshot()
	assert.Equal(t, 1, completions)
	assert.Empty(t, cmp.Diff(p.Stages(), stages))

	fake.Advance(time.Hour)
	_, completions = rec.snapshot()
	assert.Equal(t, 1, completions, "completion fires exactly once")
	assert.Equal(t, 0, fake.Pending())
}

func TestSequencer_DelayOverrideScenario(t *testing.T) {
	base := sixStagePlan(t)
	p, err := base.WithDelays([]time.Duration{500 * ms, 2000 * ms, 3500 * ms, 4500 * ms, 5500 * ms})
	require.NoError(t, err)

	seq, fake, rec := newTestSequencer(t, p)
	require.NoError(t, seq.Start(rec.onComplete))

	fake.Advance(5600 * ms)

	_, completions := rec.snapshot()
	assert.Equal(t, 1, completions)
	assert.True(t, seq.Completed())
	assert.Equal(t, p.Terminal().Stage, seq.Stage().Stage)
}

func TestSequencer_UnmountBeforeCompletion(t *testing.T) {
	p := sixStagePlan(t)
	seq, fake, rec := newTestSequencer(t, p)
	require.NoError(t, seq.Start(rec.onComplete))

	fake.Advance(1000 * ms)
	seq.Stop()

	before, _ := rec.snapshot()
	assert.Equal(t, []timeline.Stage{"s0", "s1"}, before)
	assert.Equal(t, 0, fake.Pending(), "every pending timer is cancelled on unmount")

	fake.Advance(5000 * ms)

	after, completions := rec.snapshot()
	assert.Equal(t, 0, completions)
	assert.Equal(t, before, after, "no stage mutation after unmount")
	assert.Equal(t, timeline.Stage("s1"), seq.Stage().Stage)
	assert.False(t, seq.Completed())
}

func TestSequencer_CompletionSeesTerminalStage(t *testing.T) {
	for _, name := range timeline.BuiltinNames() {
		t.Run(name, func(t *testing.T) {
			p, err := timeline.Builtin(name)
			require.NoError(t, err)

			seq, fake, rec := newTestSequencer(t, p)
			var doneDuring timeline.Entry
			require.NoError(t, seq.Start(func() {
				doneDuring = seq.Stage()
				rec.onComplete()
			}))

			fake.Advance(p.Duration() - time.Nanosecond)
			_, completions := rec.snapshot()
			assert.Equal(t, 0, completions, "not complete before the terminal offset")

			fake.Advance(time.Nanosecond)
			stages, completions := rec.snapshot()
			assert.Equal(t, 1, completions)
			assert.Equal(t, p.Terminal().Stage, doneDuring.Stage)
			assert.Equal(t, p.Terminal().Stage, rec.stageAtCompletion)
			assert.Empty(t, cmp.Diff(p.Stages(), stages))
		})
	}
}

func TestSequencer_SingleStagePlanCompletesOnStart(t *testing.T) {
	p := timeline.MustPlan("one", []timeline.Entry{{Stage: "only"}})
	seq, fake, rec := newTestSequencer(t, p)

	require.NoError(t, seq.Start(rec.onComplete))

	stages, completions := rec.snapshot()
	assert.Equal(t, []timeline.Stage{"only"}, stages)
	assert.Equal(t, 1, completions)
	assert.Equal(t, 0, fake.Pending())
}

func TestSequencer_StartTwice(t *testing.T) {
	seq, _, rec := newTestSequencer(t, sixStagePlan(t))
	require.NoError(t, seq.Start(rec.onComplete))
	assert.ErrorIs(t, seq.Start(rec.onComplete), ErrAlreadyStarted)
}

func TestSequencer_StartAfterStop(t *testing.T) {
	seq, fake, rec := newTestSequencer(t, sixStagePlan(t))
	seq.Stop()
	assert.ErrorIs(t, seq.Start(rec.onComplete), ErrStopped)
	assert.Equal(t, -1, seq.Index())
	assert.Equal(t, 0, fake.Pending())
}

func TestSequencer_StopIsIdempotent(t *testing.T) {
	seq, fake, rec := newTestSequencer(t, sixStagePlan(t))
	require.NoError(t, seq.Start(rec.onComplete))
	seq.Stop()
	seq.Stop()
	assert.ErrorIs(t, seq.Start(nil), ErrStopped)
	assert.Equal(t, 0, fake.Pending())
}

func TestSequencer_StopFromCompletion(t *testing.T) {
	p := sixStagePlan(t)
	seq, fake, rec := newTestSequencer(t, p)
	require.NoError(t, seq.Start(func() {
		rec.onComplete()
		seq.Stop()
	}))

	fake.Advance(p.Duration())
	_, completions := rec.snapshot()
	assert.Equal(t, 1, completions)
	assert.ErrorIs(t, seq.Start(nil), ErrStopped)
}

func TestSequencer_NilCompletion(t *testing.T) {
	p := sixStagePlan(t)
	seq, fake, _ := newTestSequencer(t, p)
	require.NoError(t, seq.Start(nil))
	fake.Advance(p.Duration())
	assert.True(t, seq.Completed())
}

func TestSequencer_StageCallbackIndexes(t *testing.T) {
	p := sixStagePlan(t)
	fake := clock.NewFake()
	seq := New(p, fake)

	var indexes, totals []int
	seq.SetStageCallback(func(index, total int, _ timeline.Entry) {
		indexes = append(indexes, index)
		totals = append(totals, total)
	})
	require.NoError(t, seq.Start(nil))
	fake.Advance(p.Duration())

	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, indexes)
	for _, total := range totals {
		assert.Equal(t, 6, total)
	}
}

// manualClock hands scheduled callbacks to the test to fire in any order,
// modelling timers that fire late or out of order.
type manualClock struct {
	clock.Clock
	callbacks map[time.Duration]func()
	stopped   int
}

type manualTimer struct{ c *manualClock }

func (t manualTimer) Stop() bool {
	t.c.stopped++
	return true
}

func (c *manualClock) AfterFunc(d time.Duration, fn func()) clock.Timer {
	c.callbacks[d] = fn
	return manualTimer{c: c}
}

func TestSequencer_LateTimerCatchesUpInOrder(t *testing.T) {
	p := sixStagePlan(t)
	mc := &manualClock{callbacks: map[time.Duration]func(){}}
	seq := New(p, mc)
	rec := &recorder{}
	seq.SetStageCallback(rec.onStage)
	require.NoError(t, seq.Start(rec.onComplete))
	require.Len(t, mc.callbacks, 5)

	// The 3200ms timer fires before the 800ms and 2000ms ones.
	mc.callbacks[3200*ms]()
	stages, _ := rec.snapshot()
	assert.Equal(t, []timeline.Stage{"s0", "s1", "s2", "s3"}, stages, "intermediate stages are entered, not skipped")

	// Stale timers arriving afterwards change nothing.
	mc.callbacks[800*ms]()
	mc.callbacks[2000*ms]()
	stages, _ = rec.snapshot()
	assert.Equal(t, []timeline.Stage{"s0", "s1", "s2", "s3"}, stages)

	// The final timer completes; the 4200ms timer is stopped as stale.
	mc.callbacks[5500*ms]()
	mc.callbacks[4200*ms]()
	stages, completions := rec.snapshot()
	assert.Equal(t, []timeline.Stage{"s0", "s1", "s2", "s3", "s4", "s5"}, stages)
	assert.Equal(t, 1, completions)
	assert.Equal(t, 5, mc.stopped)
}

func TestSequencer_RealClock(t *testing.T) {
	defer goleak.VerifyNone(t)

	p, err := timeline.NewPlan("quick", []timeline.Entry{
		{At: 0, Stage: "a"},
		{At: 2 * ms, Stage: "b"},
		{At: 4 * ms, Stage: "c"},
		{At: 6 * ms, Stage: "d"},
	})
	require.NoError(t, err)

	seq := New(p, clock.Real())
	rec := &recorder{}
	seq.SetStageCallback(rec.onStage)

	var completions atomic.Int32
	done := make(chan struct{})
	require.NoError(t, seq.Start(func() {
		if completions.Add(1) == 1 {
			close(done)
		}
	}))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sequencer did not complete")
	}

	time.Sleep(10 * ms)
	stages, _ := rec.snapshot()
	assert.Equal(t, []timeline.Stage{"a", "b", "c", "d"}, stages)
	assert.Equal(t, int32(1), completions.Load())
}

func TestSequencer_RealClockUnmount(t *testing.T) {
	defer goleak.VerifyNone(t)

	p, err := timeline.NewPlan("slow", []timeline.Entry{
		{At: 0, Stage: "a"},
		{At: time.Hour, Stage: "b"},
	})
	require.NoError(t, err)

	seq := New(p, clock.Real())
	called := false
	require.NoError(t, seq.Start(func() { called = true }))
	seq.Stop()

	assert.False(t, called)
	assert.Equal(t, timeline.Stage("a"), seq.Stage().Stage)
}
