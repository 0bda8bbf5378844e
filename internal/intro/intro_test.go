package intro

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"folio/internal/clock"
	"folio/internal/skin"
	"folio/internal/timeline"
)

const ms = time.Millisecond

// frameLog collects published frames.
type frameLog struct {
	mu     sync.Mutex
	frames []skin.Frame
}

func (l *frameLog) add(f skin.Frame) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.frames = append(l.frames, f)
}

func (l *frameLog) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.frames)
}

// stages returns the distinct stages in publish order.
func (l *frameLog) stages() []timeline.Stage {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []timeline.Stage
	for _, f := range l.frames {
		if len(out) == 0 || out[len(out)-1] != f.Stage {
			out = append(out, f.Stage)
		}
	}
	return out
}

func newScreen(t *testing.T, name string, clk clock.Clock) *Screen {
	t.Helper()
	gen, err := skin.New(name, skin.Options{ParticleCount: 20, Seed: 1})
	require.NoError(t, err)
	return NewScreen(gen, clk)
}

func TestMount_PublishesInitialFrame(t *testing.T) {
	clk := clock.NewFake()
	var log frameLog

	sc, err := newScreen(t, timeline.Cyber, clk).Mount(nil, log.add)
	require.NoError(t, err)
	defer sc.Unmount()

	require.Equal(t, 1, log.len())
	assert.Equal(t, timeline.StageFirewall, log.frames[0].Stage)
	assert.Equal(t, timeline.StageFirewall, sc.Stage().Stage)
}

func TestMount_PlaysEveryStageAndCompletesOnce(t *testing.T) {
	for _, name := range skin.Names() {
		t.Run(name, func(t *testing.T) {
			clk := clock.NewFake()
			var log frameLog
			completions := 0

			screen := newScreen(t, name, clk)
			sc, err := screen.Mount(func() { completions++ }, log.add)
			require.NoError(t, err)

			clk.Advance(screen.Plan().Duration() + time.Second)

			assert.Equal(t, 1, completions)
			assert.True(t, sc.Completed())
			assert.Equal(t, screen.Plan().Stages(), log.stages())
			assert.Equal(t, screen.Plan().Terminal().Stage, sc.Frame().Stage)

			sc.Unmount()
			assert.Equal(t, 0, clk.Pending(), "unmount cancels the frame loop")
		})
	}
}

func TestMount_FrameLoopTicksGenerator(t *testing.T) {
	clk := clock.NewFake()
	var log frameLog

	screen := newScreen(t, timeline.Website, clk)
	screen.SetFrameInterval(100 * ms)
	sc, err := screen.Mount(nil, log.add)
	require.NoError(t, err)
	defer sc.Unmount()

	clk.Advance(1000 * ms)
	assert.Equal(t, 11, log.len(), "initial frame plus ten ticks")

	// Developer view types out as time passes.
	first := strings.Join(log.frames[0].Art, "\n")
	last := strings.Join(log.frames[len(log.frames)-1].Art, "\n")
	assert.Greater(t, len(last), len(first))
}

func TestUnmount_StopsEverything(t *testing.T) {
	clk := clock.NewFake()
	var log frameLog
	completions := 0

	sc, err := newScreen(t, timeline.QuantumGrid, clk).Mount(func() { completions++ }, log.add)
	require.NoError(t, err)

	clk.Advance(2000 * ms)
	sc.Unmount()
	n := log.len()
	stage := sc.Stage().Stage

	clk.Advance(20 * time.Second)

	assert.Equal(t, 0, completions)
	assert.False(t, sc.Completed())
	assert.True(t, sc.Unmounted())
	assert.Equal(t, n, log.len(), "no frames after unmount")
	assert.Equal(t, timeline.StageComputer, stage)
	assert.Equal(t, stage, sc.Stage().Stage)
	assert.Equal(t, 0, clk.Pending())
}

func TestUnmount_Idempotent(t *testing.T) {
	clk := clock.NewFake()
	sc, err := newScreen(t, timeline.Quantum, clk).Mount(nil, nil)
	require.NoError(t, err)

	sc.Unmount()
	sc.Unmount()
	assert.True(t, sc.Unmounted())
}

func TestUnmount_FromCompletion(t *testing.T) {
	clk := clock.NewFake()
	var log frameLog
	var sc *Scope
	completions := 0

	screen := newScreen(t, timeline.CodePhase, clk)
	sc, err := screen.Mount(func() {
		completions++
		sc.Unmount()
	}, log.add)
	require.NoError(t, err)

	clk.Advance(screen.Plan().Duration())
	n := log.len()
	clk.Advance(time.Second)

	assert.Equal(t, 1, completions)
	assert.True(t, sc.Unmounted())
	assert.Equal(t, n, log.len())
	assert.Equal(t, 0, clk.Pending())
}

func TestUnmount_DuringCompletionDoesNotWait(t *testing.T) {
	clk := clock.NewFake()
	started := make(chan struct{})
	release := make(chan struct{})
	var completions int

	screen := newScreen(t, timeline.CodePhase, clk)
	sc, err := screen.Mount(func() {
		completions++
		close(started)
		<-release
	}, nil)
	require.NoError(t, err)

	advanced := make(chan struct{})
	go func() {
		defer close(advanced)
		clk.Advance(screen.Plan().Duration())
	}()
	<-started

	sc.Unmount()
	assert.True(t, sc.Unmounted())
	assert.True(t, sc.Completed(), "completion was committed before unmount")

	close(release)
	<-advanced
	clk.Advance(time.Second)
	assert.Equal(t, 1, completions)
	assert.Equal(t, 0, clk.Pending())
}

func TestUnmount_BeforeTerminalNeverStartsCompletion(t *testing.T) {
	clk := clock.NewFake()
	var completions int

	screen := newScreen(t, timeline.Cyber, clk)
	sc, err := screen.Mount(func() { completions++ }, nil)
	require.NoError(t, err)

	clk.Advance(screen.Plan().Duration() - ms)
	sc.Unmount()
	clk.Advance(time.Minute)

	assert.Equal(t, 0, completions)
	assert.False(t, sc.Completed())
}

func TestMount_RetimedPlan(t *testing.T) {
	base, err := timeline.Builtin(timeline.Cyber)
	require.NoError(t, err)
	fast, err := base.WithDelays([]time.Duration{0, 100 * ms, 200 * ms, 300 * ms, 400 * ms})
	require.NoError(t, err)

	gen, err := skin.NewWithPlan(timeline.Cyber, fast, skin.Options{ParticleCount: 10})
	require.NoError(t, err)

	clk := clock.NewFake()
	completions := 0
	sc, err := NewScreen(gen, clk).Mount(func() { completions++ }, nil)
	require.NoError(t, err)
	defer sc.Unmount()

	clk.Advance(399 * ms)
	assert.Equal(t, 0, completions)
	assert.Equal(t, timeline.StageBreach, sc.Stage().Stage)

	clk.Advance(1 * ms)
	assert.Equal(t, 1, completions)
}

func TestMount_SingleStageCompletesInsideMount(t *testing.T) {
	plan := timeline.MustPlan("instant", []timeline.Entry{{At: 0, Stage: timeline.StageComplete}})
	gen := &stubGenerator{plan: plan}

	clk := clock.NewFake()
	completions := 0
	sc, err := NewScreen(gen, clk).Mount(func() { completions++ }, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, completions)
	assert.Equal(t, []int{0}, gen.entered)
	sc.Unmount()
	assert.Equal(t, 0, clk.Pending())
}

func TestResize_PublishesFrame(t *testing.T) {
	clk := clock.NewFake()
	var log frameLog
	sc, err := newScreen(t, timeline.Quantum, clk).Mount(nil, log.add)
	require.NoError(t, err)

	sc.Resize(120, 40)
	require.Equal(t, 2, log.len())
	assert.Equal(t, 120, log.frames[1].Width)
	assert.Equal(t, 40, log.frames[1].Height)

	sc.Unmount()
	sc.Resize(10, 10)
	assert.Equal(t, 2, log.len())
}

func TestRealClock_CompletesAndReleasesGoroutines(t *testing.T) {
	defer goleak.VerifyNone(t)

	base, err := timeline.Builtin(timeline.CodePhase)
	require.NoError(t, err)
	fast, err := base.WithDelays([]time.Duration{10 * ms, 20 * ms, 30 * ms})
	require.NoError(t, err)
	gen, err := skin.NewWithPlan(timeline.CodePhase, fast, skin.Options{})
	require.NoError(t, err)

	screen := NewScreen(gen, clock.Real())
	screen.SetFrameInterval(5 * ms)

	done := make(chan struct{})
	var log frameLog
	sc, err := screen.Mount(func() { close(done) }, log.add)
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("intro did not complete")
	}
	sc.Unmount()

	n := log.len()
	time.Sleep(30 * ms)
	assert.Equal(t, n, log.len(), "no frames after unmount")
}

func TestRealClock_UnmountBeforeCompletion(t *testing.T) {
	defer goleak.VerifyNone(t)

	var log frameLog
	screen := newScreen(t, timeline.Cyber, clock.Real())
	screen.SetFrameInterval(5 * ms)
	sc, err := screen.Mount(func() { t.Error("completion after unmount") }, log.add)
	require.NoError(t, err)

	time.Sleep(20 * ms)
	sc.Unmount()
	n := log.len()
	time.Sleep(20 * ms)
	assert.Equal(t, n, log.len())
}

// stubGenerator records stage entries without drawing anything.
type stubGenerator struct {
	plan    timeline.Plan
	entered []int
	ticks   time.Duration
}

func (g *stubGenerator) Name() string                  { return "stub" }
func (g *stubGenerator) Plan() timeline.Plan           { return g.plan }
func (g *stubGenerator) Enter(i int, _ timeline.Entry) { g.entered = append(g.entered, i) }
func (g *stubGenerator) Tick(dt time.Duration)         { g.ticks += dt }
func (g *stubGenerator) Frame() skin.Frame             { return skin.Frame{Skin: "stub", Wipe: -1} }
func (g *stubGenerator) Resize(int, int)               {}
