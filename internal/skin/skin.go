// Package skin provides the visual generators of the intro loading screens.
//
// Each skin maps the sequencer's current stage and the time spent in it to a
// [Frame]: a renderer-agnostic description of what to draw. Skins never
// schedule anything themselves; [Generator.Enter] is called when the
// sequencer enters a stage and [Generator.Tick] by the frame loop.
//
// Key types:
//   - [Generator] is the interface every skin implements
//   - [Frame] is the description handed to the renderer
//   - [Options] tunes density and canvas size without changing the plan
package skin

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"folio/internal/particle"
	"folio/internal/timeline"
)

// ErrUnknownSkin indicates a skin name that is not registered.
var ErrUnknownSkin = errors.New("unknown skin")

// Tone is a semantic color; the renderer maps it to a palette.
type Tone uint8

const (
	ToneNormal Tone = iota
	TonePrimary
	ToneAccent
	ToneAlert
	ToneMuted
)

// Glyph is one positioned piece of text, usually a single particle rune.
type Glyph struct {
	X, Y    int
	Text    string
	Opacity float64
	Tone    Tone
}

// Frame describes one rendered moment of a skin. All scalars are in [0, 1].
type Frame struct {
	Skin    string
	Stage   timeline.Stage
	Index   int
	Total   int
	Caption string

	// Status holds boot-log lines shown under the art.
	Status []string

	// Art is a centered block of text lines.
	Art        []string
	ArtOpacity float64
	ArtTone    Tone

	// ArtCenter is the horizontal center of Art as a fraction of Width.
	ArtCenter float64

	// Glyphs are free-positioned particles and labels.
	Glyphs []Glyph

	// Grid is the opacity of the background grid overlay.
	Grid float64

	// Overlay is the opacity of the whole screen; fading intros lower it.
	Overlay float64

	// Progress is the loading bar fill.
	Progress float64

	// Wipe is the position of a full-screen swoop, or -1 when none.
	Wipe float64

	Width, Height int
}

// Options tunes a skin. Zero values take defaults.
type Options struct {
	// ParticleCount is the number of particles in particle-driven stages.
	ParticleCount int

	// Width and Height are the canvas size in cells.
	Width, Height int

	// Seed makes particle layouts reproducible.
	Seed uint64

	// FPS is the frame rate Tick is called at; it tunes particle springs.
	FPS int

	// Title, Subtitle and Sections label the code-style skins' page sketch.
	Title    string
	Subtitle string
	Sections []string
}

// Default option values.
const (
	DefaultParticleCount = 200
	DefaultWidth         = 80
	DefaultHeight        = 24
	DefaultFPS           = 30
)

func (o Options) withDefaults() Options {
	if o.ParticleCount <= 0 {
		o.ParticleCount = DefaultParticleCount
	}
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.FPS <= 0 {
		o.FPS = DefaultFPS
	}
	if o.Title == "" {
		o.Title = "Portfolio"
	}
	if o.Subtitle == "" {
		o.Subtitle = "Student & Developer"
	}
	if len(o.Sections) == 0 {
		o.Sections = []string{"About", "Projects", "Research", "Skills", "Contact"}
	}
	return o
}

// Generator is a visual skin driven by sequencer stages.
//
// Enter is called once per stage, in plan order. Tick advances continuous
// animation by dt. Frame describes the current moment. Implementations are
// not safe for concurrent use.
type Generator interface {
	Name() string
	Plan() timeline.Plan
	Enter(index int, entry timeline.Entry)
	Tick(dt time.Duration)
	Frame() Frame
	Resize(w, h int)
}

type factory func(plan timeline.Plan, opts Options) Generator

var factories = map[string]factory{
	timeline.QuantumGrid: newQuantumGrid,
	timeline.Quantum:     newQuantum,
	timeline.Cyber:       newCyber,
	timeline.CodePhase:   newCodePhase,
	timeline.Website:     newWebsite,
}

// New creates the skin registered under name with its built-in plan.
func New(name string, opts Options) (Generator, error) {
	plan, err := timeline.Builtin(name)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownSkin)
	}
	return NewWithPlan(name, plan, opts)
}

// NewWithPlan creates the skin registered under name driven by plan. The
// plan must have the skin's stages, typically a retimed built-in.
func NewWithPlan(name string, plan timeline.Plan, opts Options) (Generator, error) {
	f, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownSkin)
	}
	builtin, err := timeline.Builtin(name)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownSkin)
	}
	if !builtin.SameStages(plan) {
		return nil, fmt.Errorf("skin %q expects stages %v: %w", name, builtin.Stages(), timeline.ErrStageMismatch)
	}
	return f(plan, opts.withDefaults()), nil
}

// Names returns the registered skin names in sorted order.
func Names() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// base carries the state every skin shares: the plan, the active stage and
// the time spent in it, and a particle field.
type base struct {
	name    string
	plan    timeline.Plan
	opts    Options
	field   *particle.Field
	index   int
	entry   timeline.Entry
	inStage time.Duration
	total   time.Duration
}

func newBase(name string, plan timeline.Plan, opts Options) base {
	return base{
		name:  name,
		plan:  plan,
		opts:  opts,
		field: particle.NewField(opts.Width, opts.Height, opts.Seed, opts.FPS),
		entry: plan.Initial(),
	}
}

func (b *base) Name() string        { return b.name }
func (b *base) Plan() timeline.Plan { return b.plan }

func (b *base) enter(index int, entry timeline.Entry) {
	b.index = index
	b.entry = entry
	b.inStage = 0
}

func (b *base) tick(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	b.inStage += dt
	b.total += dt
}

func (b *base) Resize(w, h int) {
	b.opts.Width = max(w, 1)
	b.opts.Height = max(h, 1)
	b.field.Resize(b.opts.Width, b.opts.Height)
}

// stageIndex returns the position of s in the plan, or -1.
func (b *base) stageIndex(s timeline.Stage) int {
	i, err := b.plan.Index(s)
	if err != nil {
		return -1
	}
	return i
}

// reached reports whether the active stage is s or later.
func (b *base) reached(s timeline.Stage) bool {
	i := b.stageIndex(s)
	return i >= 0 && b.index >= i
}

// frame returns a Frame prefilled with the shared fields.
func (b *base) frame() Frame {
	return Frame{
		Skin:       b.name,
		Stage:      b.entry.Stage,
		Index:      b.index,
		Total:      b.plan.Len(),
		Caption:    b.entry.Caption,
		ArtOpacity: 1,
		ArtCenter:  0.5,
		Overlay:    1,
		Progress:   b.plan.Progress(b.index),
		Wipe:       -1,
		Width:      b.opts.Width,
		Height:     b.opts.Height,
	}
}

// particleGlyphs converts the field's particles to glyphs.
func (b *base) particleGlyphs(tone Tone) []Glyph {
	ps := b.field.Particles()
	out := make([]Glyph, len(ps))
	for i, p := range ps {
		out[i] = Glyph{
			X:       int(p.X + 0.5),
			Y:       int(p.Y + 0.5),
			Text:    string(p.Glyph),
			Opacity: particle.Clamp01(p.Opacity * p.Size),
			Tone:    tone,
		}
	}
	return out
}

// ramp returns how far elapsed is through duration, in [0, 1].
func ramp(elapsed, duration time.Duration) float64 {
	if duration <= 0 {
		return 1
	}
	return particle.Clamp01(float64(elapsed) / float64(duration))
}

// easeInOutCubic approximates the swoop curve cubic-bezier(0.65, 0, 0.35, 1).
func easeInOutCubic(t float64) float64 {
	t = particle.Clamp01(t)
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := -2*t + 2
	return 1 - u*u*u/2
}

// clampFrame enforces the [0, 1] range on every scalar of f.
func clampFrame(f Frame) Frame {
	f.ArtOpacity = particle.Clamp01(f.ArtOpacity)
	f.ArtCenter = particle.Clamp01(f.ArtCenter)
	f.Grid = particle.Clamp01(f.Grid)
	f.Overlay = particle.Clamp01(f.Overlay)
	f.Progress = particle.Clamp01(f.Progress)
	if f.Wipe >= 0 {
		f.Wipe = particle.Clamp01(f.Wipe)
	} else {
		f.Wipe = -1
	}
	for i := range f.Glyphs {
		f.Glyphs[i].Opacity = particle.Clamp01(f.Glyphs[i].Opacity)
	}
	return f
}
