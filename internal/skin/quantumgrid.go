package skin

import (
	"time"

	"folio/internal/particle"
	"folio/internal/timeline"
)

// Fade rates of the quantum-grid skin, per second.
const (
	gridFadeIn     = 0.4 // up to gridMaxOpacity
	gridMaxOpacity = 0.3
	computerFadeIn = 0.6
	overlayFadeOut = 1.0
)

// layoutAnchors are where binary particles settle during alignment: header,
// navigation, hero, content sections and footer of a typical page.
var layoutAnchors = []particle.Point{
	{X: 0.5, Y: 0.1},
	{X: 0.2, Y: 0.15},
	{X: 0.8, Y: 0.15},
	{X: 0.3, Y: 0.3},
	{X: 0.7, Y: 0.3},
	{X: 0.25, Y: 0.5},
	{X: 0.75, Y: 0.5},
	{X: 0.4, Y: 0.7},
	{X: 0.6, Y: 0.7},
	{X: 0.5, Y: 0.9},
}

var quantumCoreArt = []string{
	`    .-""""-.    `,
	`  .'  (())  '.  `,
	` /  .-====-.  \ `,
	`|  /  (@@)  \  |`,
	` \  '-====-'  / `,
	`  '.  (())  .'  `,
	`    '-....-'    `,
	`   [#]  [#]  [#]`,
}

// quantumGrid is a grid that fades in, a quantum computer that materializes,
// a binary blast, particles aligning into a page layout, then a fade out.
type quantumGrid struct {
	base
	grid     float64
	computer float64
	overlay  float64
}

func newQuantumGrid(plan timeline.Plan, opts Options) Generator {
	return &quantumGrid{base: newBase(timeline.QuantumGrid, plan, opts), overlay: 1}
}

func (g *quantumGrid) Enter(index int, entry timeline.Entry) {
	g.enter(index, entry)

	switch entry.Stage {
	case timeline.StageBlast:
		g.field.Burst(g.opts.ParticleCount, g.field.Center())
	case timeline.StageAlign:
		w, h := g.field.Size()
		g.field.Retarget(layoutAnchors, float64(w)/8, float64(h)/10)
	case timeline.StageComplete:
		g.overlay = 0
	}
}

func (g *quantumGrid) Tick(dt time.Duration) {
	g.tick(dt)
	sec := dt.Seconds()

	switch g.entry.Stage {
	case timeline.StageGrid:
		g.grid = min(g.grid+gridFadeIn*sec, gridMaxOpacity)
	case timeline.StageComputer:
		g.computer = min(g.computer+computerFadeIn*sec, 1)
	case timeline.StageBlast, timeline.StageBinary:
		g.field.Step()
	case timeline.StageAlign:
		g.field.Seek()
	case timeline.StageFade:
		g.field.Seek()
		g.overlay = max(g.overlay-overlayFadeOut*sec, 0)
	}
}

func (g *quantumGrid) Frame() Frame {
	f := g.frame()
	f.Grid = g.grid
	f.Overlay = g.overlay
	f.Art = quantumCoreArt
	f.ArtOpacity = g.computer
	f.ArtTone = TonePrimary
	if g.reached(timeline.StageBlast) {
		f.Glyphs = g.particleGlyphs(TonePrimary)
	}
	return clampFrame(f)
}
