// Package particle simulates the decorative glyph particles of the intro skins.
//
// A [Field] owns a fixed-size set of [Particle] values inside a bounded
// canvas measured in terminal cells. Skins create particles on stage entry
// (burst, scatter) and move them on every frame tick (drift, seek, fade).
// Every operation keeps positions inside the canvas and opacity in [0, 1].
package particle

import (
	"math"
	"math/rand/v2"

	"github.com/charmbracelet/harmonica"
)

// Point is a position in cell coordinates.
type Point struct {
	X, Y float64
}

// Particle is one decorative glyph.
type Particle struct {
	ID      int
	X, Y    float64
	VX, VY  float64
	TX, TY  float64 // seek target
	Glyph   rune
	Opacity float64
	Size    float64 // relative emphasis, 0.6..1.0

	// spring velocities, separate from the ballistic VX/VY
	sx, sy float64
}

// damping is applied to ballistic velocity each step.
const damping = 0.98

// Field is a bounded particle simulation.
//
// Fields are not safe for concurrent use; the owning skin serializes access.
type Field struct {
	width, height float64
	rng           *rand.Rand
	spring        harmonica.Spring
	steps         int
	particles     []Particle
}

// NewField creates an empty field of w×h cells. The seed makes layouts
// reproducible; fps is the frame rate Step and Seek are called at.
func NewField(w, h int, seed uint64, fps int) *Field {
	if fps <= 0 {
		fps = 30
	}
	return &Field{
		width:  float64(max(w, 1)),
		height: float64(max(h, 1)),
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 0.6),
	}
}

// Size returns the field dimensions in cells.
func (f *Field) Size() (w, h int) {
	return int(f.width), int(f.height)
}

// Resize changes the field bounds, clamping existing particles inside.
func (f *Field) Resize(w, h int) {
	f.width = float64(max(w, 1))
	f.height = float64(max(h, 1))
	for i := range f.particles {
		f.clampPosition(&f.particles[i])
	}
}

// Len returns the number of particles.
func (f *Field) Len() int { return len(f.particles) }

// Particles returns a copy of the current particles.
func (f *Field) Particles() []Particle {
	out := make([]Particle, len(f.particles))
	copy(out, f.particles)
	return out
}

// Clear discards all particles.
func (f *Field) Clear() { f.particles = nil }

// Center returns the middle of the field.
func (f *Field) Center() Point {
	return Point{X: f.width / 2, Y: f.height / 2}
}

// Bit returns '0' or '1' at random.
func (f *Field) Bit() rune {
	if f.rng.Float64() > 0.5 {
		return '1'
	}
	return '0'
}

// Burst replaces the particles with n binary glyphs blasting radially out of
// (cx, cy). Each gets a seek target on a ring around the origin.
func (f *Field) Burst(n int, origin Point) {
	f.particles = make([]Particle, n)
	for i := range f.particles {
		angle := 2 * math.Pi * float64(i) / float64(max(n, 1))
		speed := 0.5 + f.rng.Float64()
		radius := 0.3 + f.rng.Float64()*0.5
		cos, sin := math.Cos(angle), math.Sin(angle)

		p := Particle{
			ID:      i,
			X:       origin.X,
			Y:       origin.Y,
			VX:      cos * speed * 2, // cells are roughly twice as tall as wide
			VY:      sin * speed,
			TX:      origin.X + cos*radius*f.width/2,
			TY:      origin.Y + sin*radius*f.height/2,
			Glyph:   f.Bit(),
			Opacity: 1,
			Size:    0.6 + f.rng.Float64()*0.4,
		}
		f.clampPosition(&p)
		f.particles[i] = p
	}
}

// Scatter replaces the particles with n glyphs at random positions. glyphs
// is cycled for the particle glyphs; when empty, binary digits are used.
func (f *Field) Scatter(n int, glyphs []rune) {
	f.particles = make([]Particle, n)
	for i := range f.particles {
		x := f.rng.Float64() * (f.width - 1)
		y := f.rng.Float64() * (f.height - 1)
		glyph := f.Bit()
		if len(glyphs) > 0 {
			glyph = glyphs[i%len(glyphs)]
		}
		f.particles[i] = Particle{
			ID:      i,
			X:       x,
			Y:       y,
			TX:      x,
			TY:      y,
			Glyph:   glyph,
			Opacity: f.rng.Float64(),
			Size:    0.6 + f.rng.Float64()*0.4,
		}
	}
}

// Orbit replaces the particles with n glyphs on rings around center,
// spaced like the firewall orb: 7.2 degrees apart on three radii.
func (f *Field) Orbit(n int, center Point, baseRadius float64) {
	f.particles = make([]Particle, n)
	for i := range f.particles {
		angle := float64(i) * 7.2 * math.Pi / 180
		r := baseRadius * (1 + float64(i%3)*0.25)
		p := Particle{
			ID:      i,
			X:       center.X + math.Cos(angle)*r*2,
			Y:       center.Y + math.Sin(angle)*r,
			TX:      center.X,
			TY:      center.Y,
			Glyph:   f.Bit(),
			Opacity: 1,
			Size:    1,
		}
		f.clampPosition(&p)
		f.particles[i] = p
	}
}

// Step advances ballistic motion one frame: velocity with damping plus a
// small sinusoidal wobble.
func (f *Field) Step() {
	f.steps++
	t := float64(f.steps) * 0.16
	for i := range f.particles {
		p := &f.particles[i]
		p.X += p.VX + math.Sin(t+float64(p.ID))*0.2
		p.Y += p.VY + math.Cos(t+float64(p.ID))*0.1
		p.VX *= damping
		p.VY *= damping
		f.clampPosition(p)
	}
}

// Seek moves every particle one frame toward its target on a spring.
func (f *Field) Seek() {
	for i := range f.particles {
		p := &f.particles[i]
		p.X, p.sx = f.spring.Update(p.X, p.sx, p.TX)
		p.Y, p.sy = f.spring.Update(p.Y, p.sy, p.TY)
		f.clampPosition(p)
	}
}

// Spin rotates every particle around center by radians, keeping its distance.
func (f *Field) Spin(center Point, radians float64) {
	cos, sin := math.Cos(radians), math.Sin(radians)
	for i := range f.particles {
		p := &f.particles[i]
		dx, dy := (p.X-center.X)/2, p.Y-center.Y
		p.X = center.X + (dx*cos-dy*sin)*2
		p.Y = center.Y + dx*sin + dy*cos
		f.clampPosition(p)
	}
}

// Retarget assigns each particle a seek target near one of the anchors,
// given as fractions of the field size, with random jitter in cells.
func (f *Field) Retarget(anchors []Point, jitterX, jitterY float64) {
	if len(anchors) == 0 {
		return
	}
	for i := range f.particles {
		p := &f.particles[i]
		a := anchors[p.ID%len(anchors)]
		p.TX = Clamp(a.X*f.width+(f.rng.Float64()-0.5)*jitterX, 0, f.width-1)
		p.TY = Clamp(a.Y*f.height+(f.rng.Float64()-0.5)*jitterY, 0, f.height-1)
	}
}

// Converge points every particle's target at c.
func (f *Field) Converge(c Point) {
	for i := range f.particles {
		f.particles[i].TX = Clamp(c.X, 0, f.width-1)
		f.particles[i].TY = Clamp(c.Y, 0, f.height-1)
	}
}

// Fade changes every particle's opacity by delta, clamped to [0, 1].
func (f *Field) Fade(delta float64) {
	for i := range f.particles {
		f.particles[i].Opacity = Clamp01(f.particles[i].Opacity + delta)
	}
}

// Twinkle sets each particle's opacity from a phase-shifted sine of the
// frame count, so scattered particles pulse independently.
func (f *Field) Twinkle() {
	t := float64(f.steps) * 0.1
	for i := range f.particles {
		p := &f.particles[i]
		p.Opacity = Clamp01(0.5 + 0.5*math.Sin(t+float64(p.ID)*1.7))
	}
	f.steps++
}

func (f *Field) clampPosition(p *Particle) {
	p.X = Clamp(p.X, 0, f.width-1)
	p.Y = Clamp(p.Y, 0, f.height-1)
}

// Clamp limits v to [lo, hi]. NaN maps to lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 limits v to [0, 1].
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}
