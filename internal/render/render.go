// Package render draws skin frames onto a terminal canvas.
//
// The renderer is the only place that knows about colors and terminal
// cells: a [skin.Frame] says what is on screen and how visible it is, and
// [Renderer.Render] turns that into a block of styled text exactly
// Frame.Width columns by Frame.Height rows.
//
// Key types:
//   - [Renderer] draws frames with a [Palette]
//   - [Palette] maps semantic tones to colors
package render

import (
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"folio/internal/skin"
)

// Palette maps each [skin.Tone] to a color.
type Palette struct {
	Normal  lipgloss.Color
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Alert   lipgloss.Color
	Muted   lipgloss.Color
}

// DefaultPalette returns the dark terminal palette of the intro.
func DefaultPalette() Palette {
	return Palette{
		Normal:  lipgloss.Color("#f2f2f2"),
		Primary: lipgloss.Color("#00ff88"),
		Accent:  lipgloss.Color("#00b3ff"),
		Alert:   lipgloss.Color("#ff3355"),
		Muted:   lipgloss.Color("#4a5568"),
	}
}

func (p Palette) color(t skin.Tone) lipgloss.Color {
	switch t {
	case skin.TonePrimary:
		return p.Primary
	case skin.ToneAccent:
		return p.Accent
	case skin.ToneAlert:
		return p.Alert
	case skin.ToneMuted:
		return p.Muted
	default:
		return p.Normal
	}
}

// Visibility levels a cell opacity is quantized to.
type level uint8

const (
	hidden level = iota
	faint
	plain
	bright
)

// levelOf maps an opacity in [0, 1] to a visibility level.
func levelOf(opacity float64) level {
	switch {
	case opacity < 0.05:
		return hidden
	case opacity < 0.4:
		return faint
	case opacity < 0.8:
		return plain
	default:
		return bright
	}
}

// Glyphs drawn by the renderer itself.
const (
	gridDot  = '·'
	wipeBand = '▌'
)

// Grid spacing in cells.
const (
	gridCols = 4
	gridRows = 2
)

// cell is one terminal column. The column after a double-width rune is a
// continuation cell carrying the rune's style and no rune of its own.
type cell struct {
	r     rune
	tone  skin.Tone
	level level
	cont  bool
}

type styleKey struct {
	tone  skin.Tone
	level level
}

// Renderer draws frames. It is not safe for concurrent use.
type Renderer struct {
	palette Palette
	styles  map[styleKey]lipgloss.Style
	bar     progress.Model
}

// New creates a Renderer using palette.
func New(palette Palette) *Renderer {
	r := &Renderer{
		palette: palette,
		styles:  make(map[styleKey]lipgloss.Style),
		bar:     progress.New(progress.WithDefaultGradient()),
	}
	for _, t := range []skin.Tone{skin.ToneNormal, skin.TonePrimary, skin.ToneAccent, skin.ToneAlert, skin.ToneMuted} {
		base := lipgloss.NewStyle().Foreground(palette.color(t))
		r.styles[styleKey{t, faint}] = base.Faint(true)
		r.styles[styleKey{t, plain}] = base
		r.styles[styleKey{t, bright}] = base.Bold(true)
	}
	return r
}

// canvas is a Width×Height grid of cells.
type canvas struct {
	w, h  int
	cells []cell
}

func newCanvas(w, h int) *canvas {
	return &canvas{w: w, h: h, cells: make([]cell, w*h)}
}

// set draws r at (x, y) unless it is off-canvas or hidden. A double-width
// rune takes (x, y) and (x+1, y) and is dropped when x+1 is off-canvas.
func (c *canvas) set(x, y int, r rune, tone skin.Tone, lv level) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h || lv == hidden {
		return
	}
	wide := runewidth.RuneWidth(r) == 2
	if wide && x+1 >= c.w {
		return
	}
	c.clear(x, y)
	c.cells[y*c.w+x] = cell{r: r, tone: tone, level: lv}
	if wide {
		c.clear(x+1, y)
		c.cells[y*c.w+x+1] = cell{tone: tone, level: lv, cont: true}
	}
}

// text draws s left to right starting at (x, y), advancing by each rune's
// display width. Zero-width runes are skipped. Spaces are transparent
// unless opaque is set.
func (c *canvas) text(x, y int, s string, tone skin.Tone, lv level, opaque bool) {
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		switch {
		case rw == 0:
			continue
		case r != ' ':
			c.set(x, y, r, tone, lv)
		case opaque:
			c.clear(x, y)
		}
		x += rw
	}
}

// clear blanks (x, y). Clearing half of a double-width rune blanks the
// other half too.
func (c *canvas) clear(x, y int) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	i := y*c.w + x
	if c.cells[i].cont && x > 0 {
		c.cells[i-1] = cell{}
	}
	if x+1 < c.w && c.cells[i+1].cont {
		c.cells[i+1] = cell{}
	}
	c.cells[i] = cell{}
}

// Render draws f. The result has exactly f.Height lines, each f.Width
// cells wide; a frame with no area renders as the empty string.
func (r *Renderer) Render(f skin.Frame) string {
	w, h := f.Width, f.Height
	if w <= 0 || h <= 0 {
		return ""
	}
	c := newCanvas(w, h)
	fade := f.Overlay

	status := f.Status
	if len(status) == 0 && f.Caption != "" {
		status = []string{f.Caption}
	}
	// Bottom rows: status lines, then the progress bar.
	reserved := min(len(status)+1, h)
	top := h - reserved

	if lv := levelOf(f.Grid * fade); lv != hidden {
		for y := 0; y < top; y += gridRows {
			for x := 0; x < w; x += gridCols {
				c.set(x, y, gridDot, skin.ToneMuted, lv)
			}
		}
	}

	if lv := levelOf(f.ArtOpacity * fade); lv != hidden && len(f.Art) > 0 {
		artW := 0
		for _, line := range f.Art {
			artW = max(artW, lipgloss.Width(line))
		}
		x0 := int(f.ArtCenter*float64(w)) - artW/2
		y0 := (top - len(f.Art)) / 2
		for i, line := range f.Art {
			c.text(x0, y0+i, line, f.ArtTone, lv, false)
		}
	}

	for _, g := range f.Glyphs {
		c.text(g.X, g.Y, g.Text, g.Tone, levelOf(g.Opacity*fade), false)
	}

	if f.Wipe >= 0 {
		edge := int(f.Wipe * float64(w))
		for y := 0; y < h; y++ {
			for x := 0; x < edge-1; x++ {
				c.clear(x, y)
			}
			c.set(edge-1, y, wipeBand, skin.ToneAccent, bright)
			c.set(edge, y, wipeBand, skin.ToneAccent, plain)
		}
	}

	if lv := levelOf(fade); lv != hidden {
		for i, line := range status {
			if y := top + i; y < h-1 {
				x := (w - lipgloss.Width(line)) / 2
				c.text(max(x, 0), y, line, skin.ToneNormal, lv, true)
			}
		}
	}

	rows := make([]string, h)
	for y := 0; y < h; y++ {
		rows[y] = r.row(c, y)
	}
	if levelOf(fade) != hidden {
		rows[h-1] = r.progressRow(f.Progress, w)
	}
	return strings.Join(rows, "\n")
}

// row renders canvas row y, styling each run of equal cells once.
func (r *Renderer) row(c *canvas, y int) string {
	var b strings.Builder
	cells := c.cells[y*c.w : (y+1)*c.w]
	for i := 0; i < len(cells); {
		j := i + 1
		for j < len(cells) && cells[j].level == cells[i].level && cells[j].tone == cells[i].tone {
			j++
		}
		if cells[i].level == hidden {
			b.WriteString(strings.Repeat(" ", j-i))
		} else {
			var run strings.Builder
			for _, cl := range cells[i:j] {
				if !cl.cont {
					run.WriteRune(cl.r)
				}
			}
			b.WriteString(r.styles[styleKey{cells[i].tone, cells[i].level}].Render(run.String()))
		}
		i = j
	}
	return b.String()
}

// progressRow renders the loading bar centered in a row of width w.
func (r *Renderer) progressRow(p float64, w int) string {
	r.bar.Width = max(min(w-4, 60), 1)
	r.bar.ShowPercentage = w >= 10
	return lipgloss.PlaceHorizontal(w, lipgloss.Center, r.bar.ViewAs(p))
}
