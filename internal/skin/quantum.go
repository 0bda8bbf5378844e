package skin

import (
	"strings"
	"time"

	"folio/internal/timeline"
)

// quantumStreamStage is the first stage that shows the binary data stream.
const quantumStreamStage = timeline.StageProtocols

var quantumAtomArt = []string{
	`   .--.   `,
	` /  ()  \ `,
	`|  (())  |`,
	` \  ()  / `,
	`   '--'   `,
}

// quantum is a boot log: each stage appends a line, the progress bar fills
// per stage, quanta twinkle across the screen and a binary stream appears
// once protocols load.
type quantum struct {
	base
	stream string
}

func newQuantum(plan timeline.Plan, opts Options) Generator {
	q := &quantum{base: newBase(timeline.Quantum, plan, opts)}
	q.field.Scatter(q.opts.ParticleCount, []rune("·∙•"))
	q.field.Fade(-1)
	return q
}

func (q *quantum) Enter(index int, entry timeline.Entry) {
	q.enter(index, entry)
}

func (q *quantum) Tick(dt time.Duration) {
	q.tick(dt)
	if q.index >= 1 {
		q.field.Twinkle()
	}
	if q.reached(quantumStreamStage) {
		var b strings.Builder
		for i := 0; i < 10; i++ {
			b.WriteRune(q.field.Bit())
		}
		q.stream = b.String()
	}
}

func (q *quantum) Frame() Frame {
	f := q.frame()

	// Boot lines accumulate: one per stage entered after dormant.
	last := min(q.index, q.plan.Len()-1)
	for i := 1; i <= last; i++ {
		caption := q.plan.Entry(i).Caption
		if caption == "" || (i > 1 && caption == q.plan.Entry(i-1).Caption) {
			continue
		}
		f.Status = append(f.Status, "▶ "+caption)
	}

	// The bar is full at materialize, one stage before the terminal.
	f.Progress = float64(q.index) / float64(max(q.plan.Len()-2, 1))

	if q.index >= 1 {
		f.Art = quantumAtomArt
		f.ArtTone = ToneAccent
		f.Grid = gridMaxOpacity
		f.Glyphs = q.particleGlyphs(ToneAccent)
	} else {
		f.ArtOpacity = 0
	}
	if q.stream != "" {
		f.Glyphs = append(f.Glyphs, Glyph{
			X:       max(q.opts.Width/2-5, 0),
			Y:       max(q.opts.Height-3, 0),
			Text:    q.stream,
			Opacity: 0.8,
			Tone:    TonePrimary,
		})
	}
	return clampFrame(f)
}
