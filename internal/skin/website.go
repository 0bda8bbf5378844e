package skin

import (
	"strings"
	"time"

	"folio/internal/timeline"
)

// website shows the developer view of the page, wipes to the markup view,
// then wipes to the final page. The wipes are stages of their own so the
// swoop duration comes from the plan.
type website struct {
	base
	sketch sketch
}

func newWebsite(plan timeline.Plan, opts Options) Generator {
	return &website{base: newBase(timeline.Website, plan, opts), sketch: newSketch(opts)}
}

func (w *website) Enter(index int, entry timeline.Entry) { w.enter(index, entry) }

func (w *website) Tick(dt time.Duration) { w.tick(dt) }

// stageLength returns how long the active stage lasts, or zero for the
// terminal stage.
func (w *website) stageLength() time.Duration {
	if w.index+1 >= w.plan.Len() {
		return 0
	}
	return w.plan.Entry(w.index+1).At - w.entry.At
}

func (w *website) Frame() Frame {
	f := w.frame()

	switch w.entry.Stage {
	case timeline.StageDeveloper:
		f.Art = typed(w.sketch.code, w.inStage)
		f.ArtTone = TonePrimary
	case timeline.StageSwoopHTML:
		f.Art = strings.Split(w.sketch.code, "\n")
		f.ArtTone = TonePrimary
		f.Wipe = easeInOutCubic(ramp(w.inStage, w.stageLength()))
	case timeline.StageHTML:
		f.Art = typed(w.sketch.html, w.inStage)
		f.ArtTone = ToneAccent
	case timeline.StageSwoopFinal:
		f.Art = strings.Split(w.sketch.html, "\n")
		f.ArtTone = ToneAccent
		f.Wipe = easeInOutCubic(ramp(w.inStage, w.stageLength()))
	default:
		f.Art = strings.Split(w.sketch.styled, "\n")
		f.ArtTone = ToneNormal
	}
	if f.Caption != "" {
		f.Status = []string{f.Caption}
	}
	return clampFrame(f)
}
