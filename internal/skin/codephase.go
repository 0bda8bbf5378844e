package skin

import (
	"fmt"
	"strings"
	"time"

	"folio/internal/timeline"
	"folio/internal/typewriter"
)

// codeTypeSpeed is the reveal rate of the code-style sketches.
const codeTypeSpeed = 8 * time.Millisecond

// sketch renders the page three ways: as component source, as markup and
// as the plain styled outline.
type sketch struct {
	code, html, styled string
}

func newSketch(o Options) sketch {
	var code, html, styled strings.Builder

	code.WriteString("const Portfolio = () => {\n  return (\n    <div className=\"hero\">\n")
	fmt.Fprintf(&code, "      <h1>%s</h1>\n      <p>%s</p>\n", o.Title, o.Subtitle)
	for _, s := range o.Sections {
		fmt.Fprintf(&code, "      <section>%s</section>\n", s)
	}
	code.WriteString("    </div>\n  );\n};")

	fmt.Fprintf(&html, "<div class=\"hero\">\n  <h1>%s</h1>\n  <p>%s</p>\n", o.Title, o.Subtitle)
	for _, s := range o.Sections {
		fmt.Fprintf(&html, "  <section>%s</section>\n", s)
	}
	html.WriteString("</div>")

	fmt.Fprintf(&styled, "%s\n%s\n", o.Title, o.Subtitle)
	for _, s := range o.Sections {
		fmt.Fprintf(&styled, "\n%s", s)
	}

	return sketch{code: code.String(), html: html.String(), styled: styled.String()}
}

// typed returns text revealed up to elapsed, split into lines.
func typed(text string, elapsed time.Duration) []string {
	return strings.Split(typewriter.New(text, codeTypeSpeed).Visible(elapsed), "\n")
}

// codePhase shows the page as code, then markup, then styled text, each
// typed out and cross-faded.
type codePhase struct {
	base
	sketch sketch
}

func newCodePhase(plan timeline.Plan, opts Options) Generator {
	return &codePhase{base: newBase(timeline.CodePhase, plan, opts), sketch: newSketch(opts)}
}

func (c *codePhase) Enter(index int, entry timeline.Entry) { c.enter(index, entry) }

func (c *codePhase) Tick(dt time.Duration) { c.tick(dt) }

func (c *codePhase) Frame() Frame {
	f := c.frame()
	f.ArtOpacity = ramp(c.inStage, 300*time.Millisecond)

	switch c.entry.Stage {
	case timeline.StageCode:
		f.Art = typed(c.sketch.code, c.inStage)
		f.ArtTone = TonePrimary
	case timeline.StageHTML:
		f.Art = typed(c.sketch.html, c.inStage)
		f.ArtTone = ToneAccent
	case timeline.StageStyled:
		f.Art = strings.Split(c.sketch.styled, "\n")
		f.ArtTone = ToneNormal
	default:
		f.Art = strings.Split(c.sketch.styled, "\n")
		f.Overlay = 0
	}
	if f.Caption != "" {
		f.Status = []string{"// " + f.Caption}
	}
	return clampFrame(f)
}
