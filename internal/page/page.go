// Package page composes the portfolio page shown once the intro completes.
//
// Sections are laid out with lipgloss; the about and research bodies are
// markdown and go through glamour when markdown rendering is enabled. The
// hero tagline is revealed by a [typewriter.Typewriter], so the page can be
// drawn at any moment of its reveal with [Renderer.RenderAt].
package page

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"folio/internal/content"
	"folio/internal/typewriter"
)

// Options configures a [Renderer].
type Options struct {
	// Width is the page width in cells.
	Width int

	// Markdown enables glamour rendering of markdown bodies.
	Markdown bool

	// Style is a glamour style name, or "auto" to detect the terminal.
	Style string

	// WordWrap is the markdown wrap column; zero derives it from Width.
	WordWrap int

	// TypewriterSpeed is the hero tagline reveal rate per rune.
	TypewriterSpeed time.Duration

	// Sections limits the page to these sections. Empty means all.
	Sections []content.Section
}

// DefaultWidth is the page width when none is set.
const DefaultWidth = 80

// cursor trails the tagline while it is being typed.
const cursor = "▌"

var (
	nameStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88"))
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00b3ff"))
	taglineStyle = lipgloss.NewStyle().Italic(true)
	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ff88")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("#4a5568"))
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4a5568")).
			Padding(0, 1)
	badgeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffc107"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8a94a6"))
	labelStyle = lipgloss.NewStyle().Bold(true)
)

// Renderer draws portfolio pages.
//
// Every section but the hero is drawn once per portfolio and reused, so a
// portfolio must not change after it is first drawn. A Renderer is not safe
// for concurrent use.
type Renderer struct {
	opts Options
	md   *glamour.TermRenderer

	cachedFor *content.Portfolio
	cached    map[content.Section]string
	builds    int
}

// New creates a Renderer. It fails only when the markdown renderer cannot
// be built, e.g. for an unknown glamour style.
func New(opts Options) (*Renderer, error) {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.WordWrap <= 0 {
		opts.WordWrap = max(opts.Width-4, 20)
	}
	if opts.TypewriterSpeed <= 0 {
		opts.TypewriterSpeed = typewriter.DefaultSpeed
	}

	r := &Renderer{opts: opts}
	if opts.Markdown {
		style := glamour.WithAutoStyle()
		if opts.Style != "" && opts.Style != "auto" {
			style = glamour.WithStylePath(opts.Style)
		}
		md, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(opts.WordWrap))
		if err != nil {
			return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
		}
		r.md = md
	}
	return r, nil
}

// Width returns the page width.
func (r *Renderer) Width() int { return r.opts.Width }

// Tagline returns the typewriter revealing p's hero tagline.
func (r *Renderer) Tagline(p *content.Portfolio) typewriter.Typewriter {
	return typewriter.New(p.Hero.Tagline, r.opts.TypewriterSpeed)
}

// Render draws the complete page with the tagline fully typed.
func (r *Renderer) Render(p *content.Portfolio) string {
	return r.render(p, -1)
}

// RenderAt draws the page as it looks elapsed after it was mounted.
func (r *Renderer) RenderAt(p *content.Portfolio, elapsed time.Duration) string {
	return r.render(p, max(elapsed, 0))
}

// render draws the selected sections; a negative elapsed means fully revealed.
func (r *Renderer) render(p *content.Portfolio, elapsed time.Duration) string {
	sections := r.opts.Sections
	if len(sections) == 0 {
		sections = content.Sections
	}

	var parts []string
	for _, s := range content.Sections {
		if !slices.Contains(sections, s) {
			continue
		}
		if s == content.SectionHero {
			parts = append(parts, r.hero(p, elapsed))
			continue
		}
		if block := r.static(p)[s]; block != "" {
			parts = append(parts, block)
		}
	}
	return strings.Join(parts, "\n\n")
}

// static returns the headed blocks of p's non-hero sections, drawing them
// on first use. Empty sections map to "".
func (r *Renderer) static(p *content.Portfolio) map[content.Section]string {
	if r.cachedFor == p && r.cached != nil {
		return r.cached
	}
	blocks := make(map[content.Section]string, len(content.Sections))
	for _, s := range content.Sections {
		if s == content.SectionHero {
			continue
		}
		if body := r.section(p, s); body != "" {
			blocks[s] = headingStyle.Render(s.Title()) + "\n" + body
		}
	}
	r.cachedFor, r.cached = p, blocks
	r.builds++
	return blocks
}

// Section draws one section on its own.
func (r *Renderer) Section(p *content.Portfolio, s content.Section) (string, error) {
	switch s {
	case content.SectionHero:
		return r.hero(p, -1), nil
	case content.SectionAbout, content.SectionProjects, content.SectionResearch, content.SectionSkills, content.SectionContact:
		return headingStyle.Render(s.Title()) + "\n" + r.section(p, s), nil
	}
	return "", fmt.Errorf("%q: %w", s, content.ErrUnknownSection)
}

func (r *Renderer) hero(p *content.Portfolio, elapsed time.Duration) string {
	tagline := p.Hero.Tagline
	if elapsed >= 0 {
		tw := r.Tagline(p)
		tagline = tw.Visible(elapsed)
		if !tw.Done(elapsed) {
			tagline += cursor
		}
	}

	lines := []string{nameStyle.Render(p.Hero.Name)}
	if p.Hero.Title != "" {
		lines = append(lines, titleStyle.Render(p.Hero.Title))
	}
	if tagline != "" {
		lines = append(lines, "", taglineStyle.Width(r.opts.Width).Render(tagline))
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) section(p *content.Portfolio, s content.Section) string {
	switch s {
	case content.SectionAbout:
		return r.markdown(p.About.Markdown)
	case content.SectionProjects:
		return r.projects(p.Projects)
	case content.SectionResearch:
		return r.research(p.Research)
	case content.SectionSkills:
		return r.skills(p.Skills)
	case content.SectionContact:
		return r.contact(p.Contact)
	}
	return ""
}

// markdown renders md through glamour, or wraps it as plain text when
// markdown rendering is off or fails.
func (r *Renderer) markdown(md string) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if r.md != nil {
		if out, err := r.md.Render(md); err == nil {
			return strings.Trim(out, "\n")
		}
	}
	return lipgloss.NewStyle().Width(r.opts.Width).Render(md)
}

func (r *Renderer) projects(projects []content.Project) string {
	cards := make([]string, 0, len(projects))
	inner := max(r.opts.Width-4, 10) // border and padding
	for _, proj := range projects {
		head := labelStyle.Render(proj.Title)
		if proj.Status != "" {
			head += "  " + badgeStyle.Render("["+proj.Status+"]")
		}
		lines := []string{head}
		if proj.Subtitle != "" {
			lines = append(lines, mutedStyle.Render(proj.Subtitle))
		}
		if proj.Description != "" {
			lines = append(lines, "", lipgloss.NewStyle().Width(inner).Render(proj.Description))
		}
		if len(proj.Tech) > 0 {
			lines = append(lines, "", mutedStyle.Width(inner).Render(strings.Join(proj.Tech, " · ")))
		}
		cards = append(cards, cardStyle.Width(r.opts.Width-2).Render(strings.Join(lines, "\n")))
	}
	return strings.Join(cards, "\n")
}

func (r *Renderer) research(items []content.Research) string {
	blocks := make([]string, 0, len(items))
	for _, item := range items {
		block := labelStyle.Render(item.Title)
		if body := r.markdown(item.Markdown); body != "" {
			block += "\n" + body
		}
		if item.Link != "" {
			block += "\n" + mutedStyle.Render("paper: "+item.Link)
		}
		blocks = append(blocks, block)
	}
	return strings.Join(blocks, "\n\n")
}

func (r *Renderer) skills(groups []content.SkillGroup) string {
	lines := make([]string, 0, len(groups))
	for _, g := range groups {
		line := labelStyle.Render(g.Title+":") + " " + strings.Join(g.Tools, " · ")
		lines = append(lines, lipgloss.NewStyle().Width(r.opts.Width).Render(line))
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) contact(c content.Contact) string {
	var lines []string
	if c.Email != "" {
		lines = append(lines, labelStyle.Render("Email:")+" "+c.Email)
	}
	if c.Location != "" {
		lines = append(lines, labelStyle.Render("Location:")+" "+c.Location)
	}
	for _, l := range c.Links {
		lines = append(lines, labelStyle.Render(l.Label+":")+" "+l.URL)
	}
	return strings.Join(lines, "\n")
}
