// Package tui hosts the intro and the portfolio page in a bubbletea program.
//
// The [Model] runs in two phases. During the intro phase it mounts an
// [intro.Screen] and shows the frames it publishes; frames and the
// completion signal arrive as messages through [Sender]. When the intro
// completes, or the user skips it, the intro scope is unmounted and the
// page phase shows the portfolio in a scrollable viewport.
//
// Key types:
//   - [Model] is the bubbletea model
//   - [Sender] delivers messages into the running program
//   - [FrameMsg] and [IntroDoneMsg] are the intro's messages
package tui

import (
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"folio/internal/clock"
	"folio/internal/content"
	"folio/internal/intro"
	"folio/internal/page"
	"folio/internal/render"
	"folio/internal/skin"
)

// Phase is the part of the program on screen.
type Phase int

const (
	PhaseIntro Phase = iota
	PhasePage
)

func (p Phase) String() string {
	if p == PhasePage {
		return "page"
	}
	return "intro"
}

// FrameMsg carries one intro frame. Seq orders frames; older ones are dropped.
type FrameMsg struct {
	Seq   uint64
	Frame skin.Frame
}

// IntroDoneMsg reports that the intro reached its terminal stage.
type IntroDoneMsg struct{}

// pageTickMsg advances the page reveal.
type pageTickMsg struct{}

// Sender delivers messages into a running program. [*tea.Program]
// implements it.
type Sender interface {
	Send(msg tea.Msg)
}

// Options configures a [Model].
type Options struct {
	// Screen is the intro to play.
	Screen *intro.Screen

	// Renderer draws intro frames. Nil uses the default palette.
	Renderer *render.Renderer

	// Page configures the portfolio page; its Width follows the window.
	Page page.Options

	// Portfolio is the page content. Nil uses the embedded default.
	Portfolio *content.Portfolio

	// Clock times the page reveal; it should be the intro's clock.
	Clock clock.Clock

	// NoPage quits when the intro ends instead of showing the page.
	NoPage bool

	Logger *zap.Logger
}

var (
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4a5568"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff3355"))
)

// Model is the bubbletea model of the program.
type Model struct {
	opts     Options
	sender   Sender
	scope    *intro.Scope
	renderer *render.Renderer
	page     *page.Renderer
	viewport viewport.Model

	phase     Phase
	frame     skin.Frame
	seq       atomic.Uint64
	lastSeq   uint64
	skipped   bool
	completed bool
	pageStart time.Time
	typing    bool
	width     int
	height    int
	err       error
}

// New creates a Model. Call [Model.SetSender] before the program starts.
func New(opts Options) *Model {
	if opts.Renderer == nil {
		opts.Renderer = render.New(render.DefaultPalette())
	}
	if opts.Portfolio == nil {
		opts.Portfolio = content.Default()
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	m := &Model{
		opts:     opts,
		renderer: opts.Renderer,
		viewport: viewport.New(80, 20),
		width:    80,
		height:   24,
	}
	m.page, m.err = page.New(m.pageOptions())
	return m
}

// SetSender configures where intro callbacks deliver their messages.
func (m *Model) SetSender(s Sender) { m.sender = s }

// Phase returns the active phase.
func (m *Model) Phase() Phase { return m.phase }

// Skipped reports whether the user skipped the intro.
func (m *Model) Skipped() bool { return m.skipped }

// Completed reports whether the intro ran to its terminal stage.
func (m *Model) Completed() bool { return m.completed }

// Err returns the error that stopped the model, if any.
func (m *Model) Err() error { return m.err }

// Close unmounts the intro if it is still mounted. It is idempotent.
func (m *Model) Close() {
	if m.scope != nil {
		m.scope.Unmount()
	}
}

// send delivers msg without blocking the intro's goroutine, which may hold
// the scope lock while the event loop waits on it.
func (m *Model) send(msg tea.Msg) {
	if m.sender != nil {
		go m.sender.Send(msg)
	}
}

func (m *Model) publish(f skin.Frame) {
	m.send(FrameMsg{Seq: m.seq.Add(1), Frame: f})
}

// Init mounts the intro.
func (m *Model) Init() tea.Cmd {
	if m.err != nil {
		return tea.Quit
	}
	if m.opts.Screen == nil {
		return m.showPage()
	}
	scope, err := m.opts.Screen.Mount(func() { m.send(IntroDoneMsg{}) }, m.publish)
	if err != nil {
		m.err = err
		return tea.Quit
	}
	m.scope = scope
	m.frame = scope.Frame()
	return nil
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.Close()
			return m, tea.Quit
		case "s", "enter", "esc":
			if m.phase == PhaseIntro {
				m.skipped = true
				m.opts.Logger.Info("intro skipped", zap.String("stage", m.frame.Stage.String()))
				m.Close()
				return m, m.showPage()
			}
		}

	case FrameMsg:
		if m.phase == PhaseIntro && msg.Seq > m.lastSeq {
			m.lastSeq = msg.Seq
			m.frame = msg.Frame
		}
		return m, nil

	case IntroDoneMsg:
		if m.phase != PhaseIntro {
			return m, nil
		}
		m.completed = true
		m.Close()
		return m, m.showPage()

	case pageTickMsg:
		return m, m.revealPage()
	}

	if m.phase == PhasePage {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the active phase.
func (m *Model) View() string {
	if m.err != nil {
		return errorStyle.Render("error: "+m.err.Error()) + "\n"
	}
	if m.phase == PhasePage {
		return m.viewport.View() + "\n" + footerStyle.Render("↑/↓ scroll · q quit")
	}
	return m.renderer.Render(m.frame) + "\n" + footerStyle.Render("s skip · q quit")
}

// resize fits the intro canvas and the page to the window, keeping one row
// for the footer.
func (m *Model) resize(w, h int) {
	m.width, m.height = max(w, 1), max(h, 2)
	if m.scope != nil && m.phase == PhaseIntro {
		m.scope.Resize(m.width, m.height-1)
		m.frame = m.scope.Frame()
	}
	m.viewport.Width = m.width
	m.viewport.Height = m.height - 1
	if r, err := page.New(m.pageOptions()); err == nil {
		m.page = r
	}
	if m.phase == PhasePage {
		m.setPageContent()
	}
}

func (m *Model) pageOptions() page.Options {
	o := m.opts.Page
	o.Width = m.width
	return o
}

// showPage switches to the page phase, or quits when there is no page.
func (m *Model) showPage() tea.Cmd {
	if m.opts.NoPage {
		return tea.Quit
	}
	m.phase = PhasePage
	m.pageStart = m.opts.Clock.Now()
	m.typing = true
	return m.revealPage()
}

// revealPage redraws the page at the current reveal time and schedules the
// next redraw while the tagline is still typing.
func (m *Model) revealPage() tea.Cmd {
	if m.phase != PhasePage || !m.typing {
		return nil
	}
	m.setPageContent()
	tw := m.page.Tagline(m.opts.Portfolio)
	if tw.Done(m.opts.Clock.Now().Sub(m.pageStart)) {
		m.typing = false
		return nil
	}
	return tea.Tick(tw.Speed, func(time.Time) tea.Msg { return pageTickMsg{} })
}

func (m *Model) setPageContent() {
	if m.typing {
		m.viewport.SetContent(m.page.RenderAt(m.opts.Portfolio, m.opts.Clock.Now().Sub(m.pageStart)))
		return
	}
	m.viewport.SetContent(m.page.Render(m.opts.Portfolio))
}

// Run plays m in a new full-screen program and blocks until it exits. The
// intro is unmounted before Run returns.
func Run(m *Model, opts ...tea.ProgramOption) error {
	p := tea.NewProgram(m, opts...)
	m.SetSender(p)
	defer m.Close()

	if _, err := p.Run(); err != nil {
		return err
	}
	return m.Err()
}
