package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"go.uber.org/zap"

	"folio/internal/clock"
	"folio/internal/config"
	"folio/internal/content"
	"folio/internal/tui"
)

// MockProgram stands in for the terminal program in tests.
type MockProgram struct {
	// Runs counts RunTUI calls.
	Runs int
	// InitialView is the stripped view right after Init.
	InitialView string
	// Err is returned from every run.
	Err error
}

// Run mounts the model, records its first view and closes it.
func (p *MockProgram) Run(m *tui.Model) error {
	p.Runs++
	m.Init()
	p.InitialView = ansi.Strip(m.View())
	m.Close()
	return p.Err
}

// newTestApp builds an App on a fake clock that reads content from dir.
func newTestApp(t *testing.T, dir string, program *MockProgram) *App {
	t.Helper()
	t.Setenv(content.EnvContentPath, "")

	cfg := config.DefaultConfig()
	return &App{
		Config:  cfg,
		Content: content.NewReader(dir),
		Clock:   clock.NewFake(),
		Logger:  zap.NewNop(),
		RunTUI:  program.Run,
	}
}

// execute runs the CLI against app and returns its output without styling.
func execute(app *App, args ...string) (stdout, stderr string, result ExecuteResult) {
	outBuf := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	result = run(app, args, outBuf, errBuf)
	return ansi.Strip(outBuf.String()), ansi.Strip(errBuf.String()), result
}

// writeFile writes data to name under dir.
func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}
