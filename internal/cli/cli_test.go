package cli

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"folio/internal/config"
	"folio/internal/content"
	"folio/internal/timeline"
)

func TestRoot_PlaysIntro(t *testing.T) {
	program := &MockProgram{}
	app := newTestApp(t, t.TempDir(), program)

	_, _, result := execute(app, "--skin", "cyber", "--particles", "10")
	require.NoError(t, result.Err)
	assert.Equal(t, 0, result.ExitCode)
	assert.Equal(t, 1, program.Runs)
	assert.Contains(t, program.InitialView, "INITIALIZING FIREWALL DEFENSE SYSTEM...")
}

func TestPlay_Subcommand(t *testing.T) {
	program := &MockProgram{}
	app := newTestApp(t, t.TempDir(), program)

	_, _, result := execute(app, "play", "--skin", "cyber", "--no-page", "--seed", "3")
	require.NoError(t, result.Err)
	assert.Equal(t, 1, program.Runs)
	assert.True(t, app.Config.Page.Enabled, "flags do not mutate the loaded config")
}

func TestPlay_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantIs  error
		wantMsg string
	}{
		{name: "unknown skin", args: []string{"--skin", "matrix"}, wantIs: config.ErrInvalidConfig, wantMsg: "intro.skin"},
		{name: "bad particle count", args: []string{"--particles", "-1"}, wantIs: config.ErrInvalidConfig, wantMsg: "particle_count"},
		{name: "wrong delay count", args: []string{"--skin", "cyber", "--delays", "0s,1s"}, wantIs: timeline.ErrDelayCount},
		{name: "decreasing delays", args: []string{"--skin", "cyber", "--delays", "2s,1s,3s,4s"}},
		{name: "missing timeline", args: []string{"--timeline", "/no/such/timeline.csv"}, wantMsg: "failed to open timeline"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program := &MockProgram{}
			app := newTestApp(t, t.TempDir(), program)

			_, stderr, result := execute(app, tt.args...)
			require.Error(t, result.Err)
			assert.Equal(t, 1, result.ExitCode)
			assert.Equal(t, 0, program.Runs, "the program never starts")
			assert.Contains(t, stderr, "Error:")
			if tt.wantIs != nil {
				assert.ErrorIs(t, result.Err, tt.wantIs)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, result.Err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestPlay_ProgramFailure(t *testing.T) {
	program := &MockProgram{Err: errors.New("no tty")}
	app := newTestApp(t, t.TempDir(), program)

	_, stderr, result := execute(app, "play")
	assert.Equal(t, 1, result.ExitCode)
	code, ok := IsExitError(result.Err)
	assert.True(t, ok)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Error: no tty")
}

func TestPlay_BadContent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, content.DefaultFile, "hero:\n  title: nameless\n")
	program := &MockProgram{}
	app := newTestApp(t, dir, program)

	_, _, result := execute(app)
	require.Error(t, result.Err)
	assert.ErrorIs(t, result.Err, content.ErrMissingName)
	assert.Equal(t, 0, program.Runs)
}

func TestShow_PrintsPage(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, content.DefaultFile, `
hero:
  name: Test Person
  title: Builder
  tagline: Makes things.
skills:
  - title: Languages
    tools: [Go, Rust]
contact:
  email: test@example.com
`)
	app := newTestApp(t, dir, &MockProgram{})

	stdout, _, result := execute(app, "show", "--no-markdown", "--width", "60")
	require.NoError(t, result.Err)
	assert.Contains(t, stdout, "Test Person")
	assert.Contains(t, stdout, "Makes things.")
	assert.Contains(t, stdout, "Languages: Go · Rust")
	assert.Contains(t, stdout, "test@example.com")
}

func TestShow_Sections(t *testing.T) {
	app := newTestApp(t, t.TempDir(), &MockProgram{})

	stdout, _, result := execute(app, "show", "--no-markdown", "--section", "skills,contact")
	require.NoError(t, result.Err)
	assert.Contains(t, stdout, "Skills")
	assert.Contains(t, stdout, "hello@example.com")
	assert.NotContains(t, stdout, content.Default().Hero.Name)

	_, _, result = execute(app, "show", "--section", "blog")
	assert.ErrorIs(t, result.Err, content.ErrUnknownSection)
}

func TestPlan_Builtin(t *testing.T) {
	app := newTestApp(t, t.TempDir(), &MockProgram{})

	stdout, _, result := execute(app, "plan")
	require.NoError(t, result.Err)
	assert.Contains(t, stdout, "Skin: quantum-grid")
	assert.Contains(t, stdout, "OFFSET")
	assert.Contains(t, stdout, "Initializing Quantum Field...")
	assert.Contains(t, stdout, "1.5s")
	assert.Contains(t, stdout, "Completes after 10.5s")
}

func TestPlan_Retimed(t *testing.T) {
	t.Run("delays", func(t *testing.T) {
		app := newTestApp(t, t.TempDir(), &MockProgram{})
		stdout, _, result := execute(app, "plan", "--skin", "cyber", "--delays", "0s,1s,2s,3s,4s")
		require.NoError(t, result.Err)
		assert.Contains(t, stdout, "Completes after 4s")
	})

	t.Run("delays from config", func(t *testing.T) {
		app := newTestApp(t, t.TempDir(), &MockProgram{})
		app.Config.Intro.Skin = timeline.Quantum
		ms := time.Millisecond
		app.Config.Intro.Delays = []time.Duration{100 * ms, 200 * ms, 300 * ms, 400 * ms, 500 * ms, 600 * ms}
		stdout, _, result := execute(app, "plan")
		require.NoError(t, result.Err)
		assert.Contains(t, stdout, "Skin: quantum")
		assert.Contains(t, stdout, "Completes after 600ms")
	})

	t.Run("timeline", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "fast.csv", "offset_ms,stage,caption\n0,code,warming up\n100,html,\n200,styled,\n300,complete,\n")
		app := newTestApp(t, dir, &MockProgram{})

		stdout, _, result := execute(app, "plan", "--skin", "codephase", "--timeline", path)
		require.NoError(t, result.Err)
		assert.Contains(t, stdout, "warming up")
		assert.Contains(t, stdout, "applying styles", "empty captions keep the skin's")
		assert.Contains(t, stdout, "Completes after 300ms")
	})

	t.Run("timeline with other stages", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "other.csv", "offset_ms,stage\n0,grid\n100,complete\n")
		app := newTestApp(t, dir, &MockProgram{})

		_, _, result := execute(app, "plan", "--skin", "cyber", "--timeline", path)
		assert.ErrorIs(t, result.Err, timeline.ErrStageMismatch)
	})
}

func TestPlan_At(t *testing.T) {
	app := newTestApp(t, t.TempDir(), &MockProgram{})

	stdout, _, result := execute(app, "plan", "--skin", "cyber", "--at", "5500ms")
	require.NoError(t, result.Err)
	assert.Contains(t, stdout, "At 5.5s: attack")
	assert.Contains(t, stdout, "> 2")

	stdout, _, result = execute(app, "plan", "--skin", "cyber", "--at", "1h")
	require.NoError(t, result.Err)
	assert.Contains(t, stdout, "At 1h0m0s: complete")

	stdout, _, result = execute(app, "plan", "--skin", "cyber")
	require.NoError(t, result.Err)
	assert.NotContains(t, stdout, "At ")
	assert.NotContains(t, stdout, "> ")
}

func TestRun_LogsConfigSource(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{source: "/home/me/.config/folio/config.yaml", want: "/home/me/.config/folio/config.yaml"},
		{source: "", want: "defaults"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			core, logs := observer.New(zap.DebugLevel)
			app := newTestApp(t, t.TempDir(), &MockProgram{})
			app.Logger = zap.New(core)
			app.ConfigSource = tt.source

			_, _, result := execute(app, "skins")
			require.NoError(t, result.Err)
			entries := logs.FilterMessage("configuration loaded").All()
			require.Len(t, entries, 1)
			assert.Equal(t, tt.want, entries[0].ContextMap()["source"])
		})
	}
}

func TestSkins(t *testing.T) {
	app := newTestApp(t, t.TempDir(), &MockProgram{})

	stdout, _, result := execute(app, "skins")
	require.NoError(t, result.Err)
	for _, name := range timeline.BuiltinNames() {
		assert.Contains(t, stdout, name)
	}
	assert.Contains(t, stdout, "10.5s")
	assert.Contains(t, stdout, "DURATION")
}

func TestUnknownCommand(t *testing.T) {
	app := newTestApp(t, t.TempDir(), &MockProgram{})

	_, stderr, result := execute(app, "dance")
	assert.Equal(t, 1, result.ExitCode)
	assert.Contains(t, stderr, "unknown command")
}

func TestRunWithConfig(t *testing.T) {
	t.Run("bad log level", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Log.Level = "loud"
		result := RunWithConfig(cfg, []string{"skins"}, &bytes.Buffer{}, &bytes.Buffer{})
		assert.Equal(t, 1, result.ExitCode)
	})

	t.Run("skins", func(t *testing.T) {
		out := &bytes.Buffer{}
		result := RunWithConfig(config.DefaultConfig(), []string{"skins"}, out, &bytes.Buffer{})
		assert.Equal(t, 0, result.ExitCode)
		assert.NoError(t, result.Err)
		assert.Contains(t, out.String(), "quantum-grid")
	})
}

func TestIsExitError(t *testing.T) {
	code, ok := IsExitError(NewExitError(2))
	assert.True(t, ok)
	assert.Equal(t, 2, code)

	code, ok = IsExitError(fmt.Errorf("wrapped: %w", NewExitError(3)))
	assert.True(t, ok)
	assert.Equal(t, 3, code)

	_, ok = IsExitError(errors.New("plain"))
	assert.False(t, ok)
	_, ok = IsExitError(nil)
	assert.False(t, ok)

	assert.Equal(t, "exit status 2", NewExitError(2).Error())
}
