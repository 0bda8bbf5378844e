// Package cli provides the Cobra command-line interface for folio.
//
// The root command plays the intro and then shows the portfolio page. The
// subcommands print the page without the intro, describe a skin's stage
// plan and list the available skins.
//
// Key types:
//   - [App] holds the dependencies shared by every command
//   - [ExecuteResult] carries the exit code of a run
//   - [ExitError] signals a non-zero exit code from a command
package cli

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"folio/internal/clock"
	"folio/internal/config"
	"folio/internal/content"
	"folio/internal/logging"
	"folio/internal/tui"
)

// App holds the dependencies of the commands.
//
// Tests build an App directly and replace RunTUI so no terminal program is
// started.
type App struct {
	Config  *config.Config
	Content *content.Reader
	Clock   clock.Clock
	Logger  *zap.Logger

	// ConfigSource is the file Config was read from; empty means defaults
	// and environment only.
	ConfigSource string

	// RunTUI runs the model until it exits.
	RunTUI func(m *tui.Model) error
}

// NewApp wires the production dependencies for cfg.
func NewApp(cfg *config.Config) (*App, error) {
	logger, err := logging.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return nil, err
	}
	return &App{
		Config:  cfg,
		Content: content.NewReaderWithPath(".", cfg.Content.Path),
		Clock:   clock.Real(),
		Logger:  logger,
		RunTUI: func(m *tui.Model) error {
			return tui.Run(m, tea.WithAltScreen())
		},
	}, nil
}

// NewRootCommand builds the command tree. Running the root command without a
// subcommand plays the intro.
func NewRootCommand(app *App) *cobra.Command {
	var flags playFlags

	rootCmd := &cobra.Command{
		Use:   "folio",
		Short: "Terminal portfolio with an animated intro",
		Long: `folio plays a staged intro animation in the terminal and then shows
a portfolio page: about, projects, research, skills and contact.

Skins: quantum-grid, quantum, cyber, codephase, website.
Press s to skip the intro and q to quit.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd, app, &flags)
		},
	}
	flags.register(rootCmd)

	rootCmd.AddCommand(
		newPlayCommand(app),
		newShowCommand(app),
		newPlanCommand(app),
		newSkinsCommand(),
	)

	return rootCmd
}

// ExecuteResult is the outcome of a CLI run.
type ExecuteResult struct {
	ExitCode int
	Err      error
}

// RunWithConfig runs the CLI with args against cfg, writing to stdout and
// stderr. It never exits the process.
func RunWithConfig(cfg *config.Config, args []string, stdout, stderr io.Writer) ExecuteResult {
	return runWithConfig(cfg, "", args, stdout, stderr)
}

func runWithConfig(cfg *config.Config, source string, args []string, stdout, stderr io.Writer) ExecuteResult {
	app, err := NewApp(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExecuteResult{ExitCode: 1, Err: err}
	}
	app.ConfigSource = source
	defer func() { _ = app.Logger.Sync() }()

	return run(app, args, stdout, stderr)
}

func run(app *App, args []string, stdout, stderr io.Writer) ExecuteResult {
	source := app.ConfigSource
	if source == "" {
		source = "defaults"
	}
	app.Logger.Debug("configuration loaded", zap.String("source", source))

	rootCmd := NewRootCommand(app)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.Execute(); err != nil {
		if code, ok := IsExitError(err); ok {
			return ExecuteResult{ExitCode: code, Err: err}
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExecuteResult{ExitCode: 1, Err: err}
	}
	return ExecuteResult{}
}

// Execute loads the configuration, runs the CLI with the process arguments
// and exits with its code.
func Execute() {
	loader := config.NewLoader()
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	result := runWithConfig(cfg, loader.Source(), os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(result.ExitCode)
}
