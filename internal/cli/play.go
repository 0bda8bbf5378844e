package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"folio/internal/config"
	"folio/internal/intro"
	"folio/internal/page"
	"folio/internal/skin"
	"folio/internal/timeline"
	"folio/internal/tui"
)

// playFlags override the intro section of the configuration.
type playFlags struct {
	skin          string
	delays        []time.Duration
	timeline      string
	particles     int
	seed          uint64
	frameInterval time.Duration
	noPage        bool
}

func (f *playFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.skin, "skin", "", "intro skin (see 'folio skins')")
	fs.DurationSliceVar(&f.delays, "delays", nil, "stage offsets, e.g. 0s,1.5s,4s (one per stage, or one per stage after the first)")
	fs.StringVar(&f.timeline, "timeline", "", "CSV timeline that retimes the skin (offset_ms,stage,caption)")
	fs.IntVar(&f.particles, "particles", 0, "particle count for particle-driven stages")
	fs.Uint64Var(&f.seed, "seed", 0, "seed for reproducible particle layouts")
	fs.DurationVar(&f.frameInterval, "frame-interval", 0, "frame loop period")
	fs.BoolVar(&f.noPage, "no-page", false, "exit when the intro ends instead of showing the page")
}

// apply copies the flags the user set onto cfg.
func (f *playFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	fs := cmd.Flags()
	if fs.Changed("skin") {
		cfg.Intro.Skin = f.skin
	}
	if fs.Changed("delays") {
		cfg.Intro.Delays = f.delays
	}
	if fs.Changed("timeline") {
		cfg.Intro.Timeline = f.timeline
	}
	if fs.Changed("particles") {
		cfg.Intro.ParticleCount = f.particles
	}
	if fs.Changed("seed") {
		cfg.Intro.Seed = f.seed
	}
	if fs.Changed("frame-interval") {
		cfg.Intro.FrameInterval = f.frameInterval
	}
	if fs.Changed("no-page") {
		cfg.Page.Enabled = !f.noPage
	}
}

func newPlayCommand(app *App) *cobra.Command {
	var flags playFlags

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play the intro, then show the portfolio",
		Long: `Play the intro animation, then show the portfolio page.

The skin's stage offsets can be replaced with --delays or a --timeline CSV.
Both keep the skin's stages; only their timing and captions change.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd, app, &flags)
		},
	}
	flags.register(cmd)
	return cmd
}

// resolvePlan returns the skin's plan retimed by the configured timeline
// file and then by the configured delays.
func resolvePlan(ic config.IntroConfig) (timeline.Plan, error) {
	plan, err := timeline.Builtin(ic.Skin)
	if err != nil {
		return timeline.Plan{}, err
	}

	if ic.Timeline != "" {
		manifest, err := timeline.ReadManifestFile(ic.Timeline)
		if err != nil {
			return timeline.Plan{}, err
		}
		if plan, err = timeline.Retime(plan, manifest); err != nil {
			return timeline.Plan{}, err
		}
	}

	if len(ic.Delays) > 0 {
		if plan, err = plan.WithDelays(ic.Delays); err != nil {
			return timeline.Plan{}, err
		}
	}
	return plan, nil
}

func runPlay(cmd *cobra.Command, app *App, flags *playFlags) error {
	cfg := *app.Config
	flags.apply(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	plan, err := resolvePlan(cfg.Intro)
	if err != nil {
		return err
	}

	portfolio, err := app.Content.Read()
	if err != nil {
		return err
	}

	gen, err := skin.NewWithPlan(cfg.Intro.Skin, plan, skin.Options{
		ParticleCount: cfg.Intro.ParticleCount,
		Seed:          cfg.Intro.Seed,
		FPS:           int(time.Second / cfg.Intro.FrameInterval),
		Title:         portfolio.Hero.Name,
		Subtitle:      portfolio.Hero.Title,
		Sections:      portfolio.SectionTitles(),
	})
	if err != nil {
		return err
	}

	screen := intro.NewScreen(gen, app.Clock)
	screen.SetFrameInterval(cfg.Intro.FrameInterval)
	screen.SetLogger(app.Logger)

	model := tui.New(tui.Options{
		Screen: screen,
		Page: page.Options{
			Markdown:        cfg.Page.Markdown.Enabled,
			Style:           cfg.Page.Markdown.Style,
			WordWrap:        cfg.Page.Markdown.WordWrap,
			TypewriterSpeed: cfg.Page.TypewriterSpeed,
		},
		Portfolio: portfolio,
		Clock:     app.Clock,
		NoPage:    !cfg.Page.Enabled,
		Logger:    app.Logger,
	})

	app.Logger.Info("playing intro",
		zap.String("skin", cfg.Intro.Skin),
		zap.Duration("duration", plan.Duration()),
		zap.String("content", app.Content.Path()),
	)

	if err := app.RunTUI(model); err != nil {
		app.Logger.Error("program failed", zap.Error(err))
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return NewExitError(1)
	}

	app.Logger.Info("program exited",
		zap.Bool("completed", model.Completed()),
		zap.Bool("skipped", model.Skipped()),
	)
	return nil
}
