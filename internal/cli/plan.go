package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"folio/internal/skin"
	"folio/internal/timeline"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func newPlanCommand(app *App) *cobra.Command {
	var (
		flags playFlags
		at    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print a skin's stage plan",
		Long: `Print the stages of a skin with their offsets and captions, after
applying --delays and --timeline the way 'folio play' does.

Use --at to mark the stage showing at a moment of the intro.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *app.Config
			flags.apply(cmd, &cfg)

			plan, err := resolvePlan(cfg.Intro)
			if err != nil {
				return err
			}

			active := -1
			if cmd.Flags().Changed("at") {
				active = plan.StageAt(at)
			}

			t := newTable("#", "OFFSET", "STAGE", "CAPTION")
			for i, e := range plan.Entries() {
				index := strconv.Itoa(i)
				if i == active {
					index = "> " + index
				}
				t.Row(index, e.At.String(), e.Stage.String(), e.Caption)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Skin: %s\n", cfg.Intro.Skin)
			fmt.Fprintln(out, t.Render())
			fmt.Fprintf(out, "Completes after %s\n", plan.Duration())
			if active >= 0 {
				fmt.Fprintf(out, "At %s: %s\n", at, plan.Entry(active).Stage)
			}
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&flags.skin, "skin", "", "intro skin (see 'folio skins')")
	fs.DurationSliceVar(&flags.delays, "delays", nil, "stage offsets, e.g. 0s,1.5s,4s")
	fs.StringVar(&flags.timeline, "timeline", "", "CSV timeline that retimes the skin")
	fs.DurationVar(&at, "at", 0, "mark the stage active this long after mount")

	return cmd
}

func newSkinsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "skins",
		Short: "List the available intro skins",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t := newTable("SKIN", "STAGES", "DURATION")
			for _, name := range skin.Names() {
				plan, err := timeline.Builtin(name)
				if err != nil {
					return err
				}
				t.Row(name, strconv.Itoa(plan.Len()), plan.Duration().String())
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}
}
