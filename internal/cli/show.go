package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"folio/internal/content"
	"folio/internal/page"
)

func newShowCommand(app *App) *cobra.Command {
	var (
		sections   []string
		width      int
		noMarkdown bool
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the portfolio page without the intro",
		Long: `Print the portfolio page to stdout, fully revealed.

Use --section to print only some sections, in display order:
  hero, about, projects, research, skills, contact`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var only []content.Section
			for _, name := range sections {
				s, err := content.ParseSection(name)
				if err != nil {
					return err
				}
				only = append(only, s)
			}

			portfolio, err := app.Content.Read()
			if err != nil {
				return err
			}

			cfg := app.Config.Page
			r, err := page.New(page.Options{
				Width:           width,
				Markdown:        cfg.Markdown.Enabled && !noMarkdown,
				Style:           cfg.Markdown.Style,
				WordWrap:        cfg.Markdown.WordWrap,
				TypewriterSpeed: cfg.TypewriterSpeed,
				Sections:        only,
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), r.Render(portfolio))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&sections, "section", nil, "sections to print (repeatable or comma-separated)")
	cmd.Flags().IntVar(&width, "width", page.DefaultWidth, "page width in columns")
	cmd.Flags().BoolVar(&noMarkdown, "no-markdown", false, "print markdown bodies as plain text")

	return cmd
}
