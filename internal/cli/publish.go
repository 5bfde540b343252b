package cli

import (
	"fmt"
	"strings"

	"dayplanner/internal/calendar"
	"dayplanner/internal/publish"

	"github.com/spf13/cobra"
)

type publishOut struct {
	publish.WriteResult `yaml:",inline"`

	From string `json:"from" yaml:"from"`
	Days int    `json:"days" yaml:"days"`
}

func (p publishOut) Text() string {
	return fmt.Sprintf("published %d files (%d days from %s)", len(p.Written), p.Days, p.From)
}

func newPublishCmd(app *App) *cobra.Command {
	var (
		from      string
		days      int
		to        string
		overwrite bool
		withTasks bool
		withDone  bool
		asHTML    bool
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Write the agenda as markdown files",
		Example: strings.TrimSpace(`
  dayplanner publish --to ./agenda --days 7 --tasks
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start := app.today()
			if strings.TrimSpace(from) != "" {
				d, err := calendar.ParseDate(from)
				if err != nil {
					return writeErr(cmd, errInvalidInput("from", from, err.Error()))
				}
				start = d
			}

			res, err := publish.WriteRange(app.loadSnapshot(), start, days, to, publish.WriteOptions{
				IncludeDone:  withDone,
				IncludeTasks: withTasks,
				Overwrite:    overwrite,
				HTML:         asHTML,
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope{
				Data: publishOut{WriteResult: res, From: start.String(), Days: days},
			})
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Output directory (required)")
	cmd.Flags().StringVar(&from, "from", "", "First day YYYY-MM-DD (default today)")
	cmd.Flags().IntVar(&days, "days", 7, "Number of days to publish")
	cmd.Flags().BoolVar(&withTasks, "tasks", false, "Also write tasks.md")
	cmd.Flags().BoolVar(&withDone, "include-done", false, "Keep finished tasks in tasks.md")
	cmd.Flags().BoolVar(&asHTML, "html", false, "Also write an HTML page next to each markdown page")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace existing files")
	return cmd
}
