package cli

import (
	"fmt"
	"strings"

	"dayplanner/internal/calendar"
	"dayplanner/internal/model"
	"dayplanner/internal/planner"

	"github.com/spf13/cobra"
)

// creationRefused explains why the planner created nothing.
func creationRefused(pl *planner.App, title string) error {
	if pl.IDsExhausted() {
		return fmt.Errorf("cannot create %q: %w", title, model.ErrIDsExhausted)
	}
	return errInvalidInput("title", title, "must not be empty")
}

func newAddEventCmd(app *App) *cobra.Command {
	var (
		date     string
		at       string
		priority string
		title    string
	)

	cmd := &cobra.Command{
		Use:   "add-event",
		Short: "Create an event (omit --time for an all-day event)",
		Example: strings.TrimSpace(`
  dayplanner add-event --title Standup --date 2026-01-01 --time 09:00
  dayplanner add-event --title "Trip" --priority high
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			title = strings.TrimSpace(title)
			if title == "" {
				return writeErr(cmd, errInvalidInput("title", title, "must not be empty"))
			}
			d := app.today()
			if strings.TrimSpace(date) != "" {
				parsed, err := calendar.ParseDate(date)
				if err != nil {
					return writeErr(cmd, errInvalidInput("date", date, err.Error()))
				}
				d = parsed
			}
			t, err := parseClock(at)
			if err != nil {
				return writeErr(cmd, err)
			}
			p, err := parsePriorityFlag(priority)
			if err != nil {
				return writeErr(cmd, err)
			}

			pl, release, err := app.openPlanner(d)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer release()
			ev, ok := pl.AddEvent(d, title, t, p)
			if !ok {
				return writeErr(cmd, creationRefused(pl, title))
			}
			if err := pl.Flush(); err != nil {
				return writeErr(cmd, fmt.Errorf("save event: %w", err))
			}
			return writeOut(cmd, app, envelope{
				Data:  toEventOut(ev),
				Meta:  map[string]any{"nextId": pl.NextID()},
				Hints: []string{"dayplanner agenda " + d.String()},
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Event title (truncated to 40 characters)")
	cmd.Flags().StringVar(&date, "date", "", "Date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&at, "time", "", "Time HH:MM, 24h (default all-day)")
	cmd.Flags().StringVar(&priority, "priority", "normal", "Priority (low|normal|high)")
	return cmd
}

func newAddTaskCmd(app *App) *cobra.Command {
	var (
		priority string
		title    string
	)

	cmd := &cobra.Command{
		Use:   "add-task",
		Short: "Create a task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			title = strings.TrimSpace(title)
			if title == "" {
				return writeErr(cmd, errInvalidInput("title", title, "must not be empty"))
			}
			p, err := parsePriorityFlag(priority)
			if err != nil {
				return writeErr(cmd, err)
			}

			pl, release, err := app.openPlanner(app.today())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer release()
			t, ok := pl.AddTask(title, p)
			if !ok {
				return writeErr(cmd, creationRefused(pl, title))
			}
			if err := pl.Flush(); err != nil {
				return writeErr(cmd, fmt.Errorf("save task: %w", err))
			}
			return writeOut(cmd, app, envelope{
				Data:  taskOut{ID: t.ID, Title: t.Title, Done: t.Done, Priority: t.Priority},
				Meta:  map[string]any{"nextId": pl.NextID()},
				Hints: []string{"dayplanner tasks"},
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Task title (truncated to 50 characters)")
	cmd.Flags().StringVar(&priority, "priority", "normal", "Priority (low|normal|high)")
	return cmd
}
