package cli

import (
	"context"
	"strings"

	"dayplanner/internal/calendar"
	"dayplanner/internal/model"

	"github.com/spf13/cobra"
)

func bg() context.Context { return context.Background() }

func newAgendaCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "agenda [YYYY-MM-DD]",
		Aliases: []string{"day"},
		Short:   "List events for a day (default today)",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := app.dateArg(args)
			if err != nil {
				return writeErr(cmd, err)
			}
			snap := app.loadSnapshot()

			out := agendaOut{
				Date:         date.String(),
				Weekday:      date.WeekdayName(),
				Events:       []eventOut{},
				PendingTasks: model.PendingTaskCount(snap.Tasks),
			}
			for _, e := range model.EventsForDate(snap.Events, date) {
				out.Events = append(out.Events, toEventOut(e))
			}
			return writeOut(cmd, app, envelope{
				Data: out,
				Meta: map[string]any{"count": len(out.Events)},
			})
		},
	}
}

func newTasksCmd(app *App) *cobra.Command {
	var pendingOnly bool

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List tasks (pending first, then by priority)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap := app.loadSnapshot()
			tasks := append([]model.Task{}, snap.Tasks...)
			model.SortTasks(tasks)

			out := tasksOut{Tasks: []taskOut{}, Pending: model.PendingTaskCount(tasks)}
			for _, t := range tasks {
				if pendingOnly && t.Done {
					continue
				}
				out.Tasks = append(out.Tasks, taskOut{ID: t.ID, Title: t.Title, Done: t.Done, Priority: t.Priority})
			}
			return writeOut(cmd, app, envelope{
				Data: out,
				Meta: map[string]any{"count": len(out.Tasks)},
			})
		},
	}

	cmd.Flags().BoolVar(&pendingOnly, "pending", false, "Only list tasks that are not done")
	return cmd
}

func newMonthCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "month [YYYY-MM]",
		Short: "Show a month grid with the days that have events",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			today := app.today()
			year, month := today.Year, today.Month
			if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
				y, m, err := calendar.ParseMonth(args[0])
				if err != nil {
					return writeErr(cmd, err)
				}
				year, month = y, m
			}
			snap := app.loadSnapshot()

			out := monthOut{
				Year:  year,
				Month: month,
				Name:  calendar.MonthName(month),
				Weeks: calendar.MonthGrid(year, month),
				Days:  []monthDay{},
			}
			total := 0
			for day := uint8(1); day <= calendar.DaysInMonth(year, month); day++ {
				d := calendar.NewDate(year, month, day)
				if n := model.EventCountFor(snap.Events, d); n > 0 {
					out.Days = append(out.Days, monthDay{Date: d.String(), Events: n})
					total += n
				}
			}
			return writeOut(cmd, app, envelope{
				Data: out,
				Meta: map[string]any{"events": total},
			})
		},
	}
}
