package tui

import (
	"fmt"

	"dayplanner/internal/calendar"
	"dayplanner/internal/model"
	"dayplanner/internal/planner"
	"dayplanner/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

type Options struct {
	Start calendar.Date
	// StartView is the view shown first: day, tasks or month.
	StartView planner.State
	Snapshot  model.Snapshot
	Persister planner.Persister
	// UIStore receives the last viewed date and view on exit. A zero Store skips it.
	UIStore store.Store
	ASCII   bool
	Logger  *zap.Logger
}

// Run starts the interactive planner and blocks until the user quits.
// State is flushed on every exit path.
func Run(opts Options) error {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	applyColorProfilePreference(opts.ASCII)
	applyThemePreference()
	if opts.ASCII {
		setGlyphs(glyphSetASCII)
	}

	app := planner.New(opts.Start, opts.Snapshot, opts.Persister, log.Named("planner"))
	app.OpenView(opts.StartView)
	m := newAppModel(app, log.Named("tui"))
	log.Info("tui start",
		zap.Stringer("date", opts.Start),
		zap.Stringer("view", app.State()),
		zap.Int("events", len(opts.Snapshot.Events)),
		zap.Int("tasks", len(opts.Snapshot.Tasks)),
	)

	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		// The program died without a quit message; still try to persist.
		if ferr := app.Flush(); ferr != nil {
			log.Warn("flush after program error failed", zap.Error(ferr))
		}
		return fmt.Errorf("run tui: %w", err)
	}

	if err := opts.UIStore.SaveUIState(&store.UIState{LastDate: app.CurrentDate().String(), LastView: lastView(app.State())}); err != nil {
		log.Warn("save ui state failed", zap.Error(err))
	}

	if fm, ok := final.(appModel); ok && fm.flushErr != nil {
		return fmt.Errorf("save planner data: %w", fm.flushErr)
	}
	return nil
}

func lastView(s planner.State) string {
	switch s {
	case planner.StateTaskList:
		return "tasks"
	case planner.StateMonthView:
		return "month"
	default:
		return "day"
	}
}
