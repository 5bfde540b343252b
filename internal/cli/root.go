package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"dayplanner/internal/calendar"
	"dayplanner/internal/config"
	"dayplanner/internal/format"
	"dayplanner/internal/logging"
	"dayplanner/internal/model"
	"dayplanner/internal/planner"
	"dayplanner/internal/store"
	"dayplanner/internal/tui"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type App struct {
	Dir        string
	ConfigPath string
	PrettyJSON bool
	Format     string
	Ephemeral  bool

	// Now is the clock used for "today"; tests pin it.
	Now func() time.Time

	cfg      config.Config
	log      *zap.Logger
	closeLog func()
	records  store.Records
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(&App{})
}

func newRootCmd(app *App) *cobra.Command {
	if app.Now == nil {
		app.Now = time.Now
	}

	cmd := &cobra.Command{
		Use:          "dayplanner",
		Short:        "Personal day planner (events + tasks) with a terminal UI",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive planner
  dayplanner

  # Scriptable commands
  dayplanner agenda 2026-01-01
  dayplanner add-event --date 2026-01-01 --time 09:00 --title Standup
  dayplanner month 2026-02 --format json
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(app)
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.setup()
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		app.teardown()
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", "", "Data directory (overrides data.dir)")
	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", "", "Config file (default: $XDG_CONFIG_HOME/dayplanner/config.yaml)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("DAYPLANNER_FORMAT", "text"), "Output format (text|json|yaml)")
	cmd.PersistentFlags().BoolVar(&app.Ephemeral, "ephemeral", false, "Keep data in memory only (nothing is written)")

	cmd.AddCommand(newAgendaCmd(app))
	cmd.AddCommand(newTasksCmd(app))
	cmd.AddCommand(newMonthCmd(app))
	cmd.AddCommand(newAddEventCmd(app))
	cmd.AddCommand(newAddTaskCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newImportCmd(app))
	cmd.AddCommand(newPublishCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newDoctorCmd(app))

	return cmd
}

// setup resolves config, data dir, logger and records backend, in that order.
func (app *App) setup() error {
	cfg, err := config.Load(app.ConfigPath)
	if err != nil {
		return err
	}
	app.cfg = cfg

	if strings.TrimSpace(app.Dir) == "" {
		app.Dir = strings.TrimSpace(cfg.Data.Dir)
	}
	if app.Dir == "" {
		d, err := store.DefaultDir()
		if err != nil {
			return fmt.Errorf("resolve data dir: %w", err)
		}
		app.Dir = d
	}

	logFile := cfg.LogFile(app.Dir)
	if app.Ephemeral && strings.TrimSpace(cfg.Log.File) == "" {
		logFile = ""
	}
	log, closeLog, err := logging.New(logging.Options{Level: cfg.Log.Level, File: logFile})
	if err != nil {
		return err
	}
	app.log = log
	app.closeLog = closeLog

	if app.Ephemeral {
		app.records = store.NewMemRecords()
	} else {
		app.records = store.NewSQLiteRecords(app.Dir)
	}
	return nil
}

func (app *App) teardown() {
	if app.closeLog != nil {
		app.closeLog()
	}
}

func (app *App) logger() *zap.Logger {
	if app.log == nil {
		return zap.NewNop()
	}
	return app.log
}

func (app *App) today() calendar.Date {
	return calendar.FromTime(app.Now())
}

// dataStore is the on-disk data dir; ephemeral runs get a zero Store, which
// skips both ui_state.json and the session lock.
func (app *App) dataStore() store.Store {
	if app.Ephemeral {
		return store.Store{}
	}
	return store.Store{Dir: app.Dir}
}

// openPlanner takes the session lock, then loads the snapshot and wraps it in
// a planner positioned on start. Call release after the final Flush. A held
// lock comes back as *store.LockedError.
func (app *App) openPlanner(start calendar.Date) (pl *planner.App, release func(), err error) {
	lock, err := app.dataStore().AcquireSessionLock()
	if err != nil {
		return nil, nil, err
	}
	snap := store.Load(bg(), app.records)
	pl = planner.New(start, snap, store.Persister{Records: app.records}, app.logger().Named("planner"))
	return pl, func() {
		if err := lock.Release(); err != nil {
			app.logger().Warn("release session lock failed", zap.Error(err))
		}
	}, nil
}

func (app *App) loadSnapshot() model.Snapshot {
	return store.Load(bg(), app.records)
}

// startDate picks the TUI's first day: ui.start_date, then the remembered
// day (ui.restore_last_date), then today.
func (app *App) startDate() calendar.Date {
	if s := strings.TrimSpace(app.cfg.UI.StartDate); s != "" {
		if d, err := calendar.ParseDate(s); err == nil {
			return d
		}
	}
	if st := app.rememberedUIState(); st != nil && st.LastDate != "" {
		if d, err := calendar.ParseDate(st.LastDate); err == nil {
			return d
		}
	}
	return app.today()
}

// startView is the remembered view under ui.restore_last_date, else the day view.
func (app *App) startView() planner.State {
	if st := app.rememberedUIState(); st != nil {
		if s, ok := planner.ParseView(st.LastView); ok {
			return s
		}
	}
	return planner.StateDayView
}

func (app *App) rememberedUIState() *store.UIState {
	if !app.cfg.UI.RestoreLastDate {
		return nil
	}
	st, err := app.dataStore().LoadUIState()
	if err != nil {
		app.logger().Debug("load ui state failed", zap.Error(err))
		return nil
	}
	return st
}

// runTUI holds the session lock for the whole session so CLI writes can't
// interleave with the TUI's snapshot saves.
func runTUI(app *App) error {
	lock, err := app.dataStore().AcquireSessionLock()
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			app.logger().Warn("release session lock failed", zap.Error(err))
		}
	}()

	snap := app.loadSnapshot()
	return tui.Run(tui.Options{
		Start:     app.startDate(),
		StartView: app.startView(),
		Snapshot:  snap,
		Persister: store.Persister{Records: app.records},
		UIStore:   app.dataStore(),
		ASCII:     app.cfg.UI.ASCII,
		Logger:    app.logger(),
	})
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
