package tui

import (
	"dayplanner/internal/planner"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

type appModel struct {
	app *planner.App
	log *zap.Logger

	width  int
	height int

	help help.Model

	// flushErr is the result of the shutdown flush (ctrl+c or quit).
	flushErr error
	quitting bool
}

func newAppModel(app *planner.App, log *zap.Logger) appModel {
	if log == nil {
		log = zap.NewNop()
	}
	h := help.New()
	h.ShortSeparator = "  "
	h.Styles.ShortKey = styleAccent()
	h.Styles.ShortDesc = styleMuted()
	h.Styles.ShortSeparator = styleMuted()
	return appModel{app: app, log: log, help: h}
}

func (m appModel) Init() tea.Cmd {
	return nil
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		keys, quit := translateKey(msg)
		if quit {
			return m.quit("interrupt")
		}
		for _, k := range keys {
			if !m.app.HandleKey(k) {
				return m.quit("menu")
			}
		}
		return m, nil
	}
	return m, nil
}

func (m appModel) quit(reason string) (tea.Model, tea.Cmd) {
	m.quitting = true
	m.flushErr = m.app.Flush()
	if m.flushErr != nil {
		m.log.Warn("flush on quit failed", zap.String("reason", reason), zap.Error(m.flushErr))
	} else {
		m.log.Info("quit", zap.String("reason", reason))
	}
	return m, tea.Quit
}
