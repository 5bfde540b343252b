package tui

import (
	"dayplanner/internal/planner"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// translateKey maps one terminal key message onto planner keys. Pasted or
// buffered input arrives as several runes and yields one planner key per rune.
// quit is set for ctrl+c, which leaves the program from any view.
func translateKey(msg tea.KeyMsg) (keys []planner.Key, quit bool) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return nil, true
	case tea.KeyUp:
		return []planner.Key{planner.Special(planner.KeyUp)}, false
	case tea.KeyDown:
		return []planner.Key{planner.Special(planner.KeyDown)}, false
	case tea.KeyLeft:
		return []planner.Key{planner.Special(planner.KeyLeft)}, false
	case tea.KeyRight:
		return []planner.Key{planner.Special(planner.KeyRight)}, false
	case tea.KeyEnter:
		return []planner.Key{planner.Special(planner.KeyEnter)}, false
	case tea.KeyBackspace, tea.KeyCtrlH:
		return []planner.Key{planner.Special(planner.KeyBackspace)}, false
	case tea.KeyEsc:
		return []planner.Key{planner.Special(planner.KeyMenu)}, false
	case tea.KeySpace:
		return []planner.Key{planner.Rune(' ')}, false
	case tea.KeyRunes:
		if msg.Alt {
			return nil, false
		}
		out := make([]planner.Key, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			out = append(out, planner.Rune(r))
		}
		return out, false
	}
	return nil, false
}

// Footer hint bindings. These drive the help line only; dispatch goes through translateKey.
var (
	bindMove     = key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", "move"))
	bindDay      = key.NewBinding(key.WithKeys("left", "right"), key.WithHelp("←/→", "day"))
	bindAdd      = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	bindEdit     = key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit"))
	bindDelete   = key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	bindTasks    = key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "tasks"))
	bindMonth    = key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "month"))
	bindQuit     = key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "quit"))
	bindToggle   = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "done"))
	bindPriority = key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "priority"))
	bindBack     = key.NewBinding(key.WithKeys("esc", "left"), key.WithHelp("esc", "back"))
	bindField    = key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", "field"))
	bindAdjust   = key.NewBinding(key.WithKeys("left", "right"), key.WithHelp("←/→", "change"))
	bindAllDay   = key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "all-day"))
	bindSave     = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save"))
	bindCancel   = key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel"))
	bindConfirm  = key.NewBinding(key.WithKeys("y", "enter"), key.WithHelp("y", "delete"))
	bindKeep     = key.NewBinding(key.WithKeys("n"), key.WithHelp("any", "keep"))
	bindMonthNav = key.NewBinding(key.WithKeys("[", "]"), key.WithHelp("[/]", "month"))
	bindGrid     = key.NewBinding(key.WithKeys("up", "down", "left", "right"), key.WithHelp("arrows", "day"))
	bindOpen     = key.NewBinding(key.WithKeys("enter", "esc"), key.WithHelp("enter", "open"))
)

func helpBindings(s planner.State) []key.Binding {
	switch s {
	case planner.StateDayView:
		return []key.Binding{bindMove, bindDay, bindAdd, bindEdit, bindDelete, bindTasks, bindMonth, bindQuit}
	case planner.StateTaskList:
		return []key.Binding{bindMove, bindToggle, bindPriority, bindAdd, bindDelete, bindBack}
	case planner.StateAddEvent, planner.StateEditEvent:
		return []key.Binding{bindField, bindAdjust, bindAllDay, bindSave, bindCancel}
	case planner.StateAddTask:
		return []key.Binding{bindSave, bindCancel}
	case planner.StateConfirmDel:
		return []key.Binding{bindConfirm, bindKeep}
	case planner.StateMonthView:
		return []key.Binding{bindGrid, bindMonthNav, bindOpen}
	default:
		return nil
	}
}
