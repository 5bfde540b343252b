package tui

import (
	"fmt"
	"strings"

	"dayplanner/internal/calendar"
	"dayplanner/internal/model"
	"dayplanner/internal/planner"

	xansi "github.com/charmbracelet/x/ansi"
)

const defaultWidth = 80

func (m appModel) View() string {
	if m.quitting {
		return ""
	}
	defer m.app.ClearDirty()

	w := m.width
	if w <= 0 {
		w = defaultWidth
	}

	var header string
	var body []string
	switch m.app.State() {
	case planner.StateDayView:
		header, body = m.viewDay()
	case planner.StateTaskList:
		header, body = m.viewTasks()
	case planner.StateAddEvent, planner.StateEditEvent:
		header, body = m.viewEventForm()
	case planner.StateAddTask:
		header, body = m.viewAddTask()
	case planner.StateConfirmDel:
		header, body = m.viewConfirm()
	case planner.StateMonthView:
		header, body = m.viewMonth()
	}

	lines := make([]string, 0, len(body)+4)
	lines = append(lines, styleHeader().Render(header))
	lines = append(lines, styleMuted().Render(strings.Repeat(glyphSep(), min(w, 60))))
	lines = append(lines, body...)
	lines = append(lines, "", m.help.ShortHelpView(helpBindings(m.app.State())))

	for i, l := range lines {
		lines[i] = fit(l, w)
	}
	return strings.Join(lines, "\n")
}

// fit cuts a (possibly styled) line to the terminal width.
func fit(s string, width int) string {
	if width <= 0 || xansi.StringWidth(s) <= width {
		return s
	}
	return xansi.Truncate(s, width, "…")
}

func cursorPrefix(selected bool) string {
	if selected {
		return glyphCursor() + " "
	}
	return "  "
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}

func dayHeader(d calendar.Date) string {
	return d.WeekdayName() + " " + d.String()
}

func (m appModel) viewDay() (string, []string) {
	d := m.app.CurrentDate()
	header := fmt.Sprintf("%s   [%s]", dayHeader(d), plural(m.app.PendingTaskCount(), "task", "tasks"))

	agenda := m.app.Agenda()
	if len(agenda) == 0 {
		return header, []string{styleMuted().Render("No events. Press a to add one.")}
	}
	cur := m.app.DayCursor()
	rows := make([]string, 0, len(agenda))
	for i, ev := range agenda {
		rows = append(rows, renderEventRow(ev, i == cur))
	}
	return header, rows
}

func renderEventRow(ev model.Event, selected bool) string {
	line := fmt.Sprintf("%s%-7s %s %s", cursorPrefix(selected), ev.TimeDisplay(), ev.Priority.Marker(), ev.Title)
	switch {
	case selected:
		return styleSelected().Render(line)
	case ev.Priority == model.PriorityHigh:
		return styleHigh().Render(line)
	default:
		return line
	}
}

func (m appModel) viewTasks() (string, []string) {
	tasks := m.app.Tasks()
	header := fmt.Sprintf("Tasks   [%d pending]", m.app.PendingTaskCount())
	if len(tasks) == 0 {
		return header, []string{styleMuted().Render("No tasks. Press a to add one.")}
	}
	cur := m.app.TaskCursor()
	rows := make([]string, 0, len(tasks))
	for i, t := range tasks {
		line := fmt.Sprintf("%s%s %s %s", cursorPrefix(i == cur), t.Checkbox(), t.Priority.Marker(), t.Title)
		switch {
		case i == cur:
			line = styleSelected().Render(line)
		case t.Done:
			line = styleMuted().Render(line)
		case t.Priority == model.PriorityHigh:
			line = styleHigh().Render(line)
		}
		rows = append(rows, line)
	}
	return header, rows
}

func (m appModel) viewEventForm() (string, []string) {
	f := m.app.Form()
	verb := "New event"
	if m.app.State() == planner.StateEditEvent {
		verb = "Edit event"
	}
	header := verb + "   " + dayHeader(m.app.CurrentDate())

	hour, minute := "--", "--"
	if f.HasTime {
		hour = fmt.Sprintf("%02d", f.Hour)
		minute = fmt.Sprintf("%02d", f.Minute)
	}
	title := f.Title
	if f.Field == planner.FieldTitle {
		title += glyphCaret()
	}

	field := func(which planner.Field, label, value string) string {
		line := fmt.Sprintf("%s%-9s %s", cursorPrefix(f.Field == which), label, value)
		if f.Field == which {
			return styleSelected().Render(line)
		}
		return line
	}
	rows := []string{
		field(planner.FieldTitle, "Title:", title),
		field(planner.FieldHour, "Hour:", hour),
		field(planner.FieldMinute, "Minute:", minute),
		field(planner.FieldPriority, "Priority:", f.Priority.Label()),
		"",
		styleMuted().Render(fmt.Sprintf("%d/%d", len(f.Title), model.MaxEventTitleLen)),
	}
	if !f.HasTime {
		rows[len(rows)-1] += styleMuted().Render("   all day")
	}
	return header, rows
}

func (m appModel) viewAddTask() (string, []string) {
	in := m.app.TaskInput()
	return "New task", []string{
		cursorPrefix(true) + "Title: " + in + glyphCaret(),
		"",
		styleMuted().Render(fmt.Sprintf("%d/%d", len(in), model.MaxTaskTitleLen)),
	}
}

func (m appModel) viewConfirm() (string, []string) {
	prompt := "Delete this item? (y/n)"
	if target, ok := m.app.DeleteTarget(); ok {
		switch target.Kind {
		case planner.TargetEvent:
			if ev, ok := m.app.FindEvent(target.ID); ok {
				prompt = fmt.Sprintf("Delete event %q? (y/n)", ev.Title)
			}
		case planner.TargetTask:
			if t, ok := m.app.FindTask(target.ID); ok {
				prompt = fmt.Sprintf("Delete task %q? (y/n)", t.Title)
			}
		}
	}
	return "Confirm delete", []string{styleDanger().Render(prompt)}
}

func (m appModel) viewMonth() (string, []string) {
	cur := m.app.Month()
	header := fmt.Sprintf("%s %d", calendar.MonthName(cur.Month), cur.Year)

	var wd strings.Builder
	for i := uint8(0); i < 7; i++ {
		wd.WriteString(" " + calendar.WeekdayName(i)[:2] + " ")
	}
	rows := []string{styleMuted().Render(wd.String())}

	for _, week := range calendar.MonthGrid(cur.Year, cur.Month) {
		var b strings.Builder
		for _, day := range week {
			b.WriteString(m.monthCell(cur, day))
		}
		rows = append(rows, b.String())
	}

	sel := calendar.NewDate(cur.Year, cur.Month, cur.Day)
	rows = append(rows, "", styleMuted().Render(fmt.Sprintf("%s: %s", sel, plural(m.app.EventCountFor(sel), "event", "events"))))
	return header, rows
}

// monthCell renders one four-column grid cell: " 15•" for a day with events,
// "[15]" for the cursor day, blanks outside the month.
func (m appModel) monthCell(cur planner.MonthCursor, day uint8) string {
	if day == 0 {
		return "    "
	}
	if day == cur.Day {
		return styleSelected().Render(fmt.Sprintf("[%2d]", day))
	}
	mark := " "
	if m.app.EventCountFor(calendar.NewDate(cur.Year, cur.Month, day)) > 0 {
		mark = styleAccent().Render(glyphEventDot())
	}
	return fmt.Sprintf(" %2d", day) + mark
}
