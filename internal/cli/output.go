package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"dayplanner/internal/calendar"
	"dayplanner/internal/format"
	"dayplanner/internal/model"
)

// envelope is the {data, meta} shape every command writes. In text mode only
// the data is rendered.
type envelope struct {
	Data  any            `json:"data" yaml:"data"`
	Meta  map[string]any `json:"meta,omitempty" yaml:"meta,omitempty"`
	Hints []string       `json:"_hints,omitempty" yaml:"_hints,omitempty"`
}

func (e envelope) Text() string {
	if t, ok := e.Data.(format.Texter); ok {
		return t.Text()
	}
	b, err := json.MarshalIndent(e.Data, "", "  ")
	if err != nil {
		return fmt.Sprint(e.Data)
	}
	return string(b)
}

type eventOut struct {
	ID       uint32         `json:"id" yaml:"id"`
	Date     string         `json:"date" yaml:"date"`
	Time     string         `json:"time,omitempty" yaml:"time,omitempty"`
	AllDay   bool           `json:"allDay" yaml:"allDay"`
	Title    string         `json:"title" yaml:"title"`
	Priority model.Priority `json:"priority" yaml:"priority"`
}

func toEventOut(e model.Event) eventOut {
	out := eventOut{
		ID:       e.ID,
		Date:     e.Date.String(),
		AllDay:   e.AllDay(),
		Title:    e.Title,
		Priority: e.Priority,
	}
	if e.Time != nil {
		out.Time = e.Time.Clock()
	}
	return out
}

func (e eventOut) row() string {
	shown := "All day"
	if t, err := parseClock(e.Time); err == nil && t != nil {
		shown = t.Display()
	}
	return fmt.Sprintf("%-7s %s %s  #%d", shown, e.Priority.Marker(), e.Title, e.ID)
}

func (e eventOut) Text() string {
	return e.Date + "  " + e.row()
}

type taskOut struct {
	ID       uint32         `json:"id" yaml:"id"`
	Title    string         `json:"title" yaml:"title"`
	Done     bool           `json:"done" yaml:"done"`
	Priority model.Priority `json:"priority" yaml:"priority"`
}

func (t taskOut) row() string {
	return fmt.Sprintf("%s %s %s  #%d", model.Task{Done: t.Done}.Checkbox(), t.Priority.Marker(), t.Title, t.ID)
}

func (t taskOut) Text() string { return t.row() }

type agendaOut struct {
	Date         string     `json:"date" yaml:"date"`
	Weekday      string     `json:"weekday" yaml:"weekday"`
	Events       []eventOut `json:"events" yaml:"events"`
	PendingTasks int        `json:"pendingTasks" yaml:"pendingTasks"`
}

func (a agendaOut) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s   [%d pending tasks]\n", a.Weekday, a.Date, a.PendingTasks)
	if len(a.Events) == 0 {
		b.WriteString("No events.")
		return b.String()
	}
	for i, e := range a.Events {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(e.row())
	}
	return b.String()
}

type tasksOut struct {
	Tasks   []taskOut `json:"tasks" yaml:"tasks"`
	Pending int       `json:"pending" yaml:"pending"`
}

func (t tasksOut) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Tasks   [%d pending]\n", t.Pending)
	if len(t.Tasks) == 0 {
		b.WriteString("No tasks.")
		return b.String()
	}
	for i, task := range t.Tasks {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(task.row())
	}
	return b.String()
}

type monthDay struct {
	Date   string `json:"date" yaml:"date"`
	Events int    `json:"events" yaml:"events"`
}

type monthOut struct {
	Year  uint16     `json:"year" yaml:"year"`
	Month uint8      `json:"month" yaml:"month"`
	Name  string     `json:"name" yaml:"name"`
	Weeks [][7]uint8 `json:"weeks" yaml:"weeks"`
	// Days lists only days that have events.
	Days []monthDay `json:"days" yaml:"days"`
}

func (m monthOut) Text() string {
	busy := map[uint8]bool{}
	for _, d := range m.Days {
		if dd, err := calendar.ParseDate(d.Date); err == nil {
			busy[dd.Day] = true
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %d\n", m.Name, m.Year)
	for i := uint8(0); i < 7; i++ {
		b.WriteString(" " + calendar.WeekdayName(i)[:2] + " ")
	}
	for _, week := range m.Weeks {
		b.WriteByte('\n')
		for _, day := range week {
			if day == 0 {
				b.WriteString("    ")
				continue
			}
			mark := " "
			if busy[day] {
				mark = "*"
			}
			fmt.Fprintf(&b, " %2d%s", day, mark)
		}
	}
	return b.String()
}

type messageOut struct {
	Message string `json:"message" yaml:"message"`
}

func (m messageOut) Text() string { return m.Message }
