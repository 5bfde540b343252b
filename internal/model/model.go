package model

import (
	"encoding/json"
	"fmt"
	"strings"

	"dayplanner/internal/calendar"
)

const (
	MaxEventTitleLen = 40
	MaxTaskTitleLen  = 50
)

// Time is a wall-clock time of day (24h).
type Time struct {
	Hour   uint8 `json:"hour"`
	Minute uint8 `json:"minute"`
}

// NewTime caps hour at 23 and minute at 59 instead of rejecting.
func NewTime(hour, minute uint8) Time {
	if hour > 23 {
		hour = 23
	}
	if minute > 59 {
		minute = 59
	}
	return Time{Hour: hour, Minute: minute}
}

func (t Time) MinuteOfDay() int {
	return int(t.Hour)*60 + int(t.Minute)
}

// Display renders a 12-hour clock, e.g. "9:05AM", "12:00PM".
func (t Time) Display() string {
	h := t.Hour
	ampm := "AM"
	switch {
	case h == 0:
		h = 12
	case h == 12:
		ampm = "PM"
	case h > 12:
		h -= 12
		ampm = "PM"
	}
	return fmt.Sprintf("%d:%02d%s", h, t.Minute, ampm)
}

// Clock renders HH:MM (24h).
func (t Time) Clock() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

type Priority int

const (
	PriorityLow Priority = iota
	PriorityNormal
	PriorityHigh
)

// Cycle steps Low -> Normal -> High -> Low.
func (p Priority) Cycle() Priority {
	switch p {
	case PriorityLow:
		return PriorityNormal
	case PriorityNormal:
		return PriorityHigh
	default:
		return PriorityLow
	}
}

// Rank orders High first.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityNormal:
		return 1
	default:
		return 2
	}
}

func (p Priority) Marker() string {
	switch p {
	case PriorityHigh:
		return "!"
	case PriorityNormal:
		return "*"
	default:
		return " "
	}
}

func (p Priority) Label() string {
	switch p {
	case PriorityHigh:
		return "High"
	case PriorityNormal:
		return "Normal"
	default:
		return "Low"
	}
}

func (p Priority) String() string { return p.Label() }

func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "l":
		return PriorityLow, nil
	case "normal", "n", "":
		return PriorityNormal, nil
	case "high", "h":
		return PriorityHigh, nil
	default:
		return PriorityNormal, fmt.Errorf("unknown priority: %q (want low|normal|high)", s)
	}
}

func (p Priority) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Label())
}

func (p *Priority) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParsePriority(s)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

func (p Priority) MarshalYAML() (any, error) {
	return p.Label(), nil
}

// Event is a dated agenda entry. A nil Time means all-day.
type Event struct {
	ID       uint32        `json:"id" yaml:"id"`
	Date     calendar.Date `json:"date" yaml:"date"`
	Time     *Time         `json:"time" yaml:"time,omitempty"`
	Title    string        `json:"title" yaml:"title"`
	Priority Priority      `json:"priority" yaml:"priority"`
}

func NewEvent(id uint32, date calendar.Date, title string) Event {
	return Event{
		ID:       id,
		Date:     date,
		Title:    title,
		Priority: PriorityNormal,
	}
}

func (e Event) AllDay() bool { return e.Time == nil }

func (e Event) TimeDisplay() string {
	if e.Time == nil {
		return "All day"
	}
	return e.Time.Display()
}

type Task struct {
	ID       uint32   `json:"id" yaml:"id"`
	Title    string   `json:"title" yaml:"title"`
	Done     bool     `json:"done" yaml:"done"`
	Priority Priority `json:"priority" yaml:"priority"`
}

func NewTask(id uint32, title string) Task {
	return Task{ID: id, Title: title, Priority: PriorityNormal}
}

// Checkbox renders "[ ]" or "[x]".
func (t Task) Checkbox() string {
	if t.Done {
		return "[x]"
	}
	return "[ ]"
}

// TruncateTitle cuts s to at most n bytes. Titles are printable ASCII when typed,
// but imported titles may not be, so cut on a rune boundary.
func TruncateTitle(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := 0
	for i := range s {
		if i > n {
			break
		}
		cut = i
	}
	return s[:cut]
}

// Clone returns a copy that shares no memory with e.
func (e Event) Clone() Event {
	if e.Time != nil {
		t := *e.Time
		e.Time = &t
	}
	return e
}

func CloneEvents(events []Event) []Event {
	out := make([]Event, len(events))
	for i, e := range events {
		out[i] = e.Clone()
	}
	return out
}
