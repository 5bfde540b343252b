package model

import (
	"sort"

	"dayplanner/internal/calendar"
)

// lessEvent puts all-day events first, then timed events by minute of day.
func lessEvent(a, b Event) bool {
	if a.AllDay() != b.AllDay() {
		return a.AllDay()
	}
	if a.AllDay() {
		return false
	}
	return a.Time.MinuteOfDay() < b.Time.MinuteOfDay()
}

// SortEvents orders the whole collection in place (stable).
func SortEvents(events []Event) {
	sort.SliceStable(events, func(i, j int) bool { return lessEvent(events[i], events[j]) })
}

// SortEventsByDate orders by date, then agenda order within a day (stable).
func SortEventsByDate(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if c := events[i].Date.Compare(events[j].Date); c != 0 {
			return c < 0
		}
		return lessEvent(events[i], events[j])
	})
}

// EventsForDate returns a new slice with the agenda for date.
func EventsForDate(events []Event, date calendar.Date) []Event {
	out := make([]Event, 0, 4)
	for _, e := range events {
		if e.Date == date {
			out = append(out, e.Clone())
		}
	}
	SortEvents(out)
	return out
}

// SortTasks orders incomplete tasks before done ones, then High, Normal, Low.
// Call after every change to Done or Priority.
func SortTasks(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if a.Done != b.Done {
			return !a.Done
		}
		return a.Priority.Rank() < b.Priority.Rank()
	})
}

func EventCountFor(events []Event, date calendar.Date) int {
	n := 0
	for _, e := range events {
		if e.Date == date {
			n++
		}
	}
	return n
}

func PendingTaskCount(tasks []Task) int {
	n := 0
	for _, t := range tasks {
		if !t.Done {
			n++
		}
	}
	return n
}

// MaxID is the largest id in use across both collections (0 when empty).
func MaxID(events []Event, tasks []Task) uint32 {
	var max uint32
	for _, e := range events {
		if e.ID > max {
			max = e.ID
		}
	}
	for _, t := range tasks {
		if t.ID > max {
			max = t.ID
		}
	}
	return max
}

// SanitizeEvents repairs records that came from outside the process:
// dates are clamped to real days, times re-clamped and titles cut to length.
func SanitizeEvents(events []Event) []Event {
	out := make([]Event, 0, len(events))
	for _, e := range events {
		e.Date = calendar.ClampDate(int(e.Date.Year), int(e.Date.Month), int(e.Date.Day))
		if e.Time != nil {
			t := NewTime(e.Time.Hour, e.Time.Minute)
			e.Time = &t
		}
		e.Title = TruncateTitle(e.Title, MaxEventTitleLen)
		out = append(out, e)
	}
	return out
}

func SanitizeTasks(tasks []Task) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		t.Title = TruncateTitle(t.Title, MaxTaskTitleLen)
		out = append(out, t)
	}
	SortTasks(out)
	return out
}
