package publish

import (
	"bytes"
	"fmt"
	"strings"

	"dayplanner/internal/calendar"
	"dayplanner/internal/model"
)

type RenderOptions struct {
	// IncludeDone keeps finished tasks in the task page.
	IncludeDone bool
}

// RenderDayMarkdown renders one day's agenda.
func RenderDayMarkdown(snap model.Snapshot, date calendar.Date) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# " + date.WeekdayName() + " " + date.String())
	writeLn("")

	events := model.EventsForDate(snap.Events, date)
	if len(events) == 0 {
		writeLn("_No events._")
		return buf.String()
	}
	for _, e := range events {
		writeLn(eventLine(e))
	}
	return buf.String()
}

func eventLine(e model.Event) string {
	title := escapeInline(e.Title)
	if e.Priority == model.PriorityHigh {
		title = "**" + title + "**"
	}
	line := fmt.Sprintf("- %s %s", e.TimeDisplay(), title)
	if e.Priority == model.PriorityLow {
		line += " _(low)_"
	}
	return line
}

// RenderIndexMarkdown lists each published day with its event count.
func RenderIndexMarkdown(snap model.Snapshot, days []calendar.Date, withTasks bool) string {
	return renderIndex(snap, days, withTasks, ".md")
}

// renderIndex links pages with the given extension (".md" or ".html").
func renderIndex(snap model.Snapshot, days []calendar.Date, withTasks bool, ext string) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	if len(days) == 0 {
		writeLn("# Agenda")
		return buf.String()
	}
	first, last := days[0], days[len(days)-1]
	if first == last {
		writeLn("# Agenda " + first.String())
	} else {
		writeLn("# Agenda " + first.String() + " to " + last.String())
	}
	writeLn("")
	for _, d := range days {
		n := model.EventCountFor(snap.Events, d)
		label := "events"
		if n == 1 {
			label = "event"
		}
		writeLn(fmt.Sprintf("- [%s %s](days/%s%s) (%d %s)", d.WeekdayName(), d.String(), d.String(), ext, n, label))
	}
	if withTasks {
		writeLn("")
		writeLn(fmt.Sprintf("[Tasks](tasks%s) (%d pending)", ext, model.PendingTaskCount(snap.Tasks)))
	}
	return buf.String()
}

// RenderTasksMarkdown renders the task list as a GitHub-style checklist.
func RenderTasksMarkdown(snap model.Snapshot, opt RenderOptions) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# Tasks")
	writeLn("")

	tasks := append([]model.Task{}, snap.Tasks...)
	model.SortTasks(tasks)
	n := 0
	for _, t := range tasks {
		if t.Done && !opt.IncludeDone {
			continue
		}
		box := "[ ]"
		if t.Done {
			box = "[x]"
		}
		title := escapeInline(t.Title)
		if t.Priority == model.PriorityHigh && !t.Done {
			title = "**" + title + "**"
		}
		writeLn("- " + box + " " + title)
		n++
	}
	if n == 0 {
		writeLn("_Nothing to do._")
	}
	return buf.String()
}

// escapeInline keeps user titles from turning into markdown structure.
func escapeInline(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		"*", `\*`,
		"_", `\_`,
		"`", "\\`",
		"[", `\[`,
		"]", `\]`,
	)
	return r.Replace(strings.TrimSpace(s))
}
