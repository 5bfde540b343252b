package ics

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"dayplanner/internal/calendar"
	"dayplanner/internal/model"
)

func TestExportImport_RoundTrip(t *testing.T) {
	nine := model.NewTime(9, 0)
	events := []model.Event{
		{ID: 4, Date: calendar.NewDate(2026, 1, 2), Title: "Holiday", Priority: model.PriorityHigh},
		{ID: 1, Date: calendar.NewDate(2026, 1, 1), Time: &nine, Title: "Standup", Priority: model.PriorityNormal},
		{ID: 2, Date: calendar.NewDate(2026, 1, 1), Title: "Focus day", Priority: model.PriorityLow},
	}

	var buf bytes.Buffer
	if err := Export(&buf, events, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("Export: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"PRODID:-//dayplanner//Day Planner//EN",
		"METHOD:PUBLISH",
		"UID:event-1@dayplanner",
		"DTSTART:20260101T090000",
		"DTSTART;VALUE=DATE:20260102",
		"PRIORITY:1",
		"PRIORITY:9",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in export:\n%s", want, out)
		}
	}
	// Exported in date order, all-day before timed within a day.
	if strings.Index(out, "Focus day") > strings.Index(out, "Standup") || strings.Index(out, "Standup") > strings.Index(out, "Holiday") {
		t.Fatalf("unexpected export order:\n%s", out)
	}

	got, stats, err := Import(strings.NewReader(out))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if stats.Imported != 3 || stats.Skipped != 0 || len(got) != 3 {
		t.Fatalf("unexpected stats %+v (%d events)", stats, len(got))
	}
	byTitle := map[string]model.Event{}
	for _, e := range got {
		if e.ID != 0 {
			t.Fatalf("imported events must not carry ids, got %d", e.ID)
		}
		byTitle[e.Title] = e
	}
	st := byTitle["Standup"]
	if st.Date != calendar.NewDate(2026, 1, 1) || st.Time == nil || st.Time.Hour != 9 || st.Priority != model.PriorityNormal {
		t.Fatalf("unexpected Standup: %+v", st)
	}
	h := byTitle["Holiday"]
	if h.Time != nil || h.Priority != model.PriorityHigh || h.Date != calendar.NewDate(2026, 1, 2) {
		t.Fatalf("unexpected Holiday: %+v", h)
	}
	if byTitle["Focus day"].Priority != model.PriorityLow {
		t.Fatalf("expected Low focus day")
	}
}

func TestImport_ForeignCalendar(t *testing.T) {
	src := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Example//EN",
		"BEGIN:VEVENT",
		"UID:a@example.com",
		"DTSTAMP:20260101T000000Z",
		"DTSTART:20260315T143000Z",
		"SUMMARY:Dentist",
		"RRULE:FREQ=YEARLY",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:b@example.com",
		"DTSTAMP:20260101T000000Z",
		"SUMMARY:No start",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:c@example.com",
		"DTSTAMP:20260101T000000Z",
		"DTSTART:20260231",
		"SUMMARY:" + strings.Repeat("L", 60),
		"PRIORITY:0",
		"END:VEVENT",
		"END:VCALENDAR",
		"",
	}, "\r\n")

	got, stats, err := Import(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if stats.Imported != 2 || stats.Skipped != 1 || stats.Recurring != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	d := got[0]
	if d.Title != "Dentist" || d.Time == nil || d.Time.Hour != 14 || d.Time.Minute != 30 {
		t.Fatalf("unexpected Dentist: %+v", d)
	}
	long := got[1]
	if long.Date != calendar.NewDate(2026, 2, 28) || long.Time != nil {
		t.Fatalf("expected clamped all-day date, got %+v", long)
	}
	if len(long.Title) != model.MaxEventTitleLen || long.Priority != model.PriorityNormal {
		t.Fatalf("expected truncated Normal title, got %+v", long)
	}
}

func TestParseStart_Invalid(t *testing.T) {
	for _, v := range []string{"", "2026-01-01", "2026010", "20260101T9", "2026AB01"} {
		if _, _, err := parseStart(v); err == nil {
			t.Fatalf("expected error for %q", v)
		}
	}
}

func TestPriorityMapping(t *testing.T) {
	cases := map[int]model.Priority{0: model.PriorityNormal, 1: model.PriorityHigh, 4: model.PriorityHigh, 5: model.PriorityNormal, 6: model.PriorityLow, 9: model.PriorityLow}
	for n, want := range cases {
		if got := priorityFromICS(n); got != want {
			t.Fatalf("priority %d: got %v want %v", n, got, want)
		}
	}
}
