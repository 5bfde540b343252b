// Package ics converts planner events to and from iCalendar (RFC 5545).
//
// Times are floating: the planner has no time zones, so exported DTSTART
// values carry no TZID or Z suffix, and imported values keep the wall-clock
// digits as written.
package ics

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"dayplanner/internal/calendar"
	"dayplanner/internal/model"
)

const productID = "-//dayplanner//Day Planner//EN"

// Export writes events as a PUBLISH calendar. now stamps DTSTAMP.
func Export(w io.Writer, events []model.Event, now time.Time) error {
	cal := ical.NewCalendar()
	cal.SetProductId(productID)
	cal.SetMethod(ical.MethodPublish)

	sorted := model.CloneEvents(events)
	model.SortEventsByDate(sorted)
	for _, e := range sorted {
		ve := cal.AddEvent(uid(e.ID))
		ve.SetDtStampTime(now)
		ve.SetSummary(e.Title)
		if e.Time == nil {
			ve.SetAllDayStartAt(dateTime(e.Date, 0, 0))
		} else {
			ve.SetProperty(ical.ComponentPropertyDtStart,
				fmt.Sprintf("%04d%02d%02dT%02d%02d00", e.Date.Year, e.Date.Month, e.Date.Day, e.Time.Hour, e.Time.Minute))
		}
		ve.SetPriority(priorityToICS(e.Priority))
	}
	return cal.SerializeTo(w)
}

// Stats describes what Import did with each VEVENT.
type Stats struct {
	Imported int `json:"imported"`
	// Skipped counts VEVENTs without a usable DTSTART or SUMMARY.
	Skipped int `json:"skipped"`
	// Recurring counts events carrying an RRULE; only their first occurrence is kept.
	Recurring int `json:"recurring"`
}

// Import parses a calendar into planner events. Returned events have ID 0;
// the caller assigns ids from its own sequence.
func Import(r io.Reader) ([]model.Event, Stats, error) {
	var stats Stats
	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, stats, fmt.Errorf("parse ics: %w", err)
	}

	out := make([]model.Event, 0)
	for _, ve := range cal.Events() {
		ev, err := parseVEvent(ve)
		if err != nil {
			stats.Skipped++
			continue
		}
		if ve.GetProperty(ical.ComponentPropertyRrule) != nil {
			stats.Recurring++
		}
		out = append(out, ev)
	}
	stats.Imported = len(out)
	return out, stats, nil
}

func parseVEvent(ve *ical.VEvent) (model.Event, error) {
	var ev model.Event

	summary := ve.GetProperty(ical.ComponentPropertySummary)
	if summary == nil || strings.TrimSpace(summary.Value) == "" {
		return ev, errors.New("missing SUMMARY")
	}
	start := ve.GetProperty(ical.ComponentPropertyDtStart)
	if start == nil {
		return ev, errors.New("missing DTSTART")
	}
	date, tm, err := parseStart(start.Value)
	if err != nil {
		return ev, err
	}
	if params := start.ICalParameters; params != nil {
		if vs, ok := params["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
			tm = nil
		}
	}

	ev = model.NewEvent(0, date, model.TruncateTitle(strings.TrimSpace(summary.Value), model.MaxEventTitleLen))
	ev.Time = tm
	if p := ve.GetProperty(ical.ComponentPropertyPriority); p != nil {
		if n, err := strconv.Atoi(strings.TrimSpace(p.Value)); err == nil {
			ev.Priority = priorityFromICS(n)
		}
	}
	return ev, nil
}

// parseStart accepts YYYYMMDD and YYYYMMDDTHHMMSS with an optional Z.
// Out-of-range components are clamped.
func parseStart(v string) (calendar.Date, *model.Time, error) {
	v = strings.TrimSuffix(strings.TrimSpace(v), "Z")
	datePart, timePart, hasTime := strings.Cut(v, "T")
	if len(datePart) != 8 {
		return calendar.Date{}, nil, fmt.Errorf("invalid DTSTART %q", v)
	}
	y, err1 := strconv.Atoi(datePart[0:4])
	m, err2 := strconv.Atoi(datePart[4:6])
	d, err3 := strconv.Atoi(datePart[6:8])
	if err := errors.Join(err1, err2, err3); err != nil {
		return calendar.Date{}, nil, fmt.Errorf("invalid DTSTART %q: %w", v, err)
	}
	date := calendar.ClampDate(y, m, d)
	if !hasTime {
		return date, nil, nil
	}
	if len(timePart) < 4 {
		return calendar.Date{}, nil, fmt.Errorf("invalid DTSTART time %q", v)
	}
	hh, err1 := strconv.Atoi(timePart[0:2])
	mm, err2 := strconv.Atoi(timePart[2:4])
	if err := errors.Join(err1, err2); err != nil || hh < 0 || mm < 0 {
		return calendar.Date{}, nil, fmt.Errorf("invalid DTSTART time %q", v)
	}
	t := model.NewTime(uint8(min(hh, 23)), uint8(min(mm, 59)))
	return date, &t, nil
}

func uid(id uint32) string {
	return "event-" + strconv.FormatUint(uint64(id), 10) + "@dayplanner"
}

func dateTime(d calendar.Date, hour, minute int) time.Time {
	return time.Date(int(d.Year), time.Month(d.Month), int(d.Day), hour, minute, 0, 0, time.UTC)
}

// RFC 5545 PRIORITY: 1 highest, 9 lowest, 0 undefined.
func priorityToICS(p model.Priority) int {
	switch p {
	case model.PriorityHigh:
		return 1
	case model.PriorityLow:
		return 9
	default:
		return 5
	}
}

func priorityFromICS(n int) model.Priority {
	switch {
	case n >= 1 && n <= 4:
		return model.PriorityHigh
	case n >= 6 && n <= 9:
		return model.PriorityLow
	default:
		return model.PriorityNormal
	}
}
