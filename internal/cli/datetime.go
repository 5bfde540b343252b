package cli

import (
	"regexp"
	"strconv"
	"strings"

	"dayplanner/internal/calendar"
	"dayplanner/internal/model"
)

var reClock = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// parseClock parses HH:MM (24h). An empty string means all-day.
func parseClock(s string) (*model.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	m := reClock.FindStringSubmatch(s)
	if m == nil {
		return nil, errInvalidInput("time", s, "want HH:MM")
	}
	h, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	if h > 23 || mm > 59 {
		return nil, errInvalidInput("time", s, "out of range")
	}
	t := model.NewTime(uint8(h), uint8(mm))
	return &t, nil
}

// dateArg parses an optional YYYY-MM-DD argument, falling back to today.
func (app *App) dateArg(args []string) (calendar.Date, error) {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return app.today(), nil
	}
	d, err := calendar.ParseDate(args[0])
	if err != nil {
		return calendar.Date{}, err
	}
	return d, nil
}

func parsePriorityFlag(s string) (model.Priority, error) {
	p, err := model.ParsePriority(s)
	if err != nil {
		return p, errInvalidInput("priority", s, "want low|normal|high")
	}
	return p, nil
}
