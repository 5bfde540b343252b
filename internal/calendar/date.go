package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Date is a calendar day in the proleptic Gregorian calendar.
//
// NewDate does not validate its inputs. Only derive dates from NextDay/PrevDay,
// month-view clamping, or ClampDate (for anything that came from outside the process).
type Date struct {
	Year  uint16 `json:"year"`
	Month uint8  `json:"month"`
	Day   uint8  `json:"day"`
}

func NewDate(year uint16, month, day uint8) Date {
	return Date{Year: year, Month: month, Day: day}
}

// ClampDate builds a valid date from untrusted components.
// Month is clamped into 1..12 and day into 1..DaysInMonth.
func ClampDate(year, month, day int) Date {
	if year < 0 {
		year = 0
	}
	if year > 0xFFFF {
		year = 0xFFFF
	}
	if month < 1 {
		month = 1
	}
	if month > 12 {
		month = 12
	}
	y := uint16(year)
	m := uint8(month)
	max := int(DaysInMonth(y, m))
	if day < 1 {
		day = 1
	}
	if day > max {
		day = max
	}
	return Date{Year: y, Month: m, Day: uint8(day)}
}

// Valid reports whether the date names a real calendar day.
func (d Date) Valid() bool {
	if d.Month < 1 || d.Month > 12 {
		return false
	}
	return d.Day >= 1 && d.Day <= DaysInMonth(d.Year, d.Month)
}

// Compare orders dates by (year, month, day). It returns -1, 0 or +1.
func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return cmp3(int(d.Year), int(o.Year))
	case d.Month != o.Month:
		return cmp3(int(d.Month), int(o.Month))
	default:
		return cmp3(int(d.Day), int(o.Day))
	}
}

func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }

func (d Date) After(o Date) bool { return d.Compare(o) > 0 }

func cmp3(a, b int) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

// String renders YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Short renders MM/DD.
func (d Date) Short() string {
	return fmt.Sprintf("%02d/%02d", d.Month, d.Day)
}

func (d Date) Weekday() uint8 { return DayOfWeek(d) }

func (d Date) WeekdayName() string { return WeekdayName(DayOfWeek(d)) }

// FromTime takes the local calendar day of t.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return ClampDate(y, int(m), d)
}

// ParseDate parses YYYY-MM-DD. Out-of-range month/day values are clamped
// (2026-02-31 becomes 2026-02-28); malformed text is an error.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return Date{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	y, err := strconv.Atoi(parts[0])
	if err != nil {
		return Date{}, fmt.Errorf("invalid year in %q: %w", s, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return Date{}, fmt.Errorf("invalid month in %q: %w", s, err)
	}
	d, err := strconv.Atoi(parts[2])
	if err != nil {
		return Date{}, fmt.Errorf("invalid day in %q: %w", s, err)
	}
	return ClampDate(y, m, d), nil
}

// ParseMonth parses YYYY-MM.
func ParseMonth(s string) (uint16, uint8, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid month %q (want YYYY-MM)", s)
	}
	y, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid year in %q: %w", s, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month in %q: %w", s, err)
	}
	d := ClampDate(y, m, 1)
	return d.Year, d.Month, nil
}
