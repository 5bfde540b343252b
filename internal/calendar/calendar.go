package calendar

import "math"

// IsLeapYear applies the Gregorian rule (every 4th year, except centuries not divisible by 400).
func IsLeapYear(year uint16) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

// DaysInMonth returns 28..31. Months outside 1..12 report 30.
func DaysInMonth(year uint16, month uint8) uint8 {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	default:
		return 30
	}
}

// NextDay and PrevDay stop at the ends of the representable range
// (0000-01-01 and 65535-12-31) instead of wrapping.
func NextDay(d Date) Date {
	if d.Day < DaysInMonth(d.Year, d.Month) {
		return Date{Year: d.Year, Month: d.Month, Day: d.Day + 1}
	}
	if d.Month < 12 {
		return Date{Year: d.Year, Month: d.Month + 1, Day: 1}
	}
	if d.Year == math.MaxUint16 {
		return d
	}
	return Date{Year: d.Year + 1, Month: 1, Day: 1}
}

func PrevDay(d Date) Date {
	if d.Day > 1 {
		return Date{Year: d.Year, Month: d.Month, Day: d.Day - 1}
	}
	if d.Month > 1 {
		m := d.Month - 1
		return Date{Year: d.Year, Month: m, Day: DaysInMonth(d.Year, m)}
	}
	if d.Year == 0 {
		return d
	}
	return Date{Year: d.Year - 1, Month: 12, Day: 31}
}

// sakamotoOffsets is indexed by month-1.
var sakamotoOffsets = [12]int{0, 3, 2, 5, 0, 3, 5, 1, 4, 6, 2, 4}

// DayOfWeek returns 0 (Sunday) through 6 (Saturday) using Sakamoto's method.
// d must be valid.
func DayOfWeek(d Date) uint8 {
	y := int(d.Year)
	if d.Month < 3 {
		y--
	}
	idx := int(d.Month) - 1
	if idx < 0 || idx > 11 {
		idx = 0
	}
	dow := (y + y/4 - y/100 + y/400 + sakamotoOffsets[idx] + int(d.Day)) % 7
	if dow < 0 {
		dow += 7
	}
	return uint8(dow)
}

// FirstWeekdayOfMonth is the weekday (0 = Sunday) of day 1; month grids start here.
func FirstWeekdayOfMonth(year uint16, month uint8) uint8 {
	return DayOfWeek(Date{Year: year, Month: month, Day: 1})
}

// PrevMonth and NextMonth saturate at January of year 0 and December of 65535.
func PrevMonth(year uint16, month uint8) (uint16, uint8) {
	if month > 1 {
		return year, month - 1
	}
	if year == 0 {
		return 0, 1
	}
	return year - 1, 12
}

func NextMonth(year uint16, month uint8) (uint16, uint8) {
	if month < 12 {
		return year, month + 1
	}
	if year == math.MaxUint16 {
		return year, 12
	}
	return year + 1, 1
}

var weekdayNames = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

var monthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// WeekdayName maps 0..6 (Sunday first) to a three-letter name.
func WeekdayName(w uint8) string {
	if int(w) >= len(weekdayNames) {
		return "???"
	}
	return weekdayNames[w]
}

// MonthName maps 1..12 to the English month name.
func MonthName(month uint8) string {
	if month < 1 || month > 12 {
		return "???"
	}
	return monthNames[month-1]
}

// MonthGrid lays out a month as Sunday-first weeks. Cells outside the month are 0.
func MonthGrid(year uint16, month uint8) [][7]uint8 {
	dim := DaysInMonth(year, month)
	col := int(FirstWeekdayOfMonth(year, month))
	var weeks [][7]uint8
	var week [7]uint8
	for day := uint8(1); day <= dim; day++ {
		week[col] = day
		col++
		if col == 7 {
			weeks = append(weeks, week)
			week = [7]uint8{}
			col = 0
		}
	}
	if col > 0 {
		weeks = append(weeks, week)
	}
	return weeks
}
