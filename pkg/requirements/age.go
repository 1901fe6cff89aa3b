package requirements

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// AdultAge is the age at which an applicant stops being a minor.
const AdultAge = 18

// Date is a calendar date without time or zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf truncates t to its calendar date in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

func (d Date) String() string {
	return fmt.Sprintf("%02d/%02d/%04d", d.Day, int(d.Month), d.Year)
}

// ParseDate parses DD/MM/YYYY and rejects impossible calendar dates such as
// 31/02/2020.
func ParseDate(raw string) (Date, error) {
	parts := strings.Split(strings.TrimSpace(raw), "/")
	if len(parts) != 3 || len(parts[0]) != 2 || len(parts[1]) != 2 || len(parts[2]) != 4 {
		return Date{}, fmt.Errorf("requirements: %q is not DD/MM/YYYY", raw)
	}
	var nums [3]int
	for i, p := range parts {
		if !allDigits(p) {
			return Date{}, fmt.Errorf("requirements: %q is not DD/MM/YYYY", raw)
		}
		nums[i], _ = strconv.Atoi(p)
	}
	day, month, year := nums[0], nums[1], nums[2]
	if month < 1 || month > 12 || day < 1 || year < 1 {
		return Date{}, fmt.Errorf("requirements: %q is not a calendar date", raw)
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month {
		return Date{}, fmt.Errorf("requirements: %q is not a calendar date", raw)
	}
	return Date{Year: year, Month: time.Month(month), Day: day}, nil
}

// allDigits rejects the signs strconv.Atoi would accept.
func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// AgeOn returns the completed years between birth and today: the year
// difference, minus one when today's month/day precedes the birth month/day.
func AgeOn(birth, today Date) int {
	age := today.Year - birth.Year
	if today.Month < birth.Month || (today.Month == birth.Month && today.Day < birth.Day) {
		age--
	}
	return age
}

// IsMinor reports whether someone born on birth is younger than AdultAge on
// today.
func IsMinor(birth, today Date) bool {
	return AgeOn(birth, today) < AdultAge
}
