package utils

import (
	"fmt"
	"regexp"
	"time"
)

// DateLayout is the wire and storage format for calendar dates. Dates are
// timezone-neutral: a slot on "2025-01-06" is the same row no matter where
// it is read from.
const DateLayout = "2006-01-02"

var hhmmRe = regexp.MustCompile(`^([01]?\d|2[0-3]):([0-5]\d)$`)

// ParseHHMM converts a 24-hour "HH:MM" string to minutes of day.
func ParseHHMM(s string) (int, error) {
	m := hhmmRe.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	var h, min int
	fmt.Sscanf(m[1], "%d", &h)
	fmt.Sscanf(m[2], "%d", &min)
	return h*60 + min, nil
}

// FormatHHMM renders minutes of day as zero-padded "HH:MM".
func FormatHHMM(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// HourRange is a whole-hour [Start, End) window in minutes of day.
type HourRange struct {
	Start int
	End   int
}

// EnumerateHourly yields the whole-hour sub-slots of [startMin, endMin),
// stepping by 60 minutes. A trailing sub-hour remainder is discarded: a
// 09:00-10:30 range yields only 09:00-10:00. Sessions are booked in hourly
// units, so partial hours are never offered.
func EnumerateHourly(startMin, endMin int) []HourRange {
	var out []HourRange
	for s := startMin; s+60 <= endMin; s += 60 {
		out = append(out, HourRange{Start: s, End: s + 60})
	}
	return out
}

// ParseDate parses a "YYYY-MM-DD" calendar date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return d, nil
}

// EnumerateDates lists every calendar date from startDate to endDate
// inclusive, stepping a day at a time.
func EnumerateDates(startDate, endDate string) ([]string, error) {
	start, err := ParseDate(startDate)
	if err != nil {
		return nil, err
	}
	end, err := ParseDate(endDate)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("end date %s before start date %s", endDate, startDate)
	}
	var out []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, d.Format(DateLayout))
	}
	return out, nil
}

// Weekday returns the day of week for a calendar date, 0=Sunday through
// 6=Saturday.
func Weekday(date string) (int, error) {
	d, err := ParseDate(date)
	if err != nil {
		return 0, err
	}
	return int(d.Weekday()), nil
}
