package models

import "time"

// DateLayout is the canonical calendar date format used for event dates and availability.
const DateLayout = "2006-01-02"

// DateOf truncates t to midnight UTC of its calendar date in t's location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
