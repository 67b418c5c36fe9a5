package domain

import "time"

// Day is the length of one scheduling interval unit.
const Day = 24 * time.Hour

// DateOf truncates t to midnight UTC of the same calendar day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the date that lies days calendar days after date(t).
func AddDays(t time.Time, days int) time.Time {
	return DateOf(t).AddDate(0, 0, days)
}

// IsDue reports whether a record scheduled for next is due on asOf.
func IsDue(next, asOf time.Time) bool {
	return !DateOf(next).After(DateOf(asOf))
}
