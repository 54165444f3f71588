package progress

import "time"

// DateLayout formats a calendar day, e.g. "Mon Oct 19 2026".
const DateLayout = "Mon Jan 02 2006"

// DateString returns the local calendar day of t.
func DateString(t time.Time) string {
	return t.Local().Format(DateLayout)
}

// ShouldReset reports whether a streak last credited on last is broken as of
// today. Only today and yesterday keep a streak alive; an empty last never
// resets.
func ShouldReset(last string, today time.Time) bool {
	if last == "" {
		return false
	}
	yesterday := today.Local().AddDate(0, 0, -1)
	return last != DateString(today) && last != DateString(yesterday)
}

// Evaluate returns rec with the streak zeroed when it is broken as of today.
// The record itself is not written anywhere.
func Evaluate(rec Record, today time.Time) Record {
	if ShouldReset(rec.LastCompletedDate, today) {
		rec.StreakCount = 0
	}
	return rec
}
