package utils

import "time"

// BeginningOfDay truncates a timestamp to midnight in its own location.
// Simulated dates carry no intraday component.
func BeginningOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
