package shared

import "time"

// Clock abstracts the current time for audit stamping and date rules.
type Clock func() time.Time

// SystemClock returns the current UTC time.
func SystemClock() time.Time {
	return time.Now().UTC()
}
