package common

import (
	"errors"
	"time"
)

const (
	// SimpleTimeFormat a common, but non-implicit time format
	SimpleTimeFormat = "2006-01-02 15:04:05"
)

var (
	// ErrNilPointer is a common error response to highlight that a nil was
	// passed in when it should not have been
	ErrNilPointer = errors.New("nil pointer")
	// ErrNilArguments is a common error response to highlight that nils were
	// passed in when they should not have been
	ErrNilArguments = errors.New("received nil argument(s)")
)

// MinutesPerYear is used when annualising minute resolution returns
const MinutesPerYear = 365.25 * 24 * 60

// TimesEqual reports whether two sorted timestamp slices hold the same
// count and the same values
func TimesEqual(a, b []time.Time) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
