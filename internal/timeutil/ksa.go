package timeutil

import (
	"time"
)

// KSA is the Saudi Arabia time zone (UTC+3, no DST)
var KSA *time.Location

func init() {
	var err error
	KSA, err = time.LoadLocation("Asia/Riyadh")
	if err != nil {
		// Fallback: create fixed zone if Asia/Riyadh not available
		KSA = time.FixedZone("AST", 3*60*60) // UTC+3
	}
}

// Now returns the current time in KSA
func Now() time.Time {
	return time.Now().In(KSA)
}

// ToKSA converts any time to KSA
func ToKSA(t time.Time) time.Time {
	return t.In(KSA)
}

// ParseInKSA parses a time string and returns it in KSA
func ParseInKSA(layout, value string) (time.Time, error) {
	t, err := time.ParseInLocation(layout, value, KSA)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// StartOfDay returns the start of day (00:00:00) in KSA for the given time
func StartOfDay(t time.Time) time.Time {
	k := t.In(KSA)
	return time.Date(k.Year(), k.Month(), k.Day(), 0, 0, 0, 0, KSA)
}

// Common layouts
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)
