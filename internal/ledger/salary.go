package ledger

import "time"

// Salary cycles come in two shapes. A config whose start date falls on
// the 1st stays aligned to calendar months; any other start date runs on
// fixed 30-day periods.

// NextCycleStart returns when the next pay cycle begins
func NextCycleStart(start time.Time) time.Time {
	if start.Day() == 1 {
		return time.Date(start.Year(), start.Month()+1, 1, 0, 0, 0, 0, start.Location())
	}
	return start.AddDate(0, 0, 30)
}

// CycleEnd is the last day of the cycle beginning at start
func CycleEnd(start time.Time) time.Time {
	return NextCycleStart(start).AddDate(0, 0, -1)
}

// SalaryDue reports whether the cycle beginning at start has elapsed
func SalaryDue(start, now time.Time) bool {
	return !now.Before(NextCycleStart(start))
}

// TerminationPayout pro-rates the final monthly payment of a stopped
// employee: a 30-day daily rate times the days worked in the open cycle,
// with a minimum of one day.
func TerminationPayout(monthlyAmount float64, cycleStart, now time.Time) float64 {
	days := int(now.Sub(cycleStart).Hours() / 24)
	if days < 1 {
		days = 1
	}
	return monthlyAmount / 30 * float64(days)
}
