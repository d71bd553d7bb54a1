package ledger

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextCycleStartFirstOfMonthAligns(t *testing.T) {
	got := NextCycleStart(date(2025, time.March, 1))
	if !got.Equal(date(2025, time.April, 1)) {
		t.Fatalf("got %v, want 2025-04-01", got)
	}

	// December rolls into January of the next year
	got = NextCycleStart(date(2025, time.December, 1))
	if !got.Equal(date(2026, time.January, 1)) {
		t.Fatalf("got %v, want 2026-01-01", got)
	}
}

func TestNextCycleStartMidMonthIsThirtyDays(t *testing.T) {
	got := NextCycleStart(date(2025, time.March, 15))
	if !got.Equal(date(2025, time.April, 14)) {
		t.Fatalf("got %v, want 2025-04-14 (start + 30d)", got)
	}
}

func TestCycleEnd(t *testing.T) {
	got := CycleEnd(date(2025, time.March, 1))
	if !got.Equal(date(2025, time.March, 31)) {
		t.Fatalf("got %v, want 2025-03-31", got)
	}
}

func TestSalaryDue(t *testing.T) {
	start := date(2025, time.March, 1)
	if SalaryDue(start, date(2025, time.March, 31)) {
		t.Error("salary must not be due before the next cycle start")
	}
	if !SalaryDue(start, date(2025, time.April, 1)) {
		t.Error("salary must be due on the next cycle start")
	}
	if !SalaryDue(start, date(2025, time.April, 20)) {
		t.Error("salary must stay due after the cycle boundary")
	}
}

func TestTerminationPayoutProRates(t *testing.T) {
	start := date(2025, time.March, 1)
	got := TerminationPayout(3000, start, date(2025, time.March, 16))
	if got != 1500 { // 3000/30 * 15 days
		t.Fatalf("got %v, want 1500", got)
	}
}

func TestTerminationPayoutMinimumOneDay(t *testing.T) {
	start := date(2025, time.March, 1)
	got := TerminationPayout(3000, start, start.Add(2*time.Hour))
	if got != 100 { // one daily rate even on day zero
		t.Fatalf("got %v, want 100", got)
	}
}
