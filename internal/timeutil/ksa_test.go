package timeutil

import (
	"testing"
	"time"
)

func TestParseInKSA(t *testing.T) {
	got, err := ParseInKSA(DateLayout, "2025-06-15")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if got.Year() != 2025 || got.Month() != time.June || got.Day() != 15 {
		t.Fatalf("wrong date: %v", got)
	}
	if _, offset := got.Zone(); offset != 3*60*60 {
		t.Fatalf("expected UTC+3, got offset %d", offset)
	}
}

func TestStartOfDay(t *testing.T) {
	in := time.Date(2025, time.June, 15, 18, 42, 7, 0, KSA)
	got := StartOfDay(in)
	if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 {
		t.Fatalf("not midnight: %v", got)
	}
	if got.Day() != 15 {
		t.Fatalf("day changed: %v", got)
	}
}
