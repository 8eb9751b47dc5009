package world

import (
	"testing"
	"time"
)

func TestClockGameTimeScale(t *testing.T) {
	clock := DefaultClock()

	if got := clock.GameSeconds(time.Second); got != 30 {
		t.Fatalf("1 real second should be 30 game seconds, got %v", got)
	}
	if got := clock.TickGameSeconds(); got != 30 {
		t.Fatalf("default tick should cover 30 game seconds, got %v", got)
	}
	if got := clock.GameSeconds(-time.Minute); got != 0 {
		t.Fatalf("negative elapsed time should clamp to zero, got %v", got)
	}
}

func TestClockAgeDays(t *testing.T) {
	clock := DefaultClock()
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	// 86400 real seconds * 30 = 30 game days.
	now := created.Add(24 * time.Hour)
	if got := clock.AgeDays(created, now); got != 30 {
		t.Fatalf("one real day should age 30 game days, got %v", got)
	}

	now = created.Add(48 * time.Hour)
	if got := clock.AgeDays(created, now); got != 60 {
		t.Fatalf("two real days should age 60 game days, got %v", got)
	}
}
