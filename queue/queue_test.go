package queue

import (
	"testing"
	"time"
)

func TestStaleCutoff(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	cutoff := StaleCutoff(now, 10*time.Minute)

	want := time.Date(2026, 8, 28, 11, 50, 0, 0, time.UTC)
	if !cutoff.Equal(want) {
		t.Fatalf("cutoff = %v, want %v", cutoff, want)
	}

	lockedRecently := now.Add(-5 * time.Minute)
	if lockedRecently.Before(cutoff) {
		t.Fatal("a lock held for 5m must not be stale with a 10m TTL")
	}
	lockedLongAgo := now.Add(-15 * time.Minute)
	if !lockedLongAgo.Before(cutoff) {
		t.Fatal("a lock held for 15m must be stale with a 10m TTL")
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusPending, StatusProcessing, StatusDone, StatusFailed} {
		if !ValidStatus(s) {
			t.Fatalf("%q should be valid", s)
		}
	}
	for _, s := range []string{"", "locked", "PENDING"} {
		if ValidStatus(s) {
			t.Fatalf("%q should be invalid", s)
		}
	}
}
