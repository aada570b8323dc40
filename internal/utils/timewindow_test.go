package utils

import (
	"testing"
	"time"
)

func TestStartAndEndOfDay(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	ref := time.Date(2025, 2, 20, 15, 42, 7, 123, loc)

	start := StartOfDay(ref)
	if !start.Equal(time.Date(2025, 2, 20, 0, 0, 0, 0, loc)) {
		t.Fatalf("unexpected start of day: %s", start)
	}
	end := EndOfDay(ref)
	if !end.Equal(time.Date(2025, 2, 20, 23, 59, 59, 999_000_000, loc)) {
		t.Fatalf("unexpected end of day: %s", end)
	}
	if end.Location() != loc {
		t.Fatalf("expected location to be preserved")
	}
}

func TestWeekBoundsSundayToSaturday(t *testing.T) {
	// 2025-02-20 is a Thursday.
	ref := time.Date(2025, 2, 20, 10, 0, 0, 0, time.UTC)

	start := StartOfWeek(ref)
	if !start.Equal(time.Date(2025, 2, 16, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected Sunday 2025-02-16, got %s", start)
	}
	end := EndOfWeek(ref)
	if !end.Equal(time.Date(2025, 2, 22, 23, 59, 59, 999_000_000, time.UTC)) {
		t.Fatalf("expected Saturday 2025-02-22 end, got %s", end)
	}
}

func TestWeekBoundsOnSundayAndSaturday(t *testing.T) {
	sunday := time.Date(2025, 2, 16, 0, 0, 0, 0, time.UTC)
	if got := StartOfWeek(sunday); !got.Equal(sunday) {
		t.Fatalf("sunday should start its own week, got %s", got)
	}

	saturday := time.Date(2025, 2, 22, 23, 30, 0, 0, time.UTC)
	if got := StartOfWeek(saturday); !got.Equal(sunday) {
		t.Fatalf("saturday should belong to the week starting %s, got %s", sunday, got)
	}
	if got := EndOfWeek(saturday); got.Day() != 22 {
		t.Fatalf("expected week to end on the 22nd, got %s", got)
	}
}

func TestWeakETagStable(t *testing.T) {
	a := WeakETag([]byte(`{"a":1}`))
	b := WeakETag([]byte(`{"a":1}`))
	if a != b {
		t.Fatalf("expected identical bodies to share an etag")
	}
	if a == WeakETag([]byte(`{"a":2}`)) {
		t.Fatalf("expected different bodies to differ")
	}
}
