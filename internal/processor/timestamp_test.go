package processor

import (
	"testing"
	"time"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
	}{
		{"Mon, 27 Nov 2025 10:30:00 GMT", time.Date(2025, 11, 27, 10, 30, 0, 0, time.UTC)},
		{"Thu, 27 Nov 2025 10:30:00 +0100", time.Date(2025, 11, 27, 10, 30, 0, 0, time.UTC)},
		{"2025-11-27T10:30:00Z", time.Date(2025, 11, 27, 10, 30, 0, 0, time.UTC)},
		{"2025-11-27T10:30:00+02:00", time.Date(2025, 11, 27, 10, 30, 0, 0, time.UTC)},
		{"2025-11-27 10:30", time.Date(2025, 11, 27, 10, 30, 0, 0, time.UTC)},
		{"2025-11-27", time.Date(2025, 11, 27, 0, 0, 0, 0, time.UTC)},
		{"  2024-02-29T23:59:59Z  ", time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC)},
	}
	for _, tt := range tests {
		if got := Normalize(tt.raw); !got.Equal(tt.want) {
			t.Fatalf("Normalize(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestNormalizeFallsBackToSentinel(t *testing.T) {
	floor := Normalize("2020-01-01T00:00:00Z")
	for _, raw := range []string{"", "   ", "not a date", "yesterday-ish"} {
		got := Normalize(raw)
		if !got.Equal(MinTimestamp) {
			t.Fatalf("Normalize(%q) = %v, want sentinel", raw, got)
		}
		if !got.Before(floor) {
			t.Fatalf("sentinel should sort before any real timestamp")
		}
	}
}
