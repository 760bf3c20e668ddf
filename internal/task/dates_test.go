package task

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	now := time.Date(2026, 8, 30, 15, 30, 0, 0, time.UTC)
	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name    string
		raw     string
		want    time.Time
		wantErr bool
	}{
		{"today", "today", day(2026, 8, 30), false},
		{"tomorrow", "tomorrow", day(2026, 8, 31), false},
		{"next week", "next_week", day(2026, 9, 6), false},
		{"next month", "next_month", day(2026, 9, 29), false},
		{"keyword case-insensitive", "TODAY", day(2026, 8, 30), false},
		{"iso", "2026-09-15", day(2026, 9, 15), false},
		{"day first slash", "15/09/2026", day(2026, 9, 15), false},
		{"day first dash", "15-09-2026", day(2026, 9, 15), false},
		{"year first slash", "2026/09/15", day(2026, 9, 15), false},
		{"garbage", "soon", time.Time{}, true},
		{"empty", "", time.Time{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.raw, now)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error: got %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate(nil); got != "Not set" {
		t.Errorf("nil date: got %q, want %q", got, "Not set")
	}
	d := time.Date(2026, 9, 15, 10, 30, 0, 0, time.UTC)
	if got := FormatDate(&d); got != "2026-09-15" {
		t.Errorf("got %q, want %q", got, "2026-09-15")
	}
}
