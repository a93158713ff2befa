package gmail

import (
	"testing"
	"time"
)

func TestDayWindowQuery(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name       string
		now        time.Time
		windowDays int
		want       string
	}{
		{
			name:       "yesterday",
			now:        now,
			windowDays: 1,
			want:       "after:2026/03/14 before:2026/03/15",
		},
		{
			name:       "week window",
			now:        now,
			windowDays: 7,
			want:       "after:2026/03/08 before:2026/03/15",
		},
		{
			name:       "zero window clamps to one day",
			now:        now,
			windowDays: 0,
			want:       "after:2026/03/14 before:2026/03/15",
		},
		{
			name:       "negative window clamps to one day",
			now:        now,
			windowDays: -3,
			want:       "after:2026/03/14 before:2026/03/15",
		},
		{
			name:       "window crossing a month boundary",
			now:        time.Date(2026, 3, 1, 0, 5, 0, 0, time.UTC),
			windowDays: 1,
			want:       "after:2026/02/28 before:2026/03/01",
		},
		{
			name:       "non-UTC time is normalized",
			now:        time.Date(2026, 3, 15, 10, 30, 0, 0, time.FixedZone("CET", 3600)),
			windowDays: 1,
			want:       "after:2026/03/14 before:2026/03/15",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DayWindowQuery(tt.now, tt.windowDays)
			if got != tt.want {
				t.Errorf("DayWindowQuery() = %q, want %q", got, tt.want)
			}
		})
	}
}
