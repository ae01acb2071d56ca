package schedule

import (
	"testing"
	"time"
)

func TestNextDaily(t *testing.T) {
	utc := time.UTC

	tests := []struct {
		name  string
		after time.Time
		hour  int
		min   int
		want  time.Time
	}{
		{
			name:  "before trigger same day",
			after: time.Date(2025, 3, 10, 6, 30, 0, 0, utc),
			hour:  8,
			want:  time.Date(2025, 3, 10, 8, 0, 0, 0, utc),
		},
		{
			name:  "after trigger rolls to tomorrow",
			after: time.Date(2025, 3, 10, 9, 0, 0, 0, utc),
			hour:  8,
			want:  time.Date(2025, 3, 11, 8, 0, 0, 0, utc),
		},
		{
			name:  "exactly at trigger rolls to tomorrow",
			after: time.Date(2025, 3, 10, 8, 0, 0, 0, utc),
			hour:  8,
			want:  time.Date(2025, 3, 11, 8, 0, 0, 0, utc),
		},
		{
			name:  "one second before trigger",
			after: time.Date(2025, 3, 10, 7, 59, 59, 0, utc),
			hour:  8,
			want:  time.Date(2025, 3, 10, 8, 0, 0, 0, utc),
		},
		{
			name:  "month boundary",
			after: time.Date(2025, 1, 31, 12, 0, 0, 0, utc),
			hour:  8,
			min:   30,
			want:  time.Date(2025, 2, 1, 8, 30, 0, 0, utc),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextDaily(tt.after, tt.hour, tt.min, utc)
			if !got.Equal(tt.want) {
				t.Errorf("NextDaily() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNextDailyHonorsLocation(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*3600)

	// 07:00 UTC is 09:00 in UTC+2, so the 08:00 local trigger has
	// already passed and the next one is tomorrow.
	after := time.Date(2025, 3, 10, 7, 0, 0, 0, time.UTC)

	got := NextDaily(after, 8, 0, loc)
	want := time.Date(2025, 3, 11, 8, 0, 0, 0, loc)

	if !got.Equal(want) {
		t.Errorf("NextDaily() = %v, want %v", got, want)
	}
}
