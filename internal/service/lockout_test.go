package service

import (
	"testing"
	"time"
)

func TestIsLocked(t *testing.T) {
	day := time.Date(2026, time.August, 31, 0, 0, 0, 0, time.Local)

	tests := []struct {
		name      string
		firstTask string
		now       time.Time
		want      bool
	}{
		{
			name:      "ten minutes before start is locked",
			firstTask: "10:00",
			now:       time.Date(2026, time.August, 31, 9, 50, 0, 0, time.Local),
			want:      true,
		},
		{
			name:      "twenty minutes before start is open",
			firstTask: "10:00",
			now:       time.Date(2026, time.August, 31, 9, 40, 0, 0, time.Local),
			want:      false,
		},
		{
			name:      "already started is locked",
			firstTask: "10:00",
			now:       time.Date(2026, time.August, 31, 11, 0, 0, 0, time.Local),
			want:      true,
		},
		{
			name:      "exactly fifteen minutes before is open",
			firstTask: "10:00",
			now:       time.Date(2026, time.August, 31, 9, 45, 0, 0, time.Local),
			want:      false,
		},
		{
			// Inherited fail-open: an unparsable representative time
			// never locks the plan.
			name:      "unparsable time fails open",
			firstTask: "whenever",
			now:       time.Date(2026, time.August, 31, 9, 59, 0, 0, time.Local),
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isLocked(tt.firstTask, day, tt.now); got != tt.want {
				t.Errorf("isLocked(%q, %v) = %v, want %v", tt.firstTask, tt.now, got, tt.want)
			}
		})
	}
}
