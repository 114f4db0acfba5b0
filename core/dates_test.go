package core

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		name string
		t    time.Time
		n    int
		want time.Time
	}{
		{"plain", day(2024, time.January, 15), 1, day(2024, time.February, 15)},
		{"clamp to leap feb", day(2024, time.January, 31), 1, day(2024, time.February, 29)},
		{"clamp to non-leap feb", day(2023, time.January, 31), 1, day(2023, time.February, 28)},
		{"clamp to 30-day month", day(2024, time.March, 31), 1, day(2024, time.April, 30)},
		{"across year boundary", day(2024, time.November, 30), 3, day(2025, time.February, 28)},
		{"zero", day(2024, time.June, 15), 0, day(2024, time.June, 15)},
		{"negative", day(2024, time.March, 31), -1, day(2024, time.February, 29)},
		{"many periods", day(2024, time.January, 1), 24, day(2026, time.January, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AddMonths(tt.t, tt.n); !got.Equal(tt.want) {
				t.Errorf("AddMonths(%v, %d) = %v; want %v", tt.t, tt.n, got, tt.want)
			}
		})
	}
}

func TestAddYears(t *testing.T) {
	if got := AddYears(day(2024, time.February, 29), 1); !got.Equal(day(2025, time.February, 28)) {
		t.Errorf("AddYears(feb 29, 1) = %v; want feb 28", got)
	}
	if got := AddYears(day(2024, time.February, 29), 4); !got.Equal(day(2028, time.February, 29)) {
		t.Errorf("AddYears(feb 29, 4) = %v; want feb 29", got)
	}
}

func TestDateOnly(t *testing.T) {
	ts := time.Date(2024, time.June, 15, 13, 37, 42, 999, time.UTC)
	if got := DateOnly(ts); !got.Equal(day(2024, time.June, 15)) {
		t.Errorf("DateOnly(%v) = %v", ts, got)
	}
}
