package calendar

import (
	"testing"
	"time"
)

func mustCalendar(t *testing.T) *Calendar {
	t.Helper()
	c, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

// at builds an instant in the business timezone.
func at(t *testing.T, c *Calendar, year int, month time.Month, day, hour, min int) time.Time {
	t.Helper()
	return time.Date(year, month, day, hour, min, 0, 0, c.Location())
}

func TestIsOpen(t *testing.T) {
	c := mustCalendar(t)

	tests := []struct {
		name string
		when time.Time
		want bool
	}{
		{"monday mid-morning", at(t, c, 2026, time.March, 2, 10, 30), true},
		{"monday at opening", at(t, c, 2026, time.March, 2, 9, 0), true},
		{"monday at closing", at(t, c, 2026, time.March, 2, 17, 0), false},
		{"monday before hours", at(t, c, 2026, time.March, 2, 8, 59), false},
		{"saturday midday", at(t, c, 2026, time.March, 7, 12, 0), false},
		{"sunday midday", at(t, c, 2026, time.March, 8, 12, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.IsOpen(tt.when); got != tt.want {
				t.Errorf("IsOpen(%s) = %v, want %v", tt.when, got, tt.want)
			}
		})
	}
}

func TestClassifySaturdayRollsToMonday(t *testing.T) {
	c := mustCalendar(t)

	// Saturday 7 March 2026.
	check := c.Classify(at(t, c, 2026, time.March, 7, 11, 0))
	if check.Status != StatusWeekend {
		t.Fatalf("status = %s, want %s", check.Status, StatusWeekend)
	}

	want := at(t, c, 2026, time.March, 9, 9, 0) // Monday 09:00
	if !check.NextOpening.Equal(want) {
		t.Errorf("next opening = %s, want %s", check.NextOpening, want)
	}
}

func TestClassifyFridayEveningRollsToMonday(t *testing.T) {
	c := mustCalendar(t)

	// Friday 6 March 2026, 18:00.
	check := c.Classify(at(t, c, 2026, time.March, 6, 18, 0))
	if check.Status != StatusAfterHours {
		t.Fatalf("status = %s, want %s", check.Status, StatusAfterHours)
	}

	want := at(t, c, 2026, time.March, 9, 9, 0)
	if !check.NextOpening.Equal(want) {
		t.Errorf("next opening = %s, want %s (not Saturday)", check.NextOpening, want)
	}
}

func TestClassifyBeforeHoursSameDay(t *testing.T) {
	c := mustCalendar(t)

	// Monday 2 March 2026, 08:00.
	check := c.Classify(at(t, c, 2026, time.March, 2, 8, 0))
	if check.Status != StatusBeforeHours {
		t.Fatalf("status = %s, want %s", check.Status, StatusBeforeHours)
	}

	want := at(t, c, 2026, time.March, 2, 9, 0)
	if !check.NextOpening.Equal(want) {
		t.Errorf("next opening = %s, want %s", check.NextOpening, want)
	}
}

func TestClassifyWeekdayAfterHoursNextDay(t *testing.T) {
	c := mustCalendar(t)

	// Tuesday 3 March 2026, 19:30.
	check := c.Classify(at(t, c, 2026, time.March, 3, 19, 30))
	if check.Status != StatusAfterHours {
		t.Fatalf("status = %s, want %s", check.Status, StatusAfterHours)
	}

	want := at(t, c, 2026, time.March, 4, 9, 0)
	if !check.NextOpening.Equal(want) {
		t.Errorf("next opening = %s, want %s", check.NextOpening, want)
	}
}

func TestClassifyOpenHasNoNextOpening(t *testing.T) {
	c := mustCalendar(t)

	check := c.Classify(at(t, c, 2026, time.March, 4, 14, 0))
	if check.Status != StatusOpen {
		t.Fatalf("status = %s, want %s", check.Status, StatusOpen)
	}
	if !check.NextOpening.IsZero() {
		t.Errorf("next opening = %s, want zero", check.NextOpening)
	}
}

func TestNextBusinessDay(t *testing.T) {
	c := mustCalendar(t)

	tests := []struct {
		name string
		when time.Time
		want time.Time
	}{
		{"weekday during hours", at(t, c, 2026, time.March, 4, 11, 0), at(t, c, 2026, time.March, 4, 0, 0)},
		{"weekday before hours", at(t, c, 2026, time.March, 4, 7, 0), at(t, c, 2026, time.March, 4, 0, 0)},
		{"weekday after close", at(t, c, 2026, time.March, 4, 17, 30), at(t, c, 2026, time.March, 5, 0, 0)},
		{"friday after close", at(t, c, 2026, time.March, 6, 18, 0), at(t, c, 2026, time.March, 9, 0, 0)},
		{"saturday", at(t, c, 2026, time.March, 7, 10, 0), at(t, c, 2026, time.March, 9, 0, 0)},
		{"sunday", at(t, c, 2026, time.March, 8, 22, 0), at(t, c, 2026, time.March, 9, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.NextBusinessDay(tt.when)
			if !got.Equal(tt.want) {
				t.Errorf("NextBusinessDay(%s) = %s, want %s", tt.when, got, tt.want)
			}
		})
	}
}
