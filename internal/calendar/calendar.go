// Package calendar implements the Driver Desk business-hours rules:
// Monday to Friday, 09:00-17:00, Europe/London.
package calendar

import (
	"fmt"
	"time"
)

const (
	// OpeningHour is the first hour of the business day (inclusive).
	OpeningHour = 9
	// ClosingHour is the hour the desk closes (exclusive).
	ClosingHour = 17
)

// Status classifies a timestamp relative to business hours.
type Status string

const (
	StatusOpen        Status = "open"
	StatusWeekend     Status = "weekend"
	StatusBeforeHours Status = "before_hours"
	StatusAfterHours  Status = "after_hours"
)

// Check is the result of classifying a timestamp. NextOpening is zero when
// the desk is currently open.
type Check struct {
	Status      Status
	NextOpening time.Time
}

// Calendar evaluates timestamps against the fixed business schedule.
type Calendar struct {
	loc *time.Location
}

// New loads the business timezone and returns a calendar.
func New() (*Calendar, error) {
	loc, err := time.LoadLocation("Europe/London")
	if err != nil {
		return nil, fmt.Errorf("calendar: load business timezone: %w", err)
	}
	return &Calendar{loc: loc}, nil
}

// Location returns the business timezone.
func (c *Calendar) Location() *time.Location {
	return c.loc
}

// Today returns the current calendar date in the business timezone.
func (c *Calendar) Today(now time.Time) time.Time {
	local := now.In(c.loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, c.loc)
}

// IsWeekend reports whether the timestamp falls on Saturday or Sunday in the
// business timezone.
func (c *Calendar) IsWeekend(t time.Time) bool {
	wd := t.In(c.loc).Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// IsOpen reports whether the desk is open at the given instant.
func (c *Calendar) IsOpen(t time.Time) bool {
	local := t.In(c.loc)
	if c.IsWeekend(local) {
		return false
	}
	return local.Hour() >= OpeningHour && local.Hour() < ClosingHour
}

// Classify maps a timestamp to its business-hours status and, when closed,
// the next opening instant.
func (c *Calendar) Classify(t time.Time) Check {
	local := t.In(c.loc)

	switch {
	case c.IsWeekend(local):
		return Check{Status: StatusWeekend, NextOpening: c.openingOn(nextMonday(local))}
	case local.Hour() < OpeningHour:
		return Check{Status: StatusBeforeHours, NextOpening: c.openingOn(local)}
	case local.Hour() >= ClosingHour:
		next := local.AddDate(0, 0, 1)
		if local.Weekday() == time.Friday {
			next = nextMonday(local)
		}
		return Check{Status: StatusAfterHours, NextOpening: c.openingOn(next)}
	default:
		return Check{Status: StatusOpen}
	}
}

// NextBusinessDay computes which calendar date a request arriving at t should
// be worked on: weekends roll to Monday, arrivals at or after closing roll to
// the next business day (Friday evening rolls to Monday), anything else is
// handled same-day.
func (c *Calendar) NextBusinessDay(t time.Time) time.Time {
	local := t.In(c.loc)

	switch {
	case c.IsWeekend(local):
		return dateOnly(nextMonday(local))
	case local.Hour() >= ClosingHour:
		if local.Weekday() == time.Friday {
			return dateOnly(nextMonday(local))
		}
		return dateOnly(local.AddDate(0, 0, 1))
	default:
		return dateOnly(local)
	}
}

func (c *Calendar) openingOn(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), OpeningHour, 0, 0, 0, c.loc)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func nextMonday(t time.Time) time.Time {
	days := (int(time.Monday) - int(t.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	return t.AddDate(0, 0, days)
}
