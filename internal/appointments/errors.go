package appointments

import "errors"

var (
	// ErrInvalidType is returned when the requested appointment type is not
	// one of the enumerated values.
	ErrInvalidType = errors.New("appointments: invalid appointment type")

	// ErrInvalidDateFormat is returned when the preferred date does not parse
	// as YYYY-MM-DD.
	ErrInvalidDateFormat = errors.New("appointments: invalid date format")

	// ErrDateInPast is returned when the preferred date is before today in
	// the business timezone.
	ErrDateInPast = errors.New("appointments: date is in the past")

	// ErrWeekendNotAvailable is returned when the preferred date falls on a
	// Saturday or Sunday.
	ErrWeekendNotAvailable = errors.New("appointments: weekend dates are not available")

	// ErrNotFound is returned when no appointment exists with the given id.
	ErrNotFound = errors.New("appointments: appointment not found")
)
