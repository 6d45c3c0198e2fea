package leads

import "errors"

var (
	// ErrNotFound is returned when no lead exists with the requested id.
	ErrNotFound = errors.New("leads: lead not found")
	// ErrMissingContact is returned when a capture request has no name or
	// no way to reach the customer back.
	ErrMissingContact = errors.New("leads: contact name and phone or email are required")
)
