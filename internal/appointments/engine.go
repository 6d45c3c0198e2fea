package appointments

import (
	"context"
	"fmt"
	"time"

	"github.com/fleetline/driver-desk/internal/calendar"
	"github.com/fleetline/driver-desk/internal/ident"
	"github.com/fleetline/driver-desk/pkg/logging"
)

// DateFormat is the wire format for appointment dates.
const DateFormat = "2006-01-02"

// Repository defines the interface for appointment storage.
type Repository interface {
	Append(ctx context.Context, appt Appointment) error
	List(ctx context.Context) ([]Appointment, error)
	Get(ctx context.Context, id string) (*Appointment, error)
	Update(ctx context.Context, appt Appointment) error
}

// BookingRequest carries the fields needed to book an appointment.
type BookingRequest struct {
	CustomerName        string
	ContactPhone        string
	ContactEmail        string
	Type                Type
	PreferredDate       string // YYYY-MM-DD
	PreferredSlot       Slot
	VehicleRegistration string
	Notes               string
}

// ConfirmationSender is notified after a booking is persisted. Implementations
// must not block the caller on slow transports.
type ConfirmationSender interface {
	SendBookingConfirmation(ctx context.Context, appt *Appointment)
}

// Engine validates booking requests and drives the appointment lifecycle.
type Engine struct {
	repo     Repository
	cal      *calendar.Calendar
	logger   *logging.Logger
	notifier ConfirmationSender
	now      func() time.Time
}

// NewEngine creates an appointment engine.
func NewEngine(repo Repository, cal *calendar.Calendar, logger *logging.Logger) *Engine {
	if repo == nil {
		panic("appointments: repository cannot be nil")
	}
	if cal == nil {
		panic("appointments: calendar cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Engine{
		repo:   repo,
		cal:    cal,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock overrides the engine's time source. Intended for tests.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// WithNotifier registers a confirmation sender fired after successful bookings.
func (e *Engine) WithNotifier(n ConfirmationSender) *Engine {
	e.notifier = n
	return e
}

// Book validates the request and persists a Confirmed appointment. Validation
// failures are reported via the sentinel errors in errors.go; nothing is
// persisted on failure.
func (e *Engine) Book(ctx context.Context, req BookingRequest) (*Appointment, error) {
	if !ValidType(req.Type) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, req.Type)
	}

	parsed, err := time.ParseInLocation(DateFormat, req.PreferredDate, e.cal.Location())
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDateFormat, req.PreferredDate)
	}

	now := e.now()
	if parsed.Before(e.cal.Today(now)) {
		return nil, fmt.Errorf("%w: %s", ErrDateInPast, req.PreferredDate)
	}
	if e.cal.IsWeekend(parsed) {
		return nil, fmt.Errorf("%w: %s", ErrWeekendNotAvailable, req.PreferredDate)
	}

	appt := Appointment{
		ID:                  ident.New("APT", now),
		CustomerName:        req.CustomerName,
		ContactPhone:        req.ContactPhone,
		ContactEmail:        req.ContactEmail,
		Type:                req.Type,
		Date:                req.PreferredDate,
		Slot:                req.PreferredSlot,
		Status:              StatusConfirmed,
		VehicleRegistration: req.VehicleRegistration,
		Notes:               req.Notes,
		CreatedAt:           now.UTC(),
	}
	confirmedAt := now.UTC()
	appt.ConfirmedAt = &confirmedAt

	if err := e.repo.Append(ctx, appt); err != nil {
		return nil, fmt.Errorf("appointments: persist booking: %w", err)
	}

	e.logger.Info("appointment booked",
		"appointment_id", appt.ID,
		"type", appt.Type,
		"date", appt.Date,
	)
	if e.notifier != nil {
		e.notifier.SendBookingConfirmation(ctx, &appt)
	}
	return &appt, nil
}

// Confirm marks an existing appointment Confirmed.
func (e *Engine) Confirm(ctx context.Context, id string) (*Appointment, error) {
	return e.transition(ctx, id, func(a *Appointment, now time.Time) {
		a.Confirm(now)
	})
}

// Cancel marks an existing appointment Cancelled with an optional reason.
func (e *Engine) Cancel(ctx context.Context, id, reason string) (*Appointment, error) {
	return e.transition(ctx, id, func(a *Appointment, now time.Time) {
		a.Cancel(reason, now)
	})
}

// Reschedule moves an existing appointment to a new date and slot.
func (e *Engine) Reschedule(ctx context.Context, id, newDate string, newSlot Slot) (*Appointment, error) {
	return e.transition(ctx, id, func(a *Appointment, now time.Time) {
		a.Reschedule(newDate, newSlot, now)
	})
}

// Complete marks an existing appointment Completed.
func (e *Engine) Complete(ctx context.Context, id string) (*Appointment, error) {
	return e.transition(ctx, id, func(a *Appointment, now time.Time) {
		a.Complete(now)
	})
}

// transition loads the record, applies fn and writes it back. The only guard
// is that the record exists; transitions are allowed from any status.
func (e *Engine) transition(ctx context.Context, id string, fn func(*Appointment, time.Time)) (*Appointment, error) {
	appt, err := e.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	fn(appt, e.now().UTC())

	if err := e.repo.Update(ctx, *appt); err != nil {
		return nil, fmt.Errorf("appointments: persist transition: %w", err)
	}
	return appt, nil
}

// Summary renders the booking confirmation read back to the caller.
func (a *Appointment) Summary() string {
	return fmt.Sprintf(
		"Appointment %s\nType: %s\nDate: %s\nTime: %s\nStatus: %s\nCustomer: %s\nPhone: %s",
		a.ID, a.Type, a.Date, a.Slot, a.Status, a.CustomerName, a.ContactPhone,
	)
}
