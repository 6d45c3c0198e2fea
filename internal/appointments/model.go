package appointments

import "time"

// Type enumerates the kinds of appointment the Driver Desk can book.
type Type string

const (
	TypeMOT               Type = "MOT"
	TypeService           Type = "Service"
	TypeInspection        Type = "Inspection"
	TypeFleetConsultation Type = "Fleet Consultation"
	TypeSalesDemo         Type = "Sales Demo"
	TypeDriverOnboarding  Type = "Driver Onboarding"
)

// Types lists the valid appointment types in booking-form order.
func Types() []Type {
	return []Type{
		TypeMOT,
		TypeService,
		TypeInspection,
		TypeFleetConsultation,
		TypeSalesDemo,
		TypeDriverOnboarding,
	}
}

// ValidType reports whether t is one of the enumerated appointment types.
func ValidType(t Type) bool {
	for _, v := range Types() {
		if t == v {
			return true
		}
	}
	return false
}

// Slot enumerates the bookable time slots.
type Slot string

const (
	SlotMorning       Slot = "Morning (9-12)"
	SlotAfternoon     Slot = "Afternoon (12-3)"
	SlotLateAfternoon Slot = "Late Afternoon (3-5)"
)

// Slots lists the valid time slots.
func Slots() []Slot {
	return []Slot{SlotMorning, SlotAfternoon, SlotLateAfternoon}
}

// Status tracks an appointment through its lifecycle. Records are never
// deleted, only status-transitioned.
type Status string

const (
	StatusPending     Status = "Pending"
	StatusConfirmed   Status = "Confirmed"
	StatusCompleted   Status = "Completed"
	StatusCancelled   Status = "Cancelled"
	StatusRescheduled Status = "Rescheduled"
	StatusNoShow      Status = "No Show"
)

// Appointment is a booked visit to the Driver Desk.
type Appointment struct {
	ID                  string     `json:"id"`
	CustomerName        string     `json:"customer_name"`
	ContactPhone        string     `json:"contact_phone"`
	ContactEmail        string     `json:"contact_email"`
	Type                Type       `json:"appointment_type"`
	Date                string     `json:"date"` // YYYY-MM-DD
	Slot                Slot       `json:"time_slot"`
	Status              Status     `json:"status"`
	VehicleRegistration string     `json:"vehicle_registration,omitempty"`
	Notes               string     `json:"notes,omitempty"`
	CancellationReason  string     `json:"cancellation_reason,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           *time.Time `json:"updated_at,omitempty"`
	ConfirmedAt         *time.Time `json:"confirmed_at,omitempty"`
	CancelledAt         *time.Time `json:"cancelled_at,omitempty"`
}

// Confirm moves the appointment to Confirmed and stamps the confirmation time.
func (a *Appointment) Confirm(now time.Time) {
	a.Status = StatusConfirmed
	a.ConfirmedAt = &now
	a.UpdatedAt = &now
}

// Cancel moves the appointment to Cancelled. The reason is optional.
func (a *Appointment) Cancel(reason string, now time.Time) {
	a.Status = StatusCancelled
	a.CancellationReason = reason
	a.CancelledAt = &now
	a.UpdatedAt = &now
}

// Reschedule updates the date and slot and marks the record Rescheduled.
func (a *Appointment) Reschedule(newDate string, newSlot Slot, now time.Time) {
	a.Date = newDate
	a.Slot = newSlot
	a.Status = StatusRescheduled
	a.UpdatedAt = &now
}

// Complete marks the appointment Completed.
func (a *Appointment) Complete(now time.Time) {
	a.Status = StatusCompleted
	a.UpdatedAt = &now
}

// Upcoming reports whether the appointment is still expected to happen.
func (a *Appointment) Upcoming() bool {
	switch a.Status {
	case StatusPending, StatusConfirmed, StatusRescheduled:
		return true
	}
	return false
}
