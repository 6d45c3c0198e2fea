// Package tools defines the closed set of agent tools: their argument
// shapes, the schemas advertised to the language model, and the registry
// that dispatches calls against the domain services.
package tools

import "fmt"

// Kind enumerates every tool the agent can call. The set is closed:
// dispatch switches exhaustively over these values, so an unrecognized
// name is rejected at parse time rather than falling through a lookup.
type Kind string

const (
	KindBookAppointment       Kind = "book_appointment"
	KindCaptureLead           Kind = "capture_lead"
	KindScheduleCallback      Kind = "schedule_callback"
	KindGetBusinessHours      Kind = "get_business_hours"
	KindCheckAfterHours       Kind = "check_after_hours"
	KindGetRoadsideAssistance Kind = "get_roadside_assistance"
	KindGetFAQAnswer          Kind = "get_faq_answer"
)

// Kinds returns every tool kind in schema order.
func Kinds() []Kind {
	return []Kind{
		KindBookAppointment,
		KindCaptureLead,
		KindScheduleCallback,
		KindGetBusinessHours,
		KindCheckAfterHours,
		KindGetRoadsideAssistance,
		KindGetFAQAnswer,
	}
}

// ParseKind maps a tool name from the model onto a Kind.
func ParseKind(name string) (Kind, error) {
	k := Kind(name)
	switch k {
	case KindBookAppointment, KindCaptureLead, KindScheduleCallback,
		KindGetBusinessHours, KindCheckAfterHours,
		KindGetRoadsideAssistance, KindGetFAQAnswer:
		return k, nil
	}
	return "", fmt.Errorf("tools: unknown tool %q", name)
}

// BookAppointmentArgs are the arguments for book_appointment.
type BookAppointmentArgs struct {
	CustomerName        string `json:"customer_name"`
	ContactPhone        string `json:"contact_phone"`
	ContactEmail        string `json:"contact_email"`
	AppointmentType     string `json:"appointment_type"`
	PreferredDate       string `json:"preferred_date"`
	PreferredTime       string `json:"preferred_time"`
	VehicleRegistration string `json:"vehicle_registration,omitempty"`
	AdditionalNotes     string `json:"additional_notes,omitempty"`
}

// CaptureLeadArgs are the arguments for capture_lead.
type CaptureLeadArgs struct {
	ContactName            string `json:"contact_name"`
	ContactEmail           string `json:"contact_email"`
	ContactPhone           string `json:"contact_phone"`
	CompanyName            string `json:"company_name,omitempty"`
	CurrentFleetSize       *int   `json:"current_fleet_size,omitempty"`
	ProjectedFleetSize     *int   `json:"projected_fleet_size,omitempty"`
	CurrentProvider        string `json:"current_provider,omitempty"`
	VehicleInterests       string `json:"vehicle_interests,omitempty"`
	EVInterest             bool   `json:"ev_interest,omitempty"`
	Timeline               string `json:"timeline,omitempty"`
	BudgetRange            string `json:"budget_range,omitempty"`
	PreferredContactMethod string `json:"preferred_contact_method,omitempty"`
	InquiryNotes           string `json:"inquiry_notes,omitempty"`
}

// ScheduleCallbackArgs are the arguments for schedule_callback.
type ScheduleCallbackArgs struct {
	CustomerName   string `json:"customer_name"`
	ContactPhone   string `json:"contact_phone"`
	PreferredTime  string `json:"preferred_time"`
	CallbackReason string `json:"callback_reason"`
	IsUrgent       bool   `json:"is_urgent,omitempty"`
}

// GetFAQAnswerArgs are the arguments for get_faq_answer.
type GetFAQAnswerArgs struct {
	Topic string `json:"topic"`
}
