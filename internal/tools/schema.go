package tools

import (
	"github.com/fleetline/driver-desk/internal/appointments"
	"github.com/fleetline/driver-desk/internal/faq"
)

// Phased holds the fixed template strings a phased-messaging voice
// platform may play while a tool runs.
type Phased struct {
	Start   string `json:"start,omitempty"`
	Success string `json:"success,omitempty"`
	Failure string `json:"failure,omitempty"`
}

// Schema describes one tool to the language model.
type Schema struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
	Phased      Phased         `json:"-"`
}

func stringProp(desc string) map[string]any {
	return map[string]any{"type": "string", "description": desc}
}

func intProp(desc string) map[string]any {
	return map[string]any{"type": "integer", "description": desc}
}

func boolProp(desc string) map[string]any {
	return map[string]any{"type": "boolean", "description": desc}
}

func enumProp(desc string, values []string) map[string]any {
	opts := make([]any, len(values))
	for i, v := range values {
		opts[i] = v
	}
	return map[string]any{"type": "string", "description": desc, "enum": opts}
}

func objectSchema(props map[string]any, required []string) map[string]any {
	if required == nil {
		required = []string{}
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

// Schemas returns the schema for every tool, in the order of Kinds().
func Schemas() []Schema {
	apptTypes := make([]string, 0, len(appointments.Types()))
	for _, t := range appointments.Types() {
		apptTypes = append(apptTypes, string(t))
	}
	slots := make([]string, 0, len(appointments.Slots()))
	for _, s := range appointments.Slots() {
		slots = append(slots, string(s))
	}
	topics := make([]string, 0, len(faq.Topics()))
	for _, t := range faq.Topics() {
		topics = append(topics, string(t))
	}

	return []Schema{
		{
			Name:        string(KindBookAppointment),
			Description: "Book an appointment for a customer: MOT, service, vehicle inspection, fleet consultation, sales demo, or driver onboarding.",
			InputSchema: objectSchema(map[string]any{
				"customer_name":        stringProp("The full name of the customer"),
				"contact_phone":        stringProp("Customer's phone number for appointment confirmation"),
				"contact_email":        stringProp("Customer's email address"),
				"appointment_type":     enumProp("Type of appointment", apptTypes),
				"preferred_date":       stringProp("Preferred date for the appointment in YYYY-MM-DD format"),
				"preferred_time":       enumProp("Preferred time slot", slots),
				"vehicle_registration": stringProp("Vehicle registration number, if applicable"),
				"additional_notes":     stringProp("Any additional notes or special requirements"),
			}, []string{"customer_name", "contact_phone", "contact_email", "appointment_type", "preferred_date", "preferred_time"}),
			Phased: Phased{
				Start:   "Let me get that appointment booked for you.",
				Success: "Your appointment is booked.",
				Failure: "I wasn't able to book that appointment.",
			},
		},
		{
			Name:        string(KindCaptureLead),
			Description: "Capture contact and interest details from a prospective fleet-leasing customer.",
			InputSchema: objectSchema(map[string]any{
				"contact_name":             stringProp("Full name of the prospective customer"),
				"contact_email":            stringProp("Email address for follow-up"),
				"contact_phone":            stringProp("Phone number for follow-up"),
				"company_name":             stringProp("Company name, for business inquiries"),
				"current_fleet_size":       intProp("Current number of vehicles in the fleet"),
				"projected_fleet_size":     intProp("Projected fleet size after leasing"),
				"current_provider":         stringProp("Current leasing provider, if any"),
				"vehicle_interests":        stringProp("Specific vehicle types or models of interest"),
				"ev_interest":              boolProp("Whether the customer is interested in electric vehicles"),
				"timeline":                 stringProp("Decision timeline, e.g. 'Within 1 month' or '3-6 months'"),
				"budget_range":             stringProp("Budget considerations or range"),
				"preferred_contact_method": enumProp("Preferred contact method", []string{"Phone", "Email", "Either"}),
				"inquiry_notes":            stringProp("Additional notes about the inquiry"),
			}, []string{"contact_name", "contact_phone"}),
			Phased: Phased{
				Start:   "Let me note those details down.",
				Success: "I've captured your details.",
				Failure: "I had trouble saving those details.",
			},
		},
		{
			Name:        string(KindScheduleCallback),
			Description: "Schedule a callback for the customer during business hours.",
			InputSchema: objectSchema(map[string]any{
				"customer_name":   stringProp("The customer's full name"),
				"contact_phone":   stringProp("Phone number to call back"),
				"preferred_time":  stringProp("Preferred callback time: 'Morning', 'Afternoon', 'ASAP', or a specific time"),
				"callback_reason": stringProp("Brief description of what the callback is regarding"),
				"is_urgent":       boolProp("Whether this is an urgent matter requiring priority callback"),
			}, []string{"customer_name", "contact_phone", "callback_reason"}),
			Phased: Phased{
				Start:   "Let me arrange that callback.",
				Success: "Your callback is scheduled.",
				Failure: "I couldn't schedule that callback.",
			},
		},
		{
			Name:        string(KindGetBusinessHours),
			Description: "Get the Driver Desk operating hours. Use when a customer asks about opening times.",
			InputSchema: objectSchema(map[string]any{}, nil),
		},
		{
			Name:        string(KindCheckAfterHours),
			Description: "Check whether the call is inside or outside business hours and get guidance for the caller.",
			InputSchema: objectSchema(map[string]any{}, nil),
		},
		{
			Name:        string(KindGetRoadsideAssistance),
			Description: "Provide emergency roadside assistance information for a breakdown.",
			InputSchema: objectSchema(map[string]any{}, nil),
		},
		{
			Name:        string(KindGetFAQAnswer),
			Description: "Answer a frequently asked question about leasing, fleet services, EVs, MOTs, pricing, contracts, or careers.",
			InputSchema: objectSchema(map[string]any{
				"topic": enumProp("The FAQ topic", topics),
			}, []string{"topic"}),
		},
	}
}
