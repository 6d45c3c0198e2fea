package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fleetline/driver-desk/internal/appointments"
	"github.com/fleetline/driver-desk/internal/calendar"
	"github.com/fleetline/driver-desk/internal/callbacks"
	"github.com/fleetline/driver-desk/internal/faq"
	"github.com/fleetline/driver-desk/internal/leads"
	"github.com/fleetline/driver-desk/internal/observability/metrics"
	"github.com/fleetline/driver-desk/pkg/logging"
)

// degradedText is returned when a request was understood but could not
// be persisted. The caller must never be told a save succeeded when it
// did not.
const degradedText = "Your request has been noted and our team will follow up with you directly. Apologies for the inconvenience."

// Registry dispatches tool calls against the domain services. Business
// rule violations come back as caller-facing text; an error return is
// reserved for programming faults such as undecodable arguments, which
// the orchestrator converts to a per-call error result.
type Registry struct {
	engine    *appointments.Engine
	leadSvc   *leads.Service
	scheduler *callbacks.Scheduler
	cal       *calendar.Calendar
	logger    *logging.Logger
	metrics   *metrics.ConversationMetrics
	now       func() time.Time
}

func NewRegistry(
	engine *appointments.Engine,
	leadSvc *leads.Service,
	scheduler *callbacks.Scheduler,
	cal *calendar.Calendar,
	logger *logging.Logger,
	m *metrics.ConversationMetrics,
) *Registry {
	if engine == nil {
		panic("tools: appointment engine is required")
	}
	if leadSvc == nil {
		panic("tools: lead service is required")
	}
	if scheduler == nil {
		panic("tools: callback scheduler is required")
	}
	if cal == nil {
		panic("tools: calendar is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Registry{
		engine:    engine,
		leadSvc:   leadSvc,
		scheduler: scheduler,
		cal:       cal,
		logger:    logger,
		metrics:   m,
		now:       time.Now,
	}
}

// WithClock overrides the registry clock. Intended for tests.
func (r *Registry) WithClock(now func() time.Time) *Registry {
	r.now = now
	return r
}

// Dispatch runs one tool call and returns its caller-facing text.
func (r *Registry) Dispatch(ctx context.Context, kind Kind, args json.RawMessage) (string, error) {
	start := r.now()
	text, err := r.dispatch(ctx, kind, args)
	status := "ok"
	if err != nil {
		status = "error"
	}
	r.metrics.ObserveToolCall(string(kind), status, r.now().Sub(start).Seconds())
	if err != nil {
		r.logger.Error("tool dispatch failed", "tool", string(kind), "error", err)
	}
	return text, err
}

func (r *Registry) dispatch(ctx context.Context, kind Kind, args json.RawMessage) (string, error) {
	switch kind {
	case KindBookAppointment:
		var a BookAppointmentArgs
		if err := decodeArgs(args, &a); err != nil {
			return "", err
		}
		return r.bookAppointment(ctx, a)
	case KindCaptureLead:
		var a CaptureLeadArgs
		if err := decodeArgs(args, &a); err != nil {
			return "", err
		}
		return r.captureLead(ctx, a)
	case KindScheduleCallback:
		var a ScheduleCallbackArgs
		if err := decodeArgs(args, &a); err != nil {
			return "", err
		}
		return r.scheduleCallback(ctx, a)
	case KindGetBusinessHours:
		return faq.BusinessHours, nil
	case KindCheckAfterHours:
		return r.checkAfterHours(), nil
	case KindGetRoadsideAssistance:
		return faq.RoadsideAssistance, nil
	case KindGetFAQAnswer:
		var a GetFAQAnswerArgs
		if err := decodeArgs(args, &a); err != nil {
			return "", err
		}
		return faq.Answer(a.Topic), nil
	}
	return "", fmt.Errorf("tools: unknown tool %q", kind)
}

func decodeArgs(raw json.RawMessage, into any) error {
	if len(raw) == 0 {
		raw = []byte("{}")
	}
	if err := json.Unmarshal(raw, into); err != nil {
		return fmt.Errorf("tools: decode arguments: %w", err)
	}
	return nil
}

func (r *Registry) bookAppointment(ctx context.Context, a BookAppointmentArgs) (string, error) {
	if a.CustomerName == "" {
		return "", errors.New("tools: book_appointment requires customer_name")
	}
	appt, err := r.engine.Book(ctx, appointments.BookingRequest{
		CustomerName:        a.CustomerName,
		ContactPhone:        a.ContactPhone,
		ContactEmail:        a.ContactEmail,
		Type:                appointments.Type(a.AppointmentType),
		PreferredDate:       a.PreferredDate,
		PreferredSlot:       appointments.Slot(a.PreferredTime),
		VehicleRegistration: a.VehicleRegistration,
		Notes:               a.AdditionalNotes,
	})
	switch {
	case err == nil:
		return appt.Summary(), nil
	case errors.Is(err, appointments.ErrInvalidType):
		names := make([]string, 0, len(appointments.Types()))
		for _, t := range appointments.Types() {
			names = append(names, string(t))
		}
		return "Invalid appointment type. Please choose from: " + strings.Join(names, ", ") + ".", nil
	case errors.Is(err, appointments.ErrInvalidDateFormat):
		return "Invalid date format. Please use YYYY-MM-DD format (e.g., 2026-01-15).", nil
	case errors.Is(err, appointments.ErrDateInPast):
		return "Cannot book appointments in the past. Please provide a future date.", nil
	case errors.Is(err, appointments.ErrWeekendNotAvailable):
		return "We're closed on weekends. Please choose a Monday to Friday date.", nil
	}
	r.logger.Error("booking persistence failed", "error", err)
	return degradedText, nil
}

func (r *Registry) captureLead(ctx context.Context, a CaptureLeadArgs) (string, error) {
	if a.ContactName == "" {
		return "", errors.New("tools: capture_lead requires contact_name")
	}
	contactMethod := leads.ContactMethod(a.PreferredContactMethod)
	if contactMethod == "" {
		contactMethod = leads.ContactEither
	}
	lead, err := r.leadSvc.Capture(ctx, leads.CaptureRequest{
		ContactName:            a.ContactName,
		ContactEmail:           a.ContactEmail,
		ContactPhone:           a.ContactPhone,
		Source:                 leads.SourceVoiceAgent,
		CompanyName:            a.CompanyName,
		CurrentFleetSize:       a.CurrentFleetSize,
		ProjectedFleetSize:     a.ProjectedFleetSize,
		CurrentProvider:        a.CurrentProvider,
		VehicleInterests:       a.VehicleInterests,
		EVInterest:             a.EVInterest,
		Timeline:               a.Timeline,
		BudgetRange:            a.BudgetRange,
		PreferredContactMethod: contactMethod,
		InquiryNotes:           a.InquiryNotes,
	})
	if errors.Is(err, leads.ErrMissingContact) {
		return "I'll need a phone number or email address so our team can reach you. Could you share one?", nil
	}
	if err != nil {
		r.logger.Error("lead persistence failed", "error", err)
		return degradedText, nil
	}

	// Priority and score stay internal; the caller only hears the
	// acknowledgement.
	return fmt.Sprintf(`Thank you for your interest in Fleetline!

I've captured your details and our fleet solutions team will be in touch shortly.

Your Reference: %s
Preferred Contact: %s

Our team typically responds within 1 business day. Is there anything else I can help you with?`,
		lead.ID, lead.PreferredContactMethod), nil
}

func (r *Registry) scheduleCallback(ctx context.Context, a ScheduleCallbackArgs) (string, error) {
	if a.CustomerName == "" || a.ContactPhone == "" {
		return "", errors.New("tools: schedule_callback requires customer_name and contact_phone")
	}
	cb, err := r.scheduler.Schedule(ctx, callbacks.Request{
		CustomerName:  a.CustomerName,
		ContactPhone:  a.ContactPhone,
		PreferredTime: a.PreferredTime,
		Reason:        a.CallbackReason,
		IsUrgent:      a.IsUrgent,
	})
	if err != nil {
		r.logger.Error("callback persistence failed", "error", err)
		return degradedText, nil
	}

	scheduled, _ := time.Parse("2006-01-02", cb.ScheduledDate)
	urgencyNote := ""
	if cb.IsUrgent {
		urgencyNote = " This has been marked as urgent and will be prioritized."
	}
	return fmt.Sprintf(`Callback Scheduled!

Reference: %s
For: %s
Phone: %s
Preferred Time: %s
Scheduled For: %s

Our team will call you back during your preferred time slot.%s`,
		cb.ID, cb.CustomerName, cb.ContactPhone, cb.PreferredTime,
		scheduled.Format("Monday, January 2, 2006"), urgencyNote), nil
}

func (r *Registry) checkAfterHours() string {
	now := r.now().In(r.cal.Location())
	check := r.cal.Classify(now)

	switch check.Status {
	case calendar.StatusWeekend:
		return fmt.Sprintf(`After Hours Notice

You're calling during the weekend. Our Driver Desk reopens on Monday at 9:00 AM UK time.

What I can help with now:
- Answer frequently asked questions
- Capture your inquiry for priority callback on Monday
- Provide 24/7 emergency roadside assistance contact

Next Business Day: %s

Would you like me to schedule a callback for Monday, or is this an emergency requiring roadside assistance?`,
			check.NextOpening.Format("Monday, January 2, 2006"))

	case calendar.StatusBeforeHours, calendar.StatusAfterHours:
		timing := "before"
		nextOpen := "9:00 AM today"
		if check.Status == calendar.StatusAfterHours {
			timing = "after"
			nextOpen = "9:00 AM tomorrow"
			if check.NextOpening.Weekday() == time.Monday {
				nextOpen = "9:00 AM on Monday"
			}
		}
		return fmt.Sprintf(`After Hours Notice

You're calling %s our regular business hours. We'll be open again at %s.

What I can help with now:
- Answer frequently asked questions
- Capture your inquiry for priority callback
- Provide 24/7 emergency roadside assistance contact

Would you like me to schedule a callback, or is there something urgent I can help with?`, timing, nextOpen)
	}

	return fmt.Sprintf(`Within Business Hours

Great news! You're calling during our regular business hours.
Current time: %s

I'm fully available to assist you with any inquiries, appointments, or services. How can I help you today?`,
		now.Format("3:04 PM on Monday, January 2"))
}
