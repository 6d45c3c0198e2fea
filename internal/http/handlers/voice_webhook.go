package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/fleetline/driver-desk/internal/appointments"
	"github.com/fleetline/driver-desk/internal/calls"
	"github.com/fleetline/driver-desk/internal/leads"
	"github.com/fleetline/driver-desk/pkg/logging"
)

// Voice-platform webhook event names.
const (
	EventCallStarted  = "call.started"
	EventCallEnded    = "call.ended"
	EventCallAnalyzed = "call.analyzed"
)

// VoiceWebhookEvent is the payload the telephony platform posts on call
// lifecycle events. Analysis is only present once the platform has run
// its post-call extraction.
type VoiceWebhookEvent struct {
	Event      string        `json:"event"`
	CallID     string        `json:"call_id"`
	From       string        `json:"from,omitempty"`
	To         string        `json:"to,omitempty"`
	Duration   int           `json:"duration,omitempty"` // seconds
	Transcript string        `json:"transcript,omitempty"`
	Summary    string        `json:"summary,omitempty"`
	Analysis   *CallAnalysis `json:"analysis,omitempty"`
}

// CallAnalysis is the platform's structured read of what happened on the
// call. It drives retroactive lead capture and appointment booking for
// callers the live agent could not fully serve.
type CallAnalysis struct {
	CustomerName  string `json:"customer_name,omitempty"`
	CustomerPhone string `json:"customer_phone,omitempty"`
	CustomerEmail string `json:"customer_email,omitempty"`

	IsLead          bool   `json:"is_lead,omitempty"`
	CompanyName     string `json:"company_name,omitempty"`
	FleetSize       *int   `json:"fleet_size,omitempty"`
	Interests       string `json:"interests,omitempty"`
	Timeline        string `json:"timeline,omitempty"`
	BudgetRange     string `json:"budget_range,omitempty"`
	EVInterest      bool   `json:"ev_interest,omitempty"`
	CurrentProvider string `json:"current_provider,omitempty"`

	AppointmentBooked bool   `json:"appointment_booked,omitempty"`
	AppointmentType   string `json:"appointment_type,omitempty"`
	AppointmentDate   string `json:"appointment_date,omitempty"` // YYYY-MM-DD
	AppointmentTime   string `json:"appointment_time,omitempty"` // slot label
}

// VoiceWebhookHandler persists call records from platform events and runs
// post-call extraction against the same engines the live tools use.
type VoiceWebhookHandler struct {
	calls   calls.Repository
	engine  *appointments.Engine
	leadSvc *leads.Service
	logger  *logging.Logger
	now     func() time.Time
}

func NewVoiceWebhookHandler(callRepo calls.Repository, engine *appointments.Engine, leadSvc *leads.Service, logger *logging.Logger) *VoiceWebhookHandler {
	if callRepo == nil {
		panic("handlers: call repository is required")
	}
	if engine == nil {
		panic("handlers: appointment engine is required")
	}
	if leadSvc == nil {
		panic("handlers: lead service is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &VoiceWebhookHandler{
		calls:   callRepo,
		engine:  engine,
		leadSvc: leadSvc,
		logger:  logger,
		now:     time.Now,
	}
}

// WithClock overrides the handler's time source. Intended for tests.
func (h *VoiceWebhookHandler) WithClock(now func() time.Time) *VoiceWebhookHandler {
	h.now = now
	return h
}

// HandleVoiceWebhook is the HTTP handler for POST /webhooks/voice.
func (h *VoiceWebhookHandler) HandleVoiceWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	var event VoiceWebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		h.logger.Error("voice webhook: failed to parse event", "error", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if event.CallID == "" {
		http.Error(w, "call_id is required", http.StatusBadRequest)
		return
	}

	h.logger.Info("voice webhook: received event", "event", event.Event, "call_id", event.CallID)

	switch event.Event {
	case EventCallStarted:
		h.handleStarted(ctx, w, event)
	case EventCallEnded:
		h.handleEnded(ctx, w, event)
	case EventCallAnalyzed:
		h.handleAnalyzed(ctx, w, event)
	default:
		h.logger.Warn("voice webhook: unknown event type", "event", event.Event)
		writeJSON(w, http.StatusOK, map[string]string{"status": "unknown_event"})
	}
}

func (h *VoiceWebhookHandler) handleStarted(ctx context.Context, w http.ResponseWriter, event VoiceWebhookEvent) {
	call := calls.Call{
		ID:          event.CallID,
		CallerPhone: event.From,
		Status:      calls.StatusInProgress,
		StartedAt:   h.now().UTC(),
	}
	if err := h.calls.Upsert(ctx, call); err != nil {
		h.logger.Error("voice webhook: persist call", "call_id", event.CallID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "acknowledged", "call_id": event.CallID})
}

func (h *VoiceWebhookHandler) handleEnded(ctx context.Context, w http.ResponseWriter, event VoiceWebhookEvent) {
	call := h.loadOrStub(ctx, event)
	ended := h.now().UTC()
	call.Status = calls.StatusEnded
	call.EndedAt = &ended
	call.DurationSeconds = event.Duration
	call.Transcript = event.Transcript
	call.Summary = event.Summary

	// The platform sometimes inlines the analysis with call.ended instead
	// of sending a separate call.analyzed event.
	if event.Analysis != nil {
		h.extract(ctx, &call, event.Analysis)
		call.Status = calls.StatusAnalyzed
	}

	if err := h.calls.Upsert(ctx, call); err != nil {
		h.logger.Error("voice webhook: persist call", "call_id", event.CallID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "processed", "call_id": event.CallID})
}

func (h *VoiceWebhookHandler) handleAnalyzed(ctx context.Context, w http.ResponseWriter, event VoiceWebhookEvent) {
	call := h.loadOrStub(ctx, event)
	call.Status = calls.StatusAnalyzed
	if event.Summary != "" {
		call.Summary = event.Summary
	}
	if event.Analysis != nil {
		h.extract(ctx, &call, event.Analysis)
	}

	if err := h.calls.Upsert(ctx, call); err != nil {
		h.logger.Error("voice webhook: persist call", "call_id", event.CallID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "processed", "call_id": event.CallID})
}

// loadOrStub returns the stored record for the event's call, or a fresh one
// when events arrived out of order and call.started was never seen.
func (h *VoiceWebhookHandler) loadOrStub(ctx context.Context, event VoiceWebhookEvent) calls.Call {
	if existing, err := h.calls.Get(ctx, event.CallID); err == nil {
		return *existing
	}
	return calls.Call{
		ID:          event.CallID,
		CallerPhone: event.From,
		StartedAt:   h.now().UTC(),
	}
}

// extract retroactively captures a lead and books an appointment from the
// post-call analysis, reusing the same engines the live tools go through so
// scoring and validation rules hold either way.
func (h *VoiceWebhookHandler) extract(ctx context.Context, call *calls.Call, a *CallAnalysis) {
	if a.IsLead {
		lead, err := h.leadSvc.Capture(ctx, leads.CaptureRequest{
			ContactName:      a.CustomerName,
			ContactPhone:     a.CustomerPhone,
			ContactEmail:     a.CustomerEmail,
			Source:           leads.SourceVoiceAgent,
			CompanyName:      a.CompanyName,
			CurrentFleetSize: a.FleetSize,
			VehicleInterests: a.Interests,
			Timeline:         a.Timeline,
			BudgetRange:      a.BudgetRange,
			EVInterest:       a.EVInterest,
			CurrentProvider:  a.CurrentProvider,
			InquiryNotes:     "Captured from post-call analysis of " + call.ID,
		})
		if err != nil {
			h.logger.Warn("voice webhook: lead extraction failed", "call_id", call.ID, "error", err)
		} else {
			call.LeadID = lead.ID
		}
	}

	if a.AppointmentBooked {
		appt, err := h.engine.Book(ctx, appointments.BookingRequest{
			CustomerName:  a.CustomerName,
			ContactPhone:  a.CustomerPhone,
			ContactEmail:  a.CustomerEmail,
			Type:          appointments.Type(a.AppointmentType),
			PreferredDate: a.AppointmentDate,
			PreferredSlot: parseSlot(a.AppointmentTime),
			Notes:         "Booked from post-call analysis of " + call.ID,
		})
		if err != nil {
			h.logger.Warn("voice webhook: appointment extraction failed", "call_id", call.ID, "error", err)
		} else {
			call.AppointmentID = appt.ID
		}
	}
}

// parseSlot matches the analysis time against the slot labels, falling back
// to morning when the platform sent free text.
func parseSlot(s string) appointments.Slot {
	for _, slot := range appointments.Slots() {
		if string(slot) == s {
			return slot
		}
	}
	return appointments.SlotMorning
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
