package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fleetline/driver-desk/internal/appointments"
	"github.com/fleetline/driver-desk/internal/calendar"
	"github.com/fleetline/driver-desk/internal/calls"
	"github.com/fleetline/driver-desk/internal/leads"
	"github.com/fleetline/driver-desk/internal/store"
	"github.com/fleetline/driver-desk/pkg/logging"
)

// fixedNow is Wednesday 4 March 2026, 11:00 London time.
func webhookFixture(t *testing.T) (*VoiceWebhookHandler, store.Store) {
	t.Helper()
	cal, err := calendar.New()
	if err != nil {
		t.Fatalf("calendar: %v", err)
	}
	fixed := time.Date(2026, time.March, 4, 11, 0, 0, 0, cal.Location())
	clock := func() time.Time { return fixed }

	st := store.NewMemoryStore()
	engine := appointments.NewEngine(st.Appointments(), cal, logging.Default()).WithClock(clock)
	leadSvc := leads.NewService(st.Leads(), logging.Default()).WithClock(clock)
	h := NewVoiceWebhookHandler(st.Calls(), engine, leadSvc, logging.Default()).WithClock(clock)
	return h, st
}

func postEvent(t *testing.T, h *VoiceWebhookHandler, event VoiceWebhookEvent) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/webhooks/voice", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleVoiceWebhook(rec, req)
	return rec
}

func TestCallStartedCreatesRecord(t *testing.T) {
	h, st := webhookFixture(t)

	rec := postEvent(t, h, VoiceWebhookEvent{
		Event:  EventCallStarted,
		CallID: "call-1",
		From:   "+447700900123",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	call, err := st.Calls().Get(context.Background(), "call-1")
	if err != nil {
		t.Fatalf("get call: %v", err)
	}
	if call.Status != calls.StatusInProgress {
		t.Errorf("status = %s, want %s", call.Status, calls.StatusInProgress)
	}
	if call.CallerPhone != "+447700900123" {
		t.Errorf("caller = %q", call.CallerPhone)
	}
}

func TestCallEndedUpdatesExistingRecord(t *testing.T) {
	h, st := webhookFixture(t)

	postEvent(t, h, VoiceWebhookEvent{Event: EventCallStarted, CallID: "call-2", From: "+447700900123"})
	rec := postEvent(t, h, VoiceWebhookEvent{
		Event:      EventCallEnded,
		CallID:     "call-2",
		Duration:   184,
		Transcript: "full transcript",
		Summary:    "caller asked about EV leasing",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	call, _ := st.Calls().Get(context.Background(), "call-2")
	if call.Status != calls.StatusEnded {
		t.Errorf("status = %s, want %s", call.Status, calls.StatusEnded)
	}
	if call.EndedAt == nil {
		t.Error("ended_at should be stamped")
	}
	if call.DurationSeconds != 184 || call.Summary == "" {
		t.Errorf("duration = %d, summary = %q", call.DurationSeconds, call.Summary)
	}
	if call.CallerPhone != "+447700900123" {
		t.Error("caller phone from call.started should be preserved")
	}

	records, _ := st.Calls().List(context.Background())
	if len(records) != 1 {
		t.Fatalf("%d call records, want 1 (upsert, not append)", len(records))
	}
}

func TestCallEndedWithoutStartStubsRecord(t *testing.T) {
	h, st := webhookFixture(t)

	postEvent(t, h, VoiceWebhookEvent{Event: EventCallEnded, CallID: "call-3", From: "+447700900999", Duration: 30})

	call, err := st.Calls().Get(context.Background(), "call-3")
	if err != nil {
		t.Fatalf("get call: %v", err)
	}
	if call.Status != calls.StatusEnded {
		t.Errorf("status = %s", call.Status)
	}
}

func TestAnalysisCapturesLeadAndBooksAppointment(t *testing.T) {
	h, st := webhookFixture(t)

	fleet := 120
	rec := postEvent(t, h, VoiceWebhookEvent{
		Event:   EventCallAnalyzed,
		CallID:  "call-4",
		Summary: "fleet consultation request",
		Analysis: &CallAnalysis{
			CustomerName:  "James Okafor",
			CustomerPhone: "+447700900456",
			IsLead:        true,
			CompanyName:   "Okafor Logistics",
			FleetSize:     &fleet,
			Timeline:      "immediate",
			BudgetRange:   "500-800 per vehicle",
			EVInterest:    true,

			AppointmentBooked: true,
			AppointmentType:   "Fleet Consultation",
			AppointmentDate:   "2026-03-10",
			AppointmentTime:   "Afternoon (12-3)",
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	call, _ := st.Calls().Get(context.Background(), "call-4")
	if call.Status != calls.StatusAnalyzed {
		t.Errorf("status = %s, want %s", call.Status, calls.StatusAnalyzed)
	}
	if !strings.HasPrefix(call.LeadID, "LEAD-") {
		t.Errorf("lead id = %q", call.LeadID)
	}
	if !strings.HasPrefix(call.AppointmentID, "APT-") {
		t.Errorf("appointment id = %q", call.AppointmentID)
	}

	stored, err := st.Leads().Get(context.Background(), call.LeadID)
	if err != nil {
		t.Fatalf("get lead: %v", err)
	}
	if stored.Priority != leads.PriorityHigh {
		t.Errorf("priority = %s, want High (company + large fleet + immediate + budget + EV)", stored.Priority)
	}

	appt, err := st.Appointments().Get(context.Background(), call.AppointmentID)
	if err != nil {
		t.Fatalf("get appointment: %v", err)
	}
	if appt.Type != appointments.TypeFleetConsultation || appt.Slot != appointments.SlotAfternoon {
		t.Errorf("appointment = %s %s", appt.Type, appt.Slot)
	}
}

func TestAnalysisExtractionFailuresAreNonFatal(t *testing.T) {
	h, st := webhookFixture(t)

	// Lead without contact details and a weekend booking both fail engine
	// validation; the call record must still be written.
	rec := postEvent(t, h, VoiceWebhookEvent{
		Event:  EventCallAnalyzed,
		CallID: "call-5",
		Analysis: &CallAnalysis{
			IsLead:            true,
			AppointmentBooked: true,
			CustomerName:      "No Contact",
			AppointmentType:   "MOT",
			AppointmentDate:   "2026-03-07", // Saturday
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	call, err := st.Calls().Get(context.Background(), "call-5")
	if err != nil {
		t.Fatalf("get call: %v", err)
	}
	if call.LeadID != "" || call.AppointmentID != "" {
		t.Errorf("extraction ids should be empty, got lead=%q appt=%q", call.LeadID, call.AppointmentID)
	}
}

func TestUnknownEventIsAcknowledged(t *testing.T) {
	h, _ := webhookFixture(t)

	rec := postEvent(t, h, VoiceWebhookEvent{Event: "call.recorded", CallID: "call-6"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["status"] != "unknown_event" {
		t.Errorf("status = %q", resp["status"])
	}
}

func TestMissingCallIDRejected(t *testing.T) {
	h, _ := webhookFixture(t)

	rec := postEvent(t, h, VoiceWebhookEvent{Event: EventCallStarted})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestMalformedBodyRejected(t *testing.T) {
	h, _ := webhookFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/voice", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.HandleVoiceWebhook(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
