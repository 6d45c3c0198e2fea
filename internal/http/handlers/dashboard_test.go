package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fleetline/driver-desk/internal/appointments"
	"github.com/fleetline/driver-desk/internal/callbacks"
	"github.com/fleetline/driver-desk/internal/calls"
	"github.com/fleetline/driver-desk/internal/leads"
	"github.com/fleetline/driver-desk/internal/store"
	"github.com/fleetline/driver-desk/pkg/logging"
)

func seedStore(t *testing.T) store.Store {
	t.Helper()
	st := store.NewMemoryStore()
	ctx := context.Background()

	for _, appt := range []appointments.Appointment{
		{ID: "APT-1", Type: appointments.TypeMOT, Status: appointments.StatusConfirmed},
		{ID: "APT-2", Type: appointments.TypeMOT, Status: appointments.StatusCancelled},
		{ID: "APT-3", Type: appointments.TypeSalesDemo, Status: appointments.StatusConfirmed},
	} {
		if err := st.Appointments().Append(ctx, appt); err != nil {
			t.Fatalf("seed appointment: %v", err)
		}
	}

	for _, lead := range []leads.Lead{
		{ID: "LEAD-1", Priority: leads.PriorityHigh, Status: leads.StatusNew, Score: 85},
		{ID: "LEAD-2", Priority: leads.PriorityLow, Status: leads.StatusNew, Score: 15},
	} {
		if err := st.Leads().Append(ctx, lead); err != nil {
			t.Fatalf("seed lead: %v", err)
		}
	}

	if err := st.Callbacks().Append(ctx, callbacks.Callback{ID: "CB-1", Status: callbacks.StatusPending, IsUrgent: true}); err != nil {
		t.Fatalf("seed callback: %v", err)
	}
	if err := st.Calls().Upsert(ctx, calls.Call{ID: "call-1", Status: calls.StatusEnded, StartedAt: time.Now().UTC(), DurationSeconds: 120}); err != nil {
		t.Fatalf("seed call: %v", err)
	}
	return st
}

func get(t *testing.T, handle http.HandlerFunc, path string, into any) {
	t.Helper()
	rec := httptest.NewRecorder()
	handle(rec, httptest.NewRequest(http.MethodGet, path, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET %s status = %d", path, rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), into); err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
}

func TestDashboardListEndpoints(t *testing.T) {
	h := NewDashboardHandler(seedStore(t), logging.Default())

	var appts struct {
		Appointments []appointments.Appointment `json:"appointments"`
	}
	get(t, h.HandleAppointments, "/api/appointments", &appts)
	if len(appts.Appointments) != 3 {
		t.Errorf("%d appointments, want 3", len(appts.Appointments))
	}

	var leadResp struct {
		Leads []leads.Lead `json:"leads"`
	}
	get(t, h.HandleLeads, "/api/leads", &leadResp)
	if len(leadResp.Leads) != 2 {
		t.Errorf("%d leads, want 2", len(leadResp.Leads))
	}

	var cbResp struct {
		Callbacks []callbacks.Callback `json:"callbacks"`
	}
	get(t, h.HandleCallbacks, "/api/callbacks", &cbResp)
	if len(cbResp.Callbacks) != 1 {
		t.Errorf("%d callbacks, want 1", len(cbResp.Callbacks))
	}

	var callResp struct {
		Calls []calls.Call `json:"calls"`
	}
	get(t, h.HandleCalls, "/api/calls", &callResp)
	if len(callResp.Calls) != 1 {
		t.Errorf("%d calls, want 1", len(callResp.Calls))
	}
}

func TestDashboardEmptyStoreReturnsEmptyArrays(t *testing.T) {
	h := NewDashboardHandler(store.NewMemoryStore(), logging.Default())

	rec := httptest.NewRecorder()
	h.HandleAppointments(rec, httptest.NewRequest(http.MethodGet, "/api/appointments", nil))
	if got := rec.Body.String(); !json.Valid([]byte(got)) || got == "" {
		t.Fatalf("body = %q", got)
	}
	var resp map[string]json.RawMessage
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if string(resp["appointments"]) != "[]" {
		t.Errorf("appointments = %s, want []", resp["appointments"])
	}
}

func TestDashboardAnalytics(t *testing.T) {
	h := NewDashboardHandler(seedStore(t), logging.Default())

	var analytics Analytics
	get(t, h.HandleAnalytics, "/api/analytics", &analytics)

	if analytics.Appointments.Total != 3 {
		t.Errorf("appointment total = %d", analytics.Appointments.Total)
	}
	if analytics.Appointments.ByStatus["Confirmed"] != 2 {
		t.Errorf("confirmed = %d, want 2", analytics.Appointments.ByStatus["Confirmed"])
	}
	if analytics.Appointments.ByType["MOT"] != 2 {
		t.Errorf("MOT count = %d, want 2", analytics.Appointments.ByType["MOT"])
	}

	if analytics.Leads.ByPriority["High"] != 1 || analytics.Leads.ByPriority["Low"] != 1 {
		t.Errorf("priority distribution = %v", analytics.Leads.ByPriority)
	}
	if analytics.Leads.AverageScore != 50 {
		t.Errorf("average score = %v, want 50", analytics.Leads.AverageScore)
	}

	if analytics.Callbacks.Pending != 1 || analytics.Callbacks.Urgent != 1 {
		t.Errorf("callbacks = %+v", analytics.Callbacks)
	}
	if analytics.Calls.AverageDurationSeconds != 120 {
		t.Errorf("average duration = %v", analytics.Calls.AverageDurationSeconds)
	}
}
