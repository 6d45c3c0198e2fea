package handlers

import (
	"net/http"

	"github.com/fleetline/driver-desk/internal/appointments"
	"github.com/fleetline/driver-desk/internal/callbacks"
	"github.com/fleetline/driver-desk/internal/calls"
	"github.com/fleetline/driver-desk/internal/leads"
	"github.com/fleetline/driver-desk/internal/store"
	"github.com/fleetline/driver-desk/pkg/logging"
)

// DashboardHandler serves the read-only operational views over the record
// store. There is no write surface here; records are created by the agent
// tools and the voice webhook.
type DashboardHandler struct {
	store  store.Store
	logger *logging.Logger
}

func NewDashboardHandler(st store.Store, logger *logging.Logger) *DashboardHandler {
	if st == nil {
		panic("handlers: store is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &DashboardHandler{store: st, logger: logger}
}

// HandleAppointments is GET /api/appointments.
func (h *DashboardHandler) HandleAppointments(w http.ResponseWriter, r *http.Request) {
	appts, err := h.store.Appointments().List(r.Context())
	if err != nil {
		h.fail(w, "list appointments", err)
		return
	}
	if appts == nil {
		appts = []appointments.Appointment{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"appointments": appts})
}

// HandleLeads is GET /api/leads.
func (h *DashboardHandler) HandleLeads(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.Leads().List(r.Context())
	if err != nil {
		h.fail(w, "list leads", err)
		return
	}
	if records == nil {
		records = []leads.Lead{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"leads": records})
}

// HandleCallbacks is GET /api/callbacks.
func (h *DashboardHandler) HandleCallbacks(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.Callbacks().List(r.Context())
	if err != nil {
		h.fail(w, "list callbacks", err)
		return
	}
	if records == nil {
		records = []callbacks.Callback{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"callbacks": records})
}

// HandleCalls is GET /api/calls.
func (h *DashboardHandler) HandleCalls(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.Calls().List(r.Context())
	if err != nil {
		h.fail(w, "list calls", err)
		return
	}
	if records == nil {
		records = []calls.Call{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"calls": records})
}

// Analytics is the GET /api/analytics response body.
type Analytics struct {
	Appointments AppointmentAnalytics `json:"appointments"`
	Leads        LeadAnalytics        `json:"leads"`
	Callbacks    CallbackAnalytics    `json:"callbacks"`
	Calls        CallVolumeAnalytics  `json:"calls"`
}

type AppointmentAnalytics struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"by_status"`
	ByType   map[string]int `json:"by_type"`
}

type LeadAnalytics struct {
	Total        int            `json:"total"`
	ByPriority   map[string]int `json:"by_priority"`
	ByStatus     map[string]int `json:"by_status"`
	AverageScore float64        `json:"average_score"`
}

type CallbackAnalytics struct {
	Total   int `json:"total"`
	Pending int `json:"pending"`
	Urgent  int `json:"urgent"`
}

type CallVolumeAnalytics struct {
	Total                  int     `json:"total"`
	AverageDurationSeconds float64 `json:"average_duration_seconds"`
}

// HandleAnalytics is GET /api/analytics.
func (h *DashboardHandler) HandleAnalytics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	appts, err := h.store.Appointments().List(ctx)
	if err != nil {
		h.fail(w, "list appointments", err)
		return
	}
	leadRecords, err := h.store.Leads().List(ctx)
	if err != nil {
		h.fail(w, "list leads", err)
		return
	}
	callbackRecords, err := h.store.Callbacks().List(ctx)
	if err != nil {
		h.fail(w, "list callbacks", err)
		return
	}
	callRecords, err := h.store.Calls().List(ctx)
	if err != nil {
		h.fail(w, "list calls", err)
		return
	}

	analytics := Analytics{
		Appointments: AppointmentAnalytics{
			Total:    len(appts),
			ByStatus: map[string]int{},
			ByType:   map[string]int{},
		},
		Leads: LeadAnalytics{
			Total:      len(leadRecords),
			ByPriority: map[string]int{},
			ByStatus:   map[string]int{},
		},
		Callbacks: CallbackAnalytics{Total: len(callbackRecords)},
		Calls:     CallVolumeAnalytics{Total: len(callRecords)},
	}

	for _, a := range appts {
		analytics.Appointments.ByStatus[string(a.Status)]++
		analytics.Appointments.ByType[string(a.Type)]++
	}

	scoreSum := 0
	for _, l := range leadRecords {
		analytics.Leads.ByPriority[string(l.Priority)]++
		analytics.Leads.ByStatus[string(l.Status)]++
		scoreSum += l.Score
	}
	if len(leadRecords) > 0 {
		analytics.Leads.AverageScore = float64(scoreSum) / float64(len(leadRecords))
	}

	for _, cb := range callbackRecords {
		if cb.Status == callbacks.StatusPending {
			analytics.Callbacks.Pending++
		}
		if cb.IsUrgent {
			analytics.Callbacks.Urgent++
		}
	}

	durationSum := 0
	for _, c := range callRecords {
		durationSum += c.DurationSeconds
	}
	if len(callRecords) > 0 {
		analytics.Calls.AverageDurationSeconds = float64(durationSum) / float64(len(callRecords))
	}

	writeJSON(w, http.StatusOK, analytics)
}

func (h *DashboardHandler) fail(w http.ResponseWriter, op string, err error) {
	h.logger.Error("dashboard: "+op, "error", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}
