package store

import (
	"context"
	"sync"

	"github.com/fleetline/driver-desk/internal/appointments"
	"github.com/fleetline/driver-desk/internal/callbacks"
	"github.com/fleetline/driver-desk/internal/calls"
	"github.com/fleetline/driver-desk/internal/leads"
)

// MemoryStore holds every collection in process memory. Used by tests
// and the local console, where nothing needs to survive a restart.
type MemoryStore struct {
	mu        sync.RWMutex
	appts     []appointments.Appointment
	leadRecs  []leads.Lead
	cbs       []callbacks.Callback
	callsList []calls.Call
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Appointments() appointments.Repository { return &memAppointments{s} }
func (s *MemoryStore) Leads() leads.Repository               { return &memLeads{s} }
func (s *MemoryStore) Callbacks() callbacks.Repository       { return &memCallbacks{s} }
func (s *MemoryStore) Calls() calls.Repository               { return &memCalls{s} }

var _ Store = (*MemoryStore)(nil)

type memAppointments struct{ s *MemoryStore }

func (r *memAppointments) Append(ctx context.Context, appt appointments.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.appts = append(r.s.appts, appt)
	return nil
}

func (r *memAppointments) List(ctx context.Context) ([]appointments.Appointment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]appointments.Appointment, len(r.s.appts))
	copy(out, r.s.appts)
	return out, nil
}

func (r *memAppointments) Get(ctx context.Context, id string) (*appointments.Appointment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for i := range r.s.appts {
		if r.s.appts[i].ID == id {
			appt := r.s.appts[i]
			return &appt, nil
		}
	}
	return nil, appointments.ErrNotFound
}

func (r *memAppointments) Update(ctx context.Context, appt appointments.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.appts {
		if r.s.appts[i].ID == appt.ID {
			r.s.appts[i] = appt
			return nil
		}
	}
	return appointments.ErrNotFound
}

type memLeads struct{ s *MemoryStore }

func (r *memLeads) Append(ctx context.Context, lead leads.Lead) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.leadRecs = append(r.s.leadRecs, lead)
	return nil
}

func (r *memLeads) List(ctx context.Context) ([]leads.Lead, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]leads.Lead, len(r.s.leadRecs))
	copy(out, r.s.leadRecs)
	return out, nil
}

func (r *memLeads) Get(ctx context.Context, id string) (*leads.Lead, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for i := range r.s.leadRecs {
		if r.s.leadRecs[i].ID == id {
			lead := r.s.leadRecs[i]
			return &lead, nil
		}
	}
	return nil, leads.ErrNotFound
}

func (r *memLeads) Update(ctx context.Context, lead leads.Lead) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.leadRecs {
		if r.s.leadRecs[i].ID == lead.ID {
			r.s.leadRecs[i] = lead
			return nil
		}
	}
	return leads.ErrNotFound
}

type memCallbacks struct{ s *MemoryStore }

func (r *memCallbacks) Append(ctx context.Context, cb callbacks.Callback) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.cbs = append(r.s.cbs, cb)
	return nil
}

func (r *memCallbacks) List(ctx context.Context) ([]callbacks.Callback, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]callbacks.Callback, len(r.s.cbs))
	copy(out, r.s.cbs)
	return out, nil
}

func (r *memCallbacks) Get(ctx context.Context, id string) (*callbacks.Callback, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for i := range r.s.cbs {
		if r.s.cbs[i].ID == id {
			cb := r.s.cbs[i]
			return &cb, nil
		}
	}
	return nil, callbacks.ErrNotFound
}

func (r *memCallbacks) Update(ctx context.Context, cb callbacks.Callback) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.cbs {
		if r.s.cbs[i].ID == cb.ID {
			r.s.cbs[i] = cb
			return nil
		}
	}
	return callbacks.ErrNotFound
}

type memCalls struct{ s *MemoryStore }

func (r *memCalls) Upsert(ctx context.Context, call calls.Call) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.callsList {
		if r.s.callsList[i].ID == call.ID {
			r.s.callsList[i] = call
			return nil
		}
	}
	r.s.callsList = append(r.s.callsList, call)
	return nil
}

func (r *memCalls) List(ctx context.Context) ([]calls.Call, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]calls.Call, len(r.s.callsList))
	copy(out, r.s.callsList)
	return out, nil
}

func (r *memCalls) Get(ctx context.Context, id string) (*calls.Call, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for i := range r.s.callsList {
		if r.s.callsList[i].ID == id {
			call := r.s.callsList[i]
			return &call, nil
		}
	}
	return nil, calls.ErrNotFound
}
