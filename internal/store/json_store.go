package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fleetline/driver-desk/internal/appointments"
	"github.com/fleetline/driver-desk/internal/callbacks"
	"github.com/fleetline/driver-desk/internal/calls"
	"github.com/fleetline/driver-desk/internal/leads"
)

const (
	appointmentsFile = "appointments.json"
	leadsFile        = "leads.json"
	callbacksFile    = "callbacks.json"
	callsFile        = "calls.json"
)

// JSONStore keeps each collection in one JSON array file under a data
// directory. Every write rewrites the whole file, so a single process
// mutex serializes all read-modify-write cycles. That makes the store
// safe within one process but not across processes.
type JSONStore struct {
	dir string
	mu  sync.Mutex
}

func NewJSONStore(dir string) (*JSONStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create data dir %s: %w", dir, err)
	}
	return &JSONStore{dir: dir}, nil
}

func (s *JSONStore) Appointments() appointments.Repository { return &jsonAppointments{s} }
func (s *JSONStore) Leads() leads.Repository               { return &jsonLeads{s} }
func (s *JSONStore) Callbacks() callbacks.Repository       { return &jsonCallbacks{s} }
func (s *JSONStore) Calls() calls.Repository               { return &jsonCalls{s} }

var _ Store = (*JSONStore)(nil)

func loadFile[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", path, err)
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("store: decode %s: %w", path, err)
	}
	return items, nil
}

func saveFile[T any](path string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", path, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("store: write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("store: replace %s: %w", path, err)
	}
	return nil
}

func appendTo[T any](s *JSONStore, file string, item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	path := filepath.Join(s.dir, file)
	items, err := loadFile[T](path)
	if err != nil {
		return err
	}
	return saveFile(path, append(items, item))
}

func listFrom[T any](s *JSONStore, file string) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return loadFile[T](filepath.Join(s.dir, file))
}

func updateIn[T any](s *JSONStore, file string, match func(T) bool, item T, notFound error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	path := filepath.Join(s.dir, file)
	items, err := loadFile[T](path)
	if err != nil {
		return err
	}
	for i := range items {
		if match(items[i]) {
			items[i] = item
			return saveFile(path, items)
		}
	}
	return notFound
}

func upsertIn[T any](s *JSONStore, file string, match func(T) bool, item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	path := filepath.Join(s.dir, file)
	items, err := loadFile[T](path)
	if err != nil {
		return err
	}
	for i := range items {
		if match(items[i]) {
			items[i] = item
			return saveFile(path, items)
		}
	}
	return saveFile(path, append(items, item))
}

type jsonAppointments struct{ s *JSONStore }

func (r *jsonAppointments) Append(ctx context.Context, appt appointments.Appointment) error {
	return appendTo(r.s, appointmentsFile, appt)
}

func (r *jsonAppointments) List(ctx context.Context) ([]appointments.Appointment, error) {
	return listFrom[appointments.Appointment](r.s, appointmentsFile)
}

func (r *jsonAppointments) Get(ctx context.Context, id string) (*appointments.Appointment, error) {
	items, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == id {
			appt := items[i]
			return &appt, nil
		}
	}
	return nil, appointments.ErrNotFound
}

func (r *jsonAppointments) Update(ctx context.Context, appt appointments.Appointment) error {
	return updateIn(r.s, appointmentsFile,
		func(a appointments.Appointment) bool { return a.ID == appt.ID },
		appt, appointments.ErrNotFound)
}

type jsonLeads struct{ s *JSONStore }

func (r *jsonLeads) Append(ctx context.Context, lead leads.Lead) error {
	return appendTo(r.s, leadsFile, lead)
}

func (r *jsonLeads) List(ctx context.Context) ([]leads.Lead, error) {
	return listFrom[leads.Lead](r.s, leadsFile)
}

func (r *jsonLeads) Get(ctx context.Context, id string) (*leads.Lead, error) {
	items, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == id {
			lead := items[i]
			return &lead, nil
		}
	}
	return nil, leads.ErrNotFound
}

func (r *jsonLeads) Update(ctx context.Context, lead leads.Lead) error {
	return updateIn(r.s, leadsFile,
		func(l leads.Lead) bool { return l.ID == lead.ID },
		lead, leads.ErrNotFound)
}

type jsonCallbacks struct{ s *JSONStore }

func (r *jsonCallbacks) Append(ctx context.Context, cb callbacks.Callback) error {
	return appendTo(r.s, callbacksFile, cb)
}

func (r *jsonCallbacks) List(ctx context.Context) ([]callbacks.Callback, error) {
	return listFrom[callbacks.Callback](r.s, callbacksFile)
}

func (r *jsonCallbacks) Get(ctx context.Context, id string) (*callbacks.Callback, error) {
	items, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == id {
			cb := items[i]
			return &cb, nil
		}
	}
	return nil, callbacks.ErrNotFound
}

func (r *jsonCallbacks) Update(ctx context.Context, cb callbacks.Callback) error {
	return updateIn(r.s, callbacksFile,
		func(c callbacks.Callback) bool { return c.ID == cb.ID },
		cb, callbacks.ErrNotFound)
}

type jsonCalls struct{ s *JSONStore }

func (r *jsonCalls) Upsert(ctx context.Context, call calls.Call) error {
	return upsertIn(r.s, callsFile,
		func(c calls.Call) bool { return c.ID == call.ID },
		call)
}

func (r *jsonCalls) List(ctx context.Context) ([]calls.Call, error) {
	return listFrom[calls.Call](r.s, callsFile)
}

func (r *jsonCalls) Get(ctx context.Context, id string) (*calls.Call, error) {
	items, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == id {
			call := items[i]
			return &call, nil
		}
	}
	return nil, calls.ErrNotFound
}
