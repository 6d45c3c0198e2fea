package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fleetline/driver-desk/internal/appointments"
	"github.com/fleetline/driver-desk/internal/callbacks"
	"github.com/fleetline/driver-desk/internal/calls"
	"github.com/fleetline/driver-desk/internal/leads"
)

// PostgresStore keeps each record as a jsonb document keyed by its id.
// The document is the single source of truth; columns beyond the id
// exist only for keying, so the relational schema never chases the
// record shape.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	if db == nil {
		panic("store: db is required")
	}
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Appointments() appointments.Repository { return &pgAppointments{s.db} }
func (s *PostgresStore) Leads() leads.Repository               { return &pgLeads{s.db} }
func (s *PostgresStore) Callbacks() callbacks.Repository       { return &pgCallbacks{s.db} }
func (s *PostgresStore) Calls() calls.Repository               { return &pgCalls{s.db} }

var _ Store = (*PostgresStore)(nil)

func insertDoc(ctx context.Context, db *sql.DB, table, id string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("store: encode %s %s: %w", table, id, err)
	}
	query := fmt.Sprintf("INSERT INTO %s (id, doc) VALUES ($1, $2)", table)
	if _, err := db.ExecContext(ctx, query, id, data); err != nil {
		return fmt.Errorf("store: insert %s %s: %w", table, id, err)
	}
	return nil
}

func updateDoc(ctx context.Context, db *sql.DB, table, id string, doc any, notFound error) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("store: encode %s %s: %w", table, id, err)
	}
	query := fmt.Sprintf("UPDATE %s SET doc = $2, updated_at = now() WHERE id = $1", table)
	res, err := db.ExecContext(ctx, query, id, data)
	if err != nil {
		return fmt.Errorf("store: update %s %s: %w", table, id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return notFound
	}
	return nil
}

func upsertDoc(ctx context.Context, db *sql.DB, table, id string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("store: encode %s %s: %w", table, id, err)
	}
	query := fmt.Sprintf(
		"INSERT INTO %s (id, doc) VALUES ($1, $2) ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()",
		table)
	if _, err := db.ExecContext(ctx, query, id, data); err != nil {
		return fmt.Errorf("store: upsert %s %s: %w", table, id, err)
	}
	return nil
}

func getDoc[T any](ctx context.Context, db *sql.DB, table, id string, notFound error) (*T, error) {
	query := fmt.Sprintf("SELECT doc FROM %s WHERE id = $1", table)
	var data []byte
	if err := db.QueryRowContext(ctx, query, id).Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound
		}
		return nil, fmt.Errorf("store: select %s %s: %w", table, id, err)
	}
	var item T
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, fmt.Errorf("store: decode %s %s: %w", table, id, err)
	}
	return &item, nil
}

func listDocs[T any](ctx context.Context, db *sql.DB, table string) ([]T, error) {
	query := fmt.Sprintf("SELECT doc FROM %s ORDER BY created_at, id", table)
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("store: list %s: %w", table, err)
	}
	defer rows.Close()

	var items []T
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("store: scan %s: %w", table, err)
		}
		var item T
		if err := json.Unmarshal(data, &item); err != nil {
			return nil, fmt.Errorf("store: decode %s: %w", table, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list %s: %w", table, err)
	}
	return items, nil
}

type pgAppointments struct{ db *sql.DB }

func (r *pgAppointments) Append(ctx context.Context, appt appointments.Appointment) error {
	return insertDoc(ctx, r.db, "appointments", appt.ID, appt)
}

func (r *pgAppointments) List(ctx context.Context) ([]appointments.Appointment, error) {
	return listDocs[appointments.Appointment](ctx, r.db, "appointments")
}

func (r *pgAppointments) Get(ctx context.Context, id string) (*appointments.Appointment, error) {
	return getDoc[appointments.Appointment](ctx, r.db, "appointments", id, appointments.ErrNotFound)
}

func (r *pgAppointments) Update(ctx context.Context, appt appointments.Appointment) error {
	return updateDoc(ctx, r.db, "appointments", appt.ID, appt, appointments.ErrNotFound)
}

type pgLeads struct{ db *sql.DB }

func (r *pgLeads) Append(ctx context.Context, lead leads.Lead) error {
	return insertDoc(ctx, r.db, "leads", lead.ID, lead)
}

func (r *pgLeads) List(ctx context.Context) ([]leads.Lead, error) {
	return listDocs[leads.Lead](ctx, r.db, "leads")
}

func (r *pgLeads) Get(ctx context.Context, id string) (*leads.Lead, error) {
	return getDoc[leads.Lead](ctx, r.db, "leads", id, leads.ErrNotFound)
}

func (r *pgLeads) Update(ctx context.Context, lead leads.Lead) error {
	return updateDoc(ctx, r.db, "leads", lead.ID, lead, leads.ErrNotFound)
}

type pgCallbacks struct{ db *sql.DB }

func (r *pgCallbacks) Append(ctx context.Context, cb callbacks.Callback) error {
	return insertDoc(ctx, r.db, "callbacks", cb.ID, cb)
}

func (r *pgCallbacks) List(ctx context.Context) ([]callbacks.Callback, error) {
	return listDocs[callbacks.Callback](ctx, r.db, "callbacks")
}

func (r *pgCallbacks) Get(ctx context.Context, id string) (*callbacks.Callback, error) {
	return getDoc[callbacks.Callback](ctx, r.db, "callbacks", id, callbacks.ErrNotFound)
}

func (r *pgCallbacks) Update(ctx context.Context, cb callbacks.Callback) error {
	return updateDoc(ctx, r.db, "callbacks", cb.ID, cb, callbacks.ErrNotFound)
}

type pgCalls struct{ db *sql.DB }

func (r *pgCalls) Upsert(ctx context.Context, call calls.Call) error {
	return upsertDoc(ctx, r.db, "calls", call.ID, call)
}

func (r *pgCalls) List(ctx context.Context) ([]calls.Call, error) {
	return listDocs[calls.Call](ctx, r.db, "calls")
}

func (r *pgCalls) Get(ctx context.Context, id string) (*calls.Call, error) {
	return getDoc[calls.Call](ctx, r.db, "calls", id, calls.ErrNotFound)
}
