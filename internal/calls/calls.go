// Package calls keeps a record of each voice-platform call leg so the
// dashboard and post-call analysis have something to hang data off.
package calls

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("calls: call not found")

// Status of a call record.
type Status string

const (
	StatusInProgress Status = "In Progress"
	StatusEnded      Status = "Ended"
	StatusAnalyzed   Status = "Analyzed"
)

// Call is one call leg as reported by the voice platform.
type Call struct {
	ID          string     `json:"id"`
	CallerPhone string     `json:"caller_phone,omitempty"`
	Status      Status     `json:"status"`
	StartedAt   time.Time  `json:"started_at"`
	EndedAt     *time.Time `json:"ended_at,omitempty"`

	DurationSeconds int    `json:"duration_seconds,omitempty"`
	Transcript      string `json:"transcript,omitempty"`
	Summary         string `json:"summary,omitempty"`

	// Ids of records extracted retroactively from the call analysis.
	LeadID        string `json:"lead_id,omitempty"`
	AppointmentID string `json:"appointment_id,omitempty"`
}

// Repository provides durable access to the call collection. Upsert
// writes the record whether or not a row for the id already exists, since
// platform events can arrive out of order.
type Repository interface {
	Upsert(ctx context.Context, call Call) error
	List(ctx context.Context) ([]Call, error)
	Get(ctx context.Context, id string) (*Call, error)
}
