// Package callbacks records requests for the Driver Desk team to phone a
// customer back on the next business day.
package callbacks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fleetline/driver-desk/internal/calendar"
	"github.com/fleetline/driver-desk/internal/ident"
	"github.com/fleetline/driver-desk/pkg/logging"
)

// Status of a callback request.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
)

var ErrNotFound = errors.New("callbacks: callback not found")

// Callback is a request for the team to ring a customer back.
type Callback struct {
	ID            string    `json:"id"`
	CustomerName  string    `json:"customer_name"`
	ContactPhone  string    `json:"contact_phone"`
	PreferredTime string    `json:"preferred_time"`
	Reason        string    `json:"reason"`
	IsUrgent      bool      `json:"is_urgent"`
	Status        Status    `json:"status"`
	ScheduledDate string    `json:"scheduled_date"` // YYYY-MM-DD
	CreatedAt     time.Time `json:"created_at"`
}

// Repository provides durable access to the callback collection.
type Repository interface {
	Append(ctx context.Context, cb Callback) error
	List(ctx context.Context) ([]Callback, error)
	Get(ctx context.Context, id string) (*Callback, error)
	Update(ctx context.Context, cb Callback) error
}

// Request carries the details a caller gives when asking to be rung back.
type Request struct {
	CustomerName  string
	ContactPhone  string
	PreferredTime string
	Reason        string
	IsUrgent      bool
}

// Scheduler books callback requests onto the next business day.
type Scheduler struct {
	repo   Repository
	cal    *calendar.Calendar
	logger *logging.Logger
	now    func() time.Time
}

func NewScheduler(repo Repository, cal *calendar.Calendar, logger *logging.Logger) *Scheduler {
	if repo == nil {
		panic("callbacks: repository is required")
	}
	if cal == nil {
		panic("callbacks: calendar is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Scheduler{repo: repo, cal: cal, logger: logger, now: time.Now}
}

// WithClock overrides the scheduler clock. Intended for tests.
func (s *Scheduler) WithClock(now func() time.Time) *Scheduler {
	s.now = now
	return s
}

// Schedule persists a callback request targeted at the next business day:
// weekend arrivals roll to Monday, weekday arrivals after 17:00 roll to
// the next business day, everything else lands same day.
func (s *Scheduler) Schedule(ctx context.Context, req Request) (*Callback, error) {
	now := s.now().In(s.cal.Location())
	target := s.cal.NextBusinessDay(now)

	cb := Callback{
		ID:            ident.New("CB", now),
		CustomerName:  req.CustomerName,
		ContactPhone:  req.ContactPhone,
		PreferredTime: req.PreferredTime,
		Reason:        req.Reason,
		IsUrgent:      req.IsUrgent,
		Status:        StatusPending,
		ScheduledDate: target.Format("2006-01-02"),
		CreatedAt:     now,
	}

	if err := s.repo.Append(ctx, cb); err != nil {
		return nil, fmt.Errorf("callbacks: persist %s: %w", cb.ID, err)
	}

	s.logger.Info("callback scheduled",
		"callback_id", cb.ID,
		"scheduled_date", cb.ScheduledDate,
		"urgent", cb.IsUrgent,
	)
	return &cb, nil
}

// Complete marks a pending callback as done.
func (s *Scheduler) Complete(ctx context.Context, id string) (*Callback, error) {
	cb, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	cb.Status = StatusCompleted
	if err := s.repo.Update(ctx, *cb); err != nil {
		return nil, fmt.Errorf("callbacks: update %s: %w", id, err)
	}
	return cb, nil
}
