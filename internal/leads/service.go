package leads

import (
	"context"
	"fmt"
	"time"

	"github.com/fleetline/driver-desk/internal/ident"
	"github.com/fleetline/driver-desk/pkg/logging"
)

// CaptureRequest carries the attributes gathered from a caller before a
// lead record exists.
type CaptureRequest struct {
	ContactName  string
	ContactEmail string
	ContactPhone string
	Source       Source

	CompanyName string
	CompanySize string
	Industry    string

	CurrentFleetSize   *int
	ProjectedFleetSize *int
	CurrentProvider    string

	VehicleInterests     string
	EVInterest           bool
	Timeline             string
	BudgetRange          string
	SpecificRequirements string

	PreferredContactMethod ContactMethod
	BestTimeToCall         string
	InquiryNotes           string
}

// Service creates and advances leads against a Repository.
type Service struct {
	repo   Repository
	logger *logging.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger *logging.Logger) *Service {
	if repo == nil {
		panic("leads: repository is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// WithClock overrides the service clock. Intended for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Capture records a new lead, scoring it before it is persisted.
func (s *Service) Capture(ctx context.Context, req CaptureRequest) (*Lead, error) {
	if req.ContactName == "" || (req.ContactPhone == "" && req.ContactEmail == "") {
		return nil, ErrMissingContact
	}

	now := s.now()
	source := req.Source
	if source == "" {
		source = SourceVoiceAgent
	}
	contactMethod := req.PreferredContactMethod
	if contactMethod == "" {
		contactMethod = ContactEither
	}

	lead := Lead{
		ID:                     ident.New("LEAD", now),
		ContactName:            req.ContactName,
		ContactEmail:           req.ContactEmail,
		ContactPhone:           req.ContactPhone,
		Source:                 source,
		Status:                 StatusNew,
		CompanyName:            req.CompanyName,
		CompanySize:            req.CompanySize,
		Industry:               req.Industry,
		CurrentFleetSize:       req.CurrentFleetSize,
		ProjectedFleetSize:     req.ProjectedFleetSize,
		CurrentProvider:        req.CurrentProvider,
		VehicleInterests:       req.VehicleInterests,
		EVInterest:             req.EVInterest,
		Timeline:               req.Timeline,
		BudgetRange:            req.BudgetRange,
		SpecificRequirements:   req.SpecificRequirements,
		PreferredContactMethod: contactMethod,
		BestTimeToCall:         req.BestTimeToCall,
		InquiryNotes:           req.InquiryNotes,
		CreatedAt:              now,
	}
	lead.Rescore()

	if err := s.repo.Append(ctx, lead); err != nil {
		return nil, fmt.Errorf("leads: persist %s: %w", lead.ID, err)
	}

	s.logger.Info("lead captured",
		"lead_id", lead.ID,
		"score", lead.Score,
		"priority", string(lead.Priority),
	)
	return &lead, nil
}

// MarkContacted advances a lead to Contacted.
func (s *Service) MarkContacted(ctx context.Context, id, notes string) (*Lead, error) {
	return s.transition(ctx, id, func(l *Lead, now time.Time) {
		l.MarkContacted(notes, now)
	})
}

// Qualify advances a lead to Qualified.
func (s *Service) Qualify(ctx context.Context, id, notes string) (*Lead, error) {
	return s.transition(ctx, id, func(l *Lead, now time.Time) {
		l.Qualify(notes, now)
	})
}

// CloseWon marks a lead as converted.
func (s *Service) CloseWon(ctx context.Context, id string) (*Lead, error) {
	return s.transition(ctx, id, func(l *Lead, now time.Time) {
		l.CloseWon(now)
	})
}

// CloseLost marks a lead as lost.
func (s *Service) CloseLost(ctx context.Context, id, reason string) (*Lead, error) {
	return s.transition(ctx, id, func(l *Lead, now time.Time) {
		l.CloseLost(reason, now)
	})
}

// Assign hands a lead to a named team member without changing status.
func (s *Service) Assign(ctx context.Context, id, assignee string) (*Lead, error) {
	return s.transition(ctx, id, func(l *Lead, now time.Time) {
		l.Assign(assignee, now)
	})
}

func (s *Service) transition(ctx context.Context, id string, fn func(*Lead, time.Time)) (*Lead, error) {
	lead, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	fn(lead, s.now())
	lead.Rescore()
	if err := s.repo.Update(ctx, *lead); err != nil {
		return nil, fmt.Errorf("leads: update %s: %w", id, err)
	}
	return lead, nil
}
