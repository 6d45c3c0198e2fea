package leads

import "time"

// Priority buckets a lead's score for the sales team.
type Priority string

const (
	PriorityHigh     Priority = "High"
	PriorityMedium   Priority = "Medium"
	PriorityStandard Priority = "Standard"
	PriorityLow      Priority = "Low"
)

// rank orders priorities from coldest to hottest.
func (p Priority) rank() int {
	switch p {
	case PriorityLow:
		return 0
	case PriorityStandard:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	}
	return -1
}

// AtLeast reports whether p is as hot or hotter than other.
func (p Priority) AtLeast(other Priority) bool {
	return p.rank() >= other.rank()
}

// Status tracks a lead through the sales pipeline.
type Status string

const (
	StatusNew          Status = "New"
	StatusContacted    Status = "Contacted"
	StatusQualified    Status = "Qualified"
	StatusProposalSent Status = "Proposal Sent"
	StatusNegotiation  Status = "Negotiation"
	StatusWon          Status = "Won"
	StatusLost         Status = "Lost"
	StatusNurturing    Status = "Nurturing"
)

// Source records where a lead came from.
type Source string

const (
	SourceVoiceAgent Source = "Voice Agent"
	SourceWebsite    Source = "Website"
	SourceReferral   Source = "Referral"
	SourceMarketing  Source = "Marketing Campaign"
	SourceTradeShow  Source = "Trade Show"
	SourceColdCall   Source = "Cold Call"
	SourceOther      Source = "Other"
)

// ContactMethod is the customer's preferred way to be reached.
type ContactMethod string

const (
	ContactPhone  ContactMethod = "Phone"
	ContactEmail  ContactMethod = "Email"
	ContactEither ContactMethod = "Either"
)

// Lead is a prospective fleet-leasing customer captured during a call.
type Lead struct {
	ID           string `json:"id"`
	ContactName  string `json:"contact_name"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`

	Source   Source   `json:"source"`
	Status   Status   `json:"status"`
	Priority Priority `json:"priority"`
	Score    int      `json:"score"`

	CompanyName string `json:"company_name,omitempty"`
	CompanySize string `json:"company_size,omitempty"`
	Industry    string `json:"industry,omitempty"`

	CurrentFleetSize   *int   `json:"current_fleet_size,omitempty"`
	ProjectedFleetSize *int   `json:"projected_fleet_size,omitempty"`
	CurrentProvider    string `json:"current_provider,omitempty"`

	VehicleInterests     string `json:"vehicle_interests,omitempty"`
	EVInterest           bool   `json:"ev_interest"`
	Timeline             string `json:"timeline,omitempty"`
	BudgetRange          string `json:"budget_range,omitempty"`
	SpecificRequirements string `json:"specific_requirements,omitempty"`

	PreferredContactMethod ContactMethod `json:"preferred_contact_method"`
	BestTimeToCall         string        `json:"best_time_to_call,omitempty"`

	InquiryNotes  string `json:"inquiry_notes,omitempty"`
	FollowUpNotes string `json:"follow_up_notes,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
	ContactedAt *time.Time `json:"contacted_at,omitempty"`
	QualifiedAt *time.Time `json:"qualified_at,omitempty"`
	ClosedAt    *time.Time `json:"closed_at,omitempty"`

	AssignedTo string `json:"assigned_to,omitempty"`
}

// Rescore recomputes the derived score and priority from the lead's
// current attributes. Call after any attribute change; the pair is never
// set any other way.
func (l *Lead) Rescore() {
	l.Score, l.Priority = Score(l)
}

func (l *Lead) MarkContacted(notes string, now time.Time) {
	l.Status = StatusContacted
	l.ContactedAt = &now
	l.UpdatedAt = &now
	if notes != "" {
		l.FollowUpNotes = notes
	}
}

func (l *Lead) Qualify(notes string, now time.Time) {
	l.Status = StatusQualified
	l.QualifiedAt = &now
	l.UpdatedAt = &now
	if notes != "" {
		l.FollowUpNotes = notes
	}
}

func (l *Lead) CloseWon(now time.Time) {
	l.Status = StatusWon
	l.ClosedAt = &now
	l.UpdatedAt = &now
}

func (l *Lead) CloseLost(reason string, now time.Time) {
	l.Status = StatusLost
	l.ClosedAt = &now
	l.UpdatedAt = &now
	if reason != "" {
		l.FollowUpNotes = "Lost reason: " + reason
	}
}

func (l *Lead) Assign(assignee string, now time.Time) {
	l.AssignedTo = assignee
	l.UpdatedAt = &now
}
