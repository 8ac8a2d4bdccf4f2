package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Priority levels (shared by disputes, opinion requests and call requests)
const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// IsValidPriority checks if the priority is one of the known levels
func IsValidPriority(priority string) bool {
	switch priority {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Dispute status constants
const (
	DisputeStatusOpen        = "open"
	DisputeStatusUnderReview = "under_review"
	DisputeStatusEscalated   = "escalated"
	DisputeStatusResolved    = "resolved"
	DisputeStatusClosed      = "closed"
)

// Dispute is a formal complaint raised against exactly one completed service
// (consultation, legal opinion, service request or litigation case), tracked
// to resolution. Transition methods return a modified copy.
type Dispute struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID string `gorm:"type:uuid;not null;index" json:"user_id"`

	// Related entity (exactly one must be set)
	ConsultationID   *string `gorm:"type:uuid;index" json:"consultation_id,omitempty"`
	LegalOpinionID   *string `gorm:"type:uuid;index" json:"legal_opinion_id,omitempty"`
	ServiceRequestID *string `gorm:"type:uuid;index" json:"service_request_id,omitempty"`
	LitigationCaseID *string `gorm:"type:uuid;index" json:"litigation_case_id,omitempty"`

	Reason      string  `gorm:"not null" json:"reason"`
	Description string  `gorm:"type:text;not null" json:"description"`
	Evidence    *string `gorm:"type:text" json:"evidence,omitempty"` // JSON object of evidence entries

	Status   string `gorm:"not null;default:open;index" json:"status"`
	Priority string `gorm:"not null;default:normal;index" json:"priority"`

	// Resolution
	Resolution *string    `gorm:"type:text" json:"resolution,omitempty"`
	ResolvedBy *string    `gorm:"type:uuid" json:"resolved_by,omitempty"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`

	// Escalation
	EscalatedAt      *time.Time `json:"escalated_at,omitempty"`
	EscalatedTo      *string    `gorm:"type:uuid" json:"escalated_to,omitempty"`
	EscalationReason *string    `gorm:"type:text" json:"escalation_reason,omitempty"`
}

// NewDisputeInput carries the data needed to open a dispute
type NewDisputeInput struct {
	UserID           string
	ConsultationID   *string
	LegalOpinionID   *string
	ServiceRequestID *string
	LitigationCaseID *string
	Reason           string
	Description      string
	Priority         string
}

// NewDispute validates the input and builds an open dispute. Exactly one
// related-entity id must be provided. The at-most-one-active-dispute rule is
// enforced by the caller (services.HasActiveDispute), not here.
func NewDispute(input NewDisputeInput) (Dispute, error) {
	if strings.TrimSpace(input.UserID) == "" {
		return Dispute{}, fmt.Errorf("user id is required: %w", ErrValidation)
	}
	if strings.TrimSpace(input.Reason) == "" {
		return Dispute{}, fmt.Errorf("dispute reason is required: %w", ErrValidation)
	}
	if strings.TrimSpace(input.Description) == "" {
		return Dispute{}, fmt.Errorf("dispute description is required: %w", ErrValidation)
	}

	related := 0
	for _, id := range []*string{input.ConsultationID, input.LegalOpinionID, input.ServiceRequestID, input.LitigationCaseID} {
		if id != nil && *id != "" {
			related++
		}
	}
	if related == 0 {
		return Dispute{}, fmt.Errorf("no related entity provided: %w", ErrValidation)
	}
	if related > 1 {
		return Dispute{}, fmt.Errorf("dispute must reference exactly one related entity: %w", ErrValidation)
	}

	priority := input.Priority
	if priority == "" {
		priority = PriorityNormal
	}
	if !IsValidPriority(priority) {
		return Dispute{}, fmt.Errorf("invalid priority %q: %w", priority, ErrValidation)
	}

	return Dispute{
		UserID:           input.UserID,
		ConsultationID:   input.ConsultationID,
		LegalOpinionID:   input.LegalOpinionID,
		ServiceRequestID: input.ServiceRequestID,
		LitigationCaseID: input.LitigationCaseID,
		Reason:           input.Reason,
		Description:      input.Description,
		Status:           DisputeStatusOpen,
		Priority:         priority,
	}, nil
}

// BeforeCreate hook to generate UUID
func (d *Dispute) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Dispute model
func (Dispute) TableName() string {
	return "disputes"
}

// IsActive reports whether the dispute is still open for work
func (d Dispute) IsActive() bool {
	return d.Status == DisputeStatusOpen ||
		d.Status == DisputeStatusUnderReview ||
		d.Status == DisputeStatusEscalated
}

// AgeInDays returns whole days elapsed since the dispute was opened
func (d Dispute) AgeInDays() int {
	return int(time.Since(d.CreatedAt).Hours() / 24)
}

func (d Dispute) invalidTransition(op string) error {
	return fmt.Errorf("cannot %s dispute in status %s: %w", op, d.Status, ErrInvalidTransition)
}

// StartReview moves an open dispute into review
func (d Dispute) StartReview() (Dispute, error) {
	if d.Status != DisputeStatusOpen {
		return d, d.invalidTransition("start review of")
	}
	d.Status = DisputeStatusUnderReview
	return d, nil
}

// EscalateInput configures an escalation
type EscalateInput struct {
	EscalatedTo      string
	EscalationReason string
	NewPriority      string // optional priority bump
}

// Escalate raises the dispute to a higher handler
func (d Dispute) Escalate(input EscalateInput) (Dispute, error) {
	if d.Status != DisputeStatusOpen && d.Status != DisputeStatusUnderReview {
		return d, d.invalidTransition("escalate")
	}
	if strings.TrimSpace(input.EscalatedTo) == "" {
		return d, fmt.Errorf("escalation target is required: %w", ErrValidation)
	}
	now := time.Now()
	d.Status = DisputeStatusEscalated
	d.EscalatedAt = &now
	d.EscalatedTo = &input.EscalatedTo
	if input.EscalationReason != "" {
		d.EscalationReason = &input.EscalationReason
	}
	if input.NewPriority != "" {
		if !IsValidPriority(input.NewPriority) {
			return d, fmt.Errorf("invalid priority %q: %w", input.NewPriority, ErrValidation)
		}
		d.Priority = input.NewPriority
	}
	return d, nil
}

// ResolveInput configures a resolution
type ResolveInput struct {
	ResolvedBy string
	Resolution string
}

// Resolve records the outcome of the dispute
func (d Dispute) Resolve(input ResolveInput) (Dispute, error) {
	if d.Status != DisputeStatusUnderReview && d.Status != DisputeStatusEscalated {
		return d, d.invalidTransition("resolve")
	}
	if strings.TrimSpace(input.ResolvedBy) == "" {
		return d, fmt.Errorf("resolver id is required: %w", ErrValidation)
	}
	if strings.TrimSpace(input.Resolution) == "" {
		return d, fmt.Errorf("resolution text is required: %w", ErrValidation)
	}
	now := time.Now()
	d.Status = DisputeStatusResolved
	d.ResolvedBy = &input.ResolvedBy
	d.Resolution = &input.Resolution
	d.ResolvedAt = &now
	return d, nil
}

// Close finalizes a resolved dispute; terminal
func (d Dispute) Close() (Dispute, error) {
	if d.Status != DisputeStatusResolved {
		return d, d.invalidTransition("close")
	}
	d.Status = DisputeStatusClosed
	return d, nil
}

// UpdatePriority changes the priority of an active dispute
func (d Dispute) UpdatePriority(priority string) (Dispute, error) {
	if !d.IsActive() {
		return d, d.invalidTransition("update priority of")
	}
	if !IsValidPriority(priority) {
		return d, fmt.Errorf("invalid priority %q: %w", priority, ErrValidation)
	}
	d.Priority = priority
	return d, nil
}

// EvidenceItems decodes the evidence bag (never nil)
func (d Dispute) EvidenceItems() (map[string]string, error) {
	items := map[string]string{}
	if d.Evidence == nil || *d.Evidence == "" {
		return items, nil
	}
	if err := json.Unmarshal([]byte(*d.Evidence), &items); err != nil {
		return nil, fmt.Errorf("failed to decode dispute evidence: %w", err)
	}
	return items, nil
}

// AddEvidence merges new entries into the evidence bag of an active dispute
func (d Dispute) AddEvidence(items map[string]string) (Dispute, error) {
	if !d.IsActive() {
		return d, d.invalidTransition("add evidence to")
	}
	if len(items) == 0 {
		return d, fmt.Errorf("no evidence provided: %w", ErrValidation)
	}
	existing, err := d.EvidenceItems()
	if err != nil {
		return d, err
	}
	for k, v := range items {
		existing[k] = v
	}
	encoded, err := json.Marshal(existing)
	if err != nil {
		return d, fmt.Errorf("failed to encode dispute evidence: %w", err)
	}
	s := string(encoded)
	d.Evidence = &s
	return d, nil
}
