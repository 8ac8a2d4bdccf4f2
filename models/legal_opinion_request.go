package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Legal opinion request status constants
const (
	OpinionStatusDraft             = "draft"
	OpinionStatusSubmitted         = "submitted"
	OpinionStatusUnderReview       = "under_review"
	OpinionStatusAssigned          = "assigned"
	OpinionStatusResearchPhase     = "research_phase"
	OpinionStatusDrafting          = "drafting"
	OpinionStatusInternalReview    = "internal_review"
	OpinionStatusRevisionRequested = "revision_requested"
	OpinionStatusRevising          = "revising"
	OpinionStatusCompleted         = "completed"
	OpinionStatusCancelled         = "cancelled"
	OpinionStatusRejected          = "rejected"
)

// Delivery format constants
const (
	DeliveryFormatPDF      = "pdf"
	DeliveryFormatDocument = "document"
	DeliveryFormatEmail    = "email"
)

// Confidentiality levels
const (
	ConfidentialityStandard   = "standard"
	ConfidentialityPrivileged = "privileged"
	ConfidentialityRestricted = "restricted"
)

// LegalOpinionRequest tracks a client's request for a formal legal opinion
// through its drafting/review/delivery workflow. Transition methods use value
// receivers and return a modified copy; the original is never mutated.
type LegalOpinionRequest struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	OpinionNumber string `gorm:"not null;uniqueIndex" json:"opinion_number"`

	// Parties
	ClientID         string  `gorm:"type:uuid;not null;index" json:"client_id"`
	AssignedLawyerID *string `gorm:"type:uuid;index" json:"assigned_lawyer_id,omitempty"`

	// Request content
	OpinionType       string  `gorm:"not null" json:"opinion_type"`
	Subject           string  `gorm:"not null" json:"subject"`
	LegalQuestion     string  `gorm:"type:text;not null" json:"legal_question"`
	BackgroundContext string  `gorm:"type:text;not null" json:"background_context"`
	RelevantFacts     string  `gorm:"type:text;not null" json:"relevant_facts"`
	SpecificIssues    *string `gorm:"type:text" json:"specific_issues,omitempty"`
	Jurisdiction      string  `gorm:"not null" json:"jurisdiction"`
	Priority          string  `gorm:"not null;default:normal;index" json:"priority"`

	// Delivery
	RequestedDeliveryDate   *time.Time `json:"requested_delivery_date,omitempty"`
	ActualDeliveryDate      *time.Time `json:"actual_delivery_date,omitempty"`
	DeliveryFormat          string     `gorm:"not null;default:pdf" json:"delivery_format"`
	IncludeExecutiveSummary bool       `gorm:"not null;default:true" json:"include_executive_summary"`
	IncludeCitations        bool       `gorm:"not null;default:true" json:"include_citations"`
	IncludeRecommendations  bool       `gorm:"not null;default:true" json:"include_recommendations"`

	// Lifecycle
	Status       string `gorm:"not null;default:draft;index" json:"status"`
	DraftVersion int    `gorm:"not null;default:0" json:"draft_version"`
	FinalVersion int    `gorm:"not null;default:0" json:"final_version"`

	// Billing
	EstimatedCost    Money   `gorm:"embedded;embeddedPrefix:estimated_cost_" json:"estimated_cost"`
	FinalCost        Money   `gorm:"embedded;embeddedPrefix:final_cost_" json:"final_cost"`
	IsPaid           bool    `gorm:"not null;default:false" json:"is_paid"`
	PaymentReference *string `json:"payment_reference,omitempty"`

	// Lifecycle timestamps
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	AssignedAt  *time.Time `json:"assigned_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Revision / termination notes
	RevisionReason     *string `gorm:"type:text" json:"revision_reason,omitempty"`
	CancellationReason *string `gorm:"type:text" json:"cancellation_reason,omitempty"`
	RejectionReason    *string `gorm:"type:text" json:"rejection_reason,omitempty"`

	ConfidentialityLevel string `gorm:"not null;default:standard" json:"confidentiality_level"`

	// SLA tracking (stamped by the opinion service on submission)
	SLAPolicyID        *string    `gorm:"type:uuid" json:"sla_policy_id,omitempty"`
	ResponseDeadline   *time.Time `json:"response_deadline,omitempty"`
	ResolutionDeadline *time.Time `gorm:"index" json:"resolution_deadline,omitempty"`
	EscalationDeadline *time.Time `json:"escalation_deadline,omitempty"`
	RespondedAt        *time.Time `json:"responded_at,omitempty"`
}

// BeforeCreate hook to generate UUID
func (r *LegalOpinionRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for LegalOpinionRequest model
func (LegalOpinionRequest) TableName() string {
	return "legal_opinion_requests"
}

// IsTerminal reports whether the request reached a final status
func (r LegalOpinionRequest) IsTerminal() bool {
	return r.Status == OpinionStatusCompleted ||
		r.Status == OpinionStatusCancelled ||
		r.Status == OpinionStatusRejected
}

// IsEditable reports whether request content may still be changed
func (r LegalOpinionRequest) IsEditable() bool {
	return r.Status == OpinionStatusDraft
}

func (r LegalOpinionRequest) invalidTransition(op string) error {
	return fmt.Errorf("cannot %s opinion request %s in status %s: %w", op, r.OpinionNumber, r.Status, ErrInvalidTransition)
}

// validateRequired checks the fields a request must carry before submission
func (r LegalOpinionRequest) validateRequired() error {
	missing := []string{}
	if strings.TrimSpace(r.Subject) == "" {
		missing = append(missing, "subject")
	}
	if strings.TrimSpace(r.LegalQuestion) == "" {
		missing = append(missing, "legal_question")
	}
	if strings.TrimSpace(r.BackgroundContext) == "" {
		missing = append(missing, "background_context")
	}
	if strings.TrimSpace(r.RelevantFacts) == "" {
		missing = append(missing, "relevant_facts")
	}
	if strings.TrimSpace(r.Jurisdiction) == "" {
		missing = append(missing, "jurisdiction")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields (%s): %w", strings.Join(missing, ", "), ErrValidation)
	}
	return nil
}

// Submit moves a draft request into the intake queue
func (r LegalOpinionRequest) Submit() (LegalOpinionRequest, error) {
	if r.Status != OpinionStatusDraft {
		return r, r.invalidTransition("submit")
	}
	if err := r.validateRequired(); err != nil {
		return r, err
	}
	now := time.Now()
	r.Status = OpinionStatusSubmitted
	r.SubmittedAt = &now
	return r, nil
}

// StartReview moves a submitted request into triage review
func (r LegalOpinionRequest) StartReview() (LegalOpinionRequest, error) {
	if r.Status != OpinionStatusSubmitted {
		return r, r.invalidTransition("start review of")
	}
	r.Status = OpinionStatusUnderReview
	return r, nil
}

// AssignToLawyer hands the request to a lawyer for research and drafting
func (r LegalOpinionRequest) AssignToLawyer(lawyerID string) (LegalOpinionRequest, error) {
	if r.Status != OpinionStatusSubmitted && r.Status != OpinionStatusUnderReview {
		return r, r.invalidTransition("assign")
	}
	if strings.TrimSpace(lawyerID) == "" {
		return r, fmt.Errorf("lawyer id is required: %w", ErrValidation)
	}
	now := time.Now()
	r.Status = OpinionStatusAssigned
	r.AssignedLawyerID = &lawyerID
	r.AssignedAt = &now
	return r, nil
}

// StartResearch begins the research phase
func (r LegalOpinionRequest) StartResearch() (LegalOpinionRequest, error) {
	if r.Status != OpinionStatusAssigned {
		return r, r.invalidTransition("start research on")
	}
	r.Status = OpinionStatusResearchPhase
	return r, nil
}

// StartDrafting begins drafting the opinion
func (r LegalOpinionRequest) StartDrafting() (LegalOpinionRequest, error) {
	if r.Status != OpinionStatusResearchPhase {
		return r, r.invalidTransition("start drafting")
	}
	r.Status = OpinionStatusDrafting
	r.DraftVersion++
	return r, nil
}

// SubmitForReview sends the current draft to internal review
func (r LegalOpinionRequest) SubmitForReview() (LegalOpinionRequest, error) {
	if r.Status != OpinionStatusDrafting {
		return r, r.invalidTransition("submit for review")
	}
	r.Status = OpinionStatusInternalReview
	return r, nil
}

// RequestRevision sends the draft back with a revision reason
func (r LegalOpinionRequest) RequestRevision(reason string) (LegalOpinionRequest, error) {
	if r.Status != OpinionStatusInternalReview {
		return r, r.invalidTransition("request revision of")
	}
	if strings.TrimSpace(reason) == "" {
		return r, fmt.Errorf("revision reason is required: %w", ErrValidation)
	}
	r.Status = OpinionStatusRevisionRequested
	r.RevisionReason = &reason
	return r, nil
}

// StartRevising begins a new revision cycle
func (r LegalOpinionRequest) StartRevising() (LegalOpinionRequest, error) {
	if r.Status != OpinionStatusRevisionRequested {
		return r, r.invalidTransition("start revising")
	}
	r.Status = OpinionStatusRevising
	r.DraftVersion++
	return r, nil
}

// BackToInternalReview returns a revised draft for another review pass
func (r LegalOpinionRequest) BackToInternalReview() (LegalOpinionRequest, error) {
	if r.Status != OpinionStatusRevising {
		return r, r.invalidTransition("return for review")
	}
	r.Status = OpinionStatusInternalReview
	return r, nil
}

// SetEstimatedCost records the quoted cost; does not change status
func (r LegalOpinionRequest) SetEstimatedCost(cost Money) (LegalOpinionRequest, error) {
	if r.IsPaid {
		return r, fmt.Errorf("cannot change estimate after payment: %w", ErrPreconditionFailed)
	}
	if !cost.IsSet() {
		return r, fmt.Errorf("estimated cost is required: %w", ErrValidation)
	}
	r.EstimatedCost = cost
	return r, nil
}

// MarkAsPaid records payment; does not change status by itself
func (r LegalOpinionRequest) MarkAsPaid(paymentReference string, finalCost *Money) (LegalOpinionRequest, error) {
	if strings.TrimSpace(paymentReference) == "" {
		return r, fmt.Errorf("payment reference is required: %w", ErrValidation)
	}
	r.IsPaid = true
	r.PaymentReference = &paymentReference
	if finalCost != nil {
		r.FinalCost = *finalCost
	}
	return r, nil
}

// Complete delivers the opinion. Requires payment first.
func (r LegalOpinionRequest) Complete() (LegalOpinionRequest, error) {
	if r.Status != OpinionStatusInternalReview && r.Status != OpinionStatusRevising {
		return r, r.invalidTransition("complete")
	}
	if !r.IsPaid {
		return r, fmt.Errorf("cannot complete opinion request %s: not paid: %w", r.OpinionNumber, ErrPreconditionFailed)
	}
	now := time.Now()
	r.Status = OpinionStatusCompleted
	r.CompletedAt = &now
	r.ActualDeliveryDate = &now
	r.FinalVersion = r.DraftVersion
	return r, nil
}

// Cancel terminates the request at the client's initiative
func (r LegalOpinionRequest) Cancel(reason string) (LegalOpinionRequest, error) {
	if r.IsTerminal() {
		return r, r.invalidTransition("cancel")
	}
	r.Status = OpinionStatusCancelled
	r.CancellationReason = &reason
	return r, nil
}

// Reject terminates the request at the firm's initiative
func (r LegalOpinionRequest) Reject(reason string) (LegalOpinionRequest, error) {
	if r.IsTerminal() {
		return r, r.invalidTransition("reject")
	}
	r.Status = OpinionStatusRejected
	r.RejectionReason = &reason
	return r, nil
}

func (r LegalOpinionRequest) requireDraft(op string) error {
	if r.Status != OpinionStatusDraft {
		return fmt.Errorf("cannot %s: opinion request %s is no longer a draft: %w", op, r.OpinionNumber, ErrInvalidTransition)
	}
	return nil
}

// UpdateSubject changes the subject; drafts only
func (r LegalOpinionRequest) UpdateSubject(subject string) (LegalOpinionRequest, error) {
	if err := r.requireDraft("update subject"); err != nil {
		return r, err
	}
	if strings.TrimSpace(subject) == "" {
		return r, fmt.Errorf("subject is required: %w", ErrValidation)
	}
	r.Subject = subject
	return r, nil
}

// UpdateLegalQuestion changes the legal question; drafts only
func (r LegalOpinionRequest) UpdateLegalQuestion(question string) (LegalOpinionRequest, error) {
	if err := r.requireDraft("update legal question"); err != nil {
		return r, err
	}
	if strings.TrimSpace(question) == "" {
		return r, fmt.Errorf("legal question is required: %w", ErrValidation)
	}
	r.LegalQuestion = question
	return r, nil
}

// UpdateJurisdiction changes the jurisdiction; drafts only
func (r LegalOpinionRequest) UpdateJurisdiction(jurisdiction string) (LegalOpinionRequest, error) {
	if err := r.requireDraft("update jurisdiction"); err != nil {
		return r, err
	}
	if strings.TrimSpace(jurisdiction) == "" {
		return r, fmt.Errorf("jurisdiction is required: %w", ErrValidation)
	}
	r.Jurisdiction = jurisdiction
	return r, nil
}

// UpdatePriority changes the priority; drafts only
func (r LegalOpinionRequest) UpdatePriority(priority string) (LegalOpinionRequest, error) {
	if err := r.requireDraft("update priority"); err != nil {
		return r, err
	}
	if !IsValidPriority(priority) {
		return r, fmt.Errorf("invalid priority %q: %w", priority, ErrValidation)
	}
	r.Priority = priority
	return r, nil
}
