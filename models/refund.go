package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Refund status constants
const (
	RefundStatusPending   = "pending"
	RefundStatusApproved  = "approved"
	RefundStatusRejected  = "rejected"
	RefundStatusProcessed = "processed"
)

// MinRefundReasonLength is the minimum length of a refund justification
const MinRefundReasonLength = 10

// Refund is a monetary reversal request tied to a prior transaction. It must
// be approved by a reviewer before it can be processed; rejected and
// processed are terminal.
type Refund struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID string `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount Money  `gorm:"embedded;embeddedPrefix:amount_" json:"amount"`
	Reason string `gorm:"type:text;not null" json:"reason"`

	// References to the originating payment (by id only)
	TransactionLogID *string `gorm:"type:uuid;index" json:"transaction_log_id,omitempty"`
	PaymentID        *string `gorm:"type:uuid" json:"payment_id,omitempty"`

	Status string `gorm:"not null;default:pending;index" json:"status"`

	// Review
	ReviewedBy  *string    `gorm:"type:uuid" json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`
	ReviewNotes *string    `gorm:"type:text" json:"review_notes,omitempty"`

	// Processing
	ProcessedAt     *time.Time `json:"processed_at,omitempty"`
	RefundReference *string    `json:"refund_reference,omitempty"`
}

// NewRefundInput carries the data needed to open a refund request
type NewRefundInput struct {
	UserID           string
	Amount           float64
	Currency         string
	Reason           string
	TransactionLogID *string
	PaymentID        *string
}

// NewRefund validates the input and builds a pending refund
func NewRefund(input NewRefundInput) (Refund, error) {
	if strings.TrimSpace(input.UserID) == "" {
		return Refund{}, fmt.Errorf("user id is required: %w", ErrValidation)
	}
	amount, err := NewPositiveMoney(input.Amount, input.Currency)
	if err != nil {
		return Refund{}, err
	}
	if len(strings.TrimSpace(input.Reason)) < MinRefundReasonLength {
		return Refund{}, fmt.Errorf("refund reason must be at least %d characters: %w", MinRefundReasonLength, ErrValidation)
	}
	return Refund{
		UserID:           input.UserID,
		Amount:           amount,
		Reason:           input.Reason,
		TransactionLogID: input.TransactionLogID,
		PaymentID:        input.PaymentID,
		Status:           RefundStatusPending,
	}, nil
}

// BeforeCreate hook to generate UUID
func (r *Refund) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Refund model
func (Refund) TableName() string {
	return "refunds"
}

// IsTerminal reports whether the refund reached a final status
func (r Refund) IsTerminal() bool {
	return r.Status == RefundStatusRejected || r.Status == RefundStatusProcessed
}

// ReviewInput identifies the reviewer of a refund decision
type ReviewInput struct {
	ReviewedBy  string
	ReviewNotes string
}

func (r Refund) review(input ReviewInput, op string) (Refund, error) {
	if r.Status != RefundStatusPending {
		return r, fmt.Errorf("cannot %s refund in status %s: %w", op, r.Status, ErrInvalidTransition)
	}
	if strings.TrimSpace(input.ReviewedBy) == "" {
		return r, fmt.Errorf("reviewer id is required: %w", ErrValidation)
	}
	now := time.Now()
	r.ReviewedBy = &input.ReviewedBy
	r.ReviewedAt = &now
	if input.ReviewNotes != "" {
		r.ReviewNotes = &input.ReviewNotes
	}
	return r, nil
}

// Approve accepts a pending refund for processing
func (r Refund) Approve(input ReviewInput) (Refund, error) {
	r, err := r.review(input, "approve")
	if err != nil {
		return r, err
	}
	r.Status = RefundStatusApproved
	return r, nil
}

// Reject declines a pending refund; terminal
func (r Refund) Reject(input ReviewInput) (Refund, error) {
	r, err := r.review(input, "reject")
	if err != nil {
		return r, err
	}
	r.Status = RefundStatusRejected
	return r, nil
}

// Process executes an approved refund; terminal
func (r Refund) Process(refundReference string) (Refund, error) {
	if r.Status != RefundStatusApproved {
		return r, fmt.Errorf("cannot process non-approved refund (status %s): %w", r.Status, ErrInvalidTransition)
	}
	if strings.TrimSpace(refundReference) == "" {
		return r, fmt.Errorf("refund reference is required: %w", ErrValidation)
	}
	now := time.Now()
	r.Status = RefundStatusProcessed
	r.ProcessedAt = &now
	r.RefundReference = &refundReference
	return r, nil
}
