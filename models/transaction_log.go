package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Transaction type constants
const (
	TransactionTypePayment = "payment"
	TransactionTypeRefund  = "refund"
)

// Transaction status constants
const (
	TransactionStatusSucceeded = "succeeded"
	TransactionStatusFailed    = "failed"
	TransactionStatusReversed  = "reversed"
)

// TransactionLog records a money movement. Refunds and disputes reference it
// by id only.
type TransactionLog struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID    string  `gorm:"type:uuid;not null;index" json:"user_id"`
	Type      string  `gorm:"not null;index" json:"type"`
	Amount    Money   `gorm:"embedded;embeddedPrefix:amount_" json:"amount"`
	Status    string  `gorm:"not null;default:succeeded" json:"status"`
	Reference *string `json:"reference,omitempty"`
}

// BeforeCreate hook to generate UUID
func (t *TransactionLog) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (TransactionLog) TableName() string {
	return "transaction_logs"
}
