package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Invoice status constants
const (
	InvoiceStatusUnpaid    = "unpaid"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusOverdue   = "overdue"
	InvoiceStatusCancelled = "cancelled"
)

// MembershipInvoice bills a membership period. Unpaid invoices past their due
// date are swept to overdue by the billing job; late payment is still
// accepted on an overdue invoice.
type MembershipInvoice struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	MembershipID string     `gorm:"type:uuid;not null;index" json:"membership_id"`
	Membership   Membership `gorm:"foreignKey:MembershipID" json:"membership,omitempty"`

	InvoiceNumber string    `gorm:"not null;uniqueIndex" json:"invoice_number"`
	Amount        Money     `gorm:"embedded;embeddedPrefix:amount_" json:"amount"`
	DueDate       time.Time `gorm:"not null;index" json:"due_date"`
	Status        string    `gorm:"not null;default:unpaid;index" json:"status"`

	PaidAt           *time.Time `json:"paid_at,omitempty"`
	PaymentReference *string    `json:"payment_reference,omitempty"`
}

// BeforeCreate hook to generate UUID
func (i *MembershipInvoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for MembershipInvoice model
func (MembershipInvoice) TableName() string {
	return "membership_invoices"
}

// IsOverdue reports whether an unpaid invoice is past its due date
func (i MembershipInvoice) IsOverdue() bool {
	if i.Status == InvoiceStatusOverdue {
		return true
	}
	return i.Status == InvoiceStatusUnpaid && i.DueDate.Before(time.Now())
}

// DaysUntilDue returns whole days until the due date (negative when past due)
func (i MembershipInvoice) DaysUntilDue() int {
	return int(time.Until(i.DueDate).Hours() / 24)
}

func (i MembershipInvoice) invalidTransition(op string) error {
	return fmt.Errorf("cannot %s invoice %s in status %s: %w", op, i.InvoiceNumber, i.Status, ErrInvalidTransition)
}

// MarkPaid records payment of an unpaid or overdue invoice
func (i MembershipInvoice) MarkPaid(paymentReference string) (MembershipInvoice, error) {
	if i.Status != InvoiceStatusUnpaid && i.Status != InvoiceStatusOverdue {
		return i, i.invalidTransition("mark paid")
	}
	now := time.Now()
	i.Status = InvoiceStatusPaid
	i.PaidAt = &now
	if paymentReference != "" {
		i.PaymentReference = &paymentReference
	}
	return i, nil
}

// MarkOverdue flags an unpaid invoice whose due date has passed
func (i MembershipInvoice) MarkOverdue() (MembershipInvoice, error) {
	if i.Status != InvoiceStatusUnpaid {
		return i, i.invalidTransition("mark overdue")
	}
	if !i.DueDate.Before(time.Now()) {
		return i, fmt.Errorf("invoice %s is not yet due: %w", i.InvoiceNumber, ErrPreconditionFailed)
	}
	i.Status = InvoiceStatusOverdue
	return i, nil
}

// Cancel voids an invoice that was never paid
func (i MembershipInvoice) Cancel() (MembershipInvoice, error) {
	if i.Status != InvoiceStatusUnpaid && i.Status != InvoiceStatusOverdue {
		return i, i.invalidTransition("cancel")
	}
	i.Status = InvoiceStatusCancelled
	return i, nil
}
