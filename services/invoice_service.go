package services

import (
	"errors"
	"fmt"
	"legal_office_go/models"
	"log"
	"time"

	"gorm.io/gorm"
)

// Invoice errors
var (
	ErrInvoiceNotFound    = errors.New("invoice not found")
	ErrMembershipNotFound = errors.New("membership not found")
)

// CreateMembershipInvoice bills a membership with a generated invoice number
func CreateMembershipInvoice(db *gorm.DB, membershipID string, amount float64, currency string, dueDate time.Time) (*models.MembershipInvoice, error) {
	var membership models.Membership
	if err := db.First(&membership, "id = ?", membershipID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMembershipNotFound
		}
		return nil, err
	}

	money, err := models.NewPositiveMoney(amount, currency)
	if err != nil {
		return nil, err
	}

	invoiceNumber, err := NextInvoiceNumber(db)
	if err != nil {
		return nil, err
	}

	invoice := models.MembershipInvoice{
		MembershipID:  membershipID,
		InvoiceNumber: invoiceNumber,
		Amount:        money,
		DueDate:       dueDate,
		Status:        models.InvoiceStatusUnpaid,
	}
	if err := db.Create(&invoice).Error; err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}
	return &invoice, nil
}

// GetInvoiceByID retrieves an invoice by ID
func GetInvoiceByID(db *gorm.DB, id string) (*models.MembershipInvoice, error) {
	var invoice models.MembershipInvoice
	err := db.First(&invoice, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// transitionInvoice loads, applies one transition, and persists the result
func transitionInvoice(db *gorm.DB, id string, transition func(models.MembershipInvoice) (models.MembershipInvoice, error)) (*models.MembershipInvoice, error) {
	invoice, err := GetInvoiceByID(db, id)
	if err != nil {
		return nil, err
	}
	updated, err := transition(*invoice)
	if err != nil {
		return nil, err
	}
	if err := db.Save(&updated).Error; err != nil {
		return nil, fmt.Errorf("failed to save invoice %s: %w", updated.InvoiceNumber, err)
	}
	return &updated, nil
}

// MarkInvoicePaid records payment of an unpaid or overdue invoice
func MarkInvoicePaid(db *gorm.DB, id, paymentReference string) (*models.MembershipInvoice, error) {
	return transitionInvoice(db, id, func(i models.MembershipInvoice) (models.MembershipInvoice, error) {
		return i.MarkPaid(paymentReference)
	})
}

// CancelInvoice voids an invoice that was never paid
func CancelInvoice(db *gorm.DB, id string) (*models.MembershipInvoice, error) {
	return transitionInvoice(db, id, models.MembershipInvoice.Cancel)
}

// SweepOverdueInvoices flags unpaid invoices past their due date as overdue
// and returns how many were updated
func SweepOverdueInvoices(db *gorm.DB) (int, error) {
	var invoices []models.MembershipInvoice
	err := db.Where("status = ? AND due_date < ?", models.InvoiceStatusUnpaid, time.Now()).
		Find(&invoices).Error
	if err != nil {
		return 0, fmt.Errorf("failed to load unpaid invoices: %w", err)
	}

	swept := 0
	for _, invoice := range invoices {
		overdue, err := invoice.MarkOverdue()
		if err != nil {
			log.Printf("[JOB] Skipping invoice %s: %v", invoice.InvoiceNumber, err)
			continue
		}
		if err := db.Save(&overdue).Error; err != nil {
			log.Printf("[JOB] Failed to save invoice %s: %v", invoice.InvoiceNumber, err)
			continue
		}
		swept++
	}
	return swept, nil
}
