package services

import (
	"errors"
	"fmt"
	"legal_office_go/models"

	"gorm.io/gorm"
)

// Refund errors
var (
	ErrRefundNotFound = errors.New("refund not found")
)

// CreateRefund opens a pending refund request
func CreateRefund(db *gorm.DB, input models.NewRefundInput) (*models.Refund, error) {
	refund, err := models.NewRefund(input)
	if err != nil {
		return nil, err
	}
	if err := db.Create(&refund).Error; err != nil {
		return nil, fmt.Errorf("failed to create refund: %w", err)
	}
	return &refund, nil
}

// GetRefundByID retrieves a refund by ID
func GetRefundByID(db *gorm.DB, id string) (*models.Refund, error) {
	var refund models.Refund
	err := db.First(&refund, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRefundNotFound
		}
		return nil, err
	}
	return &refund, nil
}

// GetPendingRefunds lists refunds awaiting review, oldest first
func GetPendingRefunds(db *gorm.DB) ([]models.Refund, error) {
	var refunds []models.Refund
	err := db.Where("status = ?", models.RefundStatusPending).
		Order("created_at ASC").
		Find(&refunds).Error
	return refunds, err
}

// transitionRefund loads, applies one transition, and persists the result
func transitionRefund(db *gorm.DB, id string, transition func(models.Refund) (models.Refund, error)) (*models.Refund, error) {
	refund, err := GetRefundByID(db, id)
	if err != nil {
		return nil, err
	}
	updated, err := transition(*refund)
	if err != nil {
		return nil, err
	}
	if err := db.Save(&updated).Error; err != nil {
		return nil, fmt.Errorf("failed to save refund %s: %w", updated.ID, err)
	}
	return &updated, nil
}

// ApproveRefund accepts a pending refund for processing
func ApproveRefund(db *gorm.DB, id string, input models.ReviewInput) (*models.Refund, error) {
	return transitionRefund(db, id, func(r models.Refund) (models.Refund, error) {
		return r.Approve(input)
	})
}

// RejectRefund declines a pending refund
func RejectRefund(db *gorm.DB, id string, input models.ReviewInput) (*models.Refund, error) {
	return transitionRefund(db, id, func(r models.Refund) (models.Refund, error) {
		return r.Reject(input)
	})
}

// ProcessRefund executes an approved refund and logs the reversal
func ProcessRefund(db *gorm.DB, id, refundReference string) (*models.Refund, error) {
	refund, err := GetRefundByID(db, id)
	if err != nil {
		return nil, err
	}
	processed, err := refund.Process(refundReference)
	if err != nil {
		return nil, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&processed).Error; err != nil {
			return fmt.Errorf("failed to save refund %s: %w", processed.ID, err)
		}
		entry := models.TransactionLog{
			UserID:    processed.UserID,
			Type:      models.TransactionTypeRefund,
			Amount:    processed.Amount,
			Status:    models.TransactionStatusSucceeded,
			Reference: processed.RefundReference,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("failed to log refund transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &processed, nil
}
