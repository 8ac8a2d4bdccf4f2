package services

import (
	"errors"
	"fmt"
	"legal_office_go/models"

	"gorm.io/gorm"
)

// Dispute errors
var (
	ErrDisputeNotFound     = errors.New("dispute not found")
	ErrActiveDisputeExists = errors.New("user already has an active dispute for this entity")
)

var activeDisputeStatuses = []string{
	models.DisputeStatusOpen,
	models.DisputeStatusUnderReview,
	models.DisputeStatusEscalated,
}

// HasActiveDispute checks whether the user already has an unresolved dispute
// against the same related entity. This is an application-level rule, kept
// outside the Dispute entity on purpose.
func HasActiveDispute(db *gorm.DB, input models.NewDisputeInput) (bool, error) {
	query := db.Model(&models.Dispute{}).
		Where("user_id = ?", input.UserID).
		Where("status IN ?", activeDisputeStatuses)

	switch {
	case input.ConsultationID != nil && *input.ConsultationID != "":
		query = query.Where("consultation_id = ?", *input.ConsultationID)
	case input.LegalOpinionID != nil && *input.LegalOpinionID != "":
		query = query.Where("legal_opinion_id = ?", *input.LegalOpinionID)
	case input.ServiceRequestID != nil && *input.ServiceRequestID != "":
		query = query.Where("service_request_id = ?", *input.ServiceRequestID)
	case input.LitigationCaseID != nil && *input.LitigationCaseID != "":
		query = query.Where("litigation_case_id = ?", *input.LitigationCaseID)
	default:
		return false, fmt.Errorf("no related entity provided: %w", models.ErrValidation)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check active disputes: %w", err)
	}
	return count > 0, nil
}

// CreateDispute opens a dispute after the active-dispute guard passes
func CreateDispute(db *gorm.DB, input models.NewDisputeInput) (*models.Dispute, error) {
	dispute, err := models.NewDispute(input)
	if err != nil {
		return nil, err
	}

	active, err := HasActiveDispute(db, input)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, ErrActiveDisputeExists
	}

	if err := db.Create(&dispute).Error; err != nil {
		return nil, fmt.Errorf("failed to create dispute: %w", err)
	}
	return &dispute, nil
}

// GetDisputeByID retrieves a dispute by ID
func GetDisputeByID(db *gorm.DB, id string) (*models.Dispute, error) {
	var dispute models.Dispute
	err := db.First(&dispute, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDisputeNotFound
		}
		return nil, err
	}
	return &dispute, nil
}

// GetDisputesByUser lists a user's disputes, newest first
func GetDisputesByUser(db *gorm.DB, userID string) ([]models.Dispute, error) {
	var disputes []models.Dispute
	err := db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&disputes).Error
	return disputes, err
}

// transitionDispute loads, applies one transition, and persists the result
func transitionDispute(db *gorm.DB, id string, transition func(models.Dispute) (models.Dispute, error)) (*models.Dispute, error) {
	dispute, err := GetDisputeByID(db, id)
	if err != nil {
		return nil, err
	}
	updated, err := transition(*dispute)
	if err != nil {
		return nil, err
	}
	if err := db.Save(&updated).Error; err != nil {
		return nil, fmt.Errorf("failed to save dispute %s: %w", updated.ID, err)
	}
	return &updated, nil
}

// StartDisputeReview moves an open dispute into review
func StartDisputeReview(db *gorm.DB, id string) (*models.Dispute, error) {
	return transitionDispute(db, id, models.Dispute.StartReview)
}

// EscalateDispute raises the dispute to a higher handler
func EscalateDispute(db *gorm.DB, id string, input models.EscalateInput) (*models.Dispute, error) {
	return transitionDispute(db, id, func(d models.Dispute) (models.Dispute, error) {
		return d.Escalate(input)
	})
}

// ResolveDispute records the outcome
func ResolveDispute(db *gorm.DB, id string, input models.ResolveInput) (*models.Dispute, error) {
	return transitionDispute(db, id, func(d models.Dispute) (models.Dispute, error) {
		return d.Resolve(input)
	})
}

// CloseDispute finalizes a resolved dispute
func CloseDispute(db *gorm.DB, id string) (*models.Dispute, error) {
	return transitionDispute(db, id, models.Dispute.Close)
}

// UpdateDisputePriority changes the priority of an active dispute
func UpdateDisputePriority(db *gorm.DB, id, priority string) (*models.Dispute, error) {
	return transitionDispute(db, id, func(d models.Dispute) (models.Dispute, error) {
		return d.UpdatePriority(priority)
	})
}

// AddDisputeEvidence merges entries into the dispute's evidence bag
func AddDisputeEvidence(db *gorm.DB, id string, items map[string]string) (*models.Dispute, error) {
	return transitionDispute(db, id, func(d models.Dispute) (models.Dispute, error) {
		return d.AddEvidence(items)
	})
}
