package services

import (
	"errors"
	"fmt"
	"legal_office_go/models"
	"time"

	"gorm.io/gorm"
)

// Call request errors
var (
	ErrCallRequestNotFound = errors.New("call request not found")
)

// CreateCallRequest opens a pending call request with a generated number
func CreateCallRequest(db *gorm.DB, input models.NewCallRequestInput) (*models.CallRequest, error) {
	if input.RequestNumber == "" {
		number, err := NextCallRequestNumber(db)
		if err != nil {
			return nil, err
		}
		input.RequestNumber = number
	}
	request, err := models.NewCallRequest(input)
	if err != nil {
		return nil, err
	}
	if err := db.Create(&request).Error; err != nil {
		return nil, fmt.Errorf("failed to create call request: %w", err)
	}
	return &request, nil
}

// GetCallRequestByID retrieves a call request by ID
func GetCallRequestByID(db *gorm.DB, id string) (*models.CallRequest, error) {
	var request models.CallRequest
	err := db.First(&request, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCallRequestNotFound
		}
		return nil, err
	}
	return &request, nil
}

// GetCallRequestsBySubscriber lists a subscriber's call requests, newest first
func GetCallRequestsBySubscriber(db *gorm.DB, subscriberID string) ([]models.CallRequest, error) {
	var requests []models.CallRequest
	err := db.Where("subscriber_id = ?", subscriberID).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

// transitionCallRequest loads, applies one transition, and persists the result
func transitionCallRequest(db *gorm.DB, id string, transition func(models.CallRequest) (models.CallRequest, error)) (*models.CallRequest, error) {
	request, err := GetCallRequestByID(db, id)
	if err != nil {
		return nil, err
	}
	updated, err := transition(*request)
	if err != nil {
		return nil, err
	}
	if err := db.Save(&updated).Error; err != nil {
		return nil, fmt.Errorf("failed to save call request %s: %w", updated.RequestNumber, err)
	}
	return &updated, nil
}

// ScheduleCall books the call at a concrete time
func ScheduleCall(db *gorm.DB, id string, scheduledAt time.Time, durationMinutes int, platform, callLink *string) (*models.CallRequest, error) {
	return transitionCallRequest(db, id, func(c models.CallRequest) (models.CallRequest, error) {
		return c.Schedule(scheduledAt, durationMinutes, platform, callLink)
	})
}

// AssignCallProvider sets the handling provider
func AssignCallProvider(db *gorm.DB, id, providerID string) (*models.CallRequest, error) {
	return transitionCallRequest(db, id, func(c models.CallRequest) (models.CallRequest, error) {
		return c.AssignProvider(providerID)
	})
}

// StartCall marks a scheduled call as in progress
func StartCall(db *gorm.DB, id string) (*models.CallRequest, error) {
	return transitionCallRequest(db, id, models.CallRequest.StartCall)
}

// EndCall completes an in-progress call
func EndCall(db *gorm.DB, id string, recordingURL *string) (*models.CallRequest, error) {
	return transitionCallRequest(db, id, func(c models.CallRequest) (models.CallRequest, error) {
		return c.EndCall(recordingURL)
	})
}

// CancelCallRequest aborts a non-terminal call request
func CancelCallRequest(db *gorm.DB, id string, reason *string) (*models.CallRequest, error) {
	return transitionCallRequest(db, id, func(c models.CallRequest) (models.CallRequest, error) {
		return c.Cancel(reason)
	})
}

// MarkCallNoShow records a missed scheduled call
func MarkCallNoShow(db *gorm.DB, id string) (*models.CallRequest, error) {
	return transitionCallRequest(db, id, models.CallRequest.MarkNoShow)
}

// UpdateCallLink changes the meeting link before completion
func UpdateCallLink(db *gorm.DB, id, link string, platform *string) (*models.CallRequest, error) {
	return transitionCallRequest(db, id, func(c models.CallRequest) (models.CallRequest, error) {
		return c.UpdateCallLink(link, platform)
	})
}

// RescheduleCall moves a scheduled call to a new time
func RescheduleCall(db *gorm.DB, id string, newTime time.Time, durationMinutes *int, reason *string) (*models.CallRequest, error) {
	return transitionCallRequest(db, id, func(c models.CallRequest) (models.CallRequest, error) {
		return c.Reschedule(newTime, durationMinutes, reason)
	})
}
