package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Call request status constants
const (
	CallRequestStatusPending    = "pending"
	CallRequestStatusScheduled  = "scheduled"
	CallRequestStatusInProgress = "in_progress"
	CallRequestStatusCompleted  = "completed"
	CallRequestStatusCancelled  = "cancelled"
	CallRequestStatusNoShow     = "no_show"
)

// Call platform constants
const (
	CallPlatformZoom  = "zoom"
	CallPlatformMeet  = "meet"
	CallPlatformTeams = "teams"
	CallPlatformPhone = "phone"
)

// MinCallPurposeLength is the minimum length of a call request purpose
const MinCallPurposeLength = 10

// CallRequest tracks a subscriber's request for a consultation call from
// intake through scheduling, the call itself, and completion.
type CallRequest struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	RequestNumber string `gorm:"not null;uniqueIndex" json:"request_number"`

	SubscriberID       string  `gorm:"type:uuid;not null;index" json:"subscriber_id"`
	AssignedProviderID *string `gorm:"type:uuid;index" json:"assigned_provider_id,omitempty"`

	ConsultationType *string `json:"consultation_type,omitempty"`
	Purpose          string  `gorm:"type:text;not null" json:"purpose"`

	// Subscriber preferences
	PreferredDate *time.Time `json:"preferred_date,omitempty"`
	PreferredTime *string    `gorm:"size:20" json:"preferred_time,omitempty"`

	Status string `gorm:"not null;default:pending;index" json:"status"`

	// Schedule
	ScheduledAt       *time.Time `json:"scheduled_at,omitempty"`
	ScheduledDuration *int       `json:"scheduled_duration,omitempty"` // minutes
	RescheduleReason  *string    `gorm:"type:text" json:"reschedule_reason,omitempty"`

	// Call execution
	ActualDuration *int       `json:"actual_duration,omitempty"` // minutes
	CallStartedAt  *time.Time `json:"call_started_at,omitempty"`
	CallEndedAt    *time.Time `json:"call_ended_at,omitempty"`
	RecordingURL   *string    `gorm:"size:500" json:"recording_url,omitempty"`
	CallPlatform   *string    `gorm:"size:20" json:"call_platform,omitempty"`
	CallLink       *string    `gorm:"size:500" json:"call_link,omitempty"`

	CancellationReason *string `gorm:"type:text" json:"cancellation_reason,omitempty"`

	SubmittedAt time.Time  `gorm:"not null" json:"submitted_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// NewCallRequestInput carries the data needed to open a call request
type NewCallRequestInput struct {
	RequestNumber    string
	SubscriberID     string
	ConsultationType *string
	Purpose          string
	PreferredDate    *time.Time
	PreferredTime    *string
}

// NewCallRequest validates the input and builds a pending call request
func NewCallRequest(input NewCallRequestInput) (CallRequest, error) {
	if strings.TrimSpace(input.SubscriberID) == "" {
		return CallRequest{}, fmt.Errorf("subscriber id is required: %w", ErrValidation)
	}
	if len(strings.TrimSpace(input.Purpose)) < MinCallPurposeLength {
		return CallRequest{}, fmt.Errorf("call purpose must be at least %d characters: %w", MinCallPurposeLength, ErrValidation)
	}
	return CallRequest{
		RequestNumber:    input.RequestNumber,
		SubscriberID:     input.SubscriberID,
		ConsultationType: input.ConsultationType,
		Purpose:          input.Purpose,
		PreferredDate:    input.PreferredDate,
		PreferredTime:    input.PreferredTime,
		Status:           CallRequestStatusPending,
		SubmittedAt:      time.Now(),
	}, nil
}

// BeforeCreate hook to generate UUID
func (c *CallRequest) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.SubmittedAt.IsZero() {
		c.SubmittedAt = time.Now()
	}
	return nil
}

// TableName specifies the table name for CallRequest model
func (CallRequest) TableName() string {
	return "call_requests"
}

// IsTerminal reports whether the call request reached a final status
func (c CallRequest) IsTerminal() bool {
	return c.Status == CallRequestStatusCompleted ||
		c.Status == CallRequestStatusCancelled ||
		c.Status == CallRequestStatusNoShow
}

func (c CallRequest) invalidTransition(op string) error {
	return fmt.Errorf("cannot %s call request %s in status %s: %w", op, c.RequestNumber, c.Status, ErrInvalidTransition)
}

// Schedule books the call at a concrete time
func (c CallRequest) Schedule(scheduledAt time.Time, durationMinutes int, platform, callLink *string) (CallRequest, error) {
	if c.Status != CallRequestStatusPending {
		return c, c.invalidTransition("schedule")
	}
	if durationMinutes <= 0 {
		return c, fmt.Errorf("scheduled duration must be positive: %w", ErrValidation)
	}
	c.Status = CallRequestStatusScheduled
	c.ScheduledAt = &scheduledAt
	c.ScheduledDuration = &durationMinutes
	c.CallPlatform = platform
	c.CallLink = callLink
	return c, nil
}

// AssignProvider sets the handling provider; independent of status
func (c CallRequest) AssignProvider(providerID string) (CallRequest, error) {
	if strings.TrimSpace(providerID) == "" {
		return c, fmt.Errorf("provider id is required: %w", ErrValidation)
	}
	c.AssignedProviderID = &providerID
	return c, nil
}

// StartCall marks the scheduled call as in progress
func (c CallRequest) StartCall() (CallRequest, error) {
	if c.Status != CallRequestStatusScheduled {
		return c, c.invalidTransition("start")
	}
	now := time.Now()
	c.Status = CallRequestStatusInProgress
	c.CallStartedAt = &now
	return c, nil
}

// EndCall completes an in-progress call and records its actual duration
func (c CallRequest) EndCall(recordingURL *string) (CallRequest, error) {
	if c.Status != CallRequestStatusInProgress {
		return c, c.invalidTransition("end")
	}
	now := time.Now()
	c.Status = CallRequestStatusCompleted
	c.CallEndedAt = &now
	c.CompletedAt = &now
	if c.CallStartedAt != nil {
		minutes := int(now.Sub(*c.CallStartedAt).Minutes())
		c.ActualDuration = &minutes
	}
	c.RecordingURL = recordingURL
	return c, nil
}

// Cancel aborts the request from any non-terminal state
func (c CallRequest) Cancel(reason *string) (CallRequest, error) {
	if c.IsTerminal() {
		return c, c.invalidTransition("cancel")
	}
	c.Status = CallRequestStatusCancelled
	c.CancellationReason = reason
	return c, nil
}

// MarkNoShow records that the subscriber did not attend the scheduled call
func (c CallRequest) MarkNoShow() (CallRequest, error) {
	if c.Status != CallRequestStatusScheduled {
		return c, c.invalidTransition("mark no-show for")
	}
	c.Status = CallRequestStatusNoShow
	return c, nil
}

// UpdateCallLink changes the meeting link before the call completes
func (c CallRequest) UpdateCallLink(link string, platform *string) (CallRequest, error) {
	if c.IsTerminal() {
		return c, c.invalidTransition("update link for")
	}
	if strings.TrimSpace(link) == "" {
		return c, fmt.Errorf("call link is required: %w", ErrValidation)
	}
	c.CallLink = &link
	if platform != nil {
		c.CallPlatform = platform
	}
	return c, nil
}

// Reschedule moves a scheduled call to a new time
func (c CallRequest) Reschedule(newTime time.Time, durationMinutes *int, reason *string) (CallRequest, error) {
	if c.Status != CallRequestStatusScheduled {
		return c, c.invalidTransition("reschedule")
	}
	c.ScheduledAt = &newTime
	if durationMinutes != nil {
		if *durationMinutes <= 0 {
			return c, fmt.Errorf("scheduled duration must be positive: %w", ErrValidation)
		}
		c.ScheduledDuration = durationMinutes
	}
	c.RescheduleReason = reason
	return c, nil
}
