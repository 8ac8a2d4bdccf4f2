package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Membership status constants
const (
	MembershipStatusActive   = "active"
	MembershipStatusPastDue  = "past_due"
	MembershipStatusCanceled = "canceled"
	MembershipStatusExpired  = "expired"
)

// Membership links a subscriber to a billed plan period
type Membership struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID string `gorm:"type:uuid;not null;index" json:"user_id"`
	User   *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`

	PlanName string `gorm:"not null" json:"plan_name"`
	Status   string `gorm:"not null;default:active;index" json:"status"`

	StartedAt          time.Time  `gorm:"not null" json:"started_at"`
	CurrentPeriodStart *time.Time `json:"current_period_start,omitempty"`
	CurrentPeriodEnd   *time.Time `json:"current_period_end,omitempty"`
	CanceledAt         *time.Time `json:"canceled_at,omitempty"`
}

// BeforeCreate hook to generate UUID
func (m *Membership) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.StartedAt.IsZero() {
		m.StartedAt = time.Now()
	}
	return nil
}

// TableName specifies the table name
func (Membership) TableName() string {
	return "memberships"
}

// IsActive checks if the membership is currently in good standing
func (m *Membership) IsActive() bool {
	return m.Status == MembershipStatusActive
}
