package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Request type constants for SLA policy matching
const (
	RequestTypeLegalOpinion = "legal_opinion"
	RequestTypeCallRequest  = "call_request"
	RequestTypeConsultation = "consultation"
	RequestTypeDispute      = "dispute"
)

// SLAPolicy configures response/resolution/escalation time budgets for a
// request type. Priority is optional; a nil priority is a wildcard matched
// when no exact (type, priority) policy exists.
type SLAPolicy struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name        string  `gorm:"not null" json:"name"`
	RequestType string  `gorm:"not null;index:idx_sla_type_priority" json:"request_type"`
	Priority    *string `gorm:"index:idx_sla_type_priority" json:"priority,omitempty"`

	ResponseMinutes   int  `gorm:"not null" json:"response_minutes"`
	ResolutionMinutes int  `gorm:"not null" json:"resolution_minutes"`
	EscalationMinutes *int `json:"escalation_minutes,omitempty"`

	IsActive bool `gorm:"not null;default:true;index" json:"is_active"`
}

// BeforeCreate hook to generate UUID
func (p *SLAPolicy) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for SLAPolicy model
func (SLAPolicy) TableName() string {
	return "sla_policies"
}

// ResponseTime returns the response budget as a duration
func (p *SLAPolicy) ResponseTime() time.Duration {
	return time.Duration(p.ResponseMinutes) * time.Minute
}

// ResolutionTime returns the resolution budget as a duration
func (p *SLAPolicy) ResolutionTime() time.Duration {
	return time.Duration(p.ResolutionMinutes) * time.Minute
}

// EscalationTime returns the escalation budget, if configured
func (p *SLAPolicy) EscalationTime() *time.Duration {
	if p.EscalationMinutes == nil {
		return nil
	}
	d := time.Duration(*p.EscalationMinutes) * time.Minute
	return &d
}
