package models

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProviderSpecialization records a provider's track record in one
// specialization. SuccessRate is only meaningful when CaseCount > 0 and is
// kept at 2 decimal places.
type ProviderSpecialization struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ProviderID       string         `gorm:"type:uuid;not null;index;uniqueIndex:idx_provider_specialization" json:"provider_id"`
	SpecializationID string         `gorm:"type:uuid;not null;index;uniqueIndex:idx_provider_specialization" json:"specialization_id"`
	Specialization   Specialization `gorm:"foreignKey:SpecializationID" json:"specialization,omitempty"`

	ExperienceYears int     `gorm:"not null;default:0" json:"experience_years"`
	IsCertified     bool    `gorm:"not null;default:false" json:"is_certified"`
	Certifications  *string `gorm:"type:text" json:"certifications,omitempty"` // JSON array of certification names

	CaseCount           int      `gorm:"not null;default:0" json:"case_count"`
	SuccessfulCaseCount int      `gorm:"not null;default:0" json:"successful_case_count"`
	SuccessRate         *float64 `json:"success_rate,omitempty"` // 0-100, nil until the first case
}

// BeforeCreate hook to generate UUID
func (ps *ProviderSpecialization) BeforeCreate(tx *gorm.DB) error {
	if ps.ID == "" {
		ps.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (ProviderSpecialization) TableName() string {
	return "provider_specializations"
}

// CertificationList decodes the stored certification names (never nil)
func (ps *ProviderSpecialization) CertificationList() ([]string, error) {
	if ps.Certifications == nil || *ps.Certifications == "" {
		return []string{}, nil
	}
	var names []string
	if err := json.Unmarshal([]byte(*ps.Certifications), &names); err != nil {
		return nil, fmt.Errorf("failed to decode certifications: %w", err)
	}
	return names, nil
}

// SetCertifications encodes certification names and updates the certified flag
func (ps *ProviderSpecialization) SetCertifications(names []string) error {
	encoded, err := json.Marshal(names)
	if err != nil {
		return fmt.Errorf("failed to encode certifications: %w", err)
	}
	s := string(encoded)
	ps.Certifications = &s
	ps.IsCertified = len(names) > 0
	return nil
}

// ApplyCaseResult increments the case counters and recomputes the success
// rate, rounded to 2 decimal places. The rounding rule is a documented
// contract; callers must persist the result atomically.
func (ps *ProviderSpecialization) ApplyCaseResult(wasSuccessful bool) {
	ps.CaseCount++
	if wasSuccessful {
		ps.SuccessfulCaseCount++
	}
	rate := math.Round(float64(ps.SuccessfulCaseCount)/float64(ps.CaseCount)*100*100) / 100
	ps.SuccessRate = &rate
}
