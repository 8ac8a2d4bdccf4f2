package services

import (
	"fmt"
	"legal_office_go/models"
	"log"

	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

// SeedDefaultSLAPolicies creates the default SLA policies when missing.
// Existing policies (matched by name) are left untouched.
func SeedDefaultSLAPolicies(db *gorm.DB) error {
	policies := []models.SLAPolicy{
		{
			Name:              "Legal opinion - urgent",
			RequestType:       models.RequestTypeLegalOpinion,
			Priority:          strPtr(models.PriorityUrgent),
			ResponseMinutes:   4 * 60,
			ResolutionMinutes: 2 * 24 * 60,
			EscalationMinutes: intPtr(24 * 60),
			IsActive:          true,
		},
		{
			Name:              "Legal opinion - high",
			RequestType:       models.RequestTypeLegalOpinion,
			Priority:          strPtr(models.PriorityHigh),
			ResponseMinutes:   8 * 60,
			ResolutionMinutes: 5 * 24 * 60,
			EscalationMinutes: intPtr(3 * 24 * 60),
			IsActive:          true,
		},
		{
			Name:              "Legal opinion - standard",
			RequestType:       models.RequestTypeLegalOpinion,
			ResponseMinutes:   24 * 60,
			ResolutionMinutes: 10 * 24 * 60,
			EscalationMinutes: intPtr(7 * 24 * 60),
			IsActive:          true,
		},
		{
			Name:              "Call request - standard",
			RequestType:       models.RequestTypeCallRequest,
			ResponseMinutes:   12 * 60,
			ResolutionMinutes: 3 * 24 * 60,
			IsActive:          true,
		},
		{
			Name:              "Dispute - standard",
			RequestType:       models.RequestTypeDispute,
			ResponseMinutes:   24 * 60,
			ResolutionMinutes: 14 * 24 * 60,
			EscalationMinutes: intPtr(7 * 24 * 60),
			IsActive:          true,
		},
	}

	for _, policy := range policies {
		var count int64
		if err := db.Model(&models.SLAPolicy{}).Where("name = ?", policy.Name).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check SLA policy %q: %w", policy.Name, err)
		}
		if count > 0 {
			continue
		}
		if err := db.Create(&policy).Error; err != nil {
			return fmt.Errorf("failed to seed SLA policy %q: %w", policy.Name, err)
		}
		log.Printf("Seeded SLA policy: %s", policy.Name)
	}
	return nil
}
