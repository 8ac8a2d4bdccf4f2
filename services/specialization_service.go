package services

import (
	"errors"
	"fmt"
	"legal_office_go/models"
	"sort"

	"gorm.io/gorm"
)

// Specialization matching errors
var (
	ErrNoSpecializationsMatched = errors.New("no active specializations matched the requested names")
)

// ProviderMatchOptions filters and limits the provider matching result
type ProviderMatchOptions struct {
	RequireCertification bool
	MinExperienceYears   int
	MinSuccessRate       float64 // 0 disables the filter
	Limit                int     // 0 means no limit
}

// ProviderMatch is one provider's fitness for a set of required specializations
type ProviderMatch struct {
	ProviderID         string   `json:"provider_id"`
	MatchScore         float64  `json:"match_score"`
	MatchedCount       int      `json:"matched_count"`
	MaxExperienceYears int      `json:"max_experience_years"`
	HasCertification   bool     `json:"has_certification"`
	SpecializationIDs  []string `json:"specialization_ids"`

	// AggregateSuccessRate is the case-count-weighted average success rate
	// across the matched specializations; nil until any case was recorded
	AggregateSuccessRate *float64 `json:"aggregate_success_rate,omitempty"`

	totalCases      int
	weightedSuccess float64
}

// FindProvidersWithSpecializations scores providers against the required
// specialization names. Per matched specialization a provider earns
// 1 + 0.5 (if certified) + successRate/100. Results are sorted by score
// descending; equal scores keep first-encounter order (stable sort).
func FindProvidersWithSpecializations(db *gorm.DB, requiredNames []string, opts ProviderMatchOptions) ([]ProviderMatch, error) {
	if len(requiredNames) == 0 {
		return nil, fmt.Errorf("at least one specialization name is required: %w", models.ErrValidation)
	}

	var specializations []models.Specialization
	err := db.Where("name IN ? AND is_active = ?", requiredNames, true).
		Find(&specializations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to resolve specializations: %w", err)
	}
	if len(specializations) == 0 {
		return nil, ErrNoSpecializationsMatched
	}

	specializationIDs := make([]string, 0, len(specializations))
	for _, s := range specializations {
		specializationIDs = append(specializationIDs, s.ID)
	}

	var records []models.ProviderSpecialization
	err = db.Where("specialization_id IN ?", specializationIDs).
		Order("created_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load provider specializations: %w", err)
	}

	// Accumulate per provider, preserving first-encounter order for the
	// deterministic tie-break.
	byProvider := map[string]*ProviderMatch{}
	order := []string{}
	for _, record := range records {
		match, seen := byProvider[record.ProviderID]
		if !seen {
			match = &ProviderMatch{ProviderID: record.ProviderID}
			byProvider[record.ProviderID] = match
			order = append(order, record.ProviderID)
		}

		score := 1.0
		if record.IsCertified {
			score += 0.5
		}
		if record.CaseCount > 0 && record.SuccessRate != nil {
			score += *record.SuccessRate / 100
			match.totalCases += record.CaseCount
			match.weightedSuccess += *record.SuccessRate * float64(record.CaseCount)
		}
		match.MatchScore += score
		match.MatchedCount++
		match.SpecializationIDs = append(match.SpecializationIDs, record.SpecializationID)
		if record.ExperienceYears > match.MaxExperienceYears {
			match.MaxExperienceYears = record.ExperienceYears
		}
		if record.IsCertified {
			match.HasCertification = true
		}
	}

	matches := make([]ProviderMatch, 0, len(order))
	for _, providerID := range order {
		match := byProvider[providerID]
		if match.totalCases > 0 {
			rate := match.weightedSuccess / float64(match.totalCases)
			match.AggregateSuccessRate = &rate
		}
		if opts.RequireCertification && !match.HasCertification {
			continue
		}
		if match.MaxExperienceYears < opts.MinExperienceYears {
			continue
		}
		if opts.MinSuccessRate > 0 && (match.AggregateSuccessRate == nil || *match.AggregateSuccessRate < opts.MinSuccessRate) {
			continue
		}
		matches = append(matches, *match)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchScore > matches[j].MatchScore
	})

	if opts.Limit > 0 && len(matches) > opts.Limit {
		matches = matches[:opts.Limit]
	}
	return matches, nil
}

// RecordCaseResult updates the case counters and success rate of every
// specialization in the category held by the provider. The read-modify-write
// runs inside one transaction so concurrent case completions for the same
// provider+specialization pair cannot lose updates.
func RecordCaseResult(db *gorm.DB, providerID, category string, wasSuccessful bool) error {
	if providerID == "" || category == "" {
		return fmt.Errorf("provider id and category are required: %w", models.ErrValidation)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var specializationIDs []string
		err := tx.Model(&models.Specialization{}).
			Where("category = ? AND is_active = ?", category, true).
			Pluck("id", &specializationIDs).Error
		if err != nil {
			return fmt.Errorf("failed to resolve category %q: %w", category, err)
		}
		if len(specializationIDs) == 0 {
			return nil
		}

		var records []models.ProviderSpecialization
		err = tx.Where("provider_id = ? AND specialization_id IN ?", providerID, specializationIDs).
			Find(&records).Error
		if err != nil {
			return fmt.Errorf("failed to load provider specializations: %w", err)
		}

		for i := range records {
			records[i].ApplyCaseResult(wasSuccessful)
			if err := tx.Save(&records[i]).Error; err != nil {
				return fmt.Errorf("failed to save case result for specialization %s: %w", records[i].SpecializationID, err)
			}
		}
		return nil
	})
}
