package services

import (
	"errors"
	"fmt"
	"legal_office_go/models"
	"time"

	"gorm.io/gorm"
)

// SLA status constants
const (
	SLAStatusOnTrack  = "on_track"
	SLAStatusAtRisk   = "at_risk"
	SLAStatusBreached = "breached"
)

// Deadline type constants for breach records
const (
	DeadlineTypeResponse   = "response"
	DeadlineTypeResolution = "resolution"
)

// Conservative defaults applied when no SLA policy matches a request.
// Request creation is never blocked on missing SLA configuration.
const (
	DefaultResponseMinutes   = 24 * 60
	DefaultResolutionMinutes = 72 * 60
)

// DefaultAtRiskThreshold is the fraction of the total time budget remaining
// below which an unmet deadline counts as at risk. Overridable via config.
const DefaultAtRiskThreshold = 0.20

// SLADeadlines holds the deadlines derived for a new request. PolicyID is
// empty when the conservative default was applied.
type SLADeadlines struct {
	PolicyID   string     `json:"policy_id,omitempty"`
	Response   time.Time  `json:"response"`
	Resolution time.Time  `json:"resolution"`
	Escalation *time.Time `json:"escalation,omitempty"`
}

// CalculateSLADeadlines looks up the active policy for (requestType,
// priority), falling back to the wildcard policy (nil priority) and finally
// to the conservative default. A zero start means now.
func CalculateSLADeadlines(db *gorm.DB, requestType, priority string, start time.Time) (*SLADeadlines, error) {
	if start.IsZero() {
		start = time.Now()
	}

	policy, err := lookupSLAPolicy(db, requestType, priority)
	if err != nil {
		return nil, err
	}

	if policy == nil {
		return &SLADeadlines{
			Response:   start.Add(time.Duration(DefaultResponseMinutes) * time.Minute),
			Resolution: start.Add(time.Duration(DefaultResolutionMinutes) * time.Minute),
		}, nil
	}

	deadlines := &SLADeadlines{
		PolicyID:   policy.ID,
		Response:   start.Add(policy.ResponseTime()),
		Resolution: start.Add(policy.ResolutionTime()),
	}
	if escalation := policy.EscalationTime(); escalation != nil {
		t := start.Add(*escalation)
		deadlines.Escalation = &t
	}
	return deadlines, nil
}

// lookupSLAPolicy resolves (requestType, priority) to the active policy,
// exact match first, wildcard-priority second, nil when nothing matches
func lookupSLAPolicy(db *gorm.DB, requestType, priority string) (*models.SLAPolicy, error) {
	var policy models.SLAPolicy

	if priority != "" {
		err := db.Where("request_type = ? AND priority = ? AND is_active = ?", requestType, priority, true).
			First(&policy).Error
		if err == nil {
			return &policy, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to look up SLA policy: %w", err)
		}
	}

	err := db.Where("request_type = ? AND priority IS NULL AND is_active = ?", requestType, true).
		First(&policy).Error
	if err == nil {
		return &policy, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return nil, fmt.Errorf("failed to look up SLA policy: %w", err)
}

// SLATrackedRequest is the snapshot of a request's SLA-relevant timestamps
// consumed by the status and urgency calculations
type SLATrackedRequest struct {
	CreatedAt          time.Time
	Priority           string
	ResponseDeadline   time.Time
	ResolutionDeadline time.Time
	EscalationDeadline *time.Time
	RespondedAt        *time.Time
	ResolvedAt         *time.Time
}

// SLAStatusResult classifies where a request stands against its deadlines
type SLAStatusResult struct {
	Status     string `json:"status"`
	IsBreached bool   `json:"is_breached"`
	IsAtRisk   bool   `json:"is_at_risk"`
}

// CheckSLAStatus evaluates a request against its deadlines. A deadline is
// breached when it has passed without being met; at risk when less than
// atRiskThreshold of its total budget remains. Threshold <= 0 falls back to
// the default.
func CheckSLAStatus(req SLATrackedRequest, atRiskThreshold float64) SLAStatusResult {
	if atRiskThreshold <= 0 {
		atRiskThreshold = DefaultAtRiskThreshold
	}
	now := time.Now()

	breached := deadlineMissed(now, req.ResponseDeadline, req.RespondedAt) ||
		deadlineMissed(now, req.ResolutionDeadline, req.ResolvedAt)
	if breached {
		return SLAStatusResult{Status: SLAStatusBreached, IsBreached: true}
	}

	atRisk := deadlineAtRisk(now, req.CreatedAt, req.ResponseDeadline, req.RespondedAt, atRiskThreshold) ||
		deadlineAtRisk(now, req.CreatedAt, req.ResolutionDeadline, req.ResolvedAt, atRiskThreshold)
	if atRisk {
		return SLAStatusResult{Status: SLAStatusAtRisk, IsAtRisk: true}
	}

	return SLAStatusResult{Status: SLAStatusOnTrack}
}

// deadlineMissed reports whether the deadline passed before it was met
func deadlineMissed(now, deadline time.Time, metAt *time.Time) bool {
	if deadline.IsZero() {
		return false
	}
	if metAt != nil {
		return metAt.After(deadline)
	}
	return now.After(deadline)
}

// deadlineAtRisk reports whether an unmet deadline is inside the at-risk
// window (remaining time below threshold of the total budget)
func deadlineAtRisk(now, createdAt, deadline time.Time, metAt *time.Time, threshold float64) bool {
	if deadline.IsZero() || metAt != nil {
		return false
	}
	total := deadline.Sub(createdAt)
	if total <= 0 {
		return false
	}
	remaining := deadline.Sub(now)
	return remaining > 0 && float64(remaining) < threshold*float64(total)
}

// Urgency scoring weights. Monotonic by construction: higher priority,
// closer deadline and breached state never decrease the score.
const (
	urgencyPriorityWeight = 10.0
	urgencyProximityCap   = 50.0
	urgencyBreachBoost    = 100.0
)

func priorityWeight(priority string) float64 {
	switch priority {
	case models.PriorityUrgent:
		return 4
	case models.PriorityHigh:
		return 3
	case models.PriorityNormal:
		return 2
	case models.PriorityLow:
		return 1
	}
	return 2
}

// UrgencyScore ranks a request for queue ordering by combining priority
// weight, proximity to the nearest unmet deadline, and breach state
func UrgencyScore(req SLATrackedRequest, atRiskThreshold float64) float64 {
	now := time.Now()
	score := priorityWeight(req.Priority) * urgencyPriorityWeight

	if deadline, ok := nearestUnmetDeadline(req); ok {
		hoursLeft := deadline.Sub(now).Hours()
		proximity := urgencyProximityCap - hoursLeft
		if proximity > urgencyProximityCap {
			proximity = urgencyProximityCap
		}
		if proximity > 0 {
			score += proximity
		}
	}

	if CheckSLAStatus(req, atRiskThreshold).IsBreached {
		score += urgencyBreachBoost
	}
	return score
}

// nearestUnmetDeadline picks the earliest deadline not yet met
func nearestUnmetDeadline(req SLATrackedRequest) (time.Time, bool) {
	var nearest time.Time
	found := false
	consider := func(deadline time.Time, metAt *time.Time) {
		if deadline.IsZero() || metAt != nil {
			return
		}
		if !found || deadline.Before(nearest) {
			nearest = deadline
			found = true
		}
	}
	consider(req.ResponseDeadline, req.RespondedAt)
	consider(req.ResolutionDeadline, req.ResolvedAt)
	return nearest, found
}

// SLABreach records one exceeded deadline
type SLABreach struct {
	DeadlineType string        `json:"deadline_type"`
	Deadline     time.Time     `json:"deadline"`
	BreachedAt   time.Time     `json:"breached_at"`
	Overdue      time.Duration `json:"overdue"`
}

// CheckSLABreaches returns one breach record per deadline type exceeded
func CheckSLABreaches(req SLATrackedRequest) []SLABreach {
	now := time.Now()
	var breaches []SLABreach

	record := func(deadlineType string, deadline time.Time, metAt *time.Time) {
		if !deadlineMissed(now, deadline, metAt) {
			return
		}
		breachedAt := now
		if metAt != nil {
			breachedAt = *metAt
		}
		breaches = append(breaches, SLABreach{
			DeadlineType: deadlineType,
			Deadline:     deadline,
			BreachedAt:   breachedAt,
			Overdue:      breachedAt.Sub(deadline),
		})
	}

	record(DeadlineTypeResponse, req.ResponseDeadline, req.RespondedAt)
	record(DeadlineTypeResolution, req.ResolutionDeadline, req.ResolvedAt)
	return breaches
}

// SLAEvaluation pairs a status check with the urgency score for queue ranking
type SLAEvaluation struct {
	Result  SLAStatusResult `json:"result"`
	Urgency float64         `json:"urgency"`
}

// BatchCheckSLAStatus evaluates each request independently; no state is
// shared between iterations
func BatchCheckSLAStatus(requests []SLATrackedRequest, atRiskThreshold float64) []SLAEvaluation {
	evaluations := make([]SLAEvaluation, len(requests))
	for i, req := range requests {
		evaluations[i] = SLAEvaluation{
			Result:  CheckSLAStatus(req, atRiskThreshold),
			Urgency: UrgencyScore(req, atRiskThreshold),
		}
	}
	return evaluations
}
