package services

import (
	"errors"
	"fmt"
	"legal_office_go/models"
	"time"

	"gorm.io/gorm"
)

// Opinion request errors
var (
	ErrOpinionRequestNotFound = errors.New("opinion request not found")
)

// CreateOpinionInput carries the fields a client supplies for a new draft
type CreateOpinionInput struct {
	ClientID                string
	OpinionType             string
	Subject                 string
	LegalQuestion           string
	BackgroundContext       string
	RelevantFacts           string
	SpecificIssues          *string
	Jurisdiction            string
	Priority                string
	RequestedDeliveryDate   *time.Time
	DeliveryFormat          string
	IncludeExecutiveSummary bool
	IncludeCitations        bool
	IncludeRecommendations  bool
	ConfidentialityLevel    string
}

// CreateOpinionRequest creates a draft opinion request with a generated
// opinion number. Content validation happens at submission.
func CreateOpinionRequest(db *gorm.DB, input CreateOpinionInput) (*models.LegalOpinionRequest, error) {
	if input.ClientID == "" {
		return nil, fmt.Errorf("client id is required: %w", models.ErrValidation)
	}
	priority := input.Priority
	if priority == "" {
		priority = models.PriorityNormal
	}
	if !models.IsValidPriority(priority) {
		return nil, fmt.Errorf("invalid priority %q: %w", priority, models.ErrValidation)
	}

	opinionNumber, err := NextOpinionNumber(db)
	if err != nil {
		return nil, err
	}

	deliveryFormat := input.DeliveryFormat
	if deliveryFormat == "" {
		deliveryFormat = models.DeliveryFormatPDF
	}
	confidentiality := input.ConfidentialityLevel
	if confidentiality == "" {
		confidentiality = models.ConfidentialityStandard
	}

	request := models.LegalOpinionRequest{
		OpinionNumber:           opinionNumber,
		ClientID:                input.ClientID,
		OpinionType:             input.OpinionType,
		Subject:                 input.Subject,
		LegalQuestion:           input.LegalQuestion,
		BackgroundContext:       input.BackgroundContext,
		RelevantFacts:           input.RelevantFacts,
		SpecificIssues:          input.SpecificIssues,
		Jurisdiction:            input.Jurisdiction,
		Priority:                priority,
		RequestedDeliveryDate:   input.RequestedDeliveryDate,
		DeliveryFormat:          deliveryFormat,
		IncludeExecutiveSummary: input.IncludeExecutiveSummary,
		IncludeCitations:        input.IncludeCitations,
		IncludeRecommendations:  input.IncludeRecommendations,
		Status:                  models.OpinionStatusDraft,
		ConfidentialityLevel:    confidentiality,
	}

	if err := db.Create(&request).Error; err != nil {
		return nil, fmt.Errorf("failed to create opinion request: %w", err)
	}
	return &request, nil
}

// GetOpinionRequestByID retrieves an opinion request by ID
func GetOpinionRequestByID(db *gorm.DB, id string) (*models.LegalOpinionRequest, error) {
	var request models.LegalOpinionRequest
	err := db.First(&request, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOpinionRequestNotFound
		}
		return nil, err
	}
	return &request, nil
}

// saveOpinionRequest persists a transitioned copy
func saveOpinionRequest(db *gorm.DB, request models.LegalOpinionRequest) (*models.LegalOpinionRequest, error) {
	if err := db.Save(&request).Error; err != nil {
		return nil, fmt.Errorf("failed to save opinion request %s: %w", request.OpinionNumber, err)
	}
	return &request, nil
}

// SubmitOpinionRequest submits a draft and stamps its SLA deadlines
func SubmitOpinionRequest(db *gorm.DB, id string) (*models.LegalOpinionRequest, error) {
	request, err := GetOpinionRequestByID(db, id)
	if err != nil {
		return nil, err
	}
	submitted, err := request.Submit()
	if err != nil {
		return nil, err
	}

	deadlines, err := CalculateSLADeadlines(db, models.RequestTypeLegalOpinion, submitted.Priority, *submitted.SubmittedAt)
	if err != nil {
		return nil, err
	}
	if deadlines.PolicyID != "" {
		submitted.SLAPolicyID = &deadlines.PolicyID
	}
	submitted.ResponseDeadline = &deadlines.Response
	submitted.ResolutionDeadline = &deadlines.Resolution
	submitted.EscalationDeadline = deadlines.Escalation

	return saveOpinionRequest(db, submitted)
}

// StartOpinionReview moves a submitted request into triage review
func StartOpinionReview(db *gorm.DB, id string) (*models.LegalOpinionRequest, error) {
	request, err := GetOpinionRequestByID(db, id)
	if err != nil {
		return nil, err
	}
	updated, err := request.StartReview()
	if err != nil {
		return nil, err
	}
	return saveOpinionRequest(db, updated)
}

// AssignOpinionToLawyer assigns the request; assignment counts as the SLA
// response
func AssignOpinionToLawyer(db *gorm.DB, id, lawyerID string) (*models.LegalOpinionRequest, error) {
	request, err := GetOpinionRequestByID(db, id)
	if err != nil {
		return nil, err
	}
	updated, err := request.AssignToLawyer(lawyerID)
	if err != nil {
		return nil, err
	}
	if updated.RespondedAt == nil {
		updated.RespondedAt = updated.AssignedAt
	}
	return saveOpinionRequest(db, updated)
}

// StartOpinionResearch begins the research phase
func StartOpinionResearch(db *gorm.DB, id string) (*models.LegalOpinionRequest, error) {
	return transitionOpinion(db, id, models.LegalOpinionRequest.StartResearch)
}

// StartOpinionDrafting begins drafting
func StartOpinionDrafting(db *gorm.DB, id string) (*models.LegalOpinionRequest, error) {
	return transitionOpinion(db, id, models.LegalOpinionRequest.StartDrafting)
}

// SubmitOpinionForReview sends the draft to internal review
func SubmitOpinionForReview(db *gorm.DB, id string) (*models.LegalOpinionRequest, error) {
	return transitionOpinion(db, id, models.LegalOpinionRequest.SubmitForReview)
}

// RequestOpinionRevision sends the draft back for revision
func RequestOpinionRevision(db *gorm.DB, id, reason string) (*models.LegalOpinionRequest, error) {
	return transitionOpinion(db, id, func(r models.LegalOpinionRequest) (models.LegalOpinionRequest, error) {
		return r.RequestRevision(reason)
	})
}

// StartOpinionRevising begins a revision cycle
func StartOpinionRevising(db *gorm.DB, id string) (*models.LegalOpinionRequest, error) {
	return transitionOpinion(db, id, models.LegalOpinionRequest.StartRevising)
}

// SetOpinionEstimatedCost records the quote
func SetOpinionEstimatedCost(db *gorm.DB, id string, amount float64, currency string) (*models.LegalOpinionRequest, error) {
	cost, err := models.NewMoney(amount, currency)
	if err != nil {
		return nil, err
	}
	return transitionOpinion(db, id, func(r models.LegalOpinionRequest) (models.LegalOpinionRequest, error) {
		return r.SetEstimatedCost(cost)
	})
}

// MarkOpinionPaid records payment against the request
func MarkOpinionPaid(db *gorm.DB, id, paymentReference string, finalCost *models.Money) (*models.LegalOpinionRequest, error) {
	return transitionOpinion(db, id, func(r models.LegalOpinionRequest) (models.LegalOpinionRequest, error) {
		return r.MarkAsPaid(paymentReference, finalCost)
	})
}

// CompleteOpinionRequest delivers the opinion; fails when unpaid
func CompleteOpinionRequest(db *gorm.DB, id string) (*models.LegalOpinionRequest, error) {
	return transitionOpinion(db, id, models.LegalOpinionRequest.Complete)
}

// CancelOpinionRequest terminates the request at the client's initiative
func CancelOpinionRequest(db *gorm.DB, id, reason string) (*models.LegalOpinionRequest, error) {
	return transitionOpinion(db, id, func(r models.LegalOpinionRequest) (models.LegalOpinionRequest, error) {
		return r.Cancel(reason)
	})
}

// RejectOpinionRequest terminates the request at the firm's initiative
func RejectOpinionRequest(db *gorm.DB, id, reason string) (*models.LegalOpinionRequest, error) {
	return transitionOpinion(db, id, func(r models.LegalOpinionRequest) (models.LegalOpinionRequest, error) {
		return r.Reject(reason)
	})
}

// transitionOpinion loads, applies one transition, and persists the result
func transitionOpinion(db *gorm.DB, id string, transition func(models.LegalOpinionRequest) (models.LegalOpinionRequest, error)) (*models.LegalOpinionRequest, error) {
	request, err := GetOpinionRequestByID(db, id)
	if err != nil {
		return nil, err
	}
	updated, err := transition(*request)
	if err != nil {
		return nil, err
	}
	return saveOpinionRequest(db, updated)
}

// SLATrackingFor builds the SLA snapshot of a submitted opinion request.
// Requests without stamped deadlines return false.
func SLATrackingFor(request *models.LegalOpinionRequest) (SLATrackedRequest, bool) {
	if request.SubmittedAt == nil || request.ResponseDeadline == nil || request.ResolutionDeadline == nil {
		return SLATrackedRequest{}, false
	}
	return SLATrackedRequest{
		CreatedAt:          *request.SubmittedAt,
		Priority:           request.Priority,
		ResponseDeadline:   *request.ResponseDeadline,
		ResolutionDeadline: *request.ResolutionDeadline,
		EscalationDeadline: request.EscalationDeadline,
		RespondedAt:        request.RespondedAt,
		ResolvedAt:         request.CompletedAt,
	}, true
}
