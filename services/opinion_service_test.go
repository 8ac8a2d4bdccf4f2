package services

import (
	"legal_office_go/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupOpinionTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	db.AutoMigrate(&models.LegalOpinionRequest{}, &models.SLAPolicy{})
	return db
}

func createDraftOpinion(t *testing.T, db *gorm.DB, priority string) *models.LegalOpinionRequest {
	t.Helper()
	request, err := CreateOpinionRequest(db, CreateOpinionInput{
		ClientID:          "client-1",
		OpinionType:       "regulatory",
		Subject:           "Data residency obligations",
		LegalQuestion:     "May customer data be stored outside the jurisdiction?",
		BackgroundContext: "SaaS vendor expanding into regulated markets",
		RelevantFacts:     "All production data currently hosted in a single region",
		Jurisdiction:      "SA",
		Priority:          priority,
	})
	assert.NoError(t, err)
	return request
}

func TestCreateOpinionRequest(t *testing.T) {
	db := setupOpinionTestDB()

	t.Run("Generates Opinion Number", func(t *testing.T) {
		first := createDraftOpinion(t, db, models.PriorityNormal)
		second := createDraftOpinion(t, db, models.PriorityHigh)
		assert.Equal(t, models.OpinionStatusDraft, first.Status)
		assert.NotEmpty(t, first.OpinionNumber)
		assert.NotEqual(t, first.OpinionNumber, second.OpinionNumber)
	})

	t.Run("Defaults", func(t *testing.T) {
		request := createDraftOpinion(t, db, "")
		assert.Equal(t, models.PriorityNormal, request.Priority)
		assert.Equal(t, models.DeliveryFormatPDF, request.DeliveryFormat)
		assert.Equal(t, models.ConfidentialityStandard, request.ConfidentialityLevel)
	})

	t.Run("Invalid Priority", func(t *testing.T) {
		_, err := CreateOpinionRequest(db, CreateOpinionInput{ClientID: "client-1", Priority: "extreme"})
		assert.ErrorIs(t, err, models.ErrValidation)
	})

	t.Run("Client Required", func(t *testing.T) {
		_, err := CreateOpinionRequest(db, CreateOpinionInput{})
		assert.ErrorIs(t, err, models.ErrValidation)
	})
}

func TestSubmitOpinionRequestStampsSLA(t *testing.T) {
	db := setupOpinionTestDB()
	assert.NoError(t, SeedDefaultSLAPolicies(db))

	t.Run("Urgent Gets Exact Policy", func(t *testing.T) {
		request := createDraftOpinion(t, db, models.PriorityUrgent)
		submitted, err := SubmitOpinionRequest(db, request.ID)
		assert.NoError(t, err)
		assert.Equal(t, models.OpinionStatusSubmitted, submitted.Status)
		assert.NotNil(t, submitted.SLAPolicyID)
		assert.NotNil(t, submitted.SubmittedAt)
		assert.WithinDuration(t, submitted.SubmittedAt.Add(4*time.Hour), *submitted.ResponseDeadline, time.Second)
		assert.WithinDuration(t, submitted.SubmittedAt.Add(2*24*time.Hour), *submitted.ResolutionDeadline, time.Second)
		assert.NotNil(t, submitted.EscalationDeadline)
	})

	t.Run("Normal Falls Back To Wildcard Policy", func(t *testing.T) {
		request := createDraftOpinion(t, db, models.PriorityNormal)
		submitted, err := SubmitOpinionRequest(db, request.ID)
		assert.NoError(t, err)
		assert.NotNil(t, submitted.SLAPolicyID)
		assert.WithinDuration(t, submitted.SubmittedAt.Add(24*time.Hour), *submitted.ResponseDeadline, time.Second)
	})

	t.Run("Stamped Deadlines Survive Reload", func(t *testing.T) {
		request := createDraftOpinion(t, db, models.PriorityHigh)
		submitted, err := SubmitOpinionRequest(db, request.ID)
		assert.NoError(t, err)

		reloaded, err := GetOpinionRequestByID(db, request.ID)
		assert.NoError(t, err)
		assert.Equal(t, submitted.Status, reloaded.Status)
		assert.WithinDuration(t, *submitted.ResponseDeadline, *reloaded.ResponseDeadline, time.Second)
		assert.WithinDuration(t, *submitted.ResolutionDeadline, *reloaded.ResolutionDeadline, time.Second)

		tracked, ok := SLATrackingFor(reloaded)
		assert.True(t, ok)
		assert.Equal(t, models.PriorityHigh, tracked.Priority)
	})
}

func TestSubmitOpinionRequestWithoutPolicies(t *testing.T) {
	db := setupOpinionTestDB()

	// No seeded policies: conservative defaults apply and no policy id is
	// stamped.
	request := createDraftOpinion(t, db, models.PriorityNormal)
	submitted, err := SubmitOpinionRequest(db, request.ID)
	assert.NoError(t, err)
	assert.Nil(t, submitted.SLAPolicyID)
	assert.WithinDuration(t, submitted.SubmittedAt.Add(24*time.Hour), *submitted.ResponseDeadline, time.Second)
	assert.WithinDuration(t, submitted.SubmittedAt.Add(72*time.Hour), *submitted.ResolutionDeadline, time.Second)
}

func TestOpinionWorkflowOrchestration(t *testing.T) {
	db := setupOpinionTestDB()
	request := createDraftOpinion(t, db, models.PriorityNormal)

	_, err := SubmitOpinionRequest(db, request.ID)
	assert.NoError(t, err)

	t.Run("Assignment Records Response", func(t *testing.T) {
		_, err := StartOpinionReview(db, request.ID)
		assert.NoError(t, err)
		assigned, err := AssignOpinionToLawyer(db, request.ID, "lawyer-1")
		assert.NoError(t, err)
		assert.Equal(t, models.OpinionStatusAssigned, assigned.Status)
		assert.NotNil(t, assigned.RespondedAt)
		assert.Equal(t, assigned.AssignedAt, assigned.RespondedAt)
	})

	t.Run("Drafting Cycle", func(t *testing.T) {
		_, err := StartOpinionResearch(db, request.ID)
		assert.NoError(t, err)
		drafting, err := StartOpinionDrafting(db, request.ID)
		assert.NoError(t, err)
		assert.Equal(t, 1, drafting.DraftVersion)
		_, err = SubmitOpinionForReview(db, request.ID)
		assert.NoError(t, err)
	})

	t.Run("Complete Requires Payment", func(t *testing.T) {
		_, err := CompleteOpinionRequest(db, request.ID)
		assert.ErrorIs(t, err, models.ErrPreconditionFailed)

		_, err = SetOpinionEstimatedCost(db, request.ID, 1500, "SAR")
		assert.NoError(t, err)
		_, err = MarkOpinionPaid(db, request.ID, "PAY-001", nil)
		assert.NoError(t, err)

		completed, err := CompleteOpinionRequest(db, request.ID)
		assert.NoError(t, err)
		assert.Equal(t, models.OpinionStatusCompleted, completed.Status)
		assert.Equal(t, completed.DraftVersion, completed.FinalVersion)
	})

	t.Run("Failed Transition Is Not Persisted", func(t *testing.T) {
		_, err := CancelOpinionRequest(db, request.ID, "changed my mind")
		assert.ErrorIs(t, err, models.ErrInvalidTransition)

		reloaded, err := GetOpinionRequestByID(db, request.ID)
		assert.NoError(t, err)
		assert.Equal(t, models.OpinionStatusCompleted, reloaded.Status)
	})

	t.Run("Not Found", func(t *testing.T) {
		_, err := GetOpinionRequestByID(db, "missing")
		assert.ErrorIs(t, err, ErrOpinionRequestNotFound)
	})
}
