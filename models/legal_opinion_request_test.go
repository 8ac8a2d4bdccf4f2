package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func draftOpinionRequest() LegalOpinionRequest {
	return LegalOpinionRequest{
		OpinionNumber:     "OP-2026-00001",
		ClientID:          "client-1",
		OpinionType:       "tax",
		Subject:           "Cross-border VAT treatment",
		LegalQuestion:     "Is the holding company liable for VAT on intra-group services?",
		BackgroundContext: "Group restructure completed last quarter.",
		RelevantFacts:     "Services invoiced from the parent entity.",
		Jurisdiction:      "CO",
		Priority:          PriorityNormal,
		Status:            OpinionStatusDraft,
		DeliveryFormat:    DeliveryFormatPDF,
	}
}

func TestOpinionRequestLifecycle(t *testing.T) {
	t.Run("Full Happy Path", func(t *testing.T) {
		r := draftOpinionRequest()

		r, err := r.Submit()
		assert.NoError(t, err)
		assert.Equal(t, OpinionStatusSubmitted, r.Status)
		assert.NotNil(t, r.SubmittedAt)

		r, err = r.StartReview()
		assert.NoError(t, err)
		assert.Equal(t, OpinionStatusUnderReview, r.Status)

		r, err = r.AssignToLawyer("lawyer-1")
		assert.NoError(t, err)
		assert.Equal(t, OpinionStatusAssigned, r.Status)
		assert.Equal(t, "lawyer-1", *r.AssignedLawyerID)
		assert.NotNil(t, r.AssignedAt)

		r, err = r.StartResearch()
		assert.NoError(t, err)
		r, err = r.StartDrafting()
		assert.NoError(t, err)
		assert.Equal(t, 1, r.DraftVersion)
		r, err = r.SubmitForReview()
		assert.NoError(t, err)
		assert.Equal(t, OpinionStatusInternalReview, r.Status)

		r, err = r.MarkAsPaid("PAY-123", nil)
		assert.NoError(t, err)
		assert.True(t, r.IsPaid)
		assert.Equal(t, OpinionStatusInternalReview, r.Status) // payment does not move status

		r, err = r.Complete()
		assert.NoError(t, err)
		assert.Equal(t, OpinionStatusCompleted, r.Status)
		assert.NotNil(t, r.CompletedAt)
		assert.NotNil(t, r.ActualDeliveryDate)
		assert.True(t, r.IsTerminal())
	})

	t.Run("Assign Directly From Submitted", func(t *testing.T) {
		r := draftOpinionRequest()
		r, _ = r.Submit()
		r, err := r.AssignToLawyer("lawyer-2")
		assert.NoError(t, err)
		assert.Equal(t, OpinionStatusAssigned, r.Status)
	})

	t.Run("Revision Cycle", func(t *testing.T) {
		r := draftOpinionRequest()
		r, _ = r.Submit()
		r, _ = r.AssignToLawyer("lawyer-1")
		r, _ = r.StartResearch()
		r, _ = r.StartDrafting()
		r, _ = r.SubmitForReview()

		r, err := r.RequestRevision("Missing case law citations")
		assert.NoError(t, err)
		assert.Equal(t, OpinionStatusRevisionRequested, r.Status)
		assert.Equal(t, "Missing case law citations", *r.RevisionReason)

		r, err = r.StartRevising()
		assert.NoError(t, err)
		assert.Equal(t, 2, r.DraftVersion)

		r, _ = r.MarkAsPaid("PAY-9", nil)
		r, err = r.Complete()
		assert.NoError(t, err)
		assert.Equal(t, 2, r.FinalVersion)
	})

	t.Run("Complete Requires Payment", func(t *testing.T) {
		r := draftOpinionRequest()
		r, _ = r.Submit()
		r, _ = r.AssignToLawyer("lawyer-1")
		r, _ = r.StartResearch()
		r, _ = r.StartDrafting()
		r, _ = r.SubmitForReview()

		_, err := r.Complete()
		assert.ErrorIs(t, err, ErrPreconditionFailed)
		assert.Equal(t, OpinionStatusInternalReview, r.Status)
	})

	t.Run("Complete From Wrong Status", func(t *testing.T) {
		r := draftOpinionRequest()
		r, _ = r.MarkAsPaid("PAY-1", nil)
		_, err := r.Complete()
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("Submit Validates Required Fields", func(t *testing.T) {
		r := draftOpinionRequest()
		r.LegalQuestion = " "
		_, err := r.Submit()
		assert.ErrorIs(t, err, ErrValidation)
		assert.Contains(t, err.Error(), "legal_question")
	})

	t.Run("Cancel From Any Pre-Completed State", func(t *testing.T) {
		r := draftOpinionRequest()
		r, _ = r.Submit()
		r, _ = r.AssignToLawyer("lawyer-1")

		cancelled, err := r.Cancel("client withdrew")
		assert.NoError(t, err)
		assert.Equal(t, OpinionStatusCancelled, cancelled.Status)

		_, err = cancelled.Cancel("again")
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("Reject Is Terminal", func(t *testing.T) {
		r := draftOpinionRequest()
		rejected, err := r.Reject("out of practice area")
		assert.NoError(t, err)
		assert.True(t, rejected.IsTerminal())

		_, err = rejected.Submit()
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestOpinionRequestImmutability(t *testing.T) {
	original := draftOpinionRequest()

	submitted, err := original.Submit()
	assert.NoError(t, err)

	// The original instance is untouched by the transition
	assert.Equal(t, OpinionStatusDraft, original.Status)
	assert.Nil(t, original.SubmittedAt)
	assert.Equal(t, OpinionStatusSubmitted, submitted.Status)
}

func TestOpinionRequestDraftUpdates(t *testing.T) {
	r := draftOpinionRequest()

	r, err := r.UpdateSubject("Revised subject")
	assert.NoError(t, err)
	assert.Equal(t, "Revised subject", r.Subject)

	r, err = r.UpdatePriority(PriorityUrgent)
	assert.NoError(t, err)
	assert.Equal(t, PriorityUrgent, r.Priority)

	_, err = r.UpdatePriority("critical")
	assert.ErrorIs(t, err, ErrValidation)

	submitted, _ := r.Submit()
	_, err = submitted.UpdateSubject("too late")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestOpinionRequestCosts(t *testing.T) {
	r := draftOpinionRequest()

	estimate, _ := NewMoney(1500, "USD")
	r, err := r.SetEstimatedCost(estimate)
	assert.NoError(t, err)
	assert.Equal(t, OpinionStatusDraft, r.Status) // status unchanged
	assert.Equal(t, 1500.0, r.EstimatedCost.Amount)

	final, _ := NewMoney(1750, "USD")
	r, err = r.MarkAsPaid("PAY-55", &final)
	assert.NoError(t, err)
	assert.Equal(t, 1750.0, r.FinalCost.Amount)

	_, err = r.SetEstimatedCost(estimate)
	assert.ErrorIs(t, err, ErrPreconditionFailed) // no re-quote after payment
}
