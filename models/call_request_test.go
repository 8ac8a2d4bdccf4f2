package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func pendingCallRequest() CallRequest {
	c, _ := NewCallRequest(NewCallRequestInput{
		RequestNumber: "CR-2026-00001",
		SubscriberID:  "subscriber-1",
		Purpose:       "Discuss employment contract termination options",
	})
	return c
}

func TestNewCallRequest(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		c := pendingCallRequest()
		assert.Equal(t, CallRequestStatusPending, c.Status)
		assert.False(t, c.SubmittedAt.IsZero())
	})

	t.Run("Purpose Too Short", func(t *testing.T) {
		_, err := NewCallRequest(NewCallRequestInput{
			SubscriberID: "subscriber-1",
			Purpose:      "help",
		})
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestCallRequestLifecycle(t *testing.T) {
	platform := CallPlatformMeet
	link := "https://meet.example.com/abc"

	t.Run("Schedule Start End", func(t *testing.T) {
		c := pendingCallRequest()

		when := time.Now().Add(48 * time.Hour)
		c, err := c.Schedule(when, 30, &platform, &link)
		assert.NoError(t, err)
		assert.Equal(t, CallRequestStatusScheduled, c.Status)
		assert.Equal(t, 30, *c.ScheduledDuration)

		c, err = c.AssignProvider("provider-1")
		assert.NoError(t, err)
		assert.Equal(t, "provider-1", *c.AssignedProviderID)

		c, err = c.StartCall()
		assert.NoError(t, err)
		assert.Equal(t, CallRequestStatusInProgress, c.Status)
		assert.NotNil(t, c.CallStartedAt)

		recording := "https://recordings.example.com/abc"
		c, err = c.EndCall(&recording)
		assert.NoError(t, err)
		assert.Equal(t, CallRequestStatusCompleted, c.Status)
		assert.NotNil(t, c.CallEndedAt)
		assert.NotNil(t, c.CompletedAt)
		assert.NotNil(t, c.ActualDuration)
		assert.Equal(t, recording, *c.RecordingURL)
		assert.True(t, c.IsTerminal())
	})

	t.Run("Start Requires Scheduled", func(t *testing.T) {
		c := pendingCallRequest()
		_, err := c.StartCall()
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("End Requires In Progress", func(t *testing.T) {
		c := pendingCallRequest()
		c, _ = c.Schedule(time.Now().Add(time.Hour), 30, nil, nil)
		_, err := c.EndCall(nil)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("Cancel From Any Non-Terminal State", func(t *testing.T) {
		reason := "subscriber unavailable"

		pending := pendingCallRequest()
		cancelled, err := pending.Cancel(&reason)
		assert.NoError(t, err)
		assert.Equal(t, CallRequestStatusCancelled, cancelled.Status)

		scheduled, _ := pendingCallRequest().Schedule(time.Now().Add(time.Hour), 30, nil, nil)
		inProgress, _ := scheduled.StartCall()
		cancelled, err = inProgress.Cancel(nil)
		assert.NoError(t, err)
		assert.Equal(t, CallRequestStatusCancelled, cancelled.Status)

		_, err = cancelled.Cancel(nil)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("No Show Requires Scheduled", func(t *testing.T) {
		c := pendingCallRequest()
		_, err := c.MarkNoShow()
		assert.ErrorIs(t, err, ErrInvalidTransition)

		c, _ = c.Schedule(time.Now().Add(time.Hour), 30, nil, nil)
		c, err = c.MarkNoShow()
		assert.NoError(t, err)
		assert.Equal(t, CallRequestStatusNoShow, c.Status)
	})

	t.Run("Reschedule", func(t *testing.T) {
		c := pendingCallRequest()
		c, _ = c.Schedule(time.Now().Add(time.Hour), 30, &platform, &link)

		newTime := time.Now().Add(72 * time.Hour)
		duration := 45
		reason := "provider conflict"
		c, err := c.Reschedule(newTime, &duration, &reason)
		assert.NoError(t, err)
		assert.Equal(t, CallRequestStatusScheduled, c.Status)
		assert.Equal(t, newTime, *c.ScheduledAt)
		assert.Equal(t, 45, *c.ScheduledDuration)
		assert.Equal(t, reason, *c.RescheduleReason)

		// only scheduled calls can be rescheduled
		started, _ := c.StartCall()
		_, err = started.Reschedule(newTime, nil, nil)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("Update Call Link Pre-Completion", func(t *testing.T) {
		c := pendingCallRequest()
		c, err := c.UpdateCallLink("https://meet.example.com/new", &platform)
		assert.NoError(t, err)
		assert.Equal(t, "https://meet.example.com/new", *c.CallLink)

		scheduled, _ := c.Schedule(time.Now().Add(time.Hour), 30, nil, nil)
		started, _ := scheduled.StartCall()
		ended, _ := started.EndCall(nil)
		_, err = ended.UpdateCallLink("https://meet.example.com/late", nil)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("Original Untouched After Transition", func(t *testing.T) {
		original := pendingCallRequest()
		_, err := original.Schedule(time.Now().Add(time.Hour), 30, nil, nil)
		assert.NoError(t, err)
		assert.Equal(t, CallRequestStatusPending, original.Status)
		assert.Nil(t, original.ScheduledAt)
	})
}
