package services

import (
	"legal_office_go/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCallRequestTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	db.AutoMigrate(&models.CallRequest{})
	return db
}

func TestCallRequestService(t *testing.T) {
	db := setupCallRequestTestDB()

	request, err := CreateCallRequest(db, models.NewCallRequestInput{
		SubscriberID: "sub-1",
		Purpose:      "Review contract renewal terms with counsel",
	})
	assert.NoError(t, err)
	assert.Equal(t, models.CallRequestStatusPending, request.Status)
	assert.NotEmpty(t, request.RequestNumber)

	t.Run("Generated Numbers Increment", func(t *testing.T) {
		second, err := CreateCallRequest(db, models.NewCallRequestInput{
			SubscriberID: "sub-2",
			Purpose:      "Discuss pending labor dispute filing",
		})
		assert.NoError(t, err)
		assert.NotEqual(t, request.RequestNumber, second.RequestNumber)
	})

	t.Run("Schedule And Assign", func(t *testing.T) {
		platform := models.CallPlatformZoom
		scheduled, err := ScheduleCall(db, request.ID, time.Now().Add(48*time.Hour), 30, &platform, nil)
		assert.NoError(t, err)
		assert.Equal(t, models.CallRequestStatusScheduled, scheduled.Status)
		assert.Equal(t, 30, *scheduled.ScheduledDuration)

		assigned, err := AssignCallProvider(db, request.ID, "provider-1")
		assert.NoError(t, err)
		assert.Equal(t, "provider-1", *assigned.AssignedProviderID)
	})

	t.Run("Reschedule", func(t *testing.T) {
		newTime := time.Now().Add(72 * time.Hour)
		reason := "provider conflict"
		moved, err := RescheduleCall(db, request.ID, newTime, nil, &reason)
		assert.NoError(t, err)
		assert.Equal(t, models.CallRequestStatusScheduled, moved.Status)
		assert.WithinDuration(t, newTime, *moved.ScheduledAt, time.Second)
	})

	t.Run("Start And End", func(t *testing.T) {
		started, err := StartCall(db, request.ID)
		assert.NoError(t, err)
		assert.Equal(t, models.CallRequestStatusInProgress, started.Status)

		recording := "https://calls.example.com/rec/1"
		ended, err := EndCall(db, request.ID, &recording)
		assert.NoError(t, err)
		assert.Equal(t, models.CallRequestStatusCompleted, ended.Status)
		assert.NotNil(t, ended.ActualDuration)
		assert.NotNil(t, ended.CompletedAt)
	})

	t.Run("Cancel After Completion Fails", func(t *testing.T) {
		_, err := CancelCallRequest(db, request.ID, nil)
		assert.ErrorIs(t, err, models.ErrInvalidTransition)
	})

	t.Run("No Show Path", func(t *testing.T) {
		other, err := CreateCallRequest(db, models.NewCallRequestInput{
			SubscriberID: "sub-3",
			Purpose:      "Initial consultation on trademark registration",
		})
		assert.NoError(t, err)
		_, err = ScheduleCall(db, other.ID, time.Now().Add(24*time.Hour), 15, nil, nil)
		assert.NoError(t, err)

		missed, err := MarkCallNoShow(db, other.ID)
		assert.NoError(t, err)
		assert.Equal(t, models.CallRequestStatusNoShow, missed.Status)
	})

	t.Run("Subscriber Listing", func(t *testing.T) {
		requests, err := GetCallRequestsBySubscriber(db, "sub-1")
		assert.NoError(t, err)
		assert.Len(t, requests, 1)
	})

	t.Run("Not Found", func(t *testing.T) {
		_, err := GetCallRequestByID(db, "missing")
		assert.ErrorIs(t, err, ErrCallRequestNotFound)
	})
}
