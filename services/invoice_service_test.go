package services

import (
	"legal_office_go/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupInvoiceTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	db.AutoMigrate(&models.User{}, &models.Membership{}, &models.MembershipInvoice{})
	return db
}

func createTestMembership(t *testing.T, db *gorm.DB) *models.Membership {
	t.Helper()
	membership := models.Membership{
		UserID:   "user-1",
		PlanName: "premium",
		Status:   models.MembershipStatusActive,
	}
	assert.NoError(t, db.Create(&membership).Error)
	return &membership
}

func TestMembershipInvoiceService(t *testing.T) {
	db := setupInvoiceTestDB()
	membership := createTestMembership(t, db)

	t.Run("Create Requires Existing Membership", func(t *testing.T) {
		_, err := CreateMembershipInvoice(db, "missing", 99, "SAR", time.Now().Add(30*24*time.Hour))
		assert.ErrorIs(t, err, ErrMembershipNotFound)
	})

	invoice, err := CreateMembershipInvoice(db, membership.ID, 99, "SAR", time.Now().Add(30*24*time.Hour))
	assert.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusUnpaid, invoice.Status)
	assert.NotEmpty(t, invoice.InvoiceNumber)

	t.Run("Mark Paid", func(t *testing.T) {
		paid, err := MarkInvoicePaid(db, invoice.ID, "PAY-100")
		assert.NoError(t, err)
		assert.Equal(t, models.InvoiceStatusPaid, paid.Status)
		assert.NotNil(t, paid.PaidAt)

		_, err = MarkInvoicePaid(db, invoice.ID, "PAY-100")
		assert.ErrorIs(t, err, models.ErrInvalidTransition)
	})

	t.Run("Cancel Unpaid", func(t *testing.T) {
		other, err := CreateMembershipInvoice(db, membership.ID, 99, "SAR", time.Now().Add(30*24*time.Hour))
		assert.NoError(t, err)
		cancelled, err := CancelInvoice(db, other.ID)
		assert.NoError(t, err)
		assert.Equal(t, models.InvoiceStatusCancelled, cancelled.Status)
	})
}

func TestSweepOverdueInvoices(t *testing.T) {
	db := setupInvoiceTestDB()
	membership := createTestMembership(t, db)

	pastDue, err := CreateMembershipInvoice(db, membership.ID, 99, "SAR", time.Now().Add(-48*time.Hour))
	assert.NoError(t, err)
	notDue, err := CreateMembershipInvoice(db, membership.ID, 99, "SAR", time.Now().Add(48*time.Hour))
	assert.NoError(t, err)
	paidLate, err := CreateMembershipInvoice(db, membership.ID, 99, "SAR", time.Now().Add(-24*time.Hour))
	assert.NoError(t, err)
	_, err = MarkInvoicePaid(db, paidLate.ID, "PAY-200")
	assert.NoError(t, err)

	swept, err := SweepOverdueInvoices(db)
	assert.NoError(t, err)
	assert.Equal(t, 1, swept)

	reloaded, err := GetInvoiceByID(db, pastDue.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusOverdue, reloaded.Status)
	assert.True(t, reloaded.IsOverdue())

	untouched, err := GetInvoiceByID(db, notDue.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusUnpaid, untouched.Status)

	t.Run("Overdue Still Accepts Payment", func(t *testing.T) {
		paid, err := MarkInvoicePaid(db, pastDue.ID, "PAY-300")
		assert.NoError(t, err)
		assert.Equal(t, models.InvoiceStatusPaid, paid.Status)
	})

	t.Run("Sweep Is Idempotent", func(t *testing.T) {
		swept, err := SweepOverdueInvoices(db)
		assert.NoError(t, err)
		assert.Equal(t, 0, swept)
	})
}
