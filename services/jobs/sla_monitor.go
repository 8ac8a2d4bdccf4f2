package jobs

import (
	"legal_office_go/config"
	"legal_office_go/models"
	"legal_office_go/services"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// StartScheduler starts the background sweeps: a nightly invoice overdue
// sweep and an hourly SLA breach scan
func StartScheduler(database *gorm.DB, cfg *config.Config) {
	c := cron.New()

	_, err := c.AddFunc("0 0 * * *", func() {
		log.Println("[CRON] Running overdue invoice sweep...")
		SweepOverdueInvoices(database)
	})
	if err != nil {
		log.Fatalf("[CRON] Failed to schedule invoice sweep: %v", err)
	}

	_, err = c.AddFunc("0 * * * *", func() {
		log.Println("[CRON] Running SLA breach scan...")
		ScanSLABreaches(database, cfg)
	})
	if err != nil {
		log.Fatalf("[CRON] Failed to schedule SLA scan: %v", err)
	}

	c.Start()
	log.Println("[CRON] Scheduler started")
}

// SweepOverdueInvoices marks unpaid invoices past due as overdue
func SweepOverdueInvoices(database *gorm.DB) {
	swept, err := services.SweepOverdueInvoices(database)
	if err != nil {
		log.Printf("[JOB] Invoice sweep failed: %v", err)
		return
	}
	log.Printf("[JOB] Marked %d invoices overdue", swept)
}

// ScanSLABreaches logs every open opinion request that exceeded an SLA
// deadline, ordered by urgency
func ScanSLABreaches(database *gorm.DB, cfg *config.Config) {
	var requests []models.LegalOpinionRequest
	err := database.
		Where("status NOT IN ?", []string{
			models.OpinionStatusDraft,
			models.OpinionStatusCompleted,
			models.OpinionStatusCancelled,
			models.OpinionStatusRejected,
		}).
		Where("resolution_deadline IS NOT NULL").
		Find(&requests).Error
	if err != nil {
		log.Printf("[JOB] Failed to load open opinion requests: %v", err)
		return
	}

	tracked := make([]services.SLATrackedRequest, 0, len(requests))
	numbers := make([]string, 0, len(requests))
	for i := range requests {
		snapshot, ok := services.SLATrackingFor(&requests[i])
		if !ok {
			continue
		}
		tracked = append(tracked, snapshot)
		numbers = append(numbers, requests[i].OpinionNumber)
	}

	evaluations := services.BatchCheckSLAStatus(tracked, cfg.SLAAtRiskThreshold)
	breachedCount := 0
	for i, evaluation := range evaluations {
		if !evaluation.Result.IsBreached {
			continue
		}
		breachedCount++
		for _, breach := range services.CheckSLABreaches(tracked[i]) {
			log.Printf("[JOB] SLA breach on %s: %s deadline exceeded by %s (urgency %.1f)",
				numbers[i], breach.DeadlineType, breach.Overdue.Round(time.Minute), evaluation.Urgency)
		}
	}
	log.Printf("[JOB] SLA scan complete: %d open requests, %d breached", len(tracked), breachedCount)
}
