package main

import (
	"legal_office_go/config"
	"legal_office_go/db"
	"legal_office_go/models"
	"legal_office_go/services"
	"legal_office_go/services/jobs"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg.DBPath, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	err := db.AutoMigrate(
		&models.Provider{},
		&models.User{},
		&models.Membership{},
		&models.MembershipInvoice{},
		&models.TransactionLog{},
		&models.LegalOpinionRequest{},
		&models.CallRequest{},
		&models.Dispute{},
		&models.Refund{},
		&models.SLAPolicy{},
		&models.Specialization{},
		&models.ProviderSpecialization{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed SLA policies
	if err := services.SeedDefaultSLAPolicies(db.DB); err != nil {
		log.Fatalf("Failed to seed SLA policies: %v", err)
	}

	// Start background sweeps
	jobs.StartScheduler(db.DB, cfg)

	log.Println("Back office worker running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down")
}
