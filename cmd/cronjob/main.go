package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"clubstay-backend/internal/config"
	"clubstay-backend/internal/database"
	"clubstay-backend/internal/jobs"
	"clubstay-backend/internal/logger"
	"clubstay-backend/internal/repository/sqlstore"
	"clubstay-backend/internal/scheduler"
	"clubstay-backend/internal/service"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'daily-arrivals-digest', 'pending-billing-reminder', 'all')")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Failed to load .env file: %v", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting ClubStay cronjob runner...", "log_level", cfg.Log.Level)

	// Jobs read what the API wrote, so an in-process store has nothing to report.
	if cfg.Database.Driver == config.DriverMemory {
		log.Fatalf("Cronjob runner needs a postgres or mysql database, got driver %q", cfg.Database.Driver)
	}

	logger.Info("Connecting to database...", "driver", cfg.Database.Driver, "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	dialect, err := sqlstore.ParseDialect(cfg.Database.Driver)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	store := sqlstore.NewStore(db, dialect)
	logger.Info("Database connection established")

	loc := cfg.Location()
	jobServices := &jobs.Services{
		Email:        service.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName, loc),
		Reservations: service.NewReservationService(store.ReservationRepository, nil, time.Now, loc),
		Billing:      service.NewBillingService(store.BillingRepository, nil, time.Now, loc),
	}
	jobRunner := jobs.NewJobRunner(jobServices, cfg, loc)

	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		if !jobRunner.Run(*runOnce) {
			logger.Error("Unknown job name", "job", *runOnce)
			fmt.Printf("Available jobs:\n")
			fmt.Printf("  - %s\n", jobs.JobDailyArrivalsDigest)
			fmt.Printf("  - %s\n", jobs.JobPendingBillingReminder)
			fmt.Printf("  - all\n")
			os.Exit(1)
		}
		return
	}

	cronScheduler, err := scheduler.NewScheduler(jobRunner)
	if err != nil {
		log.Fatalf("Failed to register jobs: %v", err)
	}
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.", "jobs", cronScheduler.Entries())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped")
}
