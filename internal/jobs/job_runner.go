package jobs

import (
	"time"

	"clubstay-backend/internal/config"
	"clubstay-backend/internal/logger"
	"clubstay-backend/internal/service"
)

const (
	JobDailyArrivalsDigest    = "daily-arrivals-digest"
	JobPendingBillingReminder = "pending-billing-reminder"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	services *Services
	config   *config.Config
	loc      *time.Location
	now      func() time.Time
}

// Services holds all service dependencies needed by jobs
type Services struct {
	Email        service.EmailService
	Reservations service.ReservationService
	Billing      service.BillingService
}

func NewJobRunner(services *Services, cfg *config.Config, loc *time.Location) *JobRunner {
	if loc == nil {
		loc = time.UTC
	}
	return &JobRunner{
		services: services,
		config:   cfg,
		loc:      loc,
		now:      time.Now,
	}
}

func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

func (jr *JobRunner) Location() *time.Location {
	return jr.loc
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func() error) {
	log := logger.WithJob(jobName)
	defer func() {
		if r := recover(); r != nil {
			log.Error("Job panicked", "panic", r)
		}
	}()

	start := jr.now()
	log.Info("Starting job")
	if err := jobFunc(); err != nil {
		log.Error("Job failed", "error", err)
		return
	}
	log.Info("Job completed", "duration_ms", time.Since(start).Milliseconds())
}

// Run executes a job by name. It reports false for unknown names.
func (jr *JobRunner) Run(jobName string) bool {
	switch jobName {
	case JobDailyArrivalsDigest:
		jr.SendDailyArrivalsDigest()
	case JobPendingBillingReminder:
		jr.SendPendingBillingReminder()
	case "all":
		jr.RunAll()
	default:
		return false
	}
	return true
}

// RunAll runs every job once (for manual execution)
func (jr *JobRunner) RunAll() {
	jr.SendDailyArrivalsDigest()
	jr.SendPendingBillingReminder()
}
