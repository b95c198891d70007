package jobs

import (
	"context"
	"fmt"

	"clubstay-backend/internal/logger"
)

// SendDailyArrivalsDigest e-mails the front desk today's expected check-ins and check-outs.
func (jr *JobRunner) SendDailyArrivalsDigest() {
	jr.runWithRecovery(JobDailyArrivalsDigest, func() error {
		to := jr.config.SendGrid.FrontDeskEmail
		if to == "" {
			logger.Warn("Front desk email not configured, skipping digest")
			return nil
		}
		ctx := context.Background()

		checkIns, err := jr.services.Reservations.TodayCheckIns(ctx)
		if err != nil {
			return fmt.Errorf("load today's check-ins: %w", err)
		}
		checkOuts, err := jr.services.Reservations.TodayCheckOuts(ctx)
		if err != nil {
			return fmt.Errorf("load today's check-outs: %w", err)
		}

		day := jr.now().In(jr.loc)
		if err := jr.services.Email.SendArrivalsDigest(ctx, to, day, checkIns, checkOuts); err != nil {
			return fmt.Errorf("send arrivals digest: %w", err)
		}
		logger.Info("Arrivals digest sent", "to", to, "check_ins", len(checkIns), "check_outs", len(checkOuts))
		return nil
	})
}

// SendPendingBillingReminder e-mails the billing desk the pending companion charges.
// Nothing is sent when no record is pending.
func (jr *JobRunner) SendPendingBillingReminder() {
	jr.runWithRecovery(JobPendingBillingReminder, func() error {
		to := jr.config.SendGrid.BillingDeskEmail
		if to == "" {
			logger.Warn("Billing desk email not configured, skipping reminder")
			return nil
		}
		ctx := context.Background()

		stats, err := jr.services.Billing.Stats(ctx)
		if err != nil {
			return fmt.Errorf("load billing stats: %w", err)
		}
		if stats.PendingCount == 0 {
			logger.Info("No pending billing records")
			return nil
		}
		pending, err := jr.services.Billing.Pending(ctx)
		if err != nil {
			return fmt.Errorf("load pending billing: %w", err)
		}

		if err := jr.services.Email.SendPendingBillingReminder(ctx, to, stats, pending); err != nil {
			return fmt.Errorf("send billing reminder: %w", err)
		}
		logger.Info("Pending billing reminder sent", "to", to, "pending_count", stats.PendingCount)
		return nil
	})
}
