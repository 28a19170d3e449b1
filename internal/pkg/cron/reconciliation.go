package cron

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fieldvolt/workforce-backend-go/internal/config"
	"github.com/fieldvolt/workforce-backend-go/internal/domain/reconciliation"
	"github.com/fieldvolt/workforce-backend-go/internal/pkg/businessday"
)

// ReconciliationJobs wires the reconciliation orchestrator into the
// scheduler: one daily pass over the configured history window, all teams.
type ReconciliationJobs struct {
	service reconciliation.ReconciliationService
	cfg     config.ReconciliationConfig

	lastRunDate string
}

func NewReconciliationJobs(service reconciliation.ReconciliationService, cfg config.ReconciliationConfig) *ReconciliationJobs {
	return &ReconciliationJobs{service: service, cfg: cfg}
}

func (j *ReconciliationJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("daily_shift_reconciliation", j.cfg.CronInterval, j.RunDailyReconciliation)
}

// RunDailyReconciliation fires at most once per business day, inside the
// configured business-local hour. A lock conflict means another replica beat
// us to it and is only debug-logged.
func (j *ReconciliationJobs) RunDailyReconciliation(ctx context.Context) error {
	nowLocal := time.Now().In(businessday.Location())
	if nowLocal.Hour() != j.cfg.CronHour {
		return nil
	}

	today := nowLocal.Format("2006-01-02")
	if j.lastRunDate == today {
		return nil
	}

	slog.Info("Cron: starting daily shift reconciliation", "history_days", j.cfg.HistoryDays)

	result, err := j.service.Run(ctx, reconciliation.RunRequest{
		IntervalDays: j.cfg.HistoryDays,
	}, "cron")
	if err != nil {
		if errors.Is(err, reconciliation.ErrAlreadyRunning) {
			slog.Debug("Cron: reconciliation already running elsewhere, skipping")
			return nil
		}
		return err
	}

	j.lastRunDate = today
	slog.Info("Cron: daily shift reconciliation finished",
		"run_id", result.RunID,
		"created", result.Stats.Created,
		"skipped", result.Stats.Skipped,
		"warnings", len(result.Warnings),
	)
	return nil
}
