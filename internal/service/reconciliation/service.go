package reconciliation

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/fieldvolt/workforce-backend-go/internal/config"
	"github.com/fieldvolt/workforce-backend-go/internal/domain/reconciliation"
	"github.com/fieldvolt/workforce-backend-go/internal/domain/roster"
	"github.com/fieldvolt/workforce-backend-go/internal/pkg/auditlog"
	"github.com/fieldvolt/workforce-backend-go/internal/pkg/businessday"
	"github.com/fieldvolt/workforce-backend-go/internal/pkg/joblock"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const lockJobName = "shift_reconciliation"

const (
	statusSuccess        = "SUCCESS"
	statusSuccessChanges = "SUCCESS_CHANGES"
	statusWarning        = "WARNING"
	statusError          = "ERROR"
)

type ReconciliationServiceImpl struct {
	rosterRepo roster.RosterRepository
	reconRepo  reconciliation.ReconciliationRepository
	lock       joblock.Lock
	audit      *auditlog.Logger
	cfg        config.ReconciliationConfig
	processor  *processor
}

func NewReconciliationService(
	rosterRepo roster.RosterRepository,
	reconRepo reconciliation.ReconciliationRepository,
	lock joblock.Lock,
	audit *auditlog.Logger,
	cfg config.ReconciliationConfig,
) *ReconciliationServiceImpl {
	return &ReconciliationServiceImpl{
		rosterRepo: rosterRepo,
		reconRepo:  reconRepo,
		lock:       lock,
		audit:      audit,
		cfg:        cfg,
		processor:  newProcessor(rosterRepo, reconRepo),
	}
}

// Run implements reconciliation.ReconciliationService. One pass over the
// requested date range under the distributed job lock. A single day's failure
// becomes a warning; the remaining days still run. Audit logging and lock
// release happen even when the loop fails.
func (s *ReconciliationServiceImpl) Run(ctx context.Context, req reconciliation.RunRequest, triggeredBy string) (reconciliation.RunResult, error) {
	if err := req.Validate(); err != nil {
		return reconciliation.RunResult{}, err
	}

	intervalDays := req.IntervalDays
	if intervalDays == 0 {
		intervalDays = 1
	}

	refDate := businessday.Today()
	if req.ReferenceDate != "" {
		parsed, err := businessday.ParseDateInput(req.ReferenceDate)
		if err != nil {
			return reconciliation.RunResult{}, fmt.Errorf("%w: %v", reconciliation.ErrInvalidReferenceDate, err)
		}
		refDate = parsed
	}

	startedAt := time.Now()
	runID := newRunID(startedAt)
	owner := ownerToken(runID)

	acquired, err := s.lock.Acquire(ctx, lockJobName, s.cfg.LockTTL, owner)
	if err != nil {
		return reconciliation.RunResult{}, fmt.Errorf("job lock store unavailable: %w", err)
	}
	if !acquired {
		return reconciliation.RunResult{}, reconciliation.ErrAlreadyRunning
	}

	var stats reconciliation.RunStats
	warnings := []string{}
	var runErr error

	defer func() {
		finishedAt := time.Now()
		s.audit.Append(auditlog.Entry{
			RunID:       runID,
			TriggeredBy: triggeredBy,
			Status:      classifyStatus(runErr, warnings, stats),
			StartedAt:   startedAt,
			FinishedAt:  finishedAt,
			DurationMs:  finishedAt.Sub(startedAt).Milliseconds(),
			Created:     stats.Created,
			Updated:     stats.Updated,
			Closed:      stats.Closed,
			Skipped:     stats.Skipped,
			Warnings:    warnings,
		})

		// Release must not depend on the caller's (possibly cancelled) ctx.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.lock.Release(releaseCtx, lockJobName, owner); err != nil {
			slog.Warn("failed to release reconciliation lock", "run_id", runID, "error", err)
		}
	}()

	slog.Info("reconciliation run starting",
		"run_id", runID,
		"triggered_by", triggeredBy,
		"reference_date", refDate.Format("2006-01-02"),
		"interval_days", intervalDays,
		"dry_run", req.DryRun,
	)

	for i := 0; i < intervalDays; i++ {
		// Caller cancellation is the one thing that aborts the whole range;
		// it still flows through the deferred audit + release.
		if err := ctx.Err(); err != nil {
			runErr = err
			return reconciliation.RunResult{}, fmt.Errorf("reconciliation run aborted: %w", err)
		}

		day := refDate.AddDate(0, 0, i)
		if err := s.runDay(ctx, day, req.TeamID, req.DryRun, &stats, &warnings); err != nil {
			warnings = append(warnings, fmt.Sprintf("critical error on day %s: %v", day.Format("2006-01-02"), err))
		}
	}

	finishedAt := time.Now()
	result := reconciliation.RunResult{
		Success:    true,
		RunID:      runID,
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
		DurationMs: finishedAt.Sub(startedAt).Milliseconds(),
		Stats:      stats,
		Warnings:   warnings,
	}

	slog.Info("reconciliation run finished",
		"run_id", runID,
		"duration_ms", result.DurationMs,
		"created", stats.Created,
		"skipped", stats.Skipped,
		"warnings", len(warnings),
	)

	return result, nil
}

// runDay fetches the day's batch and processes it. A panic inside the day is
// converted to an error so one bad day cannot take down the whole range.
func (s *ReconciliationServiceImpl) runDay(ctx context.Context, day time.Time, teamID *int64, dryRun bool, stats *reconciliation.RunStats, warnings *[]string) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic while processing day: %v", p)
		}
	}()

	dayStart, dayEnd := businessday.DayRange(day)

	if dryRun {
		slog.Info("dry run: skipping day", "day", dayStart.Format("2006-01-02"))
		return nil
	}

	// The three batch reads have no ordering dependency; run them together
	// so query count stays O(1) per day regardless of roster size.
	var (
		slots    []roster.PlannedSlot
		planned  map[int64]struct{}
		openings []roster.ShiftOpening
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		slots, err = s.rosterRepo.ListPlannedSlots(gctx, dayStart, dayEnd, teamID)
		return err
	})
	g.Go(func() error {
		var err error
		planned, err = s.rosterRepo.ListPlannedElectricianIDs(gctx, dayStart, dayEnd)
		return err
	})
	g.Go(func() error {
		var err error
		openings, err = s.rosterRepo.ListShiftOpenings(gctx, dayStart, dayEnd)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("batch fetch failed: %w", err)
	}

	batch := dayBatch{
		DayStart:              dayStart,
		DayEnd:                dayEnd,
		TeamID:                teamID,
		Slots:                 slots,
		OpeningsByElectrician: groupOpeningsByElectrician(openings),
		PlannedAnywhere:       planned,
	}
	s.processor.ProcessDay(ctx, batch, stats, warnings)

	return nil
}

// ListAbsences implements reconciliation.ReconciliationService.
func (s *ReconciliationServiceImpl) ListAbsences(ctx context.Context, filter reconciliation.AbsenceFilter) ([]reconciliation.AbsenceResponse, int64, error) {
	filter.Page, filter.Limit = normalizePagination(filter.Page, filter.Limit)

	absences, total, err := s.reconRepo.ListAbsences(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]reconciliation.AbsenceResponse, 0, len(absences))
	for _, a := range absences {
		responses = append(responses, reconciliation.NewAbsenceResponse(a))
	}
	return responses, total, nil
}

// ListDivergences implements reconciliation.ReconciliationService.
func (s *ReconciliationServiceImpl) ListDivergences(ctx context.Context, filter reconciliation.DivergenceFilter) ([]reconciliation.DivergenceResponse, int64, error) {
	filter.Page, filter.Limit = normalizePagination(filter.Page, filter.Limit)

	divergences, total, err := s.reconRepo.ListDivergences(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]reconciliation.DivergenceResponse, 0, len(divergences))
	for _, d := range divergences {
		responses = append(responses, reconciliation.NewDivergenceResponse(d))
	}
	return responses, total, nil
}

// ListOvertime implements reconciliation.ReconciliationService.
func (s *ReconciliationServiceImpl) ListOvertime(ctx context.Context, filter reconciliation.OvertimeFilter) ([]reconciliation.OvertimeResponse, int64, error) {
	filter.Page, filter.Limit = normalizePagination(filter.Page, filter.Limit)

	entries, total, err := s.reconRepo.ListOvertime(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]reconciliation.OvertimeResponse, 0, len(entries))
	for _, o := range entries {
		responses = append(responses, reconciliation.NewOvertimeResponse(o))
	}
	return responses, total, nil
}

func classifyStatus(runErr error, warnings []string, stats reconciliation.RunStats) string {
	switch {
	case runErr != nil:
		return statusError
	case len(warnings) > 0:
		return statusWarning
	case stats.Created > 0 || stats.Updated > 0 || stats.Closed > 0:
		return statusSuccessChanges
	default:
		return statusSuccess
	}
}

func normalizePagination(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

func newRunID(t time.Time) string {
	return fmt.Sprintf("%s-%s", t.UTC().Format("20060102150405"), uuid.NewString()[:8])
}

// ownerToken identifies this run for lock ownership checks: a token from
// another replica (or an earlier run of this one) never releases our lock.
func ownerToken(runID string) string {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	return fmt.Sprintf("%s:%d:%s", hostname, os.Getpid(), runID)
}
