package reconciliation

import (
	"context"
)

// ReconciliationService defines the orchestration entry point shared by the
// cron and the on-demand HTTP triggers, plus the read operations backing the
// back-office pages.
type ReconciliationService interface {
	// Run executes one reconciliation pass over the requested date range.
	// Returns ErrAlreadyRunning when another instance holds the job lock.
	Run(ctx context.Context, req RunRequest, triggeredBy string) (RunResult, error)

	ListAbsences(ctx context.Context, filter AbsenceFilter) ([]AbsenceResponse, int64, error)
	ListDivergences(ctx context.Context, filter DivergenceFilter) ([]DivergenceResponse, int64, error)
	ListOvertime(ctx context.Context, filter OvertimeFilter) ([]OvertimeResponse, int64, error)
}
