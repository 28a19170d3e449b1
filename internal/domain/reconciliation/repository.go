package reconciliation

import (
	"context"
)

// ReconciliationRepository defines the idempotent side-effect writes plus the
// listing queries used by the back-office read API.
type ReconciliationRepository interface {
	// UpsertAbsence inserts the absence unless a row already exists for
	// (date, team, electrician, reason). Returns created=false on conflict,
	// which callers count as a no-op, never an error.
	UpsertAbsence(ctx context.Context, a Absence) (created bool, err error)

	// UpsertDivergence inserts the divergence unless one already exists for
	// (date, electrician, expected team, actual team).
	UpsertDivergence(ctx context.Context, d ScheduleDivergence) (created bool, err error)

	// OvertimeExists reports whether an overtime row exists for the
	// opening+kind pair. This is a read-then-write check, not atomic: two
	// concurrent runs over the same opening could both see false and insert
	// twice. The job lock is what prevents concurrent runs; its TTL must
	// exceed worst-case run duration.
	OvertimeExists(ctx context.Context, shiftOpeningID int64, kind string) (bool, error)

	// CreateOvertime inserts a new overtime row.
	CreateOvertime(ctx context.Context, o Overtime) (Overtime, error)

	// List retrieves derived records with filters and pagination.
	ListAbsences(ctx context.Context, filter AbsenceFilter) ([]Absence, int64, error)
	ListDivergences(ctx context.Context, filter DivergenceFilter) ([]ScheduleDivergence, int64, error)
	ListOvertime(ctx context.Context, filter OvertimeFilter) ([]Overtime, int64, error)
}
