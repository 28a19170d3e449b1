package reconciliation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fieldvolt/workforce-backend-go/internal/domain/reconciliation"
	"github.com/fieldvolt/workforce-backend-go/internal/domain/roster"
)

// In-memory fakes implementing the repository and lock interfaces, so the
// engine's decision logic and orchestration can be tested without Postgres
// or Redis.

type fakeRosterRepo struct {
	mu sync.Mutex

	slots          []roster.PlannedSlot
	plannedIDs     map[int64]struct{}
	openings       []roster.ShiftOpening
	justifications map[int64]*roster.TeamJustification

	listSlotsCalls    int
	listOpeningsCalls int

	failBatchReads bool
}

func newFakeRosterRepo() *fakeRosterRepo {
	return &fakeRosterRepo{
		plannedIDs:     map[int64]struct{}{},
		justifications: map[int64]*roster.TeamJustification{},
	}
}

func (f *fakeRosterRepo) ListPlannedSlots(ctx context.Context, start, end time.Time, teamID *int64) ([]roster.PlannedSlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listSlotsCalls++
	if f.failBatchReads {
		return nil, fmt.Errorf("simulated read failure")
	}

	var out []roster.PlannedSlot
	for _, s := range f.slots {
		if s.Date.Before(start) || s.Date.After(end) {
			continue
		}
		if teamID != nil {
			if s.TeamID == *teamID {
				out = append(out, s)
			}
			continue
		}
		if s.PeriodStatus == roster.PeriodStatusPublished {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeRosterRepo) ListPlannedElectricianIDs(ctx context.Context, start, end time.Time) (map[int64]struct{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failBatchReads {
		return nil, fmt.Errorf("simulated read failure")
	}
	ids := make(map[int64]struct{}, len(f.plannedIDs))
	for id := range f.plannedIDs {
		ids[id] = struct{}{}
	}
	return ids, nil
}

func (f *fakeRosterRepo) ListShiftOpenings(ctx context.Context, start, end time.Time) ([]roster.ShiftOpening, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listOpeningsCalls++
	if f.failBatchReads {
		return nil, fmt.Errorf("simulated read failure")
	}

	var out []roster.ShiftOpening
	for _, o := range f.openings {
		if !o.ReferenceDate.Before(start) && !o.ReferenceDate.After(end) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeRosterRepo) GetApprovedTeamJustification(ctx context.Context, start, end time.Time, teamID int64) (*roster.TeamJustification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.justifications[teamID], nil
}

type fakeReconRepo struct {
	mu sync.Mutex

	absences    map[string]reconciliation.Absence
	divergences map[string]reconciliation.ScheduleDivergence
	overtime    []reconciliation.Overtime

	writeCalls       int
	failOvertimeWith error
}

func newFakeReconRepo() *fakeReconRepo {
	return &fakeReconRepo{
		absences:    map[string]reconciliation.Absence{},
		divergences: map[string]reconciliation.ScheduleDivergence{},
	}
}

func absenceKey(a reconciliation.Absence) string {
	return fmt.Sprintf("%s|%d|%d|%s", a.Date.Format("2006-01-02"), a.TeamID, a.ElectricianID, a.SystemReason)
}

func divergenceKey(d reconciliation.ScheduleDivergence) string {
	return fmt.Sprintf("%s|%d|%d|%d", d.Date.Format("2006-01-02"), d.ElectricianID, d.ExpectedTeamID, d.ActualTeamID)
}

func (f *fakeReconRepo) UpsertAbsence(ctx context.Context, a reconciliation.Absence) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writeCalls++
	key := absenceKey(a)
	if _, ok := f.absences[key]; ok {
		return false, nil
	}
	a.ID = int64(len(f.absences) + 1)
	f.absences[key] = a
	return true, nil
}

func (f *fakeReconRepo) UpsertDivergence(ctx context.Context, d reconciliation.ScheduleDivergence) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writeCalls++
	key := divergenceKey(d)
	if _, ok := f.divergences[key]; ok {
		return false, nil
	}
	d.ID = int64(len(f.divergences) + 1)
	f.divergences[key] = d
	return true, nil
}

func (f *fakeReconRepo) OvertimeExists(ctx context.Context, shiftOpeningID int64, kind string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.overtime {
		if o.ShiftOpeningID == shiftOpeningID && o.Kind == kind {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeReconRepo) CreateOvertime(ctx context.Context, o reconciliation.Overtime) (reconciliation.Overtime, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writeCalls++
	if f.failOvertimeWith != nil {
		return reconciliation.Overtime{}, f.failOvertimeWith
	}
	o.ID = int64(len(f.overtime) + 1)
	f.overtime = append(f.overtime, o)
	return o, nil
}

func (f *fakeReconRepo) ListAbsences(ctx context.Context, filter reconciliation.AbsenceFilter) ([]reconciliation.Absence, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []reconciliation.Absence
	for _, a := range f.absences {
		out = append(out, a)
	}
	return out, int64(len(out)), nil
}

func (f *fakeReconRepo) ListDivergences(ctx context.Context, filter reconciliation.DivergenceFilter) ([]reconciliation.ScheduleDivergence, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []reconciliation.ScheduleDivergence
	for _, d := range f.divergences {
		out = append(out, d)
	}
	return out, int64(len(out)), nil
}

func (f *fakeReconRepo) ListOvertime(ctx context.Context, filter reconciliation.OvertimeFilter) ([]reconciliation.Overtime, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]reconciliation.Overtime{}, f.overtime...), int64(len(f.overtime)), nil
}

// fakeLock mirrors the Redis lock semantics: NX acquire with TTL expiry and
// owner-checked release.
type fakeLock struct {
	mu      sync.Mutex
	holders map[string]fakeLockEntry

	acquireErr error
}

type fakeLockEntry struct {
	owner     string
	expiresAt time.Time
}

func newFakeLock() *fakeLock {
	return &fakeLock{holders: map[string]fakeLockEntry{}}
}

func (l *fakeLock) Acquire(ctx context.Context, jobName string, ttl time.Duration, ownerToken string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.acquireErr != nil {
		return false, l.acquireErr
	}
	if entry, ok := l.holders[jobName]; ok && time.Now().Before(entry.expiresAt) {
		return false, nil
	}
	l.holders[jobName] = fakeLockEntry{owner: ownerToken, expiresAt: time.Now().Add(ttl)}
	return true, nil
}

func (l *fakeLock) Release(ctx context.Context, jobName string, ownerToken string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if entry, ok := l.holders[jobName]; ok && entry.owner == ownerToken {
		delete(l.holders, jobName)
	}
	return nil
}

func (l *fakeLock) heldBy(jobName string) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry, ok := l.holders[jobName]
	if !ok || time.Now().After(entry.expiresAt) {
		return "", false
	}
	return entry.owner, true
}
