package cron

import (
	"context"
	"testing"
	"time"

	"github.com/fieldvolt/workforce-backend-go/internal/config"
	"github.com/fieldvolt/workforce-backend-go/internal/domain/reconciliation"
	"github.com/fieldvolt/workforce-backend-go/internal/pkg/businessday"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	calls   int
	lastReq reconciliation.RunRequest
	err     error
}

func (s *stubService) Run(ctx context.Context, req reconciliation.RunRequest, triggeredBy string) (reconciliation.RunResult, error) {
	s.calls++
	s.lastReq = req
	if s.err != nil {
		return reconciliation.RunResult{}, s.err
	}
	return reconciliation.RunResult{Success: true, RunID: "test-run"}, nil
}

func (s *stubService) ListAbsences(ctx context.Context, filter reconciliation.AbsenceFilter) ([]reconciliation.AbsenceResponse, int64, error) {
	return nil, 0, nil
}

func (s *stubService) ListDivergences(ctx context.Context, filter reconciliation.DivergenceFilter) ([]reconciliation.DivergenceResponse, int64, error) {
	return nil, 0, nil
}

func (s *stubService) ListOvertime(ctx context.Context, filter reconciliation.OvertimeFilter) ([]reconciliation.OvertimeResponse, int64, error) {
	return nil, 0, nil
}

func businessHourNow() int {
	return time.Now().In(businessday.Location()).Hour()
}

func TestRunDailyReconciliation_FiresOncePerDay(t *testing.T) {
	stub := &stubService{}
	jobs := NewReconciliationJobs(stub, config.ReconciliationConfig{
		CronHour:    businessHourNow(),
		HistoryDays: 3,
	})

	require.NoError(t, jobs.RunDailyReconciliation(context.Background()))
	assert.Equal(t, 1, stub.calls)
	assert.Equal(t, 3, stub.lastReq.IntervalDays)
	assert.Empty(t, stub.lastReq.ReferenceDate)

	// Second tick in the same hour is a no-op.
	require.NoError(t, jobs.RunDailyReconciliation(context.Background()))
	assert.Equal(t, 1, stub.calls)
}

func TestRunDailyReconciliation_OutsideConfiguredHour(t *testing.T) {
	stub := &stubService{}
	jobs := NewReconciliationJobs(stub, config.ReconciliationConfig{
		CronHour:    (businessHourNow() + 1) % 24,
		HistoryDays: 1,
	})

	require.NoError(t, jobs.RunDailyReconciliation(context.Background()))
	assert.Equal(t, 0, stub.calls)
}

func TestRunDailyReconciliation_LockConflictIsBenign(t *testing.T) {
	stub := &stubService{err: reconciliation.ErrAlreadyRunning}
	jobs := NewReconciliationJobs(stub, config.ReconciliationConfig{
		CronHour:    businessHourNow(),
		HistoryDays: 1,
	})

	require.NoError(t, jobs.RunDailyReconciliation(context.Background()))
	assert.Equal(t, 1, stub.calls)

	// A lock conflict does not mark the day as done; the next tick retries.
	stub.err = nil
	require.NoError(t, jobs.RunDailyReconciliation(context.Background()))
	assert.Equal(t, 2, stub.calls)
}

func TestRunDailyReconciliation_ServiceErrorPropagates(t *testing.T) {
	stub := &stubService{err: assert.AnError}
	jobs := NewReconciliationJobs(stub, config.ReconciliationConfig{
		CronHour:    businessHourNow(),
		HistoryDays: 1,
	})

	assert.Error(t, jobs.RunDailyReconciliation(context.Background()))
}

func TestScheduler_RunsAndStops(t *testing.T) {
	scheduler := NewScheduler()

	done := make(chan struct{})
	var fired bool
	scheduler.AddJob("tick", 10*time.Millisecond, func(ctx context.Context) error {
		if !fired {
			fired = true
			close(done)
		}
		return nil
	})

	scheduler.Start()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job never fired")
	}
	scheduler.Stop()
}
