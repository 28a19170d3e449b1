package reconciliation

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/fieldvolt/workforce-backend-go/internal/domain/reconciliation"
	"github.com/fieldvolt/workforce-backend-go/internal/domain/roster"
)

// dayBatch holds everything fetched for one business day, so slot processing
// never goes back to the store for reads other than the justification lookup.
type dayBatch struct {
	DayStart time.Time
	DayEnd   time.Time
	TeamID   *int64

	Slots                 []roster.PlannedSlot
	OpeningsByElectrician map[int64][]roster.ShiftOpening
	PlannedAnywhere       map[int64]struct{}
}

func groupOpeningsByElectrician(openings []roster.ShiftOpening) map[int64][]roster.ShiftOpening {
	grouped := make(map[int64][]roster.ShiftOpening)
	for _, o := range openings {
		grouped[o.ElectricianID] = append(grouped[o.ElectricianID], o)
	}
	return grouped
}

// processor makes the per-slot decisions and writes the derived records. A
// write failure is confined to a warning; reconciliation of the remaining
// slots continues.
type processor struct {
	rosterRepo roster.RosterRepository
	reconRepo  reconciliation.ReconciliationRepository
}

func newProcessor(rosterRepo roster.RosterRepository, reconRepo reconciliation.ReconciliationRepository) *processor {
	return &processor{rosterRepo: rosterRepo, reconRepo: reconRepo}
}

// ProcessDay runs all slot decisions for the batch, then scans for worked
// shifts with no plan anywhere that day. Slots are independent; the order is
// whatever the data layer returned.
func (p *processor) ProcessDay(ctx context.Context, batch dayBatch, stats *reconciliation.RunStats, warnings *[]string) {
	for _, slot := range batch.Slots {
		p.processSlot(ctx, batch, slot, stats, warnings)
	}
	p.processUnplannedShifts(ctx, batch, stats, warnings)
}

func (p *processor) processSlot(ctx context.Context, batch dayBatch, slot roster.PlannedSlot, stats *reconciliation.RunStats, warnings *[]string) {
	openings := batch.OpeningsByElectrician[slot.ElectricianID]

	if len(openings) == 0 {
		p.emitAbsence(ctx, batch, slot, stats, warnings)
		return
	}

	// Worked, but never under the planned team: schedule divergence.
	if !workedUnderTeam(openings, slot.TeamID) {
		created, err := p.reconRepo.UpsertDivergence(ctx, reconciliation.ScheduleDivergence{
			Date:           batch.DayStart,
			ExpectedTeamID: slot.TeamID,
			ActualTeamID:   openings[0].TeamID,
			ElectricianID:  slot.ElectricianID,
			Kind:           reconciliation.DivergenceKindWrongTeam,
			CreatedBy:      reconciliation.CreatedBySystem,
		})
		if err != nil {
			*warnings = append(*warnings, fmt.Sprintf("divergence electrician=%d team=%d: %v", slot.ElectricianID, slot.TeamID, err))
		} else if created {
			stats.Created++
		} else {
			stats.Skipped++
		}
	}

	// Scheduled day off, worked anyway: overtime per opening.
	if slot.DayOff {
		slotID := slot.ID
		for _, opening := range openings {
			p.emitOvertime(ctx, batch.DayStart, opening, reconciliation.OvertimeKindWorkedDayOff, &slotID, stats, warnings)
		}
	}
}

func (p *processor) emitAbsence(ctx context.Context, batch dayBatch, slot roster.PlannedSlot, stats *reconciliation.RunStats, warnings *[]string) {
	just, err := p.rosterRepo.GetApprovedTeamJustification(ctx, batch.DayStart, batch.DayEnd, slot.TeamID)
	if err != nil {
		*warnings = append(*warnings, fmt.Sprintf("absence electrician=%d team=%d: justification lookup: %v", slot.ElectricianID, slot.TeamID, err))
		return
	}
	if just != nil && !just.ForcesAbsence {
		stats.Skipped++
		return
	}

	created, err := p.reconRepo.UpsertAbsence(ctx, reconciliation.Absence{
		Date:          batch.DayStart,
		TeamID:        slot.TeamID,
		ElectricianID: slot.ElectricianID,
		PlannedSlotID: slot.ID,
		SystemReason:  reconciliation.AbsenceReasonNoOpening,
		Status:        reconciliation.StatusPending,
		CreatedBy:     reconciliation.CreatedBySystem,
	})
	if err != nil {
		*warnings = append(*warnings, fmt.Sprintf("absence electrician=%d team=%d: %v", slot.ElectricianID, slot.TeamID, err))
		return
	}
	if created {
		stats.Created++
	} else {
		stats.Skipped++
	}
}

// processUnplannedShifts emits extrafora overtime for openings whose
// electrician has no published plan anywhere that day. With a team filter,
// only that team's openings are considered; the planned set stays global so
// a plan under any other team still disqualifies the opening.
func (p *processor) processUnplannedShifts(ctx context.Context, batch dayBatch, stats *reconciliation.RunStats, warnings *[]string) {
	for electricianID, openings := range batch.OpeningsByElectrician {
		if _, planned := batch.PlannedAnywhere[electricianID]; planned {
			continue
		}
		for _, opening := range openings {
			if batch.TeamID != nil && opening.TeamID != *batch.TeamID {
				continue
			}
			p.emitOvertime(ctx, batch.DayStart, opening, reconciliation.OvertimeKindUnplanned, nil, stats, warnings)
		}
	}
}

func (p *processor) emitOvertime(ctx context.Context, day time.Time, opening roster.ShiftOpening, kind string, plannedSlotID *int64, stats *reconciliation.RunStats, warnings *[]string) {
	hours, closed := opening.Duration()
	if !closed {
		// Still open; a later run reconciles it once the shift closes.
		stats.Skipped++
		return
	}

	exists, err := p.reconRepo.OvertimeExists(ctx, opening.ID, kind)
	if err != nil {
		*warnings = append(*warnings, fmt.Sprintf("overtime %s opening=%d: existence check: %v", kind, opening.ID, err))
		return
	}
	if exists {
		stats.Skipped++
		return
	}

	hours = roundHours(hours)
	_, err = p.reconRepo.CreateOvertime(ctx, reconciliation.Overtime{
		Date:           day,
		ElectricianID:  opening.ElectricianID,
		ShiftOpeningID: opening.ID,
		PlannedSlotID:  plannedSlotID,
		Kind:           kind,
		ExpectedHours:  0,
		ActualHours:    hours,
		DeltaHours:     hours,
		Status:         reconciliation.StatusPending,
		CreatedBy:      reconciliation.CreatedBySystem,
	})
	if err != nil {
		*warnings = append(*warnings, fmt.Sprintf("overtime %s opening=%d: %v", kind, opening.ID, err))
		return
	}
	stats.Created++
}

func workedUnderTeam(openings []roster.ShiftOpening, teamID int64) bool {
	for _, o := range openings {
		if o.TeamID == teamID {
			return true
		}
	}
	return false
}

// roundHours matches the storage precision NUMERIC(6,2).
func roundHours(h float64) float64 {
	return math.Round(h*100) / 100
}
