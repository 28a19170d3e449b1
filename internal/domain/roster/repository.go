package roster

import (
	"context"
	"time"
)

// RosterRepository defines the read-only batch queries the reconciliation
// engine needs for one business day. All ranges are [start, end] boundaries
// produced by businessday.DayRange.
type RosterRepository interface {
	// ListPlannedSlots returns the planned slots whose date falls in range.
	// With teamID set it returns every slot of that team regardless of period
	// status; without it only slots under published periods are returned.
	ListPlannedSlots(ctx context.Context, start, end time.Time, teamID *int64) ([]PlannedSlot, error)

	// ListPlannedElectricianIDs returns the ids of every electrician with at
	// least one slot under a published period in range, unfiltered by team.
	// Used to answer "was this person scheduled anywhere today".
	ListPlannedElectricianIDs(ctx context.Context, start, end time.Time) (map[int64]struct{}, error)

	// ListShiftOpenings returns all shift openings whose parent shift
	// reference date falls in range, with the parent team id.
	ListShiftOpenings(ctx context.Context, start, end time.Time) ([]ShiftOpening, error)

	// GetApprovedTeamJustification returns the approved justification for the
	// team-day, or nil when none exists.
	GetApprovedTeamJustification(ctx context.Context, start, end time.Time, teamID int64) (*TeamJustification, error)
}
