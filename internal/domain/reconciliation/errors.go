package reconciliation

import "errors"

// Reconciliation domain errors
var (
	// ErrAlreadyRunning means another instance holds the job lock. Callers
	// should treat this as a transient-retry condition, not a failure.
	ErrAlreadyRunning = errors.New("reconciliation is already running")

	ErrInvalidReferenceDate = errors.New("invalid reference date")
	ErrInvalidTeamID        = errors.New("team id must be a positive integer")
	ErrInvalidIntervalDays  = errors.New("interval days must be a positive integer")
)
