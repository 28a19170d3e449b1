package reconciliation

import (
	"time"
)

// System reasons and kinds carried on derived records. Values match the
// shared relational schema.
const (
	AbsenceReasonNoOpening = "falta_abertura"

	DivergenceKindWrongTeam = "equipe_divergente"

	OvertimeKindWorkedDayOff = "folga_trabalhada"
	OvertimeKindUnplanned    = "extrafora"

	StatusPending   = "pendente"
	CreatedBySystem = "sistema"
)

// Absence flags a planned-but-not-worked day. At most one row exists per
// (date, team, electrician, reason); creation is an insert-or-ignore upsert.
type Absence struct {
	ID            int64
	Date          time.Time
	TeamID        int64
	ElectricianID int64
	PlannedSlotID int64
	SystemReason  string
	Status        string
	CreatedBy     string
	CreatedAt     time.Time

	// Joined for listings
	ElectricianName *string
}

// ScheduleDivergence flags "worked, but under the wrong team". At most one
// row exists per (date, electrician, expected team, actual team).
type ScheduleDivergence struct {
	ID             int64
	Date           time.Time
	ExpectedTeamID int64
	ActualTeamID   int64
	ElectricianID  int64
	Kind           string
	CreatedBy      string
	CreatedAt      time.Time

	ElectricianName *string
}

// Overtime flags worked time outside the plan: on a scheduled day off
// (folga_trabalhada) or with no plan at all that day (extrafora). Hours are
// stored with two decimal places.
type Overtime struct {
	ID             int64
	Date           time.Time
	ElectricianID  int64
	ShiftOpeningID int64
	PlannedSlotID  *int64
	Kind           string
	ExpectedHours  float64
	ActualHours    float64
	DeltaHours     float64
	Status         string
	CreatedBy      string
	CreatedAt      time.Time

	ElectricianName *string
}
