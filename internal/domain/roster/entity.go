package roster

import (
	"time"
)

// Team period publication statuses. Only published periods are authoritative
// for reconciliation.
const (
	PeriodStatusDraft     = "rascunho"
	PeriodStatusPublished = "publicada"
	PeriodStatusArchived  = "arquivada"
)

// Justification statuses.
const (
	JustificationStatusPending  = "pendente"
	JustificationStatusApproved = "aprovada"
	JustificationStatusRejected = "rejeitada"
)

// PlannedSlot is one planned attendance unit: one electrician, one calendar
// date, under a team period. DayOff marks a scheduled "folga".
type PlannedSlot struct {
	ID            int64
	Date          time.Time
	ElectricianID int64
	TeamPeriodID  int64
	TeamID        int64
	PeriodStatus  string
	DayOff        bool
	ExpectedStart *time.Time
	ExpectedEnd   *time.Time

	// Joined from eletricistas
	ElectricianName   string
	ElectricianStatus string
}

// ShiftOpening records that an electrician actually opened a shift. TeamID and
// ReferenceDate come from the parent turno_realizado.
type ShiftOpening struct {
	ID            int64
	ShiftID       int64
	TeamID        int64
	ElectricianID int64
	ReferenceDate time.Time
	OpenedAt      time.Time
	ClosedAt      *time.Time
}

// Duration returns the worked hours of a closed opening. ok is false while the
// shift is still open, in which case the opening must not be reconciled as
// complete.
func (o ShiftOpening) Duration() (hours float64, ok bool) {
	if o.ClosedAt == nil {
		return 0, false
	}
	return o.ClosedAt.Sub(o.OpenedAt).Hours(), true
}

// TeamJustification is an approval record for a (date, team) pair. When
// approved and its type does not force an absence, it suppresses absence
// records for that team-day.
type TeamJustification struct {
	ID            int64
	Date          time.Time
	TeamID        int64
	TypeID        int64
	Status        string
	ForcesAbsence bool
}
