package reconciliation

import (
	"time"

	"github.com/fieldvolt/workforce-backend-go/internal/pkg/validator"
)

// ========================================
// RECONCILIATION RUN DTOs
// ========================================

// RunRequest carries the trigger parameters. Field names follow the wire
// contract shared with the back-office dashboard and the cron trigger.
type RunRequest struct {
	ReferenceDate string `json:"dataReferencia,omitempty"`
	TeamID        *int64 `json:"equipeId,omitempty"`
	IntervalDays  int    `json:"intervaloDias,omitempty"`
	DryRun        bool   `json:"dryRun,omitempty"`
}

func (r *RunRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.ReferenceDate != "" && !validator.IsValidDateInput(r.ReferenceDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "dataReferencia",
			Message: "must be YYYY-MM-DD or an ISO datetime",
		})
	}

	if r.TeamID != nil && *r.TeamID <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "equipeId",
			Message: "must be a positive integer",
		})
	}

	if r.IntervalDays < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "intervaloDias",
			Message: "must be a positive integer",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// RunStats accumulates record counters across all days of a run.
type RunStats struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Closed  int `json:"closed"`
	Skipped int `json:"skipped"`
}

// RunResult is the structured outcome returned to both triggers.
type RunResult struct {
	Success    bool      `json:"success"`
	RunID      string    `json:"runId"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	DurationMs int64     `json:"durationMs"`
	Stats      RunStats  `json:"stats"`
	Warnings   []string  `json:"warnings"`
}

// ========================================
// LISTING DTOs
// ========================================

type AbsenceFilter struct {
	Date          *string
	TeamID        *int64
	ElectricianID *int64
	Page          int
	Limit         int
}

type DivergenceFilter struct {
	Date           *string
	ExpectedTeamID *int64
	ElectricianID  *int64
	Page           int
	Limit          int
}

type OvertimeFilter struct {
	Date          *string
	Kind          *string
	ElectricianID *int64
	Page          int
	Limit         int
}

type AbsenceResponse struct {
	ID              int64   `json:"id"`
	Date            string  `json:"date"`
	TeamID          int64   `json:"team_id"`
	ElectricianID   int64   `json:"electrician_id"`
	ElectricianName *string `json:"electrician_name,omitempty"`
	PlannedSlotID   int64   `json:"planned_slot_id"`
	SystemReason    string  `json:"system_reason"`
	Status          string  `json:"status"`
	CreatedBy       string  `json:"created_by"`
}

type DivergenceResponse struct {
	ID              int64   `json:"id"`
	Date            string  `json:"date"`
	ExpectedTeamID  int64   `json:"expected_team_id"`
	ActualTeamID    int64   `json:"actual_team_id"`
	ElectricianID   int64   `json:"electrician_id"`
	ElectricianName *string `json:"electrician_name,omitempty"`
	Kind            string  `json:"kind"`
	CreatedBy       string  `json:"created_by"`
}

type OvertimeResponse struct {
	ID              int64   `json:"id"`
	Date            string  `json:"date"`
	ElectricianID   int64   `json:"electrician_id"`
	ElectricianName *string `json:"electrician_name,omitempty"`
	ShiftOpeningID  int64   `json:"shift_opening_id"`
	PlannedSlotID   *int64  `json:"planned_slot_id,omitempty"`
	Kind            string  `json:"kind"`
	ExpectedHours   float64 `json:"expected_hours"`
	ActualHours     float64 `json:"actual_hours"`
	DeltaHours      float64 `json:"delta_hours"`
	Status          string  `json:"status"`
}

func NewAbsenceResponse(a Absence) AbsenceResponse {
	return AbsenceResponse{
		ID:              a.ID,
		Date:            a.Date.Format("2006-01-02"),
		TeamID:          a.TeamID,
		ElectricianID:   a.ElectricianID,
		ElectricianName: a.ElectricianName,
		PlannedSlotID:   a.PlannedSlotID,
		SystemReason:    a.SystemReason,
		Status:          a.Status,
		CreatedBy:       a.CreatedBy,
	}
}

func NewDivergenceResponse(d ScheduleDivergence) DivergenceResponse {
	return DivergenceResponse{
		ID:              d.ID,
		Date:            d.Date.Format("2006-01-02"),
		ExpectedTeamID:  d.ExpectedTeamID,
		ActualTeamID:    d.ActualTeamID,
		ElectricianID:   d.ElectricianID,
		ElectricianName: d.ElectricianName,
		Kind:            d.Kind,
		CreatedBy:       d.CreatedBy,
	}
}

func NewOvertimeResponse(o Overtime) OvertimeResponse {
	return OvertimeResponse{
		ID:              o.ID,
		Date:            o.Date.Format("2006-01-02"),
		ElectricianID:   o.ElectricianID,
		ElectricianName: o.ElectricianName,
		ShiftOpeningID:  o.ShiftOpeningID,
		PlannedSlotID:   o.PlannedSlotID,
		Kind:            o.Kind,
		ExpectedHours:   o.ExpectedHours,
		ActualHours:     o.ActualHours,
		DeltaHours:      o.DeltaHours,
		Status:          o.Status,
	}
}
