package reconciliation

import (
	"encoding/json"
	"testing"

	"github.com/fieldvolt/workforce-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunRequest_Validate(t *testing.T) {
	positive := int64(3)
	negative := int64(-1)

	tests := []struct {
		name        string
		req         RunRequest
		wantErr     bool
		failedField string
	}{
		{"empty request is valid", RunRequest{}, false, ""},
		{"bare date", RunRequest{ReferenceDate: "2025-03-10"}, false, ""},
		{"iso datetime", RunRequest{ReferenceDate: "2025-03-10T15:04:05"}, false, ""},
		{"full request", RunRequest{ReferenceDate: "2025-03-10", TeamID: &positive, IntervalDays: 7, DryRun: true}, false, ""},
		{"malformed date", RunRequest{ReferenceDate: "10/03/2025"}, true, "dataReferencia"},
		{"non-positive team", RunRequest{TeamID: &negative}, true, "equipeId"},
		{"negative interval", RunRequest{IntervalDays: -1}, true, "intervaloDias"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var errs validator.ValidationErrors
			require.ErrorAs(t, err, &errs)
			assert.Contains(t, errs.ToMap(), tt.failedField)
		})
	}
}

func TestRunRequest_WireFieldNames(t *testing.T) {
	var req RunRequest
	body := `{"dataReferencia":"2025-03-10","equipeId":5,"intervaloDias":2,"dryRun":true}`
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	assert.Equal(t, "2025-03-10", req.ReferenceDate)
	require.NotNil(t, req.TeamID)
	assert.Equal(t, int64(5), *req.TeamID)
	assert.Equal(t, 2, req.IntervalDays)
	assert.True(t, req.DryRun)
}

func TestNewOvertimeResponse(t *testing.T) {
	slotID := int64(42)
	o := Overtime{
		ID:             7,
		ElectricianID:  10,
		ShiftOpeningID: 100,
		PlannedSlotID:  &slotID,
		Kind:           OvertimeKindWorkedDayOff,
		ActualHours:    3.5,
		DeltaHours:     3.5,
		Status:         StatusPending,
	}

	resp := NewOvertimeResponse(o)
	assert.Equal(t, int64(7), resp.ID)
	assert.Equal(t, OvertimeKindWorkedDayOff, resp.Kind)
	require.NotNil(t, resp.PlannedSlotID)
	assert.Equal(t, int64(42), *resp.PlannedSlotID)
	assert.Equal(t, 3.5, resp.ActualHours)
}
