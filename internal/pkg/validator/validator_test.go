package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(""))
	assert.True(t, IsEmpty("   "))
	assert.True(t, IsEmpty("\t\n"))
	assert.False(t, IsEmpty("a"))
	assert.False(t, IsEmpty(" a "))
}

func TestIsValidDate(t *testing.T) {
	_, ok := IsValidDate("2025-03-10")
	assert.True(t, ok)

	_, ok = IsValidDate("2025-02-30")
	assert.False(t, ok)

	_, ok = IsValidDate("10/03/2025")
	assert.False(t, ok)
}

func TestIsValidDateInput(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"2025-03-10", true},
		{"2025-03-10T15:04:05", true},
		{"2025-03-10 15:04:05", true},
		{"2025-03-10T15:04:05Z", true},
		{"2025-03-10T15:04:05-03:00", true},
		{"", false},
		{"2025-13-01", false},
		{"10/03/2025", false},
		{"tomorrow", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidDateInput(tt.input))
		})
	}
}

func TestParsePositiveInt(t *testing.T) {
	n, ok := ParsePositiveInt("42")
	assert.True(t, ok)
	assert.Equal(t, int64(42), n)

	_, ok = ParsePositiveInt("0")
	assert.False(t, ok)

	_, ok = ParsePositiveInt("-5")
	assert.False(t, ok)

	_, ok = ParsePositiveInt("abc")
	assert.False(t, ok)
}

func TestValidationErrors(t *testing.T) {
	errs := ValidationErrors{
		{Field: "dataReferencia", Message: "must be a date"},
		{Field: "equipeId", Message: "must be positive"},
	}

	assert.Equal(t, "dataReferencia: must be a date; equipeId: must be positive", errs.Error())
	assert.Equal(t, map[string]string{
		"dataReferencia": "must be a date",
		"equipeId":       "must be positive",
	}, errs.ToMap())
}
