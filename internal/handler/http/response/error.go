package response

import (
	"errors"
	"net/http"

	"github.com/fieldvolt/workforce-backend-go/internal/domain/reconciliation"
	"github.com/fieldvolt/workforce-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// A run already holding the lock is an expected, retryable condition.
	case errors.Is(err, reconciliation.ErrAlreadyRunning):
		Conflict(w, "Reconciliation is already running")
	case errors.Is(err, reconciliation.ErrInvalidReferenceDate):
		BadRequest(w, "Invalid dataReferencia", nil)
	case errors.Is(err, reconciliation.ErrInvalidTeamID):
		BadRequest(w, "Invalid equipeId", nil)
	case errors.Is(err, reconciliation.ErrInvalidIntervalDays):
		BadRequest(w, "Invalid intervaloDias", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
