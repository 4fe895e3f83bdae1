package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-processor/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-processor/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	HandleErrorWithData(w, err, nil)
}

// HandleErrorWithData is HandleError for batch failures that still have a
// report worth returning.
func HandleErrorWithData(w http.ResponseWriter, err error, data interface{}) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		RequestTooLarge(w, "Upload exceeds the size limit")
		return
	}

	// Attendance domain errors
	switch {
	case errors.Is(err, attendance.ErrNoFiles):
		NoFiles(w, "No attendance file uploaded")
	case errors.Is(err, attendance.ErrNoOutput):
		NoOutput(w, "No file or sheet produced any output", data)
	case errors.Is(err, attendance.ErrInvalidPeriod):
		BadRequest(w, "End date is before start date", nil)

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
