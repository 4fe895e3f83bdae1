package attendance

import "errors"

// Attendance domain errors
var (
	// Batch errors
	ErrNoFiles       = errors.New("no attendance file uploaded")
	ErrNoOutput      = errors.New("no file or sheet produced any output")
	ErrInvalidPeriod = errors.New("end date is before start date")

	// Per file or sheet errors, recovered as warnings
	ErrMissingColumn   = errors.New("required column missing")
	ErrEmptyRange      = errors.New("no data in range")
	ErrSheetProcessing = errors.New("sheet could not be processed")
	ErrHolidayFile     = errors.New("holiday file could not be used")
	ErrUnsupportedFile = errors.New("unsupported file type")
	ErrUnreadableFile  = errors.New("file could not be read")
)
