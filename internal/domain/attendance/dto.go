package attendance

import (
	"errors"
	"strings"

	"github.com/cmlabs-hris/attendance-processor/internal/pkg/validator"
)

// ========================================
// UPLOAD DTOs
// ========================================

// UploadedFile is one file received from the front end.
type UploadedFile struct {
	Filename string
	Data     []byte
}

// Stem is the file name up to its first dot, which identifies the employee.
func (f UploadedFile) Stem() string {
	name := f.Filename
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	stem, _, _ := strings.Cut(name, ".")
	return strings.TrimSpace(stem)
}

type NormalizeRequest struct {
	StartDate string         `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   string         `json:"end_date,omitempty"`   // YYYY-MM-DD
	Files     []UploadedFile `json:"-"`
	Holidays  *UploadedFile  `json:"-"`
}

func (r *NormalizeRequest) Validate() error {
	var errs validator.ValidationErrors

	start, startOK := validator.IsValidDate(r.StartDate)
	end, endOK := validator.IsValidDate(r.EndDate)

	if !validator.IsEmpty(r.StartDate) && !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}
	if !validator.IsEmpty(r.EndDate) && !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}
	if validator.IsEmpty(r.StartDate) != validator.IsEmpty(r.EndDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "start_date and end_date must be provided together",
		})
	}
	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type HoursRequest struct {
	Workbook *UploadedFile `json:"-"`
	Holidays *UploadedFile `json:"-"`
}

// ========================================
// BATCH REPORT DTOs
// ========================================

type WarningKind string

const (
	WarningMissingColumn   WarningKind = "missing_column"
	WarningEmptyRange      WarningKind = "empty_range"
	WarningSheetError      WarningKind = "sheet_error"
	WarningHolidayFile     WarningKind = "holiday_file"
	WarningUnsupportedFile WarningKind = "unsupported_file"
	WarningUnreadableFile  WarningKind = "unreadable_file"
	WarningAnomaly         WarningKind = "anomaly"
)

// Warning is a recovered failure surfaced inline to the user.
type Warning struct {
	Source  string      `json:"source"`
	Kind    WarningKind `json:"kind"`
	Message string      `json:"message"`
}

// WarningKindOf classifies a per-file or per-sheet error.
func WarningKindOf(err error) WarningKind {
	switch {
	case errors.Is(err, ErrMissingColumn):
		return WarningMissingColumn
	case errors.Is(err, ErrEmptyRange):
		return WarningEmptyRange
	case errors.Is(err, ErrHolidayFile):
		return WarningHolidayFile
	case errors.Is(err, ErrUnsupportedFile):
		return WarningUnsupportedFile
	case errors.Is(err, ErrUnreadableFile):
		return WarningUnreadableFile
	default:
		return WarningSheetError
	}
}

const (
	SheetStatusOK      = "ok"
	SheetStatusSkipped = "skipped"
)

// SheetReport describes the outcome for one uploaded file or input sheet.
type SheetReport struct {
	Source           string   `json:"source"`
	Sheet            string   `json:"sheet,omitempty"`
	Employee         string   `json:"employee,omitempty"`
	Department       string   `json:"department,omitempty"`
	EmployeeNo       string   `json:"employee_no,omitempty"`
	Status           string   `json:"status"`
	Days             int      `json:"days,omitempty"`
	Punches          int      `json:"punches,omitempty"`
	DroppedPunches   int      `json:"dropped_punches,omitempty"`
	WorkedDays       int      `json:"worked_days,omitempty"`
	TotalWorkedHours *float64 `json:"total_worked_hours,omitempty"`
}

type PeriodResponse struct {
	StartDate      string   `json:"start_date"`
	EndDate        string   `json:"end_date"`
	NonWorkingDays []string `json:"non_working_days"`
}

// BatchResult is the outcome of one batch run. Workbook holds the xlsx bytes.
type BatchResult struct {
	BatchID   string            `json:"batch_id"`
	FileName  string            `json:"file_name"`
	Period    *PeriodResponse   `json:"period,omitempty"`
	Holidays  int               `json:"holidays"`
	Sheets    []SheetReport     `json:"sheets"`
	Summaries []EmployeeSummary `json:"summaries,omitempty"`
	Warnings  []Warning         `json:"warnings"`
	Workbook  []byte            `json:"workbook,omitempty"`
}
