package attendance

import (
	"context"
)

// AttendanceService defines the batch operations of both pipeline stages
type AttendanceService interface {
	// DefaultPeriod returns the payroll period used when the front end sends no dates
	DefaultPeriod(ctx context.Context) PeriodResponse

	// Normalize turns each uploaded punch export into one daily attendance sheet
	Normalize(ctx context.Context, req NormalizeRequest) (BatchResult, error)

	// ComputeHours derives worked hours per sheet and the cross-employee summary
	ComputeHours(ctx context.Context, req HoursRequest) (BatchResult, error)
}
