package attendance

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-processor/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-processor/internal/domain/holiday"
	"github.com/cmlabs-hris/attendance-processor/internal/pkg/metrics"
	"github.com/cmlabs-hris/attendance-processor/internal/pkg/spreadsheet"
	"github.com/cmlabs-hris/attendance-processor/internal/pkg/validator"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	halfAttendancePrefix = "Half Attendance"
	fullAttendancePrefix = "Full Attendance"
	fallbackEmployee     = "Employee"
)

// Options configures the batch service.
type Options struct {
	Policy         attendance.Policy
	PeriodStartDay int
	PeriodEndDay   int
	Location       *time.Location
	// Workers bounds how many sheets the reducer processes at once.
	Workers int
	// MaxPeriodDays caps the length of a requested period.
	MaxPeriodDays int
}

type AttendanceServiceImpl struct {
	normalizer *Normalizer
	reducer    *Reducer
	metrics    *metrics.Collector
	opts       Options
	now        func() time.Time
}

func NewAttendanceService(opts Options, collector *metrics.Collector) attendance.AttendanceService {
	return newAttendanceService(opts, collector, time.Now)
}

func newAttendanceService(opts Options, collector *metrics.Collector, now func() time.Time) *AttendanceServiceImpl {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.MaxPeriodDays < 1 {
		opts.MaxPeriodDays = attendance.DefaultMaxPeriodDays
	}
	return &AttendanceServiceImpl{
		normalizer: NewNormalizer(opts.Policy),
		reducer:    NewReducer(opts.Policy),
		metrics:    collector,
		opts:       opts,
		now:        now,
	}
}

// DefaultPeriod implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) DefaultPeriod(ctx context.Context) attendance.PeriodResponse {
	return s.periodResponse(s.defaultPeriod())
}

func (s *AttendanceServiceImpl) defaultPeriod() attendance.Period {
	return attendance.DefaultPeriod(s.now().In(s.opts.Location), s.opts.PeriodStartDay, s.opts.PeriodEndDay)
}

func (s *AttendanceServiceImpl) periodResponse(p attendance.Period) attendance.PeriodResponse {
	days := make([]string, 0, len(s.opts.Policy.NonWorkingDays))
	for _, wd := range s.opts.Policy.NonWorkingDays {
		days = append(days, wd.String())
	}
	return attendance.PeriodResponse{
		StartDate:      p.Start.Format(attendance.DateFormat),
		EndDate:        p.End.Format(attendance.DateFormat),
		NonWorkingDays: days,
	}
}

func (s *AttendanceServiceImpl) fileName(prefix string) string {
	return fmt.Sprintf("%s - %s.xlsx", prefix, s.now().In(s.opts.Location).Format(attendance.DateFormat))
}

func (s *AttendanceServiceImpl) resolvePeriod(req attendance.NormalizeRequest) (attendance.Period, error) {
	if req.StartDate == "" && req.EndDate == "" {
		return s.defaultPeriod(), nil
	}
	start, err := time.Parse(attendance.DateFormat, req.StartDate)
	if err != nil {
		return attendance.Period{}, fmt.Errorf("invalid start_date: %w", err)
	}
	end, err := time.Parse(attendance.DateFormat, req.EndDate)
	if err != nil {
		return attendance.Period{}, fmt.Errorf("invalid end_date: %w", err)
	}
	period, err := attendance.NewPeriod(start, end)
	if err != nil {
		return attendance.Period{}, err
	}
	if period.Len() > s.opts.MaxPeriodDays {
		return attendance.Period{}, validator.ValidationErrors{{
			Field:   "end_date",
			Message: fmt.Sprintf("period must not exceed %d days", s.opts.MaxPeriodDays),
		}}
	}
	return period, nil
}

// Normalize implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Normalize(ctx context.Context, req attendance.NormalizeRequest) (attendance.BatchResult, error) {
	if len(req.Files) == 0 {
		return attendance.BatchResult{}, attendance.ErrNoFiles
	}
	if err := req.Validate(); err != nil {
		return attendance.BatchResult{}, err
	}
	period, err := s.resolvePeriod(req)
	if err != nil {
		return attendance.BatchResult{}, err
	}

	started := time.Now()
	periodResp := s.periodResponse(period)
	result := attendance.BatchResult{
		BatchID:  uuid.NewString(),
		FileName: s.fileName(halfAttendancePrefix),
		Period:   &periodResp,
		Sheets:   []attendance.SheetReport{},
		Warnings: []attendance.Warning{},
	}
	logger := slog.With("batch_id", result.BatchID, "stage", metrics.StageNormalize)
	logger.Info("Normalize batch started",
		"files", len(req.Files),
		"start_date", periodResp.StartDate,
		"end_date", periodResp.EndDate,
	)
	defer func() { s.metrics.ObserveBatch(metrics.StageNormalize, time.Since(started)) }()

	holidays := s.loadHolidays(req.Holidays, &result, logger, metrics.StageNormalize)

	var sheets []spreadsheet.Sheet
	var written []int // index into result.Sheets for each entry of sheets
	for _, f := range req.Files {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		report := attendance.SheetReport{Source: f.Filename, Status: attendance.SheetStatusSkipped}
		ts, err := s.normalizeFile(f, period, holidays)
		report.Employee = ts.EmployeeName
		report.Department = ts.Department
		report.EmployeeNo = ts.EmployeeNo
		report.Punches = ts.Punches
		report.DroppedPunches = ts.Dropped
		if err != nil {
			s.warn(&result, logger, metrics.StageNormalize, f.Filename, err)
			result.Sheets = append(result.Sheets, report)
			s.metrics.ObserveSheet(metrics.StageNormalize, metrics.OutcomeSkipped)
			continue
		}

		report.Status = attendance.SheetStatusOK
		report.Days = len(ts.Days)
		if ts.Dropped > 0 {
			logger.Debug("Dropped punches with unreadable timestamps", "file", f.Filename, "dropped", ts.Dropped)
		}
		logger.Info("File normalized",
			"file", f.Filename,
			"employee", ts.EmployeeName,
			"punches", ts.Punches,
			"days", len(ts.Days),
		)

		written = append(written, len(result.Sheets))
		result.Sheets = append(result.Sheets, report)
		sheets = append(sheets, encodeTimesheet(ts.EmployeeName, ts))
		s.metrics.ObserveSheet(metrics.StageNormalize, metrics.OutcomeOK)
	}

	if len(sheets) == 0 {
		logger.Warn("Normalize batch produced no output", "warnings", len(result.Warnings))
		return result, attendance.ErrNoOutput
	}

	if err := s.writeWorkbook(&result, sheets, written); err != nil {
		return result, err
	}
	logger.Info("Normalize batch completed",
		"sheets", len(sheets),
		"warnings", len(result.Warnings),
		"duration", time.Since(started),
	)
	return result, nil
}

func (s *AttendanceServiceImpl) normalizeFile(f attendance.UploadedFile, period attendance.Period, holidays holiday.Calendar) (attendance.Timesheet, error) {
	tables, err := readUpload(f)
	if err != nil {
		return attendance.Timesheet{}, err
	}

	punches, err := decodePunches(tables[0])
	if err != nil {
		return attendance.Timesheet{}, err
	}

	employee := f.Stem()
	if employee == "" {
		for _, p := range punches {
			if p.Name != "" {
				employee = p.Name
				break
			}
		}
	}
	if employee == "" {
		employee = fallbackEmployee
	}

	return s.normalizer.Normalize(employee, punches, period, holidays)
}

// ComputeHours implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ComputeHours(ctx context.Context, req attendance.HoursRequest) (attendance.BatchResult, error) {
	if req.Workbook == nil {
		return attendance.BatchResult{}, attendance.ErrNoFiles
	}

	started := time.Now()
	result := attendance.BatchResult{
		BatchID:   uuid.NewString(),
		FileName:  s.fileName(fullAttendancePrefix),
		Sheets:    []attendance.SheetReport{},
		Summaries: []attendance.EmployeeSummary{},
		Warnings:  []attendance.Warning{},
	}
	logger := slog.With("batch_id", result.BatchID, "stage", metrics.StageHours)
	defer func() { s.metrics.ObserveBatch(metrics.StageHours, time.Since(started)) }()

	tables, err := readUpload(*req.Workbook)
	if err != nil {
		s.warn(&result, logger, metrics.StageHours, req.Workbook.Filename, err)
		return result, attendance.ErrNoOutput
	}
	logger.Info("Hours batch started", "file", req.Workbook.Filename, "sheets", len(tables))

	holidays := s.loadHolidays(req.Holidays, &result, logger, metrics.StageHours)

	inputs := make([]spreadsheet.Table, 0, len(tables))
	for _, t := range tables {
		if isSummaryTable(t) {
			logger.Debug("Skipping summary sheet of an earlier run", "sheet", t.Name)
			continue
		}
		inputs = append(inputs, t)
	}

	outcomes, err := s.reduceTables(ctx, inputs, holidays)
	if err != nil {
		return result, err
	}

	var sheets []spreadsheet.Sheet
	var written []int
	for i, out := range outcomes {
		t := inputs[i]
		report := attendance.SheetReport{Source: req.Workbook.Filename, Sheet: t.Name, Employee: t.Name, Status: attendance.SheetStatusSkipped}
		if out.err != nil {
			s.warn(&result, logger, metrics.StageHours, t.Name, out.err)
			result.Sheets = append(result.Sheets, report)
			s.metrics.ObserveSheet(metrics.StageHours, metrics.OutcomeSkipped)
			continue
		}

		hs := out.hours
		if hs.Anomalies > 0 {
			s.addWarning(&result, logger, metrics.StageHours, attendance.Warning{
				Source:  t.Name,
				Kind:    attendance.WarningAnomaly,
				Message: fmt.Sprintf("%d day(s) with check-out before check-in were not counted", hs.Anomalies),
			})
		}

		total := hs.TotalWorkedHours
		report.Status = attendance.SheetStatusOK
		report.Days = len(hs.Rows)
		report.WorkedDays = hs.WorkedDays
		report.TotalWorkedHours = &total

		written = append(written, len(result.Sheets))
		result.Sheets = append(result.Sheets, report)
		result.Summaries = append(result.Summaries, Summarize(hs))
		sheets = append(sheets, encodeHoursSheet(t.Name, hs))
		s.metrics.ObserveSheet(metrics.StageHours, metrics.OutcomeOK)
		s.metrics.ObserveWorkedHours(total)
	}

	if len(sheets) == 0 {
		logger.Warn("Hours batch produced no output", "warnings", len(result.Warnings))
		return result, attendance.ErrNoOutput
	}

	sheets = append(sheets, encodeSummary(result.Summaries))
	if err := s.writeWorkbook(&result, sheets, written); err != nil {
		return result, err
	}
	logger.Info("Hours batch completed",
		"sheets", len(written),
		"warnings", len(result.Warnings),
		"duration", time.Since(started),
	)
	return result, nil
}

type sheetOutcome struct {
	hours attendance.HoursSheet
	err   error
}

// reduceTables reduces every table, at most opts.Workers at a time. Each
// worker gets its own copy of the calendar and writes only its own slot.
func (s *AttendanceServiceImpl) reduceTables(ctx context.Context, tables []spreadsheet.Table, holidays holiday.Calendar) ([]sheetOutcome, error) {
	outcomes := make([]sheetOutcome, len(tables))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)
	for i, t := range tables {
		cal := holidays
		if s.opts.Workers > 1 {
			cal = holidays.Clone()
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = s.reduceTable(t, cal)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func (s *AttendanceServiceImpl) reduceTable(t spreadsheet.Table, holidays holiday.Calendar) (out sheetOutcome) {
	defer func() {
		if r := recover(); r != nil {
			out = sheetOutcome{err: fmt.Errorf("%w: %v", attendance.ErrSheetProcessing, r)}
		}
	}()

	days, err := decodeAttendance(t)
	if err != nil {
		return sheetOutcome{err: err}
	}
	if len(days) == 0 {
		return sheetOutcome{err: fmt.Errorf("%w: no attendance rows", attendance.ErrSheetProcessing)}
	}
	return sheetOutcome{hours: s.reducer.ReduceSheet(t.Name, days, holidays)}
}

// loadHolidays reads the optional holiday file. Any failure is recorded as a
// warning and leaves the calendar empty.
func (s *AttendanceServiceImpl) loadHolidays(f *attendance.UploadedFile, result *attendance.BatchResult, logger *slog.Logger, stage string) holiday.Calendar {
	if f == nil {
		return nil
	}

	tables, err := readUpload(*f)
	if err != nil {
		s.warn(result, logger, stage, f.Filename, fmt.Errorf("%w: %w", attendance.ErrHolidayFile, err))
		return nil
	}

	cal, skipped, err := holiday.FromTable(tables[0])
	if err != nil {
		s.warn(result, logger, stage, f.Filename, fmt.Errorf("%w: %w", attendance.ErrHolidayFile, err))
		return nil
	}
	if skipped > 0 {
		logger.Debug("Skipped unreadable holiday rows", "file", f.Filename, "skipped", skipped)
	}

	result.Holidays = cal.Len()
	logger.Info("Holiday calendar loaded", "file", f.Filename, "holidays", cal.Len())
	return cal
}

func (s *AttendanceServiceImpl) writeWorkbook(result *attendance.BatchResult, sheets []spreadsheet.Sheet, written []int) error {
	var buf bytes.Buffer
	names, err := spreadsheet.WriteWorkbook(&buf, sheets)
	if err != nil {
		return fmt.Errorf("failed to write output workbook: %w", err)
	}
	for i, idx := range written {
		result.Sheets[idx].Sheet = names[i]
	}
	result.Workbook = buf.Bytes()
	return nil
}

func (s *AttendanceServiceImpl) warn(result *attendance.BatchResult, logger *slog.Logger, stage, source string, err error) {
	s.addWarning(result, logger, stage, attendance.Warning{
		Source:  source,
		Kind:    attendance.WarningKindOf(err),
		Message: err.Error(),
	})
}

func (s *AttendanceServiceImpl) addWarning(result *attendance.BatchResult, logger *slog.Logger, stage string, w attendance.Warning) {
	result.Warnings = append(result.Warnings, w)
	s.metrics.ObserveWarning(stage, string(w.Kind))
	logger.Warn("Batch warning", "source", w.Source, "kind", w.Kind, "message", w.Message)
}

func readUpload(f attendance.UploadedFile) ([]spreadsheet.Table, error) {
	tables, err := spreadsheet.ReadWorkbook(bytes.NewReader(f.Data), f.Filename)
	if err != nil {
		if errors.Is(err, spreadsheet.ErrUnsupportedFormat) {
			return nil, fmt.Errorf("%w: %s", attendance.ErrUnsupportedFile, f.Filename)
		}
		return nil, fmt.Errorf("%w: %w", attendance.ErrUnreadableFile, err)
	}
	return tables, nil
}
