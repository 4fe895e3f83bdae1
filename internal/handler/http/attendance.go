package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/attendance-processor/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-processor/internal/handler/http/response"
)

// Multipart field names
const (
	fieldFiles     = "files"
	fieldHolidays  = "holidays"
	fieldWorkbook  = "workbook"
	fieldStartDate = "start_date"
	fieldEndDate   = "end_date"
)

// Batch report headers on binary responses
const (
	HeaderBatchID      = "X-Batch-ID"
	HeaderWarningCount = "X-Warning-Count"
	HeaderWarnings     = "X-Warnings"

	// HeaderWarningsTruncated is "true" when X-Warnings holds only the first
	// warnings. The full list is in the ?format=json report.
	HeaderWarningsTruncated = "X-Warnings-Truncated"
)

// maxWarningsHeader keeps X-Warnings under common client header limits.
const maxWarningsHeader = 4 << 10

// multipartMemory is how much of a form is held in memory before spilling to
// temp files. The body itself is capped by the upload limit middleware.
const multipartMemory = 8 << 20

type AttendanceHandler interface {
	Period(w http.ResponseWriter, r *http.Request)
	Normalize(w http.ResponseWriter, r *http.Request)
	Hours(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// Period implements AttendanceHandler.
func (h *attendanceHandlerImpl) Period(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.attendanceService.DefaultPeriod(r.Context()))
}

// Normalize implements AttendanceHandler.
func (h *attendanceHandlerImpl) Normalize(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	defer r.MultipartForm.RemoveAll()

	files, err := readFiles(r.MultipartForm.File[fieldFiles])
	if err != nil {
		slog.Error("Failed to read uploaded files", "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return
	}
	holidays, err := readOptionalFile(r.MultipartForm.File[fieldHolidays])
	if err != nil {
		slog.Error("Failed to read holiday file", "error", err)
		response.BadRequest(w, "Invalid holiday file upload", nil)
		return
	}

	req := attendance.NormalizeRequest{
		StartDate: strings.TrimSpace(r.FormValue(fieldStartDate)),
		EndDate:   strings.TrimSpace(r.FormValue(fieldEndDate)),
		Files:     files,
		Holidays:  holidays,
	}

	result, err := h.attendanceService.Normalize(r.Context(), req)
	if err != nil {
		response.HandleErrorWithData(w, err, reportOf(result))
		return
	}
	writeBatch(w, r, "Attendance normalized", result)
}

// Hours implements AttendanceHandler.
func (h *attendanceHandlerImpl) Hours(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	defer r.MultipartForm.RemoveAll()

	workbook, err := readOptionalFile(r.MultipartForm.File[fieldWorkbook])
	if err != nil {
		slog.Error("Failed to read uploaded workbook", "error", err)
		response.BadRequest(w, "Invalid workbook upload", nil)
		return
	}
	holidays, err := readOptionalFile(r.MultipartForm.File[fieldHolidays])
	if err != nil {
		slog.Error("Failed to read holiday file", "error", err)
		response.BadRequest(w, "Invalid holiday file upload", nil)
		return
	}

	result, err := h.attendanceService.ComputeHours(r.Context(), attendance.HoursRequest{
		Workbook: workbook,
		Holidays: holidays,
	})
	if err != nil {
		response.HandleErrorWithData(w, err, reportOf(result))
		return
	}
	writeBatch(w, r, "Worked hours computed", result)
}

func parseForm(w http.ResponseWriter, r *http.Request) bool {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			response.HandleError(w, err)
			return false
		}
		if errors.Is(err, http.ErrNotMultipart) {
			response.HandleError(w, attendance.ErrNoFiles)
			return false
		}
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return false
	}
	return true
}

func readFiles(headers []*multipart.FileHeader) ([]attendance.UploadedFile, error) {
	files := make([]attendance.UploadedFile, 0, len(headers))
	for _, fh := range headers {
		f, err := readFile(fh)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

func readOptionalFile(headers []*multipart.FileHeader) (*attendance.UploadedFile, error) {
	if len(headers) == 0 {
		return nil, nil
	}
	f, err := readFile(headers[0])
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func readFile(fh *multipart.FileHeader) (attendance.UploadedFile, error) {
	file, err := fh.Open()
	if err != nil {
		return attendance.UploadedFile{}, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return attendance.UploadedFile{}, err
	}
	return attendance.UploadedFile{Filename: fh.Filename, Data: data}, nil
}

// reportOf drops the workbook so a failed batch returns only its report.
func reportOf(result attendance.BatchResult) interface{} {
	if result.BatchID == "" {
		return nil
	}
	result.Workbook = nil
	return result
}

func wantsJSON(r *http.Request) bool {
	return strings.EqualFold(r.URL.Query().Get("format"), "json")
}

func writeBatch(w http.ResponseWriter, r *http.Request, message string, result attendance.BatchResult) {
	if wantsJSON(r) {
		response.SuccessWithMessage(w, message, result)
		return
	}

	warnings, truncated := warningsHeader(result.Warnings)
	w.Header().Set(HeaderBatchID, result.BatchID)
	w.Header().Set(HeaderWarningCount, strconv.Itoa(len(result.Warnings)))
	w.Header().Set(HeaderWarnings, warnings)
	if truncated {
		w.Header().Set(HeaderWarningsTruncated, "true")
	}
	response.Workbook(w, result.FileName, result.Workbook)
}

// warningsHeader encodes as many leading warnings as fit in
// maxWarningsHeader bytes.
func warningsHeader(warnings []attendance.Warning) (string, bool) {
	buf := []byte{'['}
	for i, warning := range warnings {
		item, err := json.Marshal(warning)
		if err != nil {
			slog.Error("Failed to encode warnings header", "error", err)
			return string(append(buf, ']')), true
		}
		// comma and closing bracket
		if len(buf)+len(item)+2 > maxWarningsHeader {
			return string(append(buf, ']')), true
		}
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, item...)
	}
	return string(append(buf, ']')), false
}
