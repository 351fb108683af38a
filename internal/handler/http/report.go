package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type ReportHandler interface {
	// Attendance report with payroll figures
	GetAttendanceReport(w http.ResponseWriter, r *http.Request)

	// Downloads
	ExportCSV(w http.ResponseWriter, r *http.Request)
	ExportXLSX(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService  report.ReportService
	exporter       report.Exporter
	filenamePrefix string
	today          Clock
}

func NewReportHandler(reportService report.ReportService, exporter report.Exporter, filenamePrefix string, today Clock) ReportHandler {
	return &reportHandlerImpl{
		reportService:  reportService,
		exporter:       exporter,
		filenamePrefix: filenamePrefix,
		today:          today,
	}
}

// GetAttendanceReport handles GET /reports/attendance
func (h *reportHandlerImpl) GetAttendanceReport(w http.ResponseWriter, r *http.Request) {
	result, ok := h.aggregate(w, r)
	if !ok {
		return
	}
	response.Success(w, report.NewReportResponse(result))
}

// ExportCSV handles GET /reports/attendance/export.csv
func (h *reportHandlerImpl) ExportCSV(w http.ResponseWriter, r *http.Request) {
	result, ok := h.aggregate(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.exporter.WriteCSV(&buf, result); err != nil {
		slog.Error("Failed to render CSV report", "error", err)
		response.InternalServerError(w, "Failed to render report")
		return
	}
	h.download(w, contentTypeCSV, h.filename(result, "csv"), buf.Bytes())
}

// ExportXLSX handles GET /reports/attendance/export.xlsx
func (h *reportHandlerImpl) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	result, ok := h.aggregate(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.exporter.WriteXLSX(&buf, result); err != nil {
		slog.Error("Failed to render XLSX report", "error", err)
		response.InternalServerError(w, "Failed to render report")
		return
	}
	h.download(w, contentTypeXLSX, h.filename(result, "xlsx"), buf.Bytes())
}

func (h *reportHandlerImpl) aggregate(w http.ResponseWriter, r *http.Request) (report.Report, bool) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return report.Report{}, false
	}

	query := r.URL.Query()
	q := report.Query{
		From:       query.Get("from"),
		To:         query.Get("to"),
		CompanyID:  query.Get("company_id"),
		EmployeeID: query.Get("employee_id"),
		Status:     query.Get("status"),
		Sort:       query.Get("sort"),
	}
	if err := q.Validate(); err != nil {
		response.HandleError(w, err)
		return report.Report{}, false
	}

	result, err := h.reportService.Aggregate(r.Context(), principal, q.ToRequest(), h.today())
	if err != nil {
		response.HandleError(w, err)
		return report.Report{}, false
	}
	return result, true
}

func (h *reportHandlerImpl) filename(r report.Report, ext string) string {
	return fmt.Sprintf("%s_%s_%s.%s", h.filenamePrefix,
		r.Window.From.Format(validator.DateLayout), r.Window.To.Format(validator.DateLayout), ext)
}

func (h *reportHandlerImpl) download(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		slog.Error("Failed to write report download", "error", err)
	}
}
