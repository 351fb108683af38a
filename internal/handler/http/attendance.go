package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

// Clock returns the current calendar date in the business timezone
type Clock func() time.Time

type AttendanceHandler interface {
	Upsert(w http.ResponseWriter, r *http.Request)
	BulkUpsert(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	today             Clock
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService, today Clock) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		today:             today,
	}
}

// Upsert implements AttendanceHandler.
func (h *attendanceHandlerImpl) Upsert(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req attendance.UpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode upsert request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	record, created, err := h.attendanceService.Upsert(r.Context(), principal, req.ToEntry(), h.today())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	resp := attendance.UpsertResponse{Created: created, Record: attendance.NewRecordResponse(record)}
	if created {
		response.Created(w, "Attendance marked", resp)
		return
	}
	response.SuccessWithMessage(w, "Attendance updated", resp)
}

// BulkUpsert implements AttendanceHandler.
func (h *attendanceHandlerImpl) BulkUpsert(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req attendance.BulkUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode bulk upsert request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.BulkUpsert(r.Context(), principal, req.ToEntries(), h.today())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance saved", attendance.NewBulkUpsertResponse(result))
}

// Get implements AttendanceHandler.
func (h *attendanceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	employeeID := chi.URLParam(r, "employeeID")
	if !validator.IsValidUUID(employeeID) {
		response.BadRequest(w, "Invalid employee ID", nil)
		return
	}
	date, ok := validator.IsValidDate(chi.URLParam(r, "date"))
	if !ok {
		response.BadRequest(w, "date must be in YYYY-MM-DD format", nil)
		return
	}

	record, err := h.attendanceService.Find(r.Context(), principal, employeeID, date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, attendance.NewRecordResponse(record))
}

// List implements AttendanceHandler. The requested range is clamped to the
// same window reports use.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	query := r.URL.Query()
	req := attendance.ListRequest{
		From:       query.Get("from"),
		To:         query.Get("to"),
		EmployeeID: query.Get("employee_id"),
		CompanyID:  query.Get("company_id"),
		Status:     query.Get("status"),
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	from, _ := validator.ParseOptionalDate(req.From)
	to, _ := validator.ParseOptionalDate(req.To)
	window := report.ClampWindow(from, to, h.today())

	filter := attendance.RangeFilter{From: window.From, To: window.To}
	if !validator.IsEmpty(req.EmployeeID) {
		filter.EmployeeID = &req.EmployeeID
	}
	if !validator.IsEmpty(req.CompanyID) {
		filter.CompanyID = &req.CompanyID
	}
	if !validator.IsEmpty(req.Status) {
		status := attendance.Status(req.Status)
		filter.Status = &status
	}

	records, err := h.attendanceService.FindByDateRange(r.Context(), principal, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	data := make([]attendance.RecordResponse, 0, len(records))
	for _, rec := range records {
		data = append(data, attendance.NewRecordResponse(rec))
	}

	response.SuccessWithMeta(w, data, &response.Meta{
		TotalItems: int64(len(records)),
		From:       window.From.Format(validator.DateLayout),
		To:         window.To.Format(validator.DateLayout),
		Clamped:    window.Clamped,
	})
}

// Summary implements AttendanceHandler.
func (h *attendanceHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	date := h.today()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, ok := validator.IsValidDate(raw)
		if !ok {
			response.HandleError(w, validator.ValidationErrors{{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			}})
			return
		}
		date = parsed
	}

	summary, err := h.attendanceService.DailySummary(r.Context(), principal, date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, attendance.NewDailySummaryResponse(summary))
}
