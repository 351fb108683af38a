package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/company"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/scope"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// The typed error carries the allowed dates in its message
	var windowErr *attendance.WriteWindowDeniedError
	if errors.As(err, &windowErr) {
		Forbidden(w, windowErr.Error())
		return
	}

	switch {
	// Scope errors
	case errors.Is(err, scope.ErrScope):
		Forbidden(w, "No companies are assigned to this account")
	case errors.Is(err, scope.ErrOutOfScope):
		Forbidden(w, "Target is outside your scope")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrWriteWindowDenied):
		Forbidden(w, err.Error())
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrInvalidFieldCombination),
		errors.Is(err, attendance.ErrInvalidStatus):
		UnprocessableEntity(w, err.Error())
	case errors.Is(err, attendance.ErrEmptyBatch):
		UnprocessableEntity(w, "Batch contains no entries")
	case errors.Is(err, attendance.ErrDuplicateKeyConflict):
		Conflict(w, "Attendance was modified concurrently, please retry")

	// Employee and company errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeInactive):
		UnprocessableEntity(w, "Employee is inactive")
	case errors.Is(err, company.ErrCompanyNotFound):
		NotFound(w, "Company not found")

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, "Insufficient permissions")
	case errors.Is(err, user.ErrTargetNotSupervisor):
		Forbidden(w, err.Error())
	case errors.Is(err, user.ErrPastDateInFuture),
		errors.Is(err, user.ErrPastDateTooOld):
		UnprocessableEntity(w, err.Error())
	case errors.Is(err, user.ErrUsernameExists):
		Conflict(w, "Username already registered")

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
