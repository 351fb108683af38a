package attendance

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrAttendanceNotFound      = errors.New("attendance record not found")
	ErrInvalidStatus           = errors.New("status must be PRESENT, ABSENT or HALF_DAY")
	ErrInvalidFieldCombination = errors.New("invalid attendance field combination")
	ErrWriteWindowDenied       = errors.New("date is outside the write window")
	ErrDuplicateKeyConflict    = errors.New("concurrent write on the same employee and date")
	ErrBatchEntryFailed        = errors.New("batch entry failed")
	ErrEmptyBatch              = errors.New("batch contains no entries")
)

func fmtFieldError(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidFieldCombination, msg)
}

// WriteWindowDeniedError names the dates the principal may write for.
type WriteWindowDeniedError struct {
	Target  time.Time
	Allowed []time.Time
}

func (e *WriteWindowDeniedError) Error() string {
	dates := make([]string, len(e.Allowed))
	for i, d := range e.Allowed {
		dates[i] = d.Format("2006-01-02")
	}
	return fmt.Sprintf("attendance for %s cannot be marked; allowed dates: %s",
		e.Target.Format("2006-01-02"), strings.Join(dates, ", "))
}

func (e *WriteWindowDeniedError) Is(target error) bool {
	return target == ErrWriteWindowDenied
}

// BatchEntryFailure records why one entry of a bulk upsert was rejected.
type BatchEntryFailure struct {
	Index      int
	EmployeeID string
	Date       time.Time
	Err        error
}

func (e *BatchEntryFailure) Error() string {
	return fmt.Sprintf("entry %d (employee %s, %s): %v",
		e.Index, e.EmployeeID, e.Date.Format("2006-01-02"), e.Err)
}

func (e *BatchEntryFailure) Unwrap() []error {
	return []error{ErrBatchEntryFailed, e.Err}
}
