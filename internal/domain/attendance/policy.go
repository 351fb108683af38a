package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/utils"
)

// CanWrite decides whether p may write attendance for target. Admins write any
// date; supervisors write today or their single granted exception date.
// today is supplied by the caller and captured once per request.
func CanWrite(p user.Principal, target, today time.Time) bool {
	if p.CanWriteAnyDate() {
		return true
	}
	if utils.SameDate(target, today) {
		return true
	}
	return p.AllowedPastDate != nil && utils.SameDate(target, *p.AllowedPastDate)
}

// AllowedDates lists the dates p may write for, nil when unrestricted
func AllowedDates(p user.Principal, today time.Time) []time.Time {
	if p.CanWriteAnyDate() {
		return nil
	}
	allowed := []time.Time{utils.TruncateDate(today)}
	if p.AllowedPastDate != nil && !utils.SameDate(*p.AllowedPastDate, today) {
		allowed = append(allowed, utils.TruncateDate(*p.AllowedPastDate))
	}
	return allowed
}

// CheckWriteWindow returns a *WriteWindowDeniedError when CanWrite is false
func CheckWriteWindow(p user.Principal, target, today time.Time) error {
	if CanWrite(p, target, today) {
		return nil
	}
	return &WriteWindowDeniedError{
		Target:  utils.TruncateDate(target),
		Allowed: AllowedDates(p, today),
	}
}
