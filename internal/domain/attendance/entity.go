package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPresent Status = "PRESENT"
	StatusAbsent  Status = "ABSENT"
	StatusHalfDay Status = "HALF_DAY"
)

// MaxOTHours bounds the overtime a single day can carry
var MaxOTHours = decimal.NewFromInt(24)

func (s Status) IsValid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusHalfDay:
		return true
	}
	return false
}

// Label is the human readable status used in exports
func (s Status) Label() string {
	switch s {
	case StatusPresent:
		return "Present"
	case StatusAbsent:
		return "Absent"
	case StatusHalfDay:
		return "Half Day"
	}
	return string(s)
}

// Fields is the caller-supplied part of an attendance record
type Fields struct {
	Status      Status
	HasOvertime bool
	OTHours     *decimal.Decimal
	OTRemarks   *string
	Remarks     *string
}

// Validate rejects values that no normalization can repair
func (f Fields) Validate() error {
	if !f.Status.IsValid() {
		return ErrInvalidStatus
	}
	if f.OTHours != nil {
		if f.OTHours.IsNegative() {
			return fmtFieldError("ot hours cannot be negative")
		}
		if f.OTHours.GreaterThan(MaxOTHours) {
			return fmtFieldError("ot hours cannot exceed 24")
		}
	}
	return nil
}

// Normalize clears overtime details when the day carries no overtime
func (f Fields) Normalize() Fields {
	if !f.HasOvertime {
		f.OTHours = nil
		f.OTRemarks = nil
	}
	return f
}

// Record is one attendance entry, unique per (EmployeeID, Date).
// Date is a calendar date at UTC midnight.
type Record struct {
	ID         string
	EmployeeID string
	Date       time.Time
	Fields
	MarkedBy string
	MarkedAt time.Time
	IsEdited bool
	EditedBy *string
	EditedAt *time.Time

	// Join
	Employee     employee.Employee
	MarkedByName string
}

// Entry is a single write request against the ledger
type Entry struct {
	EmployeeID string
	Date       time.Time
	Fields     Fields
}

// RangeFilter selects records between two dates, inclusive
type RangeFilter struct {
	From time.Time
	To   time.Time
	// CompanyIDs restricts to these companies; nil means all
	CompanyIDs []string
	// CompanyID is a caller-requested narrowing, intersected with the scope
	CompanyID  *string
	EmployeeID *string
	Status     *Status
	// ActiveEmployeesOnly hides records of deactivated employees
	ActiveEmployeesOnly bool
}

// DailyCounts tallies the records of one date
type DailyCounts struct {
	Total    int
	Present  int
	HalfDay  int
	Absent   int
	Overtime int
}

// DailySummary is the dashboard view of one date.
// Present includes half days.
type DailySummary struct {
	Date            time.Time
	ActiveEmployees int
	Marked          int
	Unmarked        int
	Present         int
	HalfDay         int
	Absent          int
	Overtime        int
}
