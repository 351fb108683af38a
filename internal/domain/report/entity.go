package report

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

type SortKey string

const (
	SortByEmployeeCode SortKey = "employee_code"
	SortByEmployeeName SortKey = "employee_name"
)

type Filters struct {
	CompanyID  *string
	EmployeeID *string
	Status     *attendance.Status
	Sort       SortKey
}

// Request asks for a report over a possibly open date range
type Request struct {
	From    *time.Time
	To      *time.Time
	Filters Filters
}

// RecordRow is a record with its pay attached
type RecordRow struct {
	Record attendance.Record
	payroll.Breakdown
}

type EmployeeSummary struct {
	Employee     employee.Employee
	Present      int
	Absent       int
	HalfDay      int
	OvertimeDays int
	OTHours      decimal.Decimal
	DayWage      decimal.Decimal
	OTAmount     decimal.Decimal
	Total        decimal.Decimal
}

// Add folds one row into the summary
func (s *EmployeeSummary) Add(row RecordRow) {
	switch row.Record.Status {
	case attendance.StatusPresent:
		s.Present++
	case attendance.StatusAbsent:
		s.Absent++
	case attendance.StatusHalfDay:
		s.HalfDay++
	}
	if row.Record.HasOvertime {
		s.OvertimeDays++
		if row.Record.OTHours != nil {
			s.OTHours = s.OTHours.Add(*row.Record.OTHours)
		}
	}
	s.DayWage = s.DayWage.Add(row.DayWage)
	s.OTAmount = s.OTAmount.Add(row.OTAmount)
	s.Total = s.Total.Add(row.Total)
}

type Totals struct {
	Employees    int
	Records      int
	Present      int
	Absent       int
	HalfDay      int
	OvertimeDays int
	OTHours      decimal.Decimal
	DayWage      decimal.Decimal
	OTAmount     decimal.Decimal
	Total        decimal.Decimal
}

// Report is the aggregated view. Records are ordered by employee code then
// date ascending; Employees by the requested sort key.
type Report struct {
	Window    Window
	Records   []RecordRow
	Employees []EmployeeSummary
	Totals    Totals
}
