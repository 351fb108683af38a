package report

import (
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========================================
// ATTENDANCE REPORT
// ========================================

// Query holds the raw query string of a report request
type Query struct {
	From       string
	To         string
	CompanyID  string
	EmployeeID string
	Status     string
	Sort       string
}

func (q *Query) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.ParseOptionalDate(q.From); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "from",
			Message: "from must be in YYYY-MM-DD format",
		})
	}
	if _, ok := validator.ParseOptionalDate(q.To); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "to",
			Message: "to must be in YYYY-MM-DD format",
		})
	}
	if !validator.IsEmpty(q.CompanyID) && !validator.IsValidUUID(q.CompanyID) {
		errs = append(errs, validator.ValidationError{
			Field:   "company_id",
			Message: "company_id must be a valid UUID",
		})
	}
	if !validator.IsEmpty(q.EmployeeID) && !validator.IsValidUUID(q.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}
	if !validator.IsEmpty(q.Status) && !attendance.Status(q.Status).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be PRESENT, ABSENT or HALF_DAY",
		})
	}
	if !validator.IsEmpty(q.Sort) && !validator.IsInSlice(q.Sort, []string{string(SortByEmployeeCode), string(SortByEmployeeName)}) {
		errs = append(errs, validator.ValidationError{
			Field:   "sort",
			Message: ErrUnsupportedSort.Error(),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToRequest converts a validated query
func (q *Query) ToRequest() Request {
	from, _ := validator.ParseOptionalDate(q.From)
	to, _ := validator.ParseOptionalDate(q.To)

	req := Request{From: from, To: to, Filters: Filters{Sort: SortByEmployeeCode}}
	if !validator.IsEmpty(q.CompanyID) {
		id := q.CompanyID
		req.Filters.CompanyID = &id
	}
	if !validator.IsEmpty(q.EmployeeID) {
		id := q.EmployeeID
		req.Filters.EmployeeID = &id
	}
	if !validator.IsEmpty(q.Status) {
		status := attendance.Status(q.Status)
		req.Filters.Status = &status
	}
	if !validator.IsEmpty(q.Sort) {
		req.Filters.Sort = SortKey(q.Sort)
	}
	return req
}

type RecordRowResponse struct {
	attendance.RecordResponse
	DayRate  string `json:"day_rate"`
	OTRate   string `json:"ot_rate"`
	DayWage  string `json:"day_wage"`
	OTAmount string `json:"ot_amount"`
	Total    string `json:"total"`
}

type EmployeeSummaryResponse struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeCode string `json:"employee_code"`
	EmployeeName string `json:"employee_name"`
	CompanyName  string `json:"company_name"`
	Present      int    `json:"present"`
	Absent       int    `json:"absent"`
	HalfDay      int    `json:"half_day"`
	OvertimeDays int    `json:"overtime_days"`
	OTHours      string `json:"ot_hours"`
	DayWage      string `json:"day_wage"`
	OTAmount     string `json:"ot_amount"`
	Total        string `json:"total"`
}

type TotalsResponse struct {
	Employees    int    `json:"employees"`
	Records      int    `json:"records"`
	Present      int    `json:"present"`
	Absent       int    `json:"absent"`
	HalfDay      int    `json:"half_day"`
	OvertimeDays int    `json:"overtime_days"`
	OTHours      string `json:"ot_hours"`
	DayWage      string `json:"day_wage"`
	OTAmount     string `json:"ot_amount"`
	Total        string `json:"total"`
}

type ReportResponse struct {
	From      string                    `json:"from"`
	To        string                    `json:"to"`
	Clamped   bool                      `json:"clamped"`
	Records   []RecordRowResponse       `json:"records"`
	Employees []EmployeeSummaryResponse `json:"employees"`
	Totals    TotalsResponse            `json:"totals"`
}

// Money formats an amount with two decimals
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Rate formats an optional rate, zero when unset
func Rate(d *decimal.Decimal) string {
	if d == nil {
		return decimal.Zero.StringFixed(2)
	}
	return d.StringFixed(2)
}

func NewReportResponse(r Report) ReportResponse {
	resp := ReportResponse{
		From:      r.Window.From.Format(validator.DateLayout),
		To:        r.Window.To.Format(validator.DateLayout),
		Clamped:   r.Window.Clamped,
		Records:   make([]RecordRowResponse, 0, len(r.Records)),
		Employees: make([]EmployeeSummaryResponse, 0, len(r.Employees)),
		Totals: TotalsResponse{
			Employees:    r.Totals.Employees,
			Records:      r.Totals.Records,
			Present:      r.Totals.Present,
			Absent:       r.Totals.Absent,
			HalfDay:      r.Totals.HalfDay,
			OvertimeDays: r.Totals.OvertimeDays,
			OTHours:      r.Totals.OTHours.StringFixed(2),
			DayWage:      Money(r.Totals.DayWage),
			OTAmount:     Money(r.Totals.OTAmount),
			Total:        Money(r.Totals.Total),
		},
	}
	for _, row := range r.Records {
		resp.Records = append(resp.Records, RecordRowResponse{
			RecordResponse: attendance.NewRecordResponse(row.Record),
			DayRate:        Rate(row.Record.Employee.DayRate),
			OTRate:         Rate(row.Record.Employee.OTRatePerHour),
			DayWage:        Money(row.DayWage),
			OTAmount:       Money(row.OTAmount),
			Total:          Money(row.Total),
		})
	}
	for _, s := range r.Employees {
		resp.Employees = append(resp.Employees, EmployeeSummaryResponse{
			EmployeeID:   s.Employee.ID,
			EmployeeCode: s.Employee.EmployeeCode,
			EmployeeName: s.Employee.FullName(),
			CompanyName:  s.Employee.CompanyName,
			Present:      s.Present,
			Absent:       s.Absent,
			HalfDay:      s.HalfDay,
			OvertimeDays: s.OvertimeDays,
			OTHours:      s.OTHours.StringFixed(2),
			DayWage:      Money(s.DayWage),
			OTAmount:     Money(s.OTAmount),
			Total:        Money(s.Total),
		})
	}
	return resp
}
