package report

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/scope"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

type ReportServiceImpl struct {
	attendanceService attendance.AttendanceService
	resolver          scope.Resolver
}

// Aggregate implements report.ReportService.
func (s *ReportServiceImpl) Aggregate(ctx context.Context, actor user.Principal, req report.Request, today time.Time) (report.Report, error) {
	sc, err := scope.Resolve(actor)
	if err != nil {
		return report.Report{}, err
	}
	if req.Filters.CompanyID != nil {
		if _, err := sc.Narrow(*req.Filters.CompanyID); err != nil {
			return report.Report{}, err
		}
	}

	window := report.ClampWindow(req.From, req.To, today)
	out := report.Report{Window: window}

	var (
		records []attendance.Record
		roster  []employee.Employee
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = s.attendanceService.FindByDateRange(gctx, actor, attendance.RangeFilter{
			From:       window.From,
			To:         window.To,
			CompanyID:  req.Filters.CompanyID,
			EmployeeID: req.Filters.EmployeeID,
			Status:     req.Filters.Status,
		})
		return err
	})
	g.Go(func() error {
		var err error
		roster, err = s.resolver.Roster(gctx, actor)
		if err != nil {
			return fmt.Errorf("failed to load roster: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return report.Report{}, err
	}

	summaries := make(map[string]*report.EmployeeSummary)
	for _, emp := range roster {
		if matchesEmployee(emp, req.Filters) {
			summaries[emp.ID] = &report.EmployeeSummary{Employee: emp}
		}
	}

	out.Records = make([]report.RecordRow, 0, len(records))
	for _, rec := range records {
		row := report.RecordRow{Record: rec, Breakdown: payroll.Calculate(rec, rec.Employee)}
		out.Records = append(out.Records, row)

		summary, ok := summaries[rec.EmployeeID]
		if !ok {
			// employee no longer on the active roster but has records in the window
			summary = &report.EmployeeSummary{Employee: rec.Employee}
			summaries[rec.EmployeeID] = summary
		}
		summary.Add(row)
	}

	slices.SortStableFunc(out.Records, func(a, b report.RecordRow) int {
		if c := cmp.Compare(a.Record.Employee.EmployeeCode, b.Record.Employee.EmployeeCode); c != 0 {
			return c
		}
		return a.Record.Date.Compare(b.Record.Date)
	})

	out.Employees = make([]report.EmployeeSummary, 0, len(summaries))
	for _, summary := range summaries {
		out.Employees = append(out.Employees, *summary)
	}
	slices.SortFunc(out.Employees, employeeOrder(req.Filters.Sort))

	out.Totals = totals(out.Employees, len(out.Records))
	metrics.ReportsGenerated.WithLabelValues("json").Inc()
	return out, nil
}

// matchesEmployee applies the report filters to a roster entry. Status only
// narrows records, so every employee passing the other filters gets a row.
func matchesEmployee(emp employee.Employee, f report.Filters) bool {
	if f.CompanyID != nil && emp.CompanyID != *f.CompanyID {
		return false
	}
	if f.EmployeeID != nil && emp.ID != *f.EmployeeID {
		return false
	}
	return true
}

func employeeOrder(key report.SortKey) func(a, b report.EmployeeSummary) int {
	if key == report.SortByEmployeeName {
		return func(a, b report.EmployeeSummary) int {
			if c := cmp.Compare(a.Employee.FullName(), b.Employee.FullName()); c != 0 {
				return c
			}
			return cmp.Compare(a.Employee.EmployeeCode, b.Employee.EmployeeCode)
		}
	}
	return func(a, b report.EmployeeSummary) int {
		if c := cmp.Compare(a.Employee.EmployeeCode, b.Employee.EmployeeCode); c != 0 {
			return c
		}
		return cmp.Compare(a.Employee.ID, b.Employee.ID)
	}
}

// totals sums the per-employee rollups
func totals(summaries []report.EmployeeSummary, records int) report.Totals {
	t := report.Totals{Employees: len(summaries), Records: records}
	for _, s := range summaries {
		t.Present += s.Present
		t.Absent += s.Absent
		t.HalfDay += s.HalfDay
		t.OvertimeDays += s.OvertimeDays
		t.OTHours = t.OTHours.Add(s.OTHours)
		t.DayWage = t.DayWage.Add(s.DayWage)
		t.OTAmount = t.OTAmount.Add(s.OTAmount)
		t.Total = t.Total.Add(s.Total)
	}
	return t
}

func NewReportService(attendanceService attendance.AttendanceService, resolver scope.Resolver) report.ReportService {
	return &ReportServiceImpl{
		attendanceService: attendanceService,
		resolver:          resolver,
	}
}
