package report

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/company"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/scope"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	attendanceservice "github.com/cmlabs-hris/hris-attendance-go/internal/service/attendance"
	scopeservice "github.com/cmlabs-hris/hris-attendance-go/internal/service/scope"
	"github.com/cmlabs-hris/hris-attendance-go/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	companyA = "0190a000-0000-7000-8000-00000000000a"
	companyB = "0190a000-0000-7000-8000-00000000000b"
)

var today = time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func day(d int) time.Time {
	return time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC)
}

type fixture struct {
	reports    report.ReportService
	ledger     attendance.AttendanceService
	employees  *testutil.EmployeeStore
	ravi, asha employee.Employee
	bolt       employee.Employee
}

func setup(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		ravi: employee.Employee{ID: "0190a000-0000-7000-8000-000000000001", CompanyID: companyA, CompanyName: "Acme", EmployeeCode: "E002", FirstName: "Ravi", LastName: "Kumar", IsActive: true, DayRate: dec("800"), OTRatePerHour: dec("150")},
		asha: employee.Employee{ID: "0190a000-0000-7000-8000-000000000002", CompanyID: companyA, CompanyName: "Acme", EmployeeCode: "E001", FirstName: "Asha", LastName: "Rao", IsActive: true, DayRate: dec("600")},
		bolt: employee.Employee{ID: "0190a000-0000-7000-8000-000000000003", CompanyID: companyB, CompanyName: "Bolt", EmployeeCode: "E003", FirstName: "Zed", LastName: "Bolt", IsActive: true, DayRate: dec("500"), OTRatePerHour: dec("100")},
	}
	f.employees = testutil.NewEmployeeStore(f.ravi, f.asha, f.bolt)
	companies := &testutil.CompanyStore{Companies: []company.Company{{ID: companyA, Name: "Acme"}, {ID: companyB, Name: "Bolt"}}}
	resolver := scopeservice.NewResolver(companies, f.employees)
	f.ledger = attendanceservice.NewAttendanceService(testutil.NewAttendanceStore(f.employees), resolver)
	f.reports = NewReportService(f.ledger, resolver)
	return f
}

func (f *fixture) mark(t *testing.T, emp employee.Employee, date time.Time, status attendance.Status, otHours *decimal.Decimal) {
	t.Helper()
	_, _, err := f.ledger.Upsert(context.Background(), user.Principal{ID: "admin", Role: user.RoleSuperAdmin}, attendance.Entry{
		EmployeeID: emp.ID,
		Date:       date,
		Fields:     attendance.Fields{Status: status, HasOvertime: otHours != nil, OTHours: otHours},
	}, today)
	require.NoError(t, err)
}

func superAdmin() user.Principal {
	return user.Principal{ID: "root", Role: user.RoleSuperAdmin}
}

func TestAggregate_RollsUpRecords(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.mark(t, f.ravi, day(3), attendance.StatusPresent, dec("2"))
	f.mark(t, f.ravi, day(4), attendance.StatusHalfDay, nil)
	f.mark(t, f.ravi, day(5), attendance.StatusAbsent, dec("2"))
	f.mark(t, f.asha, day(4), attendance.StatusPresent, nil)

	from := day(1)
	r, err := f.reports.Aggregate(ctx, superAdmin(), report.Request{From: &from}, today)
	require.NoError(t, err)

	require.Len(t, r.Records, 4)
	assert.Equal(t, "E001", r.Records[0].Record.Employee.EmployeeCode)
	assert.Equal(t, day(3), r.Records[1].Record.Date, "records ascend by date within an employee")
	assert.Equal(t, day(5), r.Records[3].Record.Date)
	assert.Equal(t, "1100", r.Records[1].Total.String())
	assert.Equal(t, "400", r.Records[2].Total.String())
	assert.Equal(t, "300", r.Records[3].Total.String())

	require.Len(t, r.Employees, 3, "every visible employee gets a summary row")
	assert.Equal(t, "E001", r.Employees[0].Employee.EmployeeCode)
	ravi := r.Employees[1]
	assert.Equal(t, "E002", ravi.Employee.EmployeeCode)
	assert.Equal(t, 1, ravi.Present)
	assert.Equal(t, 1, ravi.HalfDay)
	assert.Equal(t, 1, ravi.Absent)
	assert.Equal(t, 2, ravi.OvertimeDays)
	assert.True(t, ravi.OTHours.Equal(decimal.NewFromInt(4)))
	assert.True(t, ravi.DayWage.Equal(decimal.NewFromInt(1200)))
	assert.True(t, ravi.OTAmount.Equal(decimal.NewFromInt(600)))
	assert.True(t, ravi.Total.Equal(decimal.NewFromInt(1800)))

	bolt := r.Employees[2]
	assert.Equal(t, 0, bolt.Present)
	assert.True(t, bolt.Total.IsZero())

	assert.Equal(t, 4, r.Totals.Records)
	assert.Equal(t, 3, r.Totals.Employees)
	assert.True(t, r.Totals.Total.Equal(decimal.NewFromInt(2400)))
	assert.True(t, r.Totals.Total.Equal(r.Totals.DayWage.Add(r.Totals.OTAmount)))
}

func TestAggregate_ClampsWindow(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.mark(t, f.asha, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), attendance.StatusPresent, nil)
	f.mark(t, f.asha, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), attendance.StatusPresent, nil)

	from := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
	r, err := f.reports.Aggregate(ctx, superAdmin(), report.Request{From: &from, To: &to}, today)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), r.Window.From)
	assert.Equal(t, today, r.Window.To)
	assert.True(t, r.Window.Clamped)
	require.Len(t, r.Records, 1)
	assert.Equal(t, r.Window.From, r.Records[0].Record.Date)
}

func TestAggregate_Scope(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.mark(t, f.ravi, day(3), attendance.StatusPresent, nil)
	f.mark(t, f.bolt, day(3), attendance.StatusPresent, nil)

	adminA := user.Principal{ID: "a", Role: user.RoleAdmin, CompanyIDs: []string{companyA}}
	r, err := f.reports.Aggregate(ctx, adminA, report.Request{}, today)
	require.NoError(t, err)
	for _, row := range r.Records {
		assert.Equal(t, companyA, row.Record.Employee.CompanyID)
	}
	for _, s := range r.Employees {
		assert.NotEqual(t, f.bolt.ID, s.Employee.ID)
	}

	other := companyB
	_, err = f.reports.Aggregate(ctx, adminA, report.Request{Filters: report.Filters{CompanyID: &other}}, today)
	assert.ErrorIs(t, err, scope.ErrOutOfScope)

	_, err = f.reports.Aggregate(ctx, user.Principal{ID: "s", Role: user.RoleSupervisor}, report.Request{}, today)
	assert.ErrorIs(t, err, scope.ErrScope)
}

func TestAggregate_FiltersAndSort(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.mark(t, f.ravi, day(3), attendance.StatusPresent, nil)
	f.mark(t, f.ravi, day(4), attendance.StatusAbsent, nil)

	status := attendance.StatusAbsent
	r, err := f.reports.Aggregate(ctx, superAdmin(), report.Request{Filters: report.Filters{Status: &status}}, today)
	require.NoError(t, err)
	require.Len(t, r.Records, 1)
	assert.Equal(t, attendance.StatusAbsent, r.Records[0].Record.Status)

	byName, err := f.reports.Aggregate(ctx, superAdmin(), report.Request{Filters: report.Filters{Sort: report.SortByEmployeeName}}, today)
	require.NoError(t, err)
	require.Len(t, byName.Employees, 3)
	assert.Equal(t, "Asha Rao", byName.Employees[0].Employee.FullName())
	assert.Equal(t, "Ravi Kumar", byName.Employees[1].Employee.FullName())
	assert.Equal(t, "Zed Bolt", byName.Employees[2].Employee.FullName())

	id := f.asha.ID
	one, err := f.reports.Aggregate(ctx, superAdmin(), report.Request{Filters: report.Filters{EmployeeID: &id}}, today)
	require.NoError(t, err)
	require.Len(t, one.Employees, 1)
	assert.Empty(t, one.Records)
}

func TestAggregate_KeepsDeactivatedEmployeesWithRecords(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.mark(t, f.ravi, day(3), attendance.StatusPresent, nil)

	gone := f.ravi
	gone.IsActive = false
	f.employees.Put(gone)

	r, err := f.reports.Aggregate(ctx, superAdmin(), report.Request{}, today)
	require.NoError(t, err)
	require.Len(t, r.Records, 1)
	assert.Len(t, r.Employees, 3)
}

func TestAggregate_UsesCurrentRates(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.mark(t, f.asha, day(3), attendance.StatusPresent, nil)

	raised := f.asha
	raised.DayRate = dec("650")
	f.employees.Put(raised)

	r, err := f.reports.Aggregate(ctx, superAdmin(), report.Request{}, today)
	require.NoError(t, err)
	require.Len(t, r.Records, 1)
	assert.Equal(t, "650", r.Records[0].DayWage.String())
}
