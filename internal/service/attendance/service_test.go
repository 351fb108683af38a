package attendance

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/company"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/scope"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	scopeservice "github.com/cmlabs-hris/hris-attendance-go/internal/service/scope"
	"github.com/cmlabs-hris/hris-attendance-go/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	companyA = "0190a000-0000-7000-8000-00000000000a"
	companyB = "0190a000-0000-7000-8000-00000000000b"
)

var today = time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

type fixture struct {
	svc        attendance.AttendanceService
	store      *testutil.AttendanceStore
	employees  *testutil.EmployeeStore
	empA, empB employee.Employee
}

func newEmployee(code, companyID string) employee.Employee {
	rate := decimal.NewFromInt(800)
	ot := decimal.NewFromInt(150)
	return employee.Employee{
		ID:            uuid.NewString(),
		CompanyID:     companyID,
		EmployeeCode:  code,
		FirstName:     "Emp",
		LastName:      code,
		IsActive:      true,
		DayRate:       &rate,
		OTRatePerHour: &ot,
	}
}

func setup(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		empA: newEmployee("A-001", companyA),
		empB: newEmployee("B-001", companyB),
	}
	f.employees = testutil.NewEmployeeStore(f.empA, f.empB)
	f.store = testutil.NewAttendanceStore(f.employees)
	companies := &testutil.CompanyStore{Companies: []company.Company{{ID: companyA}, {ID: companyB}}}
	f.svc = NewAttendanceService(f.store, scopeservice.NewResolver(companies, f.employees))
	return f
}

func admin() user.Principal {
	return user.Principal{ID: uuid.NewString(), Role: user.RoleAdmin}
}

func supervisor(companyIDs ...string) user.Principal {
	return user.Principal{ID: uuid.NewString(), Role: user.RoleSupervisor, CompanyIDs: companyIDs}
}

func present(employeeID string, date time.Time) attendance.Entry {
	return attendance.Entry{EmployeeID: employeeID, Date: date, Fields: attendance.Fields{Status: attendance.StatusPresent}}
}

func TestUpsert_CreateThenUpdate(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	first := supervisor(companyA)
	second := admin()

	rec, created, err := f.svc.Upsert(ctx, first, present(f.empA.ID, today), today)
	require.NoError(t, err)
	assert.True(t, created)
	assert.False(t, rec.IsEdited)
	assert.Equal(t, first.ID, rec.MarkedBy)
	assert.Nil(t, rec.EditedBy)

	entry := present(f.empA.ID, today)
	entry.Fields.Status = attendance.StatusHalfDay
	rec, created, err = f.svc.Upsert(ctx, second, entry, today)
	require.NoError(t, err)
	assert.False(t, created)
	assert.True(t, rec.IsEdited)
	assert.Equal(t, first.ID, rec.MarkedBy, "original marker is preserved")
	require.NotNil(t, rec.EditedBy)
	assert.Equal(t, second.ID, *rec.EditedBy)
	assert.Equal(t, attendance.StatusHalfDay, rec.Status)
	assert.Equal(t, 1, f.store.Len())
}

func TestUpsert_NormalizesOvertime(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	hours := decimal.NewFromInt(3)
	remark := "late shift"

	entry := present(f.empA.ID, today)
	entry.Fields.HasOvertime = false
	entry.Fields.OTHours = &hours
	entry.Fields.OTRemarks = &remark

	rec, _, err := f.svc.Upsert(ctx, admin(), entry, today)
	require.NoError(t, err)
	assert.Nil(t, rec.OTHours)
	assert.Nil(t, rec.OTRemarks)

	stored, err := f.svc.Find(ctx, admin(), f.empA.ID, today)
	require.NoError(t, err)
	assert.Nil(t, stored.OTHours)
}

func TestUpsert_RejectsNegativeHoursBeforeNormalization(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	hours := decimal.NewFromInt(-2)

	entry := present(f.empA.ID, today)
	entry.Fields.OTHours = &hours

	_, _, err := f.svc.Upsert(ctx, admin(), entry, today)
	assert.ErrorIs(t, err, attendance.ErrInvalidFieldCombination)
	assert.Equal(t, 0, f.store.Len())
}

func TestUpsert_WriteWindow(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	exception := time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC)
	sup := supervisor(companyA)
	sup.AllowedPastDate = &exception

	_, _, err := f.svc.Upsert(ctx, sup, present(f.empA.ID, exception), today)
	require.NoError(t, err)

	_, _, err = f.svc.Upsert(ctx, sup, present(f.empA.ID, time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC)), today)
	require.Error(t, err)
	assert.ErrorIs(t, err, attendance.ErrWriteWindowDenied)

	var denied *attendance.WriteWindowDeniedError
	require.True(t, errors.As(err, &denied))
	assert.Len(t, denied.Allowed, 2)
	assert.Equal(t, 1, f.store.Len())
}

func TestUpsert_ScopeErrors(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	_, _, err := f.svc.Upsert(ctx, supervisor(), present(f.empA.ID, today), today)
	assert.ErrorIs(t, err, scope.ErrScope)

	_, _, err = f.svc.Upsert(ctx, supervisor(companyA), present(f.empB.ID, today), today)
	assert.ErrorIs(t, err, scope.ErrOutOfScope)

	inactive := newEmployee("A-002", companyA)
	inactive.IsActive = false
	f.employees.Put(inactive)
	_, _, err = f.svc.Upsert(ctx, admin(), present(inactive.ID, today), today)
	assert.ErrorIs(t, err, employee.ErrEmployeeInactive)
}

func TestUpsert_RetriesDuplicateKeyConflict(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	conflicts := 2
	f.store.UpsertFn = func(ctx context.Context, rec attendance.Record) (attendance.Record, bool, error) {
		if conflicts > 0 {
			conflicts--
			return attendance.Record{}, false, attendance.ErrDuplicateKeyConflict
		}
		return f.store.UpsertDirect(ctx, rec)
	}

	_, created, err := f.svc.Upsert(ctx, admin(), present(f.empA.ID, today), today)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 3, f.store.Upserts)
}

func TestUpsert_GivesUpAfterRepeatedConflicts(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.store.UpsertFn = func(ctx context.Context, rec attendance.Record) (attendance.Record, bool, error) {
		return attendance.Record{}, false, attendance.ErrDuplicateKeyConflict
	}

	_, _, err := f.svc.Upsert(ctx, admin(), present(f.empA.ID, today), today)
	assert.ErrorIs(t, err, attendance.ErrDuplicateKeyConflict)
	assert.Equal(t, maxUpsertAttempts, f.store.Upserts)
}

func TestUpsert_ConcurrentSameKeyKeepsOneRecord(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	var wg sync.WaitGroup
	created := make(chan bool, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, c, err := f.svc.Upsert(ctx, admin(), present(f.empA.ID, today), today)
			assert.NoError(t, err)
			created <- c
		}()
	}
	wg.Wait()
	close(created)

	creates := 0
	for c := range created {
		if c {
			creates++
		}
	}
	assert.Equal(t, 1, creates)
	assert.Equal(t, 1, f.store.Len())
}

func TestBulkUpsert_OneBadEntryDoesNotBlockOthers(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	var entries []attendance.Entry
	for i := 0; i < 4; i++ {
		e := newEmployee(fmt.Sprintf("A-1%02d", i), companyA)
		f.employees.Put(e)
		entries = append(entries, present(e.ID, today))
	}
	missing := uuid.NewString()
	entries = append(entries[:2], append([]attendance.Entry{present(missing, today)}, entries[2:]...)...)

	result, err := f.svc.BulkUpsert(ctx, supervisor(companyA), entries, today)
	require.NoError(t, err)
	assert.Equal(t, 4, result.Succeeded)
	assert.Equal(t, 4, result.Created)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, 2, result.Failed[0].Index)
	assert.Equal(t, missing, result.Failed[0].EmployeeID)
	assert.ErrorIs(t, result.Failed[0], attendance.ErrBatchEntryFailed)
	assert.ErrorIs(t, result.Failed[0], employee.ErrEmployeeNotFound)
	assert.Equal(t, 4, f.store.Len())
}

func TestBulkUpsert_CountsUpdatesAndFieldErrors(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	_, _, err := f.svc.Upsert(ctx, admin(), present(f.empA.ID, today), today)
	require.NoError(t, err)

	bad := present(f.empB.ID, today)
	bad.Fields.Status = "LATE"

	result, err := f.svc.BulkUpsert(ctx, admin(), []attendance.Entry{present(f.empA.ID, today), bad, {EmployeeID: "", Date: today, Fields: attendance.Fields{Status: attendance.StatusAbsent}}}, today)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 1, result.Updated)
	require.Len(t, result.Failed, 2)
	assert.ErrorIs(t, result.Failed[0], attendance.ErrInvalidStatus)
	assert.ErrorIs(t, result.Failed[1], employee.ErrEmployeeNotFound)
}

func TestBulkUpsert_WindowDenialRejectsWholeBatch(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	yesterday := today.AddDate(0, 0, -1)

	_, err := f.svc.BulkUpsert(ctx, supervisor(companyA), []attendance.Entry{
		present(f.empA.ID, today),
		present(f.empA.ID, yesterday),
	}, today)
	assert.ErrorIs(t, err, attendance.ErrWriteWindowDenied)
	assert.Equal(t, 0, f.store.Len())
}

func TestBulkUpsert_Empty(t *testing.T) {
	f := setup(t)
	_, err := f.svc.BulkUpsert(context.Background(), admin(), nil, today)
	assert.ErrorIs(t, err, attendance.ErrEmptyBatch)
}

func TestFind(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	_, err := f.svc.Find(ctx, admin(), f.empA.ID, today)
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)

	_, _, err = f.svc.Upsert(ctx, admin(), present(f.empB.ID, today), today)
	require.NoError(t, err)

	rec, err := f.svc.Find(ctx, admin(), f.empB.ID, today)
	require.NoError(t, err)
	assert.Equal(t, "B-001", rec.Employee.EmployeeCode)

	_, err = f.svc.Find(ctx, supervisor(companyA), f.empB.ID, today)
	assert.ErrorIs(t, err, scope.ErrOutOfScope)
}

func TestFindByDateRange_ScopedAndOrdered(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	a2 := newEmployee("A-000", companyA)
	f.employees.Put(a2)

	for _, d := range []time.Time{today, today.AddDate(0, 0, -1)} {
		for _, id := range []string{f.empA.ID, a2.ID, f.empB.ID} {
			_, _, err := f.svc.Upsert(ctx, admin(), present(id, d), today)
			require.NoError(t, err)
		}
	}

	all, err := f.svc.FindByDateRange(ctx, admin(), attendance.RangeFilter{From: today.AddDate(0, 0, -7), To: today})
	require.NoError(t, err)
	require.Len(t, all, 6)
	assert.Equal(t, today, all[0].Date)
	assert.Equal(t, "A-000", all[0].Employee.EmployeeCode)
	assert.Equal(t, "A-001", all[1].Employee.EmployeeCode)
	assert.Equal(t, today.AddDate(0, 0, -1), all[5].Date)

	scoped, err := f.svc.FindByDateRange(ctx, supervisor(companyA), attendance.RangeFilter{From: today.AddDate(0, 0, -7), To: today})
	require.NoError(t, err)
	assert.Len(t, scoped, 4)
	for _, rec := range scoped {
		assert.Equal(t, companyA, rec.Employee.CompanyID)
	}

	companyFilter := companyB
	_, err = f.svc.FindByDateRange(ctx, supervisor(companyA), attendance.RangeFilter{From: today, To: today, CompanyID: &companyFilter})
	assert.ErrorIs(t, err, scope.ErrOutOfScope)
}

func TestDailySummary(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	hours := decimal.NewFromInt(2)

	half := present(f.empA.ID, today)
	half.Fields.Status = attendance.StatusHalfDay
	half.Fields.HasOvertime = true
	half.Fields.OTHours = &hours
	_, _, err := f.svc.Upsert(ctx, admin(), half, today)
	require.NoError(t, err)

	summary, err := f.svc.DailySummary(ctx, admin(), today)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.ActiveEmployees)
	assert.Equal(t, 1, summary.Marked)
	assert.Equal(t, 1, summary.Unmarked)
	assert.Equal(t, 1, summary.Present, "half days count as present")
	assert.Equal(t, 1, summary.HalfDay)
	assert.Equal(t, 1, summary.Overtime)

	scoped, err := f.svc.DailySummary(ctx, supervisor(companyB), today)
	require.NoError(t, err)
	assert.Equal(t, 1, scoped.ActiveEmployees)
	assert.Equal(t, 0, scoped.Marked)
}
