// Package testutil holds in-memory repositories for service tests.
// Each store honours the contract of its postgresql counterpart; the Fn hooks
// override a method when a test needs to inject a failure.
package testutil

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/company"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/utils"
)

// ========================================
// COMPANIES
// ========================================

type CompanyStore struct {
	Companies []company.Company
	ListFn    func(ctx context.Context) ([]company.Company, error)
}

func (s *CompanyStore) GetByID(ctx context.Context, id string) (company.Company, error) {
	for _, c := range s.Companies {
		if c.ID == id {
			return c, nil
		}
	}
	return company.Company{}, company.ErrCompanyNotFound
}

func (s *CompanyStore) List(ctx context.Context) ([]company.Company, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx)
	}
	return slices.Clone(s.Companies), nil
}

// ========================================
// EMPLOYEES
// ========================================

type EmployeeStore struct {
	mu           sync.RWMutex
	Employees    map[string]employee.Employee
	ListActiveFn func(ctx context.Context, companyIDs []string) ([]employee.Employee, error)
}

func NewEmployeeStore(employees ...employee.Employee) *EmployeeStore {
	s := &EmployeeStore{Employees: make(map[string]employee.Employee)}
	for _, e := range employees {
		s.Employees[e.ID] = e
	}
	return s
}

func (s *EmployeeStore) Put(e employee.Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Employees[e.ID] = e
}

func (s *EmployeeStore) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.Employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (s *EmployeeStore) ListActive(ctx context.Context, companyIDs []string) ([]employee.Employee, error) {
	if s.ListActiveFn != nil {
		return s.ListActiveFn(ctx, companyIDs)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []employee.Employee
	for _, e := range s.Employees {
		if !e.IsActive {
			continue
		}
		if companyIDs != nil && !slices.Contains(companyIDs, e.CompanyID) {
			continue
		}
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b employee.Employee) int { return cmp.Compare(a.EmployeeCode, b.EmployeeCode) })
	return out, nil
}

// ========================================
// USERS
// ========================================

type UserStore struct {
	mu    sync.Mutex
	Users map[string]user.User
}

func NewUserStore(users ...user.User) *UserStore {
	s := &UserStore{Users: make(map[string]user.User)}
	for _, u := range users {
		s.Users[u.ID] = u
	}
	return s
}

func (s *UserStore) GetByID(ctx context.Context, id string) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.Users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (s *UserStore) Create(ctx context.Context, newUser user.User) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.Users {
		if u.Username == newUser.Username {
			return user.User{}, user.ErrUsernameExists
		}
	}
	s.Users[newUser.ID] = newUser
	return newUser, nil
}

func (s *UserStore) AssignCompanies(ctx context.Context, userID string, companyIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.Users[userID]
	if !ok {
		return user.ErrUserNotFound
	}
	u.CompanyIDs = slices.Clone(companyIDs)
	s.Users[userID] = u
	return nil
}

func (s *UserStore) SetAllowedPastDate(ctx context.Context, userID string, date *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.Users[userID]
	if !ok {
		return user.ErrUserNotFound
	}
	u.AllowedPastDate = date
	s.Users[userID] = u
	return nil
}

func (s *UserStore) ClearAllowedPastDatesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, u := range s.Users {
		if u.AllowedPastDate != nil && u.AllowedPastDate.Before(cutoff) {
			u.AllowedPastDate = nil
			s.Users[id] = u
			n++
		}
	}
	return n, nil
}

// ========================================
// ATTENDANCE
// ========================================

type attendanceKey struct {
	employeeID string
	date       string
}

// AttendanceStore keeps one record per (employee, date) like the unique
// constraint of the attendance table.
type AttendanceStore struct {
	mu        sync.Mutex
	records   map[attendanceKey]attendance.Record
	employees *EmployeeStore
	UpsertFn  func(ctx context.Context, rec attendance.Record) (attendance.Record, bool, error)
	Upserts   int
}

func NewAttendanceStore(employees *EmployeeStore) *AttendanceStore {
	return &AttendanceStore{
		records:   make(map[attendanceKey]attendance.Record),
		employees: employees,
	}
}

func keyOf(employeeID string, date time.Time) attendanceKey {
	return attendanceKey{employeeID: employeeID, date: utils.TruncateDate(date).Format(time.DateOnly)}
}

func (s *AttendanceStore) Upsert(ctx context.Context, rec attendance.Record) (attendance.Record, bool, error) {
	s.mu.Lock()
	s.Upserts++
	hook := s.UpsertFn
	s.mu.Unlock()
	if hook != nil {
		return hook(ctx, rec)
	}
	return s.UpsertDirect(ctx, rec)
}

// UpsertDirect bypasses UpsertFn so hooks can delegate to the real behaviour
func (s *AttendanceStore) UpsertDirect(ctx context.Context, rec attendance.Record) (attendance.Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := keyOf(rec.EmployeeID, rec.Date)
	existing, ok := s.records[k]
	if !ok {
		rec.IsEdited = false
		rec.EditedBy = nil
		rec.EditedAt = nil
		s.records[k] = rec
		return s.join(rec), true, nil
	}

	editor := rec.MarkedBy
	editedAt := rec.MarkedAt
	existing.Fields = rec.Fields
	existing.IsEdited = true
	existing.EditedBy = &editor
	existing.EditedAt = &editedAt
	s.records[k] = existing
	return s.join(existing), false, nil
}

func (s *AttendanceStore) Find(ctx context.Context, employeeID string, date time.Time) (*attendance.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[keyOf(employeeID, date)]
	if !ok {
		return nil, nil
	}
	joined := s.join(rec)
	return &joined, nil
}

func (s *AttendanceStore) FindByDateRange(ctx context.Context, filter attendance.RangeFilter) ([]attendance.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []attendance.Record{}
	for _, rec := range s.records {
		rec = s.join(rec)
		if s.matches(rec, filter) {
			out = append(out, rec)
		}
	}
	slices.SortFunc(out, func(a, b attendance.Record) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.Employee.EmployeeCode, b.Employee.EmployeeCode)
	})
	return out, nil
}

func (s *AttendanceStore) Count(ctx context.Context, filter attendance.RangeFilter) (attendance.DailyCounts, error) {
	records, err := s.FindByDateRange(ctx, filter)
	if err != nil {
		return attendance.DailyCounts{}, err
	}
	var c attendance.DailyCounts
	for _, rec := range records {
		c.Total++
		switch rec.Status {
		case attendance.StatusPresent:
			c.Present++
		case attendance.StatusHalfDay:
			c.HalfDay++
		case attendance.StatusAbsent:
			c.Absent++
		}
		if rec.HasOvertime {
			c.Overtime++
		}
	}
	return c, nil
}

// Len returns the number of stored records
func (s *AttendanceStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func (s *AttendanceStore) matches(rec attendance.Record, f attendance.RangeFilter) bool {
	if rec.Date.Before(f.From) || rec.Date.After(f.To) {
		return false
	}
	if f.CompanyIDs != nil && !slices.Contains(f.CompanyIDs, rec.Employee.CompanyID) {
		return false
	}
	if f.EmployeeID != nil && rec.EmployeeID != *f.EmployeeID {
		return false
	}
	if f.Status != nil && rec.Status != *f.Status {
		return false
	}
	if f.ActiveEmployeesOnly && !rec.Employee.IsActive {
		return false
	}
	return true
}

func (s *AttendanceStore) join(rec attendance.Record) attendance.Record {
	if s.employees == nil {
		return rec
	}
	s.employees.mu.RLock()
	defer s.employees.mu.RUnlock()
	if e, ok := s.employees.Employees[rec.EmployeeID]; ok {
		rec.Employee = e
	}
	return rec
}
