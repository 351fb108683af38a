package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/scope"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/utils"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// maxUpsertAttempts bounds retries of a single key after a unique violation
const maxUpsertAttempts = 3

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	resolver scope.Resolver
	now      func() time.Time
	newID    func() (string, error)
}

// Upsert implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Upsert(ctx context.Context, actor user.Principal, entry attendance.Entry, today time.Time) (attendance.Record, bool, error) {
	if _, err := scope.Resolve(actor); err != nil {
		return attendance.Record{}, false, err
	}
	if err := attendance.CheckWriteWindow(actor, entry.Date, today); err != nil {
		metrics.AttendanceWrites.WithLabelValues(metrics.OutcomeRejected).Inc()
		return attendance.Record{}, false, err
	}

	rec, created, err := s.apply(ctx, actor, entry)
	if err != nil {
		metrics.AttendanceWrites.WithLabelValues(metrics.OutcomeRejected).Inc()
		return attendance.Record{}, false, err
	}
	return rec, created, nil
}

// BulkUpsert implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) BulkUpsert(ctx context.Context, actor user.Principal, entries []attendance.Entry, today time.Time) (attendance.BulkUpsertResult, error) {
	if len(entries) == 0 {
		return attendance.BulkUpsertResult{}, attendance.ErrEmptyBatch
	}
	if _, err := scope.Resolve(actor); err != nil {
		return attendance.BulkUpsertResult{}, err
	}

	// Window denials are authorization failures and reject the whole batch
	// before anything is written.
	for _, e := range entries {
		if err := attendance.CheckWriteWindow(actor, e.Date, today); err != nil {
			metrics.AttendanceWrites.WithLabelValues(metrics.OutcomeRejected).Add(float64(len(entries)))
			return attendance.BulkUpsertResult{}, err
		}
	}

	result := attendance.BulkUpsertResult{Failed: []*attendance.BatchEntryFailure{}}
	for i, e := range entries {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		_, created, err := s.apply(ctx, actor, e)
		if err != nil {
			failure := &attendance.BatchEntryFailure{
				Index:      i,
				EmployeeID: e.EmployeeID,
				Date:       utils.TruncateDate(e.Date),
				Err:        err,
			}
			result.Failed = append(result.Failed, failure)
			metrics.AttendanceWrites.WithLabelValues(metrics.OutcomeRejected).Inc()
			slog.Warn("Bulk attendance entry rejected",
				"actor_id", actor.ID,
				"index", i,
				"employee_id", e.EmployeeID,
				"date", e.Date.Format(validator.DateLayout),
				"error", err,
			)
			continue
		}

		result.Succeeded++
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}

	slog.Info("Bulk attendance upsert completed",
		"actor_id", actor.ID,
		"entries", len(entries),
		"succeeded", result.Succeeded,
		"failed", len(result.Failed),
	)
	return result, nil
}

// apply validates, normalizes and writes one entry. The write window has
// already been checked by the caller.
func (s *AttendanceServiceImpl) apply(ctx context.Context, actor user.Principal, entry attendance.Entry) (attendance.Record, bool, error) {
	if err := entry.Fields.Validate(); err != nil {
		return attendance.Record{}, false, err
	}
	if !validator.IsValidUUID(entry.EmployeeID) {
		return attendance.Record{}, false, employee.ErrEmployeeNotFound
	}

	emp, err := s.resolver.EnsureEmployee(ctx, actor, entry.EmployeeID)
	if err != nil {
		return attendance.Record{}, false, err
	}

	id, err := s.newID()
	if err != nil {
		return attendance.Record{}, false, fmt.Errorf("failed to generate attendance ID: %w", err)
	}

	rec := attendance.Record{
		ID:         id,
		EmployeeID: emp.ID,
		Date:       utils.TruncateDate(entry.Date),
		Fields:     entry.Fields.Normalize(),
		MarkedBy:   actor.ID,
		MarkedAt:   s.now(),
	}

	for attempt := 1; ; attempt++ {
		saved, created, err := s.AttendanceRepository.Upsert(ctx, rec)
		if err == nil {
			if saved.Employee.ID == "" {
				saved.Employee = emp
			}
			if created {
				metrics.AttendanceWrites.WithLabelValues(metrics.OutcomeCreated).Inc()
			} else {
				metrics.AttendanceWrites.WithLabelValues(metrics.OutcomeUpdated).Inc()
			}
			return saved, created, nil
		}
		if !errors.Is(err, attendance.ErrDuplicateKeyConflict) {
			return attendance.Record{}, false, fmt.Errorf("failed to upsert attendance: %w", err)
		}
		if attempt >= maxUpsertAttempts {
			return attendance.Record{}, false, err
		}
		metrics.UpsertRetries.Inc()
		slog.Warn("Retrying attendance upsert after conflict",
			"employee_id", rec.EmployeeID,
			"date", rec.Date.Format(validator.DateLayout),
			"attempt", attempt,
		)
	}
}

// Find implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Find(ctx context.Context, actor user.Principal, employeeID string, date time.Time) (attendance.Record, error) {
	sc, err := scope.Resolve(actor)
	if err != nil {
		return attendance.Record{}, err
	}

	rec, err := s.AttendanceRepository.Find(ctx, employeeID, utils.TruncateDate(date))
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to find attendance: %w", err)
	}
	if rec == nil {
		return attendance.Record{}, attendance.ErrAttendanceNotFound
	}
	if !sc.AllowsCompany(rec.Employee.CompanyID) {
		return attendance.Record{}, scope.ErrOutOfScope
	}
	if activeEmployeesOnly(actor) && !rec.Employee.IsActive {
		return attendance.Record{}, scope.ErrOutOfScope
	}
	return *rec, nil
}

// FindByDateRange implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) FindByDateRange(ctx context.Context, actor user.Principal, filter attendance.RangeFilter) ([]attendance.Record, error) {
	filter, err := scopedFilter(actor, filter)
	if err != nil {
		return nil, err
	}
	if filter.From.After(filter.To) {
		return []attendance.Record{}, nil
	}

	records, err := s.AttendanceRepository.FindByDateRange(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return records, nil
}

// DailySummary implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) DailySummary(ctx context.Context, actor user.Principal, date time.Time) (attendance.DailySummary, error) {
	date = utils.TruncateDate(date)
	filter, err := scopedFilter(actor, attendance.RangeFilter{From: date, To: date})
	if err != nil {
		return attendance.DailySummary{}, err
	}

	var (
		roster []employee.Employee
		counts attendance.DailyCounts
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		roster, err = s.resolver.Roster(gctx, actor)
		return err
	})
	g.Go(func() error {
		var err error
		counts, err = s.AttendanceRepository.Count(gctx, filter)
		if err != nil {
			return fmt.Errorf("failed to count attendance: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return attendance.DailySummary{}, err
	}

	summary := attendance.DailySummary{
		Date:            date,
		ActiveEmployees: len(roster),
		Marked:          counts.Total,
		Present:         counts.Present + counts.HalfDay,
		HalfDay:         counts.HalfDay,
		Absent:          counts.Absent,
		Overtime:        counts.Overtime,
	}
	summary.Unmarked = max(summary.ActiveEmployees-summary.Marked, 0)
	return summary, nil
}

// scopedFilter intersects a filter with the actor's scope
func scopedFilter(actor user.Principal, filter attendance.RangeFilter) (attendance.RangeFilter, error) {
	sc, err := scope.Resolve(actor)
	if err != nil {
		return filter, err
	}
	if filter.CompanyID != nil {
		if sc, err = sc.Narrow(*filter.CompanyID); err != nil {
			return filter, err
		}
	}
	filter.From = utils.TruncateDate(filter.From)
	filter.To = utils.TruncateDate(filter.To)
	filter.CompanyIDs = sc.CompanyFilter()
	filter.ActiveEmployeesOnly = activeEmployeesOnly(actor)
	return filter, nil
}

// Supervisors only ever see employees that are still active
func activeEmployeesOnly(actor user.Principal) bool {
	return actor.Role == user.RoleSupervisor
}

func newRecordID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

func NewAttendanceService(attendanceRepo attendance.AttendanceRepository, resolver scope.Resolver) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		resolver:             resolver,
		now:                  time.Now,
		newID:                newRecordID,
	}
}
