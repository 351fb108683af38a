package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

const attendanceColumns = `
	a.id, a.employee_id, a.date, a.status, a.has_ot, a.ot_hours, a.ot_remarks, a.remarks,
	a.marked_by, a.marked_at, a.is_edited, a.edited_by, a.edited_at,
	e.id, e.company_id, e.employee_code, e.first_name, e.last_name, e.is_active,
	e.day_rate, e.ot_rate_per_hour, c.name,
	COALESCE(NULLIF(TRIM(u.first_name || ' ' || u.last_name), ''), u.username)`

const attendanceJoins = `
	FROM attendances a
	JOIN employees e ON e.id = a.employee_id
	JOIN companies c ON c.id = e.company_id
	JOIN users u ON u.id = a.marked_by`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAttendance(row rowScanner) (attendance.Record, error) {
	var rec attendance.Record
	err := row.Scan(
		&rec.ID,
		&rec.EmployeeID,
		&rec.Date,
		&rec.Status,
		&rec.HasOvertime,
		&rec.OTHours,
		&rec.OTRemarks,
		&rec.Remarks,
		&rec.MarkedBy,
		&rec.MarkedAt,
		&rec.IsEdited,
		&rec.EditedBy,
		&rec.EditedAt,
		&rec.Employee.ID,
		&rec.Employee.CompanyID,
		&rec.Employee.EmployeeCode,
		&rec.Employee.FirstName,
		&rec.Employee.LastName,
		&rec.Employee.IsActive,
		&rec.Employee.DayRate,
		&rec.Employee.OTRatePerHour,
		&rec.Employee.CompanyName,
		&rec.MarkedByName,
	)
	return rec, err
}

// Upsert implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Upsert(ctx context.Context, rec attendance.Record) (attendance.Record, bool, error) {
	q := GetQuerier(ctx, r.db)

	// xmax is zero only for a freshly inserted row version
	query := `
		INSERT INTO attendances (
			id, employee_id, date, status, has_ot, ot_hours, ot_remarks, remarks,
			marked_by, marked_at, is_edited, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, FALSE, NOW(), NOW())
		ON CONFLICT (employee_id, date) DO UPDATE SET
			status = EXCLUDED.status,
			has_ot = EXCLUDED.has_ot,
			ot_hours = EXCLUDED.ot_hours,
			ot_remarks = EXCLUDED.ot_remarks,
			remarks = EXCLUDED.remarks,
			is_edited = TRUE,
			edited_by = EXCLUDED.marked_by,
			edited_at = EXCLUDED.marked_at,
			updated_at = NOW()
		RETURNING id, employee_id, date, status, has_ot, ot_hours, ot_remarks, remarks,
				  marked_by, marked_at, is_edited, edited_by, edited_at, (xmax = 0) AS created
	`

	var (
		saved   attendance.Record
		created bool
	)
	err := q.QueryRow(ctx, query,
		rec.ID,
		rec.EmployeeID,
		rec.Date,
		rec.Status,
		rec.HasOvertime,
		rec.OTHours,
		rec.OTRemarks,
		rec.Remarks,
		rec.MarkedBy,
		rec.MarkedAt,
	).Scan(
		&saved.ID,
		&saved.EmployeeID,
		&saved.Date,
		&saved.Status,
		&saved.HasOvertime,
		&saved.OTHours,
		&saved.OTRemarks,
		&saved.Remarks,
		&saved.MarkedBy,
		&saved.MarkedAt,
		&saved.IsEdited,
		&saved.EditedBy,
		&saved.EditedAt,
		&created,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return attendance.Record{}, false, attendance.ErrDuplicateKeyConflict
		}
		return attendance.Record{}, false, err
	}

	return saved, created, nil
}

// Find implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Find(ctx context.Context, employeeID string, date time.Time) (*attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + attendanceJoins + `
		WHERE a.employee_id = $1 AND a.date = $2
	`

	rec, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// buildRangeWhere renders the WHERE clause shared by range listing and counting
func buildRangeWhere(filter attendance.RangeFilter) (string, []any) {
	conditions := []string{"a.date >= $1", "a.date <= $2"}
	args := []any{filter.From, filter.To}
	argIdx := 3

	if filter.CompanyIDs != nil {
		conditions = append(conditions, fmt.Sprintf("e.company_id = ANY($%d::uuid[])", argIdx))
		args = append(args, filter.CompanyIDs)
		argIdx++
	}
	if filter.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("a.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("a.status = $%d", argIdx))
		args = append(args, string(*filter.Status))
		argIdx++
	}
	if filter.ActiveEmployeesOnly {
		conditions = append(conditions, "e.is_active")
	}

	return " WHERE " + strings.Join(conditions, " AND "), args
}

// FindByDateRange implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) FindByDateRange(ctx context.Context, filter attendance.RangeFilter) ([]attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	where, args := buildRangeWhere(filter)
	query := `SELECT ` + attendanceColumns + attendanceJoins + where + `
		ORDER BY a.date DESC, e.employee_code ASC
	`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []attendance.Record{}
	for rows.Next() {
		rec, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// Count implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Count(ctx context.Context, filter attendance.RangeFilter) (attendance.DailyCounts, error) {
	q := GetQuerier(ctx, r.db)

	where, args := buildRangeWhere(filter)
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE a.status = 'PRESENT'),
			COUNT(*) FILTER (WHERE a.status = 'HALF_DAY'),
			COUNT(*) FILTER (WHERE a.status = 'ABSENT'),
			COUNT(*) FILTER (WHERE a.has_ot)
		FROM attendances a
		JOIN employees e ON e.id = a.employee_id` + where

	var c attendance.DailyCounts
	err := q.QueryRow(ctx, query, args...).Scan(&c.Total, &c.Present, &c.HalfDay, &c.Absent, &c.Overtime)
	if err != nil {
		return attendance.DailyCounts{}, err
	}
	return c, nil
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{
		db: db,
	}
}
