package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	// Upsert creates or updates the record keyed by (EmployeeID, Date) in one
	// statement. On update MarkedBy and MarkedAt are kept and rec.MarkedBy is
	// stamped as the editor. The bool reports whether a row was created.
	Upsert(ctx context.Context, rec Record) (Record, bool, error)
	// Find returns nil when no record exists for the key
	Find(ctx context.Context, employeeID string, date time.Time) (*Record, error)
	// FindByDateRange orders by date descending, then employee code ascending
	FindByDateRange(ctx context.Context, filter RangeFilter) ([]Record, error)
	// Count tallies the records matched by filter
	Count(ctx context.Context, filter RangeFilter) (DailyCounts, error)
}
