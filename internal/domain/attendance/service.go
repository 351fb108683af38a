package attendance

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
)

type AttendanceService interface {
	Upsert(ctx context.Context, actor user.Principal, entry Entry, today time.Time) (Record, bool, error)
	// BulkUpsert applies every entry independently; one bad entry never
	// undoes the others
	BulkUpsert(ctx context.Context, actor user.Principal, entries []Entry, today time.Time) (BulkUpsertResult, error)
	Find(ctx context.Context, actor user.Principal, employeeID string, date time.Time) (Record, error)
	FindByDateRange(ctx context.Context, actor user.Principal, filter RangeFilter) ([]Record, error)
	DailySummary(ctx context.Context, actor user.Principal, date time.Time) (DailySummary, error)
}
