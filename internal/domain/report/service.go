package report

import (
	"context"
	"io"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
)

type ReportService interface {
	Aggregate(ctx context.Context, actor user.Principal, req Request, today time.Time) (Report, error)
}

// Exporter serializes a report for download
type Exporter interface {
	WriteCSV(w io.Writer, r Report) error
	WriteXLSX(w io.Writer, r Report) error
}
