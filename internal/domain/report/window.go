package report

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/utils"
)

// LookbackMonths bounds how far back a report may reach
const LookbackMonths = 3

// Window is an inclusive date range after clamping
type Window struct {
	From    time.Time
	To      time.Time
	Clamped bool
}

// IsEmpty reports a window whose end precedes its start
func (w Window) IsEmpty() bool {
	return w.From.After(w.To)
}

// MinAllowedDate is today minus LookbackMonths, the day clamped to month end
func MinAllowedDate(today time.Time) time.Time {
	return utils.AddMonthsClamped(today, -LookbackMonths)
}

// ClampWindow bounds a requested range to [today-3 months, today].
// A missing from starts at the first of today's month; a missing to ends today.
func ClampWindow(from, to *time.Time, today time.Time) Window {
	today = utils.TruncateDate(today)
	minDate := MinAllowedDate(today)

	w := Window{From: utils.FirstOfMonth(today), To: today}
	if from != nil {
		w.From = utils.TruncateDate(*from)
		if w.From.Before(minDate) {
			w.From = minDate
			w.Clamped = true
		}
	}
	if to != nil {
		w.To = utils.TruncateDate(*to)
		if w.To.After(today) {
			w.To = today
			w.Clamped = true
		}
	}
	return w
}
