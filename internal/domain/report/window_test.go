package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestClampWindow(t *testing.T) {
	today := day(2024, 6, 10)

	t.Run("from five months ago is clamped to three", func(t *testing.T) {
		from := day(2024, 1, 10)
		w := ClampWindow(&from, nil, today)
		assert.Equal(t, day(2024, 3, 10), w.From)
		assert.Equal(t, today, w.To)
		assert.True(t, w.Clamped)
	})

	t.Run("future to is clamped to today", func(t *testing.T) {
		from := day(2024, 6, 1)
		to := day(2024, 12, 31)
		w := ClampWindow(&from, &to, today)
		assert.Equal(t, day(2024, 6, 1), w.From)
		assert.Equal(t, today, w.To)
		assert.True(t, w.Clamped)
	})

	t.Run("defaults to month to date", func(t *testing.T) {
		w := ClampWindow(nil, nil, today)
		assert.Equal(t, day(2024, 6, 1), w.From)
		assert.Equal(t, today, w.To)
		assert.False(t, w.Clamped)
	})

	t.Run("range inside the window is untouched", func(t *testing.T) {
		from := day(2024, 4, 1)
		to := day(2024, 4, 30)
		w := ClampWindow(&from, &to, today)
		assert.Equal(t, from, w.From)
		assert.Equal(t, to, w.To)
		assert.False(t, w.Clamped)
	})

	t.Run("month end clamp", func(t *testing.T) {
		from := day(2023, 12, 1)
		w := ClampWindow(&from, nil, day(2024, 5, 31))
		assert.Equal(t, day(2024, 2, 29), w.From)
	})

	t.Run("to before the lookback yields an empty window", func(t *testing.T) {
		from := day(2023, 1, 1)
		to := day(2023, 2, 1)
		w := ClampWindow(&from, &to, today)
		assert.True(t, w.IsEmpty())
	})
}

func TestQueryToRequest(t *testing.T) {
	q := Query{From: "2024-06-01", Status: "HALF_DAY", Sort: "employee_name"}
	assert.NoError(t, q.Validate())

	req := q.ToRequest()
	assert.Equal(t, day(2024, 6, 1), *req.From)
	assert.Nil(t, req.To)
	assert.Equal(t, SortByEmployeeName, req.Filters.Sort)
	assert.EqualValues(t, "HALF_DAY", *req.Filters.Status)

	bad := Query{From: "01/06/2024", Sort: "salary"}
	assert.Error(t, bad.Validate())
}
