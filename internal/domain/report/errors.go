package report

import "errors"

var (
	ErrUnsupportedSort = errors.New("sort must be employee_code or employee_name")
)
