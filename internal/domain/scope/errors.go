package scope

import "errors"

var (
	ErrScope      = errors.New("principal has no valid scope")
	ErrOutOfScope = errors.New("target is outside the principal's scope")
)
