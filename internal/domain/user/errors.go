package user

import "errors"

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrUsernameExists          = errors.New("username already registered")
	ErrInvalidRole             = errors.New("invalid role")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrTargetNotSupervisor     = errors.New("past date exceptions can only be granted to supervisors")
	ErrPastDateInFuture        = errors.New("allowed past date cannot be in the future")
	ErrPastDateTooOld          = errors.New("allowed past date is older than the reporting window")
	ErrSupervisorNeedsCompany  = errors.New("supervisor must be assigned to at least one company")
)
