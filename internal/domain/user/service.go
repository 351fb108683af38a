package user

import (
	"context"
	"time"
)

type UserService interface {
	// GetPrincipal loads the acting context for an authenticated user id
	GetPrincipal(ctx context.Context, userID string) (Principal, error)
	GrantPastDate(ctx context.Context, actor Principal, req GrantPastDateRequest, today time.Time) (UserResponse, error)
	RevokePastDate(ctx context.Context, actor Principal, userID string) error
	// ClearExpiredPastDates drops exceptions older than the reporting lookback
	ClearExpiredPastDates(ctx context.Context, today time.Time) (int64, error)
}
