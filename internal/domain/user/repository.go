package user

import (
	"context"
	"time"
)

type UserRepository interface {
	// GetByID loads the user together with its assigned company ids
	GetByID(ctx context.Context, id string) (User, error)
	Create(ctx context.Context, newUser User) (User, error)
	AssignCompanies(ctx context.Context, userID string, companyIDs []string) error
	// SetAllowedPastDate replaces the outstanding exception; nil clears it
	SetAllowedPastDate(ctx context.Context, userID string, date *time.Time) error
	ClearAllowedPastDatesBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
