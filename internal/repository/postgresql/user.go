package postgresql

import (
	"context"
	"errors"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type userRepositoryImpl struct {
	db *database.DB
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT u.id, u.username, u.email, u.first_name, u.last_name, u.password_hash, u.role,
			   u.allowed_past_date, u.created_at, u.updated_at,
			   COALESCE(ARRAY_AGG(uc.company_id::text ORDER BY uc.company_id) FILTER (WHERE uc.company_id IS NOT NULL), '{}')
		FROM users u
		LEFT JOIN user_companies uc ON uc.user_id = u.id
		WHERE u.id = $1
		GROUP BY u.id
	`

	var u user.User
	err := q.QueryRow(ctx, query, id).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.FirstName,
		&u.LastName,
		&u.PasswordHash,
		&u.Role,
		&u.AllowedPastDate,
		&u.CreatedAt,
		&u.UpdatedAt,
		&u.CompanyIDs,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, err
	}

	return u, nil
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO users (id, username, email, first_name, last_name, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, username, email, first_name, last_name, password_hash, role, allowed_past_date, created_at, updated_at
	`

	var created user.User
	err := q.QueryRow(ctx, query,
		newUser.ID,
		newUser.Username,
		newUser.Email,
		newUser.FirstName,
		newUser.LastName,
		newUser.PasswordHash,
		newUser.Role,
	).Scan(
		&created.ID,
		&created.Username,
		&created.Email,
		&created.FirstName,
		&created.LastName,
		&created.PasswordHash,
		&created.Role,
		&created.AllowedPastDate,
		&created.CreatedAt,
		&created.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return user.User{}, user.ErrUsernameExists
		}
		return user.User{}, err
	}

	return created, nil
}

// AssignCompanies implements user.UserRepository. The previous assignment is replaced.
func (r *userRepositoryImpl) AssignCompanies(ctx context.Context, userID string, companyIDs []string) error {
	return WithTransaction(ctx, r.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)

		if _, err := q.Exec(ctx, `DELETE FROM user_companies WHERE user_id = $1`, userID); err != nil {
			return err
		}
		if len(companyIDs) == 0 {
			return nil
		}
		_, err := q.Exec(ctx, `
			INSERT INTO user_companies (user_id, company_id)
			SELECT $1, UNNEST($2::uuid[])
			ON CONFLICT DO NOTHING
		`, userID, companyIDs)
		return err
	})
}

// SetAllowedPastDate implements user.UserRepository.
func (r *userRepositoryImpl) SetAllowedPastDate(ctx context.Context, userID string, date *time.Time) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE users
		SET allowed_past_date = $1, updated_at = NOW()
		WHERE id = $2
	`, date, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// ClearAllowedPastDatesBefore implements user.UserRepository.
func (r *userRepositoryImpl) ClearAllowedPastDatesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE users
		SET allowed_past_date = NULL, updated_at = NOW()
		WHERE allowed_past_date < $1
	`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{
		db: db,
	}
}
