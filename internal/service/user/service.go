package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/scope"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/utils"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

type UserServiceImpl struct {
	user.UserRepository
}

// GetPrincipal implements user.UserService.
func (s *UserServiceImpl) GetPrincipal(ctx context.Context, userID string) (user.Principal, error) {
	u, err := s.UserRepository.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return user.Principal{}, err
		}
		return user.Principal{}, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return u.Principal(), nil
}

// GrantPastDate implements user.UserService.
func (s *UserServiceImpl) GrantPastDate(ctx context.Context, actor user.Principal, req user.GrantPastDateRequest, today time.Time) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	target, err := s.manageableSupervisor(ctx, actor, req.UserID)
	if err != nil {
		return user.UserResponse{}, err
	}

	date, _ := validator.IsValidDate(req.Date)
	today = utils.TruncateDate(today)
	if date.After(today) {
		return user.UserResponse{}, user.ErrPastDateInFuture
	}
	if date.Before(report.MinAllowedDate(today)) {
		return user.UserResponse{}, user.ErrPastDateTooOld
	}

	if err := s.UserRepository.SetAllowedPastDate(ctx, target.ID, &date); err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to set allowed past date: %w", err)
	}
	target.AllowedPastDate = &date

	slog.Info("Allowed past date granted",
		"actor_id", actor.ID,
		"supervisor_id", target.ID,
		"date", req.Date,
	)
	return user.NewUserResponse(target), nil
}

// RevokePastDate implements user.UserService.
func (s *UserServiceImpl) RevokePastDate(ctx context.Context, actor user.Principal, userID string) error {
	if !validator.IsValidUUID(userID) {
		return validator.ValidationErrors{{Field: "user_id", Message: "user_id must be a valid UUID"}}
	}

	target, err := s.manageableSupervisor(ctx, actor, userID)
	if err != nil {
		return err
	}
	if target.AllowedPastDate == nil {
		return nil
	}

	if err := s.UserRepository.SetAllowedPastDate(ctx, target.ID, nil); err != nil {
		return fmt.Errorf("failed to clear allowed past date: %w", err)
	}
	slog.Info("Allowed past date revoked", "actor_id", actor.ID, "supervisor_id", target.ID)
	return nil
}

// ClearExpiredPastDates implements user.UserService.
func (s *UserServiceImpl) ClearExpiredPastDates(ctx context.Context, today time.Time) (int64, error) {
	cutoff := report.MinAllowedDate(today)
	n, err := s.UserRepository.ClearAllowedPastDatesBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to clear expired past dates: %w", err)
	}
	return n, nil
}

// manageableSupervisor loads the target and checks the actor may manage it.
// Scoped admins only manage supervisors sharing at least one company.
func (s *UserServiceImpl) manageableSupervisor(ctx context.Context, actor user.Principal, targetID string) (user.User, error) {
	if !user.HasPermission(actor.Role, user.PermissionPastDateManage) {
		return user.User{}, user.ErrInsufficientPermissions
	}
	sc, err := scope.Resolve(actor)
	if err != nil {
		return user.User{}, err
	}

	target, err := s.UserRepository.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return user.User{}, err
		}
		return user.User{}, fmt.Errorf("failed to get user by ID: %w", err)
	}
	if target.Role != user.RoleSupervisor {
		return user.User{}, user.ErrTargetNotSupervisor
	}
	if !sc.Unrestricted && !slices.ContainsFunc(target.CompanyIDs, sc.AllowsCompany) {
		return user.User{}, scope.ErrOutOfScope
	}
	return target, nil
}

func NewUserService(userRepo user.UserRepository) user.UserService {
	return &UserServiceImpl{
		UserRepository: userRepo,
	}
}
