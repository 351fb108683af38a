package user

import (
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

// UserResponse represents user data in API responses
type UserResponse struct {
	ID              string   `json:"id"`
	Username        string   `json:"username"`
	FullName        string   `json:"full_name"`
	Role            string   `json:"role"`
	CompanyIDs      []string `json:"company_ids"`
	AllowedPastDate *string  `json:"allowed_past_date"`
}

func NewUserResponse(u User) UserResponse {
	resp := UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		FullName:   u.FullName(),
		Role:       string(u.Role),
		CompanyIDs: u.CompanyIDs,
	}
	if resp.CompanyIDs == nil {
		resp.CompanyIDs = []string{}
	}
	if u.AllowedPastDate != nil {
		d := u.AllowedPastDate.Format(validator.DateLayout)
		resp.AllowedPastDate = &d
	}
	return resp
}

// GrantPastDateRequest grants a supervisor a single past date exception
type GrantPastDateRequest struct {
	UserID string `json:"-"`
	Date   string `json:"date"`
}

func (r *GrantPastDateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	} else if !validator.IsValidUUID(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id must be a valid UUID",
		})
	}

	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	} else if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
