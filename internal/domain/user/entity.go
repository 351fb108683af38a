package user

import (
	"strings"
	"time"
)

type Role string

const (
	RoleSuperAdmin Role = "superadmin" // Unrestricted across every company
	RoleAdmin      Role = "admin"      // Optionally scoped to assigned companies
	RoleSupervisor Role = "supervisor" // Marks attendance for assigned companies
)

// IsValid checks if the role is one of the known roles
func (r Role) IsValid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleSupervisor:
		return true
	}
	return false
}

// CanWriteAnyDate checks if the role is exempt from the write window
func (r Role) CanWriteAnyDate() bool {
	return r == RoleSuperAdmin || r == RoleAdmin
}

// IsAdministrative checks if the role can view reports and manage supervisors
func (r Role) IsAdministrative() bool {
	return r == RoleSuperAdmin || r == RoleAdmin
}

type User struct {
	ID              string
	Username        string
	Email           string
	FirstName       string
	LastName        string
	PasswordHash    *string
	Role            Role
	AllowedPastDate *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Join
	CompanyIDs []string
}

// FullName returns "first last", or the username when both are blank
func (u User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// Principal builds the acting context for this user
func (u User) Principal() Principal {
	return Principal{
		ID:              u.ID,
		Name:            u.FullName(),
		Role:            u.Role,
		CompanyIDs:      u.CompanyIDs,
		AllowedPastDate: u.AllowedPastDate,
	}
}

// Principal is the acting user context an operation is authorized under.
// AllowedPastDate is the single admin-granted exception date a supervisor may
// write attendance for besides today.
type Principal struct {
	ID              string
	Name            string
	Role            Role
	CompanyIDs      []string
	AllowedPastDate *time.Time
}

// IsScopeUnrestricted reports whether the principal sees every company.
// An admin without assigned companies is treated like a superadmin.
func (p Principal) IsScopeUnrestricted() bool {
	switch p.Role {
	case RoleSuperAdmin:
		return true
	case RoleAdmin:
		return len(p.CompanyIDs) == 0
	}
	return false
}

// CanWriteAnyDate reports whether the principal bypasses the write window
func (p Principal) CanWriteAnyDate() bool {
	return p.Role.CanWriteAnyDate()
}
