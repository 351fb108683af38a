package scope

import (
	"context"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
)

// Resolver answers visibility questions against the live roster.
type Resolver interface {
	VisibleEmployees(ctx context.Context, p user.Principal) (IDSet, error)
	VisibleCompanies(ctx context.Context, p user.Principal) (IDSet, error)
	// Roster returns the active employees visible to the principal, ordered by employee code
	Roster(ctx context.Context, p user.Principal) ([]employee.Employee, error)
	// EnsureEmployee loads an employee and fails unless it is active and in scope
	EnsureEmployee(ctx context.Context, p user.Principal, employeeID string) (employee.Employee, error)
}
