package scope

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/company"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/scope"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
)

type ResolverImpl struct {
	companyRepo  company.CompanyRepository
	employeeRepo employee.EmployeeRepository
}

// VisibleCompanies implements scope.Resolver.
func (r *ResolverImpl) VisibleCompanies(ctx context.Context, p user.Principal) (scope.IDSet, error) {
	s, err := scope.Resolve(p)
	if err != nil {
		return nil, err
	}
	companies, err := r.companyRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	return scope.VisibleCompanies(s, companies), nil
}

// VisibleEmployees implements scope.Resolver.
func (r *ResolverImpl) VisibleEmployees(ctx context.Context, p user.Principal) (scope.IDSet, error) {
	roster, err := r.Roster(ctx, p)
	if err != nil {
		return nil, err
	}
	s, _ := scope.Resolve(p)
	return scope.VisibleEmployees(s, roster), nil
}

// Roster implements scope.Resolver.
func (r *ResolverImpl) Roster(ctx context.Context, p user.Principal) ([]employee.Employee, error) {
	s, err := scope.Resolve(p)
	if err != nil {
		return nil, err
	}
	roster, err := r.employeeRepo.ListActive(ctx, s.CompanyFilter())
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	return roster, nil
}

// EnsureEmployee implements scope.Resolver.
func (r *ResolverImpl) EnsureEmployee(ctx context.Context, p user.Principal, employeeID string) (employee.Employee, error) {
	s, err := scope.Resolve(p)
	if err != nil {
		return employee.Employee{}, err
	}
	emp, err := r.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, err
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by ID: %w", err)
	}
	if !s.AllowsCompany(emp.CompanyID) {
		return employee.Employee{}, scope.ErrOutOfScope
	}
	if !emp.IsActive {
		return employee.Employee{}, employee.ErrEmployeeInactive
	}
	return emp, nil
}

func NewResolver(companyRepo company.CompanyRepository, employeeRepo employee.EmployeeRepository) scope.Resolver {
	return &ResolverImpl{
		companyRepo:  companyRepo,
		employeeRepo: employeeRepo,
	}
}
