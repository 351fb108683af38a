package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	// ListActive returns active employees ordered by employee code.
	// A nil companyIDs means every company.
	ListActive(ctx context.Context, companyIDs []string) ([]Employee, error)
}
