package company

import "context"

type CompanyRepository interface {
	GetByID(ctx context.Context, id string) (Company, error)
	// List returns every company ordered by name
	List(ctx context.Context) ([]Company, error)
}
