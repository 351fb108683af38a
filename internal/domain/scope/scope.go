package scope

import (
	"slices"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/company"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
)

// Scope is the set of companies a principal may read or write.
type Scope struct {
	Unrestricted bool
	CompanyIDs   []string
}

// Resolve derives the scope of a principal. A supervisor without assigned
// companies has no valid scope.
func Resolve(p user.Principal) (Scope, error) {
	if !p.Role.IsValid() {
		return Scope{}, ErrScope
	}
	if p.IsScopeUnrestricted() {
		return Scope{Unrestricted: true}, nil
	}
	if len(p.CompanyIDs) == 0 {
		return Scope{}, ErrScope
	}
	ids := slices.Clone(p.CompanyIDs)
	slices.Sort(ids)
	return Scope{CompanyIDs: slices.Compact(ids)}, nil
}

// AllowsCompany reports whether the company is inside the scope
func (s Scope) AllowsCompany(companyID string) bool {
	if s.Unrestricted {
		return true
	}
	_, found := slices.BinarySearch(s.CompanyIDs, companyID)
	return found
}

// CompanyFilter returns the company ids to filter queries by, nil for all
func (s Scope) CompanyFilter() []string {
	if s.Unrestricted {
		return nil
	}
	return s.CompanyIDs
}

// Narrow intersects the scope with a single requested company.
// Asking for a company outside the scope fails with ErrOutOfScope.
func (s Scope) Narrow(companyID string) (Scope, error) {
	if !s.AllowsCompany(companyID) {
		return Scope{}, ErrOutOfScope
	}
	return Scope{CompanyIDs: []string{companyID}}, nil
}

// IDSet is an unordered set of identifiers
type IDSet map[string]struct{}

func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns the ids in ascending order
func (s IDSet) Sorted() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// VisibleCompanies filters the company roster down to the scope
func VisibleCompanies(s Scope, roster []company.Company) IDSet {
	visible := make(IDSet)
	for _, c := range roster {
		if s.AllowsCompany(c.ID) {
			visible[c.ID] = struct{}{}
		}
	}
	return visible
}

// VisibleEmployees filters the employee roster down to active employees of
// companies inside the scope
func VisibleEmployees(s Scope, roster []employee.Employee) IDSet {
	visible := make(IDSet)
	for _, e := range roster {
		if e.IsActive && s.AllowsCompany(e.CompanyID) {
			visible[e.ID] = struct{}{}
		}
	}
	return visible
}
