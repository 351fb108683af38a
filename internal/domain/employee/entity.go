package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee is read-only reference data owned by employee management.
// Rates are nullable; a missing rate pays nothing.
type Employee struct {
	ID            string
	CompanyID     string
	EmployeeCode  string
	FirstName     string
	LastName      string
	IsActive      bool
	DayRate       *decimal.Decimal
	OTRatePerHour *decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Join
	CompanyName string
}

// FullName returns "first last"
func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}
