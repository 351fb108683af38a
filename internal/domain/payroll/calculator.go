package payroll

import (
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/shopspring/decimal"
)

var two = decimal.NewFromInt(2)

// Breakdown is the pay derived from one attendance record.
// It is recomputed from the employee's current rates on every read.
type Breakdown struct {
	DayWage  decimal.Decimal
	OTAmount decimal.Decimal
	Total    decimal.Decimal
}

// DayWage pays the full day rate for Present, half for HalfDay and nothing for Absent
func DayWage(rec attendance.Record, emp employee.Employee) decimal.Decimal {
	rate := orZero(emp.DayRate)
	switch rec.Status {
	case attendance.StatusPresent:
		return rate
	case attendance.StatusHalfDay:
		return rate.Div(two)
	}
	return decimal.Zero
}

// OTAmount pays overtime hours at the hourly OT rate regardless of status
func OTAmount(rec attendance.Record, emp employee.Employee) decimal.Decimal {
	if !rec.HasOvertime || rec.OTHours == nil {
		return decimal.Zero
	}
	return rec.OTHours.Mul(orZero(emp.OTRatePerHour))
}

func Total(rec attendance.Record, emp employee.Employee) decimal.Decimal {
	return DayWage(rec, emp).Add(OTAmount(rec, emp))
}

func Calculate(rec attendance.Record, emp employee.Employee) Breakdown {
	wage := DayWage(rec, emp)
	ot := OTAmount(rec, emp)
	return Breakdown{
		DayWage:  wage,
		OTAmount: ot,
		Total:    wage.Add(ot),
	}
}

func orZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
