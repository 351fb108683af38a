package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Attendance"

// Header is the column layout existing report consumers rely on
var Header = []string{
	"Date", "Employee Code", "Employee Name", "Company",
	"Status", "OT", "OT Hours", "Day Rate", "Day Salary",
	"OT Rate", "OT Amount", "Total Amount", "Marked By",
}

// totalsLabelColumn is the zero-based column holding "TOTALS:"
const totalsLabelColumn = 7

type ExporterImpl struct{}

// Rows renders the report as text rows: header, one row per record, a blank
// row and the totals row.
func Rows(r report.Report) [][]string {
	rows := make([][]string, 0, len(r.Records)+3)
	rows = append(rows, Header)
	for _, row := range r.Records {
		rec := row.Record
		ot, otHours := "No", ""
		if rec.HasOvertime {
			ot = "Yes"
			if rec.OTHours != nil {
				otHours = rec.OTHours.StringFixed(2)
			}
		}
		rows = append(rows, []string{
			rec.Date.Format(validator.DateLayout),
			rec.Employee.EmployeeCode,
			rec.Employee.FullName(),
			rec.Employee.CompanyName,
			rec.Status.Label(),
			ot,
			otHours,
			report.Rate(rec.Employee.DayRate),
			report.Money(row.DayWage),
			report.Rate(rec.Employee.OTRatePerHour),
			report.Money(row.OTAmount),
			report.Money(row.Total),
			rec.MarkedByName,
		})
	}
	rows = append(rows, []string{})

	totals := make([]string, len(Header))
	totals[totalsLabelColumn] = "TOTALS:"
	totals[totalsLabelColumn+1] = report.Money(r.Totals.DayWage)
	totals[totalsLabelColumn+3] = report.Money(r.Totals.OTAmount)
	totals[totalsLabelColumn+4] = report.Money(r.Totals.Total)
	rows = append(rows, totals)
	return rows
}

// WriteCSV implements report.Exporter.
func (e *ExporterImpl) WriteCSV(w io.Writer, r report.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(Rows(r)); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	metrics.ReportsGenerated.WithLabelValues("csv").Inc()
	return nil
}

// WriteXLSX implements report.Exporter.
func (e *ExporterImpl) WriteXLSX(w io.Writer, r report.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	for i, row := range Rows(r) {
		for c, v := range row {
			if v == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, i+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 12)
	_ = f.SetColWidth(sheetName, "B", "B", 14)
	_ = f.SetColWidth(sheetName, "C", "D", 26)
	_ = f.SetColWidth(sheetName, "E", "L", 12)
	_ = f.SetColWidth(sheetName, "M", "M", 22)

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#1F2937"}, Pattern: 1},
	})
	if err == nil {
		_ = f.SetCellStyle(sheetName, "A1", "M1", style)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write xlsx: %w", err)
	}
	metrics.ReportsGenerated.WithLabelValues("xlsx").Inc()
	return nil
}

func NewExporter() report.Exporter {
	return &ExporterImpl{}
}
