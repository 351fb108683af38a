package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// MaxBatchSize caps the rows of one bulk request
const MaxBatchSize = 500

// ========================================
// WRITE DTOs
// ========================================

type UpsertRequest struct {
	EmployeeID  string           `json:"employee_id"`
	Date        string           `json:"date"`
	Status      string           `json:"status"`
	HasOvertime bool             `json:"has_ot"`
	OTHours     *decimal.Decimal `json:"ot_hours"`
	OTRemarks   *string          `json:"ot_remarks"`
	Remarks     *string          `json:"remarks"`
}

func (r *UpsertRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	} else if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
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

	if validator.IsEmpty(r.Status) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status is required",
		})
	} else if !Status(r.Status).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be PRESENT, ABSENT or HALF_DAY",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ToEntry converts a validated request
func (r *UpsertRequest) ToEntry() Entry {
	date, _ := validator.IsValidDate(r.Date)
	return Entry{
		EmployeeID: r.EmployeeID,
		Date:       date,
		Fields: Fields{
			Status:      Status(r.Status),
			HasOvertime: r.HasOvertime,
			OTHours:     r.OTHours,
			OTRemarks:   r.OTRemarks,
			Remarks:     r.Remarks,
		},
	}
}

// BulkUpsertRequest marks many employees for one date. Rows are checked one by
// one while applying, so a malformed row only fails itself.
type BulkUpsertRequest struct {
	Date    string           `json:"date"`
	Entries []BulkEntryInput `json:"entries"`
}

type BulkEntryInput struct {
	EmployeeID  string           `json:"employee_id"`
	Status      string           `json:"status"`
	HasOvertime bool             `json:"has_ot"`
	OTHours     *decimal.Decimal `json:"ot_hours"`
	OTRemarks   *string          `json:"ot_remarks"`
	Remarks     *string          `json:"remarks"`
}

func (r *BulkUpsertRequest) Validate() error {
	var errs validator.ValidationErrors

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

	if len(r.Entries) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "entries",
			Message: "at least one entry is required",
		})
	} else if len(r.Entries) > MaxBatchSize {
		errs = append(errs, validator.ValidationError{
			Field:   "entries",
			Message: "too many entries in one batch",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func (r *BulkUpsertRequest) ToEntries() []Entry {
	date, _ := validator.IsValidDate(r.Date)
	entries := make([]Entry, len(r.Entries))
	for i, in := range r.Entries {
		entries[i] = Entry{
			EmployeeID: in.EmployeeID,
			Date:       date,
			Fields: Fields{
				Status:      Status(in.Status),
				HasOvertime: in.HasOvertime,
				OTHours:     in.OTHours,
				OTRemarks:   in.OTRemarks,
				Remarks:     in.Remarks,
			},
		}
	}
	return entries
}

// BulkUpsertResult summarizes a best-effort batch
type BulkUpsertResult struct {
	Succeeded int
	Created   int
	Updated   int
	Failed    []*BatchEntryFailure
}

// ========================================
// QUERY DTOs
// ========================================

type ListRequest struct {
	From       string
	To         string
	EmployeeID string
	CompanyID  string
	Status     string
}

func (r *ListRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.ParseOptionalDate(r.From); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "from",
			Message: "from must be in YYYY-MM-DD format",
		})
	}
	if _, ok := validator.ParseOptionalDate(r.To); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "to",
			Message: "to must be in YYYY-MM-DD format",
		})
	}
	if !validator.IsEmpty(r.EmployeeID) && !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}
	if !validator.IsEmpty(r.CompanyID) && !validator.IsValidUUID(r.CompanyID) {
		errs = append(errs, validator.ValidationError{
			Field:   "company_id",
			Message: "company_id must be a valid UUID",
		})
	}
	if !validator.IsEmpty(r.Status) && !Status(r.Status).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be PRESENT, ABSENT or HALF_DAY",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ========================================
// RESPONSE DTOs
// ========================================

type RecordResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeCode string  `json:"employee_code"`
	EmployeeName string  `json:"employee_name"`
	CompanyName  string  `json:"company_name"`
	Date         string  `json:"date"`
	Status       string  `json:"status"`
	StatusLabel  string  `json:"status_label"`
	HasOvertime  bool    `json:"has_ot"`
	OTHours      *string `json:"ot_hours"`
	OTRemarks    *string `json:"ot_remarks"`
	Remarks      *string `json:"remarks"`
	MarkedBy     string  `json:"marked_by"`
	MarkedByName string  `json:"marked_by_name,omitempty"`
	MarkedAt     string  `json:"marked_at"`
	IsEdited     bool    `json:"is_edited"`
	EditedBy     *string `json:"edited_by"`
	EditedAt     *string `json:"edited_at"`
}

func NewRecordResponse(rec Record) RecordResponse {
	resp := RecordResponse{
		ID:           rec.ID,
		EmployeeID:   rec.EmployeeID,
		EmployeeCode: rec.Employee.EmployeeCode,
		CompanyName:  rec.Employee.CompanyName,
		Date:         rec.Date.Format(validator.DateLayout),
		Status:       string(rec.Status),
		StatusLabel:  rec.Status.Label(),
		HasOvertime:  rec.HasOvertime,
		OTRemarks:    rec.OTRemarks,
		Remarks:      rec.Remarks,
		MarkedBy:     rec.MarkedBy,
		MarkedByName: rec.MarkedByName,
		MarkedAt:     rec.MarkedAt.Format(time.RFC3339),
		IsEdited:     rec.IsEdited,
		EditedBy:     rec.EditedBy,
	}
	if rec.Employee.ID != "" {
		resp.EmployeeName = rec.Employee.FullName()
	}
	if rec.OTHours != nil {
		h := rec.OTHours.StringFixed(2)
		resp.OTHours = &h
	}
	if rec.EditedAt != nil {
		e := rec.EditedAt.Format(time.RFC3339)
		resp.EditedAt = &e
	}
	return resp
}

type UpsertResponse struct {
	Created bool           `json:"created"`
	Record  RecordResponse `json:"record"`
}

type BatchFailureResponse struct {
	Index      int    `json:"index"`
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
	Reason     string `json:"reason"`
}

type BulkUpsertResponse struct {
	Succeeded int                    `json:"succeeded"`
	Created   int                    `json:"created"`
	Updated   int                    `json:"updated"`
	Failed    []BatchFailureResponse `json:"failed"`
}

func NewBulkUpsertResponse(result BulkUpsertResult) BulkUpsertResponse {
	resp := BulkUpsertResponse{
		Succeeded: result.Succeeded,
		Created:   result.Created,
		Updated:   result.Updated,
		Failed:    make([]BatchFailureResponse, 0, len(result.Failed)),
	}
	for _, f := range result.Failed {
		resp.Failed = append(resp.Failed, BatchFailureResponse{
			Index:      f.Index,
			EmployeeID: f.EmployeeID,
			Date:       f.Date.Format(validator.DateLayout),
			Reason:     f.Err.Error(),
		})
	}
	return resp
}

type DailySummaryResponse struct {
	Date            string `json:"date"`
	ActiveEmployees int    `json:"active_employees"`
	Marked          int    `json:"marked"`
	Unmarked        int    `json:"unmarked"`
	Present         int    `json:"present"`
	HalfDay         int    `json:"half_day"`
	Absent          int    `json:"absent"`
	Overtime        int    `json:"overtime"`
}

func NewDailySummaryResponse(s DailySummary) DailySummaryResponse {
	return DailySummaryResponse{
		Date:            s.Date.Format(validator.DateLayout),
		ActiveEmployees: s.ActiveEmployees,
		Marked:          s.Marked,
		Unmarked:        s.Unmarked,
		Present:         s.Present,
		HalfDay:         s.HalfDay,
		Absent:          s.Absent,
		Overtime:        s.Overtime,
	}
}
