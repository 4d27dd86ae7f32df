package milestone

import (
	"time"

	"github.com/rominswe/pg-progress-sub002/core"
)

// FallbackAlertLeadDays applies when neither the override nor the template set a lead time.
const FallbackAlertLeadDays = 7

// FinalThesisType is the document type whose milestone only completes on a Completed document.
const FinalThesisType = "Final Thesis"

// Status is the derived state of one milestone for one student.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// DocumentStatus is the review state of a submitted document.
type DocumentStatus string

const (
	DocumentPending   DocumentStatus = "Pending"
	DocumentApproved  DocumentStatus = "Approved"
	DocumentRejected  DocumentStatus = "Rejected"
	DocumentCompleted DocumentStatus = "Completed"
)

var DocumentStatuses = []DocumentStatus{DocumentPending, DocumentApproved, DocumentRejected, DocumentCompleted}

func (s DocumentStatus) Valid() bool {
	for _, st := range DocumentStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// Template is the canonical, ordered definition of a milestone stage.
type Template struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Type           string    `json:"type"`
	DocumentType   string    `json:"document_type"`
	SortOrder      int       `json:"sort_order"`
	DefaultDueDays *int      `json:"default_due_days"`
	AlertLeadDays  *int      `json:"alert_lead_days"`
	IsActive       bool      `json:"is_active"`
	ProgramID      *string   `json:"program_id"`
	DepartmentID   *string   `json:"department_id"`
	CreatedAt      time.Time `json:"created_at"` // UTC
	UpdatedAt      time.Time `json:"updated_at"` // UTC
}

// IsGlobal reports whether the template applies to every student.
func (t Template) IsGlobal() bool {
	return t.ProgramID == nil && t.DepartmentID == nil
}

// MatchesScope reports whether the template is visible under the given scope filter.
// Global templates always match; a scoped template matches when every scope it sets equals the filter's.
func (t Template) MatchesScope(filter ScopeFilter) bool {
	if filter.IsEmpty() || t.IsGlobal() {
		return true
	}
	if t.ProgramID != nil && *t.ProgramID != filter.ProgramID {
		return false
	}
	if t.DepartmentID != nil && *t.DepartmentID != filter.DepartmentID {
		return false
	}
	return true
}

// NewTemplate contains information needed to create a new Template.
type NewTemplate struct {
	Name           string  `json:"name" yaml:"name" validate:"required,notblank,max=255"`
	Description    string  `json:"description" yaml:"description"`
	Type           string  `json:"type" yaml:"type" validate:"max=100"`
	DocumentType   string  `json:"document_type" yaml:"document_type" validate:"max=255"`
	SortOrder      *int    `json:"sort_order" yaml:"sort_order" validate:"omitempty,min=0"`
	DefaultDueDays *int    `json:"default_due_days" yaml:"default_due_days" validate:"omitempty,min=0"`
	AlertLeadDays  *int    `json:"alert_lead_days" yaml:"alert_lead_days" validate:"omitempty,min=0"`
	ProgramID      *string `json:"program_id" yaml:"program_id" validate:"omitempty,notblank"`
	DepartmentID   *string `json:"department_id" yaml:"department_id" validate:"omitempty,notblank"`
}

func (nt *NewTemplate) Clean() {
	nt.Name = core.CleanString(nt.Name)
	nt.Type = core.CleanString(nt.Type)
	nt.DocumentType = core.CleanString(nt.DocumentType)
	if nt.DocumentType == "" {
		nt.DocumentType = nt.Name
	}
	nt.ProgramID = cleanStringPtr(nt.ProgramID)
	nt.DepartmentID = cleanStringPtr(nt.DepartmentID)
}

// UpdateTemplate defines what information may be provided to modify an existing Template.
// nil fields are left untouched.
type UpdateTemplate struct {
	Name           *string `json:"name" validate:"omitempty,notblank,max=255"`
	Description    *string `json:"description"`
	Type           *string `json:"type" validate:"omitempty,max=100"`
	DocumentType   *string `json:"document_type" validate:"omitempty,notblank,max=255"`
	SortOrder      *int    `json:"sort_order" validate:"omitempty,min=0"`
	DefaultDueDays *int    `json:"default_due_days" validate:"omitempty,min=0"`
	AlertLeadDays  *int    `json:"alert_lead_days" validate:"omitempty,min=0"`
	IsActive       *bool   `json:"is_active"`
	ProgramID      *string `json:"program_id" validate:"omitempty,notblank"`
	DepartmentID   *string `json:"department_id" validate:"omitempty,notblank"`
}

func (ut *UpdateTemplate) Clean() {
	ut.Name = cleanStringPtr(ut.Name)
	ut.Type = cleanStringPtr(ut.Type)
	ut.DocumentType = cleanStringPtr(ut.DocumentType)
	ut.ProgramID = cleanStringPtr(ut.ProgramID)
	ut.DepartmentID = cleanStringPtr(ut.DepartmentID)
}

// Apply copies the set fields onto tmpl.
func (ut UpdateTemplate) Apply(tmpl *Template) {
	if ut.Name != nil {
		tmpl.Name = *ut.Name
	}
	if ut.Description != nil {
		tmpl.Description = *ut.Description
	}
	if ut.Type != nil {
		tmpl.Type = *ut.Type
	}
	if ut.DocumentType != nil {
		tmpl.DocumentType = *ut.DocumentType
	}
	if ut.SortOrder != nil {
		tmpl.SortOrder = *ut.SortOrder
	}
	if ut.DefaultDueDays != nil {
		tmpl.DefaultDueDays = intPtr(*ut.DefaultDueDays)
	}
	if ut.AlertLeadDays != nil {
		tmpl.AlertLeadDays = intPtr(*ut.AlertLeadDays)
	}
	if ut.IsActive != nil {
		tmpl.IsActive = *ut.IsActive
	}
	if ut.ProgramID != nil {
		tmpl.ProgramID = strPtr(*ut.ProgramID)
	}
	if ut.DepartmentID != nil {
		tmpl.DepartmentID = strPtr(*ut.DepartmentID)
	}
}

// ScopeFilter narrows templates to a program and/or department.
type ScopeFilter struct {
	ProgramID    string `query:"program_id"`
	DepartmentID string `query:"department_id"`
}

func (sf ScopeFilter) IsEmpty() bool {
	return sf.ProgramID == "" && sf.DepartmentID == ""
}

func (sf *ScopeFilter) Clean() {
	sf.ProgramID = core.CleanString(sf.ProgramID)
	sf.DepartmentID = core.CleanString(sf.DepartmentID)
}

// Override is a per-student deviation from a template's default deadline and reminder timing.
type Override struct {
	ID            string    `json:"id"`
	StudentID     string    `json:"student_id"`
	TemplateID    string    `json:"template_id"`
	DeadlineDate  time.Time `json:"deadline_date"`
	Reason        string    `json:"reason"`
	UpdatedBy     string    `json:"updated_by"`
	AlertLeadDays *int      `json:"alert_lead_days"`
	CreatedAt     time.Time `json:"created_at"` // UTC
	UpdatedAt     time.Time `json:"updated_at"` // UTC
}

// UpsertOverride contains information needed to create or update a student's Override.
type UpsertOverride struct {
	MilestoneName string     `json:"milestone_name" validate:"required,notblank"`
	StudentID     string     `json:"student_id" validate:"required,notblank"`
	DeadlineDate  *time.Time `json:"deadline_date" validate:"required"`
	Reason        string     `json:"reason"`
	UpdatedBy     string     `json:"updated_by" validate:"required,notblank"`
	AlertLeadDays *int       `json:"alert_lead_days" validate:"omitempty,min=0"`
}

func (uo *UpsertOverride) Clean() {
	uo.MilestoneName = core.CleanString(uo.MilestoneName)
	uo.StudentID = core.CleanString(uo.StudentID)
	uo.Reason = core.CleanString(uo.Reason)
	uo.UpdatedBy = core.CleanString(uo.UpdatedBy)
}

// OverrideView is an Override enriched with display fields for staff-facing listings.
type OverrideView struct {
	Override
	TemplateName   string `json:"template_name"`
	TemplateType   string `json:"template_type"`
	TemplateActive bool   `json:"template_active"`
	StudentName    string `json:"student_name"`
	UpdatedByName  string `json:"updated_by_name"`
}

// DocumentRecord is one submission event, as stored by the document ledger.
type DocumentRecord struct {
	ID           string         `json:"id" db:"id"`
	StudentID    string         `json:"student_id" db:"student_id"`
	Name         string         `json:"name" db:"name"`
	DocumentType string         `json:"document_type" db:"document_type"`
	Status       DocumentStatus `json:"status" db:"status"`
	UploadedAt   time.Time      `json:"uploaded_at" db:"uploaded_at"`
}

// GroupKey is the key documents are matched to templates by.
func (d DocumentRecord) GroupKey() string {
	if key := core.CleanString(d.DocumentType); key != "" {
		return key
	}
	return core.CleanString(d.Name)
}

// FeedEntry is the derived status of one template for one student. It is never persisted.
type FeedEntry struct {
	Template               Template        `json:"template"`
	Status                 Status          `json:"status"`
	DocumentStatus         *DocumentStatus `json:"document_status"`
	SubmittedAt            *time.Time      `json:"submitted_at"`
	Override               *Override       `json:"override"`
	EffectiveAlertLeadDays int             `json:"effective_alert_lead_days"`
	DueDate                *time.Time      `json:"due_date"`
	ReminderAt             *time.Time      `json:"reminder_at"`
	ReminderDue            bool            `json:"reminder_due"`
}

// FeedOptions tune a student feed lookup.
type FeedOptions struct {
	Scope ScopeFilter
	// ReferenceDate anchors template default_due_days (eg. the candidature start date).
	ReferenceDate *time.Time
}

func cleanStringPtr(s *string) *string {
	if s == nil {
		return nil
	}
	return strPtr(core.CleanString(*s))
}

func intPtr(i int) *int              { return &i }
func strPtr(s string) *string        { return &s }
func timePtr(t time.Time) *time.Time { return &t }
