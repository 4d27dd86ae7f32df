package milestone

import (
	"context"
	"errors"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/rominswe/pg-progress-sub002/core"
)

var (
	// errors
	ErrTemplateNotFound = errors.New("milestone template not found")
	ErrNameExists       = errors.New("an active milestone template with this name already exists")
)

// nowFunc is swapped in tests.
var nowFunc = time.Now

type (
	// TemplateQuery selects a single template. ID wins over Name when both are set.
	TemplateQuery struct {
		ID         string
		Name       string
		ActiveOnly bool
	}

	TemplateRepository interface {
		// QueryTemplates returns templates ordered by sort_order then ID.
		// Templates scoped outside filter are left out; global templates always match.
		QueryTemplates(ctx context.Context, filter ScopeFilter, activeOnly bool) ([]Template, error)
		// GetTemplate returns ErrTemplateNotFound when nothing matches.
		GetTemplate(ctx context.Context, q TemplateQuery) (Template, error)
		// CheckNameUniqueness returns ErrNameExists if another active template is called name.
		CheckNameUniqueness(ctx context.Context, name string, excludedIDs ...string) error
		// CreateTemplate inserts tmpl. When autoSortOrder is set, sort_order is the catalogue maximum + 1.
		CreateTemplate(ctx context.Context, tmpl Template, autoSortOrder bool) (Template, error)
		UpdateTemplate(ctx context.Context, tmpl Template) (Template, error)
	}

	OverrideRepository interface {
		// UpsertOverride atomically inserts or replaces the override keyed by (student_id, template_id).
		UpsertOverride(ctx context.Context, o Override) (Override, error)
		// QueryOverrides lists overrides, earliest deadline first. A blank studentID lists every student's.
		QueryOverrides(ctx context.Context, studentID string) ([]OverrideView, error)
		QueryStudentOverrides(ctx context.Context, studentID string) ([]Override, error)
	}

	DocumentReader interface {
		QueryStudentDocuments(ctx context.Context, studentID string) ([]DocumentRecord, error)
	}

	Options struct {
		FinalThesisType       string
		FallbackAlertLeadDays int
	}

	Service struct {
		templates TemplateRepository
		overrides OverrideRepository
		documents DocumentReader
		validate  *validator.Validate
		trans     ut.Translator
		opts      Options
	}
)

func NewService(
	templates TemplateRepository,
	overrides OverrideRepository,
	documents DocumentReader,
	validate *validator.Validate,
	trans ut.Translator,
	opts Options,
) *Service {
	if opts.FinalThesisType == "" {
		opts.FinalThesisType = FinalThesisType
	}
	if opts.FallbackAlertLeadDays <= 0 {
		opts.FallbackAlertLeadDays = FallbackAlertLeadDays
	}
	return &Service{
		templates: templates,
		overrides: overrides,
		documents: documents,
		validate:  validate,
		trans:     trans,
		opts:      opts,
	}
}

func templateNotFound(key string) error {
	return core.NewNotFoundError("milestone template", key, "Milestone template not found")
}

func trapNameErr(err error) error {
	if err == ErrNameExists {
		return core.NewValidationError(err, core.FieldError{Field: "name", Error: err.Error()})
	}
	return err
}

func (svc *Service) checkUniqueness(ctx context.Context, name string, excludedIDs ...string) error {
	return trapNameErr(svc.templates.CheckNameUniqueness(ctx, name, excludedIDs...))
}

// ListTemplates returns the active catalogue visible under filter, in stage order.
func (svc *Service) ListTemplates(ctx context.Context, filter ScopeFilter) ([]Template, error) {
	filter.Clean()
	return svc.templates.QueryTemplates(ctx, filter, true)
}

func (svc *Service) CreateTemplate(ctx context.Context, nt NewTemplate) (Template, error) {
	nt.Clean()
	if err := core.ValidateStruct(svc.validate, svc.trans, nt); err != nil {
		return Template{}, err
	}
	if err := svc.checkUniqueness(ctx, nt.Name); err != nil {
		return Template{}, err
	}

	now := nowFunc().UTC()
	tmpl := Template{
		Name:           nt.Name,
		Description:    nt.Description,
		Type:           nt.Type,
		DocumentType:   nt.DocumentType,
		DefaultDueDays: nt.DefaultDueDays,
		AlertLeadDays:  nt.AlertLeadDays,
		IsActive:       true,
		ProgramID:      nt.ProgramID,
		DepartmentID:   nt.DepartmentID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if nt.SortOrder != nil {
		tmpl.SortOrder = *nt.SortOrder
	}
	tmpl, err := svc.templates.CreateTemplate(ctx, tmpl, nt.SortOrder == nil)
	return tmpl, trapNameErr(err)
}

// UpdateTemplate applies the set fields of upd. Setting is_active re-activates a soft-deleted template.
func (svc *Service) UpdateTemplate(ctx context.Context, id string, upd UpdateTemplate) (Template, error) {
	upd.Clean()
	if err := core.ValidateStruct(svc.validate, svc.trans, upd); err != nil {
		return Template{}, err
	}
	tmpl, err := svc.getTemplate(ctx, TemplateQuery{ID: id})
	if err != nil {
		return Template{}, err
	}

	upd.Apply(&tmpl)
	if tmpl.IsActive {
		if err := svc.checkUniqueness(ctx, tmpl.Name, tmpl.ID); err != nil {
			return Template{}, err
		}
	}
	tmpl.UpdatedAt = nowFunc().UTC()
	tmpl, err = svc.templates.UpdateTemplate(ctx, tmpl)
	return tmpl, trapNameErr(err)
}

// DeleteTemplate soft-deletes a template. Its overrides are kept but no longer reach the feed.
func (svc *Service) DeleteTemplate(ctx context.Context, id string) (Template, error) {
	tmpl, err := svc.getTemplate(ctx, TemplateQuery{ID: id})
	if err != nil {
		return Template{}, err
	}
	if !tmpl.IsActive {
		return tmpl, nil
	}
	tmpl.IsActive = false
	tmpl.UpdatedAt = nowFunc().UTC()
	return svc.templates.UpdateTemplate(ctx, tmpl)
}

// FindTemplateByName resolves an active template by its exact (trimmed) name.
func (svc *Service) FindTemplateByName(ctx context.Context, name string) (Template, error) {
	name = core.CleanString(name)
	if name == "" {
		return Template{}, templateNotFound(name)
	}
	return svc.getTemplate(ctx, TemplateQuery{Name: name, ActiveOnly: true})
}

// FindTemplateByID resolves an active template by its identifier.
func (svc *Service) FindTemplateByID(ctx context.Context, id string) (Template, error) {
	return svc.getTemplate(ctx, TemplateQuery{ID: core.CleanString(id), ActiveOnly: true})
}

func (svc *Service) getTemplate(ctx context.Context, q TemplateQuery) (Template, error) {
	key := q.ID
	if key == "" {
		key = q.Name
	}
	if key == "" {
		return Template{}, templateNotFound(key)
	}
	tmpl, err := svc.templates.GetTemplate(ctx, q)
	if err != nil {
		if err == ErrTemplateNotFound {
			return Template{}, templateNotFound(key)
		}
		return Template{}, err
	}
	return tmpl, nil
}

// UpsertOverride sets a student's deadline for the named milestone.
// Input is validated before anything is read or written, and the write is a single atomic upsert
// keyed by (student_id, template_id), so concurrent callers converge on one row.
func (svc *Service) UpsertOverride(ctx context.Context, uo UpsertOverride) (Override, error) {
	uo.Clean()
	if err := core.ValidateStruct(svc.validate, svc.trans, uo); err != nil {
		return Override{}, err
	}

	tmpl, err := svc.FindTemplateByName(ctx, uo.MilestoneName)
	if err != nil {
		return Override{}, err
	}

	lead := EffectiveAlertLeadDaysOr(&Override{AlertLeadDays: uo.AlertLeadDays}, tmpl, svc.opts.FallbackAlertLeadDays)
	now := nowFunc().UTC()
	return svc.overrides.UpsertOverride(ctx, Override{
		StudentID:     uo.StudentID,
		TemplateID:    tmpl.ID,
		DeadlineDate:  uo.DeadlineDate.UTC(),
		Reason:        uo.Reason,
		UpdatedBy:     uo.UpdatedBy,
		AlertLeadDays: intPtr(lead),
		CreatedAt:     now,
		UpdatedAt:     now,
	})
}

// ListOverrides returns the overrides of a student, or of everyone when studentID is blank,
// earliest deadline first. Overrides of soft-deleted templates are included and flagged through TemplateActive.
func (svc *Service) ListOverrides(ctx context.Context, studentID string) ([]OverrideView, error) {
	return svc.overrides.QueryOverrides(ctx, core.CleanString(studentID))
}

// StudentFeed derives a student's milestone timeline from the catalogue, their documents and overrides.
func (svc *Service) StudentFeed(ctx context.Context, studentID string, opts FeedOptions) ([]FeedEntry, error) {
	studentID = core.CleanString(studentID)
	if studentID == "" {
		return nil, core.NewFieldError("student_id", "this field is required")
	}
	opts.Scope.Clean()

	templates, err := svc.templates.QueryTemplates(ctx, opts.Scope, true)
	if err != nil {
		return nil, err
	}
	docs, err := svc.documents.QueryStudentDocuments(ctx, studentID)
	if err != nil {
		return nil, err
	}
	overrides, err := svc.overrides.QueryStudentOverrides(ctx, studentID)
	if err != nil {
		return nil, err
	}

	return Derive(templates, docs, overrides, DeriveOptions{
		FinalThesisType:       svc.opts.FinalThesisType,
		FallbackAlertLeadDays: svc.opts.FallbackAlertLeadDays,
		ReferenceDate:         opts.ReferenceDate,
		Now:                   nowFunc().UTC(),
	}), nil
}
