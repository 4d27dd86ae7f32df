package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/volatiletech/null/v8"

	"github.com/rominswe/pg-progress-sub002/core"
	"github.com/rominswe/pg-progress-sub002/core/milestone"
)

const (
	templateColumns = `id, name, description, type, document_type, sort_order, default_due_days, alert_lead_days,
		is_active, program_id, department_id, created_at, updated_at`
	activeNameKey = "milestone_templates_active_name_key"
)

type templateRow struct {
	ID             string      `db:"id"`
	Name           string      `db:"name"`
	Description    string      `db:"description"`
	Type           string      `db:"type"`
	DocumentType   string      `db:"document_type"`
	SortOrder      int         `db:"sort_order"`
	DefaultDueDays null.Int    `db:"default_due_days"`
	AlertLeadDays  null.Int    `db:"alert_lead_days"`
	IsActive       bool        `db:"is_active"`
	ProgramID      null.String `db:"program_id"`
	DepartmentID   null.String `db:"department_id"`
	CreatedAt      time.Time   `db:"created_at"`
	UpdatedAt      time.Time   `db:"updated_at"`
}

type templateRepository struct {
	exec core.DBExecutor
}

var _ milestone.TemplateRepository = (*templateRepository)(nil) // interface compliance check

func NewTemplateRepository(exec core.DBExecutor) *templateRepository {
	return &templateRepository{exec: exec}
}

func (repo templateRepository) boil(tmpl milestone.Template) templateRow {
	return templateRow{
		ID:             tmpl.ID,
		Name:           tmpl.Name,
		Description:    tmpl.Description,
		Type:           tmpl.Type,
		DocumentType:   tmpl.DocumentType,
		SortOrder:      tmpl.SortOrder,
		DefaultDueDays: null.IntFromPtr(tmpl.DefaultDueDays),
		AlertLeadDays:  null.IntFromPtr(tmpl.AlertLeadDays),
		IsActive:       tmpl.IsActive,
		ProgramID:      null.StringFromPtr(tmpl.ProgramID),
		DepartmentID:   null.StringFromPtr(tmpl.DepartmentID),
		CreatedAt:      tmpl.CreatedAt.UTC(),
		UpdatedAt:      tmpl.UpdatedAt.UTC(),
	}
}

func (repo templateRepository) unboil(row templateRow) milestone.Template {
	return milestone.Template{
		ID:             row.ID,
		Name:           row.Name,
		Description:    row.Description,
		Type:           row.Type,
		DocumentType:   row.DocumentType,
		SortOrder:      row.SortOrder,
		DefaultDueDays: row.DefaultDueDays.Ptr(),
		AlertLeadDays:  row.AlertLeadDays.Ptr(),
		IsActive:       row.IsActive,
		ProgramID:      row.ProgramID.Ptr(),
		DepartmentID:   row.DepartmentID.Ptr(),
		CreatedAt:      row.CreatedAt.UTC(),
		UpdatedAt:      row.UpdatedAt.UTC(),
	}
}

func (repo templateRepository) unboilSlice(rows []templateRow) []milestone.Template {
	templates := make([]milestone.Template, 0, len(rows))
	for _, row := range rows {
		templates = append(templates, repo.unboil(row))
	}
	return templates
}

// trapWriteErr maps the partial unique index on active names to milestone.ErrNameExists.
func (repo templateRepository) trapWriteErr(err error, msg string) error {
	if isUniqueViolation(err, activeNameKey) {
		return milestone.ErrNameExists
	}
	return trapNoRowsErr(err, milestone.ErrTemplateNotFound, msg)
}

func (repo templateRepository) QueryTemplates(ctx context.Context, filter milestone.ScopeFilter, activeOnly bool) ([]milestone.Template, error) {
	// an unscoped template matches any filter; a scoped one must agree on every scope it sets
	q := `SELECT ` + templateColumns + ` FROM milestone_templates
		WHERE (NOT $1::boolean OR is_active)
		AND (($2::text = '' AND $3::text = '')
			OR ((program_id IS NULL OR program_id = $2::text) AND (department_id IS NULL OR department_id = $3::text)))
		ORDER BY sort_order, id`

	var rows []templateRow
	if err := repo.exec.SelectContext(ctx, &rows, q, activeOnly, filter.ProgramID, filter.DepartmentID); err != nil {
		return nil, wrapErr(err, "querying milestone templates")
	}
	return repo.unboilSlice(rows), nil
}

func (repo templateRepository) GetTemplate(ctx context.Context, tq milestone.TemplateQuery) (milestone.Template, error) {
	q := `SELECT ` + templateColumns + ` FROM milestone_templates WHERE (NOT $1::boolean OR is_active)`
	args := []interface{}{tq.ActiveOnly}
	switch {
	case tq.ID != "":
		q += ` AND id = $2`
		args = append(args, tq.ID)
	case tq.Name != "":
		q += ` AND name = $2`
		args = append(args, tq.Name)
	default:
		return milestone.Template{}, milestone.ErrTemplateNotFound
	}
	// several soft-deleted templates may share a name; prefer the active one
	q += ` ORDER BY is_active DESC, updated_at DESC LIMIT 1`

	var row templateRow
	if err := repo.exec.GetContext(ctx, &row, q, args...); err != nil {
		return milestone.Template{}, trapNoRowsErr(err, milestone.ErrTemplateNotFound, "getting milestone template")
	}
	return repo.unboil(row), nil
}

func (repo templateRepository) CheckNameUniqueness(ctx context.Context, name string, excludedIDs ...string) error {
	q := `SELECT EXISTS (
		SELECT 1 FROM milestone_templates WHERE is_active AND name = $1 AND NOT (id = ANY($2))
	)`
	if excludedIDs == nil {
		excludedIDs = []string{} // a nil array binds as NULL
	}
	var exists bool
	if err := repo.exec.GetContext(ctx, &exists, q, name, pq.Array(excludedIDs)); err != nil {
		return wrapErr(err, "checking milestone template uniqueness")
	}
	if exists {
		return milestone.ErrNameExists
	}
	return nil
}

func (repo templateRepository) CreateTemplate(ctx context.Context, tmpl milestone.Template, autoSortOrder bool) (milestone.Template, error) {
	tmpl.ID = uuid.New().String()
	row := repo.boil(tmpl)

	q := `INSERT INTO milestone_templates (` + templateColumns + `)
		VALUES ($1, $2, $3, $4, $5,
			CASE WHEN $14::boolean THEN (SELECT COALESCE(MAX(sort_order), 0) + 1 FROM milestone_templates) ELSE $6::integer END,
			$7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + templateColumns

	var created templateRow
	err := repo.exec.GetContext(ctx, &created, q,
		row.ID, row.Name, row.Description, row.Type, row.DocumentType, row.SortOrder,
		row.DefaultDueDays, row.AlertLeadDays, row.IsActive, row.ProgramID, row.DepartmentID,
		row.CreatedAt, row.UpdatedAt, autoSortOrder,
	)
	if err != nil {
		return milestone.Template{}, repo.trapWriteErr(err, "inserting milestone template")
	}
	return repo.unboil(created), nil
}

func (repo templateRepository) UpdateTemplate(ctx context.Context, tmpl milestone.Template) (milestone.Template, error) {
	row := repo.boil(tmpl)
	q := `UPDATE milestone_templates SET
			name = $2, description = $3, type = $4, document_type = $5, sort_order = $6,
			default_due_days = $7, alert_lead_days = $8, is_active = $9,
			program_id = $10, department_id = $11, updated_at = $12
		WHERE id = $1
		RETURNING ` + templateColumns

	var updated templateRow
	err := repo.exec.GetContext(ctx, &updated, q,
		row.ID, row.Name, row.Description, row.Type, row.DocumentType, row.SortOrder,
		row.DefaultDueDays, row.AlertLeadDays, row.IsActive, row.ProgramID, row.DepartmentID,
		row.UpdatedAt,
	)
	if err != nil {
		return milestone.Template{}, repo.trapWriteErr(err, "updating milestone template")
	}
	return repo.unboil(updated), nil
}
