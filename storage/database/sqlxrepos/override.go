package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"github.com/rominswe/pg-progress-sub002/core"
	"github.com/rominswe/pg-progress-sub002/core/milestone"
)

const overrideColumns = `id, student_id, template_id, deadline_date, reason, updated_by, alert_lead_days, created_at, updated_at`

type overrideRow struct {
	ID            string    `db:"id"`
	StudentID     string    `db:"student_id"`
	TemplateID    string    `db:"template_id"`
	DeadlineDate  time.Time `db:"deadline_date"`
	Reason        string    `db:"reason"`
	UpdatedBy     string    `db:"updated_by"`
	AlertLeadDays null.Int  `db:"alert_lead_days"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type overrideViewRow struct {
	overrideRow
	TemplateName   string `db:"template_name"`
	TemplateType   string `db:"template_type"`
	TemplateActive bool   `db:"template_active"`
	StudentName    string `db:"student_name"`
	UpdatedByName  string `db:"updated_by_name"`
}

type overrideRepository struct {
	exec core.DBExecutor
}

var _ milestone.OverrideRepository = (*overrideRepository)(nil) // interface compliance check

func NewOverrideRepository(exec core.DBExecutor) *overrideRepository {
	return &overrideRepository{exec: exec}
}

func (repo overrideRepository) unboil(row overrideRow) milestone.Override {
	return milestone.Override{
		ID:            row.ID,
		StudentID:     row.StudentID,
		TemplateID:    row.TemplateID,
		DeadlineDate:  row.DeadlineDate.UTC(),
		Reason:        row.Reason,
		UpdatedBy:     row.UpdatedBy,
		AlertLeadDays: row.AlertLeadDays.Ptr(),
		CreatedAt:     row.CreatedAt.UTC(),
		UpdatedAt:     row.UpdatedAt.UTC(),
	}
}

// UpsertOverride relies on the (student_id, template_id) unique constraint so that concurrent
// writers for the same pair end with exactly one row holding the last write.
func (repo overrideRepository) UpsertOverride(ctx context.Context, o milestone.Override) (milestone.Override, error) {
	q := `INSERT INTO milestone_overrides (` + overrideColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT ON CONSTRAINT milestone_overrides_student_template_key DO UPDATE SET
			deadline_date = EXCLUDED.deadline_date,
			reason = EXCLUDED.reason,
			updated_by = EXCLUDED.updated_by,
			alert_lead_days = EXCLUDED.alert_lead_days,
			updated_at = EXCLUDED.updated_at
		RETURNING ` + overrideColumns

	var row overrideRow
	err := repo.exec.GetContext(ctx, &row, q,
		uuid.New().String(), o.StudentID, o.TemplateID, o.DeadlineDate.UTC(), o.Reason, o.UpdatedBy,
		null.IntFromPtr(o.AlertLeadDays), o.CreatedAt.UTC(), o.UpdatedAt.UTC(),
	)
	if err != nil {
		return milestone.Override{}, wrapErr(err, "upserting milestone override")
	}
	return repo.unboil(row), nil
}

func (repo overrideRepository) QueryOverrides(ctx context.Context, studentID string) ([]milestone.OverrideView, error) {
	q := `SELECT o.id, o.student_id, o.template_id, o.deadline_date, o.reason, o.updated_by, o.alert_lead_days,
			o.created_at, o.updated_at,
			t.name AS template_name, t.type AS template_type, t.is_active AS template_active,
			COALESCE(s.name, '') AS student_name, COALESCE(u.name, '') AS updated_by_name
		FROM milestone_overrides o
		JOIN milestone_templates t ON t.id = o.template_id
		LEFT JOIN users s ON s.id = o.student_id
		LEFT JOIN users u ON u.id = o.updated_by
		WHERE ($1::text = '' OR o.student_id = $1::text)
		ORDER BY o.deadline_date, o.created_at, o.id`

	var rows []overrideViewRow
	if err := repo.exec.SelectContext(ctx, &rows, q, studentID); err != nil {
		return nil, wrapErr(err, "querying milestone overrides")
	}
	views := make([]milestone.OverrideView, 0, len(rows))
	for _, row := range rows {
		views = append(views, milestone.OverrideView{
			Override:       repo.unboil(row.overrideRow),
			TemplateName:   row.TemplateName,
			TemplateType:   row.TemplateType,
			TemplateActive: row.TemplateActive,
			StudentName:    row.StudentName,
			UpdatedByName:  row.UpdatedByName,
		})
	}
	return views, nil
}

func (repo overrideRepository) QueryStudentOverrides(ctx context.Context, studentID string) ([]milestone.Override, error) {
	q := `SELECT ` + overrideColumns + ` FROM milestone_overrides WHERE student_id = $1 ORDER BY deadline_date, created_at, id`

	var rows []overrideRow
	if err := repo.exec.SelectContext(ctx, &rows, q, studentID); err != nil {
		return nil, wrapErr(err, "querying student milestone overrides")
	}
	overrides := make([]milestone.Override, 0, len(rows))
	for _, row := range rows {
		overrides = append(overrides, repo.unboil(row))
	}
	return overrides, nil
}
