package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/rominswe/pg-progress-sub002/core/milestone"
)

type overrideRepository struct {
	db *DB
}

var _ milestone.OverrideRepository = (*overrideRepository)(nil) // interface compliance check

func NewOverrideRepository(db *DB) *overrideRepository {
	return &overrideRepository{db: db}
}

// UpsertOverride holds the table lock across the lookup and the write, mirroring ON CONFLICT.
func (repo *overrideRepository) UpsertOverride(_ context.Context, o milestone.Override) (milestone.Override, error) {
	tbl := repo.db.override
	tbl.Lock()
	defer tbl.Unlock()

	key := overrideKey{studentID: o.StudentID, templateID: o.TemplateID}
	if existing, ok := tbl.table[key]; ok {
		existing.DeadlineDate = o.DeadlineDate.UTC()
		existing.Reason = o.Reason
		existing.UpdatedBy = o.UpdatedBy
		existing.AlertLeadDays = o.AlertLeadDays
		existing.UpdatedAt = o.UpdatedAt.UTC()
		return *existing, nil
	}

	o.ID = uuid.New().String()
	o.DeadlineDate = o.DeadlineDate.UTC()
	tbl.table[key] = &o
	return o, nil
}

func (repo *overrideRepository) studentOverrides(studentID string) []milestone.Override {
	tbl := repo.db.override
	tbl.RLock()
	defer tbl.RUnlock()

	overrides := make([]milestone.Override, 0)
	for key, o := range tbl.table {
		if studentID == "" || key.studentID == studentID {
			overrides = append(overrides, *o)
		}
	}
	sort.Slice(overrides, func(i, j int) bool {
		a, b := overrides[i], overrides[j]
		if !a.DeadlineDate.Equal(b.DeadlineDate) {
			return a.DeadlineDate.Before(b.DeadlineDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return overrides
}

func (repo *overrideRepository) QueryOverrides(_ context.Context, studentID string) ([]milestone.OverrideView, error) {
	overrides := repo.studentOverrides(studentID)

	tmpls := repo.db.template
	tmpls.RLock()
	defer tmpls.RUnlock()

	views := make([]milestone.OverrideView, 0, len(overrides))
	for _, o := range overrides {
		view := milestone.OverrideView{
			Override:      o,
			StudentName:   repo.db.personName(o.StudentID),
			UpdatedByName: repo.db.personName(o.UpdatedBy),
		}
		// mirrors the inner join on milestone_templates
		t, ok := tmpls.table[o.TemplateID]
		if !ok {
			continue
		}
		view.TemplateName = t.Name
		view.TemplateType = t.Type
		view.TemplateActive = t.IsActive
		views = append(views, view)
	}
	return views, nil
}

func (repo *overrideRepository) QueryStudentOverrides(_ context.Context, studentID string) ([]milestone.Override, error) {
	if studentID == "" {
		return []milestone.Override{}, nil
	}
	return repo.studentOverrides(studentID), nil
}
