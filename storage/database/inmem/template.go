package inmemdb

import (
	"context"

	"github.com/google/uuid"

	"github.com/rominswe/pg-progress-sub002/core/milestone"
)

type templateRepository struct {
	db *templateTable
}

var _ milestone.TemplateRepository = (*templateRepository)(nil) // interface compliance check

func NewTemplateRepository(db *DB) *templateRepository {
	return &templateRepository{db: db.template}
}

func (repo *templateRepository) query() []milestone.Template {
	templates := make([]milestone.Template, 0, len(repo.db.table))
	for _, t := range repo.db.table {
		templates = append(templates, *t)
	}
	milestone.SortTemplates(templates)
	return templates
}

func (repo *templateRepository) QueryTemplates(_ context.Context, filter milestone.ScopeFilter, activeOnly bool) ([]milestone.Template, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	templates := make([]milestone.Template, 0, len(repo.db.table))
	for _, t := range repo.query() {
		if activeOnly && !t.IsActive {
			continue
		}
		if t.MatchesScope(filter) {
			templates = append(templates, t)
		}
	}
	return templates, nil
}

func (repo *templateRepository) GetTemplate(_ context.Context, q milestone.TemplateQuery) (milestone.Template, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if q.ID != "" {
		if t, ok := repo.db.table[q.ID]; ok && (t.IsActive || !q.ActiveOnly) {
			return *t, nil
		}
		return milestone.Template{}, milestone.ErrTemplateNotFound
	}

	var found *milestone.Template
	for _, t := range repo.query() {
		t := t
		if t.Name != q.Name || (q.ActiveOnly && !t.IsActive) {
			continue
		}
		if found == nil || (t.IsActive && !found.IsActive) {
			found = &t
		}
	}
	if found == nil || q.Name == "" {
		return milestone.Template{}, milestone.ErrTemplateNotFound
	}
	return *found, nil
}

func (repo *templateRepository) nameTaken(name string, excludedIDs ...string) bool {
	for id, t := range repo.db.table {
		if !t.IsActive || t.Name != name || contains(excludedIDs, id) {
			continue
		}
		return true
	}
	return false
}

func (repo *templateRepository) CheckNameUniqueness(_ context.Context, name string, excludedIDs ...string) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if repo.nameTaken(name, excludedIDs...) {
		return milestone.ErrNameExists
	}
	return nil
}

func (repo *templateRepository) CreateTemplate(_ context.Context, tmpl milestone.Template, autoSortOrder bool) (milestone.Template, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if tmpl.IsActive && repo.nameTaken(tmpl.Name) {
		return milestone.Template{}, milestone.ErrNameExists
	}
	if autoSortOrder {
		tmpl.SortOrder = 0
		for _, t := range repo.db.table {
			if t.SortOrder > tmpl.SortOrder {
				tmpl.SortOrder = t.SortOrder
			}
		}
		tmpl.SortOrder++
	}
	tmpl.ID = uuid.New().String()
	repo.db.table[tmpl.ID] = &tmpl
	return tmpl, nil
}

func (repo *templateRepository) UpdateTemplate(_ context.Context, tmpl milestone.Template) (milestone.Template, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[tmpl.ID]; !ok {
		return milestone.Template{}, milestone.ErrTemplateNotFound
	}
	if tmpl.IsActive && repo.nameTaken(tmpl.Name, tmpl.ID) {
		return milestone.Template{}, milestone.ErrNameExists
	}
	repo.db.table[tmpl.ID] = &tmpl
	return tmpl, nil
}

func contains(ids []string, id string) bool {
	for _, i := range ids {
		if i == id {
			return true
		}
	}
	return false
}
