package inmemdb

import (
	"context"

	"github.com/rominswe/pg-progress-sub002/core/milestone"
)

type documentRepository struct {
	db *documentTable
}

var _ milestone.DocumentReader = (*documentRepository)(nil) // interface compliance check

func NewDocumentRepository(db *DB) *documentRepository {
	return &documentRepository{db: db.document}
}

func (repo *documentRepository) QueryStudentDocuments(_ context.Context, studentID string) ([]milestone.DocumentRecord, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	docs := make([]milestone.DocumentRecord, 0)
	for _, doc := range repo.db.table {
		if doc.StudentID == studentID {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}
