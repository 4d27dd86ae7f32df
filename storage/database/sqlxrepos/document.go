package sqlxrepos

import (
	"context"

	"github.com/rominswe/pg-progress-sub002/core"
	"github.com/rominswe/pg-progress-sub002/core/milestone"
)

// documentRepository reads the document ledger owned by the submission service.
type documentRepository struct {
	exec core.DBExecutor
}

var _ milestone.DocumentReader = (*documentRepository)(nil) // interface compliance check

func NewDocumentRepository(exec core.DBExecutor) *documentRepository {
	return &documentRepository{exec: exec}
}

func (repo documentRepository) QueryStudentDocuments(ctx context.Context, studentID string) ([]milestone.DocumentRecord, error) {
	q := `SELECT id, student_id, name, document_type, status, uploaded_at
		FROM documents WHERE student_id = $1
		ORDER BY uploaded_at DESC, id`

	docs := make([]milestone.DocumentRecord, 0)
	if err := repo.exec.SelectContext(ctx, &docs, q, studentID); err != nil {
		return nil, wrapErr(err, "querying student documents")
	}
	for i := range docs {
		docs[i].UploadedAt = docs[i].UploadedAt.UTC()
	}
	return docs, nil
}
