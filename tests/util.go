package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver

	"github.com/rominswe/pg-progress-sub002/core"
	"github.com/rominswe/pg-progress-sub002/core/milestone"
	"github.com/rominswe/pg-progress-sub002/storage/database"
	inmemdb "github.com/rominswe/pg-progress-sub002/storage/database/inmem"
)

// DatabaseURLEnv names the variable holding the DSN of a disposable postgres database.
const DatabaseURLEnv = "TEST_DATABASE_URL"

// NewService returns a milestone service backed by a fresh in-memory store.
func NewService(t *testing.T, opts ...milestone.Options) (*milestone.Service, *inmemdb.DB) {
	t.Helper()
	var o milestone.Options
	if len(opts) > 0 {
		o = opts[0]
	}
	db := inmemdb.Open()
	validate := validator.New()
	trans := core.NewTranslator()
	core.InitValidators(validate, trans)
	svc := milestone.NewService(
		inmemdb.NewTemplateRepository(db),
		inmemdb.NewOverrideRepository(db),
		inmemdb.NewDocumentRepository(db),
		validate, trans, o,
	)
	return svc, db
}

// PrepareDB connects to the database named by TEST_DATABASE_URL, migrates it up and empties
// every table once the test is done. The test is skipped when the variable is unset.
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()
	dsn := os.Getenv(DatabaseURLEnv)
	if dsn == "" {
		t.Skipf("%s not set", DatabaseURLEnv)
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		t.Fatalf("PrepareDB() failed to connect: %v", err)
	}
	if err = database.Migrate(db, "up"); err != nil {
		t.Fatalf("PrepareDB() failed to migrate: %v", err)
	}
	truncate := func() {
		db.MustExec(`TRUNCATE milestone_overrides, milestone_templates, documents, users CASCADE`)
	}
	truncate()
	t.Cleanup(func() {
		truncate()
		_ = db.Close()
	})
	return db
}

// CreateTemplate creates an active template through svc.
func CreateTemplate(t *testing.T, svc *milestone.Service, name string, sortOrder int, mods ...func(*milestone.NewTemplate)) milestone.Template {
	t.Helper()
	nt := milestone.NewTemplate{Name: name, SortOrder: IntPtr(sortOrder)}
	for _, mod := range mods {
		mod(&nt)
	}
	tmpl, err := svc.CreateTemplate(context.Background(), nt)
	if err != nil {
		t.Fatalf("CreateTemplate() failed: %v", err)
	}
	return tmpl
}

// Document builds a document ledger record.
func Document(id, studentID, docType string, status milestone.DocumentStatus, uploadedAt time.Time) milestone.DocumentRecord {
	return milestone.DocumentRecord{
		ID:           id,
		StudentID:    studentID,
		Name:         docType,
		DocumentType: docType,
		Status:       status,
		UploadedAt:   uploadedAt.UTC(),
	}
}

// InsertDocuments writes records straight into the postgres document ledger.
func InsertDocuments(t *testing.T, db *sqlx.DB, docs ...milestone.DocumentRecord) {
	t.Helper()
	q := `INSERT INTO documents (id, student_id, name, document_type, status, uploaded_at)
		VALUES (:id, :student_id, :name, :document_type, :status, :uploaded_at)`
	for _, d := range docs {
		if _, err := db.NamedExec(q, d); err != nil {
			t.Fatalf("InsertDocuments() failed: %v", err)
		}
	}
}

// InsertUser registers a portal user so listings can resolve display names.
func InsertUser(t *testing.T, db *sqlx.DB, id, name, role string) {
	t.Helper()
	if _, err := db.Exec(`INSERT INTO users (id, name, role) VALUES ($1, $2, $3)`, id, name, role); err != nil {
		t.Fatalf("InsertUser() failed: %v", err)
	}
}

func IntPtr(i int) *int       { return &i }
func StrPtr(s string) *string { return &s }
