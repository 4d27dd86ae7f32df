package echoapi

import (
	"context"
	"net/http"
	"syscall"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/rominswe/pg-progress-sub002/core"
	"github.com/rominswe/pg-progress-sub002/core/milestone"
	logsvc "github.com/rominswe/pg-progress-sub002/services/logger"
	inmemdb "github.com/rominswe/pg-progress-sub002/storage/database/inmem"
)

// downTemplateRepo behaves like a store whose database server has shut down.
type downTemplateRepo struct {
	milestone.TemplateRepository
}

func (downTemplateRepo) QueryTemplates(context.Context, milestone.ScopeFilter, bool) ([]milestone.Template, error) {
	return nil, core.NewShutdownError("querying milestone templates: database is shutting down")
}

func TestServer_shutsDownOnFatalStoreError(t *testing.T) {
	db := inmemdb.Open()
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	svc := milestone.NewService(
		downTemplateRepo{},
		inmemdb.NewOverrideRepository(db),
		inmemdb.NewDocumentRepository(db),
		validate, translator,
		milestone.Options{},
	)
	srv := NewServer(ServerDeps{
		Conf:         testConf,
		Logger:       logsvc.NewZapLoggerFrom(zap.NewNop()),
		MilestoneSvc: svc,
		Translator:   translator,
	})

	token := getToken(t, core.Caller{ID: "staff-1", Role: core.RoleStaff})
	req, rec := newAuthRequest(http.MethodGet, "/v1/milestones/templates", token)
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	select {
	case sig := <-srv.ShutdownSignal():
		assert.Equal(t, syscall.SIGTERM, sig)
	case <-time.After(time.Second):
		t.Fatal("server did not signal shutdown")
	}
}

func TestServer_keepsServingOnOtherErrors(t *testing.T) {
	srv, _, _ := setup(t)
	token := getToken(t, core.Caller{ID: "staff-1", Role: core.RoleStaff})
	req, rec := newAuthRequest(http.MethodPatch, "/v1/milestones/templates/missing", token, []byte(`{"name":"x"}`))
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	select {
	case sig := <-srv.ShutdownSignal():
		t.Fatalf("unexpected shutdown signal %v", sig)
	default:
	}
}
