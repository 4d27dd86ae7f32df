package shared

import (
	"context"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/rominswe/pg-progress-sub002/core"
	"github.com/rominswe/pg-progress-sub002/core/milestone"
	logsvc "github.com/rominswe/pg-progress-sub002/services/logger"
	"github.com/rominswe/pg-progress-sub002/storage/database"
	inmemdb "github.com/rominswe/pg-progress-sub002/storage/database/inmem"
	"github.com/rominswe/pg-progress-sub002/storage/database/sqlxrepos"
)

const (
	EnginePostgres = "postgres"
	EngineInmem    = "inmem"
)

// Deps holds the wired dependencies shared by the api and admin apps.
type Deps struct {
	Conf         *core.Config
	Logger       core.Logger
	Validate     *validator.Validate
	Translator   ut.Translator
	DB           *sqlx.DB    // nil with the inmem engine
	MemDB        *inmemdb.DB // nil with the postgres engine
	MilestoneSvc *milestone.Service
}

type Options struct {
	// Bootstrap creates the database and applies pending migrations before use.
	Bootstrap bool
}

// NewLogger returns a zap logger wrapped by Rollbar, which only reports when a token is configured.
func NewLogger(conf *core.Config) (core.Logger, func(), error) {
	zl, err := logsvc.NewZapLogger(conf)
	if err != nil {
		return nil, nil, errors.Wrap(err, "building zap logger")
	}
	rl := logsvc.NewRollbarLogger(zl, conf)
	rl.Enable(!conf.Debug && conf.RollbarToken != "")
	return rl, func() {
		rl.Close()
		_ = zl.Sync()
	}, nil
}

func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	return validate, translator
}

// Setup opens the configured store and builds the milestone service on top of it.
func Setup(conf *core.Config, logger core.Logger, opts Options) (*Deps, error) {
	validate, translator := NewValidator()
	deps := &Deps{
		Conf:       conf,
		Logger:     logger,
		Validate:   validate,
		Translator: translator,
	}

	var (
		templates milestone.TemplateRepository
		overrides milestone.OverrideRepository
		documents milestone.DocumentReader
	)
	switch conf.Database.Engine {
	case EngineInmem:
		deps.MemDB = inmemdb.Open()
		templates = inmemdb.NewTemplateRepository(deps.MemDB)
		overrides = inmemdb.NewOverrideRepository(deps.MemDB)
		documents = inmemdb.NewDocumentRepository(deps.MemDB)
	case EnginePostgres:
		db, err := openPostgres(conf, opts)
		if err != nil {
			return nil, err
		}
		deps.DB = db
		templates = sqlxrepos.NewTemplateRepository(db)
		overrides = sqlxrepos.NewOverrideRepository(db)
		documents = sqlxrepos.NewDocumentRepository(db)
	default:
		return nil, errors.Errorf("unsupported database engine %q", conf.Database.Engine)
	}

	deps.MilestoneSvc = milestone.NewService(templates, overrides, documents, validate, translator, milestone.Options{
		FinalThesisType:       conf.Milestone.FinalThesisType,
		FallbackAlertLeadDays: conf.Milestone.DefaultAlertLeadDays,
	})
	return deps, nil
}

func openPostgres(conf *core.Config, opts Options) (*sqlx.DB, error) {
	if opts.Bootstrap {
		if err := database.CreateIfNotExist(conf); err != nil {
			return nil, errors.Wrap(err, "creating database")
		}
	}
	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}
	if opts.Bootstrap {
		if err = database.Migrate(db, "up"); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return db, nil
}

// Ready pings the database, when there is one.
func (d *Deps) Ready(ctx context.Context) error {
	if d.DB == nil {
		return nil
	}
	return database.StatusCheck(ctx, d.DB)
}

func (d *Deps) Close() error {
	if d.DB == nil {
		return nil
	}
	return d.DB.Close()
}
