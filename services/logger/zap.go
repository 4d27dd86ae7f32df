package logsvc

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/rominswe/pg-progress-sub002/core"
)

// ZapLogger adapts a *zap.Logger to core.Logger.
type ZapLogger struct {
	z *zap.Logger
}

var _ core.Logger = (*ZapLogger)(nil)

// NewZapLogger builds a production logger, or a development one when debug is set.
func NewZapLogger(conf *core.Config) (*ZapLogger, error) {
	var (
		z   *zap.Logger
		err error
	)
	if conf.Debug {
		z, err = zap.NewDevelopment()
	} else {
		z, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return &ZapLogger{z: z.With(zap.String("app", conf.AppName), zap.String("env", conf.Env))}, nil
}

func NewZapLoggerFrom(z *zap.Logger) *ZapLogger {
	return &ZapLogger{z: z}
}

func (l ZapLogger) Sync() error {
	return l.z.Sync()
}

// fields maps the loose args accepted by core.Logger onto zap fields.
// expected fmt: error, map[string]interface{}, core.Caller, anything else
func fields(args []interface{}) []zap.Field {
	flds := make([]zap.Field, 0, len(args))
	for i, arg := range args {
		switch v := arg.(type) {
		case error:
			flds = append(flds, zap.Error(v))
		case map[string]interface{}:
			for k, val := range v {
				flds = append(flds, zap.Any(k, val))
			}
		case core.Caller:
			flds = append(flds, zap.String("caller_id", v.ID), zap.String("caller_role", v.Role))
		case *core.Caller:
			if v != nil {
				flds = append(flds, zap.String("caller_id", v.ID), zap.String("caller_role", v.Role))
			}
		default:
			flds = append(flds, zap.Any(fmt.Sprintf("arg%d", i), v))
		}
	}
	return flds
}

func (l ZapLogger) Debug(msg string, args ...interface{}) { l.z.Debug(msg, fields(args)...) }
func (l ZapLogger) Info(msg string, args ...interface{})  { l.z.Info(msg, fields(args)...) }
func (l ZapLogger) Warn(msg string, args ...interface{})  { l.z.Warn(msg, fields(args)...) }
func (l ZapLogger) Error(msg string, args ...interface{}) { l.z.Error(msg, fields(args)...) }
func (l ZapLogger) Fatal(msg string, args ...interface{}) { l.z.Fatal(msg, fields(args)...) }
