// Package logging builds the service logger: an ectologger front end
// backed by a zap JSON sink.
package logging

import (
	"github.com/Gobusters/ectologger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config controls the log sink.
type Config struct {
	Level       string `env:"LOG_LEVEL" env-default:"info"`
	Development bool   `env:"LOG_DEVELOPMENT" env-default:"false"`
}

// New returns the service logger and a flush func for shutdown.
func New(cfg Config) (ectologger.Logger, func(), error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	z, err := zapCfg.Build(zap.WithCaller(false))
	if err != nil {
		return nil, nil, err
	}

	// Structured entries are forwarded wholesale; zap handles encoding
	// and output.
	logger := ectologger.NewEctoLogger(func(msg ectologger.EctoLogMessage) {
		z.Info("log", zap.Any("entry", msg))
	})

	flush := func() { _ = z.Sync() }
	return logger, flush, nil
}

// NewNoop returns a logger that discards everything. Used in tests.
func NewNoop() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}
