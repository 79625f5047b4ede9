// Package applog wires up the CLI's structured logger. It is the only
// place in this module that builds a zap logger, and zap is imported
// only here and in cmd/fsmctl: every pkg/* library package returns
// values and never logs, so applog exists purely for cmd/fsmctl's own
// diagnostic output.
package applog

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a console-encoded logger writing to stderr. verbose raises
// the level from Info to Debug.
func New(verbose bool) *zap.SugaredLogger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true
	logger, err := cfg.Build()
	if err != nil {
		// zap's own config validation failing means a programmer error
		// in the config above, not a runtime condition callers can act
		// on; fall back to a logger that still works rather than
		// panicking the whole CLI over a logging setup problem.
		logger = zap.NewNop()
	}
	return logger.Sugar()
}
