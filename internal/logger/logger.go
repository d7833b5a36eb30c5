// Package logger holds the process-wide zap logger.
package logger

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the global sugared logger. It stays a no-op until Initialize is called,
// because the TUI owns stdout and stray log lines would corrupt the screen.
var Logger *zap.SugaredLogger

func init() {
	Logger = zap.NewNop().Sugar()
}

// Initialize points the global logger at a JSON log file. An empty path keeps the
// no-op logger.
func Initialize(path string, debug bool) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return errors.Wrap(err, "create log directory")
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return errors.Wrapf(err, "open log file %s", path)
	}

	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(f), level)

	Logger = zap.New(core).Sugar()
	return nil
}

// Named returns a component logger.
func Named(component string) *zap.SugaredLogger {
	return Logger.Named(component)
}

// Sync flushes buffered entries.
func Sync() {
	_ = Logger.Sync()
}
