// Package logging builds the zap loggers used across molgraph.
//
// Logs go to a JSON file under the base directory so that stdout stays
// clean for CLI JSON output and the MCP stdio transport.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// FileName is the log file created inside the base directory.
const FileName = "molgraph.log"

// New opens baseDir/molgraph.log for appending and returns a sugared logger
// writing JSON lines at the given level. The returned close func flushes
// the logger and closes the file.
func New(baseDir, level string) (*zap.SugaredLogger, func() error, error) {
	path := filepath.Join(baseDir, FileName)
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := zap.New(zapcore.NewCore(encoder(), zapcore.AddSync(file), ParseLevel(level)))

	closeFn := func() error {
		_ = logger.Sync()
		return file.Close()
	}
	return logger.Sugar(), closeFn, nil
}

// NewWriter returns a logger writing JSON lines to w. Used by tests that
// inspect log output.
func NewWriter(w zapcore.WriteSyncer, level string) *zap.SugaredLogger {
	return zap.New(zapcore.NewCore(encoder(), w, ParseLevel(level))).Sugar()
}

// Nop returns a logger that discards everything.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

// ParseLevel maps "debug" to DebugLevel and anything else to InfoLevel.
func ParseLevel(level string) zapcore.Level {
	if strings.EqualFold(strings.TrimSpace(level), "debug") {
		return zap.DebugLevel
	}
	return zap.InfoLevel
}

func encoder() zapcore.Encoder {
	pe := zap.NewProductionEncoderConfig()
	pe.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewJSONEncoder(pe)
}
