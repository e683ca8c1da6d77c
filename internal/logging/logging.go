// Package logging configures the application logger. Logs go to a
// rotating file, never to stdout: the terminal belongs to the TUI.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logFileName  = "pitchvigil.log"
	logDirMode   = 0o755
	maxSizeMB    = 10
	maxBackups   = 3
	maxAgeDays   = 7
	compressLogs = true
)

// New builds a file-backed zap logger under logDir. Debug enables the
// debug level; otherwise info and above are recorded.
func New(logDir string, debug bool) (*zap.Logger, error) {
	if err := os.MkdirAll(logDir, logDirMode); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	encoderConfig := zapcore.EncoderConfig{
		MessageKey:   "message",
		LevelKey:     "level",
		TimeKey:      "time",
		CallerKey:    "caller",
		EncodeLevel:  zapcore.CapitalLevelEncoder,
		EncodeTime:   zapcore.ISO8601TimeEncoder,
		EncodeCaller: zapcore.ShortCallerEncoder,
	}

	writer := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(logDir, logFileName),
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   compressLogs,
	})

	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), writer, level)
	return zap.New(core, zap.AddCaller()), nil
}
