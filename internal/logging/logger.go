package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a zap logger that writes JSON to the given log file path
// and also writes to stderr. Session name and PID are included as initial fields.
func New(logPath, sessionName string, level zapcore.Level) (*zap.Logger, error) {
	return build(logPath, sessionName, level, true)
}

// NewFileOnly is New without the stderr core, for processes that own the
// terminal.
func NewFileOnly(logPath, sessionName string, level zapcore.Level) (*zap.Logger, error) {
	return build(logPath, sessionName, level, false)
}

func build(logPath, sessionName string, level zapcore.Level, stderr bool) (*zap.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, err
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(file), level)
	if stderr {
		stderrCore := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.AddSync(os.Stderr), level)
		core = zapcore.NewTee(core, stderrCore)
	}

	logger := zap.New(core,
		zap.Fields(
			zap.String("session", sessionName),
			zap.Int("pid", os.Getpid()),
		),
	)

	return logger, nil
}
