// Package logging builds the application's zap logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Sink values that do not name a file.
const (
	SinkStderr  = "stderr"
	SinkDiscard = "discard"
)

// Config options used in creating the zap logger.
type Config struct {
	FilePath string // log file path, or SinkStderr / SinkDiscard
	Level    string // debug, info, warn, error
	Env      string // development or production
	RunID    string // attached to every entry when set
}

// New returns a zap logger built from cfg together with a closer that
// releases the underlying sink.
func New(cfg Config) (*zap.Logger, io.Closer, error) {
	if cfg.FilePath == SinkDiscard {
		return zap.NewNop(), nopCloser{}, nil
	}

	level, err := zapcore.ParseLevel(levelOrDefault(cfg.Level))
	if err != nil {
		return nil, nil, fmt.Errorf("parse log level: %w", err)
	}

	out, closer, err := openSink(cfg.FilePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open log sink: %w", err)
	}

	var encoder zapcore.Encoder
	switch cfg.Env {
	case "production":
		encoder = productionEncoder()
	default:
		encoder = developmentEncoder()
	}

	core := zapcore.NewCore(encoder, out, level)
	logger := zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zap.ErrorLevel),
	)
	if cfg.RunID != "" {
		logger = logger.With(zap.String("run_id", cfg.RunID))
	}
	return logger, closer, nil
}

func levelOrDefault(level string) string {
	if level == "" {
		return "info"
	}
	return level
}

func developmentEncoder() zapcore.Encoder {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewConsoleEncoder(encoderConfig)
}

func productionEncoder() zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.TimeEncoder(func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.UTC().Format("2006-01-02T15:04:05.000Z"))
	})
	encoderConfig.TimeKey = "@timestamp"
	encoderConfig.MessageKey = "message"
	return zapcore.NewJSONEncoder(encoderConfig)
}

// openSink resolves the write target. The TUI owns stdout, so stdout is
// never a valid sink.
func openSink(path string) (zapcore.WriteSyncer, io.Closer, error) {
	if path == "" || path == SinkStderr {
		return zapcore.Lock(os.Stderr), nopCloser{}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}
	fd, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return zapcore.Lock(fd), fd, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// DefaultLogPath resolves the log file path:
// $XDG_STATE_HOME/deepsea/deepsea.log, falling back to
// ~/.local/state/deepsea/deepsea.log.
func DefaultLogPath() (string, error) {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, "deepsea", "deepsea.log"), nil
}
