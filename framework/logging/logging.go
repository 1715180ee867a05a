// Package logging builds the shared zap logger handed to the container and
// injected into every member tagged `logger:""`.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a logger at level ("debug", "info", "warn", "error").
// Output goes to stderr; when file is set, all entries are also written to
// <file>.log and error entries to <file>error.log.
//
//	log, err := logging.New("info", "/var/log/app")
func New(level, file string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}

	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
	enc.EncodeTime = zapcore.ISO8601TimeEncoder

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(lvl),
		Development:      lvl == zapcore.DebugLevel,
		Encoding:         "console",
		EncoderConfig:    enc,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	if file != "" {
		cfg.OutputPaths = append(cfg.OutputPaths, file+".log")
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	if file == "" {
		return logger, nil
	}

	errSink, _, err := zap.Open(file + "error.log")
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	fileEnc := zap.NewProductionEncoderConfig()
	fileEnc.EncodeTime = zapcore.ISO8601TimeEncoder
	errCore := zapcore.NewCore(zapcore.NewConsoleEncoder(fileEnc), errSink, zapcore.ErrorLevel)

	return logger.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return zapcore.NewTee(c, errCore)
	})), nil
}

// Must is like New but panics on error. Useful in main.
func Must(level, file string) *zap.Logger {
	l, err := New(level, file)
	if err != nil {
		panic(err)
	}
	return l
}
