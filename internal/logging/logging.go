// Package logging builds the zap logger shared by commands and backends.
package logging

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls logger construction.
type Options struct {
	// Out receives human-readable log lines, normally stderr.
	Out io.Writer

	// Debug lowers the console level to debug.
	Debug bool

	// Quiet raises the console level to error.
	Quiet bool

	// File, when set, receives JSON logs at info level and above.
	File string
}

// New returns a logger writing to opts.Out and, optionally, a rotated file.
func New(opts Options) *zap.Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var cores []zapcore.Core
	if opts.Out != nil {
		consoleConfig := encoderConfig
		consoleConfig.TimeKey = ""
		consoleConfig.CallerKey = ""
		consoleConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(consoleConfig),
			zapcore.AddSync(opts.Out),
			consoleLevel(opts),
		))
	}
	if opts.File != "" {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderConfig),
			zapcore.AddSync(&lumberjack.Logger{
				Filename:   opts.File,
				MaxSize:    10, // MB
				MaxBackups: 3,
				MaxAge:     30, // days
			}),
			zap.InfoLevel,
		))
	}
	if len(cores) == 0 {
		return zap.NewNop()
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller())
}

func consoleLevel(opts Options) zapcore.Level {
	switch {
	case opts.Debug:
		return zap.DebugLevel
	case opts.Quiet:
		return zap.ErrorLevel
	default:
		return zap.WarnLevel
	}
}
