// Package log is a structured logger built on zap. It exposes a small
// package-level API backed by a global logger initialized with Init, plus
// NewLogger for callers that want an independent instance.
package log

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger wraps a zap sugared logger.
type Logger struct {
	z *zap.SugaredLogger
}

var (
	mu  sync.Mutex
	std = NewLogger(NewOptions())
)

// Init initializes the global logger with the given options.
func Init(opts *Options) {
	mu.Lock()
	defer mu.Unlock()
	std = NewLogger(opts)
}

// NewLogger creates a Logger from options. Invalid option values fall back
// to defaults rather than failing: a logging problem must never abort the
// caller's primary operation.
func NewLogger(opts *Options) *Logger {
	if opts == nil {
		opts = NewOptions()
	}

	var level zapcore.Level
	if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	if opts.Format == "console" && opts.EnableColor {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	var encoder zapcore.Encoder
	if opts.Format == "json" {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	sink, _, err := zap.Open(opts.OutputPaths...)
	if err != nil {
		sink, _, _ = zap.Open("stdout")
	}
	cores := []zapcore.Core{zapcore.NewCore(encoder, sink, level)}

	if opts.EnableFileStorage && opts.FileConfig != nil {
		fileEncoderConfig := zap.NewProductionEncoderConfig()
		fileEncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		fileEncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		fileSink := zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.FileConfig.Filename,
			MaxSize:    opts.FileConfig.MaxSize,
			MaxBackups: opts.FileConfig.MaxBackups,
			MaxAge:     opts.FileConfig.MaxAge,
			Compress:   opts.FileConfig.Compress,
			LocalTime:  opts.FileConfig.LocalTime,
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(fileEncoderConfig), fileSink, level))
	}

	zopts := []zap.Option{}
	if !opts.DisableCaller {
		zopts = append(zopts, zap.AddCaller(), zap.AddCallerSkip(1))
	}
	if !opts.DisableStacktrace {
		zopts = append(zopts, zap.AddStacktrace(zapcore.PanicLevel))
	}

	return &Logger{z: zap.New(zapcore.NewTee(cores...), zopts...).Sugar()}
}

// Sync flushes buffered records of the global logger.
func Sync() error {
	return std.z.Sync()
}

// Debugf logs a formatted message at debug level.
func Debugf(format string, args ...interface{}) { std.z.Debugf(format, args...) }

// Infof logs a formatted message at info level.
func Infof(format string, args ...interface{}) { std.z.Infof(format, args...) }

// Warnf logs a formatted message at warn level.
func Warnf(format string, args ...interface{}) { std.z.Warnf(format, args...) }

// Errorf logs a formatted message at error level.
func Errorf(format string, args ...interface{}) { std.z.Errorf(format, args...) }

// Debugw logs a message with key-value pairs at debug level.
func Debugw(msg string, keysAndValues ...interface{}) { std.z.Debugw(msg, keysAndValues...) }

// Infow logs a message with key-value pairs at info level.
func Infow(msg string, keysAndValues ...interface{}) { std.z.Infow(msg, keysAndValues...) }

// Warnw logs a message with key-value pairs at warn level.
func Warnw(msg string, keysAndValues ...interface{}) { std.z.Warnw(msg, keysAndValues...) }

// Errorw logs a message with key-value pairs at error level.
func Errorw(msg string, keysAndValues ...interface{}) { std.z.Errorw(msg, keysAndValues...) }

// Debugf logs a formatted message at debug level.
func (l *Logger) Debugf(format string, args ...interface{}) { l.z.Debugf(format, args...) }

// Infof logs a formatted message at info level.
func (l *Logger) Infof(format string, args ...interface{}) { l.z.Infof(format, args...) }

// Warnf logs a formatted message at warn level.
func (l *Logger) Warnf(format string, args ...interface{}) { l.z.Warnf(format, args...) }

// Errorf logs a formatted message at error level.
func (l *Logger) Errorf(format string, args ...interface{}) { l.z.Errorf(format, args...) }

// Infow logs a message with key-value pairs at info level.
func (l *Logger) Infow(msg string, keysAndValues ...interface{}) { l.z.Infow(msg, keysAndValues...) }

// Warnw logs a message with key-value pairs at warn level.
func (l *Logger) Warnw(msg string, keysAndValues ...interface{}) { l.z.Warnw(msg, keysAndValues...) }

// Errorw logs a message with key-value pairs at error level.
func (l *Logger) Errorw(msg string, keysAndValues ...interface{}) { l.z.Errorw(msg, keysAndValues...) }

// Sync flushes buffered records.
func (l *Logger) Sync() error { return l.z.Sync() }
