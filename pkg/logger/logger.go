// Package logger provides a zap-based application logger that stamps every
// entry with the service name and the trace ID of the request context.
package logger

import (
	"context"
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level is the minimum severity a Logger writes.
type Level = zapcore.Level

// Supported levels.
const (
	LevelDebug = zapcore.DebugLevel
	LevelInfo  = zapcore.InfoLevel
	LevelWarn  = zapcore.WarnLevel
	LevelError = zapcore.ErrorLevel
)

// TraceIDFn extracts a trace ID from a context.
type TraceIDFn func(ctx context.Context) string

// Logger writes structured JSON entries.
type Logger struct {
	z         *zap.SugaredLogger
	traceIDFn TraceIDFn
}

// New builds a Logger writing JSON lines to w.
func New(w io.Writer, minLevel Level, service string, traceIDFn TraceIDFn) *Logger {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "time"
	cfg.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(cfg), zapcore.AddSync(w), minLevel)
	z := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2)).With(zap.String("service", service))
	return &Logger{z: z.Sugar(), traceIDFn: traceIDFn}
}

// ParseLevel maps "debug", "info", "warn" and "error" to a Level. Anything
// else yields LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Debug logs at debug level.
func (l *Logger) Debug(ctx context.Context, msg string, keyvals ...any) {
	l.write(ctx, LevelDebug, msg, keyvals)
}

// Info logs at info level.
func (l *Logger) Info(ctx context.Context, msg string, keyvals ...any) {
	l.write(ctx, LevelInfo, msg, keyvals)
}

// Warn logs at warn level.
func (l *Logger) Warn(ctx context.Context, msg string, keyvals ...any) {
	l.write(ctx, LevelWarn, msg, keyvals)
}

// Error logs at error level.
func (l *Logger) Error(ctx context.Context, msg string, keyvals ...any) {
	l.write(ctx, LevelError, msg, keyvals)
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.z.Sync()
}

func (l *Logger) write(ctx context.Context, lvl Level, msg string, keyvals []any) {
	if l.traceIDFn != nil {
		if id := l.traceIDFn(ctx); id != "" {
			keyvals = append(keyvals, "trace_id", id)
		}
	}
	l.z.Logw(lvl, msg, keyvals...)
}
