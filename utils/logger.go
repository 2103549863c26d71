package utils

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/awantoch/traccarproxy/constants"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	userLogger     *log.Logger
	internalLogger *zap.SugaredLogger
	loggerMu       sync.RWMutex
)

type requestIDKeyType struct{}

var requestIDKey = requestIDKeyType{}

func init() {
	userLogger = log.New(os.Stdout, "", 0)
	SetLevel("")
}

// SetLevel rebuilds the internal logger at the given level ("debug", "info",
// "warn", "error"). TRACCARPROXY_DEBUG forces debug.
func SetLevel(level string) {
	lvl := zapcore.InfoLevel
	if level != "" {
		if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
			lvl = zapcore.InfoLevel
		}
	}
	if os.Getenv(constants.EnvDebug) != "" {
		lvl = zapcore.DebugLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	l, err := cfg.Build()
	if err != nil {
		log.Printf("Failed to initialize zap logger: %v, logging disabled", err)
		return
	}
	loggerMu.Lock()
	internalLogger = l.Sugar()
	loggerMu.Unlock()
}

// SetInternalOutput sends internal logs to w at debug level (for tests).
func SetInternalOutput(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	encoderCfg := zap.NewProductionEncoderConfig()
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.AddSync(w),
		zapcore.DebugLevel,
	)
	loggerMu.Lock()
	internalLogger = zap.New(core).Sugar()
	loggerMu.Unlock()
}

// SetUserOutput redirects CLI output.
func SetUserOutput(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	loggerMu.Lock()
	userLogger = log.New(w, "", 0)
	loggerMu.Unlock()
}

func current() *zap.SugaredLogger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return internalLogger
}

// User prints unadorned output for CLI users.
func User(format string, v ...any) {
	loggerMu.RLock()
	l := userLogger
	loggerMu.RUnlock()
	l.Printf(format, v...)
}

func Info(format string, v ...any) {
	if l := current(); l != nil {
		l.Infof(format, v...)
	}
}

func Warn(format string, v ...any) {
	if l := current(); l != nil {
		l.Warnf(format, v...)
	}
}

func Error(format string, v ...any) {
	if l := current(); l != nil {
		l.Errorf(format, v...)
	}
}

func Debug(format string, v ...any) {
	if l := current(); l != nil {
		l.Debugf(format, v...)
	}
}

// Sync flushes buffered log entries.
func Sync() {
	if l := current(); l != nil {
		_ = l.Sync()
	}
}

// Errorf logs the error message and returns it as an error value.
func Errorf(format string, v ...any) error {
	err := fmt.Errorf(format, v...)
	if l := current(); l != nil {
		l.Errorf("%s", err)
	}
	return err
}

// WithRequestID returns a new context with the given request ID.
func WithRequestID(ctx context.Context, reqID string) context.Context {
	return context.WithValue(ctx, requestIDKey, reqID)
}

// EnsureRequestID returns ctx unchanged if it already carries a request ID,
// otherwise it attaches a fresh UUID.
func EnsureRequestID(ctx context.Context) (context.Context, string) {
	if id, ok := RequestIDFromContext(ctx); ok {
		return ctx, id
	}
	id := uuid.NewString()
	return WithRequestID(ctx, id), id
}

// RequestIDFromContext extracts the request ID from context, if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(requestIDKey).(string)
	return s, ok && s != ""
}

func withRequestID(ctx context.Context, fields []any) []any {
	if reqID, ok := RequestIDFromContext(ctx); ok {
		fields = append(fields, "request_id", reqID)
	}
	return fields
}

// InfoCtx logs an info message with context, including request ID if present.
func InfoCtx(ctx context.Context, msg string, fields ...any) {
	if l := current(); l != nil {
		l.Infow(msg, withRequestID(ctx, fields)...)
	}
}

// WarnCtx logs a warning message with context, including request ID if present.
func WarnCtx(ctx context.Context, msg string, fields ...any) {
	if l := current(); l != nil {
		l.Warnw(msg, withRequestID(ctx, fields)...)
	}
}

// ErrorCtx logs an error message with context, including request ID if present.
func ErrorCtx(ctx context.Context, msg string, fields ...any) {
	if l := current(); l != nil {
		l.Errorw(msg, withRequestID(ctx, fields)...)
	}
}

// DebugCtx logs a debug message with context, including request ID if present.
func DebugCtx(ctx context.Context, msg string, fields ...any) {
	if l := current(); l != nil {
		l.Debugw(msg, withRequestID(ctx, fields)...)
	}
}
