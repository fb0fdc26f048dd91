package logger

import (
	"context"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey struct{}

var global atomic.Pointer[zap.SugaredLogger]

func init() {
	global.Store(zap.NewNop().Sugar())
}

// Init builds the process-wide logger. mode is "prod" or "dev", level is any zap level name.
func Init(mode, level string) error {
	var cfg zap.Config
	switch strings.ToLower(mode) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}

	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return err
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}

	global.Store(l.Sugar())
	return nil
}

// Set replaces the process-wide logger, used by tests to capture output.
func Set(l *zap.Logger) {
	global.Store(l.WithOptions(zap.AddCallerSkip(1)).Sugar())
}

func Sync() {
	_ = global.Load().Sync()
}

// WithFields returns a context whose log lines carry the given key/value pairs.
func WithFields(ctx context.Context, keysAndValues ...any) context.Context {
	fields := append(fieldsFrom(ctx), keysAndValues...)
	return context.WithValue(ctx, ctxKey{}, fields)
}

func fieldsFrom(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}
	fields, _ := ctx.Value(ctxKey{}).([]any)
	// copy so that sibling contexts do not share the backing array
	return append([]any(nil), fields...)
}

func from(ctx context.Context) *zap.SugaredLogger {
	l := global.Load()
	if fields := fieldsFrom(ctx); len(fields) > 0 {
		return l.With(fields...)
	}
	return l
}

func Debug(ctx context.Context, msg string, keysAndValues ...any) {
	from(ctx).Debugw(msg, keysAndValues...)
}

func Info(ctx context.Context, msg string, keysAndValues ...any) {
	from(ctx).Infow(msg, keysAndValues...)
}

func Warn(ctx context.Context, msg string, keysAndValues ...any) {
	from(ctx).Warnw(msg, keysAndValues...)
}

func Error(ctx context.Context, msg string, keysAndValues ...any) {
	from(ctx).Errorw(msg, keysAndValues...)
}

func Debugf(ctx context.Context, format string, args ...any) {
	from(ctx).Debugf(format, args...)
}

func Infof(ctx context.Context, format string, args ...any) {
	from(ctx).Infof(format, args...)
}

func Warnf(ctx context.Context, format string, args ...any) {
	from(ctx).Warnf(format, args...)
}

func Errorf(ctx context.Context, format string, args ...any) {
	from(ctx).Errorf(format, args...)
}

func Fatal(ctx context.Context, args ...any) {
	from(ctx).Fatal(args...)
}
