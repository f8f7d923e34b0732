package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// Logger is the application logger interface.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
	// WithContext binds ctx to the logger and tags entries with the
	// connection and request IDs ctx carries.
	WithContext(ctx context.Context) Logger
	// Slog returns the underlying *slog.Logger for components that take one.
	Slog() *slog.Logger
}

// Config holds logger configuration.
type Config struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string
	// Format is json (default) or text. console is an alias for text.
	Format string
	// Output defaults to os.Stderr.
	Output io.Writer
	// AddSource adds source file information to log entries.
	AddSource bool
}

// DefaultConfig returns a default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "json",
		Output: os.Stderr,
	}
}

type slogLogger struct {
	logger *slog.Logger
	ctx    context.Context
}

// level is shared by every logger built with New so that SetLevel applies
// to loggers already handed out.
var level = new(slog.LevelVar)

// New creates a logger. It also resets the shared level to cfg.Level.
func New(cfg Config) (Logger, error) {
	h, err := newHandler(cfg)
	if err != nil {
		return nil, err
	}
	level.Set(parseLevel(cfg.Level))
	return &slogLogger{logger: slog.New(h), ctx: context.Background()}, nil
}

func newHandler(cfg Config) (slog.Handler, error) {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.AddSource,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			return summarizePayload(redactSensitive(a))
		},
	}

	switch strings.ToLower(cfg.Format) {
	case "", "json":
		return slog.NewJSONHandler(out, opts), nil
	case "text", "console":
		return slog.NewTextHandler(out, opts), nil
	default:
		return nil, fmt.Errorf("logger: unknown format %q", cfg.Format)
	}
}

// FromSlog wraps an existing *slog.Logger. Its handler, and so its level and
// redaction, are kept as they are.
func FromSlog(l *slog.Logger) Logger {
	if l == nil {
		return Default()
	}
	return &slogLogger{logger: l, ctx: context.Background()}
}

// SetLevel changes the level of every logger created by New.
// The server calls it when the config file changes.
func SetLevel(name string) {
	level.Set(parseLevel(name))
}

// Level returns the current level name.
func Level() string {
	switch l := level.Level(); {
	case l <= slog.LevelDebug:
		return "debug"
	case l <= slog.LevelInfo:
		return "info"
	case l <= slog.LevelWarn:
		return "warn"
	default:
		return "error"
	}
}

// ValidLevel reports whether name is a known log level.
func ValidLevel(name string) bool {
	switch strings.ToLower(name) {
	case "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}

// parseLevel maps a level name to slog.Level. Unknown names are info.
func parseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *slogLogger) Debug(msg string, args ...any) {
	l.logger.DebugContext(l.ctx, msg, args...)
}

func (l *slogLogger) Info(msg string, args ...any) {
	l.logger.InfoContext(l.ctx, msg, args...)
}

func (l *slogLogger) Warn(msg string, args ...any) {
	l.logger.WarnContext(l.ctx, msg, args...)
}

func (l *slogLogger) Error(msg string, args ...any) {
	l.logger.ErrorContext(l.ctx, msg, args...)
}

func (l *slogLogger) With(args ...any) Logger {
	return &slogLogger{logger: l.logger.With(args...), ctx: l.ctx}
}

func (l *slogLogger) WithContext(ctx context.Context) Logger {
	sl := l.logger
	if id := ConnIDFromContext(ctx); id != "" {
		sl = sl.With("conn_id", id)
	}
	if id := RequestIDFromContext(ctx); id != "" {
		sl = sl.With("request_id", id)
	}
	return &slogLogger{logger: sl, ctx: ctx}
}

func (l *slogLogger) Slog() *slog.Logger {
	return l.logger
}

var defaultLogger atomic.Pointer[slogLogger]

func init() {
	l, _ := New(DefaultConfig())
	defaultLogger.Store(l.(*slogLogger))
}

// SetDefault replaces the logger returned by Default and FromContext.
func SetDefault(l Logger) {
	if sl, ok := l.(*slogLogger); ok {
		defaultLogger.Store(sl)
	}
}

// Default returns the process-wide logger.
func Default() Logger {
	return defaultLogger.Load()
}
