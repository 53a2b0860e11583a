package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
)

// LoggerInterface общий интерфейс логирования для сервисов и хендлеров
type LoggerInterface interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
	Warn(msg string, args ...any)
	Debug(msg string, args ...any)
	InfoContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)
	WarnContext(ctx context.Context, msg string, args ...any)
	DebugContext(ctx context.Context, msg string, args ...any)
	With(args ...any) LoggerInterface
}

// Logger оборачивает slog.Logger
type Logger struct {
	*slog.Logger
}

type Config struct {
	Level     slog.Level
	Output    io.Writer
	Format    string // "json" или "text"
	AddSource bool
}

func DefaultConfig() Config {
	return Config{
		Level:  slog.LevelInfo,
		Output: os.Stdout,
		Format: "json",
	}
}

// Option настраивает Config
type Option func(*Config)

func WithLevel(level slog.Level) Option {
	return func(c *Config) { c.Level = level }
}

func WithOutput(output io.Writer) Option {
	return func(c *Config) { c.Output = output }
}

func WithFormat(format string) Option {
	return func(c *Config) { c.Format = format }
}

func WithSource(enabled bool) Option {
	return func(c *Config) { c.AddSource = enabled }
}

// New создает логгер. Каждая запись дополняется request_id из chi, если он есть в контексте.
func New(config Config) LoggerInterface {
	opts := &slog.HandlerOptions{
		Level:     config.Level,
		AddSource: config.AddSource,
	}

	var handler slog.Handler
	switch config.Format {
	case "text":
		handler = slog.NewTextHandler(config.Output, opts)
	default:
		handler = slog.NewJSONHandler(config.Output, opts)
	}

	return &Logger{Logger: slog.New(&requestIDHandler{Handler: handler})}
}

func NewWithOptions(opts ...Option) LoggerInterface {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return New(config)
}

// ParseLevel разбирает уровень из конфигурации: debug, info, warn, error
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

func (l *Logger) With(args ...any) LoggerInterface {
	return &Logger{Logger: l.Logger.With(args...)}
}

// Slog отдает нижележащий slog.Logger, например для http.Server.ErrorLog
func (l *Logger) Slog() *slog.Logger {
	return l.Logger
}

// NoOpLogger ничего не пишет, используется в тестах
func NoOpLogger() LoggerInterface {
	return &Logger{Logger: slog.New(noOpHandler{})}
}

type requestIDHandler struct {
	slog.Handler
}

func (h *requestIDHandler) Handle(ctx context.Context, r slog.Record) error {
	if ctx != nil {
		if id := middleware.GetReqID(ctx); id != "" {
			r.AddAttrs(slog.String("request_id", id))
		}
	}
	return h.Handler.Handle(ctx, r)
}

func (h *requestIDHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &requestIDHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *requestIDHandler) WithGroup(name string) slog.Handler {
	return &requestIDHandler{Handler: h.Handler.WithGroup(name)}
}

type noOpHandler struct{}

func (noOpHandler) Handle(context.Context, slog.Record) error { return nil }
func (noOpHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (h noOpHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h noOpHandler) WithGroup(string) slog.Handler           { return h }
