// internal/pkg/logger/logger.go
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// ContextKey represents keys for context values picked up by the
// context handler
type ContextKey string

const (
	ContextKeyRequestID ContextKey = "request_id"
	ContextKeyClientIP  ContextKey = "client_ip"
	ContextKeyMethod    ContextKey = "method"
	ContextKeyPath      ContextKey = "path"
)

// Config holds logger configuration
type Config struct {
	Level       string
	Format      string
	Output      string
	AddSource   bool
	ServiceName string
	Environment string
}

// SetupLogger initializes the process-wide logger and installs it as
// the slog default
func SetupLogger(level, format string) *slog.Logger {
	log := NewLogger(&Config{
		Level:       level,
		Format:      format,
		Output:      "stdout",
		ServiceName: os.Getenv("SERVICE_NAME"),
		Environment: os.Getenv("APP_ENV"),
	})
	slog.SetDefault(log)
	return log
}

// NewLogger creates a logger from the given configuration
func NewLogger(config *Config) *slog.Logger {
	if config == nil {
		config = &Config{Level: "info", Format: "json", Output: "stdout"}
	}

	opts := &slog.HandlerOptions{
		Level:     parseLevel(config.Level),
		AddSource: config.AddSource,
	}

	writer := getWriter(config.Output)

	var handler slog.Handler
	switch config.Format {
	case "text":
		handler = slog.NewTextHandler(writer, opts)
	default:
		handler = slog.NewJSONHandler(writer, opts)
	}

	handler = NewContextHandler(handler)

	attrs := []slog.Attr{}
	if config.ServiceName != "" {
		attrs = append(attrs, slog.String("service", config.ServiceName))
	}
	if config.Environment != "" {
		attrs = append(attrs, slog.String("env", config.Environment))
	}
	if len(attrs) > 0 {
		handler = handler.WithAttrs(attrs)
	}

	return slog.New(handler)
}

// ContextHandler decorates records with request-scoped values stored
// in the context
type ContextHandler struct {
	slog.Handler
}

// NewContextHandler wraps a handler with context value extraction
func NewContextHandler(h slog.Handler) *ContextHandler {
	return &ContextHandler{Handler: h}
}

func (h *ContextHandler) Handle(ctx context.Context, record slog.Record) error {
	record.AddAttrs(extractContextAttrs(ctx)...)
	return h.Handler.Handle(ctx, record)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{Handler: h.Handler.WithGroup(name)}
}

func extractContextAttrs(ctx context.Context) []slog.Attr {
	keys := []ContextKey{
		ContextKeyRequestID,
		ContextKeyClientIP,
	}

	var attrs []slog.Attr
	for _, key := range keys {
		if v := ctx.Value(key); v != nil {
			attrs = append(attrs, slog.Any(string(key), v))
		}
	}
	return attrs
}

func parseLevel(level string) slog.Leveler {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getWriter(output string) io.Writer {
	switch output {
	case "stderr":
		return os.Stderr
	default:
		return os.Stdout
	}
}
