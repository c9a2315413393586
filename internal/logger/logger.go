// Package logger configures slog for the API server and the CLI.
//
// Records logged with a *Context method pick up the request ID and location
// stored in the context, so handlers and the engine never thread them
// through by hand.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/zapponejosh/panchanga-api/internal/config"
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	locationKey  contextKey = "location"
)

// Setup installs the default logger writing to stdout.
func Setup(cfg *config.Config) *slog.Logger {
	return SetupWriter(cfg, os.Stdout)
}

// SetupWriter is Setup with an explicit destination. The CLI logs to stderr
// so that stdout carries only calendar output.
func SetupWriter(cfg *config.Config, w io.Writer) *slog.Logger {
	log := New(w, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)
	return log
}

// New builds a logger without touching the global default.
func New(w io.Writer, level, format string) *slog.Logger {
	lvl := parseLevel(level)
	opts := &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl == slog.LevelDebug,
	}

	var base slog.Handler
	if format == "json" {
		base = slog.NewJSONHandler(w, opts)
	} else {
		base = slog.NewTextHandler(w, opts)
	}
	return slog.New(contextHandler{base})
}

func parseLevel(level string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// contextHandler copies request-scoped values from the context onto each
// record.
type contextHandler struct {
	slog.Handler
}

func (h contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := RequestID(ctx); id != "" {
		r.AddAttrs(slog.String("request_id", id))
	}
	if loc := Location(ctx); loc != "" {
		r.AddAttrs(slog.String("location", loc))
	}
	return h.Handler.Handle(ctx, r)
}

func (h contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return contextHandler{h.Handler.WithAttrs(attrs)}
}

func (h contextHandler) WithGroup(name string) slog.Handler {
	return contextHandler{h.Handler.WithGroup(name)}
}

// WithRequestID stores the request ID for later records.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestID returns the stored request ID, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithLocation stores the name of the location being computed.
func WithLocation(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, locationKey, name)
}

// Location returns the stored location name, or "".
func Location(ctx context.Context) string {
	name, _ := ctx.Value(locationKey).(string)
	return name
}

// Error logs msg at error level on the default logger with err attached.
func Error(ctx context.Context, msg string, err error, args ...any) {
	slog.Default().ErrorContext(ctx, msg, append([]any{slog.Any("error", err)}, args...)...)
}
