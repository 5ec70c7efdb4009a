// Package logging configures log/slog for tcgstock and hands out loggers
// tagged with the request and import they belong to.
//
// Request ids come from chi's RequestID middleware, so every entry written
// while serving one HTTP request shares the same request_id.
package logging

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// Setup installs the default slog logger.
//
// level is one of debug, info, warn or error and defaults to info.
// format is "json" for the JSON handler; anything else gets the text handler.
func Setup(level, format string) {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, opts)
	default:
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// FromContext returns the default logger, tagged with request_id when ctx
// carries one.
//
//	log := logging.FromContext(r.Context())
//	log.Warn("catalog sync rejected", "error", err)
func FromContext(ctx context.Context) *slog.Logger {
	logger := slog.Default()
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		logger = logger.With("request_id", reqID)
	}
	return logger
}

// WithFields returns FromContext(ctx) with extra attributes.
//
//	log := logging.WithFields(ctx, "profile", profileKey)
//	log.Debug("sheet row skipped", "row", unit)
func WithFields(ctx context.Context, args ...any) *slog.Logger {
	return FromContext(ctx).With(args...)
}

// ForImport returns the logger for one import run. Every entry carries
// import_id, owner_id and source; client_ip and user_agent are added when
// known.
//
//	log := logging.ForImport(ctx, importID, ownerID, "paste", ip, ua)
//	log.Info("import completed", "records", n)
func ForImport(ctx context.Context, importID, ownerID uuid.UUID, source, clientIP, userAgent string) *slog.Logger {
	args := []any{"import_id", importID, "owner_id", ownerID, "source", source}
	if clientIP != "" {
		args = append(args, "client_ip", clientIP)
	}
	if userAgent != "" {
		args = append(args, "user_agent", userAgent)
	}
	return WithFields(ctx, args...)
}
