// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides a custom slog handler that integrates with the Event Log system.
// It forwards logs at WARN level and above to the database-backed Event Log for auditing.
package logging

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/olegiv/portal-go/internal/middleware"
	"github.com/olegiv/portal-go/internal/model"
	"github.com/olegiv/portal-go/internal/store"
)

// EventLogHandler is a slog.Handler that wraps another handler and also writes
// WARN and ERROR level logs to the Event Log database.
type EventLogHandler struct {
	inner   slog.Handler
	queries *store.Queries
	level   slog.Level // Minimum level to forward to Event Log (default: WARN)
	attrs   []slog.Attr
}

// NewEventLogHandler creates a new EventLogHandler that wraps the given handler.
// Logs at WARN level and above will be written to both the wrapped handler and the Event Log.
func NewEventLogHandler(inner slog.Handler, db store.DBTX) *EventLogHandler {
	return NewEventLogHandlerWithLevel(inner, db, slog.LevelWarn)
}

// NewEventLogHandlerWithLevel creates a new EventLogHandler with a custom minimum level.
func NewEventLogHandlerWithLevel(inner slog.Handler, db store.DBTX, level slog.Level) *EventLogHandler {
	return &EventLogHandler{
		inner:   inner,
		queries: store.New(db),
		level:   level,
	}
}

// Enabled implements slog.Handler.
func (h *EventLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level || h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *EventLogHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.inner.Enabled(ctx, r.Level) {
		if err := h.inner.Handle(ctx, r); err != nil {
			return err
		}
	}

	if r.Level >= h.level {
		h.writeToEventLog(ctx, r)
	}

	return nil
}

// WithAttrs implements slog.Handler.
func (h *EventLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &EventLogHandler{
		inner:   h.inner.WithAttrs(attrs),
		queries: h.queries,
		level:   h.level,
		attrs:   merged,
	}
}

// WithGroup implements slog.Handler.
func (h *EventLogHandler) WithGroup(name string) slog.Handler {
	return &EventLogHandler{
		inner:   h.inner.WithGroup(name),
		queries: h.queries,
		level:   h.level,
		attrs:   h.attrs,
	}
}

// writeToEventLog writes a log record to the Event Log database.
func (h *EventLogHandler) writeToEventLog(ctx context.Context, r slog.Record) {
	attrs := h.collectAttrs(r)

	// Background context: the event must be stored even if the request was cancelled.
	_, _ = h.queries.CreateEvent(context.Background(), store.CreateEventParams{
		Level:     slogLevelToEventLevel(r.Level),
		Category:  extractCategory(r.Message, attrs),
		Message:   r.Message,
		IpAddress: attrString(attrs, "ip"),
		Metadata:  extractMetadata(attrs, middleware.GetRequestPath(ctx)),
		CreatedAt: r.Time.UTC(),
	})
}

func (h *EventLogHandler) collectAttrs(r slog.Record) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(h.attrs)+r.NumAttrs())
	attrs = append(attrs, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)
		return true
	})
	return attrs
}

// slogLevelToEventLevel converts a slog.Level to an Event Log level.
func slogLevelToEventLevel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return model.EventLevelError
	case level >= slog.LevelWarn:
		return model.EventLevelWarning
	default:
		return model.EventLevelInfo
	}
}

// extractCategory uses an explicit "category" attribute or infers one from the message.
func extractCategory(message string, attrs []slog.Attr) string {
	if category := attrString(attrs, "category"); category != "" {
		return category
	}

	msg := strings.ToLower(message)
	switch {
	case strings.Contains(msg, "auth") || strings.Contains(msg, "login") || strings.Contains(msg, "logout"):
		return model.EventCategoryAuth
	case strings.Contains(msg, "csrf") || strings.Contains(msg, "rate limit"):
		return model.EventCategorySecurity
	case strings.Contains(msg, "session"):
		return model.EventCategorySession
	case strings.Contains(msg, "config") || strings.Contains(msg, "setting"):
		return model.EventCategoryConfig
	default:
		return model.EventCategorySystem
	}
}

// extractMetadata collects the attributes, minus category, into a JSON object.
func extractMetadata(attrs []slog.Attr, requestPath string) string {
	meta := make(map[string]string, len(attrs)+1)
	for _, a := range attrs {
		if a.Key == "category" || a.Key == "" {
			continue
		}
		meta[a.Key] = a.Value.Resolve().String()
	}
	if requestPath != "" {
		if _, ok := meta["path"]; !ok {
			meta["path"] = requestPath
		}
	}
	if len(meta) == 0 {
		return "{}"
	}

	b, err := json.Marshal(meta)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func attrString(attrs []slog.Attr, key string) string {
	for i := len(attrs) - 1; i >= 0; i-- {
		if attrs[i].Key == key {
			return attrs[i].Value.Resolve().String()
		}
	}
	return ""
}
