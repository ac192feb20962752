// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service provides business logic and service layer functionality
// including event logging for audit trails.
package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/mileusna/useragent"

	"github.com/olegiv/portal-go/internal/model"
	"github.com/olegiv/portal-go/internal/store"
)

// EventService provides event logging functionality.
type EventService struct {
	queries *store.Queries
	now     func() time.Time
}

// NewEventService creates a new EventService.
func NewEventService(db store.DBTX) *EventService {
	return &EventService{
		queries: store.New(db),
		now:     time.Now,
	}
}

// LogEvent creates a new event log entry.
func (s *EventService) LogEvent(ctx context.Context, level, category, message, ipAddress string, metadata map[string]any) error {
	metadataJSON := "{}"
	if len(metadata) > 0 {
		jsonBytes, err := json.Marshal(metadata)
		if err == nil {
			metadataJSON = string(jsonBytes)
		}
	}

	_, err := s.queries.CreateEvent(ctx, store.CreateEventParams{
		Level:     level,
		Category:  category,
		Message:   message,
		IpAddress: ipAddress,
		Metadata:  metadataJSON,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		slog.Error("failed to log event", "error", err, "category", category)
		return err
	}

	return nil
}

// LogInfo logs an info-level event.
func (s *EventService) LogInfo(ctx context.Context, category, message, ipAddress string, metadata map[string]any) error {
	return s.LogEvent(ctx, model.EventLevelInfo, category, message, ipAddress, metadata)
}

// LogWarning logs a warning-level event.
func (s *EventService) LogWarning(ctx context.Context, category, message, ipAddress string, metadata map[string]any) error {
	return s.LogEvent(ctx, model.EventLevelWarning, category, message, ipAddress, metadata)
}

// LogError logs an error-level event.
func (s *EventService) LogError(ctx context.Context, category, message, ipAddress string, metadata map[string]any) error {
	return s.LogEvent(ctx, model.EventLevelError, category, message, ipAddress, metadata)
}

// LogAuthEvent logs an authentication event with the caller's browser
// details merged into metadata.
func (s *EventService) LogAuthEvent(ctx context.Context, level, message, ipAddress, userAgent string, metadata map[string]any) error {
	merged := ClientMetadata(userAgent)
	for k, v := range metadata {
		merged[k] = v
	}
	return s.LogEvent(ctx, level, model.EventCategoryAuth, message, ipAddress, merged)
}

// LogSessionEvent logs a session lifecycle event such as logout.
func (s *EventService) LogSessionEvent(ctx context.Context, level, message, ipAddress string, metadata map[string]any) error {
	return s.LogEvent(ctx, level, model.EventCategorySession, message, ipAddress, metadata)
}

// ListEvents returns a page of events, newest first.
func (s *EventService) ListEvents(ctx context.Context, limit, offset int64) ([]store.Event, error) {
	return s.queries.ListEvents(ctx, store.ListEventsParams{Limit: limit, Offset: offset})
}

// DeleteOldEvents removes events older than the specified duration.
func (s *EventService) DeleteOldEvents(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := s.now().UTC().Add(-olderThan)
	return s.queries.DeleteOldEvents(ctx, cutoff)
}

// ClientMetadata describes the browser behind a User-Agent header.
// An empty header yields an empty map.
func ClientMetadata(userAgent string) map[string]any {
	meta := make(map[string]any)
	if userAgent == "" {
		return meta
	}

	ua := useragent.Parse(userAgent)
	if ua.Name != "" {
		meta["browser"] = ua.Name
	}
	if ua.Version != "" {
		meta["browser_version"] = ua.Version
	}
	if ua.OS != "" {
		meta["os"] = ua.OS
	}
	meta["device"] = deviceType(ua)
	return meta
}

func deviceType(ua useragent.UserAgent) string {
	switch {
	case ua.Bot:
		return "bot"
	case ua.Tablet:
		return "tablet"
	case ua.Mobile:
		return "mobile"
	case ua.Desktop:
		return "desktop"
	default:
		return "unknown"
	}
}
