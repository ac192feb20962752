// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model holds the constants shared by the audit log writers.
package model

// Event levels
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event categories
const (
	EventCategoryAuth     = "auth"
	EventCategorySession  = "session"
	EventCategorySecurity = "security"
	EventCategoryConfig   = "config"
	EventCategorySystem   = "system"
)

// EventCategories lists every category in display order.
var EventCategories = []string{
	EventCategoryAuth,
	EventCategorySession,
	EventCategorySecurity,
	EventCategoryConfig,
	EventCategorySystem,
}

// IsValidEventLevel reports whether level is a known event level.
func IsValidEventLevel(level string) bool {
	switch level {
	case EventLevelInfo, EventLevelWarning, EventLevelError:
		return true
	}
	return false
}
