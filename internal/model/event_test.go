// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "testing"

func TestEventLevelConstants(t *testing.T) {
	tests := []struct {
		name     string
		constant string
		want     string
	}{
		{"info level", EventLevelInfo, "info"},
		{"warning level", EventLevelWarning, "warning"},
		{"error level", EventLevelError, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.constant != tt.want {
				t.Errorf("got %q, want %q", tt.constant, tt.want)
			}
		})
	}
}

func TestEventCategoriesUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, cat := range EventCategories {
		if cat == "" {
			t.Error("empty category")
		}
		if seen[cat] {
			t.Errorf("duplicate category: %q", cat)
		}
		seen[cat] = true
	}
	if len(seen) != 5 {
		t.Errorf("got %d categories, want 5", len(seen))
	}
}

func TestIsValidEventLevel(t *testing.T) {
	for _, level := range []string{"info", "warning", "error"} {
		if !IsValidEventLevel(level) {
			t.Errorf("IsValidEventLevel(%q) = false", level)
		}
	}
	for _, level := range []string{"", "debug", "WARN"} {
		if IsValidEventLevel(level) {
			t.Errorf("IsValidEventLevel(%q) = true", level)
		}
	}
}
