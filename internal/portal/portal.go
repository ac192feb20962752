// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package portal assembles the content shown on the student dashboard.
package portal

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// QuickAction is a shortcut card on the dashboard. Cards are not links.
type QuickAction struct {
	Key         string
	Icon        string
	Title       string
	Description string
}

// AcademicSummary holds the headline academic figures.
type AcademicSummary struct {
	Courses int
	Average float64
	Period  int

	CoursesLabel string
	AverageLabel string
	PeriodLabel  string
	PeriodValue  string
}

// AverageValue formats the grade average with one decimal.
func (s AcademicSummary) AverageValue() string {
	return fmt.Sprintf("%.1f", s.Average)
}

// Notification is one entry of the recent notifications list.
type Notification struct {
	Title    string
	Body     template.HTML
	PostedAt time.Time
	Age      string
}

// Dashboard is everything the dashboard page shows for one user.
type Dashboard struct {
	Identifier    string
	QuickActions  []QuickAction
	Summary       AcademicSummary
	Notifications []Notification
}

// Provider supplies dashboard content for a user in the given UI language.
type Provider interface {
	Dashboard(ctx context.Context, lang, identifier string) (Dashboard, error)
}

var bodyPolicy = bluemonday.UGCPolicy()

// RenderBody converts a markdown notification body to sanitized HTML.
func RenderBody(markdown string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("rendering notification body: %w", err)
	}
	return template.HTML(bodyPolicy.SanitizeBytes(buf.Bytes())), nil //nolint:gosec // sanitized above
}
