// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package portal

import (
	"context"
	"time"

	"github.com/olegiv/portal-go/internal/i18n"
)

type actionDef struct {
	key  string
	icon string
}

type notificationDef struct {
	key string
	age time.Duration
}

var staticActions = []actionDef{
	{"courses", "book-open"},
	{"calendar", "calendar"},
	{"grades", "file-text"},
	{"timetable", "clock"},
}

var staticNotifications = []notificationDef{
	{"activity", 2 * time.Hour},
	{"exam", 5 * time.Hour},
	{"material", 24 * time.Hour},
}

// StaticProvider serves fixed demonstration content. Notification ages are
// relative to the time of the request.
type StaticProvider struct {
	Courses int
	Average float64
	Period  int

	now func() time.Time
}

// NewStaticProvider returns a provider with the demonstration figures.
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{
		Courses: 8,
		Average: 8.5,
		Period:  5,
		now:     time.Now,
	}
}

// Dashboard implements Provider.
func (p *StaticProvider) Dashboard(ctx context.Context, lang, identifier string) (Dashboard, error) {
	if err := ctx.Err(); err != nil {
		return Dashboard{}, err
	}
	now := p.now()

	d := Dashboard{
		Identifier:   identifier,
		QuickActions: make([]QuickAction, 0, len(staticActions)),
		Summary: AcademicSummary{
			Courses:      p.Courses,
			Average:      p.Average,
			Period:       p.Period,
			CoursesLabel: i18n.T(lang, "summary.courses"),
			AverageLabel: i18n.T(lang, "summary.average"),
			PeriodLabel:  i18n.T(lang, "summary.period"),
			PeriodValue:  i18n.T(lang, "summary.period_value", p.Period),
		},
		Notifications: make([]Notification, 0, len(staticNotifications)),
	}

	for _, a := range staticActions {
		d.QuickActions = append(d.QuickActions, QuickAction{
			Key:         a.key,
			Icon:        a.icon,
			Title:       i18n.T(lang, "action."+a.key+".title"),
			Description: i18n.T(lang, "action."+a.key+".description"),
		})
	}

	for _, n := range staticNotifications {
		body, err := RenderBody(i18n.T(lang, "notification."+n.key+".body"))
		if err != nil {
			return Dashboard{}, err
		}
		d.Notifications = append(d.Notifications, Notification{
			Title:    i18n.T(lang, "notification."+n.key+".title"),
			Body:     body,
			PostedAt: now.Add(-n.age),
			Age:      i18n.Ago(lang, n.age),
		})
	}

	return d, nil
}
