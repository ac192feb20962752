// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the login page.
	RouteRoot = "/"
	// RouteLogin accepts the login form.
	RouteLogin = "/login"
	// RouteLogout ends the session.
	RouteLogout = "/logout"
	// RouteDashboard is the session-gated dashboard.
	RouteDashboard = "/dashboard"
	// RouteLanguage switches the UI language.
	RouteLanguage = "/language"
	// RouteHealth reports service health as JSON.
	RouteHealth = "/health"
	// RouteStatic serves embedded assets.
	RouteStatic = "/static"
)

const (
	redirectLogin     = RouteRoot
	redirectDashboard = RouteDashboard
)

// Template names.
const (
	templateLogin     = "login"
	templateDashboard = "dashboard"
	templateError     = "error"
)

// PageTemplates lists the page templates the handlers render.
var PageTemplates = []string{templateLogin, templateDashboard, templateError}

// HeaderContentType is the Content-Type HTTP header name.
const HeaderContentType = "Content-Type"
