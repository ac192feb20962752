// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render executes the portal's HTML templates and carries the
// one-shot flash notification between requests.
package render

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/olegiv/portal-go/internal/i18n"
	"github.com/olegiv/portal-go/internal/session"
)

// Flash types, used as CSS modifiers by the toast.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

const baseLayout = "layouts/base.html"

// blankLinesRegex matches two or more consecutive newlines (with optional whitespace between).
var blankLinesRegex = regexp.MustCompile(`(\r?\n\s*){2,}`)

// Renderer handles template rendering with caching.
type Renderer struct {
	templates map[string]*template.Template
	sessions  session.Store
}

// Config holds renderer configuration.
type Config struct {
	TemplatesFS fs.FS
	Sessions    session.Store
}

// Flash is a transient notification shown once on the next rendered page.
type Flash struct {
	Title   string
	Message string
	Type    string
}

// TemplateData holds data passed to templates.
type TemplateData struct {
	Title       string
	Lang        string
	Languages   []string
	Path        string
	Flash       *Flash
	CurrentYear int
	Data        any
}

// New creates a new Renderer with parsed templates.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		templates: make(map[string]*template.Template),
		sessions:  cfg.Sessions,
	}

	if err := r.parseTemplates(cfg.TemplatesFS); err != nil {
		return nil, err
	}

	return r, nil
}

// parseTemplates parses every page under pages/ together with the base
// layout and all partials.
func (r *Renderer) parseTemplates(templatesFS fs.FS) error {
	partials, err := templateFiles(templatesFS, "partials")
	if err != nil {
		return fmt.Errorf("getting partials: %w", err)
	}
	pages, err := templateFiles(templatesFS, "pages")
	if err != nil {
		return fmt.Errorf("getting pages: %w", err)
	}
	if len(pages) == 0 {
		return fmt.Errorf("no page templates found")
	}

	for _, tmplPath := range pages {
		name := strings.TrimSuffix(path.Base(tmplPath), ".html")

		files := []string{baseLayout}
		files = append(files, partials...)
		files = append(files, tmplPath)

		tmpl, err := template.New("").Funcs(r.TemplateFuncs()).ParseFS(templatesFS, files...)
		if err != nil {
			return fmt.Errorf("parsing template %s: %w", name, err)
		}

		r.templates[name] = tmpl
	}

	return nil
}

// templateFiles returns all .html files in a directory. A missing directory
// yields no files.
func templateFiles(templatesFS fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(templatesFS, dir)
	if err != nil {
		return nil, nil
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".html") {
			files = append(files, path.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

// TemplateFuncs returns the functions available to templates.
func (r *Renderer) TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"T": i18n.T,
		"langName": func(ui, code string) string {
			return i18n.T(ui, "lang."+code)
		},
		"formatDateTime": func(t time.Time) string {
			return t.Format("02/01/2006 15:04")
		},
		"isoTime": func(t time.Time) string {
			return t.UTC().Format(time.RFC3339)
		},
	}
}

// HasTemplate reports whether a page template was parsed.
func (r *Renderer) HasTemplate(name string) bool {
	_, ok := r.templates[name]
	return ok
}

// Render renders a page with status 200.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, name string, data TemplateData) error {
	return r.RenderStatus(w, req, http.StatusOK, name, data)
}

// RenderStatus renders a page template into the base layout. A pending flash
// is consumed from the session and shown.
func (r *Renderer) RenderStatus(w http.ResponseWriter, req *http.Request, status int, name string, data TemplateData) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	data.CurrentYear = time.Now().Year()
	if data.Lang == "" {
		data.Lang = i18n.DefaultLanguage
	}
	if data.Languages == nil {
		data.Languages = i18n.SupportedLanguages
	}
	if data.Path == "" {
		data.Path = req.URL.Path
	}
	if data.Flash == nil {
		data.Flash = r.PopFlash(req.Context())
	}

	// Render to buffer first to catch errors
	buf := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(buf, "base", data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := w.Write(blankLinesRegex.ReplaceAll(buf.Bytes(), []byte("\n")))
	return err
}

// SetFlash stores a flash for the next rendered page.
func (r *Renderer) SetFlash(ctx context.Context, f Flash) {
	if r.sessions == nil {
		return
	}
	if f.Type == "" {
		f.Type = FlashInfo
	}
	r.sessions.Set(ctx, session.KeyFlashTitle, f.Title)
	r.sessions.Set(ctx, session.KeyFlash, f.Message)
	r.sessions.Set(ctx, session.KeyFlashType, f.Type)
}

// PopFlash removes and returns the pending flash, or nil.
func (r *Renderer) PopFlash(ctx context.Context) *Flash {
	if r.sessions == nil {
		return nil
	}
	f := Flash{
		Title:   session.Pop(ctx, r.sessions, session.KeyFlashTitle),
		Message: session.Pop(ctx, r.sessions, session.KeyFlash),
		Type:    session.Pop(ctx, r.sessions, session.KeyFlashType),
	}
	if f.Title == "" && f.Message == "" {
		return nil
	}
	if f.Type == "" {
		f.Type = FlashInfo
	}
	return &f
}
