// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package i18n provides the translated UI copy of the portal.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/language"
)

//go:embed locales
var localesFS embed.FS

// Message represents a single translatable message.
type Message struct {
	ID          string `json:"id"`
	Message     string `json:"message"`
	Translation string `json:"translation"`
}

// MessageFile represents the structure of a messages JSON file.
type MessageFile struct {
	Language string    `json:"language"`
	Messages []Message `json:"messages"`
}

// Catalog holds all translations for all supported languages.
type Catalog struct {
	mu           sync.RWMutex
	translations map[string]map[string]string // lang -> key -> translation
	matcher      language.Matcher
	supported    []language.Tag
	logger       *slog.Logger
}

// DefaultLanguage is served when nothing better matches.
const DefaultLanguage = "pt"

// SupportedLanguages lists the UI languages, default first.
var SupportedLanguages = []string{DefaultLanguage, "en"}

var catalog *Catalog

// Init loads the embedded translations. It is safe to call more than once.
func Init(logger *slog.Logger) error {
	c := &Catalog{
		translations: make(map[string]map[string]string),
		logger:       logger,
	}

	tags := make([]language.Tag, 0, len(SupportedLanguages))
	for _, lang := range SupportedLanguages {
		tags = append(tags, language.MustParse(lang))
	}
	c.supported = tags
	c.matcher = language.NewMatcher(tags)

	for _, lang := range SupportedLanguages {
		if err := c.loadLanguage(lang); err != nil {
			return fmt.Errorf("failed to load language %s: %w", lang, err)
		}
	}
	catalog = c

	if logger != nil {
		logger.Info("i18n initialized", "languages", SupportedLanguages)
	}
	return nil
}

func (c *Catalog) loadLanguage(lang string) error {
	path := fmt.Sprintf("locales/%s/messages.json", lang)
	data, err := localesFS.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	var msgFile MessageFile
	if err := json.Unmarshal(data, &msgFile); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.translations[lang] = make(map[string]string, len(msgFile.Messages))
	for _, msg := range msgFile.Messages {
		c.translations[lang][msg.ID] = msg.Translation
	}

	if c.logger != nil {
		c.logger.Debug("loaded translations", "language", lang, "count", len(msgFile.Messages))
	}
	return nil
}

// T translates key into lang, formatting args into the translation when given.
// Unknown languages fall back to DefaultLanguage; unknown keys return the key.
func T(lang, key string, args ...any) string {
	if catalog == nil {
		return key
	}

	catalog.mu.RLock()
	translation, ok := catalog.translations[lang][key]
	if !ok && lang != DefaultLanguage {
		translation, ok = catalog.translations[DefaultLanguage][key]
		if ok && catalog.logger != nil {
			catalog.logger.Debug("missing translation, using default", "key", key, "lang", lang)
		}
	}
	catalog.mu.RUnlock()

	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(translation, args...)
	}
	return translation
}

// Ago renders an elapsed duration as a short relative age, e.g. "2h atrás".
func Ago(lang string, d time.Duration) string {
	switch {
	case d < time.Minute:
		return T(lang, "time.just_now")
	case d < time.Hour:
		return T(lang, "time.minutes_ago", int(d/time.Minute))
	case d < 24*time.Hour:
		return T(lang, "time.hours_ago", int(d/time.Hour))
	case d < 48*time.Hour:
		return T(lang, "time.day_ago")
	default:
		return T(lang, "time.days_ago", int(d/(24*time.Hour)))
	}
}

// MatchLanguage finds the best supported language for an Accept-Language
// header or a bare language code.
func MatchLanguage(acceptLang string) string {
	if catalog == nil {
		return DefaultLanguage
	}

	tags, _, err := language.ParseAcceptLanguage(acceptLang)
	if err != nil || len(tags) == 0 {
		tag, err := language.Parse(acceptLang)
		if err != nil {
			return DefaultLanguage
		}
		tags = []language.Tag{tag}
	}

	_, idx, confidence := catalog.matcher.Match(tags...)
	if confidence == language.No || idx < 0 || idx >= len(catalog.supported) {
		return DefaultLanguage
	}
	return SupportedLanguages[idx]
}

// IsSupported checks if a language code is supported.
func IsSupported(lang string) bool {
	return slices.Contains(SupportedLanguages, strings.ToLower(lang))
}

// TranslationCount returns the number of translations loaded for a language.
func TranslationCount(lang string) int {
	if catalog == nil {
		return 0
	}

	catalog.mu.RLock()
	defer catalog.mu.RUnlock()
	return len(catalog.translations[lang])
}
