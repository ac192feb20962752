// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/olegiv/portal-go/internal/i18n"
)

// LoginProtection provides combined IP rate limiting and account lockout protection.
type LoginProtection struct {
	ipLimiters *limiterCache[string]

	// Account-based lockout tracking, keyed by lowercased identifier
	failedAttempts map[string]*loginAttempt
	attemptsMu     sync.RWMutex

	maxFailedAttempts int
	lockoutDuration   time.Duration // doubles with each lockout
	attemptWindow     time.Duration

	stop     chan struct{}
	stopOnce sync.Once
}

type loginAttempt struct {
	count       int
	firstFailed time.Time
	lockedUntil time.Time
	lockouts    int
}

// LoginProtectionConfig holds configuration for login protection.
type LoginProtectionConfig struct {
	// IPRateLimit is login submissions per second per IP
	IPRateLimit float64
	// IPBurst is the maximum burst size for IP rate limiting
	IPBurst int
	// MaxFailedAttempts before account lockout
	MaxFailedAttempts int
	// LockoutDuration is base lockout time, doubles with each lockout
	LockoutDuration time.Duration
	// AttemptWindow is the time window for counting failed attempts
	AttemptWindow time.Duration
}

// DefaultLoginProtectionConfig returns the production defaults.
func DefaultLoginProtectionConfig() LoginProtectionConfig {
	return LoginProtectionConfig{
		IPRateLimit:       0.5,
		IPBurst:           5,
		MaxFailedAttempts: 5,
		LockoutDuration:   15 * time.Minute,
		AttemptWindow:     15 * time.Minute,
	}
}

// NewLoginProtection creates a login protection instance and starts its
// cleanup goroutine. Call Stop to end it.
func NewLoginProtection(cfg LoginProtectionConfig) *LoginProtection {
	def := DefaultLoginProtectionConfig()
	if cfg.IPRateLimit <= 0 {
		cfg.IPRateLimit = def.IPRateLimit
	}
	if cfg.IPBurst <= 0 {
		cfg.IPBurst = def.IPBurst
	}
	if cfg.MaxFailedAttempts <= 0 {
		cfg.MaxFailedAttempts = def.MaxFailedAttempts
	}
	if cfg.LockoutDuration <= 0 {
		cfg.LockoutDuration = def.LockoutDuration
	}
	if cfg.AttemptWindow <= 0 {
		cfg.AttemptWindow = def.AttemptWindow
	}

	lp := &LoginProtection{
		ipLimiters:        newLimiterCache[string](cfg.IPRateLimit, cfg.IPBurst),
		failedAttempts:    make(map[string]*loginAttempt),
		maxFailedAttempts: cfg.MaxFailedAttempts,
		lockoutDuration:   cfg.LockoutDuration,
		attemptWindow:     cfg.AttemptWindow,
		stop:              make(chan struct{}),
	}

	go lp.cleanup()

	return lp
}

// Stop ends the cleanup goroutine. It is safe to call more than once.
func (lp *LoginProtection) Stop() {
	lp.stopOnce.Do(func() { close(lp.stop) })
}

// CheckIPRateLimit reports whether a login submission from ip is allowed.
func (lp *LoginProtection) CheckIPRateLimit(ip string) bool {
	return lp.ipLimiters.get(ip).Allow()
}

func accountKey(identifier string) string {
	return strings.ToLower(strings.TrimSpace(identifier))
}

// IsAccountLocked checks if an account is currently locked.
// Returns (locked, remainingTime).
func (lp *LoginProtection) IsAccountLocked(identifier string) (bool, time.Duration) {
	lp.attemptsMu.RLock()
	attempt, exists := lp.failedAttempts[accountKey(identifier)]
	var lockedUntil time.Time
	if exists {
		lockedUntil = attempt.lockedUntil
	}
	lp.attemptsMu.RUnlock()

	if !exists {
		return false, 0
	}
	if remaining := time.Until(lockedUntil); remaining > 0 {
		return true, remaining
	}
	return false, 0
}

// RecordFailedAttempt records a failed login attempt.
// Returns (locked, lockDuration) if the account is now locked.
func (lp *LoginProtection) RecordFailedAttempt(identifier string) (bool, time.Duration) {
	key := accountKey(identifier)

	lp.attemptsMu.Lock()
	defer lp.attemptsMu.Unlock()

	now := time.Now()
	attempt, exists := lp.failedAttempts[key]

	if !exists {
		attempt = &loginAttempt{count: 1, firstFailed: now}
		lp.failedAttempts[key] = attempt
		slog.Debug("login attempt recorded", "identifier", key, "count", 1)
		return false, 0
	}

	if now.Sub(attempt.firstFailed) > lp.attemptWindow {
		attempt.count = 1
		attempt.firstFailed = now
		slog.Debug("login attempt window reset", "identifier", key, "count", 1)
		return false, 0
	}

	attempt.count++
	slog.Debug("login attempt recorded", "identifier", key, "count", attempt.count)

	if attempt.count < lp.maxFailedAttempts {
		return false, 0
	}

	// Exponential backoff, capped at 24 hours
	lockDuration := lp.lockoutDuration
	for i := 0; i < attempt.lockouts; i++ {
		lockDuration *= 2
		if lockDuration > 24*time.Hour {
			lockDuration = 24 * time.Hour
			break
		}
	}

	attempt.lockedUntil = now.Add(lockDuration)
	attempt.lockouts++
	attempt.count = 0

	slog.Warn("account locked due to failed attempts",
		"identifier", key,
		"lockouts", attempt.lockouts,
		"duration", lockDuration,
	)

	return true, lockDuration
}

// RecordSuccessfulLogin clears failed attempt tracking for an account.
func (lp *LoginProtection) RecordSuccessfulLogin(identifier string) {
	key := accountKey(identifier)

	lp.attemptsMu.Lock()
	defer lp.attemptsMu.Unlock()

	delete(lp.failedAttempts, key)
}

// GetRemainingAttempts returns the number of remaining attempts before lockout.
func (lp *LoginProtection) GetRemainingAttempts(identifier string) int {
	lp.attemptsMu.RLock()
	defer lp.attemptsMu.RUnlock()

	attempt, exists := lp.failedAttempts[accountKey(identifier)]
	if !exists || time.Since(attempt.firstFailed) > lp.attemptWindow {
		return lp.maxFailedAttempts
	}

	return max(lp.maxFailedAttempts-attempt.count, 0)
}

func (lp *LoginProtection) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			lp.cleanupStaleEntries()
		case <-lp.stop:
			return
		}
	}
}

func (lp *LoginProtection) cleanupStaleEntries() {
	now := time.Now()

	if lp.ipLimiters.clearIfExceeds(10000) {
		slog.Info("cleared IP rate limiters due to size")
	}

	lp.attemptsMu.Lock()
	for key, attempt := range lp.failedAttempts {
		if now.After(attempt.lockedUntil) && now.Sub(attempt.firstFailed) > lp.attemptWindow {
			delete(lp.failedAttempts, key)
		}
	}
	lp.attemptsMu.Unlock()
}

// Middleware returns HTTP middleware for IP rate limiting on login.
// Only POST requests are limited.
func (lp *LoginProtection) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}

			ip := ClientIP(r)
			if !lp.CheckIPRateLimit(ip) {
				slog.Warn("login rate limit exceeded", "ip", ip)
				http.Error(w, i18n.T(GetLanguage(r), "error.rate_limit"), http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
