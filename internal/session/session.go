// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/scs/goredisstore"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
	"github.com/redis/go-redis/v9"
)

// Backend names accepted by Options.Backend.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// DefaultLifetime is how long an idle-or-not session lives.
const DefaultLifetime = 24 * time.Hour

// cookieName is used in production; the __Host- prefix pins the cookie to
// this host, path "/" and Secure.
const cookieName = "__Host-portal_session"

// Options configures the session manager.
type Options struct {
	Backend  string
	DB       *sql.DB // required for BackendSQLite
	RedisURL string  // required for BackendRedis
	Lifetime time.Duration
	IsDev    bool
}

// New creates a session manager using the configured backend.
// The returned close function releases backend resources (redis client,
// cleanup goroutines) and is never nil.
func New(opts Options) (*scs.SessionManager, func() error, error) {
	sm := scs.New()
	closeFn := func() error { return nil }

	switch opts.Backend {
	case BackendMemory, "":
		store := memstore.New()
		sm.Store = store
		closeFn = func() error { store.StopCleanup(); return nil }
	case BackendSQLite:
		if opts.DB == nil {
			return nil, nil, fmt.Errorf("session backend %q requires a database", opts.Backend)
		}
		store := sqlite3store.New(opts.DB)
		sm.Store = store
		closeFn = func() error { store.StopCleanup(); return nil }
	case BackendRedis:
		client, err := newRedisClient(opts.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		sm.Store = goredisstore.New(client)
		closeFn = client.Close
	default:
		return nil, nil, fmt.Errorf("unknown session backend %q", opts.Backend)
	}

	configure(sm, opts)
	return sm, closeFn, nil
}

func configure(sm *scs.SessionManager, opts Options) {
	sm.Lifetime = opts.Lifetime
	if sm.Lifetime <= 0 {
		sm.Lifetime = DefaultLifetime
	}
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"
	sm.Cookie.Persist = true
	sm.Cookie.Secure = !opts.IsDev
	if !opts.IsDev {
		sm.Cookie.Name = cookieName
	}
}

func newRedisClient(url string) (*redis.Client, error) {
	if url == "" {
		return nil, fmt.Errorf("session backend %q requires a redis URL", BackendRedis)
	}
	redisOpts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}
	client := redis.NewClient(redisOpts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return client, nil
}
