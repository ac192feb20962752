// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/olegiv/portal-go/internal/testutil"
)

type fakePruner struct {
	retention time.Duration
	calls     int
	err       error
}

func (f *fakePruner) DeleteOldEvents(_ context.Context, olderThan time.Duration) (int64, error) {
	f.calls++
	f.retention = olderThan
	return 3, f.err
}

type fakeLimiter struct {
	maxSize int
}

func (f *fakeLimiter) Prune(maxSize int) { f.maxSize = maxSize }

func TestNew(t *testing.T) {
	logger := testutil.TestLoggerSilent()

	s := New(logger)
	if s == nil {
		t.Fatal("New() returned nil")
	}
	if s.cron == nil {
		t.Error("New() scheduler has nil cron")
	}
	if s.logger != logger {
		t.Error("New() scheduler has wrong logger")
	}
}

func TestScheduler_StartStop(t *testing.T) {
	s := New(slog.Default())
	if err := s.Add("noop", "@hourly", func(context.Context) error { return nil }); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	s.Start()
	s.Stop()
}

func TestScheduler_Add(t *testing.T) {
	s := New(nil)
	noop := func(context.Context) error { return nil }

	if err := s.Add("a", "@daily", noop); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := s.Add("a", "@daily", noop); err == nil {
		t.Error("expected error for duplicate job")
	}
	if err := s.Add("b", "not a schedule", noop); err == nil {
		t.Error("expected error for invalid schedule")
	}

	jobs := s.Jobs()
	if len(jobs) != 1 || jobs[0].Name != "a" || jobs[0].Schedule != "@daily" {
		t.Errorf("Jobs() = %+v", jobs)
	}
}

func TestScheduler_Trigger(t *testing.T) {
	s := New(testutil.TestLoggerSilent())
	var runs atomic.Int32
	boom := errors.New("boom")

	_ = s.Add("count", "@daily", func(context.Context) error {
		runs.Add(1)
		return nil
	})
	_ = s.Add("fail", "@daily", func(context.Context) error { return boom })

	if err := s.Trigger("count"); err != nil {
		t.Fatalf("Trigger() error = %v", err)
	}
	if runs.Load() != 1 {
		t.Errorf("runs = %d, want 1", runs.Load())
	}
	if err := s.Trigger("fail"); !errors.Is(err, boom) {
		t.Errorf("Trigger(fail) = %v, want boom", err)
	}
	if err := s.Trigger("missing"); err == nil {
		t.Error("expected error for unknown job")
	}
}

func TestRegisterMaintenance(t *testing.T) {
	s := New(nil)
	events := &fakePruner{}
	limiter := &fakeLimiter{}

	if err := s.RegisterMaintenance(events, 720*time.Hour, limiter); err != nil {
		t.Fatalf("RegisterMaintenance() error = %v", err)
	}
	if got := len(s.Jobs()); got != 2 {
		t.Fatalf("Jobs() = %d, want 2", got)
	}

	if err := s.Trigger(JobPruneEvents); err != nil {
		t.Fatalf("Trigger(%s) error = %v", JobPruneEvents, err)
	}
	if events.calls != 1 || events.retention != 720*time.Hour {
		t.Errorf("pruner calls = %d retention = %v", events.calls, events.retention)
	}

	if err := s.Trigger(JobPruneLimiters); err != nil {
		t.Fatalf("Trigger(%s) error = %v", JobPruneLimiters, err)
	}
	if limiter.maxSize != maxTrackedClients {
		t.Errorf("limiter maxSize = %d", limiter.maxSize)
	}
}

func TestRegisterMaintenance_Skips(t *testing.T) {
	s := New(nil)
	if err := s.RegisterMaintenance(&fakePruner{}, 0, nil); err != nil {
		t.Fatalf("RegisterMaintenance() error = %v", err)
	}
	if got := len(s.Jobs()); got != 0 {
		t.Errorf("Jobs() = %d, want 0", got)
	}
}

func TestPruneEvents_Error(t *testing.T) {
	boom := errors.New("db down")
	job := PruneEvents(&fakePruner{err: boom}, time.Hour, testutil.TestLoggerSilent())
	if err := job(context.Background()); !errors.Is(err, boom) {
		t.Errorf("job() = %v, want db down", err)
	}
}
