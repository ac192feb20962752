// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the portal's periodic maintenance jobs.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Default schedules.
const (
	EventPruneSchedule   = "@daily"
	LimiterPruneSchedule = "@every 10m"
)

// jobTimeout bounds a single job run.
const jobTimeout = 5 * time.Minute

// JobFunc is the body of a scheduled job.
type JobFunc func(ctx context.Context) error

type job struct {
	name     string
	schedule string
	entryID  cron.EntryID
	fn       JobFunc
}

// JobInfo is the public view of a registered job.
type JobInfo struct {
	Name     string
	Schedule string
	LastRun  time.Time
	NextRun  time.Time
}

// Scheduler wraps a cron instance with named, individually triggerable jobs.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger

	mu   sync.RWMutex
	jobs map[string]*job
}

// New creates a new scheduler instance.
func New(logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cron:   cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger: logger,
		jobs:   make(map[string]*job),
	}
}

// Add registers a job under name with a cron schedule such as "@daily" or "*/5 * * * *".
func (s *Scheduler) Add(name, schedule string, fn JobFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %q already registered", name)
	}

	j := &job{name: name, schedule: schedule, fn: fn}
	id, err := s.cron.AddFunc(schedule, func() { s.run(j) })
	if err != nil {
		return fmt.Errorf("scheduling job %q: %w", name, err)
	}
	j.entryID = id
	s.jobs[name] = j
	return nil
}

// Start begins running registered jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// Trigger runs a job immediately, outside its schedule.
func (s *Scheduler) Trigger(name string) error {
	s.mu.RLock()
	j, ok := s.jobs[name]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("job %q not found", name)
	}
	return s.run(j)
}

// Jobs lists registered jobs sorted by name.
func (s *Scheduler) Jobs() []JobInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]JobInfo, 0, len(s.jobs))
	for _, j := range s.jobs {
		entry := s.cron.Entry(j.entryID)
		infos = append(infos, JobInfo{
			Name:     j.name,
			Schedule: j.schedule,
			LastRun:  entry.Prev,
			NextRun:  entry.Next,
		})
	}
	slices.SortFunc(infos, func(a, b JobInfo) int { return strings.Compare(a.Name, b.Name) })
	return infos
}

func (s *Scheduler) run(j *job) error {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	if err := j.fn(ctx); err != nil {
		s.logger.Error("scheduled job failed", "job", j.name, "error", err)
		return err
	}
	s.logger.Debug("scheduled job finished", "job", j.name, "duration", time.Since(start))
	return nil
}
