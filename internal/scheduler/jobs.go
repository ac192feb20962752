// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// Job names.
const (
	JobPruneEvents   = "prune-events"
	JobPruneLimiters = "prune-limiters"
)

// maxTrackedClients is the public limiter size that triggers a reset.
const maxTrackedClients = 10000

// EventPruner deletes audit events older than a retention window.
type EventPruner interface {
	DeleteOldEvents(ctx context.Context, olderThan time.Duration) (int64, error)
}

// LimiterPruner drops per-client limiter state once it grows too large.
type LimiterPruner interface {
	Prune(maxSize int)
}

// PruneEvents returns a job that removes events older than retention.
func PruneEvents(events EventPruner, retention time.Duration, logger *slog.Logger) JobFunc {
	return func(ctx context.Context) error {
		deleted, err := events.DeleteOldEvents(ctx, retention)
		if err != nil {
			return err
		}
		if deleted > 0 {
			logger.Info("pruned old events", "deleted", deleted, "retention", retention)
		}
		return nil
	}
}

// PruneLimiters returns a job that resets the public rate limiter when it
// tracks too many clients.
func PruneLimiters(limiter LimiterPruner) JobFunc {
	return func(context.Context) error {
		limiter.Prune(maxTrackedClients)
		return nil
	}
}

// RegisterMaintenance adds the event and limiter pruning jobs.
// A nil limiter or non-positive retention skips the matching job.
func (s *Scheduler) RegisterMaintenance(events EventPruner, retention time.Duration, limiter LimiterPruner) error {
	if events != nil && retention > 0 {
		if err := s.Add(JobPruneEvents, EventPruneSchedule, PruneEvents(events, retention, s.logger)); err != nil {
			return err
		}
	}
	if limiter != nil {
		if err := s.Add(JobPruneLimiters, LimiterPruneSchedule, PruneLimiters(limiter)); err != nil {
			return err
		}
	}
	return nil
}
