// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"context"
	"time"
)

// DefaultSimulatedDelay is the latency of a simulated login round-trip.
const DefaultSimulatedDelay = time.Second

// SimulatedClient accepts any non-empty identifier/secret pair after a fixed
// delay. No credential is checked.
type SimulatedClient struct {
	Delay time.Duration
	now   func() time.Time
}

// NewSimulatedClient creates a SimulatedClient. A negative delay is treated as zero.
func NewSimulatedClient(delay time.Duration) *SimulatedClient {
	if delay < 0 {
		delay = 0
	}
	return &SimulatedClient{Delay: delay, now: time.Now}
}

// Login waits for the configured delay and then validates field presence.
// The wait ends early with ctx.Err() if the request goes away.
func (c *SimulatedClient) Login(ctx context.Context, identifier, secret string) (Session, error) {
	if c.Delay > 0 {
		timer := time.NewTimer(c.Delay)
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-ctx.Done():
			return Session{}, ctx.Err()
		}
	}

	if err := checkPresent(identifier, secret); err != nil {
		return Session{}, err
	}

	now := time.Now
	if c.now != nil {
		now = c.now
	}
	return newSession(identifier, now()), nil
}
