// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package health runs the periodic backend liveness probe.
//
// The probe drives the session's online flag only; the state machine
// never blocks on it. A send attempted while offline still goes out and
// fails through the normal error path.
package health

import (
	"context"
	"sync"
	"time"
)

// DefaultInterval is the probe cadence when none is configured.
const DefaultInterval = 30 * time.Second

// probeTimeout bounds a single probe; failures should be detected well
// before the next tick.
const probeTimeout = 5 * time.Second

// Prober checks backend liveness. gateway.Client satisfies this.
type Prober interface {
	CheckHealth(ctx context.Context) bool
}

// Monitor probes the backend on a fixed interval and reports
// reachability transitions to a callback.
type Monitor struct {
	prober   Prober
	interval time.Duration
	onChange func(online bool)

	mu      sync.Mutex
	cancel  context.CancelFunc
	running bool
}

// NewMonitor creates a monitor. onChange fires once at startup with the
// first probe result and afterwards only on transitions.
func NewMonitor(prober Prober, interval time.Duration, onChange func(online bool)) *Monitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Monitor{
		prober:   prober,
		interval: interval,
		onChange: onChange,
	}
}

// Start launches the probe loop. Calling Start on a running monitor is
// a no-op.
func (m *Monitor) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return
	}
	ctx, m.cancel = context.WithCancel(ctx)
	m.running = true
	go m.loop(ctx)
}

// Stop halts the probe loop.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return
	}
	m.cancel()
	m.running = false
}

func (m *Monitor) loop(ctx context.Context) {
	// First probe immediately so the UI isn't wrong for a whole interval.
	last := m.probe(ctx)
	m.onChange(last)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			online := m.probe(ctx)
			if online != last {
				last = online
				m.onChange(online)
			}
		}
	}
}

func (m *Monitor) probe(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	return m.prober.CheckHealth(ctx)
}
