// Copyright (C) Gufo Labs
// All rights reserved. This file is part of gufoagent.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package collector

import (
	"context"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/gufolabs/gufoagent/internal/relabel"
	"github.com/gufolabs/gufoagent/internal/store"
	"github.com/gufolabs/gufoagent/pkg/label"
	"github.com/gufolabs/gufoagent/pkg/log"
)

// Sink is the subset of the Sender's API a Task needs: submit a
// collection batch. A narrow interface keeps this package free of any
// dependency on how batches get applied, and makes Task trivially
// testable with a fake sink.
type Sink interface {
	Data(batch store.Batch)
}

var nextTaskID int64

// Task runs one Collector on a fixed-interval schedule and forwards
// its output to a Sink. Each Task carries a monotonically increasing
// identity, observable via ID, so reconciliation tests can assert that
// an unchanged collector config keeps the same running task rather
// than being needlessly restarted (spec.md §8 property 8).
type Task struct {
	id        int64
	name      string
	collector Collector
	interval  time.Duration
	labels    label.Set
	ruleset   *relabel.Ruleset
	sink      Sink
	clock     func() int64
	metrics   Metrics
}

// Option configures optional Task behavior.
type Option func(*Task)

// WithClock overrides the wall-clock timestamp source used to stamp
// batches; tests use this to get deterministic timestamps.
func WithClock(clock func() int64) Option {
	return func(t *Task) { t.clock = clock }
}

// WithMetrics attaches a self-observability sink that is bumped once
// per completed/failed collection cycle.
func WithMetrics(m Metrics) Option {
	return func(t *Task) { t.metrics = m }
}

// NewTask builds a Task for collector c, assigning it the next task
// identity.
func NewTask(c Collector, interval time.Duration, labels label.Set, ruleset *relabel.Ruleset, sink Sink, opts ...Option) *Task {
	t := &Task{
		id:        atomic.AddInt64(&nextTaskID, 1),
		name:      c.Name(),
		collector: c,
		interval:  interval,
		labels:    labels,
		ruleset:   ruleset,
		sink:      sink,
		clock:     func() int64 { return time.Now().Unix() },
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ID returns the task's identity counter value, unique for the process
// lifetime.
func (t *Task) ID() int64 { return t.id }

// Name returns the underlying collector's static name.
func (t *Task) Name() string { return t.name }

// Run blocks until ctx is cancelled, performing the randomized-offset
// sleep once, then looping collect/sleep at the fixed interval
// (spec.md §4.2). Cancellation during the initial sleep or the
// inter-cycle sleep returns promptly. An in-flight Collect receives the
// cancelled ctx but is not abandoned: Run returns only after that call
// returns.
func (t *Task) Run(ctx context.Context) {
	defer t.closeCollector()

	offset := t.startupOffset()
	if offset > 0 {
		if !sleepCtx(ctx, offset) {
			return
		}
	}

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	t.cycle(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.cycle(ctx)
		}
	}
}

// closeCollector releases the underlying collector's resources, if it
// implements Closer, once this task's context is cancelled for good
// (spec.md §4.2, §5 "releasing sockets/file handles held in its stack").
func (t *Task) closeCollector() {
	closer, ok := t.collector.(Closer)
	if !ok {
		return
	}
	if err := closer.Close(); err != nil {
		log.Errorf("collector %s: close failed: %s", t.name, err)
	}
}

// startupOffset returns a uniformly sampled duration in [0, interval)
// when the collector requests it, else exactly 0 (spec.md §8 property 9).
func (t *Task) startupOffset() time.Duration {
	if !t.collector.RandomizeOffset() || t.interval <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(t.interval)))
}

func (t *Task) cycle(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("collector %s: collect panicked: %v", t.name, r)
			t.incErrors()
		}
	}()
	measures, err := t.collector.Collect(ctx)
	if err != nil {
		log.Errorf("collector %s: collect failed: %s", t.name, err)
		t.incErrors()
		return
	}
	t.sink.Data(store.Batch{
		Collector:       t.name,
		CollectorLabels: t.labels,
		Ruleset:         t.ruleset,
		Measures:        measures,
		Timestamp:       t.clock(),
	})
	t.incCycles()
}

func (t *Task) incCycles() {
	if t.metrics != nil {
		t.metrics.IncCycles(t.name)
	}
}

func (t *Task) incErrors() {
	if t.metrics != nil {
		t.metrics.IncErrors(t.name)
	}
}

// sleepCtx sleeps for d or until ctx is cancelled, whichever comes
// first. Returns false if ctx was cancelled before d elapsed.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
