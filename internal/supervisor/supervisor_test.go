// Copyright (C) Gufo Labs
// All rights reserved. This file is part of gufoagent.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package supervisor

import (
	"context"
	"testing"

	"github.com/gufolabs/gufoagent/internal/config"
	"github.com/gufolabs/gufoagent/internal/collector"
	"github.com/gufolabs/gufoagent/internal/store"
	"github.com/gufolabs/gufoagent/pkg/label"
	"github.com/gufolabs/gufoagent/pkg/measure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopCollector struct{ name string }

func (c *noopCollector) Name() string         { return c.name }
func (c *noopCollector) RandomizeOffset() bool { return false }
func (c *noopCollector) Collect(ctx context.Context) ([]measure.Measure, error) {
	return nil, nil
}

type fakeSink struct{}

func (fakeSink) Data(store.Batch)             {}
func (fakeSink) SetAgentLabels(label.Set) {}

func testFactory(cfg config.Collector) (collector.Collector, error) {
	return &noopCollector{name: cfg.ID}, nil
}

func newInterval(n int) *int { return &n }

func TestReconciliationScenarioF(t *testing.T) {
	sv := New(fakeSink{}, testFactory, func(ctx context.Context) {})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg1 := &config.Config{Collectors: []config.Collector{
		{ID: "A", Type: "x", Interval: newInterval(10)},
		{ID: "B", Type: "x", Interval: newInterval(10)},
	}}
	sv.Apply(ctx, cfg1)

	idA1, ok := sv.RunningTaskID("A")
	require.True(t, ok)
	_, ok = sv.RunningTaskID("B")
	require.True(t, ok)

	cfg2 := &config.Config{Collectors: []config.Collector{
		{ID: "A", Type: "x", Interval: newInterval(20)}, // A' differs only in interval
		{ID: "C", Type: "x", Interval: newInterval(10)},
	}}
	sv.Apply(ctx, cfg2)

	idA2, ok := sv.RunningTaskID("A")
	require.True(t, ok)
	assert.NotEqual(t, idA1, idA2, "A should be restarted with a new identity")

	_, ok = sv.RunningTaskID("B")
	assert.False(t, ok, "B should be stopped")

	_, ok = sv.RunningTaskID("C")
	assert.True(t, ok, "C should be spawned")
}

func TestReconciliationUnchangedHashKeepsIdentity(t *testing.T) {
	sv := New(fakeSink{}, testFactory, func(ctx context.Context) {})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := &config.Config{Collectors: []config.Collector{
		{ID: "A", Type: "x", Interval: newInterval(10)},
	}}
	sv.Apply(ctx, cfg)
	id1, _ := sv.RunningTaskID("A")

	sv.Apply(ctx, cfg)
	id2, _ := sv.RunningTaskID("A")

	assert.Equal(t, id1, id2, "unchanged collector config must not restart the task")
}

func TestDisabledCollectorIsStopped(t *testing.T) {
	sv := New(fakeSink{}, testFactory, func(ctx context.Context) {})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sv.Apply(ctx, &config.Config{Collectors: []config.Collector{{ID: "A", Type: "x", Interval: newInterval(10)}}})
	_, ok := sv.RunningTaskID("A")
	require.True(t, ok)

	sv.Apply(ctx, &config.Config{Collectors: []config.Collector{{ID: "A", Type: "x", Interval: newInterval(10), Disabled: true}}})
	_, ok = sv.RunningTaskID("A")
	assert.False(t, ok)
}

func TestSenderStartedOnlyOnce(t *testing.T) {
	starts := 0
	sv := New(fakeSink{}, testFactory, func(ctx context.Context) { starts++ })
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sv.Apply(ctx, &config.Config{})
	sv.Apply(ctx, &config.Config{})
	assert.Equal(t, 1, starts)
}
