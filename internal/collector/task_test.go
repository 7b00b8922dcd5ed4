// Copyright (C) Gufo Labs
// All rights reserved. This file is part of gufoagent.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package collector

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gufolabs/gufoagent/internal/store"
	"github.com/gufolabs/gufoagent/pkg/measure"
	"github.com/stretchr/testify/assert"
)

type fakeCollector struct {
	name      string
	randomize bool
	collect   func(ctx context.Context) ([]measure.Measure, error)
}

func (f *fakeCollector) Name() string                { return f.name }
func (f *fakeCollector) RandomizeOffset() bool        { return f.randomize }
func (f *fakeCollector) Collect(ctx context.Context) ([]measure.Measure, error) {
	return f.collect(ctx)
}

type closingCollector struct {
	fakeCollector
	closed int
}

func (c *closingCollector) Close() error {
	c.closed++
	return nil
}

type recordingMetrics struct {
	mu     sync.Mutex
	cycles map[string]int
	errors map[string]int
}

func (m *recordingMetrics) IncCycles(collector string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cycles == nil {
		m.cycles = map[string]int{}
	}
	m.cycles[collector]++
}

func (m *recordingMetrics) IncErrors(collector string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.errors == nil {
		m.errors = map[string]int{}
	}
	m.errors[collector]++
}

type recordingSink struct {
	mu      sync.Mutex
	batches []store.Batch
}

func (s *recordingSink) Data(b store.Batch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = append(s.batches, b)
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.batches)
}

func TestTaskZeroOffsetWhenNotRandomized(t *testing.T) {
	c := &fakeCollector{name: "x", randomize: false, collect: func(ctx context.Context) ([]measure.Measure, error) { return nil, nil }}
	task := NewTask(c, time.Hour, nil, nil, &recordingSink{})
	assert.Equal(t, time.Duration(0), task.startupOffset())
}

func TestTaskOffsetWithinBounds(t *testing.T) {
	c := &fakeCollector{name: "x", randomize: true, collect: func(ctx context.Context) ([]measure.Measure, error) { return nil, nil }}
	task := NewTask(c, 10*time.Second, nil, nil, &recordingSink{})
	for i := 0; i < 50; i++ {
		offset := task.startupOffset()
		assert.GreaterOrEqual(t, offset, time.Duration(0))
		assert.Less(t, offset, 10*time.Second)
	}
}

func TestTaskContinuesAfterCollectError(t *testing.T) {
	sink := &recordingSink{}
	calls := 0
	c := &fakeCollector{name: "x", collect: func(ctx context.Context) ([]measure.Measure, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("boom")
		}
		return []measure.Measure{{Name: "m", Value: measure.Gauge(1)}}, nil
	}}
	task := NewTask(c, time.Hour, nil, nil, sink, WithClock(func() int64 { return 1 }))

	task.cycle(context.Background())
	assert.Equal(t, 0, sink.count())
	task.cycle(context.Background())
	assert.Equal(t, 1, sink.count())
}

func TestTaskSurvivesPanic(t *testing.T) {
	sink := &recordingSink{}
	c := &fakeCollector{name: "x", collect: func(ctx context.Context) ([]measure.Measure, error) {
		panic("boom")
	}}
	task := NewTask(c, time.Hour, nil, nil, sink)
	assert.NotPanics(t, func() { task.cycle(context.Background()) })
}

func TestTaskIdentityIncrements(t *testing.T) {
	c := &fakeCollector{name: "x", collect: func(ctx context.Context) ([]measure.Measure, error) { return nil, nil }}
	t1 := NewTask(c, time.Second, nil, nil, &recordingSink{})
	t2 := NewTask(c, time.Second, nil, nil, &recordingSink{})
	assert.Less(t, t1.ID(), t2.ID())
}

func TestTaskRunStopsOnCancel(t *testing.T) {
	sink := &recordingSink{}
	c := &fakeCollector{name: "x", collect: func(ctx context.Context) ([]measure.Measure, error) { return nil, nil }}
	task := NewTask(c, 5*time.Millisecond, nil, nil, sink)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		task.Run(ctx)
		close(done)
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.GreaterOrEqual(t, sink.count(), 1)
}

func TestTaskClosesCollectorOnCancel(t *testing.T) {
	c := &closingCollector{fakeCollector: fakeCollector{
		name:    "x",
		collect: func(ctx context.Context) ([]measure.Measure, error) { return nil, nil },
	}}
	task := NewTask(c, 5*time.Millisecond, nil, nil, &recordingSink{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		task.Run(ctx)
		close(done)
	}()
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Equal(t, 1, c.closed)
}

func TestTaskReportsMetrics(t *testing.T) {
	sink := &recordingSink{}
	metrics := &recordingMetrics{}
	calls := 0
	c := &fakeCollector{name: "x", collect: func(ctx context.Context) ([]measure.Measure, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("boom")
		}
		return []measure.Measure{{Name: "m", Value: measure.Gauge(1)}}, nil
	}}
	task := NewTask(c, time.Hour, nil, nil, sink, WithMetrics(metrics))

	task.cycle(context.Background())
	task.cycle(context.Background())

	assert.Equal(t, 1, metrics.errors["x"])
	assert.Equal(t, 1, metrics.cycles["x"])
}
