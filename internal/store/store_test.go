// Copyright (C) Gufo Labs
// All rights reserved. This file is part of gufoagent.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package store

import (
	"strings"
	"testing"

	"github.com/gufolabs/gufoagent/pkg/label"
	"github.com/gufolabs/gufoagent/pkg/measure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarioA_BasicGauge(t *testing.T) {
	s := New()
	s.SetAgentLabels(label.New(label.Label{Key: "host", Value: "h1"}))
	s.ApplyData(Batch{
		Collector: "cpu",
		Measures: []measure.Measure{{
			Name:   "cpu_idle",
			Help:   "idle",
			Value:  measure.GaugeFloat(12.5),
			Labels: label.New(label.Label{Key: "cpu", Value: "0"}),
		}},
		Timestamp: 1000,
	})

	var buf strings.Builder
	require.NoError(t, s.WriteOpenMetrics(&buf))
	assert.Equal(t, "# HELP cpu_idle idle\n"+
		"# TYPE cpu_idle gauge\n"+
		"cpu_idle{cpu=\"0\",host=\"h1\"} 12.5 1000\n"+
		"# EOF\n", buf.String())
}

func TestFamilyIsolationAcrossCollectors(t *testing.T) {
	s := New()
	s.ApplyData(Batch{Collector: "a", Measures: []measure.Measure{{Name: "x", Value: measure.Gauge(1)}}})
	s.ApplyData(Batch{Collector: "b", Measures: []measure.Measure{{Name: "x", Value: measure.Gauge(2)}}})

	var buf strings.Builder
	require.NoError(t, s.WriteOpenMetrics(&buf))
	assert.Equal(t, 2, strings.Count(buf.String(), "# TYPE x gauge"))
}

func TestLastWriteWins(t *testing.T) {
	s := New()
	labels := label.New(label.Label{Key: "k", Value: "v"})
	s.ApplyData(Batch{Collector: "a", Measures: []measure.Measure{{Name: "x", Value: measure.Gauge(1), Labels: labels}}})
	s.ApplyData(Batch{Collector: "a", Measures: []measure.Measure{{Name: "x", Value: measure.Gauge(2), Labels: labels}}, Timestamp: 42})

	var buf strings.Builder
	require.NoError(t, s.WriteOpenMetrics(&buf))
	assert.Contains(t, buf.String(), `x{k="v"} 2 42`)
	assert.NotContains(t, buf.String(), `x{k="v"} 1`)
}

func TestLabelCanonicalOrder(t *testing.T) {
	s := New()
	s.ApplyData(Batch{Collector: "a", Measures: []measure.Measure{{
		Name: "m",
		Value: measure.Gauge(1),
		Labels: label.New(
			label.Label{Key: "z", Value: "1"},
			label.Label{Key: "a", Value: "2"},
			label.Label{Key: "m", Value: "3"},
		),
	}}})

	var buf strings.Builder
	require.NoError(t, s.WriteOpenMetrics(&buf))
	assert.Contains(t, buf.String(), `m{a="2",m="3",z="1"} 1`)
}

func TestVirtualLabelSuppressed(t *testing.T) {
	s := New()
	s.ApplyData(Batch{Collector: "a", Measures: []measure.Measure{{
		Name:   "m",
		Value:  measure.Gauge(1),
		Labels: label.New(label.Label{Key: "__meta_x", Value: "y"}, label.Label{Key: "host", Value: "h"}),
	}}})

	var buf strings.Builder
	require.NoError(t, s.WriteOpenMetrics(&buf))
	assert.NotContains(t, buf.String(), "__meta_x")
	assert.Contains(t, buf.String(), `m{host="h"} 1`)
}

func TestScenarioE_TypeConflictDropped(t *testing.T) {
	s := New()
	s.ApplyData(Batch{Collector: "a", Measures: []measure.Measure{{Name: "x", Value: measure.Counter(1)}}})
	s.ApplyData(Batch{Collector: "a", Measures: []measure.Measure{{Name: "x", Value: measure.Gauge(2)}}})

	var buf strings.Builder
	require.NoError(t, s.WriteOpenMetrics(&buf))
	out := buf.String()
	assert.Contains(t, out, "# TYPE x counter")
	assert.Contains(t, out, "x 1")
}

func TestOpenMetricsFraming(t *testing.T) {
	s := New()
	s.ApplyData(Batch{Collector: "a", Measures: []measure.Measure{{Name: "x", Value: measure.Gauge(1)}}})

	var buf strings.Builder
	require.NoError(t, s.WriteOpenMetrics(&buf))
	out := buf.String()
	assert.True(t, strings.HasSuffix(out, "# EOF\n"))
	assert.False(t, strings.Contains(out, "\n\n"))
}

func TestEmptyLabelSetOmitsBraces(t *testing.T) {
	s := New()
	s.ApplyData(Batch{Collector: "a", Measures: []measure.Measure{{Name: "x", Value: measure.Gauge(1)}}})

	var buf strings.Builder
	require.NoError(t, s.WriteOpenMetrics(&buf))
	assert.Contains(t, buf.String(), "x 1\n")
	assert.NotContains(t, buf.String(), "x{}")
}
