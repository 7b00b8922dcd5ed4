// Copyright (C) Gufo Labs
// All rights reserved. This file is part of gufoagent.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package selfmetrics exposes the agent's own operational health —
// collection cycles, errors, sender queue depth, store cardinality —
// through a private prometheus.Registry, distinct from the domain
// OpenMetrics exposition the store produces (SPEC_FULL.md §4.8).
// Grounded on the one place the teacher touches
// github.com/prometheus/client_golang: internal/metricdata/prometheus.go.
// Gauges and counters only — no histograms, to stay consistent with
// the domain store's own non-goal on histogram/summary types.
package selfmetrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry bundles the agent's self-observability metrics.
type Registry struct {
	reg *prometheus.Registry

	CollectCycles  *prometheus.CounterVec
	CollectErrors  *prometheus.CounterVec
	SenderQueueLen prometheus.Gauge
	StoreFamilies  prometheus.Gauge
	StoreSamples   prometheus.Gauge
}

// New builds a Registry with every metric registered.
func New() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		reg: reg,
		CollectCycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gufoagent",
			Name:      "collect_cycles_total",
			Help:      "Total number of completed collection cycles, per collector.",
		}, []string{"collector"}),
		CollectErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gufoagent",
			Name:      "collect_errors_total",
			Help:      "Total number of failed collection cycles, per collector.",
		}, []string{"collector"}),
		SenderQueueLen: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gufoagent",
			Name:      "sender_queue_length",
			Help:      "Current number of buffered commands in the sender's command channel.",
		}),
		StoreFamilies: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gufoagent",
			Name:      "store_families",
			Help:      "Current number of distinct metric families held in the store.",
		}),
		StoreSamples: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gufoagent",
			Name:      "store_samples",
			Help:      "Current number of distinct samples (label sets) held in the store.",
		}),
	}

	reg.MustRegister(r.CollectCycles, r.CollectErrors, r.SenderQueueLen, r.StoreFamilies, r.StoreSamples)
	return r
}

// Registry returns the underlying prometheus.Registry, for wiring into
// promhttp.HandlerFor by internal/httpserver.
func (r *Registry) Registry() *prometheus.Registry {
	return r.reg
}

// IncCycles and IncErrors satisfy internal/collector.Metrics, letting a
// Registry be handed directly to a Supervisor/Task as its cycle sink.
func (r *Registry) IncCycles(collector string) {
	r.CollectCycles.WithLabelValues(collector).Inc()
}

func (r *Registry) IncErrors(collector string) {
	r.CollectErrors.WithLabelValues(collector).Inc()
}

// SetQueueLen and SetStoreCardinality update the periodic gauges;
// called from internal/housekeeping's scheduled job.
func (r *Registry) SetQueueLen(n int) {
	r.SenderQueueLen.Set(float64(n))
}

func (r *Registry) SetStoreCardinality(families, samples int) {
	r.StoreFamilies.Set(float64(families))
	r.StoreSamples.Set(float64(samples))
}
