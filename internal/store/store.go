// Copyright (C) Gufo Labs
// All rights reserved. This file is part of gufoagent.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package store implements the in-memory metrics store: per-collector
// metric families keyed by name, each holding the latest value per
// label set, plus the OpenMetrics serializer that exposes them.
package store

import (
	"sort"
	"sync"

	"github.com/gufolabs/gufoagent/internal/relabel"
	"github.com/gufolabs/gufoagent/pkg/label"
	"github.com/gufolabs/gufoagent/pkg/log"
	"github.com/gufolabs/gufoagent/pkg/measure"
)

// Batch is one collection cycle's output, as submitted to the Sender
// (spec.md §4.2/§4.3): a collector identity, its label scope, an
// optional relabel ruleset, the measures collected, and the batch
// arrival timestamp used when a Measure carries none of its own.
type Batch struct {
	Collector       string
	CollectorLabels label.Set
	Ruleset         *relabel.Ruleset
	Measures        []measure.Measure
	Timestamp       int64
}

type familyKey struct {
	collector string
	name      string
}

// Store is the sole owner of metric data: created once at sender
// startup, written only by ApplyData/SetAgentLabels under the write
// lock, read by WriteOpenMetrics under the read lock (spec.md §3
// "Ownership").
type Store struct {
	mu          sync.RWMutex
	agentLabels label.Set
	families    map[familyKey]*family
}

// New returns an empty Store.
func New() *Store {
	return &Store{families: make(map[familyKey]*family)}
}

// SetAgentLabels replaces the agent-scope label set used when merging
// the virtual label set for subsequent ApplyData calls.
func (s *Store) SetAgentLabels(labels label.Set) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.agentLabels = labels
}

// ApplyData runs relabeling (if the batch carries a ruleset) or a bare
// merge over every Measure in the batch, then inserts or overwrites the
// resulting sample. Type conflicts and relabel errors are logged and
// the affected sample is dropped; the rest of the batch proceeds
// (spec.md §4.4, §7).
func (s *Store) ApplyData(batch Batch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	agentLabels := s.agentLabels
	for _, m := range batch.Measures {
		var name string
		var labels label.Set
		if batch.Ruleset != nil {
			var keep bool
			name, labels, keep = batch.Ruleset.Apply(agentLabels, batch.CollectorLabels, m.Labels, m.Name)
			if !keep {
				continue
			}
		} else {
			name, labels = relabel.Merge(agentLabels, batch.CollectorLabels, m.Labels, m.Name)
		}

		key := familyKey{collector: batch.Collector, name: name}
		f := s.families[key]
		if f == nil {
			f = newFamily(m.Help, m.Value.Kind())
			s.families[key] = f
		} else if f.kind != m.Value.Kind() {
			log.Errorf("store: type conflict for %s/%s: family is %s, sample is %s; dropping sample",
				batch.Collector, name, f.kind.OpenMetricsType(), m.Value.Kind().OpenMetricsType())
			continue
		}

		ts := batch.Timestamp
		if m.Timestamp != nil {
			ts = *m.Timestamp
		}
		f.set(labels, m.Value, ts)
	}
}

// Cardinality reports the current number of metric families and the
// total number of distinct samples across all of them, for
// self-observability and the housekeeping diagnostic.
func (s *Store) Cardinality() (families, samples int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	families = len(s.families)
	for _, f := range s.families {
		samples += len(f.values)
	}
	return families, samples
}

// sortedKeys returns the store's family keys in ascending
// (collector_id, metric_name) order (spec.md §4.6).
func (s *Store) sortedKeys() []familyKey {
	keys := make([]familyKey, 0, len(s.families))
	for k := range s.families {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].collector != keys[j].collector {
			return keys[i].collector < keys[j].collector
		}
		return keys[i].name < keys[j].name
	})
	return keys
}
