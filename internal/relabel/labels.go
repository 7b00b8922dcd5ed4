// Copyright (C) Gufo Labs
// All rights reserved. This file is part of gufoagent.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package relabel

import (
	"sort"

	"github.com/gufolabs/gufoagent/pkg/label"
)

// NameLabel is the synthetic virtual key carrying a Measure's metric
// name into the active set, per spec.md §3/§4.5.
const NameLabel = "__name__"

// Active is the mutable virtual label set rules operate on. It is
// built once per sample by merging agent, collector, and measure
// labels (low-to-high precedence) plus the synthetic __name__ key, and
// is mutated in place as each rule in a Ruleset runs.
type Active struct {
	m map[string]string
}

// NewActive merges agent/collector/measure label sets (agent lowest
// precedence, measure highest, per spec.md §3) and seeds __name__ from
// the measure's name.
func NewActive(agentLabels, collectorLabels, measureLabels label.Set, name string) *Active {
	a := &Active{m: make(map[string]string, len(agentLabels)+len(collectorLabels)+len(measureLabels)+1)}
	for _, l := range agentLabels {
		a.m[l.Key] = l.Value
	}
	for _, l := range collectorLabels {
		a.m[l.Key] = l.Value
	}
	for _, l := range measureLabels {
		a.m[l.Key] = l.Value
	}
	a.m[NameLabel] = name
	return a
}

// Get returns the current value for key.
func (a *Active) Get(key string) (string, bool) {
	v, ok := a.m[key]
	return v, ok
}

// Set writes key=value, overwriting any prior value.
func (a *Active) Set(key, value string) {
	a.m[key] = value
}

// Delete removes key, if present.
func (a *Active) Delete(key string) {
	delete(a.m, key)
}

// Keys returns all current keys in ascending order.
func (a *Active) Keys() []string {
	keys := make([]string, 0, len(a.m))
	for k := range a.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Name returns the current value of the __name__ virtual label, i.e.
// the effective output metric name after relabeling (spec.md §4.5).
func (a *Active) Name() string {
	return a.m[NameLabel]
}

// ToLabelSet renders a's non-virtual keys as a canonical label.Set,
// suitable for attaching to the output Measure.
func (a *Active) ToLabelSet() label.Set {
	out := make(label.Set, 0, len(a.m))
	for k, v := range a.m {
		if k == NameLabel {
			continue
		}
		out = append(out, label.Label{Key: k, Value: v})
	}
	return out.WithoutVirtual()
}

// Clone returns an independent copy of a, so a rule's effect can be
// compared against the original set.
func (a *Active) Clone() *Active {
	c := &Active{m: make(map[string]string, len(a.m))}
	for k, v := range a.m {
		c.m[k] = v
	}
	return c
}
