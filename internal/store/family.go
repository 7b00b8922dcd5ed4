// Copyright (C) Gufo Labs
// All rights reserved. This file is part of gufoagent.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package store

import (
	"github.com/gufolabs/gufoagent/pkg/label"
	"github.com/gufolabs/gufoagent/pkg/measure"
)

// entry is the stored (value, timestamp) pair for one label set within
// a family. ts is seconds since epoch; 0 means "no timestamp", matching
// the OpenMetrics rendering rule in spec.md §4.6.
type entry struct {
	value measure.Value
	ts    int64
}

// family is all samples sharing one metric name within one collector
// scope (spec.md §3 "Metric family data"). type is fixed on first
// insertion; values never shrink, only gain/overwrite entries.
type family struct {
	help   string
	kind   measure.Kind
	values map[string]entry     // label.Set.Key() -> entry
	labels map[string]label.Set // label.Set.Key() -> the labels themselves, for iteration
}

func newFamily(help string, kind measure.Kind) *family {
	return &family{
		help:   help,
		kind:   kind,
		values: make(map[string]entry),
		labels: make(map[string]label.Set),
	}
}

// set inserts or overwrites the sample for labels, recording ts as
// already resolved by the caller (the measure's own timestamp, else the
// batch's); 0 means "no timestamp".
func (f *family) set(labels label.Set, v measure.Value, ts int64) {
	key := labels.Key()
	f.values[key] = entry{value: v, ts: ts}
	f.labels[key] = labels
}
