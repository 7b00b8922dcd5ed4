// Copyright (C) Gufo Labs
// All rights reserved. This file is part of gufoagent.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"sort"

	"github.com/mitchellh/hashstructure/v2"
)

// Hash computes a stable hash over a collector's semantic fields — id,
// type, interval, disabled flag, labels, and inner payload — so that
// two configs equal under those fields hash equally regardless of
// field-insertion order or YAML key order (spec.md §4.1, §8 property 7,
// §9 "Config hashing").
//
// hashstructure already hashes maps independently of key order; the
// interval normalization below (nil becomes 0) and stablePayload exist
// only to normalize the two fields that are not plain maps (a *int and
// arbitrary nested payload values) before hashing.
func (c Collector) Hash() (uint64, error) {
	type hashable struct {
		ID       string
		Type     string
		Interval int
		Disabled bool
		Labels   map[string]string
		Payload  interface{}
	}

	interval := 0
	if c.Interval != nil {
		interval = *c.Interval
	}

	h := hashable{
		ID:       c.ID,
		Type:     c.Type,
		Interval: interval,
		Disabled: c.Disabled,
		Labels:   c.Labels,
		Payload:  stablePayload(c.Payload),
	}
	return hashstructure.Hash(h, hashstructure.FormatV2, nil)
}

// stablePayload recursively copies a payload's nested maps and slices
// before handing the whole thing to hashstructure. The copied maps are
// still maps, which hashstructure hashes independently of key order, so
// YAML key order never affects the hash; []interface{} values stay
// slices and are hashed positionally, so reordering a YAML sequence
// does change the hash.
func stablePayload(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			out[k] = stablePayload(t[k])
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = stablePayload(e)
		}
		return out
	default:
		return v
	}
}
