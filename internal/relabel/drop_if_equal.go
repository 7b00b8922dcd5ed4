// Copyright (C) Gufo Labs
// All rights reserved. This file is part of gufoagent.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package relabel

// dropIfEqualRule discards the sample when every listed source label
// carries the same value. Requires at least two source_labels.
type dropIfEqualRule struct {
	sourceLabels []string
}

func newDropIfEqualRule(cfg Config) (Rule, error) {
	if len(cfg.SourceLabels) < 2 {
		return nil, errRequired("drop_if_equal", "source_labels (>= 2 names)")
	}
	return &dropIfEqualRule{sourceLabels: cfg.SourceLabels}, nil
}

func (r *dropIfEqualRule) Apply(active *Active) Outcome {
	first, ok := active.Get(r.sourceLabels[0])
	if !ok {
		return Keep
	}
	for _, name := range r.sourceLabels[1:] {
		v, ok := active.Get(name)
		if !ok || v != first {
			return Keep
		}
	}
	return DropSample
}
