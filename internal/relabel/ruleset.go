// Copyright (C) Gufo Labs
// All rights reserved. This file is part of gufoagent.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package relabel

import (
	"fmt"

	"github.com/gufolabs/gufoagent/pkg/label"
)

// Ruleset is an ordered list of rules applied to a single sample.
type Ruleset struct {
	rules []Rule
}

// NewRuleset validates and builds each Config's Rule in order.
func NewRuleset(configs []Config) (*Ruleset, error) {
	rules := make([]Rule, 0, len(configs))
	for i, cfg := range configs {
		r, err := Build(cfg)
		if err != nil {
			return nil, fmt.Errorf("relabel: rule %d: %w", i, err)
		}
		rules = append(rules, r)
	}
	return &Ruleset{rules: rules}, nil
}

// Apply runs every rule in order against a sample built from the given
// label scopes and name. It returns the transformed name/labels and
// true, or (zero value, false) if any rule decided to drop the sample.
//
// On the first DropSample outcome, evaluation stops immediately and
// the sample is dropped; otherwise every rule runs and the final
// active set is used to materialize the result. The output name is
// __name__'s current value, or the original name if __name__ was
// deleted (spec.md §4.5).
func (rs *Ruleset) Apply(agentLabels, collectorLabels, measureLabels label.Set, name string) (outName string, outLabels label.Set, keep bool) {
	active := NewActive(agentLabels, collectorLabels, measureLabels, name)
	for _, r := range rs.rules {
		if r.Apply(active) == DropSample {
			return "", nil, false
		}
	}
	outName = active.Name()
	if outName == "" {
		outName = name
	}
	return outName, active.ToLabelSet(), true
}

// Merge builds the same merged label.Set and name rule evaluation
// would see, without running any rules — used when a batch carries no
// ruleset (spec.md §4.4 apply_data step 1: "otherwise construct the
// merged set without rule evaluation").
func Merge(agentLabels, collectorLabels, measureLabels label.Set, name string) (string, label.Set) {
	active := NewActive(agentLabels, collectorLabels, measureLabels, name)
	outName := active.Name()
	if outName == "" {
		outName = name
	}
	return outName, active.ToLabelSet()
}
