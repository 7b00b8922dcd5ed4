// Copyright (C) Gufo Labs
// All rights reserved. This file is part of gufoagent.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package relabel

import "fmt"

// Outcome is what happened when a Rule ran against an Active set.
type Outcome int

const (
	// Keep means processing should continue to the next rule.
	Keep Outcome = iota
	// DropSample means the whole sample must be discarded (spec.md §4.5:
	// "on the first drop result from any rule, the sample is dropped").
	DropSample
)

// Rule is one configured relabeling step. Build constructs the
// concrete variant for a Config's action; Apply runs it against the
// active set, mutating it in place.
type Rule interface {
	Apply(active *Active) Outcome
}

// Build validates cfg and constructs the Rule variant for its action.
// An empty/absent Action means "replace" (spec.md §4.5).
func Build(cfg Config) (Rule, error) {
	action := cfg.Action
	if action == "" {
		action = "replace"
	}

	switch action {
	case "replace":
		return newReplaceRule(cfg)
	case "keep":
		return newKeepRule(cfg)
	case "drop":
		return newDropRule(cfg)
	case "drop_if_equal":
		return newDropIfEqualRule(cfg)
	case "labelkeep":
		return newLabelKeepRule(cfg)
	case "labeldrop":
		return newLabelDropRule(cfg)
	case "labelmap":
		return newLabelMapRule(cfg)
	case "dump":
		return newDumpRule(cfg)
	default:
		return nil, fmt.Errorf("relabel: unknown action %q", action)
	}
}
