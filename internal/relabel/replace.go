// Copyright (C) Gufo Labs
// All rights reserved. This file is part of gufoagent.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package relabel

import "regexp"

// replaceRule computes an expansion from source_labels (optionally
// matched/substituted via regex) and writes it into target_label.
// With no source_labels and a literal replacement, writes it verbatim.
type replaceRule struct {
	sourceLabels   []string
	separator      string
	regex          *regexp.Regexp
	replacement    string
	replacementSet bool
	targetLabel    string
}

func newReplaceRule(cfg Config) (Rule, error) {
	if cfg.TargetLabel == "" {
		return nil, errRequired("replace", "target_label")
	}
	r := &replaceRule{
		sourceLabels: cfg.SourceLabels,
		separator:    cfg.separator(),
		targetLabel:  cfg.TargetLabel,
	}
	if cfg.Regex != "" {
		re, err := regexp.Compile(cfg.Regex)
		if err != nil {
			return nil, errBadRegex("replace", err)
		}
		r.regex = re
	}
	if cfg.Replacement != nil {
		r.replacement = normalizeReplacement(*cfg.Replacement)
		r.replacementSet = true
	}
	return r, nil
}

func (r *replaceRule) Apply(active *Active) Outcome {
	result, matched := eval(active, r.sourceLabels, r.separator, r.regex, r.replacement, r.replacementSet)
	if !matched {
		return Keep
	}
	active.Set(r.targetLabel, result)
	return Keep
}
