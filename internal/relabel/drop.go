// Copyright (C) Gufo Labs
// All rights reserved. This file is part of gufoagent.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package relabel

import "regexp"

// dropRule discards the sample if eval matches. Requires source_labels.
type dropRule struct {
	sourceLabels   []string
	separator      string
	regex          *regexp.Regexp
	replacement    string
	replacementSet bool
}

func newDropRule(cfg Config) (Rule, error) {
	if len(cfg.SourceLabels) == 0 {
		return nil, errRequired("drop", "source_labels")
	}
	r := &dropRule{sourceLabels: cfg.SourceLabels, separator: cfg.separator()}
	if cfg.Regex != "" {
		re, err := regexp.Compile(cfg.Regex)
		if err != nil {
			return nil, errBadRegex("drop", err)
		}
		r.regex = re
	}
	if cfg.Replacement != nil {
		r.replacement = normalizeReplacement(*cfg.Replacement)
		r.replacementSet = true
	}
	return r, nil
}

func (r *dropRule) Apply(active *Active) Outcome {
	_, matched := eval(active, r.sourceLabels, r.separator, r.regex, r.replacement, r.replacementSet)
	if matched {
		return DropSample
	}
	return Keep
}
