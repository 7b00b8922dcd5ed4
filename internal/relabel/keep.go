// Copyright (C) Gufo Labs
// All rights reserved. This file is part of gufoagent.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package relabel

import (
	"fmt"
	"regexp"
)

// keepRule passes the sample through only if eval matches; otherwise
// the sample is dropped. Requires source_labels.
type keepRule struct {
	sourceLabels   []string
	separator      string
	regex          *regexp.Regexp
	replacement    string
	replacementSet bool
}

func newKeepRule(cfg Config) (Rule, error) {
	if len(cfg.SourceLabels) == 0 {
		return nil, errRequired("keep", "source_labels")
	}
	r := &keepRule{sourceLabels: cfg.SourceLabels, separator: cfg.separator()}
	if cfg.Regex != "" {
		re, err := regexp.Compile(cfg.Regex)
		if err != nil {
			return nil, errBadRegex("keep", err)
		}
		r.regex = re
	}
	if cfg.Replacement != nil {
		r.replacement = normalizeReplacement(*cfg.Replacement)
		r.replacementSet = true
	}
	return r, nil
}

func (r *keepRule) Apply(active *Active) Outcome {
	_, matched := eval(active, r.sourceLabels, r.separator, r.regex, r.replacement, r.replacementSet)
	if matched {
		return Keep
	}
	return DropSample
}

func errRequired(action, field string) error {
	return fmt.Errorf("relabel: action %q requires %q", action, field)
}

func errBadRegex(action string, err error) error {
	return fmt.Errorf("relabel: action %q: invalid regex: %w", action, err)
}
