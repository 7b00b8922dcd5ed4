// Copyright (C) Gufo Labs
// All rights reserved. This file is part of gufoagent.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package relabel

import (
	"regexp"
	"strings"
)

// labelMapRule renames keys matching regex to a capture-expanded new
// name. Non-virtual keys are moved (old key removed); virtual keys are
// copied, leaving the original virtual key in place (spec.md §4.5).
type labelMapRule struct {
	regex       *regexp.Regexp
	replacement string
}

func newLabelMapRule(cfg Config) (Rule, error) {
	if cfg.Regex == "" {
		return nil, errRequired("labelmap", "regex")
	}
	if cfg.Replacement == nil {
		return nil, errRequired("labelmap", "replacement")
	}
	re, err := regexp.Compile(cfg.Regex)
	if err != nil {
		return nil, errBadRegex("labelmap", err)
	}
	return &labelMapRule{regex: re, replacement: normalizeReplacement(*cfg.Replacement)}, nil
}

func (r *labelMapRule) Apply(active *Active) Outcome {
	for _, key := range active.Keys() {
		if !r.regex.MatchString(key) {
			continue
		}
		newKey := r.regex.ReplaceAllString(key, r.replacement)
		if newKey == "" || newKey == key {
			continue
		}
		value, _ := active.Get(key)
		active.Set(newKey, value)
		if !strings.HasPrefix(key, "__") {
			active.Delete(key)
		}
	}
	return Keep
}
