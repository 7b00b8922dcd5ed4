// Copyright (C) Gufo Labs
// All rights reserved. This file is part of gufoagent.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package relabel

import (
	"regexp"
	"strings"
)

// labelDropRule drops keys matching regex, but must never remove a
// "__"-prefixed virtual key (spec.md §4.5).
type labelDropRule struct {
	regex *regexp.Regexp
}

func newLabelDropRule(cfg Config) (Rule, error) {
	if cfg.Regex == "" {
		return nil, errRequired("labeldrop", "regex")
	}
	re, err := regexp.Compile(cfg.Regex)
	if err != nil {
		return nil, errBadRegex("labeldrop", err)
	}
	return &labelDropRule{regex: re}, nil
}

func (r *labelDropRule) Apply(active *Active) Outcome {
	for _, key := range active.Keys() {
		if strings.HasPrefix(key, "__") {
			continue
		}
		if r.regex.MatchString(key) {
			active.Delete(key)
		}
	}
	return Keep
}
