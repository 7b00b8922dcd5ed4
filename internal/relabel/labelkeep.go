// Copyright (C) Gufo Labs
// All rights reserved. This file is part of gufoagent.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package relabel

import (
	"regexp"
	"strings"
)

// labelKeepRule retains only keys whose name matches regex, implicitly
// keeping every "__"-prefixed virtual key regardless of match
// (spec.md §4.5's virtual-label-preservation rules).
type labelKeepRule struct {
	regex *regexp.Regexp
}

func newLabelKeepRule(cfg Config) (Rule, error) {
	if cfg.Regex == "" {
		return nil, errRequired("labelkeep", "regex")
	}
	re, err := regexp.Compile(cfg.Regex)
	if err != nil {
		return nil, errBadRegex("labelkeep", err)
	}
	return &labelKeepRule{regex: re}, nil
}

func (r *labelKeepRule) Apply(active *Active) Outcome {
	for _, key := range active.Keys() {
		if strings.HasPrefix(key, "__") {
			continue
		}
		if !r.regex.MatchString(key) {
			active.Delete(key)
		}
	}
	return Keep
}
