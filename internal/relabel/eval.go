// Copyright (C) Gufo Labs
// All rights reserved. This file is part of gufoagent.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package relabel

import (
	"regexp"
	"strings"
)

// captureRE matches a bare "$N" capture reference not already wrapped
// in braces, so it can be normalized to "${N}" once at rule-construction
// time rather than re-parsed on every sample (spec.md §9).
var captureRE = regexp.MustCompile(`\$(\d+)`)

// normalizeReplacement rewrites every bare $N in s to ${N}, leaving
// already-braced ${N} references untouched.
func normalizeReplacement(s string) string {
	return captureRE.ReplaceAllString(s, `${$1}`)
}

// literalTokenRE matches the four spellings of "group 0/1" that a
// replacement-without-regex substitutes literally per spec.md §4.5
// step 5: $0, ${0}, $1, ${1}.
var literalTokenRE = regexp.MustCompile(`\$(?:\{[01]\}|[01])`)

// eval implements spec.md §4.5's eval function shared by replace/keep/drop.
//
//  1. no source_labels: replacement verbatim if set, else no match.
//  2. any missing source label: no match.
//  3. join present values with separator.
//  4. regex set: no match unless it matches the joined string; if it
//     matches and replacement is set, expand capture groups.
//  5. no regex, replacement set: substitute $0/${0}/$1/${1} tokens
//     with the joined string.
//  6. otherwise return the joined string itself.
func eval(active *Active, sourceLabels []string, separator string, re *regexp.Regexp, replacement string, replacementSet bool) (result string, matched bool) {
	if len(sourceLabels) == 0 {
		if replacementSet {
			return replacement, true
		}
		return "", false
	}

	parts := make([]string, len(sourceLabels))
	for i, name := range sourceLabels {
		v, ok := active.Get(name)
		if !ok {
			return "", false
		}
		parts[i] = v
	}
	joined := strings.Join(parts, separator)

	if re != nil {
		if !re.MatchString(joined) {
			return "", false
		}
		if replacementSet {
			return re.ReplaceAllString(joined, replacement), true
		}
		return joined, true
	}

	if replacementSet {
		return literalTokenRE.ReplaceAllLiteralString(replacement, joined), true
	}
	return joined, true
}
