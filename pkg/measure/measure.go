// Copyright (C) Gufo Labs
// All rights reserved. This file is part of gufoagent.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package measure

import (
	"fmt"
	"regexp"

	"github.com/gufolabs/gufoagent/pkg/label"
)

// NameRE is the metric-name grammar from spec.md §3:
// [A-Za-z_:][A-Za-z0-9_:]* — note the added ':' over the label-name
// grammar, which is why this is not delegated to
// prometheus/common/model.MetricNameRE (upstream Prometheus reserves
// leading ':' names for recording rules and its regexp differs subtly).
var NameRE = regexp.MustCompile(`^[A-Za-z_:][A-Za-z0-9_:]*$`)

// Measure is a single sample produced by a collector: a name, help
// text, a tagged Value, a label set, and an optional per-sample
// timestamp. When Timestamp is nil the store stamps the measure with
// the enclosing batch's arrival time (spec.md §9, Open Question 2).
type Measure struct {
	Name      string
	Help      string
	Value     Value
	Labels    label.Set
	Timestamp *int64 // seconds since epoch, nil means "use batch time"
}

// Validate reports a non-nil error if m's name fails the metric-name
// grammar or any of its labels are malformed or duplicated.
func (m Measure) Validate() error {
	if !NameRE.MatchString(m.Name) {
		return fmt.Errorf("measure: invalid metric name %q", m.Name)
	}
	seen := make(map[string]struct{}, len(m.Labels))
	for _, l := range m.Labels {
		if !l.Valid() {
			return fmt.Errorf("measure %q: invalid label key %q", m.Name, l.Key)
		}
		if _, dup := seen[l.Key]; dup {
			return fmt.Errorf("measure %q: duplicate label key %q", m.Name, l.Key)
		}
		seen[l.Key] = struct{}{}
	}
	return nil
}
