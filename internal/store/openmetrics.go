// Copyright (C) Gufo Labs
// All rights reserved. This file is part of gufoagent.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package store

import (
	"fmt"
	"io"
	"sort"
)

// ContentType is the OpenMetrics exposition media type (spec.md §4.6).
const ContentType = "application/openmetrics-text; version=1.0.0; charset=utf-8"

type renderedSample struct {
	labelKey string
	value    string
	ts       int64
	line     string
}

// WriteOpenMetrics serializes the entire store to out in the bit-exact
// text form specified in spec.md §4.6, under the read lock.
func (s *Store) WriteOpenMetrics(out io.Writer) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, key := range s.sortedKeys() {
		f := s.families[key]
		if f.help != "" {
			if _, err := fmt.Fprintf(out, "# HELP %s %s\n", key.name, f.help); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(out, "# TYPE %s %s\n", key.name, f.kind.OpenMetricsType()); err != nil {
			return err
		}

		samples := make([]renderedSample, 0, len(f.values))
		for lk, e := range f.values {
			labels := f.labels[lk]
			valStr := e.value.String()
			line := key.name + labels.String() + " " + valStr
			if e.ts > 0 {
				line += fmt.Sprintf(" %d", e.ts)
			}
			samples = append(samples, renderedSample{labelKey: lk, value: valStr, ts: e.ts, line: line})
		}
		sort.Slice(samples, func(i, j int) bool {
			if samples[i].labelKey != samples[j].labelKey {
				return samples[i].labelKey < samples[j].labelKey
			}
			if samples[i].value != samples[j].value {
				return samples[i].value < samples[j].value
			}
			return samples[i].ts < samples[j].ts
		})
		for _, sm := range samples {
			if _, err := fmt.Fprintf(out, "%s\n", sm.line); err != nil {
				return err
			}
		}
	}
	if _, err := io.WriteString(out, "# EOF\n"); err != nil {
		return err
	}
	return nil
}
