// Copyright (C) Gufo Labs
// All rights reserved. This file is part of gufoagent.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package selftest is a minimal example collector exercising the
// Collector contract (spec.md §4.2, §6) without any external
// dependency: it reports the collector's own uptime and cycle count.
package selftest

import (
	"context"
	"time"

	"github.com/gufolabs/gufoagent/pkg/label"
	"github.com/gufolabs/gufoagent/pkg/measure"
)

// Name is this collector's static type name, used in configuration's
// collectors[].type field.
const Name = "selftest"

// Config is selftest's type-specific payload; it has none beyond the
// common collector fields, but a named type keeps the registration
// pattern consistent with collectors that do need payload fields.
type Config struct{}

// Collector reports its own process uptime and cycle count on every
// collection.
type Collector struct {
	name      string
	startedAt time.Time
	cycles    uint64
}

// New builds a selftest Collector bound to config name id.
func New(id string, _ Config) *Collector {
	return &Collector{name: id, startedAt: time.Now()}
}

func (c *Collector) Name() string         { return c.name }
func (c *Collector) RandomizeOffset() bool { return true }

// Collect never fails; it always returns the two self-reporting
// Measures.
func (c *Collector) Collect(ctx context.Context) ([]measure.Measure, error) {
	c.cycles++
	uptime := time.Since(c.startedAt).Seconds()
	return []measure.Measure{
		{
			Name:   "gufoagent_uptime_seconds",
			Help:   "Seconds since the selftest collector started.",
			Value:  measure.GaugeFloat(float32(uptime)),
			Labels: label.New(),
		},
		{
			Name:   "gufoagent_collect_cycles_total",
			Help:   "Number of collection cycles run by the selftest collector.",
			Value:  measure.Counter(c.cycles),
			Labels: label.New(),
		},
	}, nil
}
