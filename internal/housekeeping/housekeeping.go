// Copyright (C) Gufo Labs
// All rights reserved. This file is part of gufoagent.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package housekeeping runs small periodic diagnostic jobs alongside
// the core collector scheduler, in the same gocron/v2 idiom the
// teacher's internal/taskmanager package uses for its own background
// workers (SPEC_FULL.md §4.9). Unlike the Collector Task scheduler in
// internal/collector, these jobs need no per-task cancellation
// identity or config-hash restart semantics, so gocron's own job
// scheduler is a good fit rather than a layer this package reinvents.
package housekeeping

import (
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/gufolabs/gufoagent/internal/sender"
	"github.com/gufolabs/gufoagent/pkg/log"
)

// GaugeSink is the narrow self-observability target the cardinality
// job reports into (SPEC_FULL.md §4.8). Optional: pass nil to Start to
// run the logger alone without updating any gauges.
type GaugeSink interface {
	SetQueueLen(n int)
	SetStoreCardinality(families, samples int)
}

// Housekeeping owns a gocron scheduler running the agent's background
// diagnostics.
type Housekeeping struct {
	sched gocron.Scheduler
}

// Start builds a scheduler, registers the store-cardinality logger at
// the given interval, and starts it running. When metrics is non-nil,
// the same job also refreshes its gauges, keeping /agent-metrics
// current without a second scheduled job.
func Start(snd *sender.Sender, interval time.Duration, metrics GaugeSink) (*Housekeeping, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	if _, err := sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			families, samples := snd.Store().Cardinality()
			queueLen := snd.QueueLen()
			log.Infof("housekeeping: store holds %d families, %d samples, sender queue depth %d",
				families, samples, queueLen)
			if metrics != nil {
				metrics.SetQueueLen(queueLen)
				metrics.SetStoreCardinality(families, samples)
			}
		}),
	); err != nil {
		return nil, err
	}

	sched.Start()
	return &Housekeeping{sched: sched}, nil
}

// Shutdown stops the scheduler, waiting for any in-flight job.
func (h *Housekeeping) Shutdown() error {
	return h.sched.Shutdown()
}
