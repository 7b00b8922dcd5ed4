// Copyright (C) Gufo Labs
// All rights reserved. This file is part of gufoagent.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sender implements the single-writer aggregation path: a
// bounded command channel feeding relabeling and store updates from
// many Collector Tasks, processed by one goroutine (spec.md §4.3).
package sender

import (
	"context"
	"os"

	"github.com/gufolabs/gufoagent/internal/store"
	"github.com/gufolabs/gufoagent/pkg/label"
	"github.com/gufolabs/gufoagent/pkg/log"
)

// QueueCapacity is the bounded command channel size (spec.md §4.3,
// §5 "Shared resources"). Deliberately left unbounded-unbuffered-free:
// producers block on a full channel rather than the queue growing
// without limit.
const QueueCapacity = 10000

// command is the sealed set of messages the Sender accepts.
type command interface{ isCommand() }

type dataCmd struct{ batch store.Batch }

func (dataCmd) isCommand() {}

type setAgentLabelsCmd struct{ labels label.Set }

func (setAgentLabelsCmd) isCommand() {}

// Sender is the sole writer of the Store. Commands are processed
// strictly in channel-receive order (spec.md §4.3 "Ordering
// guarantee").
type Sender struct {
	store       *store.Store
	ch          chan command
	dumpMetrics bool
}

// New builds a Sender around its own fresh Store. dumpMetrics mirrors
// the --dump-metrics CLI flag: when set, the entire store is
// serialized to stdout after every Data command (best-effort).
func New(dumpMetrics bool) *Sender {
	return &Sender{
		store:       store.New(),
		ch:          make(chan command, QueueCapacity),
		dumpMetrics: dumpMetrics,
	}
}

// Store returns the Sender's Store, for read-only use by the
// exposition HTTP handler and self-metrics collector.
func (s *Sender) Store() *store.Store {
	return s.store
}

// QueueLen reports the command channel's current buffered length, for
// the self-metrics gauge.
func (s *Sender) QueueLen() int {
	return len(s.ch)
}

// Data enqueues a collection-cycle batch, blocking if the command
// channel is full (spec.md §4.3 "Backpressure").
func (s *Sender) Data(batch store.Batch) {
	s.ch <- dataCmd{batch: batch}
}

// SetAgentLabels enqueues a replacement of the agent-scope label set.
func (s *Sender) SetAgentLabels(labels label.Set) {
	s.ch <- setAgentLabelsCmd{labels: labels}
}

// Run processes commands until ctx is cancelled, at which point the
// command channel is abandoned (not drained) and Run returns. The
// Sender task itself is never restarted during reconfiguration, only
// stopped at process shutdown (spec.md §5 "Cancellation").
func (s *Sender) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-s.ch:
			s.handle(cmd)
		}
	}
}

func (s *Sender) handle(cmd command) {
	switch c := cmd.(type) {
	case dataCmd:
		s.store.ApplyData(c.batch)
		if s.dumpMetrics {
			if err := s.store.WriteOpenMetrics(os.Stdout); err != nil {
				log.Errorf("sender: dump_metrics write failed: %s", err)
			}
		}
	case setAgentLabelsCmd:
		s.store.SetAgentLabels(c.labels)
	}
}
