// Copyright (C) Gufo Labs
// All rights reserved. This file is part of gufoagent.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package supervisor implements the top-level controller: it reads
// configuration from a Resolver and drives spawn/stop/restart of
// Collector Tasks and the Sender (spec.md §4.1).
package supervisor

import (
	"context"
	"fmt"
	"time"

	"github.com/gufolabs/gufoagent/internal/collector"
	"github.com/gufolabs/gufoagent/internal/config"
	"github.com/gufolabs/gufoagent/internal/relabel"
	"github.com/gufolabs/gufoagent/internal/resolver"
	"github.com/gufolabs/gufoagent/pkg/label"
	"github.com/gufolabs/gufoagent/pkg/log"
)

// DataSink is the narrow Sender API the Supervisor needs: submit
// batches, and replace the agent label scope.
type DataSink interface {
	collector.Sink
	SetAgentLabels(labels label.Set)
}

// Factory builds a Collector from a collector config entry. Returning
// an error here is a per-collector Configuration error (spec.md §7):
// the entry is skipped and the rest of reconciliation proceeds.
type Factory func(cfg config.Collector) (collector.Collector, error)

type running struct {
	hash   uint64
	cancel context.CancelFunc
	task   *collector.Task
}

// Supervisor reconciles a stream of configs against a set of running
// Collector Tasks, per the deterministic algorithm in spec.md §4.1.
type Supervisor struct {
	sink     DataSink
	factory  Factory
	running  map[string]*running
	senderUp bool
	startSender func(context.Context)
	senderCtx   context.Context
	senderCancel context.CancelFunc
	metrics      collector.Metrics
}

// New builds a Supervisor. startSender is invoked exactly once, on the
// first apply, to launch the Sender's Run loop (spec.md §4.1 step 5:
// "the sender is started once... and is never restarted").
func New(sink DataSink, factory Factory, startSender func(context.Context)) *Supervisor {
	return &Supervisor{
		sink:        sink,
		factory:     factory,
		running:     make(map[string]*running),
		startSender: startSender,
	}
}

// SetMetrics attaches a self-observability sink that every spawned
// Task reports its cycle outcomes to (SPEC_FULL.md §4.8). Optional:
// a Supervisor with no metrics set simply runs without the counters.
func (s *Supervisor) SetMetrics(m collector.Metrics) {
	s.metrics = m
}

// Run bootstraps from res, then loops configure/sleep until res reports
// non-repeatable, then awaits all running tasks (spec.md §4.1
// "run(config_source)").
func (s *Supervisor) Run(ctx context.Context, res resolver.Resolver) error {
	for {
		cfg, err := res.GetConfig()
		if err != nil {
			if !res.IsFailable() {
				return fmt.Errorf("supervisor: fatal config error: %w", err)
			}
			log.Errorf("supervisor: config fetch failed, retrying: %s", err)
			res.Sleep(false)
			if !res.IsRepeatable() {
				return fmt.Errorf("supervisor: non-repeatable source failed: %w", err)
			}
			continue
		}

		s.Apply(ctx, cfg)
		res.Sleep(true)

		if !res.IsRepeatable() {
			<-ctx.Done()
			s.stopAll()
			return nil
		}

		select {
		case <-ctx.Done():
			s.stopAll()
			return nil
		default:
		}
	}
}

// Apply ensures the sender is running, updates agent labels, and
// reconciles the running collector set against cfg (spec.md §4.1
// "apply(config)").
func (s *Supervisor) Apply(ctx context.Context, cfg *config.Config) {
	if !s.senderUp {
		s.senderCtx, s.senderCancel = context.WithCancel(ctx)
		s.startSender(s.senderCtx)
		s.senderUp = true
	}

	s.sink.SetAgentLabels(agentLabelSet(cfg.Agent.Labels))
	s.reconcile(ctx, cfg.Collectors)
}

func agentLabelSet(m map[string]string) label.Set {
	pairs := make([]label.Label, 0, len(m))
	for k, v := range m {
		pairs = append(pairs, label.Label{Key: k, Value: v})
	}
	return label.New(pairs...)
}

// reconcile implements spec.md §4.1's five-step algorithm.
func (s *Supervisor) reconcile(ctx context.Context, entries []config.Collector) {
	desired := make(map[string]config.Collector, len(entries))
	for _, c := range entries {
		if !c.Disabled {
			desired[c.ID] = c
		}
	}

	for id, c := range desired {
		hash, err := c.Hash()
		if err != nil {
			log.Errorf("supervisor: hashing collector %s: %s", id, err)
			continue
		}

		cur, ok := s.running[id]
		if !ok {
			s.spawn(ctx, c, hash)
			continue
		}
		if cur.hash != hash {
			s.stop(id)
			s.spawn(ctx, c, hash)
		}
	}

	for id := range s.running {
		if _, ok := desired[id]; !ok {
			s.stop(id)
		}
	}
}

func (s *Supervisor) spawn(ctx context.Context, c config.Collector, hash uint64) {
	coll, err := s.factory(c)
	if err != nil {
		log.Errorf("supervisor: building collector %s (%s): %s", c.ID, c.Type, err)
		return
	}

	var ruleset *relabel.Ruleset
	if len(c.Relabel) > 0 {
		rules := make([]relabel.Config, len(c.Relabel))
		for i, r := range c.Relabel {
			rules[i] = relabel.Config{
				SourceLabels: r.SourceLabels,
				Separator:    r.Separator,
				Regex:        r.Regex,
				Replacement:  r.Replacement,
				TargetLabel:  r.TargetLabel,
				Action:       r.Action,
			}
		}
		rs, err := relabel.NewRuleset(rules)
		if err != nil {
			log.Errorf("supervisor: building relabel ruleset for %s: %s", c.ID, err)
			return
		}
		ruleset = rs
	}

	interval := time.Minute
	if c.Interval != nil {
		interval = time.Duration(*c.Interval) * time.Second
	}

	task := collector.NewTask(coll, interval, agentLabelSet(c.Labels), ruleset, s.sink, collector.WithMetrics(s.metrics))
	taskCtx, cancel := context.WithCancel(ctx)
	go task.Run(taskCtx)

	s.running[c.ID] = &running{hash: hash, cancel: cancel, task: task}
	log.Infof("supervisor: spawned collector %s (%s), task id %d", c.ID, c.Type, task.ID())
}

func (s *Supervisor) stop(id string) {
	r, ok := s.running[id]
	if !ok {
		return
	}
	r.cancel()
	delete(s.running, id)
	log.Infof("supervisor: stopped collector %s", id)
}

func (s *Supervisor) stopAll() {
	for id := range s.running {
		s.stop(id)
	}
}

// RunningTaskID reports the task identity of the currently running
// collector with the given ID, for tests asserting on spec.md §8
// property 8 (unchanged configs keep the same task).
func (s *Supervisor) RunningTaskID(id string) (int64, bool) {
	r, ok := s.running[id]
	if !ok {
		return 0, false
	}
	return r.task.ID(), true
}
