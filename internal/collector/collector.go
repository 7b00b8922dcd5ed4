// Copyright (C) Gufo Labs
// All rights reserved. This file is part of gufoagent.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package collector implements the per-collector scheduled loop:
// randomized startup offset, fixed-interval collection, and
// cancellation (spec.md §4.2).
package collector

import (
	"context"

	"github.com/gufolabs/gufoagent/pkg/measure"
)

// Collector is the contract every collector plug-in implements
// (spec.md §4.2, §6). Collect may block for arbitrary time performing
// I/O; a context-respecting implementation should abort promptly on
// cancellation, but the scheduler itself only waits for the current
// call to return before releasing the task.
type Collector interface {
	Name() string
	Collect(ctx context.Context) ([]measure.Measure, error)
	RandomizeOffset() bool
}

// Closer is an optional extension a Collector implements when it holds
// sockets, file handles, or other resources that must be released on
// stop or restart (spec.md §4.2, §5, §9). Task.Run invokes it once,
// after the collector's task context is cancelled.
type Closer interface {
	Close() error
}

// Metrics is the narrow self-observability sink a Task reports cycle
// outcomes to (SPEC_FULL.md §4.8). Nil-safe: a Task with no Metrics set
// simply skips the calls.
type Metrics interface {
	IncCycles(collector string)
	IncErrors(collector string)
}
