// Copyright (C) Gufo Labs
// All rights reserved. This file is part of gufoagent.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sender

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gufolabs/gufoagent/internal/store"
	"github.com/gufolabs/gufoagent/pkg/label"
	"github.com/gufolabs/gufoagent/pkg/measure"
	"github.com/stretchr/testify/require"
)

func TestSenderAppliesDataInOrder(t *testing.T) {
	s := New(false)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	s.SetAgentLabels(label.New(label.Label{Key: "host", Value: "h1"}))
	s.Data(store.Batch{Collector: "cpu", Measures: []measure.Measure{{Name: "x", Value: measure.Gauge(1)}}})
	s.Data(store.Batch{Collector: "cpu", Measures: []measure.Measure{{Name: "x", Value: measure.Gauge(2)}}})

	require.Eventually(t, func() bool {
		var buf strings.Builder
		_ = s.Store().WriteOpenMetrics(&buf)
		return strings.Contains(buf.String(), `x{host="h1"} 2`)
	}, time.Second, 5*time.Millisecond)
}

func TestSenderStopsOnContextCancel(t *testing.T) {
	s := New(false)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}
