// Copyright (C) Gufo Labs
// All rights reserved. This file is part of gufoagent.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package natsline

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/gufolabs/gufoagent/pkg/log"
	"github.com/gufolabs/gufoagent/pkg/measure"
)

// Name is this collector's static type name.
const Name = "natsline"

// drainWindow bounds how long one Collect call waits for buffered
// messages before returning whatever arrived, keeping the collector on
// its configured interval rather than blocking indefinitely (spec.md
// §4.2: collect() "may be asynchronous and block for arbitrary time",
// but a responsive collector still respects its own schedule).
const drainWindow = 200 * time.Millisecond

// Collector subscribes once at construction and buffers incoming
// messages on a channel, decoding a batch of them on every Collect
// call.
type Collector struct {
	id   string
	conn *nats.Conn
	sub  *nats.Subscription
	ch   chan *nats.Msg
}

// New connects to cfg.Address and subscribes to cfg.Subject (or a
// queue-grouped subscription when cfg.Queue is set), following the
// teacher's Client.Subscribe/SubscribeChan/SubscribeQueue shapes.
func New(id string, cfg Config) (*Collector, error) {
	nc, err := nats.Connect(cfg.Address, nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
		if err != nil {
			log.Warnf("natsline %s: connection error: %s", id, err)
		}
	}))
	if err != nil {
		return nil, fmt.Errorf("natsline: connecting to %s: %w", cfg.Address, err)
	}

	ch := make(chan *nats.Msg, 4096)
	var sub *nats.Subscription
	if cfg.Queue != "" {
		sub, err = nc.ChanQueueSubscribe(cfg.Subject, cfg.Queue, ch)
	} else {
		sub, err = nc.ChanSubscribe(cfg.Subject, ch)
	}
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("natsline: subscribing to %s: %w", cfg.Subject, err)
	}

	return &Collector{id: id, conn: nc, sub: sub, ch: ch}, nil
}

func (c *Collector) Name() string         { return c.id }
func (c *Collector) RandomizeOffset() bool { return false }

// Collect waits for the first buffered message (or drainWindow/ctx
// cancellation, whichever comes first), then drains whatever else is
// already queued without waiting further. A single malformed line is
// logged and skipped; it does not fail the whole cycle.
func (c *Collector) Collect(ctx context.Context) ([]measure.Measure, error) {
	var out []measure.Measure

	select {
	case <-ctx.Done():
		return out, nil
	case <-time.After(drainWindow):
		return out, nil
	case msg := <-c.ch:
		out = append(out, c.decode(msg)...)
	}

	for {
		select {
		case msg := <-c.ch:
			out = append(out, c.decode(msg)...)
		default:
			return out, nil
		}
	}
}

func (c *Collector) decode(msg *nats.Msg) []measure.Measure {
	measures, err := decodeLine(msg.Data)
	if err != nil {
		log.Warnf("natsline %s: dropping malformed message: %s", c.id, err)
		return nil
	}
	return measures
}

// Close unsubscribes and closes the NATS connection, releasing sockets
// held by this collector (spec.md §9 "Cancellation vs. cleanup"). It
// satisfies collector.Closer, so Task.Run invokes it once the task's
// context is cancelled.
func (c *Collector) Close() error {
	if c.sub != nil {
		_ = c.sub.Unsubscribe()
	}
	if c.conn != nil {
		c.conn.Close()
	}
	return nil
}
