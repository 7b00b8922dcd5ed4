// Copyright (C) Gufo Labs
// All rights reserved. This file is part of gufoagent.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
$version: "1.0"
$type: config
agent:
  host: h1
  labels:
    env: prod
sender:
  listen: "127.0.0.1:3000"
collectors:
  - id: cpu1
    type: cpu
    interval: 10
    labels:
      role: worker
    relabel:
      - action: drop
        source_labels: [env]
        regex: "test"
    extra_field: hello
    nested:
      a: 1
`

func TestParseSplitsKnownAndPayloadFields(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "h1", cfg.Agent.Host)
	require.Len(t, cfg.Collectors, 1)

	c := cfg.Collectors[0]
	assert.Equal(t, "cpu1", c.ID)
	assert.Equal(t, "cpu", c.Type)
	require.NotNil(t, c.Interval)
	assert.Equal(t, 10, *c.Interval)
	assert.Equal(t, "worker", c.Labels["role"])
	require.Len(t, c.Relabel, 1)
	assert.Equal(t, "drop", c.Relabel[0].Action)

	assert.Equal(t, "hello", c.Payload["extra_field"])
	assert.NotContains(t, c.Payload, "id")
	assert.NotContains(t, c.Payload, "relabel")
}

func TestSenderDefaults(t *testing.T) {
	var s Sender
	assert.Equal(t, "0.0.0.0:3000", s.ListenAddr())
	assert.Equal(t, "/metrics", s.MetricsPath())
}
