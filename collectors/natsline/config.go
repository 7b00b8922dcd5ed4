// Copyright (C) Gufo Labs
// All rights reserved. This file is part of gufoagent.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package natsline is an example integration collector: it subscribes
// to a NATS subject carrying InfluxDB line-protocol encoded samples
// and turns each line into a Measure. Grounded on the teacher's
// pkg/nats/client.go (connection/subscription management) and
// pkg/nats/influxDecoder.go (line-protocol decode shape), adapted from
// a CCMessage sink into a direct Measure producer (SPEC_FULL.md,
// example collectors). This is a demonstration of a push-fed data
// source expressed through the pull-based Collector contract — it
// does not implement remote config distribution or push delivery to
// other systems, both explicit non-goals (spec.md §1).
package natsline

import (
	"encoding/json"
	"fmt"
)

// Config is natsline's type-specific payload (spec.md §6 "type-specific
// payload").
type Config struct {
	Address string `json:"address"`
	Subject string `json:"subject"`
	Queue   string `json:"queue,omitempty"`
}

// ConfigSchema is the JSON schema validated against Config via
// internal/config.Validate, mirroring the teacher's
// pkg/nats.ConfigSchema.
const ConfigSchema = `{
	"type": "object",
	"description": "Configuration for the natsline example collector.",
	"properties": {
		"address": {
			"description": "Address of the NATS server (e.g. 'nats://localhost:4222').",
			"type": "string"
		},
		"subject": {
			"description": "NATS subject carrying line-protocol encoded samples.",
			"type": "string"
		},
		"queue": {
			"description": "Optional queue group for load-balanced consumption.",
			"type": "string"
		}
	},
	"required": ["address", "subject"]
}`

// ParseConfig decodes a collector payload into Config.
func ParseConfig(raw json.RawMessage) (Config, error) {
	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("natsline: decoding config: %w", err)
	}
	if cfg.Address == "" || cfg.Subject == "" {
		return Config{}, fmt.Errorf("natsline: address and subject are required")
	}
	return cfg, nil
}
