// Copyright (C) Gufo Labs
// All rights reserved. This file is part of gufoagent.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config implements the agent's YAML configuration document:
// parsing, per-collector JSON-schema validation of inner payloads, and
// the stable hashing used to decide collector restarts (spec.md §4.1,
// §6, §9).
package config

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Agent carries host/labels/defaults shared by every collector
// (spec.md §6).
type Agent struct {
	Host   string            `yaml:"host"`
	Labels map[string]string `yaml:"labels"`
}

// Sender carries the exposition endpoint's listen/path/TLS settings.
type Sender struct {
	Type     string `yaml:"type"`
	Mode     string `yaml:"mode"`
	Listen   string `yaml:"listen"`
	Path     string `yaml:"path"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// ListenAddr returns Listen, defaulting to "0.0.0.0:3000" (spec.md §6).
func (s Sender) ListenAddr() string {
	if s.Listen == "" {
		return "0.0.0.0:3000"
	}
	return s.Listen
}

// MetricsPath returns Path, defaulting to "/metrics" (spec.md §6).
func (s Sender) MetricsPath() string {
	if s.Path == "" {
		return "/metrics"
	}
	return s.Path
}

// RelabelRule mirrors internal/relabel.Config's YAML shape, kept
// separate so this package does not need to import the relabel engine
// just to parse configuration.
type RelabelRule struct {
	SourceLabels []string `yaml:"source_labels,omitempty"`
	Separator    string   `yaml:"separator,omitempty"`
	Regex        string   `yaml:"regex,omitempty"`
	Replacement  *string  `yaml:"replacement,omitempty"`
	TargetLabel  string   `yaml:"target_label,omitempty"`
	Action       string   `yaml:"action,omitempty"`
}

// reservedCollectorKeys are the fields the core parses directly; every
// other key in a collector entry belongs to its type-specific payload.
var reservedCollectorKeys = map[string]struct{}{
	"id": {}, "type": {}, "interval": {}, "disabled": {}, "labels": {}, "relabel": {},
}

// Collector is one entry in the top-level collectors[] list. Payload
// carries the type-specific fields as a raw map, deserialized by the
// collector's own registration once Type is known.
type Collector struct {
	ID       string
	Type     string
	Interval *int
	Disabled bool
	Labels   map[string]string
	Relabel  []RelabelRule
	Payload  map[string]interface{}
}

// UnmarshalYAML splits a collector entry into its reserved core fields
// and a Payload map of everything else, so unknown collector-specific
// keys survive without the core needing to know their shape up front.
func (c *Collector) UnmarshalYAML(value *yaml.Node) error {
	type known struct {
		ID       string            `yaml:"id"`
		Type     string            `yaml:"type"`
		Interval *int              `yaml:"interval,omitempty"`
		Disabled bool              `yaml:"disabled,omitempty"`
		Labels   map[string]string `yaml:"labels,omitempty"`
		Relabel  []RelabelRule     `yaml:"relabel,omitempty"`
	}
	var k known
	if err := value.Decode(&k); err != nil {
		return err
	}
	c.ID, c.Type, c.Interval, c.Disabled, c.Labels, c.Relabel = k.ID, k.Type, k.Interval, k.Disabled, k.Labels, k.Relabel

	var raw map[string]interface{}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	c.Payload = make(map[string]interface{}, len(raw))
	for key, v := range raw {
		if _, reserved := reservedCollectorKeys[key]; reserved {
			continue
		}
		c.Payload[key] = v
	}
	return nil
}

// Config is the parsed top-level document (spec.md §6).
type Config struct {
	Version    string      `yaml:"$version"`
	Type       string      `yaml:"$type"`
	Agent      Agent       `yaml:"agent"`
	Sender     Sender      `yaml:"sender"`
	Collectors []Collector `yaml:"collectors"`
}

// Parse decodes a YAML document into a Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// PayloadJSON re-renders a collector's type-specific payload as JSON,
// the form github.com/santhosh-tekuri/jsonschema/v5 validates against.
func (c Collector) PayloadJSON() (json.RawMessage, error) {
	return json.Marshal(c.Payload)
}
