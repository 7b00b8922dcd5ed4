// Copyright (C) Gufo Labs
// All rights reserved. This file is part of gufoagent.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package resolver implements the Configuration Resolver contract
// (spec.md §4.7): fetching and re-fetching the agent's YAML config
// from a file or HTTP(S) location.
package resolver

import (
	"fmt"
	"strings"

	"github.com/gufolabs/gufoagent/internal/config"
)

// Resolver is the contract the Supervisor polls (spec.md §4.7).
type Resolver interface {
	IsRepeatable() bool
	IsFailable() bool
	Sleep(succeeded bool)
	GetConfig() (*config.Config, error)
}

// New parses location per spec.md §6's "file:<path>, http(s)://<url>,
// bare path (treated as file)" grammar and returns the matching
// Resolver. insecure disables TLS certificate validation for https
// locations (the --insecure / GA_INSECURE flag).
func New(location string, insecure bool) (Resolver, error) {
	switch {
	case strings.HasPrefix(location, "file:"):
		return NewFile(strings.TrimPrefix(location, "file:")), nil
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return NewHTTP(location, insecure), nil
	case location == "":
		return nil, fmt.Errorf("resolver: empty config location")
	default:
		return NewFile(location), nil
	}
}
