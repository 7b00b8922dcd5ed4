// Copyright (C) Gufo Labs
// All rights reserved. This file is part of gufoagent.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolver

import (
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gufolabs/gufoagent/internal/config"
)

const (
	httpPollInterval    = 30 * time.Second
	httpBackoffInterval = 5 * time.Second
)

// HTTP resolves a config by fetching a URL. Repeatable and failable:
// transient network errors are swallowed by the supervisor, which
// retries after a short backoff rather than treating the process as
// unable to start (spec.md §4.7, §7).
type HTTP struct {
	url    string
	client *http.Client
}

// NewHTTP builds an HTTP resolver for url. insecure disables TLS
// certificate verification, mirroring the --insecure flag (spec.md §6).
func NewHTTP(url string, insecure bool) *HTTP {
	client := &http.Client{Timeout: 30 * time.Second}
	if insecure {
		client.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // opt-in via --insecure
		}
	}
	return &HTTP{url: url, client: client}
}

func (h *HTTP) IsRepeatable() bool { return true }
func (h *HTTP) IsFailable() bool   { return true }

func (h *HTTP) Sleep(succeeded bool) {
	if succeeded {
		time.Sleep(httpPollInterval)
		return
	}
	time.Sleep(httpBackoffInterval)
}

func (h *HTTP) GetConfig() (*config.Config, error) {
	resp, err := h.client.Get(h.url)
	if err != nil {
		return nil, fmt.Errorf("resolver: fetching %s: %w", h.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("resolver: fetching %s: status %d", h.url, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("resolver: reading %s: %w", h.url, err)
	}
	return config.Parse(data)
}
