// Copyright (C) Gufo Labs
// All rights reserved. This file is part of gufoagent.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gufolabs/gufoagent/internal/sender"
	"github.com/gufolabs/gufoagent/internal/store"
	"github.com/gufolabs/gufoagent/pkg/measure"
	"github.com/stretchr/testify/assert"
)

func TestMetricsHandlerServesStore(t *testing.T) {
	snd := sender.New(false)
	snd.Store().ApplyData(store.Batch{Collector: "a", Measures: []measure.Measure{{Name: "x", Value: measure.Gauge(1)}}})

	h := metricsHandler(snd.Store())
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	h(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, store.ContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "x 1\n# EOF\n")
}

func TestHealthzReturnsOK(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	healthzHandler(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
