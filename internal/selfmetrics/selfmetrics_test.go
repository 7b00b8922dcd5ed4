// Copyright (C) Gufo Labs
// All rights reserved. This file is part of gufoagent.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package selfmetrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestIncCyclesAndErrors(t *testing.T) {
	r := New()
	r.IncCycles("cpu")
	r.IncCycles("cpu")
	r.IncErrors("cpu")

	assert.Equal(t, float64(2), testutil.ToFloat64(r.CollectCycles.WithLabelValues("cpu")))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.CollectErrors.WithLabelValues("cpu")))
}

func TestSetQueueLenAndStoreCardinality(t *testing.T) {
	r := New()
	r.SetQueueLen(42)
	r.SetStoreCardinality(3, 17)

	assert.Equal(t, float64(42), testutil.ToFloat64(r.SenderQueueLen))
	assert.Equal(t, float64(3), testutil.ToFloat64(r.StoreFamilies))
	assert.Equal(t, float64(17), testutil.ToFloat64(r.StoreSamples))
}
