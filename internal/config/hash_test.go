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

func TestHashEquivalenceAcrossKeyOrder(t *testing.T) {
	a := Collector{
		ID: "cpu1", Type: "cpu", Labels: map[string]string{"x": "1", "y": "2"},
		Payload: map[string]interface{}{"a": 1, "b": 2},
	}
	b := Collector{
		ID: "cpu1", Type: "cpu", Labels: map[string]string{"y": "2", "x": "1"},
		Payload: map[string]interface{}{"b": 2, "a": 1},
	}

	ha, err := a.Hash()
	require.NoError(t, err)
	hb, err := b.Hash()
	require.NoError(t, err)
	assert.Equal(t, ha, hb)
}

func TestHashDiffersOnIntervalChange(t *testing.T) {
	i1, i2 := 10, 20
	a := Collector{ID: "cpu1", Type: "cpu", Interval: &i1}
	b := Collector{ID: "cpu1", Type: "cpu", Interval: &i2}

	ha, err := a.Hash()
	require.NoError(t, err)
	hb, err := b.Hash()
	require.NoError(t, err)
	assert.NotEqual(t, ha, hb)
}

func TestHashDiffersOnNestedSequenceOrder(t *testing.T) {
	a := Collector{ID: "x", Payload: map[string]interface{}{"items": []interface{}{"a", "b"}}}
	b := Collector{ID: "x", Payload: map[string]interface{}{"items": []interface{}{"b", "a"}}}

	ha, err := a.Hash()
	require.NoError(t, err)
	hb, err := b.Hash()
	require.NoError(t, err)
	assert.NotEqual(t, ha, hb)
}
