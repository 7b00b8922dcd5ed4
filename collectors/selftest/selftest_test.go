// Copyright (C) Gufo Labs
// All rights reserved. This file is part of gufoagent.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package selftest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectIncrementsCycles(t *testing.T) {
	c := New("self", Config{})

	m1, err := c.Collect(context.Background())
	require.NoError(t, err)
	m2, err := c.Collect(context.Background())
	require.NoError(t, err)

	require.Len(t, m1, 2)
	require.Len(t, m2, 2)
	assert.Equal(t, "1", m1[1].Value.String())
	assert.Equal(t, "2", m2[1].Value.String())
}

func TestRandomizeOffsetTrue(t *testing.T) {
	c := New("self", Config{})
	assert.True(t, c.RandomizeOffset())
}
