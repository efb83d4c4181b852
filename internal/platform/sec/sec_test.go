// Copyright (c) 2026 Wanderlust. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/wanderlust/internal/platform/sec"
)

func TestPasswordHash_RoundTrip(t *testing.T) {
	hash, err := sec.HashPassword("correct horse battery")
	require.NoError(t, err)

	assert.NotEqual(t, "correct horse battery", hash)
	assert.True(t, sec.CheckPasswordHash("correct horse battery", hash))
	assert.False(t, sec.CheckPasswordHash("wrong horse", hash))
	assert.False(t, sec.CheckPasswordHash("correct horse battery", sec.DummyHash))
}

func TestIdentity_Is(t *testing.T) {
	var anonymous *sec.Identity
	identity := &sec.Identity{UserID: "u-1", Username: "alice"}

	assert.True(t, identity.Is("u-1"))
	assert.False(t, identity.Is("u-2"))
	assert.False(t, identity.Is(""))
	assert.False(t, anonymous.Is("u-1"))
}
