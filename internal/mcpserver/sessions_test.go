package mcpserver

import (
	"testing"
	"time"

	"github.com/playpals/studio/internal/apply"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_OpenDropsIdleSessions(t *testing.T) {
	r := newRegistry()
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return clock }

	stale, err := r.open(apply.Contact())
	require.NoError(t, err)
	kept, err := r.open(apply.Contact())
	require.NoError(t, err)

	clock = clock.Add(20 * time.Minute)
	require.True(t, r.with(kept, func(*apply.Controller) {}))

	clock = clock.Add(15 * time.Minute)
	_, err = r.open(apply.Contact())
	require.NoError(t, err)

	assert.Equal(t, 2, r.len())
	assert.False(t, r.with(stale, func(*apply.Controller) {}))
	assert.True(t, r.with(kept, func(*apply.Controller) {}))
}

func TestRegistry_OpenRejectsBrokenDefinition(t *testing.T) {
	r := newRegistry()
	_, err := r.open(apply.Definition{ID: "blank"})
	require.Error(t, err)
	assert.Equal(t, 0, r.len())
}
