package session

import (
	"context"
	"testing"
	"time"

	"github.com/convodesk/convodesk/core"
	"github.com/convodesk/convodesk/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Interface compliance (compile-time assertion)
var _ core.SessionStore = (*InMemoryStore)(nil)

func TestInMemoryStore_CloneOnRead(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	now := time.Now()

	sess := core.NewSession("s1", "u1", now, time.Minute)
	require.NoError(t, store.Create(ctx, sess))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	got.End()

	again, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, again.Active, "mutating a returned session must not affect the store")
}

func TestInMemoryStore_ActiveIndexFollowsUpdates(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	now := time.Now()

	sess := core.NewSession("s1", "u1", now, time.Minute)
	require.NoError(t, store.Create(ctx, sess))

	found, err := store.FindActive(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "s1", found.ID)

	sess.End()
	require.NoError(t, store.Update(ctx, sess))

	_, err = store.FindActive(ctx, "u1")
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
}

func TestInMemoryStore_GetMissing(t *testing.T) {
	store := NewInMemoryStore()
	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, core.ErrSessionNotFound)

	err = store.Update(context.Background(), core.NewSession("nope", "u1", time.Now(), time.Minute))
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
}

func TestInMemoryStore_EndedSessionNeverActive(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	ended := testutil.NewSessionBuilder("s1", "u1").Ended().Build()
	require.NoError(t, store.Create(ctx, ended))

	_, err := store.FindActive(ctx, "u1")
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
}

func TestInMemoryStore_ExpiredBefore(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	now := time.Now()

	require.NoError(t, store.Create(ctx, core.NewSession("old", "u1", now.Add(-time.Hour), time.Minute)))
	require.NoError(t, store.Create(ctx, core.NewSession("fresh", "u2", now, time.Hour)))

	expired, err := store.ExpiredBefore(ctx, now)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, "old", expired[0].ID)
}
