package history

import (
	"context"
	"fmt"
	"testing"

	"github.com/convodesk/convodesk/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *Service {
	return NewService(NewInMemoryTurnStore(), func(o *Options) { o.Pairs = 3 })
}

func TestService_RecordRecentRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	_, err := svc.Record(ctx, "u1", "s1", "What are the fees?", "Fees depend on the plan.", "knowledge")
	require.NoError(t, err)

	bundle, err := svc.Recent(ctx, "s1", 0)
	require.NoError(t, err)
	require.Len(t, bundle.Entries, 2)
	assert.Equal(t, core.BundleEntry{Role: "user", Text: "What are the fees?"}, bundle.Entries[0])
	assert.Equal(t, core.BundleEntry{Role: "assistant", Text: "Fees depend on the plan."}, bundle.Entries[1])
}

func TestService_RecentBoundsAndOrder(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	for i := 1; i <= 5; i++ {
		_, err := svc.Record(ctx, "u1", "s1", fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i), "knowledge")
		require.NoError(t, err)
	}

	// min(k, N) pairs, oldest first.
	bundle, err := svc.Recent(ctx, "s1", 2)
	require.NoError(t, err)
	require.Equal(t, 4, len(bundle.Entries))
	assert.Equal(t, "q4", bundle.Entries[0].Text)
	assert.Equal(t, "a4", bundle.Entries[1].Text)
	assert.Equal(t, "q5", bundle.Entries[2].Text)
	assert.Equal(t, "a5", bundle.Entries[3].Text)

	bundle, err = svc.Recent(ctx, "s1", 10)
	require.NoError(t, err)
	assert.Equal(t, 5, bundle.Pairs())

	// Default pair count applies when pairs <= 0.
	bundle, err = svc.Recent(ctx, "s1", 0)
	require.NoError(t, err)
	assert.Equal(t, 3, bundle.Pairs())
}

func TestService_RecentIsolatesSessions(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	_, err := svc.Record(ctx, "u1", "s1", "q1", "a1", "knowledge")
	require.NoError(t, err)
	_, err = svc.Record(ctx, "u2", "s2", "q2", "a2", "support")
	require.NoError(t, err)

	bundle, err := svc.Recent(ctx, "s1", 10)
	require.NoError(t, err)
	require.Equal(t, 1, bundle.Pairs())
	assert.Equal(t, "q1", bundle.Entries[0].Text)
}

func TestService_ArchiveExcludesTurnsFromRecent(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	_, err := svc.Record(ctx, "u1", "s1", "q1", "a1", "knowledge")
	require.NoError(t, err)
	_, err = svc.Record(ctx, "u1", "s1", "q2", "a2", "knowledge")
	require.NoError(t, err)

	count, err := svc.Archive(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	bundle, err := svc.Recent(ctx, "s1", 10)
	require.NoError(t, err)
	assert.True(t, bundle.Empty())

	// Archiving again affects nothing.
	count, err = svc.Archive(ctx, "s1")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestService_RecentEmptySession(t *testing.T) {
	svc := newTestService()
	bundle, err := svc.Recent(context.Background(), "never-seen", 5)
	require.NoError(t, err)
	assert.True(t, bundle.Empty())
	assert.Equal(t, "", bundle.Render())
}
