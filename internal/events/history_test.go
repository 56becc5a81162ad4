package events

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func testHistory(t *testing.T) *History {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	h := NewHistory(db)
	require.NoError(t, h.Init(context.Background()))
	return h
}

func TestHistoryAppendAndQuery(t *testing.T) {
	h := testHistory(t)
	ctx := context.Background()

	id1, err := h.Append(ctx, NewEpisodeWatched(42, 1, 1, false))
	require.NoError(t, err)
	id2, err := h.Append(ctx, NewEpisodeWatched(42, 2, 2, false))
	require.NoError(t, err)
	_, err = h.Append(ctx, NewLibraryScanned(10, 0))
	require.NoError(t, err)
	assert.Greater(t, id2, id1)

	forSeries, err := h.ForSeries(ctx, 42)
	require.NoError(t, err)
	require.Len(t, forSeries, 2)
	assert.Equal(t, TypeEpisodeWatched, forSeries[0].EventType)
	assert.Equal(t, int64(42), forSeries[0].EntityID)
	assert.Contains(t, forSeries[1].Payload, `"episode":2`)

	since, err := h.Since(ctx, time.Now().Add(-time.Minute))
	require.NoError(t, err)
	assert.Len(t, since, 3)
}

func TestHistoryForOtherSeriesEmpty(t *testing.T) {
	h := testHistory(t)
	ctx := context.Background()

	_, err := h.Append(ctx, NewEpisodeWatched(42, 1, 1, false))
	require.NoError(t, err)

	got, err := h.ForSeries(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestHistoryPrune(t *testing.T) {
	h := testHistory(t)
	ctx := context.Background()

	_, err := h.Append(ctx, NewListRefreshed(3))
	require.NoError(t, err)

	// Nothing is old enough yet.
	pruned, err := h.Prune(ctx, time.Hour)
	require.NoError(t, err)
	assert.Zero(t, pruned)

	// With a zero retention everything goes.
	pruned, err = h.Prune(ctx, -time.Second)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pruned)

	left, err := h.Since(ctx, time.Time{})
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestBusPersistsToHistory(t *testing.T) {
	h := testHistory(t)
	b := NewBus(h, nil)
	defer b.Close()

	b.Publish(context.Background(), NewEpisodeWatched(42, 1, 1, false))

	got, err := h.ForSeries(context.Background(), 42)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
