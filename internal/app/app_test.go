package app

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/anigo/internal/config"
	"github.com/vmunix/anigo/internal/events"
	"github.com/vmunix/anigo/internal/tracker"
)

func testApp(t *testing.T, list []*tracker.Series) (*App, string) {
	t.Helper()
	dir := t.TempDir()
	libRoot := filepath.Join(dir, "anime")
	require.NoError(t, os.MkdirAll(libRoot, 0o755))

	store, err := config.Load(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)
	settings := store.Settings()
	settings.LibraryRoot = libRoot
	require.NoError(t, store.UpdateSettings(settings))

	data, err := json.Marshal(list)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(settings.ListFile, data, 0o644))

	a, err := New(context.Background(), Options{
		Store:   store,
		Service: tracker.NewFileService(settings.ListFile),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a, libRoot
}

func frieren() *tracker.Series {
	return &tracker.Series{
		ID:           10,
		EnglishTitle: "Frieren",
		EpisodeCount: 4,
		Entry:        &tracker.ListEntry{ID: 7, Status: tracker.StatusCurrent, Progress: 1},
	}
}

func TestRefreshListAndFind(t *testing.T) {
	a, _ := testApp(t, []*tracker.Series{frieren()})
	ctx := context.Background()

	ch := a.Bus.Subscribe(events.TypeListRefreshed, 1)
	require.NoError(t, a.RefreshList(ctx))
	assert.Equal(t, 1, a.Collection.Len())

	select {
	case e := <-ch:
		assert.Equal(t, 1, e.(events.ListRefreshedEvent).Count)
	default:
		t.Fatal("no list refreshed event")
	}

	s := a.FindSeries("frieren", false)
	require.NotNil(t, s)
	assert.Equal(t, int64(10), s.ID)
	assert.Nil(t, a.FindSeries("unrelated title", false))
}

func TestRefreshLibraryAndMatch(t *testing.T) {
	a, libRoot := testApp(t, []*tracker.Series{frieren()})
	ctx := context.Background()

	for _, name := range []string{
		"[Group] Frieren - 01 [720p].mkv",
		"[Group] Frieren - 02 [720p].mkv",
		"[Group] Frieren - 04 [720p].mkv",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(libRoot, name), nil, 0o644))
	}

	require.NoError(t, a.RefreshList(ctx))
	require.NoError(t, a.RefreshLibrary(ctx))

	s := a.FindSeries("Frieren", true)
	require.NotNil(t, s)

	matched := a.Episodes(s)
	assert.Len(t, matched, 3)
	assert.NotNil(t, a.Episode(s, 2))
	assert.Nil(t, a.Episode(s, 3))
	assert.Equal(t, []int{3}, a.MissingEpisodes(s))
}

func TestCachedListSurvivesRestart(t *testing.T) {
	a, _ := testApp(t, []*tracker.Series{frieren()})
	ctx := context.Background()
	require.NoError(t, a.RefreshList(ctx))

	// A fresh app over the same database starts from the cached snapshot,
	// before any service refresh.
	store := a.Store
	require.NoError(t, a.Close())

	b, err := New(ctx, Options{
		Store:   store,
		Service: tracker.NewFileService(store.Settings().ListFile),
	})
	require.NoError(t, err)
	defer func() { _ = b.Close() }()

	assert.Equal(t, 1, b.Collection.Len())
	assert.NotNil(t, b.Collection.Get(10))
}

func TestPlayNoFiles(t *testing.T) {
	a, _ := testApp(t, []*tracker.Series{frieren()})
	ctx := context.Background()
	require.NoError(t, a.RefreshList(ctx))
	require.NoError(t, a.RefreshLibrary(ctx))

	s := a.FindSeries("Frieren", true)
	require.NotNil(t, s)
	assert.Error(t, a.Play(ctx, s, 0))
}
