package tracker

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedList(t *testing.T, list []*Series) *FileService {
	t.Helper()
	path := filepath.Join(t.TempDir(), "list.json")
	data, err := json.Marshal(list)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return NewFileService(path)
}

func TestFileServiceMissingFile(t *testing.T) {
	svc := NewFileService(filepath.Join(t.TempDir(), "list.json"))
	list, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestFileServiceList(t *testing.T) {
	svc := seedList(t, []*Series{
		{ID: 1, EnglishTitle: "Frieren", Entry: &ListEntry{ID: 7, Status: StatusCurrent, Progress: 3}},
		{ID: 2, EnglishTitle: "One Piece"},
	})

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Frieren", list[0].EnglishTitle)
	assert.Equal(t, 3, list[0].Entry.Progress)
}

func TestFileServiceSaveEntry(t *testing.T) {
	svc := seedList(t, []*Series{
		{ID: 1, EnglishTitle: "Frieren", Entry: &ListEntry{ID: 7, Status: StatusCurrent, Progress: 3}},
	})

	progress := 4
	saved, err := svc.SaveEntry(context.Background(), EntryUpdate{ListID: 7, Progress: &progress})
	require.NoError(t, err)
	assert.Equal(t, 4, saved.Progress)
	assert.Equal(t, StatusCurrent, saved.Status)

	// The mutation must survive a reload.
	list, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, list[0].Entry.Progress)
}

func TestFileServiceSaveEntryNotFound(t *testing.T) {
	svc := seedList(t, []*Series{{ID: 1, Entry: &ListEntry{ID: 7}}})

	progress := 1
	_, err := svc.SaveEntry(context.Background(), EntryUpdate{ListID: 99, Progress: &progress})
	assert.Error(t, err)
}

func TestFileServiceDeleteEntry(t *testing.T) {
	svc := seedList(t, []*Series{
		{ID: 1, Entry: &ListEntry{ID: 7}},
		{ID: 2, Entry: &ListEntry{ID: 8}},
	})

	require.NoError(t, svc.DeleteEntry(context.Background(), 7))

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(2), list[0].ID)

	assert.Error(t, svc.DeleteEntry(context.Background(), 7))
}
