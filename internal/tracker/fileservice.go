package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
)

// FileService is a Service backed by a local JSON export of the user's list.
// It exists so the client is fully usable (and testable) without any remote
// tracker wired in: reads come from the file, entry saves mutate the file.
type FileService struct {
	mu   sync.Mutex
	path string
}

// NewFileService creates a service reading and writing the given JSON file.
func NewFileService(path string) *FileService {
	return &FileService{path: path}
}

// List loads every series from the export file. A missing file is an empty
// list.
func (f *FileService) List(ctx context.Context) ([]*Series, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.load()
}

// SaveEntry applies the update to the matching list entry and rewrites the
// file, returning the entry as stored.
func (f *FileService) SaveEntry(ctx context.Context, update EntryUpdate) (*ListEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	list, err := f.load()
	if err != nil {
		return nil, err
	}
	for _, s := range list {
		if s.Entry == nil || s.Entry.ID != update.ListID {
			continue
		}
		applyUpdate(s.Entry, update)
		if err := f.store(list); err != nil {
			return nil, err
		}
		saved := *s.Entry
		return &saved, nil
	}
	return nil, fmt.Errorf("list entry %d not found", update.ListID)
}

// DeleteEntry removes the list entry and rewrites the file.
func (f *FileService) DeleteEntry(ctx context.Context, listID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	list, err := f.load()
	if err != nil {
		return err
	}
	kept := list[:0]
	found := false
	for _, s := range list {
		if s.Entry != nil && s.Entry.ID == listID {
			found = true
			continue
		}
		kept = append(kept, s)
	}
	if !found {
		return fmt.Errorf("list entry %d not found", listID)
	}
	return f.store(kept)
}

func (f *FileService) load() ([]*Series, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read list file: %w", err)
	}
	var list []*Series
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("decode list file %s: %w", f.path, err)
	}
	return list, nil
}

func (f *FileService) store(list []*Series) error {
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("encode list file: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write list file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace list file: %w", err)
	}
	return nil
}

func applyUpdate(entry *ListEntry, update EntryUpdate) {
	if update.Status != nil {
		entry.Status = *update.Status
	}
	if update.Score != nil {
		entry.Score = *update.Score
	}
	if update.Progress != nil {
		entry.Progress = *update.Progress
	}
	if update.Repeat != nil {
		entry.Repeat = *update.Repeat
	}
	if update.Notes != nil {
		entry.Notes = *update.Notes
	}
	if update.StartedAt != nil {
		entry.StartedAt = update.StartedAt
	}
	if update.CompletedAt != nil {
		entry.CompletedAt = update.CompletedAt
	}
}
