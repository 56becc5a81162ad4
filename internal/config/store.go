package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/gofrs/flock"
)

// Store owns the config file: typed settings and free-form string sections.
// Every mutation rewrites the file under a file lock, so concurrent
// processes serialize writes; last write wins, which is all the single-key
// updates here need.
type Store struct {
	mu       sync.Mutex
	path     string
	lock     *flock.Flock
	settings Settings
	sections map[string]map[string]string
}

// Load reads the config file, applying defaults for anything unset. A
// missing file yields a store with pure defaults; the file appears on the
// first write.
func Load(path string) (*Store, error) {
	s := &Store{
		path:     path,
		lock:     flock.New(path + ".lock"),
		settings: defaultSettings(filepath.Dir(path)),
		sections: make(map[string]map[string]string),
	}

	raw := make(map[string]toml.Primitive)
	md, err := toml.DecodeFile(path, &raw)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	for name, prim := range raw {
		if name == "settings" {
			if err := md.PrimitiveDecode(prim, &s.settings); err != nil {
				return nil, fmt.Errorf("decode settings: %w", err)
			}
			continue
		}
		section := make(map[string]string)
		if err := md.PrimitiveDecode(prim, &section); err != nil {
			return nil, fmt.Errorf("decode section %q: %w", name, err)
		}
		s.sections[name] = section
	}
	return s, nil
}

// Settings returns the current typed settings.
func (s *Store) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// UpdateSettings replaces the settings and persists the file.
func (s *Store) UpdateSettings(settings Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	return s.save()
}

// Get returns the value for key in section.
func (s *Store) Get(key, section string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.sections[section][key]
	return value, ok
}

// Set stores key=value in section and persists the file.
func (s *Store) Set(key, value, section string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sections[section] == nil {
		s.sections[section] = make(map[string]string)
	}
	s.sections[section][key] = value
	return s.save()
}

// Remove deletes key from section and persists the file. Removing an absent
// key is a no-op.
func (s *Store) Remove(key, section string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sec, ok := s.sections[section]
	if !ok {
		return nil
	}
	if _, ok := sec[key]; !ok {
		return nil
	}
	delete(sec, key)
	if len(sec) == 0 {
		delete(s.sections, section)
	}
	return s.save()
}

// Keys returns the sorted keys of a section.
func (s *Store) Keys(section string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.sections[section]))
	for k := range s.sections[section] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// save writes the whole file atomically. Callers hold s.mu.
func (s *Store) save() error {
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("lock config: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	doc := make(map[string]any, len(s.sections)+1)
	doc["settings"] = s.settings
	for name, section := range s.sections {
		doc[name] = section
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".config-*")
	if err != nil {
		return fmt.Errorf("create temp config: %w", err)
	}
	if err := toml.NewEncoder(tmp).Encode(doc); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("encode config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close temp config: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replace config: %w", err)
	}
	return nil
}
