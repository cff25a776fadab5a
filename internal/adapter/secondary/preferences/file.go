package preferences

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"volumelockr/internal/domain"
	"volumelockr/internal/logging"
)

// RingerModeKey holds the ringer/interruption mode code.
const RingerModeKey = "ringer_mode"

// FileStore keeps user preferences in a YAML file. It implements
// domain.Preferences and domain.ModeSource. An empty path keeps everything in
// memory.
type FileStore struct {
	path string

	mu     sync.RWMutex
	values map[string]any
}

// NewFileStore loads preferences from path. Parent directories are created
// automatically; a missing file yields defaults.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path, values: map[string]any{}}
	if path == "" {
		return s, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create preferences dir: %w", err)
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewMemoryStore returns a store that never touches disk.
func NewMemoryStore() *FileStore {
	s, _ := NewFileStore("")
	return s
}

// Reload re-reads the file.
func (s *FileStore) Reload() error {
	if s.path == "" {
		return nil
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.mu.Lock()
			s.values = map[string]any{}
			s.mu.Unlock()
			return nil
		}
		return fmt.Errorf("read preferences: %w", err)
	}
	values := map[string]any{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("unmarshal preferences: %w", err)
	}
	if values == nil {
		values = map[string]any{}
	}
	s.mu.Lock()
	s.values = values
	s.mu.Unlock()
	return nil
}

// Bool returns the boolean preference or def when unset or not a boolean.
func (s *FileStore) Bool(key string, def bool) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.values[key].(bool); ok {
		return v
	}
	return def
}

// Int returns the integer preference or def.
func (s *FileStore) Int(key string, def int) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.values[key].(int); ok {
		return v
	}
	return def
}

// SetBool stores a boolean preference.
func (s *FileStore) SetBool(key string, value bool) error {
	return s.set(key, value)
}

// Mode defaults to the permissive mode when unset.
func (s *FileStore) Mode() domain.Mode {
	return domain.Mode(s.Int(RingerModeKey, int(domain.ModeNormal)))
}

// SetMode stores the ringer mode.
func (s *FileStore) SetMode(mode domain.Mode) error {
	if mode < domain.ModeSilent || mode > domain.ModeNormal {
		return fmt.Errorf("%w: %d", domain.ErrInvalidMode, int(mode))
	}
	return s.set(RingerModeKey, int(mode))
}

func (s *FileStore) set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return s.save()
}

// save writes atomically; the caller holds s.mu.
func (s *FileStore) save() error {
	if s.path == "" {
		return nil
	}
	data, err := yaml.Marshal(s.values)
	if err != nil {
		return fmt.Errorf("marshal preferences: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write tmp: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("rename tmp: %w", err)
	}
	return nil
}

// Watch reloads the store whenever the file changes on disk. Blocks until ctx
// is cancelled. The directory is watched so atomic renames are observed.
func (s *FileStore) Watch(ctx context.Context) error {
	if s.path == "" {
		<-ctx.Done()
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		return err
	}
	target := filepath.Clean(s.path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			if err := s.Reload(); err != nil {
				logging.Warnf("reload preferences: %v", err)
				continue
			}
			logging.Debugf("preferences reloaded from %s", s.path)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Warnf("preferences watcher: %v", err)
		}
	}
}
