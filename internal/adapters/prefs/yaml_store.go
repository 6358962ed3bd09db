// Package prefs stores user preferences that do not belong in the portfolio ledger.
package prefs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/example/wealthdesk/internal/ports/secondary"
)

// File is the on-disk layout of preferences.yaml.
type File struct {
	AllocationModes map[string]string `yaml:"allocation_modes,omitempty"`
}

// YAMLStore implements secondary.AllocationModeStore on a YAML file.
type YAMLStore struct {
	path string
	mu   sync.Mutex
}

// NewYAMLStore creates a store backed by the file at path. The file is created on first save.
func NewYAMLStore(path string) *YAMLStore {
	return &YAMLStore{path: path}
}

// Path returns the backing file path.
func (s *YAMLStore) Path() string { return s.path }

func (s *YAMLStore) read() (*File, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return &File{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read preferences: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse preferences %s: %w", s.path, err)
	}
	return &f, nil
}

func (s *YAMLStore) write(f *File) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create preferences dir: %w", err)
	}

	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}

	// write-then-rename so a crash never leaves a truncated file
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace preferences: %w", err)
	}
	return nil
}

// LoadModes returns node id -> mode for every stored preference.
func (s *YAMLStore) LoadModes(ctx context.Context) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.read()
	if err != nil {
		return nil, err
	}
	modes := make(map[string]string, len(f.AllocationModes))
	for k, v := range f.AllocationModes {
		modes[k] = v
	}
	return modes, nil
}

// SaveMode stores the mode of one node, keeping every other preference.
func (s *YAMLStore) SaveMode(ctx context.Context, nodeID, mode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.read()
	if err != nil {
		return err
	}
	if f.AllocationModes == nil {
		f.AllocationModes = make(map[string]string)
	}
	f.AllocationModes[nodeID] = mode
	return s.write(f)
}

// NodeIDs returns the node ids with a stored mode, sorted.
func (s *YAMLStore) NodeIDs(ctx context.Context) ([]string, error) {
	modes, err := s.LoadModes(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(modes))
	for id := range modes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Ensure YAMLStore implements the interface
var _ secondary.AllocationModeStore = (*YAMLStore)(nil)
