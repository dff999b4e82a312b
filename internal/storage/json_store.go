package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/julianstephens/lectio/internal/migration"
)

// jsonFormat is the layout version written to new files. Files from a
// newer lectio are refused rather than rewritten in the old layout.
const jsonFormat = 1

type jsonDocument struct {
	Version int               `json:"version"`
	Values  map[string]string `json:"values"`
}

// JSONStore keeps every key in one human-readable file. Each write
// replaces the file atomically.
type JSONStore struct {
	path   string
	values map[string]string // nil until Init or Load
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

func (s *JSONStore) Init() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("%w at %s", ErrAlreadyInitialized, s.path)
	}

	s.values = map[string]string{}
	return s.flush()
}

func (s *JSONStore) Load() error {
	doc, err := readJSONDocument(s.path)
	if err != nil {
		return err
	}
	s.values = doc.Values
	if s.values == nil {
		s.values = map[string]string{}
	}
	return nil
}

func readJSONDocument(path string) (*jsonDocument, error) {
	raw, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		return nil, ErrNotInitialized
	case err != nil:
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var doc jsonDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%s is not a valid lectio store: %w", path, err)
	}
	if doc.Version > jsonFormat {
		return nil, fmt.Errorf("%w: %s has format %d, this build reads up to %d",
			migration.ErrSchemaTooNew, path, doc.Version, jsonFormat)
	}
	return &doc, nil
}

func (s *JSONStore) Close() error {
	return nil
}

// flush writes the document beside the target and renames it into place
func (s *JSONStore) flush() error {
	raw, err := json.MarshalIndent(jsonDocument{Version: jsonFormat, Values: s.values}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode store: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to stage store write: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write store: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0600); err != nil {
		return fmt.Errorf("failed to set store permissions: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace store: %w", err)
	}
	return nil
}

func (s *JSONStore) Get(key string) (string, bool, error) {
	if s.values == nil {
		return "", false, ErrNotLoaded
	}
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *JSONStore) Set(key, value string) error {
	if s.values == nil {
		return ErrNotLoaded
	}
	if old, ok := s.values[key]; ok && old == value {
		return nil
	}
	s.values[key] = value
	return s.flush()
}

// Delete of an absent key is not an error
func (s *JSONStore) Delete(key string) error {
	if s.values == nil {
		return ErrNotLoaded
	}
	if _, ok := s.values[key]; !ok {
		return nil
	}
	delete(s.values, key)
	return s.flush()
}

func (s *JSONStore) Keys() ([]string, error) {
	if s.values == nil {
		return nil, ErrNotLoaded
	}
	var keys []string
	for k := range s.values {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys, nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}
