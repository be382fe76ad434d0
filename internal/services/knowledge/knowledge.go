package knowledge

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Store resolves a crop keyword to its description.
type Store interface {
	// Lookup returns the description for the given keyword and whether it was
	// found. The key is normalized before matching. A non-nil error means the
	// backing data could not be read at all.
	Lookup(key string) (string, bool, error)
}

// Normalize trims surrounding whitespace and lowercases a keyword so that
// " CORN " and "corn" resolve to the same entry.
func Normalize(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// FileStore serves lookups from a JSON keyword-to-description mapping file.
// The file is re-read on every call so edits take effect without a restart.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore backed by the mapping file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Lookup(key string) (string, bool, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return "", false, fmt.Errorf("failed to read crop file: %w", err)
	}
	var crops map[string]string
	if err := json.Unmarshal(raw, &crops); err != nil {
		return "", false, fmt.Errorf("failed to parse crop file %s: %w", s.path, err)
	}
	desc, ok := crops[Normalize(key)]
	return desc, ok, nil
}

// StaticStore serves lookups from an in-memory mapping. Keys must already be
// normalized.
type StaticStore map[string]string

func (s StaticStore) Lookup(key string) (string, bool, error) {
	desc, ok := s[Normalize(key)]
	return desc, ok, nil
}
