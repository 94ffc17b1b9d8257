// Package blob provides filesystem storage for uploaded resume files.
package blob

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Storage manages resume file operations on the local filesystem.
// Thread-safe for concurrent operations.
type Storage struct {
	basePath string
	mu       sync.RWMutex // Protects file operations
}

// NewStorage creates a new Storage instance rooted at basePath.
// The directory is created if it doesn't exist.
func NewStorage(basePath string) (*Storage, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}

	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create blob directory: %w", err)
	}

	return &Storage{basePath: basePath}, nil
}

// Save stores file data for a resume.
// Filename format: {resumeID}{ext}, where ext comes from the original
// upload's file name.
func (s *Storage) Save(resumeID, fileName string, data []byte) (string, error) {
	if resumeID == "" {
		return "", fmt.Errorf("resume ID cannot be empty")
	}
	if len(data) == 0 {
		return "", fmt.Errorf("file data cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.Path(resumeID, fileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write resume file: %w", err)
	}
	return path, nil
}

// Get retrieves file data stored at path.
func (s *Storage) Get(path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(path) //#nosec G304 -- Paths come from our own store, not user input
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("resume file not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("failed to read resume file: %w", err)
	}
	return data, nil
}

// Exists checks whether a file exists at path.
func (s *Storage) Exists(path string) bool {
	if path == "" {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := os.Stat(path)
	return err == nil
}

// Delete removes the file at path. A missing file is not an error; the
// database row is the source of truth and the file may already be gone.
func (s *Storage) Delete(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to delete resume file: %w", err)
	}
	return nil
}

// Path returns the full filesystem path for a resume's file, keyed by
// resume ID so re-uploads overwrite rather than accumulate.
func (s *Storage) Path(resumeID, fileName string) string {
	ext := filepath.Ext(fileName)
	return filepath.Join(s.basePath, resumeID+ext)
}
