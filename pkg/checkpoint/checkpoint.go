package checkpoint

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"docketlabeler/pkg/logger"
	"docketlabeler/pkg/storage"
)

// Store persists the catalog cursor as a single JSON value: a string token
// or null for the start of the catalog
type Store struct {
	path   string
	logger logger.Logger
}

// Info describes the checkpoint file for display
type Info struct {
	Path      string
	Exists    bool
	Cursor    *string
	UpdatedAt time.Time
}

// NewStore creates a checkpoint store backed by path
func NewStore(path string, log logger.Logger) *Store {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Store{
		path:   path,
		logger: log.WithField("component", "checkpoint"),
	}
}

// Path returns the checkpoint file location
func (s *Store) Path() string {
	return s.path
}

// Load returns the saved cursor. A missing or empty file means the crawl
// starts from the beginning.
func (s *Store) Load() (*string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read checkpoint: %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var cursor *string
	if err := json.Unmarshal(data, &cursor); err != nil {
		return nil, fmt.Errorf("failed to decode checkpoint %s: %w", s.path, err)
	}

	s.logger.InfoWithFields("Checkpoint loaded", map[string]interface{}{
		"path":   s.path,
		"cursor": cursor,
	})

	return cursor, nil
}

// Save atomically replaces the stored cursor
func (s *Store) Save(cursor *string) error {
	data, err := json.Marshal(cursor)
	if err != nil {
		return fmt.Errorf("failed to encode checkpoint: %w", err)
	}

	if err := storage.WriteFileAtomic(s.path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}

	s.logger.DebugWithFields("Checkpoint saved", map[string]interface{}{
		"cursor": cursor,
	})
	return nil
}

// Reset removes the checkpoint so the next crawl starts over
func (s *Store) Reset() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete checkpoint: %w", err)
	}

	s.logger.Info("Checkpoint reset")
	return nil
}

// Exists checks if a checkpoint file exists
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Describe loads the checkpoint together with its file metadata
func (s *Store) Describe() (*Info, error) {
	info := &Info{Path: s.path}

	stat, err := os.Stat(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return info, nil
		}
		return nil, fmt.Errorf("failed to stat checkpoint: %w", err)
	}

	cursor, err := s.Load()
	if err != nil {
		return nil, err
	}

	info.Exists = true
	info.Cursor = cursor
	info.UpdatedAt = stat.ModTime()
	return info, nil
}
