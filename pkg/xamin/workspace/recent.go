package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// RecentRecord is one remembered file in the recent-files manifest.
type RecentRecord struct {
	Path     string    `json:"path"`
	Kind     string    `json:"kind"`
	OpenedAt time.Time `json:"opened_at"`
}

// Recent persists the list of recently opened files as a JSON manifest.
type Recent struct {
	path  string
	limit int
	mu    sync.Mutex
}

// NewRecent creates a recent-files manifest stored at path, keeping at
// most limit records.
func NewRecent(path string, limit int) (*Recent, error) {
	if path == "" {
		return nil, errors.New("recent manifest path cannot be empty")
	}
	if limit <= 0 {
		limit = 50
	}
	return &Recent{path: path, limit: limit}, nil
}

// Add records that path was opened as kind, moving it to the front of
// the list. The manifest is truncated to the configured limit.
func (r *Recent) Add(path, kind string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.read()
	if err != nil {
		return err
	}

	filtered := records[:0]
	for _, rec := range records {
		if rec.Path != path {
			filtered = append(filtered, rec)
		}
	}

	records = append([]RecentRecord{{
		Path:     path,
		Kind:     kind,
		OpenedAt: time.Now().UTC(),
	}}, filtered...)

	if len(records) > r.limit {
		records = records[:r.limit]
	}

	return r.write(records)
}

// List returns the recorded files, newest first.
func (r *Recent) List() ([]RecentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.read()
}

// Clear removes all records.
func (r *Recent) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.write([]RecentRecord{})
}

// read loads the manifest from disk. A missing file is an empty list.
func (r *Recent) read() ([]RecentRecord, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []RecentRecord{}, nil
		}
		return nil, fmt.Errorf("failed to read recent manifest: %w", err)
	}

	var records []RecentRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse recent manifest: %w", err)
	}
	return records, nil
}

// write persists the manifest atomically using a temp file and rename.
func (r *Recent) write(records []RecentRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal recent manifest: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}

	tmpPath := r.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, r.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}
