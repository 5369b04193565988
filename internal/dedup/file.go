package dedup

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// snapshot is the on-disk shape of the seen-post record.
type snapshot struct {
	Seen      map[string]time.Time `json:"seen"`
	UpdatedAt string               `json:"updated_at"`
}

// FileStore persists seen-post IDs in a JSON snapshot under a data
// directory. Writes go through to disk on every mark so an interrupted
// run keeps what it already published.
type FileStore struct {
	mu   sync.Mutex
	path string
	seen map[string]time.Time
}

// NewFileStore loads (or initializes) the snapshot in the given data
// directory. A leading ~/ expands to the home directory.
func NewFileStore(dataDir string) (*FileStore, error) {
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	s := &FileStore{
		path: filepath.Join(dataDir, "seen.json"),
		seen: make(map[string]time.Time),
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("reading seen snapshot: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing seen snapshot: %w", err)
	}
	if snap.Seen != nil {
		s.seen = snap.Seen
	}
	return s, nil
}

// Seen reports whether the post ID has been recorded.
func (s *FileStore) Seen(_ context.Context, postID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.seen[postID]
	return ok, nil
}

// MarkSeen records the post ID and saves the snapshot.
func (s *FileStore) MarkSeen(_ context.Context, postID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen[postID] = at.UTC()
	return s.save()
}

// Close is a no-op for the file store; every mark already persisted.
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) save() error {
	snap := snapshot{
		Seen:      s.seen,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding seen snapshot: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("writing seen snapshot: %w", err)
	}
	return nil
}
