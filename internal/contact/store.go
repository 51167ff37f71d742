package contact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusSent    Status = "sent"
	StatusFailed  Status = "failed"
)

// Submission is one recorded contact attempt.
type Submission struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	Status    Status    `json:"status"`
	Failure   string    `json:"failure,omitempty"`
	Origin    string    `json:"origin,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store persists submissions.
type Store interface {
	Create(ctx context.Context, sub Submission) error
	UpdateStatus(ctx context.Context, id string, status Status, failure string, at time.Time) error
	Get(ctx context.Context, id string) (Submission, error)
	PruneBefore(ctx context.Context, cutoff time.Time) (int, error)
	Close() error
}

// FileStore keeps submissions in a single JSON document rewritten atomically.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	if path == "" {
		path = filepath.Join(os.TempDir(), "portfolio-contact.json")
	}
	return &FileStore{path: path}
}

func (s *FileStore) Create(_ context.Context, sub Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.readLocked()
	if err != nil {
		return err
	}
	if _, exists := rows[sub.ID]; exists {
		return fmt.Errorf("create submission %s: already exists", sub.ID)
	}
	rows[sub.ID] = sub
	return s.writeLocked(rows)
}

func (s *FileStore) UpdateStatus(_ context.Context, id string, status Status, failure string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.readLocked()
	if err != nil {
		return err
	}
	sub, ok := rows[id]
	if !ok {
		return ErrNotFound
	}
	sub.Status = status
	sub.Failure = failure
	sub.UpdatedAt = at.UTC()
	rows[id] = sub
	return s.writeLocked(rows)
}

func (s *FileStore) Get(_ context.Context, id string) (Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.readLocked()
	if err != nil {
		return Submission{}, err
	}
	sub, ok := rows[id]
	if !ok {
		return Submission{}, ErrNotFound
	}
	return sub, nil
}

func (s *FileStore) PruneBefore(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.readLocked()
	if err != nil {
		return 0, err
	}
	removed := 0
	for id, sub := range rows {
		if sub.CreatedAt.Before(cutoff) {
			delete(rows, id)
			removed++
		}
	}
	if removed == 0 {
		return 0, nil
	}
	return removed, s.writeLocked(rows)
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) readLocked() (map[string]Submission, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]Submission{}, nil
	}
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return map[string]Submission{}, nil
	}
	rows := map[string]Submission{}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return rows, nil
}

func (s *FileStore) writeLocked(rows map[string]Submission) error {
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmpFile, err := os.CreateTemp(dir, ".contact-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()
	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmpFile.Chmod(0o600); err != nil {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmpFile.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

// OpenStore returns the store named by kind ("sqlite", "file" or "none").
// "none" yields a nil Store.
func OpenStore(kind, path string) (Store, error) {
	switch kind {
	case "sqlite":
		store, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "file":
		return NewFileStore(path), nil
	case "none", "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown contact store %q", kind)
	}
}
