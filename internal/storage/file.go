package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"poolSnapshot/internal/model"
)

// FileStorage writes one JSON document per pool into a directory.
type FileStorage struct {
	dir string
}

func NewFileStorage(dir string) *FileStorage {
	return &FileStorage{dir: dir}
}

// Path returns the file a snapshot record is written to.
func (s *FileStorage) Path(protocol model.Protocol, address string) string {
	return filepath.Join(s.dir, SnapshotName(protocol, address))
}

// PutSnapshot replaces the pool's snapshot file.
func (s *FileStorage) PutSnapshot(ctx context.Context, record model.SnapshotRecord) error {
	data, err := json.Marshal(record.Snapshot)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	path := s.Path(record.Protocol, record.Address)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot tmp: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename snapshot: %w", err)
	}
	return nil
}
