package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"poolSnapshot/internal/model"
)

// JsonlStorage appends every snapshot to a JSONL file.
type JsonlStorage struct {
	path string
	mu   sync.Mutex
}

func NewJsonlStorage(path string) *JsonlStorage {
	return &JsonlStorage{path: path}
}

type jsonlLine struct {
	Protocol string             `json:"protocol"`
	Address  string             `json:"address"`
	Snapshot model.PoolSnapshot `json:"snapshot"`
}

// PutSnapshot appends one line for the record.
func (s *JsonlStorage) PutSnapshot(ctx context.Context, record model.SnapshotRecord) error {
	line, err := json.Marshal(jsonlLine{
		Protocol: record.Protocol.Prefix(),
		Address:  record.Address,
		Snapshot: record.Snapshot,
	})
	if err != nil {
		return fmt.Errorf("marshal snapshot line: %w", err)
	}

	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	if _, err := writer.Write(line); err != nil {
		return fmt.Errorf("write snapshot line: %w", err)
	}
	if err := writer.WriteByte('\n'); err != nil {
		return fmt.Errorf("write newline: %w", err)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return nil
}
