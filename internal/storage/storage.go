package storage

import (
	"context"
	"errors"
	"fmt"

	"poolSnapshot/internal/model"
)

// Storage defines a sink for pool snapshots.
type Storage interface {
	PutSnapshot(ctx context.Context, record model.SnapshotRecord) error
}

// Multi writes every snapshot to each sink in order and joins their errors.
type Multi []Storage

func (m Multi) PutSnapshot(ctx context.Context, record model.SnapshotRecord) error {
	var errs []error
	for _, sink := range m {
		if sink == nil {
			continue
		}
		if err := sink.PutSnapshot(ctx, record); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SnapshotName is the file name a snapshot is stored under: <prefix>.<address>.json.
func SnapshotName(protocol model.Protocol, address string) string {
	return fmt.Sprintf("%s.%s.json", protocol.Prefix(), address)
}
