package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poolSnapshot/internal/model"
)

func testRecord(protocol model.Protocol, address string) model.SnapshotRecord {
	var store model.Store = model.V2Store{Reserve0: "0x1", Reserve1: "0x2", Fee: model.V2PairFee}
	if protocol == model.ProtocolV3 {
		store = model.V3Store{Fee: "0x64"}
	}
	return model.SnapshotRecord{
		Protocol: protocol,
		Address:  address,
		Snapshot: model.PoolSnapshot{
			StateBlock: 10,
			Pool: model.Pool{
				Store:    store,
				Address:  address,
				Token0:   "",
				Token1:   "",
				Dex:      model.DexPancake,
				Protocol: string(protocol),
			},
		},
	}
}

func TestSnapshotName(t *testing.T) {
	assert.Equal(t, "v2.0xabc.json", SnapshotName(model.ProtocolV2, "0xabc"))
	assert.Equal(t, "v3.0xdef.json", SnapshotName(model.ProtocolV3, "0xdef"))
}

func TestFileStoragePutSnapshot(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "snapshots")
	sink := NewFileStorage(dir)

	require.NoError(t, sink.PutSnapshot(context.Background(), testRecord(model.ProtocolV3, "0xpool")))

	path := filepath.Join(dir, "v3.0xpool.json")
	assert.Equal(t, path, sink.Path(model.ProtocolV3, "0xpool"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	pool := doc["pool"].(map[string]any)
	store := pool["store"].(map[string]any)
	assert.Equal(t, "v3", store["version"])
	assert.Equal(t, "V3Pool", store["protocol"])
	assert.Equal(t, map[string]any{}, store["ticks"])
	assert.Equal(t, map[string]any{}, store["slot0"])

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestFileStorageOverwrites(t *testing.T) {
	dir := t.TempDir()
	sink := NewFileStorage(dir)

	record := testRecord(model.ProtocolV2, "0xpair")
	require.NoError(t, sink.PutSnapshot(context.Background(), record))
	record.Snapshot.StateBlock = 20
	require.NoError(t, sink.PutSnapshot(context.Background(), record))

	data, err := os.ReadFile(filepath.Join(dir, "v2.0xpair.json"))
	require.NoError(t, err)
	var doc struct {
		StateBlock uint64 `json:"state_block"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, uint64(20), doc.StateBlock)
}

func TestFileStorageFailure(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	sink := NewFileStorage(blocker)
	assert.Error(t, sink.PutSnapshot(context.Background(), testRecord(model.ProtocolV2, "0xpair")))
}

func TestJsonlStorageAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "snapshots.jsonl")
	sink := NewJsonlStorage(path)

	require.NoError(t, sink.PutSnapshot(context.Background(), testRecord(model.ProtocolV2, "0x1")))
	require.NoError(t, sink.PutSnapshot(context.Background(), testRecord(model.ProtocolV3, "0x2")))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	var lines []map[string]any
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var line map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line))
		lines = append(lines, line)
	}
	require.NoError(t, scanner.Err())
	require.Len(t, lines, 2)
	assert.Equal(t, "v2", lines[0]["protocol"])
	assert.Equal(t, "0x2", lines[1]["address"])
}

type failingSink struct{ err error }

func (f failingSink) PutSnapshot(context.Context, model.SnapshotRecord) error { return f.err }

type countingSink struct{ count int }

func (c *countingSink) PutSnapshot(context.Context, model.SnapshotRecord) error {
	c.count++
	return nil
}

func TestMultiContinuesAfterFailure(t *testing.T) {
	boom := errors.New("boom")
	counter := &countingSink{}
	sinks := Multi{failingSink{err: boom}, nil, counter}

	err := sinks.PutSnapshot(context.Background(), testRecord(model.ProtocolV2, "0x1"))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, counter.count)

	assert.NoError(t, Multi{counter}.PutSnapshot(context.Background(), testRecord(model.ProtocolV2, "0x1")))
	assert.Equal(t, 2, counter.count)
}
