package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"poolSnapshot/internal/model"
)

// Config represents Redis sink options.
type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Store writes the latest snapshot of each pool under snapshot:<prefix>:<address>.
type Store struct {
	client *goredis.Client
	ttl    time.Duration
}

// NewStore connects to Redis and verifies the connection.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis addr is required")
	}
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewStoreWithClient(client, cfg.TTL), nil
}

// NewStoreWithClient wraps an existing client.
func NewStoreWithClient(client *goredis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func (s *Store) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

// Key returns the Redis key for a pool snapshot.
func Key(protocol model.Protocol, address string) string {
	return fmt.Sprintf("snapshot:%s:%s", protocol.Prefix(), address)
}

// PutSnapshot stores the snapshot document, replacing any previous one.
func (s *Store) PutSnapshot(ctx context.Context, record model.SnapshotRecord) error {
	payload, err := json.Marshal(record.Snapshot)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := s.client.Set(ctx, Key(record.Protocol, record.Address), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
