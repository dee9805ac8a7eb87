// Package publish hands accepted catalog snapshots to out-of-process
// consumers through Redis: the latest snapshot lives under a key, and every
// replacement is announced on a pub/sub channel.
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/marudhara-crafts/catalog-sync/internal/core/domain"
)

const connectTimeout = 5 * time.Second

// Config captures the settings for establishing a Redis connection.
type Config struct {
	Addr    string
	DB      int
	Key     string
	Channel string
}

// Connect initialises a Redis client and validates connectivity with a ping.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// Snapshot is the wire envelope written to Redis.
type Snapshot struct {
	PublishedAt time.Time            `json:"published_at"`
	Items       []domain.CatalogItem `json:"items"`
}

// RedisPublisher implements ports.SnapshotPublisher on a Redis client.
type RedisPublisher struct {
	client  *redis.Client
	key     string
	channel string
}

// NewRedisPublisher wraps an established client. Empty key or channel fall
// back to "catalog:snapshot".
func NewRedisPublisher(client *redis.Client, key, channel string) *RedisPublisher {
	if key == "" {
		key = "catalog:snapshot"
	}
	if channel == "" {
		channel = "catalog:snapshot"
	}
	return &RedisPublisher{client: client, key: key, channel: channel}
}

// Publish stores the snapshot under the configured key and announces it on
// the channel. The key always holds the complete latest snapshot, never a
// partial one.
func (p *RedisPublisher) Publish(ctx context.Context, items []domain.CatalogItem) error {
	payload, err := EncodeSnapshot(items, time.Now().UTC())
	if err != nil {
		return err
	}
	if err := p.client.Set(ctx, p.key, payload, 0).Err(); err != nil {
		return fmt.Errorf("snapshot set: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("snapshot publish: %w", err)
	}
	return nil
}

// EncodeSnapshot serializes the snapshot envelope.
func EncodeSnapshot(items []domain.CatalogItem, at time.Time) ([]byte, error) {
	payload, err := json.Marshal(Snapshot{PublishedAt: at, Items: items})
	if err != nil {
		return nil, fmt.Errorf("snapshot encode: %w", err)
	}
	return payload, nil
}
