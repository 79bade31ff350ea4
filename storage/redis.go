package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces slot keys in Redis.
const KeyPrefix = "escaperoom:"

// RedisSlot stores the document under escaperoom:<slot>. Keys never expire.
type RedisSlot struct {
	client *redis.Client
	name   string
	key    string
	logger *slog.Logger
}

var _ Slot = (*RedisSlot)(nil)

// NewRedisSlot connects to addr and pings it once. No retry.
func NewRedisSlot(ctx context.Context, addr, name string, logger *slog.Logger) (*RedisSlot, error) {
	if addr == "" {
		addr = "localhost:6379"
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, &PersistenceError{Op: "open", Slot: name, Err: fmt.Errorf("redis ping failed: %w", err)}
	}
	logger.Info("redis save slot ready", "addr", addr, "slot", name)
	return &RedisSlot{
		client: rdb,
		name:   name,
		key:    KeyPrefix + name,
		logger: logger,
	}, nil
}

func (r *RedisSlot) Name() string { return r.name }

func (r *RedisSlot) Read(ctx context.Context) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, &PersistenceError{Op: "read", Slot: r.name, Err: err}
	}
	return data, nil
}

func (r *RedisSlot) Write(ctx context.Context, data []byte) error {
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return &PersistenceError{Op: "write", Slot: r.name, Err: err}
	}
	r.logger.Debug("save written", "slot", r.name, "key", r.key, "bytes", len(data))
	return nil
}

func (r *RedisSlot) Delete(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return &PersistenceError{Op: "delete", Slot: r.name, Err: err}
	}
	return nil
}

func (r *RedisSlot) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("failed to close redis connection", "error", err)
		return err
	}
	return nil
}
