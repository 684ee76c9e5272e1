package repository

import (
	"context"
)

// KVStore defines the interface for the durable key-value store backing
// tracked prices and the notification log. Values are JSON documents.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
