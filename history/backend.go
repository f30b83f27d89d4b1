package history

import (
	"context"
	"errors"
	"fmt"

	"github.com/bitrise-io/ai-verse-processor/common"
)

// ErrNotFound is returned by a Backend when the key has never been written
var ErrNotFound = errors.New("key not found")

// Backend is a durable key-value store holding one serialized blob per key
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// OpenBackend creates the backend selected in settings
func OpenBackend(ctx context.Context, settings common.History) (Backend, error) {
	switch settings.Backend {
	case common.BackendFile, "":
		return NewFileBackend(nil, settings.Dir), nil
	case common.BackendSQLite:
		return NewSQLiteBackend(ctx, settings.SQLitePath)
	case common.BackendRedis:
		return NewRedisBackend(ctx, settings.RedisURL, settings.RedisKey)
	case common.BackendMemory:
		return NewMemoryBackend(), nil
	}
	return nil, fmt.Errorf("unsupported history backend: %s", settings.Backend)
}
