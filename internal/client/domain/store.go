package domain

import (
	"context"
)

// KeyValueStore persists small string values across process restarts.
// Get returns shared ErrNotExist when the key is absent; Delete of an absent
// key succeeds.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
