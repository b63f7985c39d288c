// Package cache implements the pipeline's content-addressed memoization
// layer: a flat key/value store keyed by sha256 digests of the stable input
// subset each activity's result depends on, with per-activity TTLs.
package cache

import (
	"context"
	"time"
)

// Store is the cache KV interface every activity memoizes through. Get
// returns ok=false on a miss or on any deserialize/transport error — callers
// never distinguish "absent" from "corrupt"; both are treated as a miss and
// recomputed.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
