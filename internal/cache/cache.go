package cache

import (
	"time"

	"CryptoAnalyst/internal/model"
)

// Cache is a read-through store for normalized price series, keyed by asset
// symbol with a fixed time-to-live. Fetches are idempotent, so two concurrent
// misses both hitting the upstream is acceptable.
type Cache interface {
	Get(symbol string, now time.Time) (*model.Series, bool)
	Put(series *model.Series) error
	Close() error
}
