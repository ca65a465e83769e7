package cache

import (
	"context"
	"time"
)

// Cache stores JSON-encoded values. A miss is reported as found=false with a nil error.
type Cache interface {
	Get(ctx context.Context, key string, value any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

func Key(prefix string, id string) string {
	return prefix + ":" + id
}

const (
	ShopKeyPrefix     = "shop"
	ShopListKeyPrefix = "shops"
	ListingKeyPrefix  = "listing"
	UserKeyPrefix     = "user"
)
