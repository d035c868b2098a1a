package service

import (
	"context"
	"time"
)

// CatalogCache stores serialized catalog reads. A miss returns found=false and no error.
type CatalogCache interface {
	Get(ctx context.Context, key string, dest any) (found bool, err error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
