package model

import (
	"context"
	"io"
	"time"
)

// Storage is the object storage capability the vault consumes: direct put and
// delete, plus time-limited signed URLs for client-side transfers.
type Storage interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	SignedGetURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	SignedPutURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}
