package storage

import (
	"context"
	"io"
	"time"
)

// ObjectInfo describes one stored export object.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified *time.Time
}

// Service stores report exports in remote object storage.
type Service interface {
	// PutObject uploads a single object and returns its s3://bucket/key location.
	PutObject(ctx context.Context, bucket, key string, body io.Reader, contentType string) (string, error)
	ListObjects(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error)
	GetObjectURL(ctx context.Context, bucket, key string, expires time.Duration) (string, error)
}
