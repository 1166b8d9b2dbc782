package storage

import (
	"context"
	"io"
	"time"
)

// AttachmentRepository stores uploaded RAB and evidence files
type AttachmentRepository interface {
	// Upload stores data under objectPath and returns the stored path
	Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error)
	Delete(ctx context.Context, objectPath string) error
	GeneratePresignedURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error)
}
