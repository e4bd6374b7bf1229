package domain

import (
	"context"
	"time"
)

// ResumeStorage stores uploaded resume files and hands back opaque references.
type ResumeStorage interface {
	Save(ctx context.Context, key, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, ref string) error
	URL(ctx context.Context, ref string, ttl time.Duration) (string, error)
}
