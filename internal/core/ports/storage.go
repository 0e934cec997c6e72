package ports

import (
	"context"
	"io"
)

// FileStorage stores document attachments and returns an opaque key.
type FileStorage interface {
	Upload(ctx context.Context, filename string, data io.Reader) (string, error)
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}
