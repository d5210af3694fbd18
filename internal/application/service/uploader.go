package service

import (
	"context"
	"io"
)

// Uploader stores a file under folder/publicID, replacing any previous
// object with the same id, and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, folder string, publicID string) (string, error)
	Delete(ctx context.Context, publicID string) error
}
