// Package blob stores uploaded zone images and hands back public URLs.
package blob

import (
	"context"
	"io"
)

// Store is the binary object store contract: upload bytes under a
// generated key, get a public URL for a key, read the bytes back.
type Store interface {
	Save(ctx context.Context, prefix, mimeType string, r io.Reader) (key string, err error)
	PublicURL(key string) string
	Open(ctx context.Context, key string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, key string) error
}
