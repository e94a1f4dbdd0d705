package ports

import "context"

// ObjectStore uploads artifact bytes and returns the stored s3://bucket/key
// path.
type ObjectStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
