package storage

import "context"

// ObjectStore is the slice of blob operations the pipeline needs. The MinIO
// client satisfies it through minioStore; tests use in-memory fakes.
type ObjectStore interface {
	Download(ctx context.Context, objectPath, localPath string) error
	FetchBytes(ctx context.Context, objectPath string) ([]byte, error)
	Remove(ctx context.Context, objectPath string) error
}
