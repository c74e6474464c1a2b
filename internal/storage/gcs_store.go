// Package storage implements the object store on Google Cloud Storage.
package storage

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
)

// GCSStore implements core.ObjectStore against a public GCS bucket.
type GCSStore struct {
	client *storage.Client
	bucket string
}

// NewGCSStore wraps an existing storage client for the given bucket.
func NewGCSStore(client *storage.Client, bucket string) *GCSStore {
	return &GCSStore{client: client, bucket: bucket}
}

// Save writes data under name and returns the public object URL. The bucket
// is expected to allow public reads.
func (s *GCSStore) Save(ctx context.Context, name string, contentType string, data []byte) (string, error) {
	w := s.client.Bucket(s.bucket).Object(name).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to write object '%s': %w", name, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize object '%s': %w", name, err)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, name), nil
}
