package repository

import (
	"context"
	"io"
)

// CaptionStorage defines object storage for uploaded caption files
// (WebVTT/SRT sources transcripts are extracted from).
// Implementations should be provided by the infrastructure layer (e.g., MinIO, S3).
type CaptionStorage interface {
	// Upload stores a caption file.
	// key is the object path within the bucket (e.g., "captions/{subject_id}/{lang}.vtt").
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) error

	// Download retrieves a caption file.
	// Caller is responsible for closing the returned ReadCloser.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes a caption file.
	Delete(ctx context.Context, key string) error

	// Exists checks if a caption file exists.
	Exists(ctx context.Context, key string) (bool, error)
}
