package storage

import "context"

// UploadResult carries the retrievable URL of a stored asset.
type UploadResult struct {
	URL string
}

// Uploader stores a local file with the media provider and returns its URL.
// A nil result with an error covers every failure mode: missing file,
// network, provider rejection.
type Uploader interface {
	Upload(ctx context.Context, localFilePath string) (*UploadResult, error)
}
