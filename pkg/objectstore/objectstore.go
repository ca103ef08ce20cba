package objectstore

import "context"

// Store abstracts the binary object storage used for message attachments.
type Store interface {
	// PresignedUpload returns a URL the client PUTs the file bytes to.
	PresignedUpload(ctx context.Context, storageID string) (string, error)
	// PresignedGet resolves a stored object to a time-limited fetch URL.
	PresignedGet(ctx context.Context, storageID string) (string, error)
}
