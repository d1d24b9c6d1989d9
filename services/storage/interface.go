package storage

import "context"

// StorageService defines the media upload operations the API needs.
type StorageService interface {
	// UploadAvatar uploads an avatar image and returns its public URL.
	UploadAvatar(ctx context.Context, localFilePath, userID string) (string, error)
	// DeleteFile deletes a previously uploaded file by its public ID.
	DeleteFile(ctx context.Context, publicID string) error
}
