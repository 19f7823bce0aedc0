package repositories

import "context"

// ImageStore keeps the uploaded survey photos
type ImageStore interface {
	// UploadImage stores data under name and returns the URL it can be fetched from
	UploadImage(ctx context.Context, name string, data []byte, contentType string) (string, error)

	// DeleteImage removes an image by the URL UploadImage returned
	DeleteImage(ctx context.Context, imageURL string) error
}
