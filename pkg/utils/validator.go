package utils

import "errors"

// MaxImageBytes is the upload size cap (10 MiB).
const MaxImageBytes = 10 * 1024 * 1024

var (
	ErrImageType = errors.New("JPG, PNG, or WEBP only.")
	ErrImageSize = errors.New("Max 10MB.")
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// ValidateImageFile checks an upload's MIME type and size against the policy.
// It is pure: callers run it before any storage I/O.
func ValidateImageFile(contentType string, size int64) error {
	if !allowedImageTypes[contentType] {
		return ErrImageType
	}
	if size > MaxImageBytes {
		return ErrImageSize
	}
	return nil
}

// AcceptedImageTypes lists the MIME types uploads may carry.
func AcceptedImageTypes() []string {
	return []string{"image/jpeg", "image/png", "image/webp"}
}
