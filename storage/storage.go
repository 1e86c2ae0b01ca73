package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

const MaxImageSize = 5 * 1024 * 1024 // 5MB

var (
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrTooLarge        = errors.New("image exceeds size limit")
)

var imageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// BlobStore uploads an object under path and returns its download URL.
type BlobStore interface {
	Put(ctx context.Context, path, contentType string, body io.Reader) (string, error)
}

// Image is an upload taken from a request, ready to be stored.
type Image struct {
	ContentType string
	Size        int64
	Body        io.Reader
}

func ProfileImagePath(userID string) string {
	return fmt.Sprintf("Users/%s/Images/%s", userID, userID)
}

func RoomImagePath(roomID string) string {
	return fmt.Sprintf("Rooms/%s/Images/%s", roomID, roomID)
}

// CheckImage validates the declared content type and size of an upload.
func CheckImage(contentType string, size int64) error {
	if _, ok := imageTypes[normalizeType(contentType)]; !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedType, contentType)
	}
	if size > MaxImageSize {
		return fmt.Errorf("%w: %d bytes", ErrTooLarge, size)
	}
	return nil
}

// Extension returns the file extension used for an allowed content type.
func Extension(contentType string) string {
	return imageTypes[normalizeType(contentType)]
}

func normalizeType(contentType string) string {
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}

// Upload checks img and stores it under path.
func Upload(ctx context.Context, blobs BlobStore, path string, img Image) (string, error) {
	if err := CheckImage(img.ContentType, img.Size); err != nil {
		return "", err
	}
	return blobs.Put(ctx, path, normalizeType(img.ContentType), io.LimitReader(img.Body, MaxImageSize+1))
}

func MessageImagePath(roomID, messageID string) string {
	return fmt.Sprintf("Rooms/%s/Messages/%s", roomID, messageID)
}
