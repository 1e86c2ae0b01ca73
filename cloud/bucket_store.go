package cloud

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"chat-sync-app/entity"
	"chat-sync-app/storage"

	gcs "cloud.google.com/go/storage"
)

// BucketStore keeps blobs in a Cloud Storage bucket and hands out Firebase
// download URLs carrying a per-object access token.
type BucketStore struct {
	Bucket     *gcs.BucketHandle
	BucketName string
}

func NewBucketStore(bucket *gcs.BucketHandle, bucketName string) *BucketStore {
	return &BucketStore{Bucket: bucket, BucketName: bucketName}
}

var _ storage.BlobStore = (*BucketStore)(nil)

func (s *BucketStore) Put(ctx context.Context, path, contentType string, body io.Reader) (string, error) {
	token := entity.NewID()

	w := s.Bucket.Object(path).NewWriter(ctx)
	w.ContentType = contentType
	w.Metadata = map[string]string{"firebaseStorageDownloadTokens": token}

	n, err := io.Copy(w, io.LimitReader(body, storage.MaxImageSize+1))
	if err != nil {
		_ = w.Close()
		return "", fmt.Errorf("upload %s: %w", path, err)
	}
	if n > storage.MaxImageSize {
		_ = w.Close()
		_ = s.Bucket.Object(path).Delete(ctx)
		return "", storage.ErrTooLarge
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finish upload %s: %w", path, err)
	}
	return DownloadURL(s.BucketName, path, token), nil
}

// DownloadURL builds the Firebase Storage URL for an object.
func DownloadURL(bucket, path, token string) string {
	return fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media&token=%s",
		bucket, url.PathEscape(path), url.QueryEscape(token))
}
