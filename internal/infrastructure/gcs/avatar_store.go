package gcs

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"

	"github.com/oksasatya/deploydash/internal/application"
	"github.com/oksasatya/deploydash/pkg/helpers"
)

const maxAvatarBytes = 5 << 20

// UploadFunc matches helpers.UploadObject.
type UploadFunc func(ctx context.Context, client *storage.Client, bucket, objectPath, contentType string, r io.Reader) (string, error)

// AvatarStore copies provider avatars into a GCS bucket under avatars/<user>/.
type AvatarStore struct {
	Client *storage.Client
	Bucket string
	HTTP   *http.Client
	Upload UploadFunc
}

func NewAvatarStore(client *storage.Client, bucket string) *AvatarStore {
	return &AvatarStore{
		Client: client,
		Bucket: bucket,
		HTTP:   &http.Client{Timeout: 10 * time.Second},
		Upload: helpers.UploadObject,
	}
}

func (s *AvatarStore) MirrorAvatar(ctx context.Context, userID, sourceURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return "", err
	}
	res, err := s.HTTP.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch avatar: status %d", res.StatusCode)
	}

	contentType := res.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("fetch avatar: unexpected content type %q", contentType)
	}
	objectPath := path.Join("avatars", userID, uuid.NewString()+extensionFor(contentType))
	return s.Upload(ctx, s.Client, s.Bucket, objectPath, contentType, io.LimitReader(res.Body, maxAvatarBytes))
}

func extensionFor(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	switch mediaType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	}
	return ""
}

var _ application.AvatarStore = (*AvatarStore)(nil)
