package gcs

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cloud.google.com/go/storage"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/deploydash/pkg/helpers"
)

func TestMirrorAvatarUploadsImage(t *testing.T) {
	src := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png-bytes"))
	}))
	defer src.Close()

	var gotPath, gotType, gotBody string
	store := NewAvatarStore(nil, "bucket")
	store.Upload = func(_ context.Context, _ *storage.Client, bucket, objectPath, contentType string, r io.Reader) (string, error) {
		b, _ := io.ReadAll(r)
		gotPath, gotType, gotBody = objectPath, contentType, string(b)
		return helpers.PublicURL(bucket, objectPath), nil
	}

	url, err := store.MirrorAvatar(context.Background(), "u1", src.URL+"/a.png")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(gotPath, "avatars/u1/"))
	require.True(t, strings.HasSuffix(gotPath, ".png"))
	require.Equal(t, "image/png", gotType)
	require.Equal(t, "png-bytes", gotBody)
	require.Equal(t, "https://storage.googleapis.com/bucket/"+gotPath, url)
}

func TestMirrorAvatarRejectsNonImages(t *testing.T) {
	src := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>"))
	}))
	defer src.Close()

	store := NewAvatarStore(nil, "bucket")
	store.Upload = func(context.Context, *storage.Client, string, string, string, io.Reader) (string, error) {
		t.Fatal("upload must not be called")
		return "", nil
	}
	_, err := store.MirrorAvatar(context.Background(), "u1", src.URL)
	require.ErrorContains(t, err, "unexpected content type")
}
