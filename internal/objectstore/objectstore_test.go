package objectstore

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewS3StoreRequiresSettings(t *testing.T) {
	ctx := context.Background()

	_, err := NewS3Store(ctx, Options{AccessKey: "a", SecretKey: "b", Bucket: "c"})
	assert.Error(t, err)

	_, err = NewS3Store(ctx, Options{Endpoint: "localhost:9000", Bucket: "c"})
	assert.Error(t, err)

	_, err = NewS3Store(ctx, Options{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b"})
	assert.Error(t, err)
}

func TestPresignUpload(t *testing.T) {
	store, err := NewS3Store(context.Background(), Options{
		Endpoint:       "http://localhost:9000",
		AccessKey:      "minio",
		SecretKey:      "minio-secret",
		Region:         "us-east-1",
		Bucket:         "nurture-uploads",
		ForcePathStyle: true,
		TTL:            10 * time.Minute,
	})
	require.NoError(t, err)
	fixed := time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return fixed }

	up, err := store.PresignUpload(context.Background(), "user-1", "Scan Photo.JPG", "image/jpeg")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(up.ObjectPath, "uploads/user-1/2025/03/"))
	assert.True(t, strings.HasSuffix(up.ObjectPath, ".jpg"))
	assert.Equal(t, fixed.Add(10*time.Minute), up.ExpiresAt)

	u, err := url.Parse(up.URL)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", u.Host)
	assert.Equal(t, "/nurture-uploads/"+up.ObjectPath, u.Path)
	assert.Equal(t, "600", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
}

func TestObjectKeysAreUnique(t *testing.T) {
	now := time.Now()
	a, err := ObjectKey("u", "a.png", now)
	require.NoError(t, err)
	b, err := ObjectKey("u", "a.png", now)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestExtension(t *testing.T) {
	cases := map[string]string{
		"photo.PNG":          ".png",
		"archive.tar.gz":     ".gz",
		"noext":              "",
		"weird.p$g":          "",
		"..\\..\\evil.heic":  ".heic",
		"long.abcdefghijklm": "",
	}
	for in, want := range cases {
		assert.Equal(t, want, extension(in), in)
	}
}
