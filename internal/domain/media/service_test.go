package media

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maisonbelle/salon-site/internal/domain/content"
	"github.com/maisonbelle/salon-site/internal/utils/platformerrors"
)

type MockStorage struct {
	UploadFunc func(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	objects    map[string][]byte
}

func (m *MockStorage) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, key, body, size, contentType)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	if m.objects == nil {
		m.objects = map[string][]byte{}
	}
	m.objects[key] = data
	return nil
}

func (m *MockStorage) PublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

var pngBytes = []byte{
	0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A,
	0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1F, 0x15, 0xC4, 0x89,
}

func TestUploadStoresImage(t *testing.T) {
	storage := &MockStorage{}
	svc := NewService(storage, 1<<20, zerolog.Nop())

	asset, err := svc.Upload(context.Background(), "pixel.png", bytes.NewReader(pngBytes), "owner@salon.test")
	require.NoError(t, err)

	assert.Equal(t, "image/png", asset.MimeType)
	assert.Equal(t, content.MediaTypeImage, asset.MediaType)
	assert.True(t, strings.HasPrefix(asset.Key, "content/"))
	assert.True(t, strings.HasSuffix(asset.Key, ".png"))
	assert.Equal(t, "https://cdn.example.com/"+asset.Key, asset.URL)
	assert.Equal(t, int64(len(pngBytes)), asset.Bytes)
	assert.Equal(t, pngBytes, storage.objects[asset.Key])
}

func TestUploadRejectsUnsupportedTypes(t *testing.T) {
	svc := NewService(&MockStorage{}, 1<<20, zerolog.Nop())

	_, err := svc.Upload(context.Background(), "notes.txt", strings.NewReader("just some text"), "owner@salon.test")
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
	assert.Contains(t, err.Error(), "unsupported file type text/plain")
}

func TestUploadLimits(t *testing.T) {
	svc := NewService(&MockStorage{}, 16, zerolog.Nop())

	_, err := svc.Upload(context.Background(), "pixel.png", bytes.NewReader(pngBytes), "owner@salon.test")
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypePayloadTooLarge))

	_, err = svc.Upload(context.Background(), "empty.png", bytes.NewReader(nil), "owner@salon.test")
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
}

func TestUploadStorageFailure(t *testing.T) {
	storage := &MockStorage{UploadFunc: func(context.Context, string, io.Reader, int64, string) error {
		return errors.New("bucket unavailable")
	}}
	svc := NewService(storage, 1<<20, zerolog.Nop())

	_, err := svc.Upload(context.Background(), "pixel.png", bytes.NewReader(pngBytes), "owner@salon.test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket unavailable")
}
