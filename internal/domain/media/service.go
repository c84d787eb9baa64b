package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"github.com/maisonbelle/salon-site/internal/domain/content"
	"github.com/maisonbelle/salon-site/internal/utils/idgen"
	"github.com/maisonbelle/salon-site/internal/utils/platformerrors"
)

type allowedType struct {
	ext       string
	mediaType content.MediaType
}

var allowedMIMEs = map[string]allowedType{
	"image/jpeg":      {"jpg", content.MediaTypeImage},
	"image/png":       {"png", content.MediaTypeImage},
	"image/webp":      {"webp", content.MediaTypeImage},
	"image/gif":       {"gif", content.MediaTypeImage},
	"video/mp4":       {"mp4", content.MediaTypeVideo},
	"video/webm":      {"webm", content.MediaTypeVideo},
	"video/quicktime": {"mov", content.MediaTypeVideo},
}

// Storage defines object storage operations.
type Storage interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	PublicURL(key string) string
}

// Asset describes a stored upload.
type Asset struct {
	Key       string            `json:"key"`
	URL       string            `json:"url"`
	MimeType  string            `json:"mime"`
	MediaType content.MediaType `json:"media_type"`
	Bytes     int64             `json:"bytes"`
	Filename  string            `json:"filename,omitempty"`
}

// Service stores images and videos for content items.
type Service struct {
	storage  Storage
	maxBytes int64
	log      zerolog.Logger
}

// NewService creates a media service writing to storage.
func NewService(storage Storage, maxBytes int64, log zerolog.Logger) *Service {
	return &Service{
		storage:  storage,
		maxBytes: maxBytes,
		log:      log.With().Str("component", "media-service").Logger(),
	}
}

// MaxBytes is the largest upload accepted.
func (s *Service) MaxBytes() int64 {
	return s.maxBytes
}

// Upload sniffs the MIME type of body, rejects anything that is not an
// accepted image or video, and stores it under content/<ulid>.<ext>.
func (s *Service) Upload(ctx context.Context, filename string, body io.Reader, actor string) (*Asset, error) {
	data, err := io.ReadAll(io.LimitReader(body, s.maxBytes+1))
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "read upload", err, "5b8d2f47-0e1a-4c63-97f5-d3a6b1e8c024")
	}
	if len(data) == 0 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "file is empty", nil, "a7e13c58-2d9f-4b06-8e41-5c0b7f2d9a63")
	}
	if int64(len(data)) > s.maxBytes {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypePayloadTooLarge,
			fmt.Sprintf("file exceeds max size of %d bytes", s.maxBytes), nil, "0f6a9d21-7e3c-4b58-a2d4-9e1c8b5f7a36")
	}

	detected := mimetype.Detect(data)
	mimeType := detected.String()
	if idx := strings.IndexByte(mimeType, ';'); idx >= 0 {
		mimeType = mimeType[:idx]
	}
	allowed, ok := allowedMIMEs[mimeType]
	if !ok {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			fmt.Sprintf("unsupported file type %s", mimeType), nil, "c3d58e92-1b4a-4f70-b6e9-2a8d0f5c7e14")
	}

	key := fmt.Sprintf("content/%s.%s", idgen.NewULID(), allowed.ext)
	if err := s.storage.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), mimeType); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "store upload")
	}

	s.log.Info().
		Str("key", key).
		Str("mime", mimeType).
		Int("bytes", len(data)).
		Str("actor", actor).
		Msg("media uploaded")

	return &Asset{
		Key:       key,
		URL:       s.storage.PublicURL(key),
		MimeType:  mimeType,
		MediaType: allowed.mediaType,
		Bytes:     int64(len(data)),
		Filename:  strings.TrimSpace(filename),
	}, nil
}
