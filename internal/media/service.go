package media

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"
	"unicode"

	pkgerrors "github.com/freshstarthq/freshstart-backend/pkg/errors"
	"github.com/google/uuid"
)

// Kind describes what an uploaded image is for.
type Kind string

const (
	KindProfilePhoto Kind = "profile_photo"
	KindFundCover    Kind = "fund_cover"
	KindItemImage    Kind = "item_image"
)

func (k Kind) IsValid() bool {
	switch k {
	case KindProfilePhoto, KindFundCover, KindItemImage:
		return true
	}
	return false
}

// Uploads are images only; there is no document or video surface.
var allowedMimeTypes = map[string]struct{}{
	"image/png":  {},
	"image/jpeg": {},
	"image/webp": {},
	"image/gif":  {},
}

type gcsSigner interface {
	SignedURL(bucket, object, contentType string, expires time.Duration) (string, error)
}

// PresignInput models the payload required to request an upload URL.
type PresignInput struct {
	Kind      Kind   `json:"kind" validate:"required"`
	MimeType  string `json:"mime_type" validate:"required"`
	FileName  string `json:"file_name" validate:"required,max=255"`
	SizeBytes int64  `json:"size_bytes" validate:"required,min=1"`
}

// PresignOutput is returned to the client for a direct-to-bucket upload.
type PresignOutput struct {
	ObjectKey    string    `json:"object_key"`
	SignedPUTURL string    `json:"signed_put_url"`
	PublicURL    string    `json:"public_url"`
	ContentType  string    `json:"content_type"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Service exposes presigned upload URLs for profile and registry images.
type Service interface {
	PresignUpload(ctx context.Context, userID uuid.UUID, input PresignInput) (*PresignOutput, error)
}

type service struct {
	gcs            gcsSigner
	bucket         string
	uploadTTL      time.Duration
	maxUploadBytes int64
	now            func() time.Time
}

// NewService constructs a media service backed by the provided GCS signer.
func NewService(gcs gcsSigner, bucket string, uploadTTL time.Duration, maxUploadMB int) (Service, error) {
	if gcs == nil {
		return nil, fmt.Errorf("gcs client required")
	}
	if bucket == "" {
		return nil, fmt.Errorf("gcs bucket required")
	}
	if uploadTTL <= 0 {
		return nil, fmt.Errorf("upload ttl must be positive")
	}
	if maxUploadMB <= 0 {
		return nil, fmt.Errorf("max upload size must be positive")
	}
	return &service{
		gcs:            gcs,
		bucket:         bucket,
		uploadTTL:      uploadTTL,
		maxUploadBytes: int64(maxUploadMB) * 1024 * 1024,
		now:            time.Now,
	}, nil
}

// PresignUpload validates the request and returns a time-boxed PUT URL.
func (s *service) PresignUpload(ctx context.Context, userID uuid.UUID, input PresignInput) (*PresignOutput, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}
	if !input.Kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid media kind")
	}

	fileName := strings.TrimSpace(input.FileName)
	if fileName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file_name is required")
	}
	if input.SizeBytes <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "size_bytes must be positive")
	}
	if input.SizeBytes > s.maxUploadBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("size_bytes must be at most %d", s.maxUploadBytes))
	}

	mimeType := strings.ToLower(strings.TrimSpace(input.MimeType))
	if _, ok := allowedMimeTypes[mimeType]; !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "mime_type must be an image type")
	}

	objectKey := buildObjectKey(input.Kind, userID, fileName)
	signedURL, err := s.gcs.SignedURL(s.bucket, objectKey, mimeType, s.uploadTTL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sign upload url")
	}

	return &PresignOutput{
		ObjectKey:    objectKey,
		SignedPUTURL: signedURL,
		PublicURL:    fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, objectKey),
		ContentType:  mimeType,
		ExpiresAt:    s.now().Add(s.uploadTTL),
	}, nil
}

func buildObjectKey(kind Kind, userID uuid.UUID, fileName string) string {
	base := sanitizeFileName(path.Base(fileName))
	return fmt.Sprintf("%s/%s/%s-%s", kind, userID, uuid.NewString()[:8], base)
}

// sanitizeFileName keeps letters, digits, dots, and dashes so object keys
// stay URL safe regardless of what the browser sends.
func sanitizeFileName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	result := strings.Trim(b.String(), "._")
	if result == "" {
		return "upload"
	}
	return result
}
