// Package media offloads project images to an object store and releases them again.
package media

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/folio-works/portfolio-api/internal/metrics"
)

const (
	DefaultMaxBytes  = 5 * 1024 * 1024
	DefaultMaxWidth  = 1000
	DefaultMaxPixels = 40_000_000

	keyPrefix = "portfolio-projects"
)

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Backend is the raw object host. Keys are opaque to it.
type Backend interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (url string, err error)
	Remove(ctx context.Context, key string) error
}

// File is an upload as received from a client.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Asset is a stored image: a durable URL plus the reference used to delete it.
type Asset struct {
	URL         string
	ReferenceID string
}

// Limits bounds what an upload may be. MaxBytes applies to the encoded file,
// MaxPixels to the decoded width times height.
type Limits struct {
	MaxBytes  int64
	MaxWidth  int
	MaxPixels int
}

// Store validates and transforms uploads before handing them to a Backend.
type Store struct {
	backend Backend
	limits  Limits
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewStore creates a media store over backend. Zero limits take the defaults.
func NewStore(backend Backend, limits Limits, m *metrics.Metrics) *Store {
	if limits.MaxBytes <= 0 {
		limits.MaxBytes = DefaultMaxBytes
	}
	if limits.MaxWidth <= 0 {
		limits.MaxWidth = DefaultMaxWidth
	}
	if limits.MaxPixels <= 0 {
		limits.MaxPixels = DefaultMaxPixels
	}
	return &Store{
		backend: backend,
		limits:  limits,
		metrics: m,
		now:     time.Now,
	}
}

// Limits returns the effective limits after defaults were applied.
func (s *Store) Limits() Limits {
	return s.limits
}

// Upload rejects files that are too large or not an allowed image type before any
// network call, downsizes wide images and stores the result.
func (s *Store) Upload(ctx context.Context, f File) (Asset, error) {
	size := int64(len(f.Data))
	if size > s.limits.MaxBytes {
		return Asset{}, &SizeLimitError{Size: size, Limit: s.limits.MaxBytes}
	}
	if size == 0 {
		return Asset{}, &UnsupportedMediaError{}
	}

	contentType := resolveContentType(f.ContentType, f.Data)
	ext, ok := allowedTypes[contentType]
	if !ok {
		return Asset{}, &UnsupportedMediaError{ContentType: contentType}
	}

	data, err := limitWidth(f.Data, contentType, s.limits)
	if err != nil {
		return Asset{}, err
	}

	key := fmt.Sprintf("%s/project-%d-%s%s", keyPrefix, s.now().UnixMilli(), uuid.NewString(), ext)
	url, err := s.backend.Put(ctx, key, data, contentType)
	s.metrics.ObserveMedia("upload", err)
	if err != nil {
		return Asset{}, fmt.Errorf("upload image: %w", err)
	}

	return Asset{URL: url, ReferenceID: key}, nil
}

func (s *Store) Delete(ctx context.Context, referenceID string) error {
	err := s.backend.Remove(ctx, referenceID)
	s.metrics.ObserveMedia("delete", err)
	if err != nil {
		return fmt.Errorf("delete image %s: %w", referenceID, err)
	}
	return nil
}

// ReleaseResult is the outcome of a best-effort asset deletion.
type ReleaseResult struct {
	ReferenceID string
	Err         error
}

func (r ReleaseResult) OK() bool { return r.Err == nil }

// Discard logs a failed release and drops it; a release never fails the request that caused it.
func (r ReleaseResult) Discard(logger *zap.Logger) {
	if r.Err == nil {
		return
	}
	logger.Warn("could not release image, leaving it orphaned",
		zap.String("reference_id", r.ReferenceID),
		zap.Error(r.Err),
	)
}

// Release deletes the asset if there is one. An empty reference is a no-op.
func (s *Store) Release(ctx context.Context, referenceID string) ReleaseResult {
	if strings.TrimSpace(referenceID) == "" {
		return ReleaseResult{}
	}
	return ReleaseResult{ReferenceID: referenceID, Err: s.Delete(ctx, referenceID)}
}

// resolveContentType trusts the declared type unless it is missing or generic,
// in which case the bytes are sniffed.
func resolveContentType(declared string, data []byte) string {
	ct := normalizeType(declared)
	if ct == "" || ct == "application/octet-stream" {
		ct = normalizeType(mimetype.Detect(data).String())
	}
	if ct == "image/jpg" || ct == "image/pjpeg" {
		ct = "image/jpeg"
	}
	return ct
}

func normalizeType(raw string) string {
	ct, _, _ := strings.Cut(raw, ";")
	return strings.ToLower(strings.TrimSpace(ct))
}
