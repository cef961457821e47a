package media

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dustin/go-humanize"
)

// ErrRejected matches every error caused by the uploaded file itself rather than the media host.
var ErrRejected = errors.New("media rejected")

type UnsupportedMediaError struct {
	ContentType string
}

func (e *UnsupportedMediaError) Error() string {
	if e.ContentType == "" {
		return "unsupported file type: only jpeg, png, gif and webp images are allowed"
	}
	return fmt.Sprintf("unsupported file type %q: only jpeg, png, gif and webp images are allowed", e.ContentType)
}

func (e *UnsupportedMediaError) StatusCode() int { return http.StatusBadRequest }

func (e *UnsupportedMediaError) Is(target error) bool { return target == ErrRejected }

type SizeLimitError struct {
	Size  int64
	Limit int64
}

func (e *SizeLimitError) Error() string {
	const mib = 1024 * 1024
	if e.Limit >= mib && e.Limit%mib == 0 {
		return fmt.Sprintf("file too large (max %dMB)", e.Limit/mib)
	}
	return fmt.Sprintf("file too large (max %s)", humanize.IBytes(uint64(max(e.Limit, 0))))
}

func (e *SizeLimitError) StatusCode() int { return http.StatusBadRequest }

func (e *SizeLimitError) Is(target error) bool { return target == ErrRejected }

// DimensionLimitError rejects images whose decoded size would exceed the pixel budget,
// however small the encoded file is.
type DimensionLimitError struct {
	Width     int
	Height    int
	MaxPixels int
}

func (e *DimensionLimitError) Error() string {
	return fmt.Sprintf("image too large: %dx%d pixels (max %s pixels)",
		e.Width, e.Height, humanize.Comma(int64(e.MaxPixels)))
}

func (e *DimensionLimitError) StatusCode() int { return http.StatusBadRequest }

func (e *DimensionLimitError) Is(target error) bool { return target == ErrRejected }
