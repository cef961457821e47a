package media

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

const jpegQuality = 85

// limitWidth scales JPEG and PNG images down to limits.MaxWidth, keeping the aspect ratio.
// Images above limits.MaxPixels are rejected before they are decoded.
// GIF (possibly animated) and WebP (no encoder available) are stored unchanged.
func limitWidth(data []byte, contentType string, limits Limits) ([]byte, error) {
	if contentType != "image/jpeg" && contentType != "image/png" {
		return data, nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, &UnsupportedMediaError{ContentType: contentType}
	}
	if int64(cfg.Width)*int64(cfg.Height) > int64(limits.MaxPixels) {
		return nil, &DimensionLimitError{Width: cfg.Width, Height: cfg.Height, MaxPixels: limits.MaxPixels}
	}
	maxWidth := limits.MaxWidth
	if cfg.Width <= maxWidth {
		return data, nil
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &UnsupportedMediaError{ContentType: contentType}
	}

	height := cfg.Height * maxWidth / cfg.Width
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	var buf bytes.Buffer
	switch contentType {
	case "image/jpeg":
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality})
	default:
		err = png.Encode(&buf, dst)
	}
	if err != nil {
		return nil, fmt.Errorf("encode resized image: %w", err)
	}
	return buf.Bytes(), nil
}
