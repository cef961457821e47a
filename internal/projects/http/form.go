package http

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/folio-works/portfolio-api/internal/media"
	"github.com/folio-works/portfolio-api/internal/projects/domain"
)

const imageField = "image"

// readForm decodes a multipart or urlencoded body into raw input plus the
// optional image file. A JSON body is accepted as well.
func (h *Handler) readForm(c *gin.Context) (domain.Input, *media.File, error) {
	req := c.Request
	req.Body = http.MaxBytesReader(c.Writer, req.Body, h.maxUploadBytes+multipartOverhead)

	mediaType, _, _ := mime.ParseMediaType(req.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		if err := req.ParseMultipartForm(multipartOverhead); err != nil {
			return nil, nil, h.bodyError(err)
		}
		in := domain.Input{}
		for key, values := range req.MultipartForm.Value {
			in[key] = values
		}
		file, err := h.readImage(req)
		if err != nil {
			return nil, nil, err
		}
		return in, file, nil

	case "application/json":
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			return nil, nil, h.bodyError(err)
		}
		return domain.InputFromJSON(body), nil, nil

	default:
		if err := req.ParseForm(); err != nil {
			return nil, nil, h.bodyError(err)
		}
		return domain.Input(req.PostForm), nil, nil
	}
}

func (h *Handler) readImage(req *http.Request) (*media.File, error) {
	f, header, err := req.FormFile(imageField)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.NewValidationError(imageField, "could not read image: "+err.Error())
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if int64(len(data)) > h.maxUploadBytes {
		return nil, &media.SizeLimitError{Size: header.Size, Limit: h.maxUploadBytes}
	}

	return &media.File{
		Name:        header.Filename,
		ContentType: strings.TrimSpace(header.Header.Get("Content-Type")),
		Data:        data,
	}, nil
}

// bodyError maps a body that could not be decoded to a client error.
func (h *Handler) bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return &media.SizeLimitError{Size: tooLarge.Limit + 1, Limit: h.maxUploadBytes}
	}
	return domain.NewValidationError("", "malformed request body: "+err.Error())
}
