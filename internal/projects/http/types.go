package http

import (
	"github.com/folio-works/portfolio-api/internal/media"
	"github.com/folio-works/portfolio-api/internal/projects/service"
)

// multipartOverhead is the room left for form fields on top of the image limit.
const multipartOverhead = 1 << 20

// Handler bundles the dependencies for the /api/projects endpoints.
type Handler struct {
	svc            *service.ProjectService
	maxUploadBytes int64
}

// New creates the handler for the /api/projects routes.
func New(svc *service.ProjectService, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = media.DefaultMaxBytes
	}
	return &Handler{svc: svc, maxUploadBytes: maxUploadBytes}
}

// LegacyHandler serves the deprecated /projects mount, which takes JSON bodies
// and never uploads images.
type LegacyHandler struct {
	svc *service.ProjectService
}

// NewLegacy creates the handler for the JSON-only /projects routes.
func NewLegacy(svc *service.ProjectService) *LegacyHandler {
	return &LegacyHandler{svc: svc}
}
