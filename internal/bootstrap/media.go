package bootstrap

import (
	"github.com/folio-works/portfolio-api/config"
	"github.com/folio-works/portfolio-api/internal/media"
	"github.com/folio-works/portfolio-api/internal/metrics"
)

// LocalMediaPath is where in-memory uploads are served when no media host is configured.
const LocalMediaPath = "/media"

// NewMediaStore returns the media store and, when no endpoint is configured,
// the in-memory backend that the router must serve under LocalMediaPath.
func NewMediaStore(cfg config.MediaConfig, m *metrics.Metrics) (*media.Store, *media.MemoryBackend, error) {
	limits := media.Limits{MaxBytes: cfg.MaxUploadBytes, MaxWidth: cfg.MaxWidth, MaxPixels: cfg.MaxPixels}

	if cfg.Endpoint == "" {
		local := media.NewMemoryBackend(LocalMediaPath)
		return media.NewStore(local, limits, m), local, nil
	}

	backend, err := media.NewMinioBackend(media.MinioConfig{
		Endpoint:  cfg.Endpoint,
		Region:    cfg.Region,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		Bucket:    cfg.Bucket,
		UseSSL:    cfg.UseSSL,
		PublicURL: cfg.PublicURL,
	})
	if err != nil {
		return nil, nil, err
	}
	return media.NewStore(backend, limits, m), nil, nil
}
