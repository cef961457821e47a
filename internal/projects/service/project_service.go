package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/folio-works/portfolio-api/internal/media"
	"github.com/folio-works/portfolio-api/internal/projects/domain"
	"github.com/folio-works/portfolio-api/internal/projects/repository"
)

// MediaStore is the part of media.Store the service needs.
type MediaStore interface {
	Upload(ctx context.Context, f media.File) (media.Asset, error)
	Release(ctx context.Context, referenceID string) media.ReleaseResult
}

// ProjectService runs project operations against whichever store the resolver
// picks for the request, and keeps uploaded images in step with the records.
type ProjectService struct {
	stores *repository.Resolver
	media  MediaStore
	logger *zap.Logger
}

// NewProjectService creates a project service. With a nil media store, image
// files are refused and deletions leave assets alone.
func NewProjectService(stores *repository.Resolver, mediaStore MediaStore, logger *zap.Logger) *ProjectService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProjectService{
		stores: stores,
		media:  mediaStore,
		logger: logger,
	}
}

func (s *ProjectService) List(ctx context.Context) ([]domain.Project, error) {
	store, _ := s.stores.Resolve(ctx)
	return store.List(ctx)
}

func (s *ProjectService) Get(ctx context.Context, id string) (*domain.Project, error) {
	store, _ := s.stores.Resolve(ctx)
	return store.Get(ctx, id)
}

// Create validates the input, uploads the image if one was sent and stores the
// record. The upload is released again if the record cannot be stored.
func (s *ProjectService) Create(ctx context.Context, in domain.Input, file *media.File) (*domain.Project, error) {
	p, err := domain.ParseCreate(in)
	if err != nil {
		return nil, err
	}

	var asset media.Asset
	if file != nil {
		if asset, err = s.upload(ctx, *file); err != nil {
			return nil, err
		}
		p.Image = asset.URL
		p.ImagePublicID = asset.ReferenceID
	}

	store, mode := s.stores.Resolve(ctx)
	created, err := store.Create(ctx, p)
	if err != nil {
		s.release(ctx, asset.ReferenceID)
		return nil, fmt.Errorf("create project: %w", err)
	}

	s.logger.Info("project created", zap.String("id", created.ID), zap.String("store", string(mode)))
	return created, nil
}

// Update applies a partial update. A missing project is reported before any
// upload happens; a new image replaces the old one, which is then released.
func (s *ProjectService) Update(ctx context.Context, id string, in domain.Input, file *media.File) (*domain.Project, error) {
	patch, err := domain.ParsePatch(in)
	if err != nil {
		return nil, err
	}

	store, mode := s.stores.Resolve(ctx)
	existing, err := store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var asset media.Asset
	if file != nil {
		if asset, err = s.upload(ctx, *file); err != nil {
			return nil, err
		}
		patch = patch.WithImage(asset.URL, asset.ReferenceID)
	}

	updated, err := store.Update(ctx, id, patch)
	if err != nil {
		s.release(ctx, asset.ReferenceID)
		return nil, err
	}

	if asset.ReferenceID != "" && existing.ImagePublicID != "" {
		s.release(ctx, existing.ImagePublicID)
	}

	s.logger.Info("project updated", zap.String("id", id), zap.String("store", string(mode)))
	return updated, nil
}

// Delete removes the project and then its image. Losing the image is logged, not returned.
func (s *ProjectService) Delete(ctx context.Context, id string) (*domain.Project, error) {
	store, mode := s.stores.Resolve(ctx)
	removed, err := store.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	s.release(ctx, removed.ImagePublicID)
	s.logger.Info("project deleted", zap.String("id", id), zap.String("store", string(mode)))
	return removed, nil
}

func (s *ProjectService) upload(ctx context.Context, f media.File) (media.Asset, error) {
	if s.media == nil {
		return media.Asset{}, domain.NewValidationError("image", "image uploads are not accepted here")
	}
	return s.media.Upload(ctx, f)
}

func (s *ProjectService) release(ctx context.Context, referenceID string) {
	if s.media == nil || referenceID == "" {
		return
	}
	s.media.Release(ctx, referenceID).Discard(s.logger)
}
