// Package repository holds the record stores for portfolio projects and the
// resolver that picks between the primary store and the in-memory fallback.
package repository

import (
	"context"

	"github.com/folio-works/portfolio-api/internal/projects/domain"
)

// Store is the contract shared by every record store. Input is validated before
// it reaches a store, so implementations only persist.
type Store interface {
	// List returns every project, newest first.
	List(ctx context.Context) ([]domain.Project, error)
	Get(ctx context.Context, id string) (*domain.Project, error)
	// Create assigns the id and timestamps.
	Create(ctx context.Context, p domain.Project) (*domain.Project, error)
	Update(ctx context.Context, id string, patch domain.Patch) (*domain.Project, error)
	// Delete returns the removed record so its image can be released.
	Delete(ctx context.Context, id string) (*domain.Project, error)
	Ping(ctx context.Context) error
}
