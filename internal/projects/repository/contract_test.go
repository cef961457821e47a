package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-works/portfolio-api/internal/projects/domain"
)

type storeFactory func(t *testing.T, now func() time.Time) Store

// stepClock advances one second per reading so creation order is unambiguous.
func stepClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

func strPtr(s string) *string { return &s }

func sampleProject(title string) domain.Project {
	return domain.Project{
		Title:        title,
		Description:  title + " description",
		Image:        domain.DefaultImageURL,
		Category:     domain.CategoryBackend,
		Technologies: []string{"Go", "Postgres"},
		GithubURL:    "https://github.com/example/" + title,
	}
}

// testStoreContract checks the behaviour every Store implementation shares.
// The factory must return an empty store.
func testStoreContract(t *testing.T, newStore storeFactory) {
	ctx := context.Background()

	t.Run("create assigns id and timestamps", func(t *testing.T) {
		s := newStore(t, stepClock())
		p, err := s.Create(ctx, sampleProject("A"))
		require.NoError(t, err)

		assert.NotEmpty(t, p.ID)
		assert.False(t, p.CreatedAt.IsZero())
		assert.Equal(t, p.CreatedAt, p.UpdatedAt)
		assert.Equal(t, []string{"Go", "Postgres"}, p.Technologies)

		got, err := s.Get(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, p.Title, got.Title)
		assert.Equal(t, domain.CategoryBackend, got.Category)
		assert.True(t, p.CreatedAt.Equal(got.CreatedAt))
	})

	t.Run("list is newest first", func(t *testing.T) {
		s := newStore(t, stepClock())
		a, err := s.Create(ctx, sampleProject("A"))
		require.NoError(t, err)
		b, err := s.Create(ctx, sampleProject("B"))
		require.NoError(t, err)

		list, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, b.ID, list[0].ID)
		assert.Equal(t, a.ID, list[1].ID)
	})

	t.Run("update applies only set fields", func(t *testing.T) {
		s := newStore(t, stepClock())
		p, err := s.Create(ctx, sampleProject("A"))
		require.NoError(t, err)

		updated, err := s.Update(ctx, p.ID, domain.Patch{Title: strPtr("A2")})
		require.NoError(t, err)
		assert.Equal(t, "A2", updated.Title)
		assert.Equal(t, p.Description, updated.Description)
		assert.Equal(t, p.Technologies, updated.Technologies)
		assert.True(t, updated.UpdatedAt.After(p.UpdatedAt))
		assert.True(t, updated.CreatedAt.Equal(p.CreatedAt))

		got, err := s.Get(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "A2", got.Title)
	})

	t.Run("update can clear technologies", func(t *testing.T) {
		s := newStore(t, stepClock())
		p, err := s.Create(ctx, sampleProject("A"))
		require.NoError(t, err)

		empty := []string{}
		updated, err := s.Update(ctx, p.ID, domain.Patch{Technologies: &empty})
		require.NoError(t, err)
		assert.Empty(t, updated.Technologies)
	})

	t.Run("missing id is not found", func(t *testing.T) {
		s := newStore(t, stepClock())

		_, err := s.Get(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		_, err = s.Update(ctx, "missing", domain.Patch{Title: strPtr("x")})
		assert.ErrorIs(t, err, domain.ErrNotFound)
		_, err = s.Delete(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("delete returns the record once", func(t *testing.T) {
		s := newStore(t, stepClock())
		p, err := s.Create(ctx, sampleProject("A"))
		require.NoError(t, err)

		removed, err := s.Delete(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, p.ID, removed.ID)
		assert.Equal(t, "A", removed.Title)

		_, err = s.Delete(ctx, p.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		_, err = s.Get(ctx, p.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)

		list, err := s.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, newStore(t, stepClock()).Ping(ctx))
	})
}
