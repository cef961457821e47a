package repository

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/folio-works/portfolio-api/internal/projects/domain"
)

// MemoryStore keeps projects in process memory. Data does not survive a restart.
type MemoryStore struct {
	mu       sync.RWMutex
	projects []domain.Project
	lastID   int
	now      func() time.Time
}

// NewMemoryStore returns a store holding the given projects. The id counter
// starts at the number of seeds, so the first created project gets len(seed)+1.
func NewMemoryStore(seed []domain.Project) *MemoryStore {
	s := &MemoryStore{
		projects: make([]domain.Project, 0, len(seed)),
		lastID:   len(seed),
		now:      time.Now,
	}
	for _, p := range seed {
		s.projects = append(s.projects, p.Clone())
	}
	return s
}

// NewFallbackStore returns the store served while the primary database is unreachable.
func NewFallbackStore() *MemoryStore {
	return NewMemoryStore(SeedProjects(time.Now()))
}

// SeedProjects is the sample dataset shown when no database is available.
func SeedProjects(now time.Time) []domain.Project {
	first := now.Add(-time.Minute).UTC()
	second := now.Add(-2 * time.Minute).UTC()
	return []domain.Project{
		{
			ID:           "1",
			Title:        "Portfolio React",
			Description:  "Portfolio moderne développé avec React et Node.js",
			Image:        "https://images.unsplash.com/photo-1551650975-87deedd944c3?ixlib=rb-4.0.3&auto=format&fit=crop&w=1000&q=80",
			Category:     domain.CategoryFrontend,
			Technologies: []string{"React", "Bootstrap", "CSS3"},
			Featured:     true,
			CreatedAt:    first,
			UpdatedAt:    first,
		},
		{
			ID:           "2",
			Title:        "API REST",
			Description:  "API RESTful avec authentification JWT",
			Image:        "https://images.unsplash.com/photo-1558494949-ef010cbdcc31?ixlib=rb-4.0.3&auto=format&fit=crop&w=1000&q=80",
			Category:     domain.CategoryBackend,
			Technologies: []string{"Node.js", "Express", "MongoDB"},
			Featured:     false,
			CreatedAt:    second,
			UpdatedAt:    second,
		},
	}
}

func (s *MemoryStore) List(_ context.Context) ([]domain.Project, error) {
	s.mu.RLock()
	out := make([]domain.Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, p.Clone())
	}
	s.mu.RUnlock()

	// Reverse first so equal timestamps list the later insert first.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return nil, domain.ErrNotFound
	}
	p := s.projects[i].Clone()
	return &p, nil
}

func (s *MemoryStore) Create(_ context.Context, p domain.Project) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastID++
	now := s.now().UTC()
	p = p.Clone()
	p.ID = strconv.Itoa(s.lastID)
	p.CreatedAt = now
	p.UpdatedAt = now
	s.projects = append(s.projects, p)

	out := p.Clone()
	return &out, nil
}

func (s *MemoryStore) Update(_ context.Context, id string, patch domain.Patch) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, domain.ErrNotFound
	}
	p := s.projects[i].Clone()
	patch.Apply(&p)
	p.UpdatedAt = s.now().UTC()
	s.projects[i] = p

	out := p.Clone()
	return &out, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, domain.ErrNotFound
	}
	removed := s.projects[i]
	s.projects = append(s.projects[:i], s.projects[i+1:]...)
	return &removed, nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

// indexOf must be called with s.mu held.
func (s *MemoryStore) indexOf(id string) int {
	for i := range s.projects {
		if s.projects[i].ID == id {
			return i
		}
	}
	return -1
}
