package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/folio-works/portfolio-api/internal/projects/domain"
)

const projectColumns = `id, title, description, image, image_public_id, category, technologies,
github_url, live_url, featured, created_at, updated_at`

// PostgresStore persists projects in the projects table.
type PostgresStore struct {
	pool        *pgxpool.Pool
	now         func() time.Time
	schemaReady atomic.Bool
}

// NewPostgresStore creates a store over pool. The table is created on the first successful Ping.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool, now: time.Now}
}

// EnsureSchema creates the projects table and its ordering index if they are missing.
func (r *PostgresStore) EnsureSchema(ctx context.Context) error {
	const table = `
CREATE TABLE IF NOT EXISTS projects (
    id              TEXT PRIMARY KEY,
    title           TEXT NOT NULL,
    description     TEXT NOT NULL,
    image           TEXT NOT NULL DEFAULT '',
    image_public_id TEXT NOT NULL DEFAULT '',
    category        TEXT NOT NULL,
    technologies    TEXT[] NOT NULL DEFAULT '{}',
    github_url      TEXT NOT NULL DEFAULT '',
    live_url        TEXT NOT NULL DEFAULT '',
    featured        BOOLEAN NOT NULL DEFAULT FALSE,
    created_at      TIMESTAMPTZ NOT NULL,
    updated_at      TIMESTAMPTZ NOT NULL
);`
	const index = `CREATE INDEX IF NOT EXISTS projects_created_at_idx ON projects (created_at DESC);`

	if _, err := r.pool.Exec(ctx, table); err != nil {
		return fmt.Errorf("create projects table: %w", err)
	}
	if _, err := r.pool.Exec(ctx, index); err != nil {
		return fmt.Errorf("create projects index: %w", err)
	}
	r.schemaReady.Store(true)
	return nil
}

func (r *PostgresStore) List(ctx context.Context) ([]domain.Project, error) {
	q := `SELECT ` + projectColumns + ` FROM projects ORDER BY created_at DESC, id DESC;`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresStore) Get(ctx context.Context, id string) (*domain.Project, error) {
	q := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1;`
	return notFound(scanProject(r.pool.QueryRow(ctx, q, id)))
}

func (r *PostgresStore) Create(ctx context.Context, p domain.Project) (*domain.Project, error) {
	now := r.timestamp()
	q := `
INSERT INTO projects (` + projectColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
RETURNING ` + projectColumns + `;`

	out, err := scanProject(r.pool.QueryRow(ctx, q,
		uuid.NewString(), p.Title, p.Description, p.Image, p.ImagePublicID, string(p.Category),
		technologiesOrEmpty(p.Technologies), p.GithubURL, p.LiveURL, p.Featured, now,
	))
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return out, nil
}

// Update writes only the columns set in the patch.
func (r *PostgresStore) Update(ctx context.Context, id string, patch domain.Patch) (*domain.Project, error) {
	sets := make([]string, 0, 10)
	args := make([]any, 0, 11)
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title != nil {
		set("title", *patch.Title)
	}
	if patch.Description != nil {
		set("description", *patch.Description)
	}
	if patch.Image != nil {
		set("image", *patch.Image)
	}
	if patch.ImagePublicID != nil {
		set("image_public_id", *patch.ImagePublicID)
	}
	if patch.Category != nil {
		set("category", string(*patch.Category))
	}
	if patch.Technologies != nil {
		set("technologies", technologiesOrEmpty(*patch.Technologies))
	}
	if patch.GithubURL != nil {
		set("github_url", *patch.GithubURL)
	}
	if patch.LiveURL != nil {
		set("live_url", *patch.LiveURL)
	}
	if patch.Featured != nil {
		set("featured", *patch.Featured)
	}
	set("updated_at", r.timestamp())

	args = append(args, id)
	q := fmt.Sprintf(`UPDATE projects SET %s WHERE id = $%d RETURNING %s;`,
		strings.Join(sets, ", "), len(args), projectColumns)

	return notFound(scanProject(r.pool.QueryRow(ctx, q, args...)))
}

func (r *PostgresStore) Delete(ctx context.Context, id string) (*domain.Project, error) {
	q := `DELETE FROM projects WHERE id = $1 RETURNING ` + projectColumns + `;`
	return notFound(scanProject(r.pool.QueryRow(ctx, q, id)))
}

// Ping reports whether the store can serve requests. The schema is created on
// the first successful ping, so a database that was down at startup is usable
// once it comes up.
func (r *PostgresStore) Ping(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return err
	}
	if r.schemaReady.Load() {
		return nil
	}
	return r.EnsureSchema(ctx)
}

// timestamp matches the microsecond precision postgres stores.
func (r *PostgresStore) timestamp() time.Time {
	return r.now().UTC().Truncate(time.Microsecond)
}

func scanProject(row pgx.Row) (*domain.Project, error) {
	var (
		p        domain.Project
		category string
	)
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.Image, &p.ImagePublicID, &category, &p.Technologies,
		&p.GithubURL, &p.LiveURL, &p.Featured, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Category = domain.Category(category)
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return &p, nil
}

func notFound(p *domain.Project, err error) (*domain.Project, error) {
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return p, err
}

func technologiesOrEmpty(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
