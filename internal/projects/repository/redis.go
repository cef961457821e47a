package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/folio-works/portfolio-api/internal/projects/domain"
)

const (
	projectKeyPrefix = "portfolio:project:"           // JSON document: portfolio:project:{id}
	createdIndexKey  = "portfolio:projects:by_created" // sorted set of ids scored by createdAt (unix micros)
	maxUpdateRetries = 3
)

// RedisStore keeps each project as a JSON document and its ordering in a sorted set.
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisStore creates a store backed by client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

// redisProject is the stored document. domain.Project marshals with an extra
// "_id" for clients, which has no place in storage.
type redisProject struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Image         string    `json:"image"`
	ImagePublicID string    `json:"imagePublicId"`
	Category      string    `json:"category"`
	Technologies  []string  `json:"technologies"`
	GithubURL     string    `json:"githubUrl"`
	LiveURL       string    `json:"liveUrl"`
	Featured      bool      `json:"featured"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func toRedis(p domain.Project) redisProject {
	return redisProject{
		ID:            p.ID,
		Title:         p.Title,
		Description:   p.Description,
		Image:         p.Image,
		ImagePublicID: p.ImagePublicID,
		Category:      string(p.Category),
		Technologies:  p.Technologies,
		GithubURL:     p.GithubURL,
		LiveURL:       p.LiveURL,
		Featured:      p.Featured,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func (d redisProject) toDomain() domain.Project {
	return domain.Project{
		ID:            d.ID,
		Title:         d.Title,
		Description:   d.Description,
		Image:         d.Image,
		ImagePublicID: d.ImagePublicID,
		Category:      domain.Category(d.Category),
		Technologies:  d.Technologies,
		GithubURL:     d.GithubURL,
		LiveURL:       d.LiveURL,
		Featured:      d.Featured,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

func (r *RedisStore) List(ctx context.Context) ([]domain.Project, error) {
	ids, err := r.client.ZRevRange(ctx, createdIndexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list project ids: %w", err)
	}
	out := make([]domain.Project, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.projectKey(id)
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}

	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			// index entry without a document
			continue
		}
		p, err := decodeProject([]byte(raw))
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *RedisStore) Get(ctx context.Context, id string) (*domain.Project, error) {
	data, err := r.client.Get(ctx, r.projectKey(id)).Bytes()
	if err == redis.Nil {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	p, err := decodeProject(data)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *RedisStore) Create(ctx context.Context, p domain.Project) (*domain.Project, error) {
	now := r.now().UTC().Truncate(time.Microsecond)
	p = p.Clone()
	p.ID = uuid.NewString()
	p.CreatedAt = now
	p.UpdatedAt = now

	data, err := json.Marshal(toRedis(p))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal project: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.projectKey(p.ID), data, 0)
		pipe.ZAdd(ctx, createdIndexKey, redis.Z{Score: score(now), Member: p.ID})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return &p, nil
}

// Update applies the patch under WATCH so a concurrent write to the same project
// retries instead of being overwritten.
func (r *RedisStore) Update(ctx context.Context, id string, patch domain.Patch) (*domain.Project, error) {
	key := r.projectKey(id)
	var updated domain.Project

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err == redis.Nil {
			return domain.ErrNotFound
		}
		if err != nil {
			return err
		}
		p, err := decodeProject(data)
		if err != nil {
			return err
		}
		patch.Apply(&p)
		p.UpdatedAt = r.now().UTC().Truncate(time.Microsecond)

		out, err := json.Marshal(toRedis(p))
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, 0)
			return nil
		})
		if err == nil {
			updated = p
		}
		return err
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := r.client.Watch(ctx, txf, key)
		if err == nil {
			return &updated, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return nil, fmt.Errorf("failed to update project %s: too much contention", id)
}

func (r *RedisStore) Delete(ctx context.Context, id string) (*domain.Project, error) {
	p, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	pipe := r.client.TxPipeline()
	del := pipe.Del(ctx, r.projectKey(id))
	pipe.ZRem(ctx, createdIndexKey, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to delete project: %w", err)
	}
	// Someone else removed it between the read and the delete.
	if del.Val() == 0 {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisStore) projectKey(id string) string {
	return projectKeyPrefix + id
}

func score(t time.Time) float64 {
	return float64(t.UnixMicro())
}

func decodeProject(data []byte) (domain.Project, error) {
	var d redisProject
	if err := json.Unmarshal(data, &d); err != nil {
		return domain.Project{}, fmt.Errorf("failed to unmarshal project: %w", err)
	}
	return d.toDomain(), nil
}
