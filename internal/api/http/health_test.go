package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-works/portfolio-api/internal/projects/repository"
)

type downStore struct {
	*repository.MemoryStore
}

func (downStore) Ping(context.Context) error { return errors.New("dial tcp: connection refused") }

func healthOf(t *testing.T, stores *repository.Resolver) HealthResponse {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHealthHandler("portfolio-api", "1.2.3", stores).RegisterRoutes(r)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var body HealthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func TestHealth(t *testing.T) {
	fallback := repository.NewFallbackStore()

	t.Run("no database", func(t *testing.T) {
		body := healthOf(t, repository.NewResolver(nil, fallback, nil, nil))
		assert.Equal(t, "healthy", body.Status)
		assert.Equal(t, "disabled", body.DB)
		assert.Equal(t, "fallback", body.Store)
		assert.Equal(t, "1.2.3", body.Version)
	})

	t.Run("database up", func(t *testing.T) {
		body := healthOf(t, repository.NewResolver(repository.NewMemoryStore(nil), fallback, nil, nil))
		assert.Equal(t, "up", body.DB)
		assert.Equal(t, "primary", body.Store)
	})

	t.Run("database down", func(t *testing.T) {
		body := healthOf(t, repository.NewResolver(downStore{repository.NewMemoryStore(nil)}, fallback, nil, nil))
		assert.Equal(t, "down", body.DB)
		assert.Equal(t, "fallback", body.Store)
	})
}

func TestDescriptor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewDescriptor("portfolio-api", "1.0.0", false).RegisterRoutes(r)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var body Descriptor
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "portfolio-api", body.Name)
	assert.Equal(t, "POST /api/projects", body.Endpoints["projects"]["create"])
	assert.Contains(t, body.Features, "Image uploads kept in memory")
}
