package repository

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/folio-works/portfolio-api/internal/metrics"
)

// flakyStore is a memory store whose Ping can be switched off.
type flakyStore struct {
	*MemoryStore
	down  atomic.Bool
	pings atomic.Int32
}

func (s *flakyStore) Ping(ctx context.Context) error {
	s.pings.Add(1)
	if s.down.Load() {
		return errors.New("connection refused")
	}
	return nil
}

func TestResolver_SwitchesWithPrimaryHealth(t *testing.T) {
	ctx := context.Background()
	primary := &flakyStore{MemoryStore: NewMemoryStore(nil)}
	fallback := NewFallbackStore()
	core, logs := observer.New(zapcore.InfoLevel)
	m := metrics.New()
	r := NewResolver(primary, fallback, zap.New(core), m)

	store, mode := r.Resolve(ctx)
	assert.Equal(t, ModePrimary, mode)
	assert.Same(t, primary, store)

	primary.down.Store(true)
	store, mode = r.Resolve(ctx)
	assert.Equal(t, ModeFallback, mode)
	assert.Same(t, fallback, store)

	store, mode = r.Resolve(ctx)
	assert.Equal(t, ModeFallback, mode)

	primary.down.Store(false)
	store, mode = r.Resolve(ctx)
	assert.Equal(t, ModePrimary, mode)
	assert.Same(t, primary, store)

	assert.EqualValues(t, 4, primary.pings.Load(), "primary is probed on every request")

	// One warning going down, one info coming back; repeats are not logged.
	require.Equal(t, 2, logs.Len())
	assert.Equal(t, zapcore.WarnLevel, logs.All()[0].Level)
	assert.Equal(t, "primary store reachable again", logs.All()[1].Message)

	count, err := testutil.GatherAndCount(m.Registry(), "portfolio_store_selections_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "one series per store")

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rr.Body.String(), `portfolio_store_selections_total{store="primary"} 2`)
	assert.Contains(t, rr.Body.String(), `portfolio_store_selections_total{store="fallback"} 2`)
}

func TestResolver_WithoutPrimary(t *testing.T) {
	fallback := NewFallbackStore()
	r := NewResolver(nil, fallback, nil, nil)

	store, mode := r.Resolve(context.Background())
	assert.Equal(t, ModeFallback, mode)
	assert.Same(t, fallback, store)
	assert.False(t, r.HasPrimary())

	mode, err := r.Probe(context.Background())
	assert.Equal(t, ModeFallback, mode)
	assert.NoError(t, err)
}

func TestResolver_ProbeReportsPingError(t *testing.T) {
	primary := &flakyStore{MemoryStore: NewMemoryStore(nil)}
	primary.down.Store(true)
	r := NewResolver(primary, NewFallbackStore(), nil, nil)

	mode, err := r.Probe(context.Background())
	assert.Equal(t, ModeFallback, mode)
	assert.EqualError(t, err, "connection refused")
}
