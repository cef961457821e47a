package repository

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/folio-works/portfolio-api/internal/metrics"
)

// Mode tells whether requests are served by the primary database or the in-memory fallback.
type Mode string

const (
	ModePrimary  Mode = "primary"
	ModeFallback Mode = "fallback"

	DefaultProbeTimeout = time.Second
)

// Resolver picks the store for a request. The primary is probed on every call,
// so a database that comes back is used again without a restart.
type Resolver struct {
	primary      Store
	fallback     Store
	probeTimeout time.Duration
	logger       *zap.Logger
	metrics      *metrics.Metrics

	mu       sync.Mutex
	lastMode Mode
}

// NewResolver builds a resolver. primary may be nil when no database is configured,
// in which case every request is served by the fallback.
func NewResolver(primary, fallback Store, logger *zap.Logger, m *metrics.Metrics) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		primary:      primary,
		fallback:     fallback,
		probeTimeout: DefaultProbeTimeout,
		logger:       logger,
		metrics:      m,
	}
}

// Resolve returns the primary store when it answers a ping, otherwise the fallback.
func (r *Resolver) Resolve(ctx context.Context) (Store, Mode) {
	mode, _ := r.Probe(ctx)
	r.metrics.ObserveStore(string(mode))
	if mode == ModePrimary {
		return r.primary, mode
	}
	return r.fallback, mode
}

// Probe reports which store would serve a request right now and the primary's
// ping error, if any. It does not count as a selection.
func (r *Resolver) Probe(ctx context.Context) (Mode, error) {
	if r.primary == nil {
		r.noteMode(ModeFallback, nil)
		return ModeFallback, nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, r.probeTimeout)
	defer cancel()
	err := r.primary.Ping(pingCtx)

	mode := ModePrimary
	if err != nil {
		mode = ModeFallback
	}
	r.noteMode(mode, err)
	return mode, err
}

func (r *Resolver) HasPrimary() bool {
	return r.primary != nil
}

func (r *Resolver) noteMode(mode Mode, err error) {
	r.mu.Lock()
	prev := r.lastMode
	r.lastMode = mode
	r.mu.Unlock()

	if prev == mode {
		return
	}
	switch {
	case mode == ModeFallback && r.primary != nil:
		r.logger.Warn("primary store unreachable, serving fallback data", zap.Error(err))
	case mode == ModeFallback:
		r.logger.Info("no primary store configured, serving fallback data")
	case prev != "":
		r.logger.Info("primary store reachable again")
	}
}
