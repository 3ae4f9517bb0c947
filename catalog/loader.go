package catalog

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/integrada/portal/markers"
	"github.com/integrada/portal/store"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const activeColumn = "active"

type Config struct {
	// CacheTTL bounds the lifetime of the cached catalog. Zero keeps it until the
	// next explicit reload.
	CacheTTL time.Duration `envconfig:"PORTAL_CATALOG_CACHE_TTL" default:"0"`
}

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

type Loader interface {
	// Catalog returns the cached catalog, loading it first if needed.
	Catalog(ctx context.Context) ([]TestDefinition, error)
	// Reload fetches the catalog from the store and replaces the cached one.
	Reload(ctx context.Context) ([]TestDefinition, error)
}

type loader struct {
	store      store.Store
	collection store.Collection
	ttl        time.Duration
	logger     *zap.SugaredLogger
	now        func() time.Time

	group singleflight.Group

	mu          sync.RWMutex
	definitions []TestDefinition
	loadedAt    time.Time
	loaded      bool
	issued      uint64
	applied     uint64
}

var _ Loader = &loader{}

func NewLoader(s store.Store, collections store.Collections, cfg *Config, logger *zap.SugaredLogger) Loader {
	return &loader{
		store:      s,
		collection: collections.Tests,
		ttl:        cfg.CacheTTL,
		logger:     logger,
		now:        time.Now,
	}
}

// NewLoaderWithClock is NewLoader with a custom time source.
func NewLoaderWithClock(s store.Store, collections store.Collections, cfg *Config, logger *zap.SugaredLogger, now func() time.Time) Loader {
	l := NewLoader(s, collections, cfg, logger).(*loader)
	l.now = now
	return l
}

func (l *loader) Catalog(ctx context.Context) ([]TestDefinition, error) {
	l.mu.RLock()
	if l.loaded && !l.expired() {
		defer l.mu.RUnlock()
		return slices.Clone(l.definitions), nil
	}
	l.mu.RUnlock()

	result, err, _ := l.group.Do("catalog", func() (interface{}, error) {
		return l.fetch(ctx)
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(result.([]TestDefinition)), nil
}

func (l *loader) Reload(ctx context.Context) ([]TestDefinition, error) {
	definitions, err := l.fetch(ctx)
	if err != nil {
		return nil, err
	}
	return slices.Clone(definitions), nil
}

// fetch loads the catalog and caches it unless a fetch issued later has already
// been applied.
func (l *loader) fetch(ctx context.Context) ([]TestDefinition, error) {
	l.mu.Lock()
	l.issued++
	generation := l.issued
	l.mu.Unlock()

	rows, err := l.store.Search(ctx, l.collection, store.Filter{activeColumn: markers.Affirmative})
	if err != nil {
		return nil, err
	}
	definitions := Build(rows)

	l.mu.Lock()
	defer l.mu.Unlock()
	if generation <= l.applied {
		l.logger.Debugw("discarding stale catalog", "generation", generation, "applied", l.applied)
		return l.definitions, nil
	}

	l.definitions = definitions
	l.loadedAt = l.now()
	l.loaded = true
	l.applied = generation
	l.logger.Debugw("loaded catalog", "tests", len(definitions), "dropped", len(rows)-len(definitions))
	return definitions, nil
}

func (l *loader) expired() bool {
	return l.ttl > 0 && l.now().Sub(l.loadedAt) > l.ttl
}
