package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/simplelru"
	"github.com/integrada/portal/catalog"
	"github.com/integrada/portal/patients"
	"github.com/integrada/portal/respondents"
	"github.com/integrada/portal/status"
	"github.com/integrada/portal/tokens"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Config struct {
	CacheSize  int           `envconfig:"PORTAL_SESSION_CACHE_SIZE" default:"1000"`
	Expiration time.Duration `envconfig:"PORTAL_SESSION_EXPIRATION" default:"30m"`
}

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

type cacheEntry struct {
	session   *Session
	expiresAt time.Time
}

func (c cacheEntry) isExpired(now time.Time) bool {
	return now.After(c.expiresAt)
}

// Manager boots sessions from link tokens and keeps them in memory so the
// respondent selection survives between requests.
type Manager struct {
	resolver   tokens.Resolver
	patients   patients.Repository
	catalog    catalog.Loader
	engine     *status.Engine
	classifier *respondents.Classifier
	logger     *zap.SugaredLogger
	expiration time.Duration
	now        func() time.Time

	mu  sync.Mutex
	lru *simplelru.LRU
}

type Params struct {
	fx.In

	Config     *Config
	Resolver   tokens.Resolver
	Patients   patients.Repository
	Catalog    catalog.Loader
	Engine     *status.Engine
	Classifier *respondents.Classifier
	Logger     *zap.SugaredLogger
}

func NewManager(p Params) (*Manager, error) {
	lru, err := simplelru.NewLRU(p.Config.CacheSize, nil)
	if err != nil {
		return nil, err
	}
	return &Manager{
		resolver:   p.Resolver,
		patients:   p.Patients,
		catalog:    p.Catalog,
		engine:     p.Engine,
		classifier: p.Classifier,
		logger:     p.Logger,
		expiration: p.Config.Expiration,
		now:        time.Now,
		lru:        lru,
	}, nil
}

// NewManagerWithClock is NewManager with a custom time source.
func NewManagerWithClock(p Params, now func() time.Time) (*Manager, error) {
	m, err := NewManager(p)
	if err != nil {
		return nil, err
	}
	m.now = now
	return m, nil
}

// Open runs the boot pipeline for the token: the token is resolved, the bound
// patient is fetched and the catalog is loaded, in that order. Any failure is
// returned and nothing is cached. A previously cached session for the same token
// only contributes its respondent selection.
func (m *Manager) Open(ctx context.Context, token string) (*Session, error) {
	cpf, err := m.resolver.Resolve(ctx, token)
	if err != nil {
		m.Close(token)
		return nil, err
	}

	patient, err := m.patients.Get(ctx, cpf)
	if err != nil {
		return nil, err
	}

	definitions, err := m.catalog.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	s := New(token, cpf, patient, definitions, m.engine, m.classifier)
	if previous := m.cached(token); previous != nil && previous.Cpf() == cpf {
		s.copyStateFrom(previous)
	}
	m.store(s)

	m.logger.Debugw("session opened", "cpf", patients.MaskCpf(cpf), "tests", len(definitions))
	return s, nil
}

// Get returns the cached session for the token or opens a new one.
func (m *Manager) Get(ctx context.Context, token string) (*Session, error) {
	if s := m.cached(token); s != nil {
		return s, nil
	}
	return m.Open(ctx, token)
}

// Refresh re-fetches the patient and reloads the catalog. On failure the previous
// state is kept and the fetch errors are logged and returned joined. It returns
// false without doing anything when a refresh of the same session is already in
// flight.
func (m *Manager) Refresh(ctx context.Context, s *Session) (bool, error) {
	if !s.refreshing.CompareAndSwap(false, true) {
		m.logger.Debugw("refresh already in progress", "cpf", patients.MaskCpf(s.Cpf()))
		return false, nil
	}
	defer s.refreshing.Store(false)

	var patientErr, catalogErr error
	if patient, err := m.patients.Get(ctx, s.Cpf()); err != nil {
		m.logger.Warnw("unable to refresh patient", "cpf", patients.MaskCpf(s.Cpf()), zap.Error(err))
		patientErr = err
	} else if patient != nil {
		s.setPatient(patient)
	}

	if definitions, err := m.catalog.Reload(ctx); err != nil {
		m.logger.Warnw("unable to reload catalog", zap.Error(err))
		catalogErr = err
	} else {
		s.setDefinitions(definitions)
	}

	m.touch(s)
	return true, errors.Join(patientErr, catalogErr)
}

// Close drops the session of the token.
func (m *Manager) Close(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lru.Remove(token)
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lru.Len()
}

func (m *Manager) cached(token string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.lru.Get(token)
	if !ok {
		return nil
	}
	entry := e.(cacheEntry)
	if entry.isExpired(m.now()) {
		m.lru.Remove(token)
		return nil
	}
	return entry.session
}

func (m *Manager) store(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_ = m.lru.Add(s.Token, cacheEntry{session: s, expiresAt: m.now().Add(m.expiration)})
}

func (m *Manager) touch(s *Session) {
	if m.cached(s.Token) == s {
		m.store(s)
	}
}
