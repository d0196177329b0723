package session

import (
	"context"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/viant/caseflow/client/auth/store"
	"github.com/viant/caseflow/schema"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"net/http"
	"sync"
)

// ErrNoCredential is returned when identity is requested without a credential
var ErrNoCredential = schema.ErrNoCredential

// ErrClosed is returned by operations starting an identity fetch after Close
var ErrClosed = errors.New("session manager closed")

var errEmptyIdentity = errors.New("identity endpoint returned empty identity")

type (
	// IdentityFetcher fetches identity for the given bearer token
	IdentityFetcher interface {
		Identity(ctx context.Context, token string) (*schema.Identity, error)
	}

	// IdentityFetcherFunc adapts a function to IdentityFetcher
	IdentityFetcherFunc func(ctx context.Context, token string) (*schema.Identity, error)

	// Invalidator owns data derived from the identity, purged on logout
	Invalidator interface {
		Invalidate()
	}

	// InvalidatorFunc adapts a function to Invalidator
	InvalidatorFunc func()
)

func (f IdentityFetcherFunc) Identity(ctx context.Context, token string) (*schema.Identity, error) {
	return f(ctx, token)
}

func (f InvalidatorFunc) Invalidate() { f() }

// Manager owns the in-memory session. All credential mutations go through it.
type Manager struct {
	mu           sync.RWMutex
	store        store.Store
	fetcher      IdentityFetcher
	session      session
	rejected     string
	group        singleflight.Group
	subscribers  map[string]chan Snapshot
	changed      chan struct{}
	invalidators []Invalidator
	scope        func(*http.Request) bool
	logger       *zap.Logger
	metrics      *metrics
	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	closed       bool
}

// New creates a manager seeded from the store. A persisted credential starts
// the identity fetch immediately.
func New(credentials store.Store, fetcher IdentityFetcher, options ...Option) *Manager {
	ret := &Manager{
		store:       credentials,
		fetcher:     fetcher,
		subscribers: map[string]chan Snapshot{},
		changed:     make(chan struct{}),
		logger:      zap.NewNop(),
		ctx:         context.Background(),
	}
	for _, opt := range options {
		opt(ret)
	}
	ret.ctx, ret.cancel = context.WithCancel(ret.ctx)

	ret.mu.Lock()
	defer ret.mu.Unlock()
	token, ok := credentials.Read()
	if ok && token == "" {
		ret.logger.Warn("discarding empty persisted credential")
		if err := credentials.Clear(); err != nil {
			ret.logger.Warn("failed to clear credential", zap.Error(err))
		}
		ok = false
	}
	if ok {
		ret.apply(event{kind: eventSet, token: token})
	}
	return ret
}

// User returns cached identity, it never triggers a fetch
func (m *Manager) User() *schema.Identity {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.identity.Clone()
}

// IsLoading returns true while identity of the present credential is being fetched
func (m *Manager) IsLoading() bool {
	return m.Snapshot().IsLoading
}

// State returns session state
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.state
}

// Err returns last identity fetch error
func (m *Manager) Err() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.err
}

// Token returns current credential
func (m *Manager) Token() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.token, m.session.hasToken
}

// Snapshot returns current session view
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.snapshot()
}

// SetToken persists the credential and starts identity fetch; empty token clears the session
func (m *Manager) SetToken(token string) error {
	if token == "" {
		return m.ClearToken()
	}
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	if err := m.store.Write(token); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("failed to persist credential: %w", err)
	}
	replaced := m.session.token != token
	m.apply(event{kind: eventSet, token: token})
	m.logger.Info("credential set", zap.Uint64("generation", m.session.generation))
	m.mu.Unlock()
	if replaced {
		m.purge()
	}
	return nil
}

// ClearToken removes the credential and cached identity. In-memory state is
// cleared even when the store fails.
func (m *Manager) ClearToken() error {
	m.mu.Lock()
	changed, err := m.clear(reasonExplicit)
	m.mu.Unlock()
	if changed {
		m.purge()
	}
	return err
}

// Refetch issues a new identity fetch for the current credential
func (m *Manager) Refetch() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if !m.session.hasToken {
		return ErrNoCredential
	}
	m.apply(event{kind: eventRefetch})
	return nil
}

// Logout clears the credential and always broadcasts invalidation to registered collaborators
func (m *Manager) Logout() error {
	m.mu.Lock()
	_, err := m.clear(reasonLogout)
	m.mu.Unlock()
	m.purge()
	return err
}

// Subscribe returns a channel holding the latest snapshot (the current one is
// available immediately) and a function releasing the subscription.
func (m *Manager) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)
	id := uuid.NewString()
	m.mu.Lock()
	defer m.mu.Unlock()
	ch <- m.session.snapshot()
	if m.closed {
		close(ch)
		return ch, func() {}
	}
	m.subscribers[id] = ch
	return ch, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if subscriber, ok := m.subscribers[id]; ok {
			delete(m.subscribers, id)
			close(subscriber)
		}
	}
}

// Wait blocks until the session is not loading
func (m *Manager) Wait(ctx context.Context) (Snapshot, error) {
	for {
		m.mu.RLock()
		snapshot, changed := m.session.snapshot(), m.changed
		m.mu.RUnlock()
		if !snapshot.IsLoading {
			return snapshot, nil
		}
		select {
		case <-ctx.Done():
			return snapshot, ctx.Err()
		case <-changed:
		}
	}
}

// Close cancels in-flight identity fetches, waits for them and releases subscribers
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.cancel()
	for id, subscriber := range m.subscribers {
		delete(m.subscribers, id)
		close(subscriber)
	}
	m.mu.Unlock()
	m.wg.Wait()
}

// clear must be called with m.mu held; it reports whether a credential was dropped
func (m *Manager) clear(reason string) (bool, error) {
	err := m.store.Clear()
	changed := m.session.hasToken
	if m.apply(event{kind: eventClear}) {
		m.metrics.cleared(reason)
		m.logger.Info("credential cleared", zap.String("reason", reason))
	}
	if err != nil {
		return changed, fmt.Errorf("failed to clear credential: %w", err)
	}
	return changed, nil
}

// purge runs invalidators, it must be called without m.mu held
func (m *Manager) purge() {
	for _, invalidator := range m.invalidators {
		invalidator.Invalidate()
	}
}

// invalidate clears the session if token is still the current credential
func (m *Manager) invalidate(token string) {
	m.mu.Lock()
	if !m.session.hasToken || m.session.token != token {
		m.mu.Unlock()
		m.logger.Debug("ignoring authorization failure of a non current credential")
		return
	}
	m.rejected = token
	changed, err := m.clear(reasonUnauthorized)
	m.mu.Unlock()
	if err != nil {
		m.logger.Warn("failed to clear rejected credential", zap.Error(err))
	}
	if changed {
		m.purge()
	}
}

// apply must be called with m.mu held
func (m *Manager) apply(e event) bool {
	next, ok := reduce(m.session, e)
	if !ok {
		return false
	}
	m.session = next
	if e.startsFetch() && !m.closed {
		m.fetch(next.token, next.generation)
	}
	m.broadcast()
	return true
}

// broadcast must be called with m.mu held
func (m *Manager) broadcast() {
	snapshot := m.session.snapshot()
	for _, subscriber := range m.subscribers {
		select {
		case <-subscriber:
		default:
		}
		subscriber <- snapshot
	}
	close(m.changed)
	m.changed = make(chan struct{})
}

// fetch must be called with m.mu held
func (m *Manager) fetch(token string, generation uint64) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		value, err, _ := m.group.Do(token, func() (interface{}, error) {
			return m.fetcher.Identity(m.ctx, token)
		})
		var identity *schema.Identity
		if err == nil {
			if identity, _ = value.(*schema.Identity); identity == nil {
				err = errEmptyIdentity
			}
		}
		m.complete(token, generation, identity.Clone(), err)
	}()
}

func (m *Manager) complete(token string, generation uint64, identity *schema.Identity, err error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	unauthorized := err != nil && schema.IsUnauthorized(err)
	if !m.session.current(generation) {
		// the response hook clears a rejected credential before its fetch completes
		rejected := unauthorized && m.rejected == token
		m.mu.Unlock()
		if rejected {
			m.metrics.fetched(outcomeUnauthorized)
			return
		}
		m.metrics.fetched(outcomeStale)
		m.logger.Debug("discarding stale identity fetch", zap.Uint64("generation", generation))
		return
	}
	switch {
	case err == nil:
		m.metrics.fetched(outcomeSuccess)
		m.apply(event{kind: eventFetched, generation: generation, identity: identity})
	case unauthorized:
		m.metrics.fetched(outcomeUnauthorized)
		changed, cErr := m.clear(reasonUnauthorized)
		m.mu.Unlock()
		if cErr != nil {
			m.logger.Warn("failed to clear rejected credential", zap.Error(cErr))
		}
		if changed {
			m.purge()
		}
		return
	default:
		m.metrics.fetched(outcomeFailure)
		m.logger.Warn("identity fetch failed", zap.Error(err))
		m.apply(event{kind: eventFailed, generation: generation, err: err})
	}
	m.mu.Unlock()
}
