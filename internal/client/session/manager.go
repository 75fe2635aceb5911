// Package session owns the client-side authentication state.
//
// A Manager derives the signed-in user from the token held in a
// domain.KeyValueStore and nothing else: whatever it reports can always be
// rebuilt by calling Initialize against the same store. Malformed and expired
// tokens are discarded silently and the session falls back to unauthenticated.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/charadev96/officedesk/internal/client/domain"
	"github.com/charadev96/officedesk/internal/client/token"
	shared "github.com/charadev96/officedesk/internal/shared/domain"
)

const DefaultTokenKey = "token"

// Snapshot is a consistent view of the session handed to subscribers.
type Snapshot struct {
	State        domain.SessionState
	User         *domain.User
	Admin        bool
	Initializing bool
}

type Manager struct {
	Store  domain.KeyValueStore
	Logger *zerolog.Logger

	// TokenKey defaults to DefaultTokenKey and AdminRole to domain.RoleAdmin.
	TokenKey  string
	AdminRole string

	Decode func(raw string) (token.Claims, error)
	Now    func() time.Time

	mu           sync.RWMutex
	state        domain.SessionState
	session      *domain.Session
	initializing bool

	group     singleflight.Group
	readyInit sync.Once
	readyDone sync.Once
	ready     chan struct{}

	subMu  sync.Mutex
	subs   map[int]func(Snapshot)
	nextID int
}

// Initialize rebuilds the session from the persisted token. Concurrent calls
// share one run. Only storage failures are returned; the session is
// unauthenticated in that case.
func (m *Manager) Initialize(ctx context.Context) error {
	_, err, _ := m.group.Do("initialize", func() (any, error) {
		return nil, m.initialize(ctx)
	})
	return err
}

func (m *Manager) initialize(ctx context.Context) error {
	logger := m.logger()
	m.setInitializing()

	raw, err := m.Store.Get(ctx, m.tokenKey())
	if errors.Is(err, shared.ErrNotExist) {
		logger.Debug().Msg("no persisted token")
		m.transition(domain.StateUnauthenticated, nil)
		return nil
	}
	if err != nil {
		m.transition(domain.StateUnauthenticated, nil)
		return fmt.Errorf("failed to read persisted token: %w", err)
	}

	sess, err := m.derive(raw)
	if err != nil {
		logger.Info().
			Err(err).
			Msg("discarding persisted token")
		if err := m.Store.Delete(ctx, m.tokenKey()); err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to delete persisted token")
		}
		m.transition(domain.StateUnauthenticated, nil)
		return nil
	}

	logger.Debug().
		Str("username", sess.User.Username).
		Time("expires", sess.ExpiresAt).
		Msg("restored session")
	m.transition(domain.StateAuthenticated, sess)
	return nil
}

// SignIn adopts a freshly issued token. A token that cannot be decoded, or has
// already expired, is rejected and the previous session is left untouched.
func (m *Manager) SignIn(ctx context.Context, raw string) error {
	logger := m.logger()
	sess, err := m.derive(raw)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("rejected issued token")
		return fmt.Errorf("failed to sign in: %w", err)
	}

	if err := m.Store.Set(ctx, m.tokenKey(), raw); err != nil {
		return fmt.Errorf("failed to persist token: %w", err)
	}
	m.transition(domain.StateAuthenticated, sess)

	logger.Info().
		Str("username", sess.User.Username).
		Str("role", sess.User.Role).
		Msg("signed in")
	return nil
}

// SignOut always leaves the session unauthenticated, even when the persisted
// token could not be removed.
func (m *Manager) SignOut(ctx context.Context) error {
	err := m.Store.Delete(ctx, m.tokenKey())
	m.transition(domain.StateUnauthenticated, nil)
	if err != nil {
		m.logger().Warn().
			Err(err).
			Msg("failed to delete persisted token")
		return fmt.Errorf("failed to sign out: %w", err)
	}
	m.logger().Info().Msg("signed out")
	return nil
}

// Token returns the raw token for an outgoing request. A session that expired
// since it was established is discarded on the spot.
func (m *Manager) Token(ctx context.Context) (string, error) {
	m.mu.RLock()
	sess := m.session
	m.mu.RUnlock()

	if sess == nil {
		return "", domain.ErrUnauthenticated
	}
	if !sess.ExpiresAt.After(m.now()) {
		m.logger().Info().
			Str("username", sess.User.Username).
			Msg("session expired")
		m.discard(ctx, sess.RawToken)
		return "", fmt.Errorf("%w: %w", domain.ErrUnauthenticated, domain.ErrExpired)
	}
	return sess.RawToken, nil
}

func (m *Manager) State() domain.SessionState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

func (m *Manager) IsAuthenticated() bool {
	return m.State() == domain.StateAuthenticated
}

func (m *Manager) IsAdmin() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.isAdmin()
}

// IsInitializing is true until the session state is first known and while
// Initialize runs.
func (m *Manager) IsInitializing() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.isInitializing()
}

// CurrentUser returns nil unless the session is authenticated.
func (m *Manager) CurrentUser() *domain.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil {
		return nil
	}
	user := m.session.User
	return &user
}

func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot()
}

// Ready is closed once the session state is first known.
func (m *Manager) Ready() <-chan struct{} {
	return m.readyChan()
}

func (m *Manager) WaitReady(ctx context.Context) error {
	select {
	case <-m.Ready():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Subscribe registers fn to be called after every state change. Callbacks run
// on the goroutine that caused the change, outside of any lock.
func (m *Manager) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	if m.subs == nil {
		m.subs = make(map[int]func(Snapshot))
	}
	id := m.nextID
	m.nextID++
	m.subs[id] = fn

	return func() {
		m.subMu.Lock()
		defer m.subMu.Unlock()
		delete(m.subs, id)
	}
}

func (m *Manager) derive(raw string) (*domain.Session, error) {
	claims, err := m.decode()(raw)
	if err != nil {
		return nil, err
	}
	if claims.Expired(m.now()) {
		return nil, fmt.Errorf(
			"%w, expired at %s",
			domain.ErrExpired,
			claims.ExpiresAt.Format(time.RFC3339),
		)
	}
	return &domain.Session{
		User: domain.User{
			Username: claims.Subject,
			Role:     claims.Role,
		},
		RawToken:  raw,
		ExpiresAt: claims.ExpiresAt,
	}, nil
}

// discard drops raw if it is still the active token.
func (m *Manager) discard(ctx context.Context, raw string) {
	m.mu.RLock()
	current := m.session != nil && m.session.RawToken == raw
	m.mu.RUnlock()
	if !current {
		return
	}
	if err := m.Store.Delete(ctx, m.tokenKey()); err != nil {
		m.logger().Warn().
			Err(err).
			Msg("failed to delete persisted token")
	}
	m.transition(domain.StateUnauthenticated, nil)
}

func (m *Manager) setInitializing() {
	m.mu.Lock()
	m.initializing = true
	snap := m.snapshot()
	m.mu.Unlock()
	m.notify(snap)
}

func (m *Manager) transition(state domain.SessionState, sess *domain.Session) {
	m.mu.Lock()
	m.state = state
	m.session = sess
	m.initializing = false
	snap := m.snapshot()
	m.mu.Unlock()

	m.readyDone.Do(func() {
		close(m.readyChan())
	})
	m.notify(snap)
}

func (m *Manager) notify(snap Snapshot) {
	m.subMu.Lock()
	subs := make([]func(Snapshot), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.subMu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

func (m *Manager) snapshot() Snapshot {
	snap := Snapshot{
		State:        m.state,
		Admin:        m.isAdmin(),
		Initializing: m.isInitializing(),
	}
	if m.session != nil {
		user := m.session.User
		snap.User = &user
	}
	return snap
}

func (m *Manager) isInitializing() bool {
	return m.initializing || m.state == domain.StateUnknown
}

func (m *Manager) isAdmin() bool {
	return m.state == domain.StateAuthenticated &&
		m.session != nil &&
		m.session.User.Role == m.adminRole()
}

func (m *Manager) readyChan() chan struct{} {
	m.readyInit.Do(func() {
		m.ready = make(chan struct{})
	})
	return m.ready
}

func (m *Manager) tokenKey() string {
	if m.TokenKey == "" {
		return DefaultTokenKey
	}
	return m.TokenKey
}

func (m *Manager) adminRole() string {
	if m.AdminRole == "" {
		return domain.RoleAdmin
	}
	return m.AdminRole
}

func (m *Manager) decode() func(string) (token.Claims, error) {
	if m.Decode == nil {
		return token.Decode
	}
	return m.Decode
}

func (m *Manager) now() time.Time {
	if m.Now == nil {
		return time.Now()
	}
	return m.Now()
}

func (m *Manager) logger() *zerolog.Logger {
	if m.Logger == nil {
		nop := zerolog.Nop()
		return &nop
	}
	return m.Logger
}
