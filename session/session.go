// Package session holds the logged-in state of a dashboard user: who they
// are, the filters they have saved and the issue they have open. Sessions
// are created on login, removed on logout and expire after a TTL.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"civicsync-dashboard/clock"
	"civicsync-dashboard/models"
	"civicsync-dashboard/query"
)

var ErrSessionNotFound = errors.New("session not found")

type Session struct {
	ID        string           `json:"id"`
	User      models.User      `json:"user"`
	CreatedAt time.Time        `json:"createdAt"`
	ExpiresAt *time.Time       `json:"expiresAt,omitempty"`
	Filters   query.FilterSpec `json:"filters"`
	Search    string           `json:"search"`
	Selection query.Selection  `json:"selection"`
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && !now.Before(*s.ExpiresAt)
}

// Store persists sessions by ID. A ttl of zero means no expiry.
//
//go:generate mockgen -source=session.go -destination=mocks/mock_store.go -package=mocks
type Store interface {
	Save(ctx context.Context, s *Session, ttl time.Duration) error
	Load(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

// Manager owns the session lifecycle on top of a Store.
type Manager struct {
	store Store
	ttl   time.Duration
	clock clock.Clock

	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	sync.Mutex
	refs int
}

func NewManager(store Store, ttl time.Duration, clk clock.Clock) *Manager {
	return &Manager{store: store, ttl: ttl, clock: clk, locks: make(map[string]*sessionLock)}
}

// Create starts a new session for user.
func (m *Manager) Create(ctx context.Context, user models.User) (*Session, error) {
	now := m.clock.Now()
	s := &Session{
		ID:        uuid.NewString(),
		User:      user,
		CreatedAt: now,
	}
	if m.ttl > 0 {
		expires := now.Add(m.ttl)
		s.ExpiresAt = &expires
	}
	if err := m.store.Save(ctx, s, m.ttl); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return s, nil
}

// Get loads a live session. Expired sessions are deleted and reported as
// ErrSessionNotFound.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	s, err := m.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.Expired(m.clock.Now()) {
		if err := m.store.Delete(ctx, id); err != nil {
			return nil, fmt.Errorf("delete expired session: %w", err)
		}
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Save writes back changes to a session, keeping its original expiry.
func (m *Manager) Save(ctx context.Context, s *Session) error {
	var ttl time.Duration
	if s.ExpiresAt != nil {
		ttl = s.ExpiresAt.Sub(m.clock.Now())
		if ttl <= 0 {
			return ErrSessionNotFound
		}
	}
	if err := m.store.Save(ctx, s, ttl); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Destroy ends a session. Destroying a missing session is not an error.
func (m *Manager) Destroy(ctx context.Context, id string) error {
	if err := m.store.Delete(ctx, id); err != nil && !errors.Is(err, ErrSessionNotFound) {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Update loads the session, applies fn and saves the result. Updates to
// the same session through one Manager run one at a time, each on the
// latest stored copy.
func (m *Manager) Update(ctx context.Context, id string, fn func(*Session) error) (*Session, error) {
	unlock := m.lock(id)
	defer unlock()

	s, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(s); err != nil {
		return nil, err
	}
	if err := m.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (m *Manager) lock(id string) func() {
	m.mu.Lock()
	l, ok := m.locks[id]
	if !ok {
		l = &sessionLock{}
		m.locks[id] = l
	}
	l.refs++
	m.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		m.mu.Lock()
		if l.refs--; l.refs == 0 {
			delete(m.locks, id)
		}
		m.mu.Unlock()
	}
}
