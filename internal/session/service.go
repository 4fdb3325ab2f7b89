// Package session owns the client session lifecycle: the signed-in
// identity, the persisted token, and the cache boundaries around
// sign-in, sign-out and auth failures.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/psmak4/reprint-ui/internal/auth"
	"github.com/psmak4/reprint-ui/internal/shelf"
	"github.com/psmak4/reprint-ui/internal/store"
)

type Manager struct {
	store   *store.Store
	tokens  *auth.FileStore
	shelves *shelf.Service
	logger  *slog.Logger
	now     func() time.Time

	mu      sync.RWMutex
	current *auth.Identity
}

func NewManager(st *store.Store, tokens *auth.FileStore, shelves *shelf.Service, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		store:   st,
		tokens:  tokens,
		shelves: shelves,
		logger:  logger,
		now:     time.Now,
	}
}

// SignIn installs a fresh credential. The cache is cleared in full first
// so an account switch can never serve the prior user's entries, then
// the new user's shelf is warmed since their library view is imminent.
func (m *Manager) SignIn(ctx context.Context, token string) (auth.Identity, error) {
	id, err := auth.IdentityFromToken(token)
	if err != nil {
		return auth.Identity{}, err
	}
	if id.Expired(m.now()) {
		return auth.Identity{}, fmt.Errorf("token expired at %s", id.ExpiresAt.Format(time.RFC3339))
	}
	if err := m.tokens.Save(token); err != nil {
		return auth.Identity{}, err
	}

	m.store.Clear()
	m.setCurrent(&id)
	m.shelves.Warm(ctx, id.UserID)

	m.logger.Info("signed in", "user_id", id.UserID, "role", id.Role)
	return id, nil
}

// Resume restores a persisted session at startup. It reports false when
// no usable token is stored.
func (m *Manager) Resume(ctx context.Context) (auth.Identity, bool) {
	token, err := m.tokens.Load()
	if err != nil || token == "" {
		return auth.Identity{}, false
	}
	id, err := auth.IdentityFromToken(token)
	if err != nil {
		m.logger.Warn("stored token unreadable, ignoring it", "error", err)
		return auth.Identity{}, false
	}
	if id.Expired(m.now()) {
		m.logger.Info("stored token expired", "user_id", id.UserID)
		return auth.Identity{}, false
	}

	m.setCurrent(&id)
	m.shelves.Warm(ctx, id.UserID)
	return id, true
}

// SignOut drops the credential and wipes the cache whole. This is the
// one global invalidation with no key predicate.
func (m *Manager) SignOut(context.Context) error {
	if err := m.tokens.Clear(); err != nil {
		return err
	}
	m.store.Clear()
	m.setCurrent(nil)

	m.logger.Info("signed out")
	return nil
}

// HandleAuthFailure runs when any call comes back unauthenticated: the
// session is no longer trusted, so every user-scoped cache entry is
// dropped and the in-memory identity cleared. The caller surfaces the
// error to prompt a fresh sign-in.
func (m *Manager) HandleAuthFailure() {
	n := m.store.ClearUserScoped()
	m.setCurrent(nil)
	m.logger.Warn("session rejected, user-scoped cache dropped", "entries", n)
}

func (m *Manager) Identity() (auth.Identity, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return auth.Identity{}, false
	}
	return *m.current, true
}

func (m *Manager) SignedIn() bool {
	_, ok := m.Identity()
	return ok
}

func (m *Manager) setCurrent(id *auth.Identity) {
	m.mu.Lock()
	m.current = id
	m.mu.Unlock()
}
