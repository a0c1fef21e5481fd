package session

import (
	"context"
	"sync"

	"github.com/spendbook/backend/internal/auth"
	"github.com/spendbook/backend/internal/log"
	"github.com/spendbook/backend/internal/service"
)

// Session bundles one user's state stores. Lifecycle is tied to sign-in and
// sign-out, not process start.
type Session struct {
	Claims   *auth.UserClaims
	Profiles *ProfileSession
	Expenses *ExpenseSession
}

// SyncExpenses re-binds the expense cache to the currently active profile
// (or to none). Call it after any profile mutation that may have changed the
// active selection.
func (s *Session) SyncExpenses(ctx context.Context) error {
	active := s.Profiles.Active()
	if active == nil {
		return s.Expenses.SetProfile(ctx, "")
	}
	return s.Expenses.SetProfile(ctx, active.ID)
}

// Manager owns the sessions of all signed-in users, keyed by uid.
type Manager struct {
	mu       sync.Mutex
	profiles *service.ProfileService
	expenses *service.ExpenseService
	logger   *log.Logger
	sessions map[string]*Session
}

// NewManager creates a session manager over the two repositories.
func NewManager(profiles *service.ProfileService, expenses *service.ExpenseService, logger *log.Logger) *Manager {
	return &Manager{
		profiles: profiles,
		expenses: expenses,
		logger:   logger.WithComponent("session_manager"),
		sessions: make(map[string]*Session),
	}
}

// Get returns the user's session, starting one on first sight. A failed
// initial load leaves the session in its error state with an empty cache;
// the caller reads the error from the profile session and may Refresh.
func (m *Manager) Get(ctx context.Context, claims *auth.UserClaims) *Session {
	m.mu.Lock()
	if sess, ok := m.sessions[claims.UID]; ok {
		m.mu.Unlock()
		return sess
	}
	sess := &Session{
		Claims:   claims,
		Profiles: NewProfileSession(m.profiles, m.logger),
		Expenses: NewExpenseSession(m.expenses, m.logger),
	}
	m.sessions[claims.UID] = sess
	m.mu.Unlock()

	if err := sess.Profiles.Start(ctx, claims); err != nil {
		m.logger.Warn("session started with load error", "user_id", claims.UID, "error", err)
		return sess
	}
	if err := sess.SyncExpenses(ctx); err != nil {
		m.logger.Warn("expense sync failed on session start", "user_id", claims.UID, "error", err)
	}
	return sess
}

// End tears down the user's session on sign-out.
func (m *Manager) End(uid string) {
	m.mu.Lock()
	sess, ok := m.sessions[uid]
	delete(m.sessions, uid)
	m.mu.Unlock()

	if ok {
		sess.Profiles.Reset()
		sess.Expenses.Reset()
	}
}
