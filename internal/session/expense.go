package session

import (
	"context"
	"sync"
	"time"

	"github.com/spendbook/backend/internal/log"
	"github.com/spendbook/backend/internal/model"
	"github.com/spendbook/backend/internal/service"
	"github.com/spendbook/backend/internal/store"
)

// ExpenseSession caches the expenses of exactly the currently active
// profile. Changing the active profile supersedes any in-flight load for the
// previous one: a load result is applied only if the profile it was keyed to
// is still the active one when it resolves.
type ExpenseSession struct {
	mu        sync.Mutex
	svc       *service.ExpenseService
	logger    *log.Logger
	profileID string
	gen       uint64
	state     State
	expenses  []*model.Expense
	lastErr   error
}

// NewExpenseSession creates an expense session with no profile bound.
func NewExpenseSession(svc *service.ExpenseService, logger *log.Logger) *ExpenseSession {
	return &ExpenseSession{
		svc:    svc,
		logger: logger.WithComponent("expense_session"),
		state:  StateUninitialized,
	}
}

// SetProfile binds the session to a profile (or to none, with an empty ID)
// and loads its expenses in the dashboard's default order, date descending.
// A stale load — one whose profile is no longer the bound one by the time it
// resolves — is discarded without touching the cache.
func (s *ExpenseSession) SetProfile(ctx context.Context, profileID string) error {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.profileID = profileID
	if profileID == "" {
		s.expenses = nil
		s.state = StateUninitialized
		s.lastErr = nil
		s.mu.Unlock()
		return nil
	}
	s.state = StateLoading
	s.mu.Unlock()

	expenses, err := s.svc.List(ctx, store.ExpenseQuery{ProfileID: profileID})

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		// Superseded by a newer profile selection.
		return nil
	}
	if err != nil {
		s.state = StateError
		s.lastErr = err
		s.logger.Error("expense load failed", "profile_id", profileID, "error", err)
		return err
	}
	s.state = StateReady
	s.lastErr = nil
	s.expenses = expenses
	return nil
}

// Reset unbinds the session, clearing the cache and superseding any
// in-flight load.
func (s *ExpenseSession) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	s.profileID = ""
	s.expenses = nil
	s.state = StateUninitialized
	s.lastErr = nil
}

// Create persists a new expense against the bound profile and prepends it to
// the cache. The cache is untouched when the repository call fails.
func (s *ExpenseSession) Create(ctx context.Context, in model.CreateExpenseInput) (*model.Expense, error) {
	s.mu.Lock()
	profileID := s.profileID
	s.mu.Unlock()
	if profileID == "" {
		return nil, ErrNoActiveProfile
	}

	expense, err := s.svc.Create(ctx, profileID, in)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profileID == profileID {
		s.expenses = append([]*model.Expense{expense}, s.expenses...)
	}
	return expense.Clone(), nil
}

// Update merges the patch into the persisted expense and then into the
// cached entry, stamping a fresh local update time.
func (s *ExpenseSession) Update(ctx context.Context, expenseID string, patch model.ExpensePatch) error {
	if err := s.svc.Update(ctx, expenseID, patch); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.expenses {
		if e.ID == expenseID {
			patch.Apply(e)
			e.UpdatedAt = time.Now().UTC()
			break
		}
	}
	return nil
}

// Delete removes the persisted expense and drops it from the cache.
func (s *ExpenseSession) Delete(ctx context.Context, expenseID string) error {
	if err := s.svc.Delete(ctx, expenseID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	remaining := s.expenses[:0]
	for _, e := range s.expenses {
		if e.ID != expenseID {
			remaining = append(remaining, e)
		}
	}
	s.expenses = remaining
	return nil
}

// Query is a pass-through read against the repository with explicit sorting
// and date-range options. It never touches the cache.
func (s *ExpenseSession) Query(ctx context.Context, q store.ExpenseQuery) ([]*model.Expense, error) {
	s.mu.Lock()
	profileID := s.profileID
	s.mu.Unlock()
	if profileID == "" {
		return nil, ErrNoActiveProfile
	}
	q.ProfileID = profileID
	return s.svc.List(ctx, q)
}

// PaymentMethodStats aggregates the bound profile's expenses by payment
// method.
func (s *ExpenseSession) PaymentMethodStats(ctx context.Context) ([]model.PaymentMethodStat, error) {
	profileID, err := s.boundProfile()
	if err != nil {
		return nil, err
	}
	return s.svc.PaymentMethodStats(ctx, profileID)
}

// TopCategory returns the bound profile's highest-spend category, nil when it
// has no expenses.
func (s *ExpenseSession) TopCategory(ctx context.Context) (*model.CategoryStat, error) {
	profileID, err := s.boundProfile()
	if err != nil {
		return nil, err
	}
	return s.svc.TopCategory(ctx, profileID)
}

// MonthlyTotal sums the bound profile's spend over the given calendar month.
func (s *ExpenseSession) MonthlyTotal(ctx context.Context, year int, month time.Month) (float64, error) {
	profileID, err := s.boundProfile()
	if err != nil {
		return 0, err
	}
	return s.svc.MonthlyTotal(ctx, profileID, year, month)
}

// CompareMonthlyTotals compares the given month against the preceding one for
// the bound profile. Nil means the comparison is unavailable.
func (s *ExpenseSession) CompareMonthlyTotals(ctx context.Context, year int, month time.Month) (*model.MonthlyComparison, error) {
	profileID, err := s.boundProfile()
	if err != nil {
		return nil, err
	}
	return s.svc.CompareMonthlyTotals(ctx, profileID, year, month), nil
}

func (s *ExpenseSession) boundProfile() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profileID == "" {
		return "", ErrNoActiveProfile
	}
	return s.profileID, nil
}

// Expenses returns a snapshot of the cached expenses.
func (s *ExpenseSession) Expenses() []*model.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*model.Expense, len(s.expenses))
	for i, e := range s.expenses {
		out[i] = e.Clone()
	}
	return out
}

// ProfileID returns the bound profile ID, empty when none.
func (s *ExpenseSession) ProfileID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profileID
}

// State reports the load lifecycle state.
func (s *ExpenseSession) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the last load error, or nil.
func (s *ExpenseSession) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}
