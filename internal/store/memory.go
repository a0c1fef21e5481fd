package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spendbook/backend/internal/model"
)

// MemoryStore implements the Store interface with in-memory maps. It backs
// local development and tests, mirroring FirestoreStore behavior including
// timestamp stamping on write.
type MemoryStore struct {
	mu sync.RWMutex

	profiles map[string]*model.Profile
	expenses map[string]*model.Expense
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles: make(map[string]*model.Profile),
		expenses: make(map[string]*model.Expense),
	}
}

func (m *MemoryStore) CreateProfile(ctx context.Context, profile *model.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if profile.ID == "" {
		profile.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	stored := profile.Clone()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	m.profiles[stored.ID] = stored

	profile.CreatedAt = now
	profile.UpdatedAt = now
	return nil
}

func (m *MemoryStore) GetProfile(ctx context.Context, profileID string) (*model.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	profile, ok := m.profiles[profileID]
	if !ok {
		return nil, fmt.Errorf("get profile %s: %w", profileID, ErrNotFound)
	}
	return profile.Clone(), nil
}

func (m *MemoryStore) ListProfilesByUser(ctx context.Context, userID string) ([]*model.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var profiles []*model.Profile
	for _, profile := range m.profiles {
		if profile.UserID == userID {
			profiles = append(profiles, profile.Clone())
		}
	}
	// Creation order stands in for the store's natural order.
	sort.Slice(profiles, func(i, j int) bool {
		if !profiles[i].CreatedAt.Equal(profiles[j].CreatedAt) {
			return profiles[i].CreatedAt.Before(profiles[j].CreatedAt)
		}
		return profiles[i].ID < profiles[j].ID
	})
	return profiles, nil
}

func (m *MemoryStore) UpdateProfile(ctx context.Context, profileID string, patch model.ProfilePatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	profile, ok := m.profiles[profileID]
	if !ok {
		return fmt.Errorf("update profile %s: %w", profileID, ErrNotFound)
	}
	patch.Apply(profile)
	profile.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *MemoryStore) DeleteProfile(ctx context.Context, profileID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.profiles, profileID)
	return nil
}

func (m *MemoryStore) CreateExpense(ctx context.Context, expense *model.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	stored := expense.Clone()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	m.expenses[stored.ID] = stored

	expense.CreatedAt = now
	expense.UpdatedAt = now
	return nil
}

func (m *MemoryStore) GetExpense(ctx context.Context, expenseID string) (*model.Expense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	expense, ok := m.expenses[expenseID]
	if !ok {
		return nil, fmt.Errorf("get expense %s: %w", expenseID, ErrNotFound)
	}
	return expense.Clone(), nil
}

func (m *MemoryStore) ListExpenses(ctx context.Context, q ExpenseQuery) ([]*model.Expense, error) {
	q = q.Normalize()

	m.mu.RLock()
	defer m.mu.RUnlock()

	var expenses []*model.Expense
	for _, expense := range m.expenses {
		if expense.ProfileID != q.ProfileID {
			continue
		}
		if q.Start != nil && expense.Date.Before(*q.Start) {
			continue
		}
		if q.End != nil && expense.Date.After(*q.End) {
			continue
		}
		expenses = append(expenses, expense.Clone())
	}

	asc := q.SortOrder == SortAsc
	sort.Slice(expenses, func(i, j int) bool {
		a, b := expenses[i], expenses[j]
		if q.SortField == SortByAmount {
			if asc {
				return a.Amount < b.Amount
			}
			return a.Amount > b.Amount
		}
		if asc {
			return a.Date.Before(b.Date)
		}
		return a.Date.After(b.Date)
	})
	return expenses, nil
}

func (m *MemoryStore) UpdateExpense(ctx context.Context, expenseID string, patch model.ExpensePatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	expense, ok := m.expenses[expenseID]
	if !ok {
		return fmt.Errorf("update expense %s: %w", expenseID, ErrNotFound)
	}
	patch.Apply(expense)
	expense.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *MemoryStore) DeleteExpense(ctx context.Context, expenseID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.expenses, expenseID)
	return nil
}

func (m *MemoryStore) DeleteExpensesByProfile(ctx context.Context, profileID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	deleted := 0
	for id, expense := range m.expenses {
		if expense.ProfileID == profileID {
			delete(m.expenses, id)
			deleted++
		}
	}
	return deleted, nil
}
