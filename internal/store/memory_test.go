package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendbook/backend/internal/model"
)

func day(d int) time.Time {
	return time.Date(2026, 4, d, 0, 0, 0, 0, time.UTC)
}

func seedExpense(t *testing.T, m *MemoryStore, id string, profileID string, amount float64, date time.Time) {
	t.Helper()
	require.NoError(t, m.CreateExpense(context.Background(), &model.Expense{
		ID:            id,
		ProfileID:     profileID,
		Amount:        amount,
		Category:      "food",
		Date:          date,
		PaymentMethod: model.PaymentMethodCash,
	}))
}

func TestMemoryStoreProfileCRUD(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	profile := &model.Profile{Name: "Mine", Type: model.ProfileTypePersonal, Currency: "USD", UserID: "u1"}
	require.NoError(t, m.CreateProfile(ctx, profile))
	assert.NotEmpty(t, profile.ID, "ID assigned when absent")
	assert.False(t, profile.CreatedAt.IsZero())

	got, err := m.GetProfile(ctx, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mine", got.Name)

	// Mutating the returned copy must not leak into the store.
	got.Name = "Hacked"
	again, err := m.GetProfile(ctx, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mine", again.Name)

	_, err = m.GetProfile(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	name := "Renamed"
	require.NoError(t, m.UpdateProfile(ctx, profile.ID, model.ProfilePatch{Name: &name}))
	got, err = m.GetProfile(ctx, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.False(t, got.UpdatedAt.Before(got.CreatedAt))

	require.ErrorIs(t, m.UpdateProfile(ctx, "missing", model.ProfilePatch{Name: &name}), ErrNotFound)

	require.NoError(t, m.DeleteProfile(ctx, profile.ID))
	_, err = m.GetProfile(ctx, profile.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreListProfilesByUser(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	for _, p := range []*model.Profile{
		{ID: "b", Name: "Second", UserID: "u1"},
		{ID: "a", Name: "First", UserID: "u1"},
		{ID: "c", Name: "Other", UserID: "u2"},
	} {
		require.NoError(t, m.CreateProfile(ctx, p))
	}

	profiles, err := m.ListProfilesByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	for _, p := range profiles {
		assert.Equal(t, "u1", p.UserID)
	}

	profiles, err = m.ListProfilesByUser(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, profiles)
}

func TestMemoryStoreListExpensesFilterAndSort(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	seedExpense(t, m, "e1", "p1", 30, day(1))
	seedExpense(t, m, "e2", "p1", 10, day(3))
	seedExpense(t, m, "e3", "p1", 20, day(2))
	seedExpense(t, m, "e4", "p2", 99, day(2))

	t.Run("default order is date descending", func(t *testing.T) {
		got, err := m.ListExpenses(ctx, ExpenseQuery{ProfileID: "p1"})
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, []string{"e2", "e3", "e1"}, ids(got))
	})

	t.Run("date ascending", func(t *testing.T) {
		got, err := m.ListExpenses(ctx, ExpenseQuery{ProfileID: "p1", SortField: SortByDate, SortOrder: SortAsc})
		require.NoError(t, err)
		assert.Equal(t, []string{"e1", "e3", "e2"}, ids(got))
	})

	t.Run("amount descending", func(t *testing.T) {
		got, err := m.ListExpenses(ctx, ExpenseQuery{ProfileID: "p1", SortField: SortByAmount, SortOrder: SortDesc})
		require.NoError(t, err)
		assert.Equal(t, []string{"e1", "e3", "e2"}, ids(got))
	})

	t.Run("amount ascending", func(t *testing.T) {
		got, err := m.ListExpenses(ctx, ExpenseQuery{ProfileID: "p1", SortField: SortByAmount, SortOrder: SortAsc})
		require.NoError(t, err)
		assert.Equal(t, []string{"e2", "e3", "e1"}, ids(got))
	})

	t.Run("date range is inclusive on both ends", func(t *testing.T) {
		start, end := day(2), day(3)
		got, err := m.ListExpenses(ctx, ExpenseQuery{ProfileID: "p1", SortField: SortByDate, SortOrder: SortAsc, Start: &start, End: &end})
		require.NoError(t, err)
		assert.Equal(t, []string{"e3", "e2"}, ids(got))
	})

	t.Run("other profiles never leak in", func(t *testing.T) {
		got, err := m.ListExpenses(ctx, ExpenseQuery{ProfileID: "p2"})
		require.NoError(t, err)
		assert.Equal(t, []string{"e4"}, ids(got))
	})
}

func TestMemoryStoreExpenseUpdateDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	seedExpense(t, m, "e1", "p1", 30, day(1))

	amount := 45.0
	require.NoError(t, m.UpdateExpense(ctx, "e1", model.ExpensePatch{Amount: &amount}))
	got, err := m.GetExpense(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, 45.0, got.Amount)
	assert.Equal(t, "food", got.Category, "unpatched fields keep their value")

	require.ErrorIs(t, m.UpdateExpense(ctx, "missing", model.ExpensePatch{Amount: &amount}), ErrNotFound)

	require.NoError(t, m.DeleteExpense(ctx, "e1"))
	_, err = m.GetExpense(ctx, "e1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreDeleteExpensesByProfile(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	seedExpense(t, m, "e1", "p1", 10, day(1))
	seedExpense(t, m, "e2", "p1", 20, day(2))
	seedExpense(t, m, "e3", "p2", 30, day(3))

	deleted, err := m.DeleteExpensesByProfile(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	remaining, err := m.ListExpenses(ctx, ExpenseQuery{ProfileID: "p2"})
	require.NoError(t, err)
	assert.Len(t, remaining, 1, "other profiles untouched")
}

func ids(expenses []*model.Expense) []string {
	out := make([]string, len(expenses))
	for i, e := range expenses {
		out[i] = e.ID
	}
	return out
}
