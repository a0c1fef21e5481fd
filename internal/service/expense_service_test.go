package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/spendbook/backend/internal/log"
	"github.com/spendbook/backend/internal/model"
	"github.com/spendbook/backend/internal/store"
)

func testLogger() *log.Logger {
	return log.New(slog.LevelError, "test")
}

func addExpense(t *testing.T, svc *ExpenseService, profileID string, amount float64, category string, date time.Time, method model.PaymentMethod) *model.Expense {
	t.Helper()
	expense, err := svc.Create(context.Background(), profileID, model.CreateExpenseInput{
		Amount:        amount,
		Category:      category,
		Date:          date,
		PaymentMethod: method,
	})
	require.NoError(t, err)
	return expense
}

func TestExpenseServiceCreate(t *testing.T) {
	svc := NewExpenseService(store.NewMemoryStore(), testLogger())

	t.Run("normalizes date to midnight UTC", func(t *testing.T) {
		noon := time.Date(2026, 5, 10, 12, 34, 56, 0, time.UTC)
		expense := addExpense(t, svc, "p1", 9.99, "coffee", noon, model.PaymentMethodCash)

		assert.NotEmpty(t, expense.ID)
		assert.Equal(t, "p1", expense.ProfileID)
		assert.True(t, expense.Date.Equal(time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("rejects invalid input before touching the store", func(t *testing.T) {
		_, err := svc.Create(context.Background(), "p1", model.CreateExpenseInput{
			Amount:        -1,
			Date:          time.Now(),
			PaymentMethod: model.PaymentMethodCash,
		})
		var vErr *model.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "amount", vErr.Field)
	})
}

func TestExpenseServiceUpdateNormalizesDate(t *testing.T) {
	mem := store.NewMemoryStore()
	svc := NewExpenseService(mem, testLogger())

	expense := addExpense(t, svc, "p1", 5, "food", time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), model.PaymentMethodDebit)

	evening := time.Date(2026, 5, 3, 19, 30, 0, 0, time.UTC)
	require.NoError(t, svc.Update(context.Background(), expense.ID, model.ExpensePatch{Date: &evening}))

	got, err := mem.GetExpense(context.Background(), expense.ID)
	require.NoError(t, err)
	assert.True(t, got.Date.Equal(time.Date(2026, 5, 3, 0, 0, 0, 0, time.UTC)))
}

func TestPaymentMethodStats(t *testing.T) {
	svc := NewExpenseService(store.NewMemoryStore(), testLogger())
	date := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	addExpense(t, svc, "p1", 5, "food", date, model.PaymentMethodCash)
	addExpense(t, svc, "p1", 10, "food", date, model.PaymentMethodCash)
	addExpense(t, svc, "p1", 20, "travel", date, model.PaymentMethodCredit)
	addExpense(t, svc, "other", 99, "food", date, model.PaymentMethodDebit)

	stats, err := svc.PaymentMethodStats(context.Background(), "p1")
	require.NoError(t, err)

	// Debit has no expenses for this profile, so it is absent rather than
	// reported as zero.
	require.Equal(t, []model.PaymentMethodStat{
		{Method: model.PaymentMethodCash, Total: 15, Count: 2},
		{Method: model.PaymentMethodCredit, Total: 20, Count: 1},
	}, stats)
}

func TestTopCategory(t *testing.T) {
	date := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	t.Run("highest spend wins", func(t *testing.T) {
		svc := NewExpenseService(store.NewMemoryStore(), testLogger())
		addExpense(t, svc, "p1", 30, "groceries", date, model.PaymentMethodCash)
		addExpense(t, svc, "p1", 25, "travel", date, model.PaymentMethodCredit)
		addExpense(t, svc, "p1", 10, "travel", date, model.PaymentMethodCredit)

		top, err := svc.TopCategory(context.Background(), "p1")
		require.NoError(t, err)
		require.NotNil(t, top)
		assert.Equal(t, "travel", top.Category)
		assert.Equal(t, 35.0, top.Total)
		assert.Equal(t, 2, top.Count)
	})

	t.Run("tie breaks to lexicographically smaller name", func(t *testing.T) {
		svc := NewExpenseService(store.NewMemoryStore(), testLogger())
		addExpense(t, svc, "p1", 20, "travel", date, model.PaymentMethodCash)
		addExpense(t, svc, "p1", 20, "groceries", date, model.PaymentMethodCash)

		top, err := svc.TopCategory(context.Background(), "p1")
		require.NoError(t, err)
		require.NotNil(t, top)
		assert.Equal(t, "groceries", top.Category)
	})

	t.Run("no expenses yields nil without error", func(t *testing.T) {
		svc := NewExpenseService(store.NewMemoryStore(), testLogger())
		top, err := svc.TopCategory(context.Background(), "empty")
		require.NoError(t, err)
		assert.Nil(t, top)
	})
}

func TestMonthlyTotal(t *testing.T) {
	svc := NewExpenseService(store.NewMemoryStore(), testLogger())

	addExpense(t, svc, "p1", 10, "a", time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), model.PaymentMethodCash)
	addExpense(t, svc, "p1", 20, "b", time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC), model.PaymentMethodCash)
	addExpense(t, svc, "p1", 99, "c", time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), model.PaymentMethodCash)
	addExpense(t, svc, "p1", 99, "d", time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), model.PaymentMethodCash)

	total, err := svc.MonthlyTotal(context.Background(), "p1", 2026, time.April)
	require.NoError(t, err)
	assert.Equal(t, 30.0, total, "first and last day count, neighbors do not")
}

func TestCompareMonthlyTotals(t *testing.T) {
	t.Run("positive difference means spending went down", func(t *testing.T) {
		svc := NewExpenseService(store.NewMemoryStore(), testLogger())
		addExpense(t, svc, "p1", 100, "a", time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), model.PaymentMethodCash)
		addExpense(t, svc, "p1", 80, "a", time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC), model.PaymentMethodCash)

		cmp := svc.CompareMonthlyTotals(context.Background(), "p1", 2026, time.April)
		require.NotNil(t, cmp)
		assert.Equal(t, 80.0, cmp.Current)
		assert.Equal(t, 100.0, cmp.Previous)
		assert.Equal(t, 20.0, cmp.Difference)
		assert.True(t, cmp.Improved)
	})

	t.Run("january compares against december of the prior year", func(t *testing.T) {
		svc := NewExpenseService(store.NewMemoryStore(), testLogger())
		addExpense(t, svc, "p1", 50, "a", time.Date(2025, 12, 20, 0, 0, 0, 0, time.UTC), model.PaymentMethodCash)
		addExpense(t, svc, "p1", 70, "a", time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), model.PaymentMethodCash)

		cmp := svc.CompareMonthlyTotals(context.Background(), "p1", 2026, time.January)
		require.NotNil(t, cmp)
		assert.Equal(t, 70.0, cmp.Current)
		assert.Equal(t, 50.0, cmp.Previous)
		assert.Equal(t, -20.0, cmp.Difference)
		assert.False(t, cmp.Improved)
	})

	t.Run("store failure is swallowed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockStore := store.NewMockStore(ctrl)
		mockStore.EXPECT().
			ListExpenses(gomock.Any(), gomock.Any()).
			Return(nil, errors.New("backend unavailable")).
			AnyTimes()

		svc := NewExpenseService(mockStore, testLogger())
		cmp := svc.CompareMonthlyTotals(context.Background(), "p1", 2026, time.April)
		assert.Nil(t, cmp)
	})
}

func TestExpenseServiceListPropagatesStoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := store.NewMockStore(ctrl)
	mockStore.EXPECT().
		ListExpenses(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("backend unavailable"))

	svc := NewExpenseService(mockStore, testLogger())
	_, err := svc.List(context.Background(), store.ExpenseQuery{ProfileID: "p1"})
	require.Error(t, err)
}
