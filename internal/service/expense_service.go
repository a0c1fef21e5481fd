package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/spendbook/backend/internal/log"
	"github.com/spendbook/backend/internal/model"
	"github.com/spendbook/backend/internal/store"
)

// ExpenseService is the repository for expenses. It also computes the
// dashboard aggregates, which are full-collection scans over the profile's
// expenses, never cached.
type ExpenseService struct {
	store  store.Store
	logger *log.Logger
}

// NewExpenseService creates an expense repository over the given store.
func NewExpenseService(s store.Store, logger *log.Logger) *ExpenseService {
	return &ExpenseService{store: s, logger: logger.WithComponent("expense_service")}
}

// Create persists a new expense tied to profileID and returns it. The
// human-entered calendar date is normalized to midnight UTC.
func (s *ExpenseService) Create(ctx context.Context, profileID string, in model.CreateExpenseInput) (*model.Expense, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	expense := &model.Expense{
		ID:            uuid.New().String(),
		ProfileID:     profileID,
		Amount:        in.Amount,
		Memo:          in.Memo,
		Category:      in.Category,
		Date:          midnightUTC(in.Date),
		PaymentMethod: in.PaymentMethod,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		s.logger.Error("create expense failed", "profile_id", profileID, "error", err)
		return nil, fmt.Errorf("create expense: %w", err)
	}
	return expense, nil
}

// List returns the profile's expenses with the requested ordering and
// optional inclusive date range. Ordering of equal sort keys is not
// guaranteed to be stable.
func (s *ExpenseService) List(ctx context.Context, q store.ExpenseQuery) ([]*model.Expense, error) {
	expenses, err := s.store.ListExpenses(ctx, q)
	if err != nil {
		s.logger.Error("list expenses failed", "profile_id", q.ProfileID, "error", err)
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return expenses, nil
}

// Update merges the patch into the expense, stamping a fresh UpdatedAt.
func (s *ExpenseService) Update(ctx context.Context, expenseID string, patch model.ExpensePatch) error {
	if err := patch.Validate(); err != nil {
		return err
	}
	if patch.Date != nil {
		d := midnightUTC(*patch.Date)
		patch.Date = &d
	}
	if err := s.store.UpdateExpense(ctx, expenseID, patch); err != nil {
		s.logger.Error("update expense failed", "expense_id", expenseID, "error", err)
		return fmt.Errorf("update expense: %w", err)
	}
	return nil
}

// Delete removes the expense.
func (s *ExpenseService) Delete(ctx context.Context, expenseID string) error {
	if err := s.store.DeleteExpense(ctx, expenseID); err != nil {
		s.logger.Error("delete expense failed", "expense_id", expenseID, "error", err)
		return fmt.Errorf("delete expense: %w", err)
	}
	return nil
}

// PaymentMethodStats groups the profile's expenses by payment method, summing
// amounts and counting entries. Methods with no expenses are absent from the
// result. Output is ordered by method name for determinism.
func (s *ExpenseService) PaymentMethodStats(ctx context.Context, profileID string) ([]model.PaymentMethodStat, error) {
	expenses, err := s.List(ctx, store.ExpenseQuery{ProfileID: profileID})
	if err != nil {
		return nil, err
	}

	byMethod := make(map[model.PaymentMethod]*model.PaymentMethodStat)
	for _, e := range expenses {
		stat, ok := byMethod[e.PaymentMethod]
		if !ok {
			stat = &model.PaymentMethodStat{Method: e.PaymentMethod}
			byMethod[e.PaymentMethod] = stat
		}
		stat.Total += e.Amount
		stat.Count++
	}

	stats := make([]model.PaymentMethodStat, 0, len(byMethod))
	for _, stat := range byMethod {
		stats = append(stats, *stat)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Method < stats[j].Method })
	return stats, nil
}

// TopCategory returns the category with the highest spend across the
// profile's expenses, or nil when there are none. Ties break toward the
// lexicographically smaller category name.
func (s *ExpenseService) TopCategory(ctx context.Context, profileID string) (*model.CategoryStat, error) {
	expenses, err := s.List(ctx, store.ExpenseQuery{ProfileID: profileID})
	if err != nil {
		return nil, err
	}
	if len(expenses) == 0 {
		return nil, nil
	}

	byCategory := make(map[string]*model.CategoryStat)
	for _, e := range expenses {
		stat, ok := byCategory[e.Category]
		if !ok {
			stat = &model.CategoryStat{Category: e.Category}
			byCategory[e.Category] = stat
		}
		stat.Total += e.Amount
		stat.Count++
	}

	var top *model.CategoryStat
	for _, stat := range byCategory {
		switch {
		case top == nil:
			top = stat
		case stat.Total > top.Total:
			top = stat
		case stat.Total == top.Total && stat.Category < top.Category:
			top = stat
		}
	}
	return top, nil
}

// MonthlyTotal sums the profile's expense amounts over the given calendar
// month, first day through last day inclusive. Month is 1-indexed
// (time.January through time.December).
func (s *ExpenseService) MonthlyTotal(ctx context.Context, profileID string, year int, month time.Month) (float64, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, month+1, 0, 23, 59, 59, 0, time.UTC)

	expenses, err := s.List(ctx, store.ExpenseQuery{
		ProfileID: profileID,
		Start:     &start,
		End:       &end,
	})
	if err != nil {
		return 0, err
	}

	var total float64
	for _, e := range expenses {
		total += e.Amount
	}
	return total, nil
}

// CompareMonthlyTotals computes the given month's total against the
// immediately preceding calendar month (January compares against December of
// the prior year). This feeds a non-critical dashboard widget, so any failure
// is logged and swallowed, returning nil instead of an error.
func (s *ExpenseService) CompareMonthlyTotals(ctx context.Context, profileID string, year int, month time.Month) *model.MonthlyComparison {
	prevYear, prevMonth := year, month-1
	if month == time.January {
		prevYear, prevMonth = year-1, time.December
	}

	var current, previous float64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		current, err = s.MonthlyTotal(gctx, profileID, year, month)
		return err
	})
	g.Go(func() error {
		var err error
		previous, err = s.MonthlyTotal(gctx, profileID, prevYear, prevMonth)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Warn("monthly comparison unavailable", "profile_id", profileID, "error", err)
		return nil
	}

	difference := previous - current
	return &model.MonthlyComparison{
		Current:    current,
		Previous:   previous,
		Difference: difference,
		Improved:   difference > 0,
	}
}

func midnightUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
