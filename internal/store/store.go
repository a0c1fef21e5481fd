package store

import (
	"context"
	"time"

	"github.com/spendbook/backend/internal/model"
)

//go:generate mockgen -source=store.go -destination=store_mock.go -package=store

// SortField selects which expense field a listing is ordered by.
type SortField string

const (
	SortByDate   SortField = "date"
	SortByAmount SortField = "amount"
)

// SortOrder selects the listing direction.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ExpenseQuery describes an expense listing: equality on the owning profile,
// an optional inclusive date range, and the requested ordering. Ordering for
// equal sort keys is not guaranteed to be stable.
type ExpenseQuery struct {
	ProfileID string
	SortField SortField
	SortOrder SortOrder
	Start     *time.Time
	End       *time.Time
}

// Normalize fills in the default ordering (date descending, matching the
// dashboard's default view).
func (q ExpenseQuery) Normalize() ExpenseQuery {
	if q.SortField == "" {
		q.SortField = SortByDate
	}
	if q.SortOrder == "" {
		q.SortOrder = SortDesc
	}
	return q
}

// Store defines the document-store operations used by the service layer.
type Store interface {
	// Profile operations
	CreateProfile(ctx context.Context, profile *model.Profile) error
	GetProfile(ctx context.Context, profileID string) (*model.Profile, error)
	ListProfilesByUser(ctx context.Context, userID string) ([]*model.Profile, error)
	UpdateProfile(ctx context.Context, profileID string, patch model.ProfilePatch) error
	DeleteProfile(ctx context.Context, profileID string) error

	// Expense operations
	CreateExpense(ctx context.Context, expense *model.Expense) error
	GetExpense(ctx context.Context, expenseID string) (*model.Expense, error)
	ListExpenses(ctx context.Context, q ExpenseQuery) ([]*model.Expense, error)
	UpdateExpense(ctx context.Context, expenseID string, patch model.ExpensePatch) error
	DeleteExpense(ctx context.Context, expenseID string) error
	// DeleteExpensesByProfile removes every expense owned by the profile and
	// reports how many documents were deleted.
	DeleteExpensesByProfile(ctx context.Context, profileID string) (int, error)
}
