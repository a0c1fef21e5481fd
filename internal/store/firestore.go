package store

import (
	"context"

	"cloud.google.com/go/firestore"

	"github.com/spendbook/backend/internal/model"
)

const (
	profilesCollection = "profiles"
	expensesCollection = "expenses"
)

// FirestoreStore implements the Store interface using Firestore.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore creates a new Firestore-backed store.
func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

// CreateProfile persists a new profile document. CreatedAt and UpdatedAt are
// stamped server-side via the serverTimestamp tags on the model.
func (s *FirestoreStore) CreateProfile(ctx context.Context, profile *model.Profile) error {
	_, err := s.client.Collection(profilesCollection).Doc(profile.ID).Set(ctx, profile)
	return classify("create profile", err)
}

// GetProfile retrieves a profile by document ID.
func (s *FirestoreStore) GetProfile(ctx context.Context, profileID string) (*model.Profile, error) {
	doc, err := s.client.Collection(profilesCollection).Doc(profileID).Get(ctx)
	if err != nil {
		return nil, classify("get profile", err)
	}
	var profile model.Profile
	if err := doc.DataTo(&profile); err != nil {
		return nil, &PersistenceError{Op: "parse profile", Err: err}
	}
	profile.ID = doc.Ref.ID
	return &profile, nil
}

// ListProfilesByUser returns every profile owned by the user, in the store's
// natural order.
func (s *FirestoreStore) ListProfilesByUser(ctx context.Context, userID string) ([]*model.Profile, error) {
	docs, err := s.client.Collection(profilesCollection).
		Where("userId", "==", userID).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, classify("list profiles", err)
	}

	profiles := make([]*model.Profile, 0, len(docs))
	for _, doc := range docs {
		var profile model.Profile
		if err := doc.DataTo(&profile); err != nil {
			return nil, &PersistenceError{Op: "parse profile", Err: err}
		}
		profile.ID = doc.Ref.ID
		profiles = append(profiles, &profile)
	}
	return profiles, nil
}

// UpdateProfile merges the patch into an existing profile document and
// refreshes its UpdatedAt stamp. Fails with ErrNotFound when the document
// does not exist.
func (s *FirestoreStore) UpdateProfile(ctx context.Context, profileID string, patch model.ProfilePatch) error {
	updates := []firestore.Update{
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	}
	if patch.Name != nil {
		updates = append(updates, firestore.Update{Path: "name", Value: *patch.Name})
	}
	if patch.Type != nil {
		updates = append(updates, firestore.Update{Path: "type", Value: string(*patch.Type)})
	}
	if patch.Currency != nil {
		updates = append(updates, firestore.Update{Path: "currency", Value: *patch.Currency})
	}

	_, err := s.client.Collection(profilesCollection).Doc(profileID).Update(ctx, updates)
	return classify("update profile", err)
}

// DeleteProfile removes a profile document. Deleting a missing document is
// not an error, matching Firestore semantics.
func (s *FirestoreStore) DeleteProfile(ctx context.Context, profileID string) error {
	_, err := s.client.Collection(profilesCollection).Doc(profileID).Delete(ctx)
	return classify("delete profile", err)
}

// CreateExpense persists a new expense document.
func (s *FirestoreStore) CreateExpense(ctx context.Context, expense *model.Expense) error {
	_, err := s.client.Collection(expensesCollection).Doc(expense.ID).Set(ctx, expense)
	return classify("create expense", err)
}

// GetExpense retrieves an expense by document ID.
func (s *FirestoreStore) GetExpense(ctx context.Context, expenseID string) (*model.Expense, error) {
	doc, err := s.client.Collection(expensesCollection).Doc(expenseID).Get(ctx)
	if err != nil {
		return nil, classify("get expense", err)
	}
	var expense model.Expense
	if err := doc.DataTo(&expense); err != nil {
		return nil, &PersistenceError{Op: "parse expense", Err: err}
	}
	expense.ID = doc.Ref.ID
	return &expense, nil
}

// ListExpenses queries expenses by owning profile with the requested ordering
// and optional inclusive date range. Firestore requires the first OrderBy to
// match the range field, so a date filter always orders by date first; an
// amount sort on top of that needs a composite index, which surfaces as
// IndexRequiredError when missing.
func (s *FirestoreStore) ListExpenses(ctx context.Context, q ExpenseQuery) ([]*model.Expense, error) {
	q = q.Normalize()

	query := s.client.Collection(expensesCollection).
		Where("profileId", "==", q.ProfileID)

	hasRange := q.Start != nil || q.End != nil
	if q.Start != nil {
		query = query.Where("date", ">=", *q.Start)
	}
	if q.End != nil {
		query = query.Where("date", "<=", *q.End)
	}

	dir := firestore.Asc
	if q.SortOrder == SortDesc {
		dir = firestore.Desc
	}
	switch {
	case q.SortField == SortByDate:
		query = query.OrderBy("date", dir)
	case hasRange:
		query = query.OrderBy("date", firestore.Asc).OrderBy("amount", dir)
	default:
		query = query.OrderBy("amount", dir)
	}

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, classify("list expenses", err)
	}

	expenses := make([]*model.Expense, 0, len(docs))
	for _, doc := range docs {
		var expense model.Expense
		if err := doc.DataTo(&expense); err != nil {
			return nil, &PersistenceError{Op: "parse expense", Err: err}
		}
		expense.ID = doc.Ref.ID
		expenses = append(expenses, &expense)
	}
	return expenses, nil
}

// UpdateExpense merges the patch into an existing expense document and
// refreshes its UpdatedAt stamp.
func (s *FirestoreStore) UpdateExpense(ctx context.Context, expenseID string, patch model.ExpensePatch) error {
	updates := []firestore.Update{
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	}
	if patch.Amount != nil {
		updates = append(updates, firestore.Update{Path: "amount", Value: *patch.Amount})
	}
	if patch.Memo != nil {
		updates = append(updates, firestore.Update{Path: "memo", Value: *patch.Memo})
	}
	if patch.Category != nil {
		updates = append(updates, firestore.Update{Path: "category", Value: *patch.Category})
	}
	if patch.Date != nil {
		updates = append(updates, firestore.Update{Path: "date", Value: *patch.Date})
	}
	if patch.PaymentMethod != nil {
		updates = append(updates, firestore.Update{Path: "paymentMethod", Value: string(*patch.PaymentMethod)})
	}

	_, err := s.client.Collection(expensesCollection).Doc(expenseID).Update(ctx, updates)
	return classify("update expense", err)
}

// DeleteExpense removes an expense document.
func (s *FirestoreStore) DeleteExpense(ctx context.Context, expenseID string) error {
	_, err := s.client.Collection(expensesCollection).Doc(expenseID).Delete(ctx)
	return classify("delete expense", err)
}

// DeleteExpensesByProfile removes every expense owned by the profile using a
// bulk writer. There is no multi-document atomicity; a partial failure leaves
// the remaining documents in place.
func (s *FirestoreStore) DeleteExpensesByProfile(ctx context.Context, profileID string) (int, error) {
	docs, err := s.client.Collection(expensesCollection).
		Where("profileId", "==", profileID).
		Documents(ctx).GetAll()
	if err != nil {
		return 0, classify("list expenses for delete", err)
	}

	bw := s.client.BulkWriter(ctx)
	for _, doc := range docs {
		if _, err := bw.Delete(doc.Ref); err != nil {
			bw.End()
			return 0, classify("delete expenses", err)
		}
	}
	bw.End()
	return len(docs), nil
}
