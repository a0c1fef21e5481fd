package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/spendbook/backend/internal/model"
	"github.com/spendbook/backend/internal/store"
)

type expenseListResponse struct {
	Expenses  []*model.Expense `json:"expenses"`
	ProfileID string           `json:"profileId,omitempty"`
	State     string           `json:"state"`
	Error     string           `json:"error,omitempty"`
}

// listExpenses serves the session's expense cache by default. When sorting
// or date-range parameters are given, it queries the repository directly
// through the session's pass-through surface instead.
func (s *Server) listExpenses(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.getSession(w, r)
	if !ok {
		return
	}

	q, explicit, err := parseExpenseQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if explicit {
		expenses, err := sess.Expenses.Query(r.Context(), q)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, expenseListResponse{
			Expenses:  expenses,
			ProfileID: sess.Expenses.ProfileID(),
			State:     sess.Expenses.State().String(),
		})
		return
	}

	resp := expenseListResponse{
		Expenses:  sess.Expenses.Expenses(),
		ProfileID: sess.Expenses.ProfileID(),
		State:     sess.Expenses.State().String(),
	}
	if err := sess.Expenses.Err(); err != nil {
		resp.Error = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) createExpense(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.getSession(w, r)
	if !ok {
		return
	}

	var in model.CreateExpenseInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	expense, err := sess.Expenses.Create(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, expense)
}

func (s *Server) updateExpense(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.getSession(w, r)
	if !ok {
		return
	}

	var patch model.ExpensePatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, err)
		return
	}

	if err := sess.Expenses.Update(r.Context(), chi.URLParam(r, "expenseID"), patch); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteExpense(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.getSession(w, r)
	if !ok {
		return
	}

	if err := sess.Expenses.Delete(r.Context(), chi.URLParam(r, "expenseID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// parseExpenseQuery reads sort/order/from/to query parameters. It reports
// whether any were explicitly set. Dates accept 2006-01-02 or RFC 3339 and
// the range is inclusive on both ends.
func parseExpenseQuery(r *http.Request) (store.ExpenseQuery, bool, error) {
	var q store.ExpenseQuery
	explicit := false

	if v := r.URL.Query().Get("sort"); v != "" {
		switch store.SortField(v) {
		case store.SortByDate, store.SortByAmount:
			q.SortField = store.SortField(v)
		default:
			return q, false, &model.ValidationError{Field: "sort", Reason: "must be date or amount"}
		}
		explicit = true
	}
	if v := r.URL.Query().Get("order"); v != "" {
		switch store.SortOrder(v) {
		case store.SortAsc, store.SortDesc:
			q.SortOrder = store.SortOrder(v)
		default:
			return q, false, &model.ValidationError{Field: "order", Reason: "must be asc or desc"}
		}
		explicit = true
	}
	if v := r.URL.Query().Get("from"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return q, false, &model.ValidationError{Field: "from", Reason: "must be a date"}
		}
		q.Start = &t
		explicit = true
	}
	if v := r.URL.Query().Get("to"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return q, false, &model.ValidationError{Field: "to", Reason: "must be a date"}
		}
		end := time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, time.UTC)
		q.End = &end
		explicit = true
	}
	return q, explicit, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	return t.UTC(), err
}
