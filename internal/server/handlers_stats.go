package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/spendbook/backend/internal/model"
)

type monthlyTotalResponse struct {
	Year  int     `json:"year"`
	Month int     `json:"month"`
	Total float64 `json:"total"`
}

type monthlyComparisonResponse struct {
	Year       int                      `json:"year"`
	Month      int                      `json:"month"`
	Comparison *model.MonthlyComparison `json:"comparison"`
}

func (s *Server) paymentMethodStats(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.getSession(w, r)
	if !ok {
		return
	}

	stats, err := sess.Expenses.PaymentMethodStats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"paymentMethods": stats})
}

func (s *Server) topCategory(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.getSession(w, r)
	if !ok {
		return
	}

	top, err := sess.Expenses.TopCategory(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	// Null when the profile has no expenses yet.
	writeJSON(w, http.StatusOK, map[string]any{"topCategory": top})
}

func (s *Server) monthlyTotal(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.getSession(w, r)
	if !ok {
		return
	}

	year, month, err := parseYearMonth(r)
	if err != nil {
		writeError(w, err)
		return
	}

	total, err := sess.Expenses.MonthlyTotal(r.Context(), year, month)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, monthlyTotalResponse{Year: year, Month: int(month), Total: total})
}

func (s *Server) monthlyComparison(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.getSession(w, r)
	if !ok {
		return
	}

	year, month, err := parseYearMonth(r)
	if err != nil {
		writeError(w, err)
		return
	}

	cmp, err := sess.Expenses.CompareMonthlyTotals(r.Context(), year, month)
	if err != nil {
		writeError(w, err)
		return
	}
	// Comparison is null when either month's total could not be computed.
	writeJSON(w, http.StatusOK, monthlyComparisonResponse{Year: year, Month: int(month), Comparison: cmp})
}

// parseYearMonth reads year/month query parameters, defaulting to the current
// UTC month. Months are 1-indexed.
func parseYearMonth(r *http.Request) (int, time.Month, error) {
	now := time.Now().UTC()
	year, month := now.Year(), now.Month()

	if v := r.URL.Query().Get("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 1 {
			return 0, 0, &model.ValidationError{Field: "year", Reason: "must be a positive integer"}
		}
		year = y
	}
	if v := r.URL.Query().Get("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			return 0, 0, &model.ValidationError{Field: "month", Reason: "must be between 1 and 12"}
		}
		month = time.Month(m)
	}
	return year, month, nil
}
