// Package model holds the domain types shared by the store, service and
// session layers: profiles, expenses, their input and patch shapes, and the
// derived statistics records.
package model

import (
	"fmt"
	"time"
)

// ProfileType classifies a profile as a budgeting context.
type ProfileType string

const (
	ProfileTypePersonal ProfileType = "personal"
	ProfileTypeBusiness ProfileType = "business"
	ProfileTypeFamily   ProfileType = "family"
)

// ParseProfileType validates a raw profile type string.
func ParseProfileType(s string) (ProfileType, error) {
	switch ProfileType(s) {
	case ProfileTypePersonal, ProfileTypeBusiness, ProfileTypeFamily:
		return ProfileType(s), nil
	}
	return "", &ValidationError{Field: "type", Reason: fmt.Sprintf("unknown profile type %q", s)}
}

// PaymentMethod classifies how an expense was paid.
type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodDebit  PaymentMethod = "debit"
	PaymentMethodCredit PaymentMethod = "credit"
)

// ParsePaymentMethod validates a raw payment method string.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case PaymentMethodCash, PaymentMethodDebit, PaymentMethodCredit:
		return PaymentMethod(s), nil
	}
	return "", &ValidationError{Field: "paymentMethod", Reason: fmt.Sprintf("unknown payment method %q", s)}
}

// Profile is a named budget context (personal, business or family) owned by
// exactly one user. The document ID lives outside the stored fields.
type Profile struct {
	ID        string      `firestore:"-" json:"id"`
	Name      string      `firestore:"name" json:"name"`
	Type      ProfileType `firestore:"type" json:"type"`
	Currency  string      `firestore:"currency" json:"currency"`
	UserID    string      `firestore:"userId" json:"userId"`
	CreatedAt time.Time   `firestore:"createdAt,serverTimestamp" json:"createdAt"`
	UpdatedAt time.Time   `firestore:"updatedAt,serverTimestamp" json:"updatedAt"`
}

// Clone returns a deep copy of the profile.
func (p *Profile) Clone() *Profile {
	c := *p
	return &c
}

// Expense is a single recorded spending event tied to a profile. ProfileID is
// immutable after creation. Date is the calendar date of the spend, distinct
// from the audit timestamps.
type Expense struct {
	ID            string        `firestore:"-" json:"id"`
	ProfileID     string        `firestore:"profileId" json:"profileId"`
	Amount        float64       `firestore:"amount" json:"amount"`
	Memo          string        `firestore:"memo" json:"memo"`
	Category      string        `firestore:"category" json:"category"`
	Date          time.Time     `firestore:"date" json:"date"`
	PaymentMethod PaymentMethod `firestore:"paymentMethod" json:"paymentMethod"`
	CreatedAt     time.Time     `firestore:"createdAt,serverTimestamp" json:"createdAt"`
	UpdatedAt     time.Time     `firestore:"updatedAt,serverTimestamp" json:"updatedAt"`
}

// Clone returns a deep copy of the expense.
func (e *Expense) Clone() *Expense {
	c := *e
	return &c
}

// CreateProfileInput is what the profile wizard submits. UserID is attached by
// the service from the authenticated session, never by the caller.
type CreateProfileInput struct {
	Name     string      `json:"name"`
	Type     ProfileType `json:"type"`
	Currency string      `json:"currency"`
}

// Validate enforces the form-boundary requirements.
func (in CreateProfileInput) Validate() error {
	if in.Name == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if _, err := ParseProfileType(string(in.Type)); err != nil {
		return err
	}
	if in.Currency == "" {
		return &ValidationError{Field: "currency", Reason: "must not be empty"}
	}
	return nil
}

// CreateExpenseInput is what the expense form submits. The profile is taken
// from the active selection, not from the payload.
type CreateExpenseInput struct {
	Amount        float64       `json:"amount"`
	Memo          string        `json:"memo"`
	Category      string        `json:"category"`
	Date          time.Time     `json:"date"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
}

// Validate enforces the form-boundary requirements. Memo and category are
// free text and may be empty.
func (in CreateExpenseInput) Validate() error {
	if in.Amount <= 0 {
		return &ValidationError{Field: "amount", Reason: "must be greater than zero"}
	}
	if in.Date.IsZero() {
		return &ValidationError{Field: "date", Reason: "must be set"}
	}
	if _, err := ParsePaymentMethod(string(in.PaymentMethod)); err != nil {
		return err
	}
	return nil
}

// ProfilePatch enumerates the mutable profile fields. The owning user is
// immutable, so it has no slot here. Nil means "leave unchanged".
type ProfilePatch struct {
	Name     *string      `json:"name,omitempty"`
	Type     *ProfileType `json:"type,omitempty"`
	Currency *string      `json:"currency,omitempty"`
}

// Validate rejects patch values that would violate field requirements.
func (p ProfilePatch) Validate() error {
	if p.Name != nil && *p.Name == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if p.Type != nil {
		if _, err := ParseProfileType(string(*p.Type)); err != nil {
			return err
		}
	}
	if p.Currency != nil && *p.Currency == "" {
		return &ValidationError{Field: "currency", Reason: "must not be empty"}
	}
	return nil
}

// Apply merges the patch into a profile in place.
func (p ProfilePatch) Apply(profile *Profile) {
	if p.Name != nil {
		profile.Name = *p.Name
	}
	if p.Type != nil {
		profile.Type = *p.Type
	}
	if p.Currency != nil {
		profile.Currency = *p.Currency
	}
}

// ExpensePatch enumerates the mutable expense fields. The owning profile is
// immutable after creation. Nil means "leave unchanged".
type ExpensePatch struct {
	Amount        *float64       `json:"amount,omitempty"`
	Memo          *string        `json:"memo,omitempty"`
	Category      *string        `json:"category,omitempty"`
	Date          *time.Time     `json:"date,omitempty"`
	PaymentMethod *PaymentMethod `json:"paymentMethod,omitempty"`
}

// Validate rejects patch values that would violate field requirements.
func (p ExpensePatch) Validate() error {
	if p.Amount != nil && *p.Amount <= 0 {
		return &ValidationError{Field: "amount", Reason: "must be greater than zero"}
	}
	if p.Date != nil && p.Date.IsZero() {
		return &ValidationError{Field: "date", Reason: "must be set"}
	}
	if p.PaymentMethod != nil {
		if _, err := ParsePaymentMethod(string(*p.PaymentMethod)); err != nil {
			return err
		}
	}
	return nil
}

// Apply merges the patch into an expense in place.
func (p ExpensePatch) Apply(expense *Expense) {
	if p.Amount != nil {
		expense.Amount = *p.Amount
	}
	if p.Memo != nil {
		expense.Memo = *p.Memo
	}
	if p.Category != nil {
		expense.Category = *p.Category
	}
	if p.Date != nil {
		expense.Date = *p.Date
	}
	if p.PaymentMethod != nil {
		expense.PaymentMethod = *p.PaymentMethod
	}
}

// ValidationError reports a required field that is missing or malformed at
// the form boundary.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// PaymentMethodStat is the per-method aggregate over a profile's expenses.
// Methods with no expenses are absent, not zero-filled.
type PaymentMethodStat struct {
	Method PaymentMethod `json:"method"`
	Total  float64       `json:"total"`
	Count  int           `json:"count"`
}

// CategoryStat is the per-category aggregate over a profile's expenses.
type CategoryStat struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Count    int     `json:"count"`
}

// MonthlyComparison reports a month's spend against the immediately
// preceding calendar month. Difference is previous minus current, so a
// positive difference means spending went down.
type MonthlyComparison struct {
	Current    float64 `json:"current"`
	Previous   float64 `json:"previous"`
	Difference float64 `json:"difference"`
	Improved   bool    `json:"improved"`
}
