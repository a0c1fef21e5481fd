package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProfileType(t *testing.T) {
	for _, valid := range []string{"personal", "business", "family"} {
		got, err := ParseProfileType(valid)
		require.NoError(t, err)
		assert.Equal(t, ProfileType(valid), got)
	}

	_, err := ParseProfileType("corporate")
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "type", vErr.Field)
}

func TestParsePaymentMethod(t *testing.T) {
	for _, valid := range []string{"cash", "debit", "credit"} {
		got, err := ParsePaymentMethod(valid)
		require.NoError(t, err)
		assert.Equal(t, PaymentMethod(valid), got)
	}

	_, err := ParsePaymentMethod("cheque")
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "paymentMethod", vErr.Field)
}

func TestCreateProfileInputValidate(t *testing.T) {
	valid := CreateProfileInput{Name: "Household", Type: ProfileTypeFamily, Currency: "USD"}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name  string
		in    CreateProfileInput
		field string
	}{
		{"empty name", CreateProfileInput{Type: ProfileTypePersonal, Currency: "USD"}, "name"},
		{"bad type", CreateProfileInput{Name: "x", Type: "corporate", Currency: "USD"}, "type"},
		{"empty currency", CreateProfileInput{Name: "x", Type: ProfileTypePersonal}, "currency"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var vErr *ValidationError
			require.ErrorAs(t, tt.in.Validate(), &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestCreateExpenseInputValidate(t *testing.T) {
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	valid := CreateExpenseInput{Amount: 12.5, Date: date, PaymentMethod: PaymentMethodCash}
	require.NoError(t, valid.Validate(), "memo and category may be empty")

	tests := []struct {
		name  string
		in    CreateExpenseInput
		field string
	}{
		{"zero amount", CreateExpenseInput{Date: date, PaymentMethod: PaymentMethodCash}, "amount"},
		{"negative amount", CreateExpenseInput{Amount: -3, Date: date, PaymentMethod: PaymentMethodCash}, "amount"},
		{"zero date", CreateExpenseInput{Amount: 1, PaymentMethod: PaymentMethodCash}, "date"},
		{"bad method", CreateExpenseInput{Amount: 1, Date: date, PaymentMethod: "cheque"}, "paymentMethod"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var vErr *ValidationError
			require.ErrorAs(t, tt.in.Validate(), &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestProfilePatchApply(t *testing.T) {
	profile := &Profile{Name: "Old", Type: ProfileTypePersonal, Currency: "USD", UserID: "u1"}

	name := "New"
	currency := "EUR"
	ProfilePatch{Name: &name, Currency: &currency}.Apply(profile)

	assert.Equal(t, "New", profile.Name)
	assert.Equal(t, "EUR", profile.Currency)
	assert.Equal(t, ProfileTypePersonal, profile.Type, "unset fields stay")
	assert.Equal(t, "u1", profile.UserID)
}

func TestProfilePatchValidate(t *testing.T) {
	empty := ""
	badType := ProfileType("corporate")

	var vErr *ValidationError
	require.ErrorAs(t, ProfilePatch{Name: &empty}.Validate(), &vErr)
	require.ErrorAs(t, ProfilePatch{Type: &badType}.Validate(), &vErr)
	require.ErrorAs(t, ProfilePatch{Currency: &empty}.Validate(), &vErr)
	require.NoError(t, ProfilePatch{}.Validate(), "empty patch is valid")
}

func TestExpensePatchApply(t *testing.T) {
	date := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	expense := &Expense{ProfileID: "p1", Amount: 10, Memo: "old", Category: "food", Date: date, PaymentMethod: PaymentMethodCash}

	amount := 22.5
	method := PaymentMethodCredit
	ExpensePatch{Amount: &amount, PaymentMethod: &method}.Apply(expense)

	assert.Equal(t, 22.5, expense.Amount)
	assert.Equal(t, PaymentMethodCredit, expense.PaymentMethod)
	assert.Equal(t, "old", expense.Memo)
	assert.Equal(t, "p1", expense.ProfileID, "profile binding never changes")
	assert.True(t, expense.Date.Equal(date))
}

func TestExpensePatchValidate(t *testing.T) {
	zero := 0.0
	var zeroTime time.Time
	badMethod := PaymentMethod("cheque")

	var vErr *ValidationError
	require.ErrorAs(t, ExpensePatch{Amount: &zero}.Validate(), &vErr)
	require.ErrorAs(t, ExpensePatch{Date: &zeroTime}.Validate(), &vErr)
	require.ErrorAs(t, ExpensePatch{PaymentMethod: &badMethod}.Validate(), &vErr)
	require.NoError(t, ExpensePatch{}.Validate())
}

func TestClone(t *testing.T) {
	p := &Profile{ID: "p1", Name: "Mine"}
	pc := p.Clone()
	pc.Name = "Changed"
	assert.Equal(t, "Mine", p.Name)

	e := &Expense{ID: "e1", Amount: 5}
	ec := e.Clone()
	ec.Amount = 9
	assert.Equal(t, 5.0, e.Amount)
}
