package domain

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrExpenseNameEmpty     = errors.New("expense name is required")
	ErrExpenseNameTooLong   = errors.New("expense name must be 200 characters or less")
	ErrExpenseAmountInvalid = errors.New("expense amount must be zero or positive")
)

// Expense is a recurring monthly outflow. ID is assigned once at creation and
// identifies the expense in adjustment output even when names repeat.
type Expense struct {
	ID          uuid.UUID       `json:"id" yaml:"id"`
	Name        string          `json:"name" yaml:"name"`
	Amount      decimal.Decimal `json:"amount" yaml:"amount"`
	IsEssential bool            `json:"isEssential" yaml:"isEssential"`
}

// NewExpense creates an expense with a fresh identifier
func NewExpense(name string, amount decimal.Decimal, essential bool) Expense {
	return Expense{
		ID:          uuid.New(),
		Name:        name,
		Amount:      amount,
		IsEssential: essential,
	}
}

// Validate checks the expense fields
func (e *Expense) Validate() error {
	name := strings.TrimSpace(e.Name)
	if name == "" {
		return ErrExpenseNameEmpty
	}
	if len(name) > MaxItemNameLength {
		return ErrExpenseNameTooLong
	}
	if e.Amount.IsNegative() {
		return ErrExpenseAmountInvalid
	}
	return nil
}

// EnsureExpenseIDs assigns identifiers to expenses that arrived without one.
// It returns a new slice and leaves the input untouched.
func EnsureExpenseIDs(expenses []Expense) []Expense {
	out := make([]Expense, len(expenses))
	copy(out, expenses)
	for i := range out {
		if out[i].ID == uuid.Nil {
			out[i].ID = uuid.New()
		}
	}
	return out
}

// TotalExpenses sums expense amounts
func TotalExpenses(expenses []Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}
