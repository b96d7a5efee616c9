package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AllocationRequest is the input of a reconciliation pass
type AllocationRequest struct {
	Income        decimal.Decimal `json:"income" yaml:"income"`
	SavingsPct    decimal.Decimal `json:"savingsPct" yaml:"savingsPct"`
	DebtPct       decimal.Decimal `json:"debtPct" yaml:"debtPct"`
	ExpensesPct   decimal.Decimal `json:"expensesPct" yaml:"expensesPct"`
	HouseholdSize int             `json:"householdSize" yaml:"householdSize"`
	Loans         []Loan          `json:"loans" yaml:"loans"`
	Expenses      []Expense       `json:"expenses" yaml:"expenses"`
}

var (
	ErrTooManyLoans    = errors.New("too many loans")
	ErrTooManyExpenses = errors.New("too many expenses")
)

// ValidateItems checks every loan and expense in the request. Percentages and
// income are checked by the reconciler.
func (r *AllocationRequest) ValidateItems() error {
	if len(r.Loans) > MaxLoansPerRequest {
		return fmt.Errorf("%w: maximum is %d", ErrTooManyLoans, MaxLoansPerRequest)
	}
	if len(r.Expenses) > MaxExpensesPerPlan {
		return fmt.Errorf("%w: maximum is %d", ErrTooManyExpenses, MaxExpensesPerPlan)
	}
	for i := range r.Loans {
		if err := r.Loans[i].Validate(); err != nil {
			return fmt.Errorf("loans[%d]: %w", i, err)
		}
	}
	for i := range r.Expenses {
		if err := r.Expenses[i].Validate(); err != nil {
			return fmt.Errorf("expenses[%d]: %w", i, err)
		}
	}
	return nil
}

// AdjustmentReason names the reconciliation pass that last changed an expense
type AdjustmentReason string

const (
	ReasonUnchanged       AdjustmentReason = "unchanged"
	ReasonDebtOverage     AdjustmentReason = "debt_overage"
	ReasonExpenseOverage  AdjustmentReason = "expense_budget_overage"
	ReasonResidualDeficit AdjustmentReason = "residual_deficit"
)

// ExpenseAdjustment tracks one expense through reconciliation
type ExpenseAdjustment struct {
	ExpenseID      uuid.UUID        `json:"expenseId"`
	Name           string           `json:"name"`
	IsEssential    bool             `json:"isEssential"`
	OriginalAmount decimal.Decimal  `json:"originalAmount"`
	AdjustedAmount decimal.Decimal  `json:"adjustedAmount"`
	Floor          decimal.Decimal  `json:"floor"`
	Reason         AdjustmentReason `json:"reason"`
}

// Cut returns how much was removed from the expense
func (a ExpenseAdjustment) Cut() decimal.Decimal {
	return a.OriginalAmount.Sub(a.AdjustedAmount)
}

// AllocationResult is the feasible monthly allocation produced by reconciliation.
// At most one of SpareCash and ResidualDeficit is positive.
type AllocationResult struct {
	Income                  decimal.Decimal     `json:"income"`
	AdjustedSavings         decimal.Decimal     `json:"adjustedSavings"`
	AdjustedDebtBudget      decimal.Decimal     `json:"adjustedDebtBudget"`
	AdjustedExpenseTotal    decimal.Decimal     `json:"adjustedExpenseTotal"`
	AdjustedMinPaymentTotal decimal.Decimal     `json:"adjustedMinPaymentTotal"`
	SavingsFloor            decimal.Decimal     `json:"savingsFloor"`
	ExpenseAdjustments      []ExpenseAdjustment `json:"expenseAdjustments"`
	SpareCash               decimal.Decimal     `json:"spareCash"`
	ResidualDeficit         decimal.Decimal     `json:"residualDeficit"`
	Iterations              int                 `json:"iterations"`
}

// TotalOutgo is everything the allocation commits each month. Debt counts at
// its minimum payments.
func (r *AllocationResult) TotalOutgo() decimal.Decimal {
	return r.AdjustedSavings.Add(r.AdjustedMinPaymentTotal).Add(r.AdjustedExpenseTotal)
}

// Balanced reports whether reconciliation eliminated the deficit
func (r *AllocationResult) Balanced() bool {
	return !r.ResidualDeficit.IsPositive()
}
