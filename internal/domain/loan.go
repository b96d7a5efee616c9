package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrLoanNameEmpty         = errors.New("loan name is required")
	ErrLoanNameTooLong       = errors.New("loan name must be 200 characters or less")
	ErrLoanBalanceInvalid    = errors.New("loan balance must be zero or positive")
	ErrLoanRateInvalid       = errors.New("loan interest rate must be zero or positive")
	ErrLoanMinPaymentInvalid = errors.New("loan minimum payment must be zero or positive")
)

// Loan is one debt in a household's portfolio. Balance and MinPayment only ever
// change inside a simulation's private copy.
type Loan struct {
	Name          string          `json:"name" yaml:"name"`
	Balance       decimal.Decimal `json:"balance" yaml:"balance"`
	AnnualRatePct decimal.Decimal `json:"annualRatePct" yaml:"annualRatePct"`
	MinPayment    decimal.Decimal `json:"minPayment" yaml:"minPayment"`
	IsEssential   bool            `json:"isEssential" yaml:"isEssential"`
}

// Validate checks the loan fields
func (l *Loan) Validate() error {
	name := strings.TrimSpace(l.Name)
	if name == "" {
		return ErrLoanNameEmpty
	}
	if len(name) > MaxItemNameLength {
		return ErrLoanNameTooLong
	}
	if l.Balance.IsNegative() {
		return ErrLoanBalanceInvalid
	}
	if l.AnnualRatePct.IsNegative() {
		return ErrLoanRateInvalid
	}
	if l.MinPayment.IsNegative() {
		return ErrLoanMinPaymentInvalid
	}
	return nil
}

// MonthlyRate returns the monthly interest rate as a fraction
func (l *Loan) MonthlyRate() decimal.Decimal {
	return l.AnnualRatePct.Div(decimal.NewFromInt(1200))
}

// TotalMinPayments sums the minimum payments of all loans
func TotalMinPayments(loans []Loan) decimal.Decimal {
	total := decimal.Zero
	for _, l := range loans {
		total = total.Add(l.MinPayment)
	}
	return total
}

// TotalBalance sums the outstanding balances of all loans
func TotalBalance(loans []Loan) decimal.Decimal {
	total := decimal.Zero
	for _, l := range loans {
		total = total.Add(l.Balance)
	}
	return total
}
