package handler

import (
	"fmt"

	"github.com/dafibh/fortuna/fortuna-coach/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LoanRequest represents one loan in a request body. Amounts are decimal strings.
type LoanRequest struct {
	Name          string `json:"name"`
	Balance       string `json:"balance"`
	AnnualRatePct string `json:"annualRatePct"`
	MinPayment    string `json:"minPayment"`
	IsEssential   bool   `json:"isEssential"`
}

// ExpenseRequest represents one expense in a request body. ID is optional.
type ExpenseRequest struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Amount      string `json:"amount"`
	IsEssential bool   `json:"isEssential"`
}

// AllocationRequestBody represents the reconcile request body
type AllocationRequestBody struct {
	Income        string           `json:"income"`
	SavingsPct    string           `json:"savingsPct"`
	DebtPct       string           `json:"debtPct"`
	ExpensesPct   string           `json:"expensesPct"`
	HouseholdSize int              `json:"householdSize"`
	Loans         []LoanRequest    `json:"loans"`
	Expenses      []ExpenseRequest `json:"expenses"`
}

// PlanRequestBody represents the plan request body
type PlanRequestBody struct {
	AllocationRequestBody
	CurrentSavings string `json:"currentSavings,omitempty"`
	Month          string `json:"month,omitempty"` // YYYY-MM, defaults to the current month
}

// SimulateRequestBody represents the debt simulation request body
type SimulateRequestBody struct {
	Loans      []LoanRequest `json:"loans"`
	DebtBudget string        `json:"debtBudget"`
	Strategy   string        `json:"strategy,omitempty"` // snowball, avalanche or compare
	Schedule   bool          `json:"schedule,omitempty"`
}

// ReportRequestBody represents the report export request body
type ReportRequestBody struct {
	PlanRequestBody
	Format  string `json:"format"`
	Archive bool   `json:"archive,omitempty"`
}

// parseAmount parses a required decimal field
func parseAmount(field, value string, errs *[]ValidationError) decimal.Decimal {
	d, err := decimal.NewFromString(value)
	if err != nil {
		*errs = append(*errs, ValidationError{Field: field, Message: "Must be a valid decimal number"})
		return decimal.Zero
	}
	return d
}

// parseOptionalAmount parses a decimal field that defaults to zero when empty
func parseOptionalAmount(field, value string, errs *[]ValidationError) decimal.Decimal {
	if value == "" {
		return decimal.Zero
	}
	return parseAmount(field, value, errs)
}

func parseLoans(prefix string, in []LoanRequest, errs *[]ValidationError) []domain.Loan {
	loans := make([]domain.Loan, len(in))
	for i, l := range in {
		field := fmt.Sprintf("%s[%d]", prefix, i)
		loans[i] = domain.Loan{
			Name:          l.Name,
			Balance:       parseAmount(field+".balance", l.Balance, errs),
			AnnualRatePct: parseOptionalAmount(field+".annualRatePct", l.AnnualRatePct, errs),
			MinPayment:    parseOptionalAmount(field+".minPayment", l.MinPayment, errs),
			IsEssential:   l.IsEssential,
		}
	}
	return loans
}

func parseExpenses(in []ExpenseRequest, errs *[]ValidationError) []domain.Expense {
	expenses := make([]domain.Expense, len(in))
	for i, e := range in {
		field := fmt.Sprintf("expenses[%d]", i)
		expenses[i] = domain.Expense{
			Name:        e.Name,
			Amount:      parseAmount(field+".amount", e.Amount, errs),
			IsEssential: e.IsEssential,
		}
		if e.ID != "" {
			id, err := uuid.Parse(e.ID)
			if err != nil {
				*errs = append(*errs, ValidationError{Field: field + ".id", Message: "Must be a UUID"})
				continue
			}
			expenses[i].ID = id
		}
	}
	return expenses
}

// toDomain converts the body into an allocation request, collecting every parse error
func (b *AllocationRequestBody) toDomain() (domain.AllocationRequest, []ValidationError) {
	var errs []ValidationError
	req := domain.AllocationRequest{
		Income:        parseAmount("income", b.Income, &errs),
		SavingsPct:    parseAmount("savingsPct", b.SavingsPct, &errs),
		DebtPct:       parseAmount("debtPct", b.DebtPct, &errs),
		ExpensesPct:   parseAmount("expensesPct", b.ExpensesPct, &errs),
		HouseholdSize: b.HouseholdSize,
		Loans:         parseLoans("loans", b.Loans, &errs),
		Expenses:      parseExpenses(b.Expenses, &errs),
	}
	return req, errs
}
