package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dafibh/fortuna/fortuna-coach/internal/domain"
	"github.com/dafibh/fortuna/fortuna-coach/internal/service"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// householdNamespace seeds household IDs derived from a household name
var householdNamespace = uuid.MustParse("5b0c7a3e-2f61-4d8e-9a57-0e8f4c1b6d23")

// DefaultHouseholdName is used when a household file names no household
const DefaultHouseholdName = "default"

// LoanEntry is one loan in a household file
type LoanEntry struct {
	Name          string `yaml:"name"`
	Balance       string `yaml:"balance"`
	AnnualRatePct string `yaml:"annualRatePct"`
	MinPayment    string `yaml:"minPayment"`
	Essential     bool   `yaml:"essential"`
}

// ExpenseEntry is one expense in a household file
type ExpenseEntry struct {
	Name      string `yaml:"name"`
	Amount    string `yaml:"amount"`
	Essential bool   `yaml:"essential"`
}

// HouseholdFile is the YAML document read by the plan and simulate commands.
// Amounts may be written as numbers or quoted strings.
type HouseholdFile struct {
	Household      string         `yaml:"household"`
	Month          string         `yaml:"month"`
	Income         string         `yaml:"income"`
	SavingsPct     string         `yaml:"savingsPct"`
	DebtPct        string         `yaml:"debtPct"`
	ExpensesPct    string         `yaml:"expensesPct"`
	HouseholdSize  int            `yaml:"householdSize"`
	CurrentSavings string         `yaml:"currentSavings"`
	DebtBudget     string         `yaml:"debtBudget"`
	Loans          []LoanEntry    `yaml:"loans"`
	Expenses       []ExpenseEntry `yaml:"expenses"`
}

// LoadHousehold reads a household file
func LoadHousehold(path string) (*HouseholdFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading household file: %w", err)
	}
	return ParseHousehold(data)
}

// ParseHousehold decodes a household document, rejecting unknown keys
func ParseHousehold(data []byte) (*HouseholdFile, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f HouseholdFile
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parsing household file: %w", err)
	}
	return &f, nil
}

// HouseholdID derives a stable household ID from a household name
func HouseholdID(name string) uuid.UUID {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultHouseholdName
	}
	return uuid.NewSHA1(householdNamespace, []byte(name))
}

// HouseholdID returns the file's household ID
func (f *HouseholdFile) HouseholdID() uuid.UUID {
	return HouseholdID(f.Household)
}

// fieldErrors collects every malformed amount in a file
type fieldErrors []string

func (e *fieldErrors) amount(field, value string, optional bool) decimal.Decimal {
	value = strings.TrimSpace(value)
	if value == "" && optional {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		*e = append(*e, fmt.Sprintf("%s: %q is not a number", field, value))
		return decimal.Zero
	}
	return d
}

func (e fieldErrors) err() error {
	if len(e) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(e, "; "))
}

func (f *HouseholdFile) loans(errs *fieldErrors) []domain.Loan {
	loans := make([]domain.Loan, len(f.Loans))
	for i, l := range f.Loans {
		field := fmt.Sprintf("loans[%d]", i)
		loans[i] = domain.Loan{
			Name:          l.Name,
			Balance:       errs.amount(field+".balance", l.Balance, false),
			AnnualRatePct: errs.amount(field+".annualRatePct", l.AnnualRatePct, true),
			MinPayment:    errs.amount(field+".minPayment", l.MinPayment, true),
			IsEssential:   l.Essential,
		}
	}
	return loans
}

// AllocationRequest converts the file into a reconciliation request
func (f *HouseholdFile) AllocationRequest() (domain.AllocationRequest, error) {
	var errs fieldErrors
	req := domain.AllocationRequest{
		Income:        errs.amount("income", f.Income, false),
		SavingsPct:    errs.amount("savingsPct", f.SavingsPct, false),
		DebtPct:       errs.amount("debtPct", f.DebtPct, false),
		ExpensesPct:   errs.amount("expensesPct", f.ExpensesPct, false),
		HouseholdSize: f.HouseholdSize,
		Loans:         f.loans(&errs),
	}
	req.Expenses = make([]domain.Expense, len(f.Expenses))
	for i, e := range f.Expenses {
		amount := errs.amount(fmt.Sprintf("expenses[%d].amount", i), e.Amount, false)
		req.Expenses[i] = domain.NewExpense(e.Name, amount, e.Essential)
	}
	return req, errs.err()
}

// PlanInput converts the file into coaching plan input
func (f *HouseholdFile) PlanInput() (service.PlanInput, error) {
	req, err := f.AllocationRequest()
	if err != nil {
		return service.PlanInput{}, err
	}
	var errs fieldErrors
	savings := errs.amount("currentSavings", f.CurrentSavings, true)
	if err := errs.err(); err != nil {
		return service.PlanInput{}, err
	}
	return service.PlanInput{Request: req, CurrentSavings: savings, Month: f.Month}, nil
}

// ErrNoDebtBudget is returned when neither the file nor a flag sets a debt budget
var ErrNoDebtBudget = errors.New("no debt budget: set debtBudget in the file or pass --budget")

// SimulateInput converts the file's loans into simulation input. A non-empty
// budget overrides the file's debtBudget.
func (f *HouseholdFile) SimulateInput(budget, strategy string, withSchedule bool) (service.SimulateInput, error) {
	var errs fieldErrors
	loans := f.loans(&errs)

	if budget == "" {
		budget = f.DebtBudget
	}
	if strings.TrimSpace(budget) == "" {
		if err := errs.err(); err != nil {
			return service.SimulateInput{}, err
		}
		return service.SimulateInput{}, ErrNoDebtBudget
	}
	amount := errs.amount("debtBudget", budget, false)
	if err := errs.err(); err != nil {
		return service.SimulateInput{}, err
	}

	return service.SimulateInput{
		Loans:        loans,
		DebtBudget:   amount,
		Strategy:     strategy,
		WithSchedule: withSchedule,
	}, nil
}
