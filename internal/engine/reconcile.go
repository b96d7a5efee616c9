package engine

import (
	"fmt"
	"sort"

	"github.com/dafibh/fortuna/fortuna-coach/internal/domain"
	"github.com/shopspring/decimal"
)

// MaxIterations bounds the reconciliation loop
const MaxIterations = 5

var (
	hundred = decimal.NewFromInt(100)

	essentialFloorShare    = decimal.RequireFromString("0.4")
	nonEssentialFloorShare = decimal.RequireFromString("0.1")
	defaultMemberShare     = decimal.RequireFromString("0.2")

	overageCutShare  = decimal.RequireFromString("0.3")
	residualCutShare = decimal.RequireFromString("0.2")

	smallHouseholdSavingsShare = decimal.RequireFromString("0.05")
	largeHouseholdSavingsShare = decimal.RequireFromString("0.03")
	outgoCeilingShare          = decimal.RequireFromString("0.95")
)

// InvalidInputError reports a structurally invalid allocation request.
// It matches domain.ErrInvalidInput with errors.Is.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *InvalidInputError) Unwrap() error {
	return domain.ErrInvalidInput
}

// ValidateRequest checks the structural preconditions of a reconciliation
func ValidateRequest(req domain.AllocationRequest) error {
	if req.Income.IsNegative() {
		return &InvalidInputError{Field: "income", Reason: "must not be negative"}
	}
	pcts := []struct {
		field string
		value decimal.Decimal
	}{
		{"savingsPct", req.SavingsPct},
		{"debtPct", req.DebtPct},
		{"expensesPct", req.ExpensesPct},
	}
	for _, p := range pcts {
		if p.value.IsNegative() {
			return &InvalidInputError{Field: p.field, Reason: "must not be negative"}
		}
	}
	sum := req.SavingsPct.Add(req.DebtPct).Add(req.ExpensesPct)
	if !sum.Equal(hundred) {
		return &InvalidInputError{
			Field:  "percentages",
			Reason: fmt.Sprintf("must sum to 100, got %s", sum.String()),
		}
	}
	return nil
}

// SavingsFloor is the lowest savings allocation reconciliation may cut to
func SavingsFloor(income decimal.Decimal, householdSize int) decimal.Decimal {
	if householdSize <= 2 {
		return income.Mul(smallHouseholdSavingsShare)
	}
	return income.Mul(largeHouseholdSavingsShare)
}

// ExpenseFloor is the minimum an expense may be reduced to
func ExpenseFloor(e domain.Expense, expenseBudget decimal.Decimal, householdSize int, c *Classifier) decimal.Decimal {
	if householdSize < 1 {
		householdSize = 1
	}
	share := nonEssentialFloorShare
	if e.IsEssential {
		share = essentialFloorShare
	}
	perPerson := expenseBudget.Mul(share).Div(decimal.NewFromInt(int64(householdSize)))
	return perPerson.Mul(c.Scale(e.Name, householdSize))
}

// reconciliation is the working state of a single Reconcile call
type reconciliation struct {
	income        decimal.Decimal
	savings       decimal.Decimal
	savingsFloor  decimal.Decimal
	debtBudget    decimal.Decimal
	expenseBudget decimal.Decimal
	minPayments   decimal.Decimal
	items         []domain.ExpenseAdjustment
}

// Reconcile turns target percentages and itemized obligations into a feasible
// monthly allocation. It is a pure function of req and c; a nil classifier uses
// DefaultClassifier.
func Reconcile(req domain.AllocationRequest, c *Classifier) (*domain.AllocationResult, error) {
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}
	if c == nil {
		c = DefaultClassifier()
	}

	household := req.HouseholdSize
	if household < 1 {
		household = 1
	}

	r := &reconciliation{
		income:        req.Income,
		savings:       req.Income.Mul(req.SavingsPct).Div(hundred),
		debtBudget:    req.Income.Mul(req.DebtPct).Div(hundred),
		expenseBudget: req.Income.Mul(req.ExpensesPct).Div(hundred),
		minPayments:   domain.TotalMinPayments(req.Loans),
		savingsFloor:  SavingsFloor(req.Income, household),
		items:         make([]domain.ExpenseAdjustment, len(req.Expenses)),
	}
	for i, e := range req.Expenses {
		r.items[i] = domain.ExpenseAdjustment{
			ExpenseID:      e.ID,
			Name:           e.Name,
			IsEssential:    e.IsEssential,
			OriginalAmount: e.Amount,
			AdjustedAmount: e.Amount,
			Floor:          ExpenseFloor(e, r.expenseBudget, household, c),
			Reason:         domain.ReasonUnchanged,
		}
	}

	iterations := 0
	for r.deficit().IsPositive() && iterations < MaxIterations {
		r.coverDebtOverage()
		r.coverExpenseOverage()
		r.coverResidualDeficit()
		if d := r.deficit(); d.IsPositive() {
			r.cutSavings(d)
		}
		iterations++
	}

	// The savings floor is re-asserted even when it reopens a shortfall.
	if r.outgo().GreaterThan(r.income.Mul(outgoCeilingShare)) {
		r.savings = decimal.Max(r.savings, r.savingsFloor)
	}

	r.debtBudget = decimal.Max(r.debtBudget, r.minPayments)
	outgo := r.outgo()

	return &domain.AllocationResult{
		Income:                  r.income,
		AdjustedSavings:         r.savings,
		AdjustedDebtBudget:      r.debtBudget,
		AdjustedExpenseTotal:    r.expenseTotal(),
		AdjustedMinPaymentTotal: r.minPayments,
		SavingsFloor:            r.savingsFloor,
		ExpenseAdjustments:      r.items,
		SpareCash:               decimal.Max(decimal.Zero, r.income.Sub(outgo)),
		ResidualDeficit:         decimal.Max(decimal.Zero, outgo.Sub(r.income)),
		Iterations:              iterations,
	}, nil
}

func (r *reconciliation) expenseTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range r.items {
		total = total.Add(it.AdjustedAmount)
	}
	return total
}

// outgo counts debt at its minimum payments. Debt budget above the minimums
// is a target for extra payments, not an obligation.
func (r *reconciliation) outgo() decimal.Decimal {
	return r.savings.Add(r.minPayments).Add(r.expenseTotal())
}

func (r *reconciliation) deficit() decimal.Decimal {
	return r.outgo().Sub(r.income)
}

// coverDebtOverage raises the debt budget to the minimum payments and funds
// the difference from non-essential expenses, then from savings.
func (r *reconciliation) coverDebtOverage() {
	if !r.minPayments.GreaterThan(r.debtBudget) {
		return
	}
	overage := r.minPayments.Sub(r.debtBudget)
	r.debtBudget = r.minPayments

	remaining := r.cutNonEssential(r.insertionOrder(), overage, excessCap, domain.ReasonDebtOverage)
	if remaining.IsPositive() {
		r.cutSavings(decimal.Min(remaining, r.savings.Mul(overageCutShare)))
	}
}

// coverExpenseOverage trims non-essential expenses, largest first, until the
// expense total fits the expense budget.
func (r *reconciliation) coverExpenseOverage() {
	total := r.expenseTotal()
	if !total.GreaterThan(r.expenseBudget) {
		return
	}
	r.cutNonEssential(r.largestFirstOrder(), total.Sub(r.expenseBudget), excessCap, domain.ReasonExpenseOverage)
}

func (r *reconciliation) coverResidualDeficit() {
	d := r.deficit()
	if !d.IsPositive() {
		return
	}
	r.cutNonEssential(r.insertionOrder(), d, currentCap, domain.ReasonResidualDeficit)
}

// cutCap limits a single cut given the expense's current state
type cutCap func(it domain.ExpenseAdjustment) decimal.Decimal

func excessCap(it domain.ExpenseAdjustment) decimal.Decimal {
	return it.AdjustedAmount.Sub(it.Floor).Mul(overageCutShare)
}

func currentCap(it domain.ExpenseAdjustment) decimal.Decimal {
	return it.AdjustedAmount.Mul(residualCutShare)
}

// cutNonEssential walks order cutting non-essential expenses until budget is
// spent. No expense goes below its floor. Returns the uncovered remainder.
func (r *reconciliation) cutNonEssential(order []int, budget decimal.Decimal, limit cutCap, reason domain.AdjustmentReason) decimal.Decimal {
	remaining := budget
	for _, i := range order {
		if !remaining.IsPositive() {
			break
		}
		it := &r.items[i]
		if it.IsEssential {
			continue
		}
		room := it.AdjustedAmount.Sub(it.Floor)
		if !room.IsPositive() {
			continue
		}
		cut := decimal.Min(limit(*it), room, remaining)
		if !cut.IsPositive() {
			continue
		}
		it.AdjustedAmount = it.AdjustedAmount.Sub(cut)
		it.Reason = reason
		remaining = remaining.Sub(cut)
	}
	return remaining
}

// cutSavings reduces savings by up to amount without crossing the floor
func (r *reconciliation) cutSavings(amount decimal.Decimal) decimal.Decimal {
	room := r.savings.Sub(r.savingsFloor)
	if !room.IsPositive() || !amount.IsPositive() {
		return decimal.Zero
	}
	cut := decimal.Min(amount, room)
	r.savings = r.savings.Sub(cut)
	return cut
}

func (r *reconciliation) insertionOrder() []int {
	order := make([]int, len(r.items))
	for i := range order {
		order[i] = i
	}
	return order
}

func (r *reconciliation) largestFirstOrder() []int {
	order := r.insertionOrder()
	sort.SliceStable(order, func(a, b int) bool {
		return r.items[order[a]].AdjustedAmount.GreaterThan(r.items[order[b]].AdjustedAmount)
	})
	return order
}
