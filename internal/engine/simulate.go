package engine

import (
	"fmt"

	"github.com/dafibh/fortuna/fortuna-coach/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// LoanBalance is a loan's running state inside one simulation
type LoanBalance struct {
	Name          string
	Balance       decimal.Decimal
	AnnualRatePct decimal.Decimal
	MinPayment    decimal.Decimal
	monthlyRate   decimal.Decimal
}

// Strategy picks which loan receives the month's leftover budget. Less reports
// whether a should be paid before b; ties keep portfolio order.
type Strategy struct {
	Name string
	Less func(a, b *LoanBalance) bool
}

var (
	// Snowball pays the smallest remaining balance first
	Snowball = Strategy{
		Name: domain.StrategySnowball,
		Less: func(a, b *LoanBalance) bool { return a.Balance.LessThan(b.Balance) },
	}
	// Avalanche pays the highest annual rate first
	Avalanche = Strategy{
		Name: domain.StrategyAvalanche,
		Less: func(a, b *LoanBalance) bool { return a.AnnualRatePct.GreaterThan(b.AnnualRatePct) },
	}
)

// StrategyByName resolves "snowball" or "avalanche"
func StrategyByName(name string) (Strategy, error) {
	switch name {
	case domain.StrategySnowball:
		return Snowball, nil
	case domain.StrategyAvalanche:
		return Avalanche, nil
	}
	return Strategy{}, fmt.Errorf("%w: %q", domain.ErrUnknownStrategy, name)
}

// Simulate amortizes loans month by month under strategy, spending at most
// monthlyBudget beyond the minimums on the top-ranked loan. It never runs
// longer than domain.MaxPayoffMonths and never mutates loans.
func Simulate(loans []domain.Loan, monthlyBudget decimal.Decimal, strategy Strategy) domain.SimulationResult {
	result, _ := simulate(loans, monthlyBudget, strategy, false)
	return result
}

// SimulateSchedule is Simulate plus one plan row per simulated month
func SimulateSchedule(loans []domain.Loan, monthlyBudget decimal.Decimal, strategy Strategy) (domain.SimulationResult, []domain.PayoffMonth) {
	return simulate(loans, monthlyBudget, strategy, true)
}

// Compare runs both strategies concurrently against the same portfolio
func Compare(loans []domain.Loan, monthlyBudget decimal.Decimal) domain.StrategyComparison {
	var snowball, avalanche domain.SimulationResult

	var g errgroup.Group
	g.Go(func() error {
		snowball = Simulate(loans, monthlyBudget, Snowball)
		return nil
	})
	g.Go(func() error {
		avalanche = Simulate(loans, monthlyBudget, Avalanche)
		return nil
	})
	// Simulate has no failure path, so Wait only joins the two runs.
	_ = g.Wait()

	return NewComparison(snowball, avalanche)
}

// NewComparison derives the recommendation and savings between two results.
// Avalanche wins only when it is strictly cheaper.
func NewComparison(snowball, avalanche domain.SimulationResult) domain.StrategyComparison {
	cmp := domain.StrategyComparison{
		Snowball:      snowball,
		Avalanche:     avalanche,
		Recommended:   domain.StrategySnowball,
		InterestSaved: decimal.Max(decimal.Zero, snowball.TotalInterestPaid.Sub(avalanche.TotalInterestPaid)),
		MonthsSaved:   snowball.MonthsToPayoff - avalanche.MonthsToPayoff,
	}
	if avalanche.TotalInterestPaid.LessThan(snowball.TotalInterestPaid) {
		cmp.Recommended = domain.StrategyAvalanche
	}
	return cmp
}

func simulate(loans []domain.Loan, monthlyBudget decimal.Decimal, strategy Strategy, withSchedule bool) (domain.SimulationResult, []domain.PayoffMonth) {
	book := make([]*LoanBalance, 0, len(loans))
	for _, l := range loans {
		if !l.Balance.IsPositive() {
			continue
		}
		book = append(book, &LoanBalance{
			Name:          l.Name,
			Balance:       l.Balance,
			AnnualRatePct: l.AnnualRatePct,
			MinPayment:    decimal.Max(decimal.Zero, l.MinPayment),
			monthlyRate:   l.MonthlyRate(),
		})
	}
	budget := decimal.Max(decimal.Zero, monthlyBudget)

	var schedule []domain.PayoffMonth
	totalInterest := decimal.Zero
	month := 0

	for month < domain.MaxPayoffMonths && outstanding(book) {
		month++
		interest := decimal.Zero
		minimums := decimal.Zero

		for _, lb := range book {
			if !lb.Balance.IsPositive() {
				continue
			}
			accrued := lb.Balance.Mul(lb.monthlyRate).Round(2)
			lb.Balance = lb.Balance.Add(accrued)
			interest = interest.Add(accrued)

			pay := decimal.Min(lb.MinPayment, lb.Balance)
			lb.Balance = lb.Balance.Sub(pay)
			minimums = minimums.Add(pay)
		}
		totalInterest = totalInterest.Add(interest)

		extra := decimal.Zero
		targetName := ""
		if leftover := budget.Sub(minimums); leftover.IsPositive() {
			if target := rankFirst(book, strategy); target != nil {
				extra = decimal.Min(leftover, target.Balance)
				target.Balance = target.Balance.Sub(extra)
				targetName = target.Name
			}
		}

		if withSchedule {
			schedule = append(schedule, domain.PayoffMonth{
				Month:            month,
				InterestAccrued:  interest,
				MinimumPaid:      minimums,
				ExtraPaid:        extra,
				TargetLoan:       targetName,
				RemainingBalance: remaining(book),
			})
		}
	}

	return domain.SimulationResult{
		Strategy:          strategy.Name,
		MonthsToPayoff:    month,
		TotalInterestPaid: totalInterest,
		PaidOff:           !outstanding(book),
	}, schedule
}

// rankFirst returns the first loan with a balance under the strategy's ordering
func rankFirst(book []*LoanBalance, strategy Strategy) *LoanBalance {
	var first *LoanBalance
	for _, lb := range book {
		if !lb.Balance.IsPositive() {
			continue
		}
		if first == nil || strategy.Less(lb, first) {
			first = lb
		}
	}
	return first
}

func outstanding(book []*LoanBalance) bool {
	for _, lb := range book {
		if lb.Balance.IsPositive() {
			return true
		}
	}
	return false
}

func remaining(book []*LoanBalance) decimal.Decimal {
	total := decimal.Zero
	for _, lb := range book {
		total = total.Add(lb.Balance)
	}
	return total
}
