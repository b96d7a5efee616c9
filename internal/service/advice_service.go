package service

import (
	"fmt"
	"strings"

	"github.com/dafibh/fortuna/fortuna-coach/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	emergencyMonths       = decimal.NewFromInt(6)
	savingsHabitShare     = decimal.RequireFromString("0.1")
	housingCeilingShare   = decimal.RequireFromString("0.3")
	highInterestThreshold = decimal.NewFromInt(15)
)

// housingKeywords identify rent and mortgage expenses
var housingKeywords = []string{"rent", "mortgage", "房租", "房貸"}

// AdviceInput is everything advice is derived from. Previous and Rates are optional.
type AdviceInput struct {
	Request        domain.AllocationRequest
	Allocation     *domain.AllocationResult
	Comparison     domain.StrategyComparison
	CurrentSavings decimal.Decimal
	Previous       *domain.Snapshot
	Rates          *domain.MarketRates
}

// AdviceService turns engine output into guidance text and the seven cures checklist
type AdviceService struct{}

// NewAdviceService creates a new AdviceService
func NewAdviceService() *AdviceService {
	return &AdviceService{}
}

// EmergencyTarget is six months of adjusted expenses plus minimum payments
func EmergencyTarget(alloc *domain.AllocationResult) decimal.Decimal {
	return alloc.AdjustedExpenseTotal.Add(alloc.AdjustedMinPaymentTotal).Mul(emergencyMonths)
}

// Build derives advice from a reconciled allocation and its payoff comparison
func (s *AdviceService) Build(in AdviceInput) domain.Advice {
	alloc := in.Allocation
	advice := domain.Advice{
		EmergencyTarget:     EmergencyTarget(alloc),
		RecommendedStrategy: in.Comparison.Recommended,
		Messages:            make([]string, 0),
	}
	if in.Rates != nil {
		advice.BestOption = in.Rates.Best()
	}

	if alloc.ResidualDeficit.IsPositive() {
		advice.Messages = append(advice.Messages, fmt.Sprintf(
			"Your plan is still short by %s each month. Raise income or lower essential expenses.",
			money(alloc.ResidualDeficit)))
	}
	if alloc.SpareCash.IsPositive() {
		advice.Messages = append(advice.Messages, fmt.Sprintf(
			"You have %s of spare cash each month. Add it to savings or extra debt payments.",
			money(alloc.SpareCash)))
	}

	for _, adj := range alloc.ExpenseAdjustments {
		if adj.Cut().IsPositive() {
			advice.Messages = append(advice.Messages, fmt.Sprintf(
				"Reduce %s from %s to %s (%s).",
				adj.Name, money(adj.OriginalAmount), money(adj.AdjustedAmount), reasonText(adj.Reason)))
		}
	}

	if len(in.Request.Loans) > 0 {
		advice.Messages = append(advice.Messages, payoffMessages(in.Comparison)...)
	}

	if advice.BestOption != nil && advice.BestOption.RatePct.IsPositive() {
		advice.Messages = append(advice.Messages, fmt.Sprintf(
			"Best available rate: %s at %s%% (%s).",
			advice.BestOption.Name, advice.BestOption.RatePct.StringFixed(2), kindText(advice.BestOption.Kind)))
	}

	advice.Checklist = s.sevenCures(in, advice)
	return advice
}

func payoffMessages(cmp domain.StrategyComparison) []string {
	best := cmp.Snowball
	if cmp.Recommended == domain.StrategyAvalanche {
		best = cmp.Avalanche
	}

	if !best.PaidOff {
		return []string{"At the current debt budget your debts will take more than 50 years to pay off."}
	}

	msgs := []string{fmt.Sprintf(
		"With the %s strategy your debts are paid off in %d months with %s of interest.",
		cmp.Recommended, best.MonthsToPayoff, money(best.TotalInterestPaid))}
	if cmp.InterestSaved.IsPositive() {
		msgs = append(msgs, fmt.Sprintf(
			"Avalanche saves %s in interest compared to snowball.", money(cmp.InterestSaved)))
	}
	return msgs
}

func (s *AdviceService) sevenCures(in AdviceInput, advice domain.Advice) []domain.CureCheck {
	alloc := in.Allocation
	income := alloc.Income
	target := advice.EmergencyTarget

	checks := make([]domain.CureCheck, 0, 7)

	habit := income.Mul(savingsHabitShare)
	checks = append(checks, domain.CureCheck{
		Number: 1,
		Title:  "Start thy purse to fattening",
		Done:   income.IsPositive() && alloc.AdjustedSavings.GreaterThanOrEqual(habit),
		Detail: fmt.Sprintf("Saving %s of at least %s (10%% of income).", money(alloc.AdjustedSavings), money(habit)),
	})

	checks = append(checks, domain.CureCheck{
		Number: 2,
		Title:  "Control thy expenditures",
		Done:   !alloc.ResidualDeficit.IsPositive(),
		Detail: fmt.Sprintf("Residual deficit %s.", money(alloc.ResidualDeficit)),
	})

	idle := alloc.SpareCash.IsPositive() || in.CurrentSavings.GreaterThan(target)
	multiply := domain.CureCheck{Number: 3, Title: "Make thy gold multiply"}
	switch {
	case !idle:
		multiply.Detail = "No spare cash or surplus savings to invest yet."
	case advice.BestOption == nil || !advice.BestOption.RatePct.IsPositive():
		multiply.Detail = "No investment option with a positive rate is available."
	default:
		multiply.Done = true
		multiply.Detail = fmt.Sprintf("Put idle money into %s at %s%%.",
			advice.BestOption.Name, advice.BestOption.RatePct.StringFixed(2))
	}
	checks = append(checks, multiply)

	highRate := 0
	for _, l := range in.Request.Loans {
		if l.Balance.IsPositive() && l.AnnualRatePct.GreaterThanOrEqual(highInterestThreshold) {
			highRate++
		}
	}
	recommended := in.Comparison.Snowball
	if in.Comparison.Recommended == domain.StrategyAvalanche {
		recommended = in.Comparison.Avalanche
	}
	checks = append(checks, domain.CureCheck{
		Number: 4,
		Title:  "Guard thy treasures from loss",
		Done:   highRate == 0 || recommended.PaidOff,
		Detail: fmt.Sprintf("%d loan(s) at 15%% or more; payoff plan converges: %t.", highRate, recommended.PaidOff),
	})

	housing := housingTotal(alloc.ExpenseAdjustments)
	ceiling := income.Mul(housingCeilingShare)
	checks = append(checks, domain.CureCheck{
		Number: 5,
		Title:  "Make of thy dwelling a profitable investment",
		Done:   housing.LessThanOrEqual(ceiling),
		Detail: fmt.Sprintf("Housing costs %s against a ceiling of %s (30%% of income).", money(housing), money(ceiling)),
	})

	checks = append(checks, domain.CureCheck{
		Number: 6,
		Title:  "Insure a future income",
		Done:   in.CurrentSavings.GreaterThanOrEqual(target),
		Detail: fmt.Sprintf("Savings %s of an emergency target of %s.", money(in.CurrentSavings), money(target)),
	})

	earn := domain.CureCheck{Number: 7, Title: "Increase thy ability to earn"}
	if in.Previous == nil {
		earn.Detail = "No earlier snapshot to compare income against."
	} else {
		earn.Done = income.GreaterThan(in.Previous.Salary)
		earn.Detail = fmt.Sprintf("Income %s versus %s in %s.", money(income), money(in.Previous.Salary), in.Previous.Month)
	}
	checks = append(checks, earn)

	return checks
}

func housingTotal(adjustments []domain.ExpenseAdjustment) decimal.Decimal {
	total := decimal.Zero
	for _, adj := range adjustments {
		name := strings.ToLower(adj.Name)
		for _, k := range housingKeywords {
			if strings.Contains(name, k) {
				total = total.Add(adj.AdjustedAmount)
				break
			}
		}
	}
	return total
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func reasonText(r domain.AdjustmentReason) string {
	switch r {
	case domain.ReasonDebtOverage:
		return "to cover minimum debt payments"
	case domain.ReasonExpenseOverage:
		return "to fit the expense budget"
	case domain.ReasonResidualDeficit:
		return "to close the remaining deficit"
	}
	return string(r)
}

func kindText(k domain.InvestmentKind) string {
	return strings.ReplaceAll(string(k), "_", " ")
}
