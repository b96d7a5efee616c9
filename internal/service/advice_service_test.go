package service

import (
	"testing"

	"github.com/dafibh/fortuna/fortuna-coach/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func adjustment(name string, original, adjusted string, essential bool, reason domain.AdjustmentReason) domain.ExpenseAdjustment {
	return domain.ExpenseAdjustment{
		Name:           name,
		IsEssential:    essential,
		OriginalAmount: dec(original),
		AdjustedAmount: dec(adjusted),
		Reason:         reason,
	}
}

func healthyAdviceInput() AdviceInput {
	return AdviceInput{
		Request: domain.AllocationRequest{
			Income: dec("10000"),
			Loans: []domain.Loan{
				{Name: "Credit card", Balance: dec("5000"), AnnualRatePct: dec("18"), MinPayment: dec("150")},
			},
		},
		Allocation: &domain.AllocationResult{
			Income:                  dec("10000"),
			AdjustedSavings:         dec("2000"),
			AdjustedDebtBudget:      dec("1000"),
			AdjustedExpenseTotal:    dec("3000"),
			AdjustedMinPaymentTotal: dec("500"),
			SpareCash:               dec("4000"),
			ResidualDeficit:         decimal.Zero,
			ExpenseAdjustments: []domain.ExpenseAdjustment{
				adjustment("Rent", "1500", "1500", true, domain.ReasonUnchanged),
				adjustment("Dining", "1500", "1500", false, domain.ReasonUnchanged),
			},
		},
		Comparison: domain.StrategyComparison{
			Snowball:      domain.SimulationResult{Strategy: domain.StrategySnowball, MonthsToPayoff: 12, TotalInterestPaid: dec("150"), PaidOff: true},
			Avalanche:     domain.SimulationResult{Strategy: domain.StrategyAvalanche, MonthsToPayoff: 12, TotalInterestPaid: dec("100"), PaidOff: true},
			Recommended:   domain.StrategyAvalanche,
			InterestSaved: dec("50"),
		},
		CurrentSavings: dec("25000"),
		Previous:       &domain.Snapshot{Month: "2026-09", Salary: dec("9000")},
		Rates:          DefaultMarketRates(),
	}
}

func TestEmergencyTarget(t *testing.T) {
	alloc := &domain.AllocationResult{
		AdjustedExpenseTotal:    dec("3000"),
		AdjustedMinPaymentTotal: dec("500"),
	}
	assert.True(t, dec("21000").Equal(EmergencyTarget(alloc)))
}

func TestAdviceService_Build_Healthy(t *testing.T) {
	svc := NewAdviceService()

	advice := svc.Build(healthyAdviceInput())

	assert.True(t, dec("21000").Equal(advice.EmergencyTarget))
	assert.Equal(t, domain.StrategyAvalanche, advice.RecommendedStrategy)
	require.NotNil(t, advice.BestOption)
	assert.Equal(t, domain.KindMoneyMarketFund, advice.BestOption.Kind)

	require.Len(t, advice.Checklist, 7)
	for i, c := range advice.Checklist {
		assert.Equal(t, i+1, c.Number)
		assert.True(t, c.Done, "cure %d should be done: %s", c.Number, c.Detail)
	}
	assert.Equal(t, 7, advice.CompletedCures())

	assert.Contains(t, advice.Messages, "You have 4000.00 of spare cash each month. Add it to savings or extra debt payments.")
	assert.Contains(t, advice.Messages, "With the avalanche strategy your debts are paid off in 12 months with 100.00 of interest.")
	assert.Contains(t, advice.Messages, "Avalanche saves 50.00 in interest compared to snowball.")
	assert.Contains(t, advice.Messages, "Best available rate: Money market fund at 4.50% (money market fund).")
}

func TestAdviceService_Build_Struggling(t *testing.T) {
	svc := NewAdviceService()

	in := AdviceInput{
		Request: domain.AllocationRequest{
			Income: dec("5000"),
			Loans: []domain.Loan{
				{Name: "Payday loan", Balance: dec("10000"), AnnualRatePct: dec("24"), MinPayment: dec("100")},
			},
		},
		Allocation: &domain.AllocationResult{
			Income:                  dec("5000"),
			AdjustedSavings:         dec("200"),
			AdjustedDebtBudget:      dec("100"),
			AdjustedExpenseTotal:    dec("5200"),
			AdjustedMinPaymentTotal: dec("100"),
			ResidualDeficit:         dec("500"),
			SpareCash:               decimal.Zero,
			ExpenseAdjustments: []domain.ExpenseAdjustment{
				adjustment("Rent", "2000", "2000", true, domain.ReasonUnchanged),
				adjustment("Dining", "800", "400", false, domain.ReasonResidualDeficit),
			},
		},
		Comparison: domain.StrategyComparison{
			Snowball:    domain.SimulationResult{Strategy: domain.StrategySnowball, MonthsToPayoff: domain.MaxPayoffMonths, TotalInterestPaid: dec("9000")},
			Avalanche:   domain.SimulationResult{Strategy: domain.StrategyAvalanche, MonthsToPayoff: domain.MaxPayoffMonths, TotalInterestPaid: dec("9000")},
			Recommended: domain.StrategySnowball,
		},
		CurrentSavings: decimal.Zero,
	}

	advice := svc.Build(in)

	assert.Nil(t, advice.BestOption)
	assert.Equal(t, 0, advice.CompletedCures())
	assert.Contains(t, advice.Messages, "Your plan is still short by 500.00 each month. Raise income or lower essential expenses.")
	assert.Contains(t, advice.Messages, "Reduce Dining from 800.00 to 400.00 (to close the remaining deficit).")
	assert.Contains(t, advice.Messages, "At the current debt budget your debts will take more than 50 years to pay off.")

	// Rent is unchanged so it gets no cut line
	for _, m := range advice.Messages {
		assert.NotContains(t, m, "Reduce Rent")
	}

	assert.Equal(t, "No earlier snapshot to compare income against.", advice.Checklist[6].Detail)
	assert.Equal(t, "No spare cash or surplus savings to invest yet.", advice.Checklist[2].Detail)
}

func TestAdviceService_Build_NoLoans(t *testing.T) {
	svc := NewAdviceService()

	in := healthyAdviceInput()
	in.Request.Loans = nil
	in.Comparison = domain.StrategyComparison{
		Snowball:    domain.SimulationResult{Strategy: domain.StrategySnowball, PaidOff: true},
		Avalanche:   domain.SimulationResult{Strategy: domain.StrategyAvalanche, PaidOff: true},
		Recommended: domain.StrategySnowball,
	}

	advice := svc.Build(in)

	for _, m := range advice.Messages {
		assert.NotContains(t, m, "strategy your debts")
	}
	assert.True(t, advice.Checklist[3].Done)
}

func TestAdviceService_Build_HousingCeiling(t *testing.T) {
	svc := NewAdviceService()

	tests := []struct {
		name     string
		expense  string
		amount   string
		expected bool
	}{
		{"rent under ceiling", "Rent", "3000", true},
		{"mortgage over ceiling", "Home mortgage", "3500", false},
		{"chinese rent keyword", "房租", "3001", false},
		{"non housing expense ignored", "Groceries", "9000", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := healthyAdviceInput()
			in.Allocation.ExpenseAdjustments = []domain.ExpenseAdjustment{
				adjustment(tt.expense, tt.amount, tt.amount, true, domain.ReasonUnchanged),
			}

			advice := svc.Build(in)
			assert.Equal(t, tt.expected, advice.Checklist[4].Done, advice.Checklist[4].Detail)
		})
	}
}

func TestAdviceService_Build_IncomeGrowth(t *testing.T) {
	svc := NewAdviceService()

	in := healthyAdviceInput()
	in.Previous = &domain.Snapshot{Month: "2026-09", Salary: dec("10000")}

	advice := svc.Build(in)

	assert.False(t, advice.Checklist[6].Done)
	assert.Equal(t, "Income 10000.00 versus 10000.00 in 2026-09.", advice.Checklist[6].Detail)
}

func TestAdviceService_Build_NoPositiveRate(t *testing.T) {
	svc := NewAdviceService()

	in := healthyAdviceInput()
	in.Rates = &domain.MarketRates{Options: []domain.InvestmentOption{
		{Name: "Savings account", Kind: domain.KindDeposit, RatePct: decimal.Zero},
	}}

	advice := svc.Build(in)

	assert.False(t, advice.Checklist[2].Done)
	for _, m := range advice.Messages {
		assert.NotContains(t, m, "Best available rate")
	}
}
