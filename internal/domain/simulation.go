package domain

import "github.com/shopspring/decimal"

// MaxPayoffMonths caps a payoff simulation at 50 years
const MaxPayoffMonths = 600

// Strategy names
const (
	StrategySnowball  = "snowball"
	StrategyAvalanche = "avalanche"
	StrategyCompare   = "compare"
)

// SimulationResult summarizes one payoff simulation. MonthsToPayoff equals
// MaxPayoffMonths and PaidOff is false when the schedule did not converge.
type SimulationResult struct {
	Strategy          string          `json:"strategy"`
	MonthsToPayoff    int             `json:"monthsToPayoff"`
	TotalInterestPaid decimal.Decimal `json:"totalInterestPaid"`
	PaidOff           bool            `json:"paidOff"`
}

// PayoffMonth is one row of a simulated payoff schedule
type PayoffMonth struct {
	Month            int             `json:"month"`
	InterestAccrued  decimal.Decimal `json:"interestAccrued"`
	MinimumPaid      decimal.Decimal `json:"minimumPaid"`
	ExtraPaid        decimal.Decimal `json:"extraPaid"`
	TargetLoan       string          `json:"targetLoan,omitempty"`
	RemainingBalance decimal.Decimal `json:"remainingBalance"`
}

// StrategyComparison holds both strategies run against the same portfolio
type StrategyComparison struct {
	Snowball      SimulationResult `json:"snowball"`
	Avalanche     SimulationResult `json:"avalanche"`
	Recommended   string           `json:"recommended"`
	InterestSaved decimal.Decimal  `json:"interestSaved"`
	MonthsSaved   int              `json:"monthsSaved"`
}
