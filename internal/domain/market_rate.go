package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// InvestmentKind classifies a market option
type InvestmentKind string

const (
	KindCreditUnionDividend InvestmentKind = "credit_union_dividend"
	KindBondYield           InvestmentKind = "bond_yield"
	KindMoneyMarketFund     InvestmentKind = "money_market_fund"
	KindDeposit             InvestmentKind = "deposit"
)

// InvestmentOption is a named place to park savings, used for advice text only
type InvestmentOption struct {
	Name    string          `json:"name"`
	Kind    InvestmentKind  `json:"kind"`
	RatePct decimal.Decimal `json:"ratePct"`
	Source  string          `json:"source,omitempty"`
}

// MarketRates is a dated set of investment options
type MarketRates struct {
	Options   []InvestmentOption `json:"options"`
	FetchedAt time.Time          `json:"fetchedAt"`
}

// Best returns the option with the highest rate, or nil when there are none
func (m *MarketRates) Best() *InvestmentOption {
	var best *InvestmentOption
	for i := range m.Options {
		if best == nil || m.Options[i].RatePct.GreaterThan(best.RatePct) {
			best = &m.Options[i]
		}
	}
	return best
}

// RateProvider fetches current market rates from an upstream source
type RateProvider interface {
	Fetch(ctx context.Context) (*MarketRates, error)
}

// RateCache stores the most recent market rates
type RateCache interface {
	Get(ctx context.Context) (*MarketRates, bool, error)
	Set(ctx context.Context, rates *MarketRates, ttl time.Duration) error
}
