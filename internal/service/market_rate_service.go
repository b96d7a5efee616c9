package service

import (
	"context"
	"errors"
	"time"

	"github.com/dafibh/fortuna/fortuna-coach/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// DefaultMarketRateTTL is how long fetched rates stay cached
const DefaultMarketRateTTL = 12 * time.Hour

// ErrNoRateProvider is returned by Refresh when no upstream feed is configured
var ErrNoRateProvider = errors.New("market rate provider not configured")

// DefaultMarketRates are served when neither the cache nor the provider has data
func DefaultMarketRates() *domain.MarketRates {
	return &domain.MarketRates{
		Options: []domain.InvestmentOption{
			{Name: "Credit union share certificate", Kind: domain.KindCreditUnionDividend, RatePct: decimal.RequireFromString("3.00"), Source: "default"},
			{Name: "Government bond", Kind: domain.KindBondYield, RatePct: decimal.RequireFromString("4.00"), Source: "default"},
			{Name: "Money market fund", Kind: domain.KindMoneyMarketFund, RatePct: decimal.RequireFromString("4.50"), Source: "default"},
			{Name: "Time deposit", Kind: domain.KindDeposit, RatePct: decimal.RequireFromString("1.50"), Source: "default"},
		},
	}
}

// MarketRateService serves investment options for advice text
type MarketRateService struct {
	cache    domain.RateCache
	provider domain.RateProvider
	ttl      time.Duration
}

// NewMarketRateService creates a new MarketRateService. provider may be nil.
func NewMarketRateService(cache domain.RateCache, provider domain.RateProvider, ttl time.Duration) *MarketRateService {
	if ttl <= 0 {
		ttl = DefaultMarketRateTTL
	}
	return &MarketRateService{
		cache:    cache,
		provider: provider,
		ttl:      ttl,
	}
}

// Options returns cached rates, falling back to the provider and then to defaults.
// It only fails when ctx is done.
func (s *MarketRateService) Options(ctx context.Context) (*domain.MarketRates, error) {
	rates, ok, err := s.cache.Get(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to read market rate cache")
	}
	if ok && len(rates.Options) > 0 {
		return rates, nil
	}

	if s.provider != nil {
		fresh, err := s.Refresh(ctx)
		if err == nil {
			return fresh, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		log.Warn().Err(err).Msg("Failed to fetch market rates, using defaults")
	}

	return DefaultMarketRates(), nil
}

// Refresh fetches rates from the provider and stores them in the cache
func (s *MarketRateService) Refresh(ctx context.Context) (*domain.MarketRates, error) {
	if s.provider == nil {
		return nil, ErrNoRateProvider
	}

	rates, err := s.provider.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if len(rates.Options) == 0 {
		return nil, errors.New("market rate feed returned no usable options")
	}

	if err := s.cache.Set(ctx, rates, s.ttl); err != nil {
		log.Warn().Err(err).Msg("Failed to cache market rates")
	}
	return rates, nil
}
