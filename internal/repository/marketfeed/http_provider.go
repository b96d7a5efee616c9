// Package marketfeed fetches investment rates from an upstream JSON feed.
package marketfeed

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dafibh/fortuna/fortuna-coach/internal/domain"
	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/valyala/fasthttp"
)

const defaultTimeout = 5 * time.Second

// feedResponse is the upstream payload:
// {"rates":[{"name":"...","kind":"bond_yield","rate":"3.9"}]}
type feedResponse struct {
	Rates []feedRate `json:"rates"`
}

type feedRate struct {
	Name string          `json:"name"`
	Kind string          `json:"kind"`
	Rate decimal.Decimal `json:"rate"`
}

// HTTPProvider implements domain.RateProvider against a JSON feed
type HTTPProvider struct {
	client  *fasthttp.Client
	url     string
	source  string
	timeout time.Duration
	now     func() time.Time
}

var _ domain.RateProvider = (*HTTPProvider)(nil)

// NewHTTPProvider creates a provider for feedURL
func NewHTTPProvider(feedURL string) (*HTTPProvider, error) {
	u, err := url.Parse(feedURL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid market rates url %q", feedURL)
	}
	return &HTTPProvider{
		client: &fasthttp.Client{
			ReadTimeout:         defaultTimeout,
			WriteTimeout:        defaultTimeout,
			MaxIdleConnDuration: 90 * time.Second,
		},
		url:     feedURL,
		source:  u.Host,
		timeout: defaultTimeout,
		now:     time.Now,
	}, nil
}

// Fetch downloads and parses the feed. Entries with an unknown kind or a
// negative rate are skipped.
func (p *HTTPProvider) Fetch(ctx context.Context) (*domain.MarketRates, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(p.url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set(fasthttp.HeaderAccept, "application/json")

	deadline := time.Now().Add(p.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := p.client.DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("fetching market rates: %w", err)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("fetching market rates: unexpected status %d", resp.StatusCode())
	}

	var feed feedResponse
	if err := json.Unmarshal(resp.Body(), &feed); err != nil {
		return nil, fmt.Errorf("decoding market rates: %w", err)
	}

	rates := &domain.MarketRates{
		Options:   make([]domain.InvestmentOption, 0, len(feed.Rates)),
		FetchedAt: p.now().UTC(),
	}
	for _, r := range feed.Rates {
		kind, ok := parseKind(r.Kind)
		if !ok || r.Rate.IsNegative() || strings.TrimSpace(r.Name) == "" {
			continue
		}
		rates.Options = append(rates.Options, domain.InvestmentOption{
			Name:    r.Name,
			Kind:    kind,
			RatePct: r.Rate,
			Source:  p.source,
		})
	}
	return rates, nil
}

func parseKind(s string) (domain.InvestmentKind, bool) {
	switch k := domain.InvestmentKind(strings.ToLower(strings.TrimSpace(s))); k {
	case domain.KindCreditUnionDividend, domain.KindBondYield, domain.KindMoneyMarketFund, domain.KindDeposit:
		return k, true
	}
	return "", false
}
