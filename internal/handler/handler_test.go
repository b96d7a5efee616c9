package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dafibh/fortuna/fortuna-coach/internal/domain"
	"github.com/dafibh/fortuna/fortuna-coach/internal/engine"
	"github.com/dafibh/fortuna/fortuna-coach/internal/middleware"
	"github.com/dafibh/fortuna/fortuna-coach/internal/service"
	"github.com/dafibh/fortuna/fortuna-coach/internal/testutil"
	"github.com/dafibh/fortuna/fortuna-coach/internal/websocket"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

const allocationBody = `{
	"income": "6000",
	"savingsPct": "20",
	"debtPct": "20",
	"expensesPct": "60",
	"householdSize": 2,
	"loans": [
		{"name": "Credit card", "balance": "3000", "annualRatePct": "20", "minPayment": "90"},
		{"name": "Car loan", "balance": "6000", "annualRatePct": "6", "minPayment": "200"}
	],
	"expenses": [
		{"name": "Rent", "amount": "1500", "isEssential": true},
		{"name": "Groceries", "amount": "600", "isEssential": true},
		{"name": "Dining", "amount": "300"}
	]`

// planBody is allocationBody closed off with a current savings balance
const planBody = allocationBody + `,
	"currentSavings": "4000"
}`

// testServer wires every handler behind the real router
type testServer struct {
	echo      *echo.Echo
	snapshots *testutil.MockSnapshotRepository
	storage   *testutil.MockReportStorage
	publisher *testutil.MockEventPublisher
	limiter   *middleware.RateLimiter
}

func newTestServer(t *testing.T, withStorage bool) *testServer {
	t.Helper()

	snapshots := testutil.NewMockSnapshotRepository()
	publisher := &testutil.MockEventPublisher{}
	provider := &testutil.MockRateProvider{Rates: &domain.MarketRates{
		Options: []domain.InvestmentOption{
			{Name: "Credit union dividend", Kind: domain.KindCreditUnionDividend, RatePct: decimal.RequireFromString("3.25"), Source: "feed"},
			{Name: "10y treasury", Kind: domain.KindBondYield, RatePct: decimal.RequireFromString("4.10"), Source: "feed"},
		},
		FetchedAt: time.Now().UTC(),
	}}
	rates := service.NewMarketRateService(testutil.NewMockRateCache(), provider, time.Hour)

	coach := service.NewCoachService(engine.DefaultClassifier(), snapshots, rates, service.NewAdviceService())
	coach.SetEventPublisher(publisher)

	var storage *testutil.MockReportStorage
	var reports *service.ReportService
	if withStorage {
		storage = testutil.NewMockReportStorage()
		reports = service.NewReportService(storage, time.Hour)
	} else {
		reports = service.NewReportService(nil, time.Hour)
	}
	reports.SetEventPublisher(publisher)

	limiter := middleware.NewRateLimiterWithConfig(1000, 100)
	t.Cleanup(limiter.Stop)

	e := echo.New()
	e.JSONSerializer = JSONSerializer{}
	RegisterRoutes(e, Handlers{
		Allocation: NewAllocationHandler(coach),
		Debt:       NewDebtHandler(coach),
		Plan:       NewPlanHandler(coach),
		MarketRate: NewMarketRateHandler(rates),
		Report:     NewReportHandler(coach, reports),
		WebSocket:  NewWebSocketHandler(websocket.NewHub(), nil),
	}, limiter)

	return &testServer{
		echo:      e,
		snapshots: snapshots,
		storage:   storage,
		publisher: publisher,
		limiter:   limiter,
	}
}

// do sends a request through the router. A nil householdID leaves the header unset.
func (s *testServer) do(method, path, body string, householdID *uuid.UUID) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if householdID != nil {
		req.Header.Set(middleware.HouseholdHeader, householdID.String())
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func assertStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("Expected status %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

func TestRegisterRoutes_HouseholdHeaderRequired(t *testing.T) {
	s := newTestServer(t, false)

	for _, route := range []struct{ method, path string }{
		{http.MethodPost, "/api/v1/plans"},
		{http.MethodGet, "/api/v1/snapshots"},
		{http.MethodPost, "/api/v1/reports"},
	} {
		rec := s.do(route.method, route.path, "", nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s %s: expected status 400, got %d", route.method, route.path, rec.Code)
		}
	}
}

func TestRegisterRoutes_RateLimitHeaders(t *testing.T) {
	s := newTestServer(t, false)

	rec := s.do(http.MethodGet, "/api/v1/market-rates", "", nil)

	assertStatus(t, rec, http.StatusOK)
	if rec.Header().Get("X-RateLimit-Limit") != "1000" {
		t.Errorf("Expected X-RateLimit-Limit 1000, got %q", rec.Header().Get("X-RateLimit-Limit"))
	}
}
