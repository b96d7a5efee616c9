package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dafibh/fortuna/fortuna-coach/internal/domain"
	"github.com/dafibh/fortuna/fortuna-coach/internal/engine"
	"github.com/dafibh/fortuna/fortuna-coach/internal/testutil"
	"github.com/dafibh/fortuna/fortuna-coach/internal/websocket"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, time.October, 15, 9, 30, 0, 0, time.UTC)

func setupCoachService() (*CoachService, *testutil.MockSnapshotRepository, *testutil.MockEventPublisher) {
	repo := testutil.NewMockSnapshotRepository()
	publisher := &testutil.MockEventPublisher{}

	svc := NewCoachService(engine.DefaultClassifier(), repo, nil, NewAdviceService())
	svc.SetEventPublisher(publisher)
	svc.now = func() time.Time { return fixedNow }
	return svc, repo, publisher
}

func householdRequest() domain.AllocationRequest {
	return domain.AllocationRequest{
		Income:        dec("6000"),
		SavingsPct:    dec("20"),
		DebtPct:       dec("20"),
		ExpensesPct:   dec("60"),
		HouseholdSize: 2,
		Loans: []domain.Loan{
			{Name: "Credit card", Balance: dec("3000"), AnnualRatePct: dec("20"), MinPayment: dec("90")},
			{Name: "Car loan", Balance: dec("6000"), AnnualRatePct: dec("6"), MinPayment: dec("200")},
		},
		Expenses: []domain.Expense{
			{Name: "Rent", Amount: dec("1500"), IsEssential: true},
			{Name: "Groceries", Amount: dec("600"), IsEssential: true},
			{Name: "Dining", Amount: dec("300")},
		},
	}
}

func testPlan(t *testing.T) *domain.Plan {
	t.Helper()
	svc := NewCoachService(nil, nil, nil, nil)
	svc.now = func() time.Time { return fixedNow }

	plan, err := svc.Plan(context.Background(), uuid.New(), PlanInput{
		Request:        householdRequest(),
		CurrentSavings: dec("4000"),
	})
	require.NoError(t, err)
	return plan
}

func recommendedResult(cmp domain.StrategyComparison) domain.SimulationResult {
	if cmp.Recommended == domain.StrategyAvalanche {
		return cmp.Avalanche
	}
	return cmp.Snowball
}

func TestCoachService_Plan(t *testing.T) {
	svc, repo, publisher := setupCoachService()
	householdID := uuid.New()

	plan, err := svc.Plan(context.Background(), householdID, PlanInput{
		Request:        householdRequest(),
		CurrentSavings: dec("4000"),
	})
	require.NoError(t, err)

	assert.Equal(t, "2026-10", plan.Month)
	assert.Equal(t, householdID, plan.HouseholdID)

	alloc := plan.Allocation
	assert.True(t, dec("1200").Equal(alloc.AdjustedSavings))
	assert.True(t, dec("1200").Equal(alloc.AdjustedDebtBudget))
	assert.True(t, dec("2400").Equal(alloc.AdjustedExpenseTotal))
	assert.True(t, dec("2110").Equal(alloc.SpareCash))
	assert.Equal(t, 0, alloc.Iterations)
	for _, adj := range alloc.ExpenseAdjustments {
		assert.NotEqual(t, uuid.Nil, adj.ExpenseID)
	}

	best := recommendedResult(plan.Comparison)
	assert.True(t, best.PaidOff)
	require.Len(t, plan.Schedule, best.MonthsToPayoff)
	assert.True(t, plan.Schedule[len(plan.Schedule)-1].RemainingBalance.IsZero())

	assert.True(t, dec("16140").Equal(plan.Advice.EmergencyTarget))
	assert.Len(t, plan.Advice.Checklist, 7)

	require.NotNil(t, plan.SnapshotID)
	assert.Equal(t, 1, repo.Count(householdID))
	saved, err := repo.Latest(context.Background(), householdID)
	require.NoError(t, err)
	assert.Equal(t, *plan.SnapshotID, saved.ID)
	assert.True(t, dec("6000").Equal(saved.Salary))
	assert.True(t, dec("4000").Equal(saved.CurrentSavings))
	assert.Equal(t, plan.Comparison.Snowball, saved.Snowball)

	events := publisher.Published()
	require.Len(t, events, 1)
	assert.Equal(t, householdID, events[0].HouseholdID)
	assert.Equal(t, "snapshot.created", events[0].Event.Type)
	assert.Equal(t, websocket.EntityTypeSnapshot, events[0].Event.Entity)
}

func TestCoachService_Plan_DoesNotMutateRequest(t *testing.T) {
	svc, _, _ := setupCoachService()
	req := householdRequest()

	_, err := svc.Plan(context.Background(), uuid.New(), PlanInput{Request: req})
	require.NoError(t, err)

	for _, e := range req.Expenses {
		assert.Equal(t, uuid.Nil, e.ID)
	}
	assert.True(t, dec("3000").Equal(req.Loans[0].Balance))
}

func TestCoachService_Plan_UsesPreviousSnapshot(t *testing.T) {
	svc, repo, _ := setupCoachService()
	householdID := uuid.New()
	repo.AddSnapshot(&domain.Snapshot{
		ID:          uuid.New(),
		HouseholdID: householdID,
		Month:       "2026-09",
		Salary:      dec("5500"),
	})

	plan, err := svc.Plan(context.Background(), householdID, PlanInput{Request: householdRequest()})
	require.NoError(t, err)

	earn := plan.Advice.Checklist[6]
	assert.True(t, earn.Done)
	assert.Equal(t, "Income 6000.00 versus 5500.00 in 2026-09.", earn.Detail)
	assert.Equal(t, 2, repo.Count(householdID))
}

func TestCoachService_Plan_UsesMarketRates(t *testing.T) {
	cache := testutil.NewMockRateCache()
	cache.Rates = feedRates()
	svc := NewCoachService(nil, nil, NewMarketRateService(cache, nil, time.Hour), nil)
	svc.now = func() time.Time { return fixedNow }

	plan, err := svc.Plan(context.Background(), uuid.New(), PlanInput{Request: householdRequest()})
	require.NoError(t, err)

	require.NotNil(t, plan.Advice.BestOption)
	assert.Equal(t, "10y treasury", plan.Advice.BestOption.Name)
	assert.Nil(t, plan.SnapshotID)
}

func TestCoachService_Plan_ExplicitMonth(t *testing.T) {
	svc, _, _ := setupCoachService()

	plan, err := svc.Plan(context.Background(), uuid.New(), PlanInput{
		Request: householdRequest(),
		Month:   "2025-12",
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-12", plan.Month)
}

func TestCoachService_Plan_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(in *PlanInput)
		target error
	}{
		{
			name:   "future month",
			mutate: func(in *PlanInput) { in.Month = "2026-11" },
			target: ErrFutureMonth,
		},
		{
			name:   "malformed month",
			mutate: func(in *PlanInput) { in.Month = "2026-13" },
			target: domain.ErrInvalidInput,
		},
		{
			name:   "negative current savings",
			mutate: func(in *PlanInput) { in.CurrentSavings = dec("-1") },
			target: domain.ErrInvalidInput,
		},
		{
			name:   "percentages do not sum to 100",
			mutate: func(in *PlanInput) { in.Request.DebtPct = dec("25") },
			target: domain.ErrInvalidInput,
		},
		{
			name:   "unnamed expense",
			mutate: func(in *PlanInput) { in.Request.Expenses[2].Name = "  " },
			target: domain.ErrExpenseNameEmpty,
		},
		{
			name:   "negative loan balance",
			mutate: func(in *PlanInput) { in.Request.Loans[0].Balance = dec("-10") },
			target: domain.ErrLoanBalanceInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, publisher := setupCoachService()
			householdID := uuid.New()
			in := PlanInput{Request: householdRequest()}
			tt.mutate(&in)

			plan, err := svc.Plan(context.Background(), householdID, in)

			assert.Nil(t, plan)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.ErrorIs(t, err, tt.target)
			assert.Equal(t, 0, repo.Count(householdID))
			assert.Empty(t, publisher.Published())
		})
	}
}

func TestCoachService_Plan_SnapshotFailureIsNotFatal(t *testing.T) {
	svc, repo, publisher := setupCoachService()
	repo.AppendErr = errors.New("disk full")

	plan, err := svc.Plan(context.Background(), uuid.New(), PlanInput{Request: householdRequest()})

	require.NoError(t, err)
	assert.Nil(t, plan.SnapshotID)
	assert.Empty(t, publisher.Published())
}

func TestCoachService_Plan_PreviousSnapshotError(t *testing.T) {
	svc, repo, _ := setupCoachService()
	repo.LatestErr = errors.New("connection reset")

	_, err := svc.Plan(context.Background(), uuid.New(), PlanInput{Request: householdRequest()})

	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCoachService_Reconcile(t *testing.T) {
	svc, _, _ := setupCoachService()

	result, err := svc.Reconcile(householdRequest())
	require.NoError(t, err)
	assert.True(t, result.Balanced())

	req := householdRequest()
	req.Loans = make([]domain.Loan, domain.MaxLoansPerRequest+1)
	_, err = svc.Reconcile(req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.ErrorIs(t, err, domain.ErrTooManyLoans)
}

func TestCoachService_Simulate(t *testing.T) {
	svc, _, _ := setupCoachService()
	loans := householdRequest().Loans

	t.Run("compare by default", func(t *testing.T) {
		out, err := svc.Simulate(SimulateInput{Loans: loans, DebtBudget: dec("1200")})
		require.NoError(t, err)
		require.NotNil(t, out.Comparison)
		assert.Nil(t, out.Result)
		assert.Empty(t, out.Schedule)
	})

	t.Run("compare with schedule", func(t *testing.T) {
		out, err := svc.Simulate(SimulateInput{
			Loans:        loans,
			DebtBudget:   dec("1200"),
			Strategy:     domain.StrategyCompare,
			WithSchedule: true,
		})
		require.NoError(t, err)
		require.NotNil(t, out.Comparison)
		assert.Len(t, out.Schedule, recommendedResult(*out.Comparison).MonthsToPayoff)
	})

	t.Run("single strategy", func(t *testing.T) {
		out, err := svc.Simulate(SimulateInput{
			Loans:        loans,
			DebtBudget:   dec("1200"),
			Strategy:     domain.StrategyAvalanche,
			WithSchedule: true,
		})
		require.NoError(t, err)
		require.NotNil(t, out.Result)
		assert.Nil(t, out.Comparison)
		assert.Equal(t, domain.StrategyAvalanche, out.Result.Strategy)
		assert.Len(t, out.Schedule, out.Result.MonthsToPayoff)
		assert.Equal(t, "Credit card", out.Schedule[0].TargetLoan)
	})

	t.Run("single strategy without schedule", func(t *testing.T) {
		out, err := svc.Simulate(SimulateInput{Loans: loans, DebtBudget: dec("1200"), Strategy: domain.StrategySnowball})
		require.NoError(t, err)
		require.NotNil(t, out.Result)
		assert.Empty(t, out.Schedule)
	})

	t.Run("unknown strategy", func(t *testing.T) {
		_, err := svc.Simulate(SimulateInput{Loans: loans, DebtBudget: dec("1200"), Strategy: "blizzard"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.ErrorIs(t, err, domain.ErrUnknownStrategy)
	})

	t.Run("negative budget", func(t *testing.T) {
		_, err := svc.Simulate(SimulateInput{Loans: loans, DebtBudget: dec("-1")})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("invalid loan", func(t *testing.T) {
		bad := []domain.Loan{{Name: "", Balance: dec("100")}}
		_, err := svc.Simulate(SimulateInput{Loans: bad, DebtBudget: dec("100")})
		assert.ErrorIs(t, err, domain.ErrLoanNameEmpty)
	})
}

func TestCoachService_History(t *testing.T) {
	svc, repo, _ := setupCoachService()
	householdID := uuid.New()
	repo.AddSnapshot(&domain.Snapshot{HouseholdID: householdID, Month: "2026-08"})
	repo.AddSnapshot(&domain.Snapshot{HouseholdID: householdID, Month: "2026-06"})

	history, err := svc.History(context.Background(), householdID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "2026-06", history[0].Month)

	noStore := NewCoachService(nil, nil, nil, nil)
	history, err = noStore.History(context.Background(), householdID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestCoachService_Preview_DoesNotRecord(t *testing.T) {
	svc, repo, publisher := setupCoachService()
	householdID := uuid.New()

	plan, err := svc.Preview(context.Background(), householdID, PlanInput{Request: householdRequest()})

	require.NoError(t, err)
	assert.Nil(t, plan.SnapshotID)
	assert.Equal(t, 0, repo.Count(householdID))
	assert.Empty(t, publisher.Published())
}
