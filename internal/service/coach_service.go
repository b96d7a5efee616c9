package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dafibh/fortuna/fortuna-coach/internal/domain"
	"github.com/dafibh/fortuna/fortuna-coach/internal/engine"
	"github.com/dafibh/fortuna/fortuna-coach/internal/util"
	"github.com/dafibh/fortuna/fortuna-coach/internal/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

var ErrFutureMonth = errors.New("month cannot be in the future")

// PlanInput is the input of a full coaching pass. Month defaults to the current month.
type PlanInput struct {
	Request        domain.AllocationRequest
	CurrentSavings decimal.Decimal
	Month          string
}

// SimulateInput is the input of a standalone payoff simulation
type SimulateInput struct {
	Loans        []domain.Loan
	DebtBudget   decimal.Decimal
	Strategy     string
	WithSchedule bool
}

// SimulateOutput holds either a single strategy result or a comparison
type SimulateOutput struct {
	Result     *domain.SimulationResult   `json:"result,omitempty"`
	Comparison *domain.StrategyComparison `json:"comparison,omitempty"`
	Schedule   []domain.PayoffMonth       `json:"schedule,omitempty"`
}

// CoachService runs the allocation reconciler and the payoff simulator and
// records each plan as a monthly snapshot
type CoachService struct {
	classifier *engine.Classifier
	snapshots  domain.SnapshotRepository
	rates      *MarketRateService
	advice     *AdviceService
	publisher  websocket.EventPublisher
	now        func() time.Time
}

// NewCoachService creates a new CoachService. snapshots and rates may be nil.
func NewCoachService(classifier *engine.Classifier, snapshots domain.SnapshotRepository, rates *MarketRateService, advice *AdviceService) *CoachService {
	if classifier == nil {
		classifier = engine.DefaultClassifier()
	}
	if advice == nil {
		advice = NewAdviceService()
	}
	return &CoachService{
		classifier: classifier,
		snapshots:  snapshots,
		rates:      rates,
		advice:     advice,
		publisher:  &websocket.NoOpPublisher{},
		now:        time.Now,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *CoachService) SetEventPublisher(publisher websocket.EventPublisher) {
	if publisher == nil {
		publisher = &websocket.NoOpPublisher{}
	}
	s.publisher = publisher
}

// Reconcile validates the request items and reconciles the allocation
func (s *CoachService) Reconcile(req domain.AllocationRequest) (*domain.AllocationResult, error) {
	req.Expenses = domain.EnsureExpenseIDs(req.Expenses)
	if err := req.ValidateItems(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	return engine.Reconcile(req, s.classifier)
}

// Simulate runs one strategy, or both when the strategy is "compare"
func (s *CoachService) Simulate(in SimulateInput) (*SimulateOutput, error) {
	if len(in.Loans) > domain.MaxLoansPerRequest {
		return nil, fmt.Errorf("%w: %w: maximum is %d", domain.ErrInvalidInput, domain.ErrTooManyLoans, domain.MaxLoansPerRequest)
	}
	for i := range in.Loans {
		if err := in.Loans[i].Validate(); err != nil {
			return nil, fmt.Errorf("%w: loans[%d]: %w", domain.ErrInvalidInput, i, err)
		}
	}
	if in.DebtBudget.IsNegative() {
		return nil, fmt.Errorf("%w: debt budget must not be negative", domain.ErrInvalidInput)
	}

	if in.Strategy == "" || in.Strategy == domain.StrategyCompare {
		cmp := engine.Compare(in.Loans, in.DebtBudget)
		out := &SimulateOutput{Comparison: &cmp}
		if in.WithSchedule {
			strategy, _ := engine.StrategyByName(cmp.Recommended)
			_, out.Schedule = engine.SimulateSchedule(in.Loans, in.DebtBudget, strategy)
		}
		return out, nil
	}

	strategy, err := engine.StrategyByName(in.Strategy)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	out := &SimulateOutput{}
	var result domain.SimulationResult
	if in.WithSchedule {
		result, out.Schedule = engine.SimulateSchedule(in.Loans, in.DebtBudget, strategy)
	} else {
		result = engine.Simulate(in.Loans, in.DebtBudget, strategy)
	}
	out.Result = &result
	return out, nil
}

// Plan reconciles the request, simulates both payoff strategies against the
// reconciled debt budget, builds advice and appends a snapshot.
func (s *CoachService) Plan(ctx context.Context, householdID uuid.UUID, in PlanInput) (*domain.Plan, error) {
	plan, err := s.Preview(ctx, householdID, in)
	if err != nil {
		return nil, err
	}
	s.recordSnapshot(ctx, plan)
	return plan, nil
}

// Preview builds a plan without recording a snapshot
func (s *CoachService) Preview(ctx context.Context, householdID uuid.UUID, in PlanInput) (*domain.Plan, error) {
	if in.CurrentSavings.IsNegative() {
		return nil, fmt.Errorf("%w: current savings must not be negative", domain.ErrInvalidInput)
	}

	month := in.Month
	if month == "" {
		month = util.MonthKey(s.now())
	}
	if _, err := util.ParseMonthKey(month); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	if util.IsFutureMonth(month, s.now()) {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, ErrFutureMonth)
	}

	req := in.Request
	req.Expenses = domain.EnsureExpenseIDs(req.Expenses)
	alloc, err := s.Reconcile(req)
	if err != nil {
		return nil, err
	}

	var (
		comparison domain.StrategyComparison
		rates      *domain.MarketRates
		previous   *domain.Snapshot
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		comparison = engine.Compare(req.Loans, alloc.AdjustedDebtBudget)
		return nil
	})
	if s.rates != nil {
		g.Go(func() error {
			r, err := s.rates.Options(gctx)
			if err != nil {
				log.Warn().Err(err).Msg("Market rates unavailable for plan")
				return nil
			}
			rates = r
			return nil
		})
	}
	if s.snapshots != nil {
		g.Go(func() error {
			prev, err := s.snapshots.Latest(gctx, householdID)
			if err != nil {
				if errors.Is(err, domain.ErrSnapshotNotFound) {
					return nil
				}
				return fmt.Errorf("loading previous snapshot: %w", err)
			}
			previous = prev
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	strategy, _ := engine.StrategyByName(comparison.Recommended)
	_, schedule := engine.SimulateSchedule(req.Loans, alloc.AdjustedDebtBudget, strategy)

	plan := &domain.Plan{
		HouseholdID:    householdID,
		Month:          month,
		Request:        req,
		Allocation:     alloc,
		Comparison:     comparison,
		Schedule:       schedule,
		CurrentSavings: in.CurrentSavings,
	}
	plan.Advice = s.advice.Build(AdviceInput{
		Request:        req,
		Allocation:     alloc,
		Comparison:     comparison,
		CurrentSavings: in.CurrentSavings,
		Previous:       previous,
		Rates:          rates,
	})
	return plan, nil
}

// History returns a household's snapshots in month order
func (s *CoachService) History(ctx context.Context, householdID uuid.UUID) ([]*domain.Snapshot, error) {
	if s.snapshots == nil {
		return []*domain.Snapshot{}, nil
	}
	return s.snapshots.ListByHousehold(ctx, householdID)
}

func (s *CoachService) recordSnapshot(ctx context.Context, plan *domain.Plan) {
	if s.snapshots == nil {
		return
	}

	snapshot := NewSnapshot(plan)
	if err := s.snapshots.Append(ctx, snapshot); err != nil {
		log.Error().Err(err).
			Str("household_id", plan.HouseholdID.String()).
			Str("month", plan.Month).
			Msg("Failed to record snapshot")
		return
	}

	plan.SnapshotID = &snapshot.ID
	s.publisher.Publish(plan.HouseholdID, websocket.SnapshotCreated(snapshot))
}

// NewSnapshot condenses a plan into its archived form
func NewSnapshot(plan *domain.Plan) *domain.Snapshot {
	return &domain.Snapshot{
		ID:              uuid.New(),
		HouseholdID:     plan.HouseholdID,
		Month:           plan.Month,
		Salary:          plan.Allocation.Income,
		Savings:         plan.Allocation.AdjustedSavings,
		DebtBudget:      plan.Allocation.AdjustedDebtBudget,
		ExpenseTotal:    plan.Allocation.AdjustedExpenseTotal,
		Snowball:        plan.Comparison.Snowball,
		Avalanche:       plan.Comparison.Avalanche,
		EmergencyTarget: plan.Advice.EmergencyTarget,
		CurrentSavings:  plan.CurrentSavings,
	}
}
