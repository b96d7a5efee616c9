package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/dafibh/fortuna/fortuna-coach/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const snapshotSchema = `
CREATE TABLE IF NOT EXISTS snapshots (
	id                  UUID PRIMARY KEY,
	household_id        UUID NOT NULL,
	month               TEXT NOT NULL,
	salary              NUMERIC(14,2) NOT NULL,
	savings             NUMERIC(14,2) NOT NULL,
	debt_budget         NUMERIC(14,2) NOT NULL,
	expense_total       NUMERIC(14,2) NOT NULL,
	snowball_months     INTEGER NOT NULL,
	snowball_interest   NUMERIC(14,2) NOT NULL,
	snowball_paid_off   BOOLEAN NOT NULL,
	avalanche_months    INTEGER NOT NULL,
	avalanche_interest  NUMERIC(14,2) NOT NULL,
	avalanche_paid_off  BOOLEAN NOT NULL,
	emergency_target    NUMERIC(14,2) NOT NULL,
	current_savings     NUMERIC(14,2) NOT NULL,
	created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_snapshots_household_month
	ON snapshots (household_id, month, created_at);
`

const snapshotColumns = `id, household_id, month, salary, savings, debt_budget, expense_total,
	snowball_months, snowball_interest, snowball_paid_off,
	avalanche_months, avalanche_interest, avalanche_paid_off,
	emergency_target, current_savings, created_at`

// SnapshotRepository implements domain.SnapshotRepository using PostgreSQL.
// Rows are only ever inserted.
type SnapshotRepository struct {
	pool *pgxpool.Pool
}

var _ domain.SnapshotRepository = (*SnapshotRepository)(nil)

// NewSnapshotRepository creates a new SnapshotRepository
func NewSnapshotRepository(pool *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{pool: pool}
}

// EnsureSchema creates the snapshots table if it does not exist
func (r *SnapshotRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, snapshotSchema); err != nil {
		return fmt.Errorf("creating snapshot schema: %w", err)
	}
	return nil
}

// Append inserts a snapshot. ID and CreatedAt are filled in when zero.
func (r *SnapshotRepository) Append(ctx context.Context, s *domain.Snapshot) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}

	nums, err := numericArgs(
		s.Salary, s.Savings, s.DebtBudget, s.ExpenseTotal,
		s.Snowball.TotalInterestPaid, s.Avalanche.TotalInterestPaid,
		s.EmergencyTarget, s.CurrentSavings,
	)
	if err != nil {
		return fmt.Errorf("invalid snapshot amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO snapshots (
			id, household_id, month, salary, savings, debt_budget, expense_total,
			snowball_months, snowball_interest, snowball_paid_off,
			avalanche_months, avalanche_interest, avalanche_paid_off,
			emergency_target, current_savings
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at`,
		uuidToPg(s.ID), uuidToPg(s.HouseholdID), s.Month,
		nums[0], nums[1], nums[2], nums[3],
		s.Snowball.MonthsToPayoff, nums[4], s.Snowball.PaidOff,
		s.Avalanche.MonthsToPayoff, nums[5], s.Avalanche.PaidOff,
		nums[6], nums[7],
	)

	var createdAt pgtype.Timestamptz
	if err := row.Scan(&createdAt); err != nil {
		return fmt.Errorf("inserting snapshot: %w", err)
	}
	s.CreatedAt = createdAt.Time
	return nil
}

// ListByHousehold returns a household's snapshots ordered by month, then creation
func (r *SnapshotRepository) ListByHousehold(ctx context.Context, householdID uuid.UUID) ([]*domain.Snapshot, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+snapshotColumns+`
		FROM snapshots
		WHERE household_id = $1
		ORDER BY month, created_at`,
		uuidToPg(householdID),
	)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := make([]*domain.Snapshot, 0)
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	return snapshots, nil
}

// Latest returns the household's most recent snapshot
func (r *SnapshotRepository) Latest(ctx context.Context, householdID uuid.UUID) (*domain.Snapshot, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+snapshotColumns+`
		FROM snapshots
		WHERE household_id = $1
		ORDER BY month DESC, created_at DESC
		LIMIT 1`,
		uuidToPg(householdID),
	)

	s, err := scanSnapshot(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSnapshotNotFound
	}
	return s, err
}

func scanSnapshot(row pgx.Row) (*domain.Snapshot, error) {
	var (
		id, householdID                       pgtype.UUID
		salary, savings, debtBudget, expenses pgtype.Numeric
		snowballInterest, avalancheInterest   pgtype.Numeric
		emergencyTarget, currentSavings       pgtype.Numeric
		createdAt                             pgtype.Timestamptz
		s                                     domain.Snapshot
	)

	err := row.Scan(
		&id, &householdID, &s.Month, &salary, &savings, &debtBudget, &expenses,
		&s.Snowball.MonthsToPayoff, &snowballInterest, &s.Snowball.PaidOff,
		&s.Avalanche.MonthsToPayoff, &avalancheInterest, &s.Avalanche.PaidOff,
		&emergencyTarget, &currentSavings, &createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning snapshot: %w", err)
	}

	s.ID = uuid.UUID(id.Bytes)
	s.HouseholdID = uuid.UUID(householdID.Bytes)
	s.Salary = pgNumericToDecimal(salary)
	s.Savings = pgNumericToDecimal(savings)
	s.DebtBudget = pgNumericToDecimal(debtBudget)
	s.ExpenseTotal = pgNumericToDecimal(expenses)
	s.Snowball.Strategy = domain.StrategySnowball
	s.Snowball.TotalInterestPaid = pgNumericToDecimal(snowballInterest)
	s.Avalanche.Strategy = domain.StrategyAvalanche
	s.Avalanche.TotalInterestPaid = pgNumericToDecimal(avalancheInterest)
	s.EmergencyTarget = pgNumericToDecimal(emergencyTarget)
	s.CurrentSavings = pgNumericToDecimal(currentSavings)
	s.CreatedAt = createdAt.Time
	return &s, nil
}
