// Package sqlite provides a local snapshot history for the coach CLI.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dafibh/fortuna/fortuna-coach/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	_ "modernc.org/sqlite" // register sqlite driver
)

const snapshotColumns = `id, household_id, month, salary, savings, debt_budget, expense_total,
    snowball_months, snowball_interest, snowball_paid_off,
    avalanche_months, avalanche_interest, avalanche_paid_off,
    emergency_target, current_savings, created_at`

// SnapshotRepository implements domain.SnapshotRepository on a SQLite file
type SnapshotRepository struct {
	db  *sql.DB
	now func() time.Time
}

var _ domain.SnapshotRepository = (*SnapshotRepository)(nil)

// Open opens or creates the snapshot database at the given path.
func Open(dbPath string) (*SnapshotRepository, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating history dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SnapshotRepository{db: db, now: time.Now}, nil
}

// DefaultPath returns the history database location under the user config dir
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating config dir: %w", err)
	}
	return filepath.Join(dir, "fortuna-coach", "history.db"), nil
}

// Close closes the database.
func (r *SnapshotRepository) Close() error {
	return r.db.Close()
}

// Append inserts a snapshot. ID and CreatedAt are filled in when zero.
func (r *SnapshotRepository) Append(ctx context.Context, s *domain.Snapshot) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = r.now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
        INSERT INTO snapshots (`+snapshotColumns+`, seq)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?,
            (SELECT COALESCE(MAX(seq), 0) + 1 FROM snapshots))`,
		s.ID.String(), s.HouseholdID.String(), s.Month,
		s.Salary.String(), s.Savings.String(), s.DebtBudget.String(), s.ExpenseTotal.String(),
		s.Snowball.MonthsToPayoff, s.Snowball.TotalInterestPaid.String(), s.Snowball.PaidOff,
		s.Avalanche.MonthsToPayoff, s.Avalanche.TotalInterestPaid.String(), s.Avalanche.PaidOff,
		s.EmergencyTarget.String(), s.CurrentSavings.String(),
		s.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting snapshot: %w", err)
	}
	return nil
}

// ListByHousehold returns a household's snapshots ordered by month, then insertion
func (r *SnapshotRepository) ListByHousehold(ctx context.Context, householdID uuid.UUID) ([]*domain.Snapshot, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+snapshotColumns+" FROM snapshots WHERE household_id = ? ORDER BY month, seq",
		householdID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	snapshots := make([]*domain.Snapshot, 0)
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}

// Latest returns the household's most recent snapshot
func (r *SnapshotRepository) Latest(ctx context.Context, householdID uuid.UUID) (*domain.Snapshot, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+snapshotColumns+" FROM snapshots WHERE household_id = ? ORDER BY month DESC, seq DESC LIMIT 1",
		householdID.String(),
	)
	s, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSnapshotNotFound
	}
	return s, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row scanner) (*domain.Snapshot, error) {
	var (
		id, householdID, createdAt            string
		salary, savings, debtBudget, expenses string
		snowballInterest, avalancheInterest   string
		emergencyTarget, currentSavings       string
		s                                     domain.Snapshot
	)

	err := row.Scan(
		&id, &householdID, &s.Month, &salary, &savings, &debtBudget, &expenses,
		&s.Snowball.MonthsToPayoff, &snowballInterest, &s.Snowball.PaidOff,
		&s.Avalanche.MonthsToPayoff, &avalancheInterest, &s.Avalanche.PaidOff,
		&emergencyTarget, &currentSavings, &createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning snapshot: %w", err)
	}

	if s.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("snapshot id: %w", err)
	}
	if s.HouseholdID, err = uuid.Parse(householdID); err != nil {
		return nil, fmt.Errorf("snapshot household: %w", err)
	}
	if s.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("snapshot created_at: %w", err)
	}

	amounts := []struct {
		dst *decimal.Decimal
		src string
	}{
		{&s.Salary, salary},
		{&s.Savings, savings},
		{&s.DebtBudget, debtBudget},
		{&s.ExpenseTotal, expenses},
		{&s.Snowball.TotalInterestPaid, snowballInterest},
		{&s.Avalanche.TotalInterestPaid, avalancheInterest},
		{&s.EmergencyTarget, emergencyTarget},
		{&s.CurrentSavings, currentSavings},
	}
	for _, a := range amounts {
		if *a.dst, err = decimal.NewFromString(a.src); err != nil {
			return nil, fmt.Errorf("snapshot amount %q: %w", a.src, err)
		}
	}

	s.Snowball.Strategy = domain.StrategySnowball
	s.Avalanche.Strategy = domain.StrategyAvalanche
	return &s, nil
}
