package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Snapshot is the archived outcome of one calculation, keyed by calendar month.
// Snapshots are append-only.
type Snapshot struct {
	ID              uuid.UUID        `json:"id"`
	HouseholdID     uuid.UUID        `json:"householdId"`
	Month           string           `json:"month"` // YYYY-MM
	Salary          decimal.Decimal  `json:"salary"`
	Savings         decimal.Decimal  `json:"savings"`
	DebtBudget      decimal.Decimal  `json:"debtBudget"`
	ExpenseTotal    decimal.Decimal  `json:"expenseTotal"`
	Snowball        SimulationResult `json:"snowball"`
	Avalanche       SimulationResult `json:"avalanche"`
	EmergencyTarget decimal.Decimal  `json:"emergencyTarget"`
	CurrentSavings  decimal.Decimal  `json:"currentSavings"`
	CreatedAt       time.Time        `json:"createdAt"`
}

type SnapshotRepository interface {
	Append(ctx context.Context, snapshot *Snapshot) error
	ListByHousehold(ctx context.Context, householdID uuid.UUID) ([]*Snapshot, error)
	Latest(ctx context.Context, householdID uuid.UUID) (*Snapshot, error)
}
