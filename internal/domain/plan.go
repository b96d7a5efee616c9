package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Plan bundles a reconciled allocation, both payoff simulations and the advice built on them
type Plan struct {
	HouseholdID    uuid.UUID          `json:"householdId"`
	Month          string             `json:"month"`
	Request        AllocationRequest  `json:"request"`
	Allocation     *AllocationResult  `json:"allocation"`
	Comparison     StrategyComparison `json:"comparison"`
	Schedule       []PayoffMonth      `json:"schedule,omitempty"`
	Advice         Advice             `json:"advice"`
	CurrentSavings decimal.Decimal    `json:"currentSavings"`
	SnapshotID     *uuid.UUID         `json:"snapshotId,omitempty"`
}
