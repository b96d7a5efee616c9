package domain

import "errors"

// Domain errors
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrSnapshotNotFound = errors.New("snapshot not found")
	ErrReportNotFound   = errors.New("report not found")
	ErrUnknownStrategy  = errors.New("unknown payoff strategy")
	ErrUnknownFormat    = errors.New("unknown report format")
)

// Validation constants
const (
	MaxItemNameLength  = 200
	MaxLoansPerRequest = 50
	MaxExpensesPerPlan = 200
)
