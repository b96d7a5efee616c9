package handler

import (
	"net/http"

	"github.com/dafibh/fortuna/fortuna-coach/internal/domain"
	"github.com/dafibh/fortuna/fortuna-coach/internal/service"
	"github.com/labstack/echo/v4"
)

// DebtHandler handles debt payoff simulation requests
type DebtHandler struct {
	coachService *service.CoachService
}

// NewDebtHandler creates a new DebtHandler
func NewDebtHandler(coachService *service.CoachService) *DebtHandler {
	return &DebtHandler{coachService: coachService}
}

// Simulate godoc
// @Summary Simulate debt payoff
// @Description Run the snowball or avalanche strategy, or compare both, against a monthly debt budget
// @Tags debts
// @Accept json
// @Produce json
// @Param request body SimulateRequestBody true "Simulation request"
// @Success 200 {object} service.SimulateOutput
// @Failure 400 {object} ProblemDetails
// @Router /debts/simulate [post]
func (h *DebtHandler) Simulate(c echo.Context) error {
	var body SimulateRequestBody
	if err := c.Bind(&body); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	switch body.Strategy {
	case "", domain.StrategySnowball, domain.StrategyAvalanche, domain.StrategyCompare:
	default:
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "strategy", Message: "Must be snowball, avalanche or compare"},
		})
	}

	var errs []ValidationError
	loans := parseLoans("loans", body.Loans, &errs)
	budget := parseAmount("debtBudget", body.DebtBudget, &errs)
	if len(errs) > 0 {
		return NewValidationError(c, "Validation failed", errs)
	}

	out, err := h.coachService.Simulate(service.SimulateInput{
		Loans:        loans,
		DebtBudget:   budget,
		Strategy:     body.Strategy,
		WithSchedule: body.Schedule,
	})
	if err != nil {
		return handleCoachError(c, err, "simulate payoff")
	}

	return c.JSON(http.StatusOK, out)
}
