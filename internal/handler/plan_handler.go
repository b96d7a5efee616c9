package handler

import (
	"net/http"

	"github.com/dafibh/fortuna/fortuna-coach/internal/middleware"
	"github.com/dafibh/fortuna/fortuna-coach/internal/service"
	"github.com/labstack/echo/v4"
)

// PlanHandler handles full coaching plans and their snapshot history
type PlanHandler struct {
	coachService *service.CoachService
}

// NewPlanHandler creates a new PlanHandler
func NewPlanHandler(coachService *service.CoachService) *PlanHandler {
	return &PlanHandler{coachService: coachService}
}

// parsePlanInput converts a plan body into service input
func parsePlanInput(body *PlanRequestBody) (service.PlanInput, []ValidationError) {
	req, errs := body.toDomain()
	savings := parseOptionalAmount("currentSavings", body.CurrentSavings, &errs)
	return service.PlanInput{
		Request:        req,
		CurrentSavings: savings,
		Month:          body.Month,
	}, errs
}

// CreatePlan godoc
// @Summary Build a coaching plan
// @Description Reconcile the allocation, compare payoff strategies, build advice and record a monthly snapshot
// @Tags plans
// @Accept json
// @Produce json
// @Param X-Household-ID header string true "Household UUID"
// @Param request body PlanRequestBody true "Plan request"
// @Success 201 {object} domain.Plan
// @Failure 400 {object} ProblemDetails
// @Router /plans [post]
func (h *PlanHandler) CreatePlan(c echo.Context) error {
	householdID := middleware.GetHouseholdID(c)

	var body PlanRequestBody
	if err := c.Bind(&body); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, errs := parsePlanInput(&body)
	if len(errs) > 0 {
		return NewValidationError(c, "Validation failed", errs)
	}

	plan, err := h.coachService.Plan(c.Request().Context(), householdID, input)
	if err != nil {
		return handleCoachError(c, err, "build plan")
	}

	return c.JSON(http.StatusCreated, plan)
}

// ListSnapshots godoc
// @Summary List snapshots
// @Description List the household's recorded plan snapshots in month order
// @Tags snapshots
// @Produce json
// @Param X-Household-ID header string true "Household UUID"
// @Success 200 {array} domain.Snapshot
// @Failure 400 {object} ProblemDetails
// @Router /snapshots [get]
func (h *PlanHandler) ListSnapshots(c echo.Context) error {
	householdID := middleware.GetHouseholdID(c)

	snapshots, err := h.coachService.History(c.Request().Context(), householdID)
	if err != nil {
		return handleCoachError(c, err, "list snapshots")
	}

	return c.JSON(http.StatusOK, snapshots)
}
