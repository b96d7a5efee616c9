package handler

import (
	"net/http"

	"github.com/dafibh/fortuna/fortuna-coach/internal/service"
	"github.com/labstack/echo/v4"
)

// AllocationHandler handles allocation reconciliation requests
type AllocationHandler struct {
	coachService *service.CoachService
}

// NewAllocationHandler creates a new AllocationHandler
func NewAllocationHandler(coachService *service.CoachService) *AllocationHandler {
	return &AllocationHandler{coachService: coachService}
}

// Reconcile godoc
// @Summary Reconcile a monthly allocation
// @Description Turn target percentages and itemized loans and expenses into a feasible allocation
// @Tags allocations
// @Accept json
// @Produce json
// @Param request body AllocationRequestBody true "Allocation request"
// @Success 200 {object} domain.AllocationResult
// @Failure 400 {object} ProblemDetails
// @Router /allocations/reconcile [post]
func (h *AllocationHandler) Reconcile(c echo.Context) error {
	var body AllocationRequestBody
	if err := c.Bind(&body); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	req, errs := body.toDomain()
	if len(errs) > 0 {
		return NewValidationError(c, "Validation failed", errs)
	}

	result, err := h.coachService.Reconcile(req)
	if err != nil {
		return handleCoachError(c, err, "reconcile allocation")
	}

	return c.JSON(http.StatusOK, result)
}
