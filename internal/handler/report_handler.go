package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dafibh/fortuna/fortuna-coach/internal/domain"
	"github.com/dafibh/fortuna/fortuna-coach/internal/middleware"
	"github.com/dafibh/fortuna/fortuna-coach/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ReportHandler exports plans as CSV or PNG
type ReportHandler struct {
	coachService  *service.CoachService
	reportService *service.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(coachService *service.CoachService, reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{coachService: coachService, reportService: reportService}
}

// CreateReport godoc
// @Summary Export a plan report
// @Description Render a plan as CSV or a PNG payoff chart. With archive=true the report is stored and a download link is returned.
// @Tags reports
// @Accept json
// @Produce json,text/csv,image/png
// @Param X-Household-ID header string true "Household UUID"
// @Param request body ReportRequestBody true "Report request"
// @Success 200 {file} file
// @Success 201 {object} domain.ArchivedReport
// @Failure 400 {object} ProblemDetails
// @Failure 503 {object} ProblemDetails
// @Router /reports [post]
func (h *ReportHandler) CreateReport(c echo.Context) error {
	householdID := middleware.GetHouseholdID(c)

	var body ReportRequestBody
	if err := c.Bind(&body); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	format := domain.ReportFormat(body.Format)
	if !format.Valid() {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "format", Message: "Must be csv or png"},
		})
	}
	if body.Archive && !h.reportService.CanArchive() {
		return NewServiceUnavailableError(c, "Report archiving is not configured")
	}

	input, errs := parsePlanInput(&body.PlanRequestBody)
	if len(errs) > 0 {
		return NewValidationError(c, "Validation failed", errs)
	}

	ctx := c.Request().Context()
	plan, err := h.coachService.Preview(ctx, householdID, input)
	if err != nil {
		return handleCoachError(c, err, "build plan")
	}

	report, err := h.reportService.Export(plan, format)
	if err != nil {
		return handleCoachError(c, err, "export report")
	}

	if !body.Archive {
		c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", report.Filename))
		return c.Blob(http.StatusOK, format.ContentType(), report.Data)
	}

	archived, err := h.reportService.Archive(ctx, householdID, plan.Month, report)
	if err != nil {
		if errors.Is(err, service.ErrReportStorageNotConfigured) {
			return NewServiceUnavailableError(c, "Report archiving is not configured")
		}
		log.Error().Err(err).Str("household_id", householdID.String()).Msg("Failed to archive report")
		return NewInternalError(c, "Failed to archive report")
	}

	return c.JSON(http.StatusCreated, archived)
}
