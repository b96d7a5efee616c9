package handler

import (
	"net/http"

	"github.com/dafibh/fortuna/fortuna-coach/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// MarketRateHandler serves investment option rates
type MarketRateHandler struct {
	rateService *service.MarketRateService
}

// NewMarketRateHandler creates a new MarketRateHandler
func NewMarketRateHandler(rateService *service.MarketRateService) *MarketRateHandler {
	return &MarketRateHandler{rateService: rateService}
}

// GetRates godoc
// @Summary Get market rates
// @Description Current investment options used in advice, served from cache when fresh
// @Tags market-rates
// @Produce json
// @Success 200 {object} domain.MarketRates
// @Failure 503 {object} ProblemDetails
// @Router /market-rates [get]
func (h *MarketRateHandler) GetRates(c echo.Context) error {
	rates, err := h.rateService.Options(c.Request().Context())
	if err != nil {
		log.Warn().Err(err).Msg("Market rates request cancelled")
		return NewServiceUnavailableError(c, "Market rates unavailable")
	}
	return c.JSON(http.StatusOK, rates)
}
