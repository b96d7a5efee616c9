package handler

import (
	"github.com/dafibh/fortuna/fortuna-coach/internal/middleware"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Handlers groups the HTTP handlers served under /api/v1
type Handlers struct {
	Allocation *AllocationHandler
	Debt       *DebtHandler
	Plan       *PlanHandler
	MarketRate *MarketRateHandler
	Report     *ReportHandler
	WebSocket  *WebSocketHandler
}

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, h Handlers, rateLimiter *middleware.RateLimiter) {
	// API docs
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Real-time updates
	e.GET("/ws", h.WebSocket.HandleWS)

	// API version 1
	api := e.Group("/api/v1")
	api.Use(middleware.RateLimitMiddleware(rateLimiter))
	api.GET("/openapi.json", ServeOpenAPI3Spec)

	// Stateless calculation routes
	api.POST("/allocations/reconcile", h.Allocation.Reconcile)
	api.POST("/debts/simulate", h.Debt.Simulate)
	api.GET("/market-rates", h.MarketRate.GetRates)

	// Household routes
	household := api.Group("")
	household.Use(middleware.RequireHousehold())
	household.POST("/plans", h.Plan.CreatePlan)
	household.GET("/snapshots", h.Plan.ListSnapshots)
	household.POST("/reports", h.Report.CreateReport)
}
