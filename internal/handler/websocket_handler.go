package handler

import (
	"net/http"

	"github.com/dafibh/fortuna/fortuna-coach/internal/websocket"
	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// WebSocketHandler handles WebSocket connections
type WebSocketHandler struct {
	hub            *websocket.Hub
	allowedOrigins map[string]bool
	upgrader       ws.Upgrader
}

// NewWebSocketHandler creates a new WebSocketHandler
func NewWebSocketHandler(hub *websocket.Hub, allowedOrigins []string) *WebSocketHandler {
	// Build origin lookup map
	originMap := make(map[string]bool)
	for _, origin := range allowedOrigins {
		originMap[origin] = true
	}

	h := &WebSocketHandler{
		hub:            hub,
		allowedOrigins: originMap,
	}

	h.upgrader = ws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}

	return h
}

// checkOrigin validates the request origin against allowed origins
func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		// Allow requests with no Origin header (e.g., same-origin or non-browser clients)
		return true
	}

	if h.allowedOrigins[origin] {
		return true
	}

	log.Warn().
		Str("origin", origin).
		Msg("WebSocket connection rejected: origin not allowed")
	return false
}

// HandleWS handles WebSocket connection requests at
// GET /ws?householdId=<uuid>&topics=snapshot,market_rates,report
// Omitting topics subscribes to all of them.
func (h *WebSocketHandler) HandleWS(c echo.Context) error {
	raw := c.QueryParam("householdId")
	if raw == "" {
		log.Debug().Msg("WebSocket connection rejected: missing household")
		return echo.NewHTTPError(http.StatusBadRequest, "missing householdId")
	}

	householdID, err := uuid.Parse(raw)
	if err != nil || householdID == uuid.Nil {
		log.Debug().Str("household_id", raw).Msg("WebSocket connection rejected: invalid household")
		return echo.NewHTTPError(http.StatusBadRequest, "invalid householdId")
	}

	topics, err := websocket.ParseTopics(c.QueryParam("topics"))
	if err != nil {
		log.Debug().Err(err).Str("household_id", raw).Msg("WebSocket connection rejected: bad topics")
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// Upgrade HTTP connection to WebSocket
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket upgrade failed")
		return err
	}

	// Create client and register with hub
	client := websocket.NewClient(conn, householdID, h.hub, topics)
	h.hub.Register(client)

	log.Info().
		Str("household_id", householdID.String()).
		Str("client_id", client.ID()).
		Interface("topics", client.Topics()).
		Msg("WebSocket client connected")

	// Start read/write pumps in goroutines
	go client.WritePump()
	go client.ReadPump()

	return nil
}
