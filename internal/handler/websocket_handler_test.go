package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dafibh/fortuna/fortuna-coach/internal/websocket"
	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAllowedOrigins = []string{"http://localhost:3000", "https://fortuna.app"}

func TestWebSocketHandler_HandleWS_InvalidHousehold(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"missing household", ""},
		{"malformed household", "?householdId=not-a-uuid"},
		{"nil household", "?householdId=" + uuid.Nil.String()},
		{"unknown topic", "?householdId=" + uuid.New().String() + "&topics=snapshot,weather"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			h := NewWebSocketHandler(websocket.NewHub(), testAllowedOrigins)

			req := httptest.NewRequest(http.MethodGet, "/ws"+tt.query, nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := h.HandleWS(c)

			require.Error(t, err)
			httpErr, ok := err.(*echo.HTTPError)
			require.True(t, ok)
			assert.Equal(t, http.StatusBadRequest, httpErr.Code)
		})
	}
}

func TestWebSocketHandler_HandleWS_NoUpgrade(t *testing.T) {
	e := echo.New()
	h := NewWebSocketHandler(websocket.NewHub(), testAllowedOrigins)

	// Valid household but not a WebSocket upgrade request
	req := httptest.NewRequest(http.MethodGet, "/ws?householdId="+uuid.New().String(), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.HandleWS(c)

	// gorilla/websocket returns an error when upgrade fails (no upgrade headers)
	assert.Error(t, err)
}

func TestWebSocketHandler_HandleWS_ReceivesHouseholdEvents(t *testing.T) {
	hub := websocket.NewHub()
	h := NewWebSocketHandler(hub, testAllowedOrigins)

	e := echo.New()
	e.GET("/ws", h.HandleWS)
	srv := httptest.NewServer(e)
	defer srv.Close()

	householdID := uuid.New()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?householdId=" + householdID.String()

	conn, _, err := ws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount(householdID) == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Publish(householdID, websocket.SnapshotCreated(map[string]string{"month": "2026-10"}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(msg), `"type":"snapshot.created"`)
	assert.Contains(t, string(msg), `"month":"2026-10"`)
}

func dialHousehold(t *testing.T, hub *websocket.Hub, householdID uuid.UUID, query string) *ws.Conn {
	t.Helper()
	h := NewWebSocketHandler(hub, testAllowedOrigins)

	e := echo.New()
	e.GET("/ws", h.HandleWS)
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?householdId=" + householdID.String() + query
	conn, _, err := ws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool { return hub.ClientCount(householdID) == 1 }, 2*time.Second, 10*time.Millisecond)
	return conn
}

func readEvent(t *testing.T, conn *ws.Conn) string {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	return string(msg)
}

func TestWebSocketHandler_HandleWS_TopicFilter(t *testing.T) {
	hub := websocket.NewHub()
	householdID := uuid.New()
	conn := dialHousehold(t, hub, householdID, "&topics=market_rates")

	hub.Publish(householdID, websocket.SnapshotCreated(map[string]string{"month": "2026-10"}))
	hub.PublishAll(websocket.MarketRatesRefreshed(map[string]string{"source": "feed"}))

	msg := readEvent(t, conn)
	assert.Contains(t, msg, `"type":"market_rates.refreshed"`)
	assert.NotContains(t, msg, "snapshot")
}

func TestWebSocketHandler_HandleWS_ControlFrames(t *testing.T) {
	hub := websocket.NewHub()
	householdID := uuid.New()
	conn := dialHousehold(t, hub, householdID, "&topics=report")

	require.NoError(t, conn.WriteMessage(ws.TextMessage, []byte(`{"subscribe":["snapshot"],"unsubscribe":["report"]}`)))
	ack := readEvent(t, conn)
	assert.Contains(t, ack, `"type":"subscription.updated"`)
	assert.Contains(t, ack, `"topics":["snapshot"]`)

	hub.Publish(householdID, websocket.ReportArchived(map[string]string{"path": "r.csv"}))
	hub.Publish(householdID, websocket.SnapshotCreated(map[string]string{"month": "2026-11"}))
	assert.Contains(t, readEvent(t, conn), `"type":"snapshot.created"`)

	require.NoError(t, conn.WriteMessage(ws.TextMessage, []byte(`{"subscribe":["weather"]}`)))
	assert.Contains(t, readEvent(t, conn), `"type":"subscription.rejected"`)

	require.NoError(t, conn.WriteMessage(ws.TextMessage, []byte(`not json`)))
	assert.Contains(t, readEvent(t, conn), "malformed control frame")
}

func TestWebSocketHandler_CheckOrigin(t *testing.T) {
	h := NewWebSocketHandler(websocket.NewHub(), testAllowedOrigins)

	tests := []struct {
		name     string
		origin   string
		expected bool
	}{
		{"allowed origin", "http://localhost:3000", true},
		{"allowed origin https", "https://fortuna.app", true},
		{"disallowed origin", "https://evil.com", false},
		{"empty origin (same-origin)", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ws", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.expected, h.checkOrigin(req))
		})
	}
}
