package websocket

import (
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10

	// control frames are tiny; anything larger is a misbehaving peer
	maxControlFrame = 1024
	outboxSize      = 64
)

// Client is one live connection watching a household. It only receives the
// event entities it subscribed to.
type Client struct {
	id        string
	household uuid.UUID
	conn      *websocket.Conn
	hub       *Hub
	logger    zerolog.Logger

	outbox    chan []byte
	mu        sync.RWMutex
	topics    Topics
	closed    bool
	closeOnce sync.Once
}

// NewClient wraps conn for householdID. A nil topics set listens to everything.
func NewClient(conn *websocket.Conn, householdID uuid.UUID, hub *Hub, topics Topics) *Client {
	if topics == nil {
		topics = AllTopics()
	}
	id := uuid.NewString()
	return &Client{
		id:        id,
		household: householdID,
		conn:      conn,
		hub:       hub,
		logger: log.With().
			Str("client_id", id).
			Str("household_id", householdID.String()).
			Logger(),
		outbox: make(chan []byte, outboxSize),
		topics: topics,
	}
}

func (c *Client) ID() string {
	return c.id
}

func (c *Client) HouseholdID() uuid.UUID {
	return c.household
}

// Wants reports whether events about entity should reach this client
func (c *Client) Wants(entity EntityType) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.topics[entity]
}

// Topics lists the current subscription
func (c *Client) Topics() []EntityType {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.topics.List()
}

// Send queues data for the write pump. A full outbox means the peer stopped
// reading and the message is dropped.
func (c *Client) Send(data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClientClosed
	}
	select {
	case c.outbox <- data:
		return nil
	default:
		return ErrClientSlow
	}
}

// Close is safe to call from both pumps
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		close(c.outbox)
		c.mu.Unlock()
		err = c.conn.Close()
	})
	return err
}

// Control applies a subscription change and returns the event acknowledging
// it. An unknown topic leaves the subscription unchanged.
func (c *Client) Control(msg ControlMessage) (Event, error) {
	c.mu.Lock()
	next, err := c.topics.apply(msg)
	if err == nil {
		c.topics = next
	}
	current := c.topics.List()
	c.mu.Unlock()

	if err != nil {
		return SubscriptionRejected(map[string]interface{}{"error": err.Error(), "topics": current}), err
	}
	return SubscriptionUpdated(map[string]interface{}{"topics": current}), nil
}

// ReadPump handles control frames until the peer goes away, then
// unregisters the client. Run it in its own goroutine.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.Close()
	}()

	c.conn.SetReadLimit(maxControlFrame)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		kind, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn().Err(err).Msg("WebSocket unexpected close")
			}
			return
		}
		if kind != websocket.TextMessage {
			continue
		}
		c.handleControl(frame)
	}
}

func (c *Client) handleControl(frame []byte) {
	var msg ControlMessage
	var ack Event
	if err := json.Unmarshal(frame, &msg); err != nil {
		ack = SubscriptionRejected(map[string]interface{}{"error": "malformed control frame", "topics": c.Topics()})
	} else if ack, err = c.Control(msg); err != nil {
		c.logger.Debug().Err(err).Msg("Subscription change rejected")
	} else {
		c.logger.Debug().Interface("topics", c.Topics()).Msg("Subscription updated")
	}

	data, err := ack.ToJSON()
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to serialize subscription ack")
		return
	}
	if err := c.Send(data); err != nil {
		c.logger.Debug().Err(err).Msg("Subscription ack dropped")
	}
}

// WritePump drains the outbox and keeps the connection alive with pings.
// Run it in its own goroutine.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case data, ok := <-c.outbox:
			if !ok {
				c.write(websocket.CloseMessage, nil)
				return
			}
			if err := c.write(websocket.TextMessage, data); err != nil {
				c.logger.Warn().Err(err).Msg("WebSocket write error")
				return
			}
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) write(kind int, data []byte) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(kind, data)
}
