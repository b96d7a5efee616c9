package websocket

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	// ErrClientClosed is returned when attempting to send to a closed client
	ErrClientClosed = errors.New("client is closed")
	// ErrClientSlow is returned when a client's outbox is full
	ErrClientSlow = errors.New("client is not keeping up")
	// ErrUnknownTopic rejects a subscription to an entity the hub never publishes
	ErrUnknownTopic = errors.New("unknown topic")
)

// ClientInterface defines the interface that clients must implement
type ClientInterface interface {
	ID() string
	HouseholdID() uuid.UUID
	Wants(entity EntityType) bool
	Send(data []byte) error
	Close() error
}

// Hub manages WebSocket connections organized by household
// It is safe for concurrent use
type Hub struct {
	// households maps household ID to a map of client ID to client
	households map[uuid.UUID]map[string]ClientInterface
	mu         sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		households: make(map[uuid.UUID]map[string]ClientInterface),
	}
}

// Register adds a client to the hub under its household
func (h *Hub) Register(client ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()

	householdID := client.HouseholdID()
	clientID := client.ID()

	if h.households[householdID] == nil {
		h.households[householdID] = make(map[string]ClientInterface)
	}

	h.households[householdID][clientID] = client

	log.Debug().
		Str("household_id", householdID.String()).
		Str("client_id", clientID).
		Msg("WebSocket client registered")
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()

	householdID := client.HouseholdID()
	clientID := client.ID()

	if clients, ok := h.households[householdID]; ok {
		if _, exists := clients[clientID]; exists {
			delete(clients, clientID)

			// Clean up empty household maps
			if len(clients) == 0 {
				delete(h.households, householdID)
			}

			log.Debug().
				Str("household_id", householdID.String()).
				Str("client_id", clientID).
				Msg("WebSocket client unregistered")
		}
	}
}

// Broadcast sends an event to all clients of a specific household
func (h *Hub) Broadcast(householdID uuid.UUID, event Event) {
	data, err := event.ToJSON()
	if err != nil {
		log.Error().
			Err(err).
			Str("household_id", householdID.String()).
			Str("event_type", event.Type).
			Msg("Failed to serialize event")
		return
	}

	h.mu.RLock()
	clients := h.households[householdID]
	clientsCopy := make([]ClientInterface, 0, len(clients))
	for _, client := range clients {
		clientsCopy = append(clientsCopy, client)
	}
	h.mu.RUnlock()

	delivered := h.send(clientsCopy, event.Entity, data)

	log.Debug().
		Str("household_id", householdID.String()).
		Str("event_type", event.Type).
		Int("client_count", len(clientsCopy)).
		Int("subscribed_count", delivered).
		Msg("Broadcast event")
}

// BroadcastAll sends an event to every connected client
func (h *Hub) BroadcastAll(event Event) {
	data, err := event.ToJSON()
	if err != nil {
		log.Error().Err(err).Str("event_type", event.Type).Msg("Failed to serialize event")
		return
	}

	h.mu.RLock()
	clientsCopy := make([]ClientInterface, 0)
	for _, clients := range h.households {
		for _, client := range clients {
			clientsCopy = append(clientsCopy, client)
		}
	}
	h.mu.RUnlock()

	h.send(clientsCopy, event.Entity, data)
}

// send delivers data asynchronously to the clients subscribed to entity,
// without holding the lock. It returns how many clients were subscribed.
func (h *Hub) send(clients []ClientInterface, entity EntityType, data []byte) int {
	delivered := 0
	for _, client := range clients {
		if !client.Wants(entity) {
			continue
		}
		delivered++
		go func(c ClientInterface) {
			if err := c.Send(data); err != nil {
				log.Warn().
					Err(err).
					Str("household_id", c.HouseholdID().String()).
					Str("client_id", c.ID()).
					Msg("Failed to send to client")
			}
		}(client)
	}
	return delivered
}

// ClientCount returns the number of clients connected for a household
func (h *Hub) ClientCount(householdID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.households[householdID])
}

// TotalClientCount returns the total number of connected clients across all households
func (h *Hub) TotalClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, clients := range h.households {
		total += len(clients)
	}
	return total
}
