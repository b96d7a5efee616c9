package websocket

import "github.com/google/uuid"

// EventPublisher defines the interface for publishing events to WebSocket clients
type EventPublisher interface {
	// Publish sends an event to all clients watching the specified household
	Publish(householdID uuid.UUID, event Event)
	// PublishAll sends an event to every connected client
	PublishAll(event Event)
}

// Ensure Hub implements EventPublisher
var _ EventPublisher = (*Hub)(nil)

// Publish implements EventPublisher by broadcasting the event to the household
func (h *Hub) Publish(householdID uuid.UUID, event Event) {
	h.Broadcast(householdID, event)
}

// PublishAll implements EventPublisher by broadcasting to every household
func (h *Hub) PublishAll(event Event) {
	h.BroadcastAll(event)
}

// NoOpPublisher is a publisher that does nothing (for testing or when WebSocket is disabled)
type NoOpPublisher struct{}

// Publish does nothing
func (n *NoOpPublisher) Publish(householdID uuid.UUID, event Event) {}

// PublishAll does nothing
func (n *NoOpPublisher) PublishAll(event Event) {}
