package websocket

import (
	"fmt"
	"time"

	json "github.com/goccy/go-json"
)

// EventType represents what happened to an entity
type EventType string

const (
	EventTypeCreated   EventType = "created"
	EventTypeRefreshed EventType = "refreshed"
	EventTypeArchived  EventType = "archived"
	EventTypeUpdated   EventType = "updated"
	EventTypeRejected  EventType = "rejected"
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypeSnapshot    EntityType = "snapshot"
	EntityTypeMarketRates EntityType = "market_rates"
	EntityTypeReport      EntityType = "report"

	// EntityTypeSubscription events answer a client's control frame and
	// are never broadcast
	EntityTypeSubscription EntityType = "subscription"
)

// Event represents a WebSocket event message sent to clients
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string      `json:"type"`      // Combined type e.g. "snapshot.created"
	Entity    EntityType  `json:"entity"`    // Entity type e.g. "snapshot"
	Payload   interface{} `json:"payload"`   // Full entity data
	Timestamp time.Time   `json:"timestamp"` // Event timestamp
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// SnapshotCreated creates a snapshot.created event
func SnapshotCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeSnapshot, payload)
}

// MarketRatesRefreshed creates a market_rates.refreshed event
func MarketRatesRefreshed(payload interface{}) Event {
	return NewEvent(EventTypeRefreshed, EntityTypeMarketRates, payload)
}

// ReportArchived creates a report.archived event
func ReportArchived(payload interface{}) Event {
	return NewEvent(EventTypeArchived, EntityTypeReport, payload)
}

// SubscriptionUpdated acknowledges a topic change
func SubscriptionUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeSubscription, payload)
}

// SubscriptionRejected answers a control frame that could not be applied
func SubscriptionRejected(payload interface{}) Event {
	return NewEvent(EventTypeRejected, EntityTypeSubscription, payload)
}
