package websocket

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockClient is a test double for Client that captures sent messages
type mockClient struct {
	id          string
	householdID uuid.UUID
	topics      Topics
	messages    [][]byte
	mu          sync.Mutex
	closed      bool
}

func newMockClient(id string, householdID uuid.UUID) *mockClient {
	return &mockClient{
		id:          id,
		householdID: householdID,
		topics:      AllTopics(),
		messages:    make([][]byte, 0),
	}
}

func (m *mockClient) Wants(entity EntityType) bool {
	return m.topics[entity]
}

func (m *mockClient) ID() string {
	return m.id
}

func (m *mockClient) HouseholdID() uuid.UUID {
	return m.householdID
}

func (m *mockClient) Send(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClientClosed
	}
	m.messages = append(m.messages, data)
	return nil
}

func (m *mockClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockClient) GetMessages() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make([][]byte, len(m.messages))
	copy(copied, m.messages)
	return copied
}

func waitForMessages(t *testing.T, c *mockClient, n int) {
	t.Helper()
	assert.Eventually(t, func() bool {
		return len(c.GetMessages()) == n
	}, time.Second, 5*time.Millisecond)
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()
	h1, h2 := uuid.New(), uuid.New()

	client1 := newMockClient("client-1", h1)
	client2 := newMockClient("client-2", h1)
	client3 := newMockClient("client-3", h2)

	hub.Register(client1)
	hub.Register(client2)
	hub.Register(client3)

	assert.Equal(t, 2, hub.ClientCount(h1))
	assert.Equal(t, 1, hub.ClientCount(h2))
	assert.Equal(t, 0, hub.ClientCount(uuid.New()))
	assert.Equal(t, 3, hub.TotalClientCount())

	hub.Unregister(client1)
	assert.Equal(t, 1, hub.ClientCount(h1))

	hub.Unregister(client2)
	hub.Unregister(client3)
	assert.Equal(t, 0, hub.ClientCount(h1))
	assert.Equal(t, 0, hub.ClientCount(h2))
	assert.Equal(t, 0, hub.TotalClientCount())
}

func TestHub_Broadcast_HouseholdIsolation(t *testing.T) {
	hub := NewHub()
	h1, h2 := uuid.New(), uuid.New()

	client1a := newMockClient("client-1a", h1)
	client1b := newMockClient("client-1b", h1)
	client2 := newMockClient("client-2", h2)

	hub.Register(client1a)
	hub.Register(client1b)
	hub.Register(client2)

	hub.Broadcast(h1, SnapshotCreated(map[string]interface{}{"month": "2026-10"}))

	waitForMessages(t, client1a, 1)
	waitForMessages(t, client1b, 1)

	time.Sleep(10 * time.Millisecond)
	assert.Empty(t, client2.GetMessages(), "other households receive nothing")
}

func TestHub_BroadcastAll(t *testing.T) {
	hub := NewHub()

	clients := make([]*mockClient, 3)
	for i := range clients {
		clients[i] = newMockClient(fmt.Sprintf("client-%d", i), uuid.New())
		hub.Register(clients[i])
	}

	hub.BroadcastAll(MarketRatesRefreshed(map[string]interface{}{"options": 3}))

	for _, c := range clients {
		waitForMessages(t, c, 1)
	}
}

func TestHub_DeliversOnlySubscribedTopics(t *testing.T) {
	hub := NewHub()
	household := uuid.New()

	everything := newMockClient("everything", household)
	ratesOnly := newMockClient("rates-only", household)
	ratesOnly.topics = Topics{EntityTypeMarketRates: true}

	hub.Register(everything)
	hub.Register(ratesOnly)

	hub.Broadcast(household, SnapshotCreated(map[string]interface{}{"month": "2026-10"}))
	hub.BroadcastAll(MarketRatesRefreshed(map[string]interface{}{"options": 2}))

	waitForMessages(t, everything, 2)
	waitForMessages(t, ratesOnly, 1)

	time.Sleep(10 * time.Millisecond)
	msgs := ratesOnly.GetMessages()
	require.Len(t, msgs, 1)
	assert.Contains(t, string(msgs[0]), `"type":"market_rates.refreshed"`)
}

func TestHub_ConcurrentAccess(t *testing.T) {
	hub := NewHub()

	households := make([]uuid.UUID, 5)
	for i := range households {
		households[i] = uuid.New()
	}

	var wg sync.WaitGroup
	clientCount := 50

	clients := make([]*mockClient, clientCount)
	for i := 0; i < clientCount; i++ {
		clients[i] = newMockClient(fmt.Sprintf("client-%d", i), households[i%5])
	}

	for i := 0; i < clientCount; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			hub.Register(clients[idx])
		}(i)
	}
	wg.Wait()

	assert.Equal(t, clientCount, hub.TotalClientCount())

	for i := 0; i < clientCount; i++ {
		wg.Add(2)
		go func(idx int) {
			defer wg.Done()
			hub.Broadcast(households[idx%5], SnapshotCreated(map[string]interface{}{"n": idx}))
		}(i)
		go func(idx int) {
			defer wg.Done()
			hub.Unregister(clients[idx])
		}(i)
	}
	wg.Wait()

	for _, h := range households {
		assert.Equal(t, 0, hub.ClientCount(h))
	}
}

func TestHub_UnregisterNonexistent(t *testing.T) {
	hub := NewHub()

	require.NotPanics(t, func() {
		hub.Unregister(newMockClient("client-1", uuid.New()))
	})
}

func TestHub_BroadcastToEmptyHousehold(t *testing.T) {
	hub := NewHub()

	require.NotPanics(t, func() {
		hub.Broadcast(uuid.New(), SnapshotCreated(nil))
		hub.BroadcastAll(MarketRatesRefreshed(nil))
	})
}
