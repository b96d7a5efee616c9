package testutil

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/dafibh/fortuna/fortuna-coach/internal/domain"
	"github.com/dafibh/fortuna/fortuna-coach/internal/websocket"
	"github.com/google/uuid"
)

// MockSnapshotRepository is a mock implementation of domain.SnapshotRepository
type MockSnapshotRepository struct {
	mu        sync.Mutex
	Snapshots map[uuid.UUID][]*domain.Snapshot
	AppendErr error
	LatestErr error
}

// NewMockSnapshotRepository creates a new MockSnapshotRepository
func NewMockSnapshotRepository() *MockSnapshotRepository {
	return &MockSnapshotRepository{
		Snapshots: make(map[uuid.UUID][]*domain.Snapshot),
	}
}

// Append stores a snapshot
func (m *MockSnapshotRepository) Append(ctx context.Context, s *domain.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AppendErr != nil {
		return m.AppendErr
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	m.Snapshots[s.HouseholdID] = append(m.Snapshots[s.HouseholdID], s)
	return nil
}

// ListByHousehold returns snapshots ordered by month, then insertion
func (m *MockSnapshotRepository) ListByHousehold(ctx context.Context, householdID uuid.UUID) ([]*domain.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Snapshot, len(m.Snapshots[householdID]))
	copy(out, m.Snapshots[householdID])
	sort.SliceStable(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out, nil
}

// Latest returns the most recent snapshot
func (m *MockSnapshotRepository) Latest(ctx context.Context, householdID uuid.UUID) (*domain.Snapshot, error) {
	if m.LatestErr != nil {
		return nil, m.LatestErr
	}
	list, _ := m.ListByHousehold(ctx, householdID)
	if len(list) == 0 {
		return nil, domain.ErrSnapshotNotFound
	}
	return list[len(list)-1], nil
}

// AddSnapshot adds a snapshot to the mock (helper for tests)
func (m *MockSnapshotRepository) AddSnapshot(s *domain.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Snapshots[s.HouseholdID] = append(m.Snapshots[s.HouseholdID], s)
}

// Count returns how many snapshots a household has
func (m *MockSnapshotRepository) Count(householdID uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Snapshots[householdID])
}

// MockRateCache is a mock implementation of domain.RateCache
type MockRateCache struct {
	mu      sync.Mutex
	Rates   *domain.MarketRates
	TTL     time.Duration
	GetErr  error
	SetErr  error
	SetCall int
}

// NewMockRateCache creates an empty MockRateCache
func NewMockRateCache() *MockRateCache {
	return &MockRateCache{}
}

// Get returns the stored rates
func (m *MockRateCache) Get(ctx context.Context) (*domain.MarketRates, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, false, m.GetErr
	}
	if m.Rates == nil {
		return nil, false, nil
	}
	return m.Rates, true, nil
}

// Set stores rates
func (m *MockRateCache) Set(ctx context.Context, rates *domain.MarketRates, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetCall++
	if m.SetErr != nil {
		return m.SetErr
	}
	m.Rates = rates
	m.TTL = ttl
	return nil
}

// MockRateProvider is a mock implementation of domain.RateProvider
type MockRateProvider struct {
	mu    sync.Mutex
	Rates *domain.MarketRates
	Err   error
	Calls int
}

// Fetch returns the configured rates or error
func (m *MockRateProvider) Fetch(ctx context.Context) (*domain.MarketRates, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Rates, nil
}

// CallCount returns how many times Fetch ran
func (m *MockRateProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}

// MockReportStorage is a mock implementation of domain.ReportStorage
type MockReportStorage struct {
	Objects    map[string][]byte
	UploadErr  error
	PresignErr error
	Deleted    []string
}

// NewMockReportStorage creates a new MockReportStorage
func NewMockReportStorage() *MockReportStorage {
	return &MockReportStorage{Objects: make(map[string][]byte)}
}

// Upload stores the object in memory
func (m *MockReportStorage) Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error) {
	if m.UploadErr != nil {
		return "", m.UploadErr
	}
	b, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	m.Objects[objectPath] = b
	return objectPath, nil
}

// GeneratePresignedURL returns a fake URL for the object
func (m *MockReportStorage) GeneratePresignedURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error) {
	if m.PresignErr != nil {
		return "", m.PresignErr
	}
	if _, ok := m.Objects[objectPath]; !ok {
		return "", domain.ErrReportNotFound
	}
	return fmt.Sprintf("https://reports.example.com/%s?expires=%d", objectPath, int(expiry.Seconds())), nil
}

// Delete removes the object
func (m *MockReportStorage) Delete(ctx context.Context, objectPath string) error {
	delete(m.Objects, objectPath)
	m.Deleted = append(m.Deleted, objectPath)
	return nil
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	mu     sync.Mutex
	Events []PublishedEvent
}

// PublishedEvent is one recorded publish. HouseholdID is uuid.Nil for PublishAll.
type PublishedEvent struct {
	HouseholdID uuid.UUID
	Event       websocket.Event
}

var _ websocket.EventPublisher = (*MockEventPublisher)(nil)

// Publish records a household event
func (m *MockEventPublisher) Publish(householdID uuid.UUID, event websocket.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, PublishedEvent{HouseholdID: householdID, Event: event})
}

// PublishAll records a broadcast event
func (m *MockEventPublisher) PublishAll(event websocket.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, PublishedEvent{Event: event})
}

// Published returns a copy of the recorded events
func (m *MockEventPublisher) Published() []PublishedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]PublishedEvent, len(m.Events))
	copy(out, m.Events)
	return out
}
