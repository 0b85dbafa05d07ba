package tests

import (
	"context"
	"sync"
	"sync/atomic"

	"laundry/internal/domain"
	"laundry/internal/redis"
	"laundry/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK ORDER REPOSITORY
// ──────────────────────────────────────────────

// MockOrderRepository is an in-memory implementation of OrderRepository and
// OrderTransitioner. UpdateTransition performs the same compare-and-swap the
// Postgres repository does, under a mutex, so race tests exercise the real
// winner/loser semantics.
type MockOrderRepository struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order

	// Counters for verification
	CreateCallCount     int32
	TransitionCallCount int32

	// Error injection
	CreateError     error
	TransitionError error
}

// NewMockOrderRepository creates a new mock order repository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]*domain.Order),
	}
}

// AddOrder seeds an order into the mock repository.
func (m *MockOrderRepository) AddOrder(order *domain.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[order.ID] = order
}

func (m *MockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *order
	m.orders[order.ID] = &copy
	return nil
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	order, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *order
	return &copy, nil
}

func (m *MockOrderRepository) GetAll(ctx context.Context) ([]*domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Order, 0, len(m.orders))
	for _, o := range m.orders {
		copy := *o
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockOrderRepository) GetByUserID(ctx context.Context, userID string) ([]*domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			copy := *o
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockOrderRepository) UpdateTransition(ctx context.Context, order *domain.Order, from domain.OrderStatus) error {
	atomic.AddInt32(&m.TransitionCallCount, 1)
	if m.TransitionError != nil {
		return m.TransitionError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.orders[order.ID]
	if !ok || stored.Status != from {
		return repository.ErrStaleStatus
	}
	copy := *order
	m.orders[order.ID] = &copy
	return nil
}

// Transition satisfies repository.OrderTransitioner by delegating to the
// conditional update.
func (m *MockOrderRepository) Transition(ctx context.Context, order *domain.Order, from domain.OrderStatus) error {
	return m.UpdateTransition(ctx, order, from)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.orders, id)
	return nil
}

// GetOrder returns the stored order for test assertions.
func (m *MockOrderRepository) GetOrder(id string) *domain.Order {
	m.mu.RLock()
	defer m.mu.RUnlock()
	order, ok := m.orders[id]
	if !ok {
		return nil
	}
	copy := *order
	return &copy
}

// CountOrders returns the number of stored orders.
func (m *MockOrderRepository) CountOrders() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.orders)
}

// ──────────────────────────────────────────────
// MOCK ACTOR REPOSITORY
// ──────────────────────────────────────────────

// MockActorRepository is an in-memory implementation of ActorRepository.
type MockActorRepository struct {
	mu     sync.RWMutex
	actors map[string]*domain.Actor

	// Counters for verification
	GetByIDCallCount int32

	// Error injection
	GetByRoleError error
}

// NewMockActorRepository creates a new mock actor repository.
func NewMockActorRepository() *MockActorRepository {
	return &MockActorRepository{
		actors: make(map[string]*domain.Actor),
	}
}

// AddActor seeds an actor into the mock repository.
func (m *MockActorRepository) AddActor(actor *domain.Actor) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actors[actor.ID] = actor
}

func (m *MockActorRepository) Create(ctx context.Context, actor *domain.Actor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *actor
	m.actors[actor.ID] = &copy
	return nil
}

func (m *MockActorRepository) GetByID(ctx context.Context, id string) (*domain.Actor, error) {
	atomic.AddInt32(&m.GetByIDCallCount, 1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	actor, ok := m.actors[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *actor
	return &copy, nil
}

func (m *MockActorRepository) GetAll(ctx context.Context) ([]*domain.Actor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Actor, 0, len(m.actors))
	for _, a := range m.actors {
		copy := *a
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockActorRepository) GetByRole(ctx context.Context, role string) ([]*domain.Actor, error) {
	if m.GetByRoleError != nil {
		return nil, m.GetByRoleError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Actor
	for _, a := range m.actors {
		if a.HasRole(role) {
			copy := *a
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockActorRepository) UpdateLocation(ctx context.Context, id string, loc domain.Coordinate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	actor, ok := m.actors[id]
	if !ok {
		return repository.ErrNotFound
	}
	actor.Location = &domain.Coordinate{Lat: loc.Lat, Lng: loc.Lng}
	return nil
}

// ──────────────────────────────────────────────
// MOCK BROADCASTER
// ──────────────────────────────────────────────

// PublishedEvent records one broadcast for assertions.
type PublishedEvent struct {
	Channel string
	Event   string
	Data    map[string]any
}

// MockBroadcaster records published events instead of delivering them.
type MockBroadcaster struct {
	mu     sync.Mutex
	events []PublishedEvent

	// Error injection
	PublishError error
}

// NewMockBroadcaster creates a new mock broadcaster.
func NewMockBroadcaster() *MockBroadcaster {
	return &MockBroadcaster{}
}

func (m *MockBroadcaster) Publish(ctx context.Context, channel, event string, data map[string]any) error {
	if m.PublishError != nil {
		return m.PublishError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, PublishedEvent{Channel: channel, Event: event, Data: data})
	return nil
}

// EventsFor returns all events published to a channel.
func (m *MockBroadcaster) EventsFor(channel string) []PublishedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []PublishedEvent
	for _, e := range m.events {
		if e.Channel == channel {
			result = append(result, e)
		}
	}
	return result
}

// CountEvents returns the total number of published events.
func (m *MockBroadcaster) CountEvents() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

// ──────────────────────────────────────────────
// MOCK LOCATION STORE
// ──────────────────────────────────────────────

// MockLocationStore is an in-memory implementation of the rider location
// store. It does no real geo filtering; it returns everything it holds.
type MockLocationStore struct {
	mu        sync.RWMutex
	locations []redis.RiderLocation
}

// NewMockLocationStore creates a new mock location store.
func NewMockLocationStore() *MockLocationStore {
	return &MockLocationStore{}
}

func (m *MockLocationStore) UpdateLocation(ctx context.Context, riderID string, lat, lng float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, loc := range m.locations {
		if loc.RiderID == riderID {
			m.locations[i].Lat = lat
			m.locations[i].Lng = lng
			return nil
		}
	}
	m.locations = append(m.locations, redis.RiderLocation{RiderID: riderID, Lat: lat, Lng: lng})
	return nil
}

func (m *MockLocationStore) FindNearbyRiders(ctx context.Context, lat, lng, radiusKm float64) ([]redis.RiderLocation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]redis.RiderLocation, len(m.locations))
	copy(result, m.locations)
	return result, nil
}

func (m *MockLocationStore) RemoveLocation(ctx context.Context, riderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, loc := range m.locations {
		if loc.RiderID == riderID {
			m.locations = append(m.locations[:i], m.locations[i+1:]...)
			return nil
		}
	}
	return nil
}

// HasLocation reports whether a rider is present in the store.
func (m *MockLocationStore) HasLocation(riderID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, loc := range m.locations {
		if loc.RiderID == riderID {
			return true
		}
	}
	return false
}

// ──────────────────────────────────────────────
// MOCK ACTOR CACHE
// ──────────────────────────────────────────────

// MockActorCache is an in-memory implementation of the actor cache.
type MockActorCache struct {
	mu     sync.RWMutex
	actors map[string]*redis.CachedActor

	// Counters for verification
	GetCallCount int32
	SetCallCount int32
}

// NewMockActorCache creates a new mock actor cache.
func NewMockActorCache() *MockActorCache {
	return &MockActorCache{
		actors: make(map[string]*redis.CachedActor),
	}
}

func (m *MockActorCache) GetActor(ctx context.Context, actorID string) (*redis.CachedActor, error) {
	atomic.AddInt32(&m.GetCallCount, 1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	actor, ok := m.actors[actorID]
	if !ok {
		return nil, nil
	}
	copy := *actor
	return &copy, nil
}

func (m *MockActorCache) SetActor(ctx context.Context, actor *redis.CachedActor) error {
	atomic.AddInt32(&m.SetCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *actor
	m.actors[actor.ID] = &copy
	return nil
}

func (m *MockActorCache) InvalidateActor(ctx context.Context, actorID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.actors, actorID)
	return nil
}
