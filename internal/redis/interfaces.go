package redis

import "context"

// BroadcasterInterface defines the interface for publishing lifecycle events.
type BroadcasterInterface interface {
	Publish(ctx context.Context, channel, event string, data map[string]any) error
}

// LocationStoreInterface defines the interface for rider location tracking.
type LocationStoreInterface interface {
	UpdateLocation(ctx context.Context, riderID string, lat, lng float64) error
	FindNearbyRiders(ctx context.Context, lat, lng, radiusKm float64) ([]RiderLocation, error)
	RemoveLocation(ctx context.Context, riderID string) error
}

// ActorCacheInterface defines the interface for the actor read-through cache.
type ActorCacheInterface interface {
	GetActor(ctx context.Context, actorID string) (*CachedActor, error)
	SetActor(ctx context.Context, actor *CachedActor) error
	InvalidateActor(ctx context.Context, actorID string) error
}

// Ensure concrete types implement interfaces.
var (
	_ BroadcasterInterface   = (*Broadcaster)(nil)
	_ LocationStoreInterface = (*LocationStore)(nil)
	_ ActorCacheInterface    = (*CacheStore)(nil)
)
