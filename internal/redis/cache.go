package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// ActorCacheTTL bounds staleness of cached actor records. Actors are
// read-mostly, so a short TTL stands in for any invalidation beyond
// explicit busts on location updates.
const ActorCacheTTL = 30 * time.Second

const actorCachePrefix = "cache:actor:"

// CachedActor represents a cached actor record.
type CachedActor struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Phone string   `json:"phone"`
	Roles []string `json:"roles"`
	Lat   *float64 `json:"lat,omitempty"`
	Lng   *float64 `json:"lng,omitempty"`
}

// CacheStore is a read-through cache for actor records.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// GetActor retrieves an actor from cache. A cache miss returns (nil, nil).
func (s *CacheStore) GetActor(ctx context.Context, actorID string) (*CachedActor, error) {
	data, err := s.client.Get(ctx, actorCachePrefix+actorID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var actor CachedActor
	if err := json.Unmarshal(data, &actor); err != nil {
		return nil, err
	}
	return &actor, nil
}

// SetActor stores an actor in cache.
func (s *CacheStore) SetActor(ctx context.Context, actor *CachedActor) error {
	data, err := json.Marshal(actor)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, actorCachePrefix+actor.ID, data, ActorCacheTTL).Err()
}

// InvalidateActor removes an actor from cache.
func (s *CacheStore) InvalidateActor(ctx context.Context, actorID string) error {
	return s.client.Del(ctx, actorCachePrefix+actorID).Err()
}
