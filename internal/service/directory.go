package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"laundry/internal/domain"
	"laundry/internal/redis"
	"laundry/internal/repository"
)

// ActorDirectory provides read access to actor records for dispatch
// decisions, backed by the actor repository with a read-through Redis cache.
type ActorDirectory struct {
	actorRepo     repository.ActorRepository
	cacheStore    redis.ActorCacheInterface
	locationStore redis.LocationStoreInterface
}

// NewActorDirectory creates a new ActorDirectory. Cache and location stores
// are optional.
func NewActorDirectory(
	actorRepo repository.ActorRepository,
	cacheStore redis.ActorCacheInterface,
	locationStore redis.LocationStoreInterface,
) *ActorDirectory {
	return &ActorDirectory{
		actorRepo:     actorRepo,
		cacheStore:    cacheStore,
		locationStore: locationStore,
	}
}

// RegisterActorRequest contains the parameters for registering an actor.
type RegisterActorRequest struct {
	Name     string
	Phone    string
	Roles    []string
	Location *domain.Coordinate
}

// Register creates a new actor record.
func (d *ActorDirectory) Register(ctx context.Context, req RegisterActorRequest) (*domain.Actor, error) {
	if req.Name == "" {
		return nil, ErrInvalidActorName
	}

	if len(req.Roles) == 0 {
		return nil, ErrInvalidRole
	}
	for _, role := range req.Roles {
		if !validRole(role) {
			return nil, ErrInvalidRole
		}
	}

	if req.Location != nil && !ValidCoordinate(*req.Location) {
		return nil, ErrInvalidCoordinates
	}

	actor := &domain.Actor{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Phone:     req.Phone,
		Roles:     req.Roles,
		Location:  req.Location,
		CreatedAt: time.Now(),
	}

	if err := d.actorRepo.Create(ctx, actor); err != nil {
		return nil, err
	}

	return actor, nil
}

// GetActor retrieves an actor, consulting the cache first. Cache failures
// fall through to the repository.
func (d *ActorDirectory) GetActor(ctx context.Context, id string) (*domain.Actor, error) {
	if id == "" {
		return nil, ErrInvalidActorID
	}

	if d.cacheStore != nil {
		cached, err := d.cacheStore.GetActor(ctx, id)
		if err == nil && cached != nil {
			return cachedToActor(cached), nil
		}
	}

	actor, err := d.actorRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if d.cacheStore != nil {
		_ = d.cacheStore.SetActor(ctx, actorToCached(actor))
	}

	return actor, nil
}

// ListActors retrieves all actors.
func (d *ActorDirectory) ListActors(ctx context.Context) ([]*domain.Actor, error) {
	return d.actorRepo.GetAll(ctx)
}

// ListByRole retrieves all actors holding the given role.
func (d *ActorDirectory) ListByRole(ctx context.Context, role string) ([]*domain.Actor, error) {
	if !validRole(role) {
		return nil, ErrInvalidRole
	}
	return d.actorRepo.GetByRole(ctx, role)
}

// UpdateLocation stores an actor's current position and keeps the live geo
// index in sync for actors holding the rider role.
func (d *ActorDirectory) UpdateLocation(ctx context.Context, id string, loc domain.Coordinate) error {
	if id == "" {
		return ErrInvalidActorID
	}

	if !ValidCoordinate(loc) {
		return ErrInvalidCoordinates
	}

	actor, err := d.actorRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := d.actorRepo.UpdateLocation(ctx, id, loc); err != nil {
		return err
	}

	if d.cacheStore != nil {
		_ = d.cacheStore.InvalidateActor(ctx, id)
	}

	if d.locationStore != nil && actor.HasRole(domain.RoleRider) {
		_ = d.locationStore.UpdateLocation(ctx, id, loc.Lat, loc.Lng)
	}

	return nil
}

// NearbyRiders returns rider live positions within radiusKm of the point.
func (d *ActorDirectory) NearbyRiders(ctx context.Context, loc domain.Coordinate, radiusKm float64) ([]redis.RiderLocation, error) {
	if !ValidCoordinate(loc) {
		return nil, ErrInvalidCoordinates
	}
	if d.locationStore == nil {
		return nil, nil
	}
	return d.locationStore.FindNearbyRiders(ctx, loc.Lat, loc.Lng, radiusKm)
}

func validRole(role string) bool {
	switch role {
	case domain.RoleUser, domain.RoleVendor, domain.RoleRider, domain.RoleAdmin:
		return true
	default:
		return false
	}
}

func cachedToActor(cached *redis.CachedActor) *domain.Actor {
	actor := &domain.Actor{
		ID:    cached.ID,
		Name:  cached.Name,
		Phone: cached.Phone,
		Roles: cached.Roles,
	}
	if cached.Lat != nil && cached.Lng != nil {
		actor.Location = &domain.Coordinate{Lat: *cached.Lat, Lng: *cached.Lng}
	}
	return actor
}

func actorToCached(actor *domain.Actor) *redis.CachedActor {
	cached := &redis.CachedActor{
		ID:    actor.ID,
		Name:  actor.Name,
		Phone: actor.Phone,
		Roles: actor.Roles,
	}
	if actor.Location != nil {
		lat, lng := actor.Location.Lat, actor.Location.Lng
		cached.Lat, cached.Lng = &lat, &lng
	}
	return cached
}
