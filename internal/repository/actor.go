package repository

import (
	"context"

	"laundry/internal/domain"
)

// ActorRepository defines the persistence operations for actors.
type ActorRepository interface {
	// Create persists a new actor.
	Create(ctx context.Context, actor *domain.Actor) error

	// GetByID retrieves an actor by ID.
	GetByID(ctx context.Context, id string) (*domain.Actor, error)

	// GetAll retrieves all actors.
	GetAll(ctx context.Context) ([]*domain.Actor, error)

	// GetByRole retrieves all actors holding the given role.
	GetByRole(ctx context.Context, role string) ([]*domain.Actor, error)

	// UpdateLocation stores the actor's current position.
	UpdateLocation(ctx context.Context, id string, loc domain.Coordinate) error
}
