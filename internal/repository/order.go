package repository

import (
	"context"

	"laundry/internal/domain"
)

// OrderRepository defines the persistence operations for orders.
type OrderRepository interface {
	// Create persists a new order.
	Create(ctx context.Context, order *domain.Order) error

	// GetByID retrieves an order by ID.
	GetByID(ctx context.Context, id string) (*domain.Order, error)

	// GetAll retrieves recent orders.
	GetAll(ctx context.Context) ([]*domain.Order, error)

	// GetByUserID retrieves orders placed by a customer.
	GetByUserID(ctx context.Context, userID string) ([]*domain.Order, error)

	// UpdateTransition writes the order's status, otp, rider and terminal
	// fields only if the stored status still equals from. Returns
	// ErrStaleStatus when the conditional write matches zero rows.
	UpdateTransition(ctx context.Context, order *domain.Order, from domain.OrderStatus) error

	// Delete removes an order. Administrative cleanup only; normal flow
	// terminates orders through status transitions.
	Delete(ctx context.Context, id string) error
}

// OrderTransitioner applies a single order state transition atomically.
// The production implementation wraps the conditional write in a database
// transaction so readers never observe a partially updated order.
type OrderTransitioner interface {
	Transition(ctx context.Context, order *domain.Order, from domain.OrderStatus) error
}
