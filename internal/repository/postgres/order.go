package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"laundry/internal/domain"
	"laundry/internal/repository"
)

// OrderRepository is a PostgreSQL implementation of repository.OrderRepository.
type OrderRepository struct {
	q Querier
}

// NewOrderRepository creates a new PostgreSQL order repository.
func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{q: db}
}

// NewOrderRepositoryWithTx creates an order repository using a transaction.
func NewOrderRepositoryWithTx(tx *sql.Tx) *OrderRepository {
	return &OrderRepository{q: tx}
}

const orderColumns = `id, price, type, status, user_id, vendor_id, rider_id, otp, pick_time, drop_time, pickup_lat, pickup_lng, drop_lat, drop_lng, completed_at, cancelled_at, cancel_reason, created_at, updated_at`

// Create persists a new order.
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`

	pickupLat, pickupLng := nullCoordinate(order.Pickup)
	dropLat, dropLng := nullCoordinate(order.Drop)

	_, err := r.q.ExecContext(ctx, query,
		order.ID,
		order.Price,
		order.Type,
		order.Status,
		order.UserID,
		order.VendorID,
		nullString(order.RiderID),
		nullString(order.OTP),
		order.PickTime,
		order.DropTime,
		pickupLat,
		pickupLng,
		dropLat,
		dropLng,
		nullTime(order.CompletedAt),
		nullTime(order.CancelledAt),
		nullString(order.CancelReason),
		order.CreatedAt,
		order.UpdatedAt,
	)

	return err
}

// GetByID retrieves an order by ID.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return order, nil
}

// GetAll retrieves recent orders.
func (r *OrderRepository) GetAll(ctx context.Context) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC LIMIT 100`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectOrders(rows)
}

// GetByUserID retrieves orders placed by a customer.
func (r *OrderRepository) GetByUserID(ctx context.Context, userID string) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectOrders(rows)
}

// UpdateTransition writes the transition fields only if the stored status
// still equals from. The WHERE clause on the old status is the compare-and-
// swap the whole dispatch engine depends on: two concurrent callers can both
// read the same status, but only one conditional write matches a row.
func (r *OrderRepository) UpdateTransition(ctx context.Context, order *domain.Order, from domain.OrderStatus) error {
	query := `
		UPDATE orders
		SET status = $1, otp = $2, rider_id = $3, completed_at = $4, cancelled_at = $5, cancel_reason = $6, updated_at = $7
		WHERE id = $8 AND status = $9
	`

	result, err := r.q.ExecContext(ctx, query,
		order.Status,
		nullString(order.OTP),
		nullString(order.RiderID),
		nullTime(order.CompletedAt),
		nullTime(order.CancelledAt),
		nullString(order.CancelReason),
		order.UpdatedAt,
		order.ID,
		from,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrStaleStatus
	}

	return nil
}

// Delete removes an order.
func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var order domain.Order
	var riderID, otp, cancelReason sql.NullString
	var pickupLat, pickupLng, dropLat, dropLng sql.NullFloat64
	var completedAt, cancelledAt sql.NullTime

	err := row.Scan(
		&order.ID,
		&order.Price,
		&order.Type,
		&order.Status,
		&order.UserID,
		&order.VendorID,
		&riderID,
		&otp,
		&order.PickTime,
		&order.DropTime,
		&pickupLat,
		&pickupLng,
		&dropLat,
		&dropLng,
		&completedAt,
		&cancelledAt,
		&cancelReason,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	order.RiderID = riderID.String
	order.OTP = otp.String
	order.CancelReason = cancelReason.String
	if completedAt.Valid {
		order.CompletedAt = completedAt.Time
	}
	if cancelledAt.Valid {
		order.CancelledAt = cancelledAt.Time
	}
	if pickupLat.Valid && pickupLng.Valid {
		order.Pickup = &domain.Coordinate{Lat: pickupLat.Float64, Lng: pickupLng.Float64}
	}
	if dropLat.Valid && dropLng.Valid {
		order.Drop = &domain.Coordinate{Lat: dropLat.Float64, Lng: dropLng.Float64}
	}

	return &order, nil
}

func collectOrders(rows *sql.Rows) ([]*domain.Order, error) {
	var orders []*domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}

func nullCoordinate(c *domain.Coordinate) (sql.NullFloat64, sql.NullFloat64) {
	if c == nil {
		return sql.NullFloat64{}, sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: c.Lat, Valid: true}, sql.NullFloat64{Float64: c.Lng, Valid: true}
}
