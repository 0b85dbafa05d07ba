package postgres

import (
	"context"
	"database/sql"

	"laundry/internal/domain"
)

// TransitionStore applies order state transitions inside database
// transactions. Status, otp, rider and terminal timestamps are written
// together, so a reader never observes one without the others.
type TransitionStore struct {
	db *sql.DB
}

// NewTransitionStore creates a new TransitionStore.
func NewTransitionStore(db *sql.DB) *TransitionStore {
	return &TransitionStore{db: db}
}

// Transition writes the order's transition fields only if its stored status
// still equals from, within a single transaction.
func (s *TransitionStore) Transition(ctx context.Context, order *domain.Order, from domain.OrderStatus) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	txOrderRepo := NewOrderRepositoryWithTx(tx)

	if err = txOrderRepo.UpdateTransition(ctx, order, from); err != nil {
		return err
	}

	return tx.Commit()
}
