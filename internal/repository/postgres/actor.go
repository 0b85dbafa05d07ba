package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"laundry/internal/domain"
	"laundry/internal/repository"
)

// ActorRepository is a PostgreSQL implementation of repository.ActorRepository.
type ActorRepository struct {
	q Querier
}

// NewActorRepository creates a new PostgreSQL actor repository.
func NewActorRepository(db *sql.DB) *ActorRepository {
	return &ActorRepository{q: db}
}

// NewActorRepositoryWithTx creates an actor repository using a transaction.
func NewActorRepositoryWithTx(tx *sql.Tx) *ActorRepository {
	return &ActorRepository{q: tx}
}

// Create persists a new actor.
func (r *ActorRepository) Create(ctx context.Context, actor *domain.Actor) error {
	query := `
		INSERT INTO actors (id, name, phone, roles, lat, lng, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	var lat, lng sql.NullFloat64
	if actor.Location != nil {
		lat = sql.NullFloat64{Float64: actor.Location.Lat, Valid: true}
		lng = sql.NullFloat64{Float64: actor.Location.Lng, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		actor.ID,
		actor.Name,
		actor.Phone,
		pq.Array(actor.Roles),
		lat,
		lng,
		actor.CreatedAt,
	)

	return err
}

// GetByID retrieves an actor by ID.
func (r *ActorRepository) GetByID(ctx context.Context, id string) (*domain.Actor, error) {
	query := `SELECT id, name, phone, roles, lat, lng, created_at FROM actors WHERE id = $1`

	actor, err := scanActor(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return actor, nil
}

// GetAll retrieves all actors.
func (r *ActorRepository) GetAll(ctx context.Context) ([]*domain.Actor, error) {
	query := `SELECT id, name, phone, roles, lat, lng, created_at FROM actors ORDER BY created_at DESC`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectActors(rows)
}

// GetByRole retrieves all actors holding the given role.
func (r *ActorRepository) GetByRole(ctx context.Context, role string) ([]*domain.Actor, error) {
	query := `SELECT id, name, phone, roles, lat, lng, created_at FROM actors WHERE $1 = ANY(roles)`

	rows, err := r.q.QueryContext(ctx, query, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectActors(rows)
}

// UpdateLocation stores the actor's current position.
func (r *ActorRepository) UpdateLocation(ctx context.Context, id string, loc domain.Coordinate) error {
	result, err := r.q.ExecContext(ctx,
		`UPDATE actors SET lat = $1, lng = $2 WHERE id = $3`,
		loc.Lat, loc.Lng, id,
	)
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

func scanActor(row rowScanner) (*domain.Actor, error) {
	var actor domain.Actor
	var roles pq.StringArray
	var lat, lng sql.NullFloat64

	err := row.Scan(
		&actor.ID,
		&actor.Name,
		&actor.Phone,
		&roles,
		&lat,
		&lng,
		&actor.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	actor.Roles = []string(roles)
	if lat.Valid && lng.Valid {
		actor.Location = &domain.Coordinate{Lat: lat.Float64, Lng: lng.Float64}
	}

	return &actor, nil
}

func collectActors(rows *sql.Rows) ([]*domain.Actor, error) {
	var actors []*domain.Actor
	for rows.Next() {
		actor, err := scanActor(rows)
		if err != nil {
			return nil, err
		}
		actors = append(actors, actor)
	}
	return actors, rows.Err()
}
