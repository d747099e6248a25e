package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/domain"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/pkg/database"
)

type actorRepository struct {
	db *database.PostgresDB
}

func NewActorRepository(db *database.PostgresDB) ActorRepository {
	return &actorRepository{db: db}
}

const actorColumns = `id, role, COALESCE(supervisor_id, ''), short_code, name, created_at`

func scanActor(row pgx.Row) (*domain.Actor, error) {
	var a domain.Actor
	err := row.Scan(&a.ID, &a.Role, &a.SupervisorID, &a.ShortCode, &a.Name, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *actorRepository) list(ctx context.Context, query string, args ...interface{}) ([]domain.Actor, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list actors: %w", err)
	}
	defer rows.Close()

	actors := make([]domain.Actor, 0)
	for rows.Next() {
		a, err := scanActor(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan actor: %w", err)
		}
		actors = append(actors, *a)
	}
	return actors, rows.Err()
}

// GetByID gets an actor by ID
func (r *actorRepository) GetByID(ctx context.Context, id string) (*domain.Actor, error) {
	a, err := scanActor(r.db.Pool.QueryRow(ctx, `SELECT `+actorColumns+` FROM actors WHERE id = $1`, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get actor: %w", err)
	}
	return a, nil
}

// ListLeaders gets the team leaders of a supervisor
func (r *actorRepository) ListLeaders(ctx context.Context, supervisorID string) ([]domain.Actor, error) {
	return r.list(ctx, `
		SELECT `+actorColumns+`
		FROM actors
		WHERE role = 'team_leader' AND supervisor_id = $1
		ORDER BY short_code
	`, supervisorID)
}

// ListByRole gets all actors with a role
func (r *actorRepository) ListByRole(ctx context.Context, role domain.Role) ([]domain.Actor, error) {
	return r.list(ctx, `
		SELECT `+actorColumns+`
		FROM actors
		WHERE role = $1
		ORDER BY short_code
	`, string(role))
}

// Create inserts a new actor
func (r *actorRepository) Create(ctx context.Context, actor *domain.Actor) error {
	var supervisorID interface{}
	if actor.SupervisorID != "" {
		supervisorID = actor.SupervisorID
	}

	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO actors (id, role, supervisor_id, short_code, name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, actor.ID, string(actor.Role), supervisorID, actor.ShortCode, actor.Name, actor.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to create actor: %w", err)
	}
	return nil
}
