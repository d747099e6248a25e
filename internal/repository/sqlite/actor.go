package sqlite

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/domain"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/repository"
)

type ActorRepository struct {
	db *gorm.DB
}

func (r *ActorRepository) GetByID(ctx context.Context, id string) (*domain.Actor, error) {
	var m Actor
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get actor: %w", err)
	}
	a := m.toDomain()
	return &a, nil
}

func (r *ActorRepository) find(ctx context.Context, query string, args ...interface{}) ([]domain.Actor, error) {
	var rows []Actor
	if err := r.db.WithContext(ctx).Where(query, args...).Order("short_code").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list actors: %w", err)
	}
	actors := make([]domain.Actor, 0, len(rows))
	for _, m := range rows {
		actors = append(actors, m.toDomain())
	}
	return actors, nil
}

func (r *ActorRepository) ListLeaders(ctx context.Context, supervisorID string) ([]domain.Actor, error) {
	return r.find(ctx, "role = ? AND supervisor_id = ?", string(domain.RoleTeamLeader), supervisorID)
}

func (r *ActorRepository) ListByRole(ctx context.Context, role domain.Role) ([]domain.Actor, error) {
	return r.find(ctx, "role = ?", string(role))
}

func (r *ActorRepository) Create(ctx context.Context, actor *domain.Actor) error {
	m := actorFromDomain(actor)
	err := r.db.WithContext(ctx).Create(&m).Error
	if isUniqueViolation(err) {
		return repository.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to create actor: %w", err)
	}
	return nil
}
