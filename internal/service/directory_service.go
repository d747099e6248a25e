package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/authz"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/domain"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/repository"
	apperrors "github.com/ahmedanwarabdulaziz/ASC-sub000/pkg/errors"
)

type directoryService struct {
	actors repository.ActorRepository
	authz  *authz.Service
	cache  *CacheService
	logger *zap.Logger
	now    func() time.Time
}

// NewDirectoryService creates the identity and hierarchy directory
func NewDirectoryService(deps Deps) DirectoryService {
	deps = deps.normalized()
	return &directoryService{
		actors: deps.Repos.Actor,
		authz:  deps.Authz,
		cache:  deps.Cache,
		logger: deps.Logger,
		now:    deps.Now,
	}
}

func (s *directoryService) GetActor(ctx context.Context, id string) (*domain.Actor, error) {
	actor, err := s.actors.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(s.logger, "Failed to get actor", err, zap.String("actor_id", id))
	}
	if actor == nil {
		return nil, apperrors.NewNotFoundError("Actor")
	}
	return actor, nil
}

func (s *directoryService) ListVisible(ctx context.Context, viewer *domain.Actor) ([]domain.Actor, error) {
	if viewer == nil {
		return nil, apperrors.NewAuthenticationError("Authentication required")
	}

	switch viewer.Role {
	case domain.RoleAdmin:
		var all []domain.Actor
		for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleSupervisor, domain.RoleTeamLeader} {
			actors, err := s.actors.ListByRole(ctx, role)
			if err != nil {
				return nil, storeError(s.logger, "Failed to list actors", err)
			}
			all = append(all, actors...)
		}
		return all, nil
	case domain.RoleSupervisor:
		leaders, err := s.actors.ListLeaders(ctx, viewer.ID)
		if err != nil {
			return nil, storeError(s.logger, "Failed to list leaders", err, zap.String("supervisor_id", viewer.ID))
		}
		return append([]domain.Actor{*viewer}, leaders...), nil
	}
	return []domain.Actor{*viewer}, nil
}

func (s *directoryService) CreateActor(ctx context.Context, creator *domain.Actor, req *domain.CreateActorRequest) (*domain.Actor, error) {
	if creator == nil {
		return nil, apperrors.NewAuthenticationError("Authentication required")
	}

	role := domain.Role(strings.TrimSpace(req.Role))
	if !role.Valid() {
		return nil, apperrors.NewValidationError("Invalid role", map[string]interface{}{"role": req.Role})
	}
	shortCode := strings.TrimSpace(req.ShortCode)
	name := strings.TrimSpace(req.Name)
	if shortCode == "" || name == "" {
		return nil, apperrors.NewValidationError("short_code and name are required", nil)
	}
	supervisorID := strings.TrimSpace(req.SupervisorID)

	switch {
	case creator.IsAdmin():
		if err := s.authz.Authorize(creator, authz.ObjActor, authz.ActCreateAny); err != nil {
			return nil, err
		}
	case creator.IsSupervisor():
		if err := s.authz.Authorize(creator, authz.ObjActor, authz.ActCreateLeader); err != nil {
			return nil, err
		}
		if role != domain.RoleTeamLeader {
			return nil, apperrors.NewAuthorizationError("Supervisors may only create team leaders")
		}
		if supervisorID != "" && supervisorID != creator.ID {
			return nil, apperrors.NewAuthorizationError("Supervisors may only create leaders under themselves")
		}
		supervisorID = creator.ID
	default:
		return nil, apperrors.NewAuthorizationError("You may not create actors")
	}

	if role == domain.RoleTeamLeader {
		if supervisorID == "" {
			return nil, apperrors.NewValidationError("supervisor_id is required for team leaders", nil)
		}
		supervisor, err := s.actors.GetByID(ctx, supervisorID)
		if err != nil {
			return nil, storeError(s.logger, "Failed to get supervisor", err, zap.String("supervisor_id", supervisorID))
		}
		if supervisor == nil || !supervisor.IsSupervisor() {
			return nil, apperrors.NewValidationError("supervisor_id must reference a supervisor",
				map[string]interface{}{"supervisor_id": supervisorID})
		}
	} else if supervisorID != "" {
		return nil, apperrors.NewValidationError("Only team leaders have a supervisor", nil)
	}

	actor := &domain.Actor{
		ID:           uuid.NewString(),
		Role:         role,
		SupervisorID: supervisorID,
		ShortCode:    shortCode,
		Name:         name,
		CreatedAt:    s.now(),
	}
	if err := s.actors.Create(ctx, actor); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewValidationError("short_code already in use",
				map[string]interface{}{"short_code": shortCode})
		}
		return nil, storeError(s.logger, "Failed to create actor", err)
	}
	// a new leader changes the team breakdown of its supervisor's summaries
	s.cache.InvalidateSummaries(ctx)

	s.logger.Info("Actor created",
		zap.String("actor_id", actor.ID),
		zap.String("role", string(actor.Role)),
		zap.String("created_by", creator.ID))
	return actor, nil
}
