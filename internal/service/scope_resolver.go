package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/domain"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/repository"
)

// ScopeResolver turns a viewer and an optional actor filter into the set of
// authors whose records the viewer may see.
type ScopeResolver struct {
	actors repository.ActorRepository
}

// NewScopeResolver creates a new scope resolver
func NewScopeResolver(actors repository.ActorRepository) *ScopeResolver {
	return &ScopeResolver{actors: actors}
}

// Resolve never fails on an unrecognised filter; it yields the empty scope.
// Errors are store failures only.
func (r *ScopeResolver) Resolve(ctx context.Context, viewer *domain.Actor, filter string) (domain.Scope, error) {
	if viewer == nil {
		return domain.EmptyScope(), nil
	}
	filter = strings.TrimSpace(filter)

	switch viewer.Role {
	case domain.RoleAdmin:
		switch filter {
		case "":
			return domain.Unrestricted(), nil
		case domain.FilterSelf, viewer.ID:
			return domain.ActorScope(viewer.ID), nil
		}
		target, err := r.actors.GetByID(ctx, filter)
		if err != nil {
			return domain.EmptyScope(), fmt.Errorf("failed to resolve scope filter: %w", err)
		}
		if target == nil {
			return domain.EmptyScope(), nil
		}
		return domain.ActorScope(target.ID), nil

	case domain.RoleSupervisor:
		switch filter {
		case "":
			leaders, err := r.actors.ListLeaders(ctx, viewer.ID)
			if err != nil {
				return domain.EmptyScope(), fmt.Errorf("failed to list leaders: %w", err)
			}
			ids := make([]string, 0, len(leaders)+1)
			ids = append(ids, viewer.ID)
			for _, l := range leaders {
				ids = append(ids, l.ID)
			}
			return domain.ActorScope(ids...), nil
		case domain.FilterSelf, viewer.ID:
			return domain.ActorScope(viewer.ID), nil
		}
		leader, err := r.actors.GetByID(ctx, filter)
		if err != nil {
			return domain.EmptyScope(), fmt.Errorf("failed to resolve scope filter: %w", err)
		}
		if leader == nil || !leader.IsTeamLeader() || leader.SupervisorID != viewer.ID {
			return domain.EmptyScope(), nil
		}
		return domain.ActorScope(leader.ID), nil

	case domain.RoleTeamLeader:
		return domain.ActorScope(viewer.ID), nil
	}

	return domain.EmptyScope(), nil
}
