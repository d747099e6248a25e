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
	"github.com/ahmedanwarabdulaziz/ASC-sub000/pkg/metrics"
)

type categoryService struct {
	categories repository.CategoryRepository
	members    repository.MemberRepository
	scopes     *ScopeResolver
	authz      *authz.Service
	cache      *CacheService
	metrics    *metrics.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

// NewCategoryService creates the category ledger
func NewCategoryService(deps Deps, scopes *ScopeResolver) CategoryLedger {
	deps = deps.normalized()
	return &categoryService{
		categories: deps.Repos.Category,
		members:    deps.Repos.Member,
		scopes:     scopes,
		authz:      deps.Authz,
		cache:      deps.Cache,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
		now:        deps.Now,
	}
}

func duplicateCategory(name string) error {
	return apperrors.NewValidationError("You already have a category with this name",
		map[string]interface{}{"name": name})
}

func (s *categoryService) CreateCategory(ctx context.Context, actor *domain.Actor, req *domain.CreateCategoryRequest) (*domain.Category, error) {
	if err := s.authz.Authorize(actor, authz.ObjCategory, authz.ActCreate); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("Category name is required", nil)
	}

	category := &domain.Category{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		CreatorID:   actor.ID,
		CreatedAt:   s.now(),
	}
	if err := s.categories.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, duplicateCategory(name)
		}
		return nil, storeError(s.logger, "Failed to create category", err)
	}
	return category, nil
}

// ownCategory loads a category the actor created
func (s *categoryService) ownCategory(ctx context.Context, actor *domain.Actor, id string) (*domain.Category, error) {
	if actor == nil {
		return nil, apperrors.NewAuthenticationError("Authentication required")
	}
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(s.logger, "Failed to get category", err, zap.String("category_id", id))
	}
	if category == nil {
		return nil, apperrors.NewNotFoundError("Category")
	}
	if category.CreatorID != actor.ID {
		return nil, apperrors.NewAuthorizationError("Only the creator may change this category")
	}
	return category, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, actor *domain.Actor, id string, req *domain.UpdateCategoryRequest) (*domain.Category, error) {
	if req.Name == nil && req.Description == nil {
		return nil, apperrors.NewValidationError("Nothing to update", nil)
	}
	category, err := s.ownCategory(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("Category name is required", nil)
		}
		category.Name = name
	}
	if req.Description != nil {
		category.Description = strings.TrimSpace(*req.Description)
	}

	if err := s.categories.Update(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, duplicateCategory(category.Name)
		}
		return nil, storeError(s.logger, "Failed to update category", err, zap.String("category_id", id))
	}
	s.cache.InvalidateSummaries(ctx)
	return category, nil
}

// DeleteCategory removes the category together with every assignment of it
func (s *categoryService) DeleteCategory(ctx context.Context, actor *domain.Actor, id string) error {
	if _, err := s.ownCategory(ctx, actor, id); err != nil {
		return err
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		return storeError(s.logger, "Failed to delete category", err, zap.String("category_id", id))
	}
	s.cache.InvalidateSummaries(ctx)
	s.logger.Info("Category deleted",
		zap.String("category_id", id),
		zap.String("deleted_by", actor.ID))
	return nil
}

func (s *categoryService) ListCategories(ctx context.Context, viewer *domain.Actor) ([]domain.Category, error) {
	if viewer == nil {
		return nil, apperrors.NewAuthenticationError("Authentication required")
	}
	scope, err := s.scopes.Resolve(ctx, viewer, "")
	if err != nil {
		return nil, storeError(s.logger, "Failed to resolve scope", err)
	}
	categories, err := s.categories.List(ctx, scope)
	if err != nil {
		return nil, storeError(s.logger, "Failed to list categories", err)
	}
	return categories, nil
}

func (s *categoryService) Assign(ctx context.Context, actor *domain.Actor, memberID, categoryID string) (*domain.CategoryView, error) {
	if err := s.authz.Authorize(actor, authz.ObjCategory, authz.ActAssign); err != nil {
		return nil, err
	}

	exists, err := s.members.Exists(ctx, memberID)
	if err != nil {
		return nil, storeError(s.logger, "Failed to check member", err, zap.String("member_id", memberID))
	}
	if !exists {
		return nil, apperrors.NewNotFoundError("Member")
	}

	category, err := s.categories.GetByID(ctx, categoryID)
	if err != nil {
		return nil, storeError(s.logger, "Failed to get category", err, zap.String("category_id", categoryID))
	}
	scope, err := s.scopes.Resolve(ctx, actor, "")
	if err != nil {
		return nil, storeError(s.logger, "Failed to resolve scope", err)
	}
	if category == nil || !scope.Contains(category.CreatorID) {
		return nil, apperrors.NewNotFoundError("Category")
	}

	assignment := &domain.CategoryAssignment{
		ID:         uuid.NewString(),
		MemberID:   memberID,
		CategoryID: category.ID,
		AssignerID: actor.ID,
		AssignedAt: s.now(),
	}
	if err := s.categories.UpsertAssignment(ctx, assignment); err != nil {
		return nil, storeError(s.logger, "Failed to assign category", err,
			zap.String("member_id", memberID),
			zap.String("category_id", categoryID))
	}

	s.metrics.CategoryAssigned("assign")
	s.cache.InvalidateSummaries(ctx)
	return &domain.CategoryView{CategoryAssignment: *assignment, CategoryName: category.Name}, nil
}

// Remove deletes the actor's own assignment for the member
func (s *categoryService) Remove(ctx context.Context, actor *domain.Actor, memberID string) error {
	if err := s.authz.Authorize(actor, authz.ObjCategory, authz.ActAssign); err != nil {
		return err
	}
	deleted, err := s.categories.DeleteAssignment(ctx, memberID, actor.ID)
	if err != nil {
		return storeError(s.logger, "Failed to remove category", err, zap.String("member_id", memberID))
	}
	if !deleted {
		return apperrors.NewNotFoundError("Category assignment")
	}

	s.metrics.CategoryAssigned("remove")
	s.cache.InvalidateSummaries(ctx)
	return nil
}

// ForMember prefers the viewer's own assignment, then the newest in scope.
// It returns nil when nothing in scope is assigned.
func (s *categoryService) ForMember(ctx context.Context, viewer *domain.Actor, memberID, filter string) (*domain.CategoryView, error) {
	if viewer == nil {
		return nil, apperrors.NewAuthenticationError("Authentication required")
	}
	scope, err := s.scopes.Resolve(ctx, viewer, filter)
	if err != nil {
		return nil, storeError(s.logger, "Failed to resolve scope", err)
	}
	if scope.IsEmpty() {
		return nil, nil
	}

	assignments, err := s.categories.ListAssignments(ctx, repository.AssignmentQuery{MemberID: memberID, Scope: scope})
	if err != nil {
		return nil, storeError(s.logger, "Failed to list category assignments", err, zap.String("member_id", memberID))
	}
	views, err := categoryViews(ctx, s.categories, assignments, viewer.ID)
	if err != nil {
		return nil, storeError(s.logger, "Failed to load categories", err, zap.String("member_id", memberID))
	}
	return views[memberID], nil
}

// categoryViews resolves one assignment per member and names it
func categoryViews(ctx context.Context, categories repository.CategoryRepository, assignments []domain.CategoryAssignment, viewerID string) (map[string]*domain.CategoryView, error) {
	byMember := make(map[string][]domain.CategoryAssignment)
	for _, a := range assignments {
		byMember[a.MemberID] = append(byMember[a.MemberID], a)
	}

	resolved := make(map[string]domain.CategoryAssignment, len(byMember))
	ids := make([]string, 0, len(byMember))
	for memberID, group := range byMember {
		a, ok := domain.ResolveAssignment(group, viewerID)
		if !ok {
			continue
		}
		resolved[memberID] = a
		ids = append(ids, a.CategoryID)
	}

	names, err := categoryNames(ctx, categories, ids)
	if err != nil {
		return nil, err
	}

	views := make(map[string]*domain.CategoryView, len(resolved))
	for memberID, a := range resolved {
		views[memberID] = &domain.CategoryView{CategoryAssignment: a, CategoryName: names[a.CategoryID]}
	}
	return views, nil
}

func categoryNames(ctx context.Context, categories repository.CategoryRepository, ids []string) (map[string]string, error) {
	list, err := categories.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(list))
	for _, c := range list {
		names[c.ID] = c.Name
	}
	return names, nil
}
