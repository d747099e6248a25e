package service

import (
	"context"
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

type statusService struct {
	statuses repository.StatusRepository
	members  repository.MemberRepository
	scopes   *ScopeResolver
	authz    *authz.Service
	cache    *CacheService
	metrics  *metrics.Metrics
	logger   *zap.Logger
	now      func() time.Time
}

// NewStatusService creates the status ledger
func NewStatusService(deps Deps, scopes *ScopeResolver) StatusLedger {
	deps = deps.normalized()
	return &statusService{
		statuses: deps.Repos.Status,
		members:  deps.Repos.Member,
		scopes:   scopes,
		authz:    deps.Authz,
		cache:    deps.Cache,
		metrics:  deps.Metrics,
		logger:   deps.Logger,
		now:      deps.Now,
	}
}

func invalidStatus(value string) error {
	return apperrors.NewValidationError("Invalid status", map[string]interface{}{
		"status":  value,
		"allowed": domain.AllStatuses,
	})
}

// Write records the actor's status for a member, replacing the actor's
// previous record for that member in place.
func (s *statusService) Write(ctx context.Context, actor *domain.Actor, memberID string, req *domain.WriteStatusRequest) (*domain.StatusRecord, error) {
	if err := s.authz.Authorize(actor, authz.ObjStatus, authz.ActWrite); err != nil {
		return nil, err
	}
	status, ok := domain.ParseStatus(req.Status)
	if !ok {
		return nil, invalidStatus(req.Status)
	}

	exists, err := s.members.Exists(ctx, memberID)
	if err != nil {
		return nil, storeError(s.logger, "Failed to check member", err, zap.String("member_id", memberID))
	}
	if !exists {
		return nil, apperrors.NewNotFoundError("Member")
	}

	now := s.now()
	record := &domain.StatusRecord{
		ID:        uuid.NewString(),
		MemberID:  memberID,
		Status:    status,
		AuthorID:  actor.ID,
		Notes:     strings.TrimSpace(req.Notes),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.statuses.Upsert(ctx, record); err != nil {
		return nil, storeError(s.logger, "Failed to write status", err,
			zap.String("member_id", memberID),
			zap.String("author_id", actor.ID))
	}

	s.metrics.StatusWritten("write", string(status))
	s.cache.InvalidateSummaries(ctx)
	s.logger.Debug("Status written",
		zap.String("status_id", record.ID),
		zap.String("member_id", memberID),
		zap.String("author_id", actor.ID),
		zap.String("status", string(status)))
	return record, nil
}

// ListForMember returns the member's in-scope records newest first.
// Archived records are only returned to admins who ask for them.
func (s *statusService) ListForMember(ctx context.Context, viewer *domain.Actor, memberID, filter string, includeArchived bool) ([]domain.StatusRecord, error) {
	if viewer == nil {
		return nil, apperrors.NewAuthenticationError("Authentication required")
	}
	scope, err := s.scopes.Resolve(ctx, viewer, filter)
	if err != nil {
		return nil, storeError(s.logger, "Failed to resolve scope", err)
	}
	if scope.IsEmpty() {
		return []domain.StatusRecord{}, nil
	}

	records, err := s.statuses.List(ctx, repository.StatusQuery{
		MemberID:     memberID,
		Scope:        scope,
		IncludeInert: includeArchived && viewer.IsAdmin(),
	})
	if err != nil {
		return nil, storeError(s.logger, "Failed to list statuses", err, zap.String("member_id", memberID))
	}
	domain.SortNewestFirst(records)
	return records, nil
}

// LatestForMember returns nil when the member has no visible record
func (s *statusService) LatestForMember(ctx context.Context, viewer *domain.Actor, memberID, filter string) (*domain.StatusRecord, error) {
	records, err := s.ListForMember(ctx, viewer, memberID, filter, false)
	if err != nil {
		return nil, err
	}
	latest, ok := domain.LatestOf(records)
	if !ok {
		return nil, nil
	}
	return &latest, nil
}

// authorizeOwnership checks the any/own action pair against the record.
func (s *statusService) authorizeOwnership(ctx context.Context, actor *domain.Actor, statusID string, anyAct, ownAct authz.Action) (*domain.StatusRecord, error) {
	if actor == nil {
		return nil, apperrors.NewAuthenticationError("Authentication required")
	}
	canAny := s.authz.Can(actor.Role, authz.ObjStatus, anyAct)
	if !canAny {
		if err := s.authz.Authorize(actor, authz.ObjStatus, ownAct); err != nil {
			return nil, err
		}
	}

	record, err := s.statuses.GetByID(ctx, statusID)
	if err != nil {
		return nil, storeError(s.logger, "Failed to get status", err, zap.String("status_id", statusID))
	}
	if record == nil {
		return nil, apperrors.NewNotFoundError("Status")
	}
	if !canAny && record.AuthorID != actor.ID {
		return nil, apperrors.NewAuthorizationError("You may only change your own status records")
	}
	return record, nil
}

func (s *statusService) Update(ctx context.Context, actor *domain.Actor, statusID string, req *domain.UpdateStatusRequest) (*domain.StatusRecord, error) {
	if req.Status == nil && req.Notes == nil {
		return nil, apperrors.NewValidationError("Nothing to update", nil)
	}
	var newStatus domain.Status
	if req.Status != nil {
		st, ok := domain.ParseStatus(*req.Status)
		if !ok {
			return nil, invalidStatus(*req.Status)
		}
		newStatus = st
	}

	record, err := s.authorizeOwnership(ctx, actor, statusID, authz.ActUpdateAny, authz.ActUpdateOwn)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		record.Status = newStatus
	}
	if req.Notes != nil {
		record.Notes = strings.TrimSpace(*req.Notes)
	}
	record.UpdatedAt = s.now()

	if err := s.statuses.Update(ctx, record); err != nil {
		return nil, storeError(s.logger, "Failed to update status", err, zap.String("status_id", statusID))
	}

	s.metrics.StatusWritten("update", string(record.Status))
	s.cache.InvalidateSummaries(ctx)
	return record, nil
}

func (s *statusService) Delete(ctx context.Context, actor *domain.Actor, statusID string) error {
	record, err := s.authorizeOwnership(ctx, actor, statusID, authz.ActDeleteAny, authz.ActDeleteOwn)
	if err != nil {
		return err
	}

	deleted, err := s.statuses.Delete(ctx, statusID)
	if err != nil {
		return storeError(s.logger, "Failed to delete status", err, zap.String("status_id", statusID))
	}
	if !deleted {
		return apperrors.NewNotFoundError("Status")
	}

	s.metrics.StatusWritten("delete", string(record.Status))
	s.cache.InvalidateSummaries(ctx)
	s.logger.Info("Status deleted",
		zap.String("status_id", statusID),
		zap.String("deleted_by", actor.ID))
	return nil
}
