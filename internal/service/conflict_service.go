package service

import (
	"context"
	"errors"
	"slices"
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

type conflictService struct {
	statuses  repository.StatusRepository
	conflicts repository.ConflictRepository
	scopes    *ScopeResolver
	authz     *authz.Service
	cache     *CacheService
	metrics   *metrics.Metrics
	logger    *zap.Logger
	now       func() time.Time
}

// NewConflictService creates the conflict detector and resolver
func NewConflictService(deps Deps, scopes *ScopeResolver) ConflictManager {
	deps = deps.normalized()
	return &conflictService{
		statuses:  deps.Repos.Status,
		conflicts: deps.Repos.Conflict,
		scopes:    scopes,
		authz:     deps.Authz,
		cache:     deps.Cache,
		metrics:   deps.Metrics,
		logger:    deps.Logger,
		now:       deps.Now,
	}
}

// CheckMember reports whether the member's in-scope active records disagree
func (s *conflictService) CheckMember(ctx context.Context, viewer *domain.Actor, memberID, filter string) (*domain.ConflictCheck, error) {
	if viewer == nil {
		return nil, apperrors.NewAuthenticationError("Authentication required")
	}
	scope, err := s.scopes.Resolve(ctx, viewer, filter)
	if err != nil {
		return nil, storeError(s.logger, "Failed to resolve scope", err)
	}
	records, err := s.statuses.List(ctx, repository.StatusQuery{MemberID: memberID, Scope: scope})
	if err != nil {
		return nil, storeError(s.logger, "Failed to list statuses", err, zap.String("member_id", memberID))
	}
	check := domain.CheckMember(memberID, records)
	return &check, nil
}

// Scan materialises open conflicts from the current ledger. New conflicts are
// created, open ones get a fresh snapshot and ones that no longer apply are
// dropped. It returns the number of open conflicts after the scan.
func (s *conflictService) Scan(ctx context.Context, admin *domain.Actor) (int, error) {
	if err := s.authz.Authorize(admin, authz.ObjConflict, authz.ActList); err != nil {
		return 0, err
	}
	return s.scan(ctx)
}

func (s *conflictService) scan(ctx context.Context) (int, error) {
	records, err := s.statuses.List(ctx, repository.StatusQuery{Scope: domain.Unrestricted()})
	if err != nil {
		return 0, storeError(s.logger, "Failed to list statuses", err)
	}
	detected := domain.DetectConflicts(records)

	open, err := s.conflicts.List(ctx, domain.ResolvedFalse)
	if err != nil {
		return 0, storeError(s.logger, "Failed to list open conflicts", err)
	}
	openByMember := make(map[string]domain.Conflict, len(open))
	for _, c := range open {
		openByMember[c.MemberID] = c
	}

	created := 0
	for _, mc := range detected {
		existing, ok := openByMember[mc.MemberID]
		if ok {
			delete(openByMember, mc.MemberID)
			snapshot := slices.Clone(existing.StatusIDs)
			slices.Sort(snapshot)
			if slices.Equal(snapshot, mc.RecordIDs) {
				continue
			}
			if err := s.conflicts.UpdateSnapshot(ctx, existing.ID, mc.RecordIDs); err != nil {
				return 0, storeError(s.logger, "Failed to refresh conflict", err, zap.String("conflict_id", existing.ID))
			}
			continue
		}

		conflict := &domain.Conflict{
			ID:        uuid.NewString(),
			MemberID:  mc.MemberID,
			StatusIDs: mc.RecordIDs,
			CreatedAt: s.now(),
		}
		if err := s.conflicts.Create(ctx, conflict); err != nil {
			// a concurrent scan got there first
			if errors.Is(err, repository.ErrDuplicate) {
				continue
			}
			return 0, storeError(s.logger, "Failed to create conflict", err, zap.String("member_id", mc.MemberID))
		}
		created++
	}

	for _, stale := range openByMember {
		if err := s.conflicts.DeleteOpen(ctx, stale.ID); err != nil {
			return 0, storeError(s.logger, "Failed to drop stale conflict", err, zap.String("conflict_id", stale.ID))
		}
	}

	s.metrics.ConflictsDetected(created)
	if created > 0 || len(openByMember) > 0 {
		s.logger.Info("Conflict scan completed",
			zap.Int("open", len(detected)),
			zap.Int("created", created),
			zap.Int("dropped", len(openByMember)))
	}
	return len(detected), nil
}

// List scans first so the listing reflects the current ledger
func (s *conflictService) List(ctx context.Context, admin *domain.Actor, resolved string) ([]domain.Conflict, error) {
	filter, ok := domain.ParseResolvedFilter(strings.TrimSpace(resolved))
	if !ok {
		return nil, apperrors.NewValidationError("resolved must be true, false or all",
			map[string]interface{}{"resolved": resolved})
	}
	if err := s.authz.Authorize(admin, authz.ObjConflict, authz.ActList); err != nil {
		return nil, err
	}
	if _, err := s.scan(ctx); err != nil {
		return nil, err
	}

	conflicts, err := s.conflicts.List(ctx, filter)
	if err != nil {
		return nil, storeError(s.logger, "Failed to list conflicts", err)
	}
	return conflicts, nil
}

func (s *conflictService) Get(ctx context.Context, admin *domain.Actor, id string) (*domain.ConflictDetail, error) {
	if err := s.authz.Authorize(admin, authz.ObjConflict, authz.ActList); err != nil {
		return nil, err
	}
	return s.detail(ctx, id)
}

func (s *conflictService) detail(ctx context.Context, id string) (*domain.ConflictDetail, error) {
	conflict, err := s.conflicts.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(s.logger, "Failed to get conflict", err, zap.String("conflict_id", id))
	}
	if conflict == nil {
		return nil, apperrors.NewNotFoundError("Conflict")
	}
	records, err := s.statuses.GetByIDs(ctx, conflict.StatusIDs)
	if err != nil {
		return nil, storeError(s.logger, "Failed to load conflict records", err, zap.String("conflict_id", id))
	}
	domain.SortNewestFirst(records)
	return &domain.ConflictDetail{Conflict: *conflict, Records: records}, nil
}

// currentRecordIDs returns the sorted ids of the member's active records when
// they still disagree, or an empty slice when they do not.
func (s *conflictService) currentRecordIDs(ctx context.Context, memberID string) ([]string, error) {
	records, err := s.statuses.List(ctx, repository.StatusQuery{MemberID: memberID, Scope: domain.Unrestricted()})
	if err != nil {
		return nil, err
	}
	for _, mc := range domain.DetectConflicts(records) {
		if mc.MemberID == memberID {
			return mc.RecordIDs, nil
		}
	}
	return []string{}, nil
}

// Resolve keeps the chosen records and archives the rest of the snapshot.
// Nothing is written unless every check passes. A snapshot that no longer
// matches the member's active records is refreshed and the call rejected.
func (s *conflictService) Resolve(ctx context.Context, admin *domain.Actor, id string, req *domain.ResolveConflictRequest) (*domain.ConflictDetail, error) {
	if err := s.authz.Authorize(admin, authz.ObjConflict, authz.ActResolve); err != nil {
		return nil, err
	}
	if len(req.KeepStatusIDs) == 0 {
		return nil, apperrors.NewValidationError("keep_status_ids must not be empty", nil)
	}

	conflict, err := s.conflicts.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(s.logger, "Failed to get conflict", err, zap.String("conflict_id", id))
	}
	if conflict == nil {
		return nil, apperrors.NewNotFoundError("Conflict")
	}
	if conflict.Resolved {
		return nil, apperrors.NewValidationError("Conflict is already resolved", nil)
	}

	current, err := s.currentRecordIDs(ctx, conflict.MemberID)
	if err != nil {
		return nil, storeError(s.logger, "Failed to list statuses", err, zap.String("member_id", conflict.MemberID))
	}
	snapshot := slices.Clone(conflict.StatusIDs)
	slices.Sort(snapshot)
	if !slices.Equal(snapshot, current) {
		if _, err := s.scan(ctx); err != nil {
			return nil, err
		}
		return nil, apperrors.NewValidationError("Conflict snapshot is out of date, reload it and resolve again",
			map[string]interface{}{"status_ids": current})
	}

	inSnapshot := make(map[string]struct{}, len(conflict.StatusIDs))
	for _, sid := range conflict.StatusIDs {
		inSnapshot[sid] = struct{}{}
	}
	keep := make(map[string]struct{}, len(req.KeepStatusIDs))
	for _, sid := range req.KeepStatusIDs {
		if _, ok := inSnapshot[sid]; !ok {
			return nil, apperrors.NewValidationError("keep_status_ids must belong to the conflict",
				map[string]interface{}{"status_id": sid})
		}
		keep[sid] = struct{}{}
	}
	archive := make([]string, 0, len(conflict.StatusIDs))
	for _, sid := range conflict.StatusIDs {
		if _, ok := keep[sid]; !ok {
			archive = append(archive, sid)
		}
	}

	err = s.conflicts.Resolve(ctx, repository.ConflictResolution{
		ConflictID: id,
		ArchiveIDs: archive,
		Notes:      strings.TrimSpace(req.Notes),
		ResolvedBy: admin.ID,
		ResolvedAt: s.now(),
	})
	if errors.Is(err, repository.ErrAlreadyResolved) {
		return nil, apperrors.NewValidationError("Conflict is already resolved", nil)
	}
	if err != nil {
		return nil, storeError(s.logger, "Failed to resolve conflict", err, zap.String("conflict_id", id))
	}

	s.metrics.ConflictResolved(len(archive))
	s.cache.InvalidateSummaries(ctx)
	s.logger.Info("Conflict resolved",
		zap.String("conflict_id", id),
		zap.String("member_id", conflict.MemberID),
		zap.Int("archived", len(archive)),
		zap.String("resolved_by", admin.ID))
	return s.detail(ctx, id)
}
