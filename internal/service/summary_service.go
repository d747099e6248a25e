package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/domain"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/repository"
	apperrors "github.com/ahmedanwarabdulaziz/ASC-sub000/pkg/errors"
)

const (
	defaultMembersLimit = 50
	maxMembersLimit     = 500
)

type summaryService struct {
	repos  *repository.Repositories
	scopes *ScopeResolver
	cache  *CacheService
	logger *zap.Logger
	now    func() time.Time
}

// NewSummaryService creates the aggregator
func NewSummaryService(deps Deps, scopes *ScopeResolver) Aggregator {
	deps = deps.normalized()
	return &summaryService{
		repos:  deps.Repos,
		scopes: scopes,
		cache:  deps.Cache,
		logger: deps.Logger,
		now:    deps.Now,
	}
}

func (s *summaryService) resolve(ctx context.Context, viewer *domain.Actor, filter string) (domain.Scope, error) {
	if viewer == nil {
		return domain.EmptyScope(), apperrors.NewAuthenticationError("Authentication required")
	}
	scope, err := s.scopes.Resolve(ctx, viewer, filter)
	if err != nil {
		return domain.EmptyScope(), storeError(s.logger, "Failed to resolve scope", err)
	}
	return scope, nil
}

// StatusCounts tallies the newest in-scope status of every member
func (s *summaryService) StatusCounts(ctx context.Context, viewer *domain.Actor, filter string) (domain.StatusCounts, error) {
	scope, err := s.resolve(ctx, viewer, filter)
	if err != nil {
		return nil, err
	}
	if counts, ok := s.cache.GetStatusCounts(ctx, scope); ok {
		return counts, nil
	}

	records, err := s.repos.Status.List(ctx, repository.StatusQuery{Scope: scope})
	if err != nil {
		return nil, storeError(s.logger, "Failed to list statuses", err)
	}
	counts := domain.CountStatuses(records, scope)
	s.cache.SetStatusCounts(ctx, scope, counts)
	return counts, nil
}

// CategoryCounts tallies the newest in-scope category of every member by name
func (s *summaryService) CategoryCounts(ctx context.Context, viewer *domain.Actor, filter string) (map[string]int, error) {
	scope, err := s.resolve(ctx, viewer, filter)
	if err != nil {
		return nil, err
	}
	assignments, names, err := s.loadAssignments(ctx, scope)
	if err != nil {
		return nil, storeError(s.logger, "Failed to load category assignments", err)
	}
	return domain.CountCategories(assignments, scope, names), nil
}

func (s *summaryService) loadAssignments(ctx context.Context, scope domain.Scope) ([]domain.CategoryAssignment, map[string]string, error) {
	assignments, err := s.repos.Category.ListAssignments(ctx, repository.AssignmentQuery{Scope: scope})
	if err != nil {
		return nil, nil, err
	}
	ids := make([]string, 0, len(assignments))
	seen := make(map[string]struct{}, len(assignments))
	for _, a := range assignments {
		if _, ok := seen[a.CategoryID]; ok {
			continue
		}
		seen[a.CategoryID] = struct{}{}
		ids = append(ids, a.CategoryID)
	}
	names, err := categoryNames(ctx, s.repos.Category, ids)
	if err != nil {
		return nil, nil, err
	}
	return assignments, names, nil
}

// ledgerSnapshot holds every active record and assignment of a base scope so
// nested summaries are computed from one read.
type ledgerSnapshot struct {
	records     []domain.StatusRecord
	assignments []domain.CategoryAssignment
	names       map[string]string
}

func (s *summaryService) snapshot(ctx context.Context, scope domain.Scope) (*ledgerSnapshot, error) {
	records, err := s.repos.Status.List(ctx, repository.StatusQuery{Scope: scope})
	if err != nil {
		return nil, err
	}
	assignments, names, err := s.loadAssignments(ctx, scope)
	if err != nil {
		return nil, err
	}
	return &ledgerSnapshot{records: records, assignments: assignments, names: names}, nil
}

func (l *ledgerSnapshot) summarize(scope domain.Scope) domain.Summary {
	return domain.Summarize(l.records, l.assignments, scope, l.names)
}

// team builds the supervisor-level roll-up. LeadersTotal is the sum of the
// per-leader summaries; LeadersDistinct is summarized over all leaders at once.
func (l *ledgerSnapshot) team(supervisor domain.Actor, leaders []domain.Actor) domain.SupervisorSummary {
	team := domain.SupervisorSummary{
		Supervisor:   supervisor,
		Self:         l.summarize(domain.ActorScope(supervisor.ID)),
		LeadersTotal: domain.NewSummary(),
		Leaders:      make([]domain.LeaderSummary, 0, len(leaders)),
	}
	leaderIDs := make([]string, 0, len(leaders))
	for _, leader := range leaders {
		summary := l.summarize(domain.ActorScope(leader.ID))
		team.LeadersTotal.Add(summary)
		team.Leaders = append(team.Leaders, domain.LeaderSummary{Leader: leader, Summary: summary})
		leaderIDs = append(leaderIDs, leader.ID)
	}
	team.LeadersDistinct = l.summarize(domain.ActorScope(leaderIDs...))
	return team
}

// Summary returns the nested summary shaped for the viewer's role
func (s *summaryService) Summary(ctx context.Context, viewer *domain.Actor) (*domain.NestedSummary, error) {
	if viewer == nil {
		return nil, apperrors.NewAuthenticationError("Authentication required")
	}
	if cached, ok := s.cache.GetSummary(ctx, viewer.ID); ok {
		return cached, nil
	}

	result, err := s.buildSummary(ctx, viewer)
	if err != nil {
		return nil, storeError(s.logger, "Failed to build summary", err, zap.String("viewer_id", viewer.ID))
	}
	s.cache.SetSummary(ctx, viewer.ID, result)
	return result, nil
}

func (s *summaryService) buildSummary(ctx context.Context, viewer *domain.Actor) (*domain.NestedSummary, error) {
	result := &domain.NestedSummary{Role: viewer.Role, GeneratedAt: s.now()}

	switch viewer.Role {
	case domain.RoleAdmin:
		snap, err := s.snapshot(ctx, domain.Unrestricted())
		if err != nil {
			return nil, err
		}
		org := snap.summarize(domain.Unrestricted())
		result.Org = &org

		supervisors, err := s.repos.Actor.ListByRole(ctx, domain.RoleSupervisor)
		if err != nil {
			return nil, err
		}
		result.Supervisors = make([]domain.SupervisorSummary, 0, len(supervisors))
		for _, sup := range supervisors {
			leaders, err := s.repos.Actor.ListLeaders(ctx, sup.ID)
			if err != nil {
				return nil, err
			}
			result.Supervisors = append(result.Supervisors, snap.team(sup, leaders))
		}

	case domain.RoleSupervisor:
		leaders, err := s.repos.Actor.ListLeaders(ctx, viewer.ID)
		if err != nil {
			return nil, err
		}
		ids := []string{viewer.ID}
		for _, l := range leaders {
			ids = append(ids, l.ID)
		}
		base := domain.ActorScope(ids...)
		snap, err := s.snapshot(ctx, base)
		if err != nil {
			return nil, err
		}
		org := snap.summarize(base)
		team := snap.team(*viewer, leaders)
		result.Org = &org
		result.Team = &team

	default:
		base := domain.ActorScope(viewer.ID)
		snap, err := s.snapshot(ctx, base)
		if err != nil {
			return nil, err
		}
		self := snap.summarize(base)
		result.Self = &self
	}

	return result, nil
}

// MyAssignedMembers lists members with at least one in-scope record, newest
// latest status first, decorated with roster name and resolved category.
func (s *summaryService) MyAssignedMembers(ctx context.Context, viewer *domain.Actor, filter domain.MyMembersFilter) ([]domain.MemberWithLatest, error) {
	var wantStatus domain.Status
	if filter.Status != "" {
		st, ok := domain.ParseStatus(filter.Status)
		if !ok {
			return nil, invalidStatus(filter.Status)
		}
		wantStatus = st
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultMembersLimit
	}
	if limit > maxMembersLimit {
		limit = maxMembersLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	scope, err := s.resolve(ctx, viewer, filter.Actor)
	if err != nil {
		return nil, err
	}
	if scope.IsEmpty() {
		return []domain.MemberWithLatest{}, nil
	}

	records, err := s.repos.Status.List(ctx, repository.StatusQuery{Scope: scope})
	if err != nil {
		return nil, storeError(s.logger, "Failed to list statuses", err)
	}
	byMember := make(map[string][]domain.StatusRecord)
	for _, r := range records {
		byMember[r.MemberID] = append(byMember[r.MemberID], r)
	}
	latest := make([]domain.StatusRecord, 0, len(byMember))
	memberIDs := make([]string, 0, len(byMember))
	for memberID, group := range byMember {
		if rec, ok := domain.LatestOf(group); ok {
			latest = append(latest, rec)
			memberIDs = append(memberIDs, memberID)
		}
	}
	domain.SortNewestFirst(latest)

	names, err := s.repos.Member.GetNames(ctx, memberIDs)
	if err != nil {
		return nil, storeError(s.logger, "Failed to load member names", err)
	}
	assignments, err := s.repos.Category.ListAssignments(ctx, repository.AssignmentQuery{Scope: scope})
	if err != nil {
		return nil, storeError(s.logger, "Failed to list category assignments", err)
	}
	views, err := categoryViews(ctx, s.repos.Category, assignments, viewer.ID)
	if err != nil {
		return nil, storeError(s.logger, "Failed to load categories", err)
	}

	out := make([]domain.MemberWithLatest, 0, limit)
	skipped := 0
	for _, rec := range latest {
		name, onRoster := names[rec.MemberID]
		if !onRoster {
			continue
		}
		if wantStatus != "" && rec.Status != wantStatus {
			continue
		}
		view := views[rec.MemberID]
		if filter.CategoryID != "" && (view == nil || view.CategoryID != filter.CategoryID) {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		out = append(out, domain.MemberWithLatest{
			MemberID: rec.MemberID,
			FullName: name,
			Latest:   rec,
			Category: view,
		})
		if len(out) == limit {
			break
		}
	}
	return out, nil
}
