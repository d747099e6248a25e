package service

import (
	"context"
	"time"

	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/domain"
)

// AuthService defines the interface for bearer token operations
type AuthService interface {
	// ValidateToken verifies a bearer token and returns the actor id it names
	ValidateToken(ctx context.Context, token string) (string, error)

	// IssueToken signs a token for the actor valid for ttl
	IssueToken(actorID string, ttl time.Duration) (string, error)
}

// DirectoryService defines the identity and hierarchy directory
type DirectoryService interface {
	// GetActor retrieves an actor, NotFound when absent
	GetActor(ctx context.Context, id string) (*domain.Actor, error)

	// ListVisible lists the actors the viewer's scope covers
	ListVisible(ctx context.Context, viewer *domain.Actor) ([]domain.Actor, error)

	// CreateActor creates an actor on behalf of an admin or supervisor
	CreateActor(ctx context.Context, creator *domain.Actor, req *domain.CreateActorRequest) (*domain.Actor, error)
}

// StatusLedger defines status record operations
type StatusLedger interface {
	Write(ctx context.Context, actor *domain.Actor, memberID string, req *domain.WriteStatusRequest) (*domain.StatusRecord, error)
	ListForMember(ctx context.Context, viewer *domain.Actor, memberID, filter string, includeArchived bool) ([]domain.StatusRecord, error)
	LatestForMember(ctx context.Context, viewer *domain.Actor, memberID, filter string) (*domain.StatusRecord, error)
	Update(ctx context.Context, actor *domain.Actor, statusID string, req *domain.UpdateStatusRequest) (*domain.StatusRecord, error)
	Delete(ctx context.Context, actor *domain.Actor, statusID string) error
}

// CategoryLedger defines category and assignment operations
type CategoryLedger interface {
	CreateCategory(ctx context.Context, actor *domain.Actor, req *domain.CreateCategoryRequest) (*domain.Category, error)
	UpdateCategory(ctx context.Context, actor *domain.Actor, id string, req *domain.UpdateCategoryRequest) (*domain.Category, error)
	DeleteCategory(ctx context.Context, actor *domain.Actor, id string) error
	ListCategories(ctx context.Context, viewer *domain.Actor) ([]domain.Category, error)
	Assign(ctx context.Context, actor *domain.Actor, memberID, categoryID string) (*domain.CategoryView, error)
	Remove(ctx context.Context, actor *domain.Actor, memberID string) error
	ForMember(ctx context.Context, viewer *domain.Actor, memberID, filter string) (*domain.CategoryView, error)
}

// Aggregator defines the dashboard read models
type Aggregator interface {
	StatusCounts(ctx context.Context, viewer *domain.Actor, filter string) (domain.StatusCounts, error)
	CategoryCounts(ctx context.Context, viewer *domain.Actor, filter string) (map[string]int, error)
	Summary(ctx context.Context, viewer *domain.Actor) (*domain.NestedSummary, error)
	MyAssignedMembers(ctx context.Context, viewer *domain.Actor, filter domain.MyMembersFilter) ([]domain.MemberWithLatest, error)
}

// ConflictManager defines conflict detection and the admin resolution workflow
type ConflictManager interface {
	CheckMember(ctx context.Context, viewer *domain.Actor, memberID, filter string) (*domain.ConflictCheck, error)
	Scan(ctx context.Context, admin *domain.Actor) (int, error)
	List(ctx context.Context, admin *domain.Actor, resolved string) ([]domain.Conflict, error)
	Get(ctx context.Context, admin *domain.Actor, id string) (*domain.ConflictDetail, error)
	Resolve(ctx context.Context, admin *domain.Actor, id string, req *domain.ResolveConflictRequest) (*domain.ConflictDetail, error)
}

// Services aggregates all service interfaces
type Services struct {
	Auth      AuthService
	Directory DirectoryService
	Status    StatusLedger
	Category  CategoryLedger
	Summary   Aggregator
	Conflict  ConflictManager
}
