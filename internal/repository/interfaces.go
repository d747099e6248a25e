package repository

import (
	"context"
	"errors"
	"time"

	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/domain"
)

var (
	// ErrDuplicate is returned when a write violates a unique constraint
	ErrDuplicate = errors.New("duplicate record")

	// ErrAlreadyResolved is returned when resolving a conflict that is no longer open
	ErrAlreadyResolved = errors.New("conflict already resolved")
)

// ActorRepository defines the interface for the identity and hierarchy directory
type ActorRepository interface {
	// GetByID retrieves an actor by ID, nil when absent
	GetByID(ctx context.Context, id string) (*domain.Actor, error)

	// ListLeaders retrieves the team leaders reporting to supervisorID
	ListLeaders(ctx context.Context, supervisorID string) ([]domain.Actor, error)

	// ListByRole retrieves every actor with the given role
	ListByRole(ctx context.Context, role domain.Role) ([]domain.Actor, error)

	// Create stores a new actor; ErrDuplicate when the short code is taken
	Create(ctx context.Context, actor *domain.Actor) error
}

// MemberRepository is the read side of the roster collaborator
type MemberRepository interface {
	// Exists reports whether the member is on the roster
	Exists(ctx context.Context, id string) (bool, error)

	// GetNames maps member ids to full names; unknown ids are omitted
	GetNames(ctx context.Context, ids []string) (map[string]string, error)

	// Upsert adds or renames a roster entry (seeding only)
	Upsert(ctx context.Context, member *domain.Member) error
}

// StatusQuery selects status records. An empty Scope matches nothing.
type StatusQuery struct {
	MemberID     string
	Scope        domain.Scope
	IncludeInert bool
}

// StatusRepository defines the interface for the status ledger
type StatusRepository interface {
	// Upsert inserts the record or, when the (member, author) pair exists,
	// updates status, notes and updated_at in place and reactivates it.
	// ID and CreatedAt are overwritten with the stored values.
	Upsert(ctx context.Context, record *domain.StatusRecord) error

	// GetByID retrieves a record by ID, nil when absent
	GetByID(ctx context.Context, id string) (*domain.StatusRecord, error)

	// GetByIDs retrieves the records that still exist among ids
	GetByIDs(ctx context.Context, ids []string) ([]domain.StatusRecord, error)

	// List retrieves records matching the query in no particular order
	List(ctx context.Context, q StatusQuery) ([]domain.StatusRecord, error)

	// Update writes status, notes and updated_at of an existing record
	Update(ctx context.Context, record *domain.StatusRecord) error

	// Delete removes a record, reporting whether it existed
	Delete(ctx context.Context, id string) (bool, error)
}

// AssignmentQuery selects category assignments. An empty Scope matches nothing.
type AssignmentQuery struct {
	MemberID string
	Scope    domain.Scope
}

// CategoryRepository defines the interface for the category ledger
type CategoryRepository interface {
	// Create stores a category; ErrDuplicate when the creator already has the name
	Create(ctx context.Context, category *domain.Category) error

	// GetByID retrieves a category by ID, nil when absent
	GetByID(ctx context.Context, id string) (*domain.Category, error)

	// List retrieves the categories whose creator is in scope
	List(ctx context.Context, scope domain.Scope) ([]domain.Category, error)

	// GetByIDs retrieves the categories that exist among ids
	GetByIDs(ctx context.Context, ids []string) ([]domain.Category, error)

	// Update writes name and description; ErrDuplicate on a name clash
	Update(ctx context.Context, category *domain.Category) error

	// Delete removes the category and all of its assignments in one transaction
	Delete(ctx context.Context, id string) error

	// UpsertAssignment inserts or replaces the (member, assigner) assignment
	UpsertAssignment(ctx context.Context, assignment *domain.CategoryAssignment) error

	// DeleteAssignment removes the (member, assigner) assignment, reporting whether it existed
	DeleteAssignment(ctx context.Context, memberID, assignerID string) (bool, error)

	// ListAssignments retrieves assignments matching the query
	ListAssignments(ctx context.Context, q AssignmentQuery) ([]domain.CategoryAssignment, error)
}

// ConflictResolution is the all-or-nothing outcome of resolving a conflict
type ConflictResolution struct {
	ConflictID string
	ArchiveIDs []string
	Notes      string
	ResolvedBy string
	ResolvedAt time.Time
}

// ConflictRepository defines the interface for materialised conflicts
type ConflictRepository interface {
	// Create stores an open conflict; ErrDuplicate when the member already has one
	Create(ctx context.Context, conflict *domain.Conflict) error

	// GetByID retrieves a conflict by ID, nil when absent
	GetByID(ctx context.Context, id string) (*domain.Conflict, error)

	// List retrieves conflicts matching the filter, newest first
	List(ctx context.Context, filter domain.ResolvedFilter) ([]domain.Conflict, error)

	// UpdateSnapshot replaces the record snapshot of an open conflict
	UpdateSnapshot(ctx context.Context, id string, statusIDs []string) error

	// DeleteOpen removes an open conflict that no longer applies
	DeleteOpen(ctx context.Context, id string) error

	// Resolve archives the given records and closes the conflict in one
	// transaction; ErrAlreadyResolved when it was not open.
	Resolve(ctx context.Context, res ConflictResolution) error
}

// Repositories aggregates all repository interfaces
type Repositories struct {
	Actor    ActorRepository
	Member   MemberRepository
	Status   StatusRepository
	Category CategoryRepository
	Conflict ConflictRepository
}
