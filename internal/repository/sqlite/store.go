package sqlite

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/domain"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/repository"
)

// Migrate creates the tables and the indexes gorm tags cannot express
func Migrate(db *gorm.DB) error {
	for _, model := range MigrateModels {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}
	// at most one open conflict per member
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS uq_conflicts_open_member ON conflicts (member_id) WHERE resolved = 0`).Error; err != nil {
		return fmt.Errorf("failed to create open conflict index: %w", err)
	}
	return nil
}

// NewRepositories wires every repository to the same gorm handle
func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		Actor:    &ActorRepository{db: db},
		Member:   &MemberRepository{db: db},
		Status:   &StatusRepository{db: db},
		Category: &CategoryRepository{db: db},
		Conflict: &ConflictRepository{db: db},
	}
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// applyScope restricts column to the scope. ok is false for an empty scope.
func applyScope(q *gorm.DB, scope domain.Scope, column string) (*gorm.DB, bool) {
	if scope.IsUnrestricted() {
		return q, true
	}
	if scope.IsEmpty() {
		return q, false
	}
	return q.Where(column+" IN ?", scope.ActorIDs()), true
}
