package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/domain"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/pkg/database"
)

// NewPostgresRepositories wires every repository to the same pool
func NewPostgresRepositories(db *database.PostgresDB) *Repositories {
	return &Repositories{
		Actor:    NewActorRepository(db),
		Member:   NewMemberRepository(db),
		Status:   NewStatusRepository(db),
		Category: NewCategoryRepository(db),
		Conflict: NewConflictRepository(db),
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// scopeCondition renders an author filter for column. ok is false when the
// scope is empty and the query can be skipped.
func scopeCondition(scope domain.Scope, column string, args []interface{}) (string, []interface{}, bool) {
	if scope.IsUnrestricted() {
		return "", args, true
	}
	if scope.IsEmpty() {
		return "", args, false
	}
	args = append(args, scope.ActorIDs())
	return fmt.Sprintf(" AND %s = ANY($%d)", column, len(args)), args, true
}
