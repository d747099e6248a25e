package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/domain"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/pkg/database"
)

type conflictRepository struct {
	db *database.PostgresDB
}

func NewConflictRepository(db *database.PostgresDB) ConflictRepository {
	return &conflictRepository{db: db}
}

const conflictColumns = `id, member_id, status_ids, resolved, resolution_notes, resolved_at, COALESCE(resolved_by, ''), created_at`

func scanConflict(row pgx.Row) (*domain.Conflict, error) {
	var c domain.Conflict
	err := row.Scan(
		&c.ID,
		&c.MemberID,
		&c.StatusIDs,
		&c.Resolved,
		&c.ResolutionNotes,
		&c.ResolvedAt,
		&c.ResolvedBy,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts an open conflict
func (r *conflictRepository) Create(ctx context.Context, conflict *domain.Conflict) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO conflicts (id, member_id, status_ids, resolved, created_at)
		VALUES ($1, $2, $3, false, $4)
	`, conflict.ID, conflict.MemberID, conflict.StatusIDs, conflict.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to create conflict: %w", err)
	}
	return nil
}

// GetByID gets a conflict by ID
func (r *conflictRepository) GetByID(ctx context.Context, id string) (*domain.Conflict, error) {
	c, err := scanConflict(r.db.Pool.QueryRow(ctx, `SELECT `+conflictColumns+` FROM conflicts WHERE id = $1`, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conflict: %w", err)
	}
	return c, nil
}

// List gets conflicts by resolution state
func (r *conflictRepository) List(ctx context.Context, filter domain.ResolvedFilter) ([]domain.Conflict, error) {
	query := `SELECT ` + conflictColumns + ` FROM conflicts`
	switch filter {
	case domain.ResolvedTrue:
		query += ` WHERE resolved`
	case domain.ResolvedFalse:
		query += ` WHERE NOT resolved`
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list conflicts: %w", err)
	}
	defer rows.Close()

	conflicts := make([]domain.Conflict, 0)
	for rows.Next() {
		c, err := scanConflict(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan conflict: %w", err)
		}
		conflicts = append(conflicts, *c)
	}
	return conflicts, rows.Err()
}

// UpdateSnapshot replaces the record ids of an open conflict
func (r *conflictRepository) UpdateSnapshot(ctx context.Context, id string, statusIDs []string) error {
	_, err := r.db.Pool.Exec(ctx, `
		UPDATE conflicts SET status_ids = $2 WHERE id = $1 AND NOT resolved
	`, id, statusIDs)
	if err != nil {
		return fmt.Errorf("failed to update conflict snapshot: %w", err)
	}
	return nil
}

// DeleteOpen removes an open conflict
func (r *conflictRepository) DeleteOpen(ctx context.Context, id string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM conflicts WHERE id = $1 AND NOT resolved`, id)
	if err != nil {
		return fmt.Errorf("failed to delete conflict: %w", err)
	}
	return nil
}

// Resolve closes the conflict and archives the records not kept
func (r *conflictRepository) Resolve(ctx context.Context, res ConflictResolution) error {
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE conflicts
			SET resolved = true, resolution_notes = $2, resolved_at = $3, resolved_by = $4
			WHERE id = $1 AND NOT resolved
		`, res.ConflictID, res.Notes, res.ResolvedAt, res.ResolvedBy)
		if err != nil {
			return fmt.Errorf("failed to resolve conflict: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrAlreadyResolved
		}

		if len(res.ArchiveIDs) == 0 {
			return nil
		}
		_, err = tx.Exec(ctx, `
			UPDATE status_records
			SET inert = true, archived_at = $2, archive_note = $3
			WHERE id = ANY($1)
		`, res.ArchiveIDs, res.ResolvedAt, res.Notes)
		if err != nil {
			return fmt.Errorf("failed to archive status records: %w", err)
		}
		return nil
	})
}
