package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/domain"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/pkg/database"
)

type statusRepository struct {
	db *database.PostgresDB
}

func NewStatusRepository(db *database.PostgresDB) StatusRepository {
	return &statusRepository{db: db}
}

const statusColumns = `id, member_id, status, author_id, notes, created_at, updated_at, inert, archived_at, archive_note`

func scanStatus(row pgx.Row) (*domain.StatusRecord, error) {
	var rec domain.StatusRecord
	err := row.Scan(
		&rec.ID,
		&rec.MemberID,
		&rec.Status,
		&rec.AuthorID,
		&rec.Notes,
		&rec.CreatedAt,
		&rec.UpdatedAt,
		&rec.Inert,
		&rec.ArchivedAt,
		&rec.ArchiveNote,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *statusRepository) query(ctx context.Context, query string, args ...interface{}) ([]domain.StatusRecord, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list status records: %w", err)
	}
	defer rows.Close()

	records := make([]domain.StatusRecord, 0)
	for rows.Next() {
		rec, err := scanStatus(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan status record: %w", err)
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// Upsert writes the author's record for the member in a single statement
func (r *statusRepository) Upsert(ctx context.Context, record *domain.StatusRecord) error {
	query := `
		INSERT INTO status_records (id, member_id, status, author_id, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (member_id, author_id) DO UPDATE SET
			status = EXCLUDED.status,
			notes = EXCLUDED.notes,
			updated_at = EXCLUDED.updated_at,
			inert = false,
			archived_at = NULL,
			archive_note = ''
		RETURNING id, created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		record.ID,
		record.MemberID,
		string(record.Status),
		record.AuthorID,
		record.Notes,
		record.CreatedAt,
		record.UpdatedAt,
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert status record: %w", err)
	}

	record.Inert = false
	record.ArchivedAt = nil
	record.ArchiveNote = ""
	return nil
}

// GetByID gets a status record by ID
func (r *statusRepository) GetByID(ctx context.Context, id string) (*domain.StatusRecord, error) {
	rec, err := scanStatus(r.db.Pool.QueryRow(ctx, `SELECT `+statusColumns+` FROM status_records WHERE id = $1`, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get status record: %w", err)
	}
	return rec, nil
}

// GetByIDs gets the status records that exist among ids
func (r *statusRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.StatusRecord, error) {
	if len(ids) == 0 {
		return []domain.StatusRecord{}, nil
	}
	return r.query(ctx, `SELECT `+statusColumns+` FROM status_records WHERE id = ANY($1)`, ids)
}

// List gets status records for a member or the whole ledger, restricted to the scope
func (r *statusRepository) List(ctx context.Context, q StatusQuery) ([]domain.StatusRecord, error) {
	query := `SELECT ` + statusColumns + ` FROM status_records WHERE true`
	args := make([]interface{}, 0, 2)

	if q.MemberID != "" {
		args = append(args, q.MemberID)
		query += fmt.Sprintf(" AND member_id = $%d", len(args))
	}
	if !q.IncludeInert {
		query += " AND NOT inert"
	}
	cond, args, ok := scopeCondition(q.Scope, "author_id", args)
	if !ok {
		return []domain.StatusRecord{}, nil
	}
	query += cond

	return r.query(ctx, query, args...)
}

// Update writes status, notes and updated_at
func (r *statusRepository) Update(ctx context.Context, record *domain.StatusRecord) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE status_records
		SET status = $2, notes = $3, updated_at = $4
		WHERE id = $1
	`, record.ID, string(record.Status), record.Notes, record.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update status record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to update status record: %w", pgx.ErrNoRows)
	}
	return nil
}

// Delete removes a status record
func (r *statusRepository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM status_records WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete status record: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
