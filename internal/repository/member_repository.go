package repository

import (
	"context"
	"fmt"

	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/domain"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/pkg/database"
)

type memberRepository struct {
	db *database.PostgresDB
}

func NewMemberRepository(db *database.PostgresDB) MemberRepository {
	return &memberRepository{db: db}
}

// Exists checks whether a member is on the roster
func (r *memberRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.Pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM members WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check member: %w", err)
	}
	return exists, nil
}

// GetNames gets full names for the given member ids
func (r *memberRepository) GetNames(ctx context.Context, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	rows, err := r.db.Pool.Query(ctx, `SELECT id, full_name FROM members WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get member names: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		names[id] = name
	}
	return names, rows.Err()
}

// Upsert inserts or renames a member
func (r *memberRepository) Upsert(ctx context.Context, member *domain.Member) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO members (id, full_name)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET full_name = EXCLUDED.full_name
	`, member.ID, member.FullName)
	if err != nil {
		return fmt.Errorf("failed to upsert member: %w", err)
	}
	return nil
}
