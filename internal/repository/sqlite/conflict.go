package sqlite

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/domain"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/repository"
)

type ConflictRepository struct {
	db *gorm.DB
}

func (r *ConflictRepository) Create(ctx context.Context, conflict *domain.Conflict) error {
	m := Conflict{
		ID:        conflict.ID,
		MemberID:  conflict.MemberID,
		StatusIDs: conflict.StatusIDs,
		CreatedAt: conflict.CreatedAt,
	}
	err := r.db.WithContext(ctx).Create(&m).Error
	if isUniqueViolation(err) {
		return repository.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to create conflict: %w", err)
	}
	return nil
}

func (r *ConflictRepository) GetByID(ctx context.Context, id string) (*domain.Conflict, error) {
	var m Conflict
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conflict: %w", err)
	}
	c := m.toDomain()
	return &c, nil
}

func (r *ConflictRepository) List(ctx context.Context, filter domain.ResolvedFilter) ([]domain.Conflict, error) {
	query := r.db.WithContext(ctx).Model(&Conflict{})
	switch filter {
	case domain.ResolvedTrue:
		query = query.Where("resolved = ?", true)
	case domain.ResolvedFalse:
		query = query.Where("resolved = ?", false)
	}

	var rows []Conflict
	if err := query.Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list conflicts: %w", err)
	}
	conflicts := make([]domain.Conflict, 0, len(rows))
	for _, m := range rows {
		conflicts = append(conflicts, m.toDomain())
	}
	return conflicts, nil
}

func (r *ConflictRepository) UpdateSnapshot(ctx context.Context, id string, statusIDs []string) error {
	err := r.db.WithContext(ctx).
		Model(&Conflict{}).
		Where("id = ? AND resolved = ?", id, false).
		Select("status_ids").
		Updates(&Conflict{StatusIDs: statusIDs}).Error
	if err != nil {
		return fmt.Errorf("failed to update conflict snapshot: %w", err)
	}
	return nil
}

func (r *ConflictRepository) DeleteOpen(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Where("id = ? AND resolved = ?", id, false).Delete(&Conflict{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete conflict: %w", err)
	}
	return nil
}

func (r *ConflictRepository) Resolve(ctx context.Context, res repository.ConflictResolution) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		resolvedAt := res.ResolvedAt
		upd := tx.Model(&Conflict{}).
			Where("id = ? AND resolved = ?", res.ConflictID, false).
			Updates(map[string]interface{}{
				"resolved":         true,
				"resolution_notes": res.Notes,
				"resolved_at":      &resolvedAt,
				"resolved_by":      res.ResolvedBy,
			})
		if upd.Error != nil {
			return fmt.Errorf("failed to resolve conflict: %w", upd.Error)
		}
		if upd.RowsAffected == 0 {
			return repository.ErrAlreadyResolved
		}

		if len(res.ArchiveIDs) == 0 {
			return nil
		}
		err := tx.Model(&StatusRecord{}).
			Where("id IN ?", res.ArchiveIDs).
			Updates(map[string]interface{}{
				"inert":        true,
				"archived_at":  &resolvedAt,
				"archive_note": res.Notes,
			}).Error
		if err != nil {
			return fmt.Errorf("failed to archive status records: %w", err)
		}
		return nil
	})
}
