package sqlite

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/domain"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/repository"
)

type StatusRepository struct {
	db *gorm.DB
}

func (r *StatusRepository) Upsert(ctx context.Context, record *domain.StatusRecord) error {
	m := StatusRecord{
		ID:        record.ID,
		MemberID:  record.MemberID,
		AuthorID:  record.AuthorID,
		Status:    string(record.Status),
		Notes:     record.Notes,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}

	var stored StatusRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "member_id"}, {Name: "author_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"status", "notes", "updated_at", "inert", "archived_at", "archive_note",
			}),
		}).Create(&m).Error
		if err != nil {
			return err
		}
		return tx.Where("member_id = ? AND author_id = ?", m.MemberID, m.AuthorID).First(&stored).Error
	})
	if err != nil {
		return fmt.Errorf("failed to upsert status record: %w", err)
	}

	*record = stored.toDomain()
	return nil
}

func (r *StatusRepository) GetByID(ctx context.Context, id string) (*domain.StatusRecord, error) {
	var m StatusRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get status record: %w", err)
	}
	rec := m.toDomain()
	return &rec, nil
}

func (r *StatusRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.StatusRecord, error) {
	if len(ids) == 0 {
		return []domain.StatusRecord{}, nil
	}
	return r.find(r.db.WithContext(ctx).Where("id IN ?", ids))
}

func (r *StatusRepository) List(ctx context.Context, q repository.StatusQuery) ([]domain.StatusRecord, error) {
	query := r.db.WithContext(ctx).Model(&StatusRecord{})
	if q.MemberID != "" {
		query = query.Where("member_id = ?", q.MemberID)
	}
	if !q.IncludeInert {
		query = query.Where("inert = ?", false)
	}
	query, ok := applyScope(query, q.Scope, "author_id")
	if !ok {
		return []domain.StatusRecord{}, nil
	}
	return r.find(query)
}

func (r *StatusRepository) find(query *gorm.DB) ([]domain.StatusRecord, error) {
	var rows []StatusRecord
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list status records: %w", err)
	}
	records := make([]domain.StatusRecord, 0, len(rows))
	for _, m := range rows {
		records = append(records, m.toDomain())
	}
	return records, nil
}

func (r *StatusRepository) Update(ctx context.Context, record *domain.StatusRecord) error {
	res := r.db.WithContext(ctx).Model(&StatusRecord{}).Where("id = ?", record.ID).Updates(map[string]interface{}{
		"status":     string(record.Status),
		"notes":      record.Notes,
		"updated_at": record.UpdatedAt,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update status record: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("failed to update status record: %w", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *StatusRepository) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&StatusRecord{})
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete status record: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}
