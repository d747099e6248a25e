package sqlite

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/domain"
)

type MemberRepository struct {
	db *gorm.DB
}

func (r *MemberRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&Member{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check member: %w", err)
	}
	return count > 0, nil
}

func (r *MemberRepository) GetNames(ctx context.Context, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	var rows []Member
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get member names: %w", err)
	}
	for _, m := range rows {
		names[m.ID] = m.FullName
	}
	return names, nil
}

func (r *MemberRepository) Upsert(ctx context.Context, member *domain.Member) error {
	m := Member{ID: member.ID, FullName: member.FullName}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"full_name"}),
	}).Create(&m).Error
	if err != nil {
		return fmt.Errorf("failed to upsert member: %w", err)
	}
	return nil
}
