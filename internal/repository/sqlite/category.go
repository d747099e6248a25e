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

type CategoryRepository struct {
	db *gorm.DB
}

func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	m := Category{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		CreatorID:   category.CreatorID,
		CreatedAt:   category.CreatedAt,
	}
	err := r.db.WithContext(ctx).Create(&m).Error
	if isUniqueViolation(err) {
		return repository.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	var m Category
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	c := m.toDomain()
	return &c, nil
}

func (r *CategoryRepository) List(ctx context.Context, scope domain.Scope) ([]domain.Category, error) {
	query, ok := applyScope(r.db.WithContext(ctx).Model(&Category{}), scope, "creator_id")
	if !ok {
		return []domain.Category{}, nil
	}
	return r.find(query.Order("name").Order("id"))
}

func (r *CategoryRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.Category, error) {
	if len(ids) == 0 {
		return []domain.Category{}, nil
	}
	return r.find(r.db.WithContext(ctx).Where("id IN ?", ids))
}

func (r *CategoryRepository) find(query *gorm.DB) ([]domain.Category, error) {
	var rows []Category
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	categories := make([]domain.Category, 0, len(rows))
	for _, m := range rows {
		categories = append(categories, m.toDomain())
	}
	return categories, nil
}

func (r *CategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	err := r.db.WithContext(ctx).Model(&Category{}).Where("id = ?", category.ID).Updates(map[string]interface{}{
		"name":        category.Name,
		"description": category.Description,
	}).Error
	if isUniqueViolation(err) {
		return repository.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", id).Delete(&CategoryAssignment{}).Error; err != nil {
			return fmt.Errorf("failed to delete category assignments: %w", err)
		}
		if err := tx.Where("id = ?", id).Delete(&Category{}).Error; err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}
		return nil
	})
}

func (r *CategoryRepository) UpsertAssignment(ctx context.Context, assignment *domain.CategoryAssignment) error {
	m := CategoryAssignment{
		ID:         assignment.ID,
		MemberID:   assignment.MemberID,
		CategoryID: assignment.CategoryID,
		AssignerID: assignment.AssignerID,
		AssignedAt: assignment.AssignedAt,
	}

	var stored CategoryAssignment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "member_id"}, {Name: "assigner_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"category_id", "assigned_at"}),
		}).Create(&m).Error
		if err != nil {
			return err
		}
		return tx.Where("member_id = ? AND assigner_id = ?", m.MemberID, m.AssignerID).First(&stored).Error
	})
	if err != nil {
		return fmt.Errorf("failed to upsert category assignment: %w", err)
	}

	*assignment = stored.toDomain()
	return nil
}

func (r *CategoryRepository) DeleteAssignment(ctx context.Context, memberID, assignerID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("member_id = ? AND assigner_id = ?", memberID, assignerID).
		Delete(&CategoryAssignment{})
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete category assignment: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *CategoryRepository) ListAssignments(ctx context.Context, q repository.AssignmentQuery) ([]domain.CategoryAssignment, error) {
	query := r.db.WithContext(ctx).Model(&CategoryAssignment{})
	if q.MemberID != "" {
		query = query.Where("member_id = ?", q.MemberID)
	}
	query, ok := applyScope(query, q.Scope, "assigner_id")
	if !ok {
		return []domain.CategoryAssignment{}, nil
	}

	var rows []CategoryAssignment
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list category assignments: %w", err)
	}
	assignments := make([]domain.CategoryAssignment, 0, len(rows))
	for _, m := range rows {
		assignments = append(assignments, m.toDomain())
	}
	return assignments, nil
}
