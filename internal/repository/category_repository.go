package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/domain"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/pkg/database"
)

type categoryRepository struct {
	db *database.PostgresDB
}

func NewCategoryRepository(db *database.PostgresDB) CategoryRepository {
	return &categoryRepository{db: db}
}

const (
	categoryColumns   = `id, name, description, creator_id, created_at`
	assignmentColumns = `id, member_id, category_id, assigner_id, assigned_at`
)

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var c domain.Category
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.CreatorID, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepository) listCategories(ctx context.Context, query string, args ...interface{}) ([]domain.Category, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]domain.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}

// Create inserts a category
func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO categories (id, name, description, creator_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, category.ID, category.Name, category.Description, category.CreatorID, category.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// GetByID gets a category by ID
func (r *categoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	c, err := scanCategory(r.db.Pool.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return c, nil
}

// List gets the categories created inside the scope
func (r *categoryRepository) List(ctx context.Context, scope domain.Scope) ([]domain.Category, error) {
	cond, args, ok := scopeCondition(scope, "creator_id", nil)
	if !ok {
		return []domain.Category{}, nil
	}
	return r.listCategories(ctx, `SELECT `+categoryColumns+` FROM categories WHERE true`+cond+` ORDER BY name, id`, args...)
}

// GetByIDs gets the categories that exist among ids
func (r *categoryRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.Category, error) {
	if len(ids) == 0 {
		return []domain.Category{}, nil
	}
	return r.listCategories(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = ANY($1)`, ids)
}

// Update writes name and description
func (r *categoryRepository) Update(ctx context.Context, category *domain.Category) error {
	_, err := r.db.Pool.Exec(ctx, `
		UPDATE categories SET name = $2, description = $3 WHERE id = $1
	`, category.ID, category.Name, category.Description)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	return nil
}

// Delete removes a category and its assignments
func (r *categoryRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM category_assignments WHERE category_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete category assignments: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}
		return nil
	})
}

// UpsertAssignment writes the assigner's category for the member in a single statement
func (r *categoryRepository) UpsertAssignment(ctx context.Context, assignment *domain.CategoryAssignment) error {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO category_assignments (id, member_id, category_id, assigner_id, assigned_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (member_id, assigner_id) DO UPDATE SET
			category_id = EXCLUDED.category_id,
			assigned_at = EXCLUDED.assigned_at
		RETURNING id
	`,
		assignment.ID,
		assignment.MemberID,
		assignment.CategoryID,
		assignment.AssignerID,
		assignment.AssignedAt,
	).Scan(&assignment.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert category assignment: %w", err)
	}
	return nil
}

// DeleteAssignment removes the assigner's assignment for a member
func (r *categoryRepository) DeleteAssignment(ctx context.Context, memberID, assignerID string) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx, `
		DELETE FROM category_assignments WHERE member_id = $1 AND assigner_id = $2
	`, memberID, assignerID)
	if err != nil {
		return false, fmt.Errorf("failed to delete category assignment: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListAssignments gets assignments for a member or the whole ledger, restricted to the scope
func (r *categoryRepository) ListAssignments(ctx context.Context, q AssignmentQuery) ([]domain.CategoryAssignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM category_assignments WHERE true`
	args := make([]interface{}, 0, 2)
	if q.MemberID != "" {
		args = append(args, q.MemberID)
		query += fmt.Sprintf(" AND member_id = $%d", len(args))
	}
	cond, args, ok := scopeCondition(q.Scope, "assigner_id", args)
	if !ok {
		return []domain.CategoryAssignment{}, nil
	}
	query += cond

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list category assignments: %w", err)
	}
	defer rows.Close()

	assignments := make([]domain.CategoryAssignment, 0)
	for rows.Next() {
		var a domain.CategoryAssignment
		if err := rows.Scan(&a.ID, &a.MemberID, &a.CategoryID, &a.AssignerID, &a.AssignedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}
