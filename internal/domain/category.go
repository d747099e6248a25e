package domain

import "time"

// Category is a free-form tag owned by the supervisor or team leader who created it
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatorID   string    `json:"creator_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// CategoryAssignment tags a member with a category on behalf of one assigner.
// There is at most one assignment per (MemberID, AssignerID).
type CategoryAssignment struct {
	ID         string    `json:"id"`
	MemberID   string    `json:"member_id"`
	CategoryID string    `json:"category_id"`
	AssignerID string    `json:"assigner_id"`
	AssignedAt time.Time `json:"assigned_at"`
}

// RecencyKey implements Recency
func (a CategoryAssignment) RecencyKey() (time.Time, string) {
	return a.AssignedAt, a.ID
}

// ResolveAssignment picks the assignment shown to viewerID: their own if
// present, otherwise the most recent one.
func ResolveAssignment(assignments []CategoryAssignment, viewerID string) (CategoryAssignment, bool) {
	for _, a := range assignments {
		if a.AssignerID == viewerID {
			return a, true
		}
	}
	return LatestOf(assignments)
}

// CategoryView is a resolved assignment together with its category name
type CategoryView struct {
	CategoryAssignment
	CategoryName string `json:"category_name"`
}

// CreateCategoryRequest represents a category creation request
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
}

// UpdateCategoryRequest represents a partial category update
type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

// AssignCategoryRequest represents a category assignment for a member
type AssignCategoryRequest struct {
	CategoryID string `json:"category_id" validate:"required"`
}
