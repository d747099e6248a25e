package sqlite

import (
	"time"

	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/domain"
)

// Timestamps are written by the services; gorm must not touch them.

type Actor struct {
	ID           string    `gorm:"primaryKey"`
	Role         string    `gorm:"not null;index"`
	SupervisorID *string   `gorm:"index"`
	ShortCode    string    `gorm:"not null;uniqueIndex"`
	Name         string    `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime:false"`
}

func (Actor) TableName() string { return "actors" }

type Member struct {
	ID       string `gorm:"primaryKey"`
	FullName string `gorm:"not null"`
}

func (Member) TableName() string { return "members" }

type StatusRecord struct {
	ID          string     `gorm:"primaryKey"`
	MemberID    string     `gorm:"not null;uniqueIndex:uq_status_member_author,priority:1"`
	AuthorID    string     `gorm:"not null;uniqueIndex:uq_status_member_author,priority:2;index"`
	Status      string     `gorm:"not null"`
	Notes       string     `gorm:"not null"`
	CreatedAt   time.Time  `gorm:"not null;autoCreateTime:false"`
	UpdatedAt   time.Time  `gorm:"not null;autoUpdateTime:false"`
	Inert       bool       `gorm:"not null"`
	ArchivedAt  *time.Time
	ArchiveNote string `gorm:"not null"`
}

func (StatusRecord) TableName() string { return "status_records" }

type Category struct {
	ID          string    `gorm:"primaryKey"`
	Name        string    `gorm:"not null;uniqueIndex:uq_categories_creator_name,priority:2"`
	Description string    `gorm:"not null"`
	CreatorID   string    `gorm:"not null;uniqueIndex:uq_categories_creator_name,priority:1"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime:false"`
}

func (Category) TableName() string { return "categories" }

type CategoryAssignment struct {
	ID         string    `gorm:"primaryKey"`
	MemberID   string    `gorm:"not null;uniqueIndex:uq_assignment_member_assigner,priority:1"`
	CategoryID string    `gorm:"not null;index"`
	AssignerID string    `gorm:"not null;uniqueIndex:uq_assignment_member_assigner,priority:2"`
	AssignedAt time.Time `gorm:"not null"`
}

func (CategoryAssignment) TableName() string { return "category_assignments" }

type Conflict struct {
	ID              string   `gorm:"primaryKey"`
	MemberID        string   `gorm:"not null;index"`
	StatusIDs       []string `gorm:"serializer:json;not null"`
	Resolved        bool     `gorm:"not null"`
	ResolutionNotes string   `gorm:"not null"`
	ResolvedAt      *time.Time
	ResolvedBy      string    `gorm:"not null"`
	CreatedAt       time.Time `gorm:"not null;autoCreateTime:false"`
}

func (Conflict) TableName() string { return "conflicts" }

// MigrateModels lists the tables created by Migrate
var MigrateModels = []interface{}{
	&Actor{},
	&Member{},
	&StatusRecord{},
	&Category{},
	&CategoryAssignment{},
	&Conflict{},
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func (a Actor) toDomain() domain.Actor {
	out := domain.Actor{
		ID:        a.ID,
		Role:      domain.Role(a.Role),
		ShortCode: a.ShortCode,
		Name:      a.Name,
		CreatedAt: a.CreatedAt.UTC(),
	}
	if a.SupervisorID != nil {
		out.SupervisorID = *a.SupervisorID
	}
	return out
}

func actorFromDomain(a *domain.Actor) Actor {
	m := Actor{
		ID:        a.ID,
		Role:      string(a.Role),
		ShortCode: a.ShortCode,
		Name:      a.Name,
		CreatedAt: a.CreatedAt,
	}
	if a.SupervisorID != "" {
		id := a.SupervisorID
		m.SupervisorID = &id
	}
	return m
}

func (s StatusRecord) toDomain() domain.StatusRecord {
	return domain.StatusRecord{
		ID:          s.ID,
		MemberID:    s.MemberID,
		Status:      domain.Status(s.Status),
		AuthorID:    s.AuthorID,
		Notes:       s.Notes,
		CreatedAt:   s.CreatedAt.UTC(),
		UpdatedAt:   s.UpdatedAt.UTC(),
		Inert:       s.Inert,
		ArchivedAt:  utcPtr(s.ArchivedAt),
		ArchiveNote: s.ArchiveNote,
	}
}

func (c Category) toDomain() domain.Category {
	return domain.Category{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatorID:   c.CreatorID,
		CreatedAt:   c.CreatedAt.UTC(),
	}
}

func (a CategoryAssignment) toDomain() domain.CategoryAssignment {
	return domain.CategoryAssignment{
		ID:         a.ID,
		MemberID:   a.MemberID,
		CategoryID: a.CategoryID,
		AssignerID: a.AssignerID,
		AssignedAt: a.AssignedAt.UTC(),
	}
}

func (c Conflict) toDomain() domain.Conflict {
	ids := c.StatusIDs
	if ids == nil {
		ids = []string{}
	}
	return domain.Conflict{
		ID:              c.ID,
		MemberID:        c.MemberID,
		StatusIDs:       ids,
		Resolved:        c.Resolved,
		ResolutionNotes: c.ResolutionNotes,
		ResolvedAt:      utcPtr(c.ResolvedAt),
		ResolvedBy:      c.ResolvedBy,
		CreatedAt:       c.CreatedAt.UTC(),
	}
}
