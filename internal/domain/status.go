package domain

import "time"

// Status is the canvassing label a worker records for a member.
// Values carry no ordering; any value may follow any other.
type Status string

const (
	StatusChance   Status = "chance"
	StatusCalled   Status = "called"
	StatusWillVote Status = "will_vote"
	StatusSureVote Status = "sure_vote"
	StatusVoted    Status = "voted"
)

// AllStatuses lists every status in display order
var AllStatuses = []Status{StatusChance, StatusCalled, StatusWillVote, StatusSureVote, StatusVoted}

// ParseStatus converts s to a Status, rejecting anything outside the closed
// set. Values are matched exactly.
func ParseStatus(s string) (Status, bool) {
	st := Status(s)
	return st, st.Valid()
}

// Valid reports whether s is a known status
func (s Status) Valid() bool {
	switch s {
	case StatusChance, StatusCalled, StatusWillVote, StatusSureVote, StatusVoted:
		return true
	}
	return false
}

func (s Status) rank() int {
	for i, st := range AllStatuses {
		if st == s {
			return i
		}
	}
	return len(AllStatuses)
}

// StatusRecord is one author's status for one member. There is at most one
// record per (MemberID, AuthorID); later writes by the same author update it.
type StatusRecord struct {
	ID          string     `json:"id"`
	MemberID    string     `json:"member_id"`
	Status      Status     `json:"status"`
	AuthorID    string     `json:"author_id"`
	Notes       string     `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Inert       bool       `json:"inert"`
	ArchivedAt  *time.Time `json:"archived_at,omitempty"`
	ArchiveNote string     `json:"archive_note,omitempty"`
}

// RecencyKey implements Recency
func (r StatusRecord) RecencyKey() (time.Time, string) {
	return r.CreatedAt, r.ID
}

// WriteStatusRequest represents a status write for a member
type WriteStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Notes  string `json:"notes" validate:"max=2000"`
}

// UpdateStatusRequest represents a partial status record update
type UpdateStatusRequest struct {
	Status *string `json:"status"`
	Notes  *string `json:"notes" validate:"omitempty,max=2000"`
}
