package domain

import (
	"sort"
	"time"
)

// Conflict is a materialised disagreement between authors about a member's
// status. StatusIDs is the snapshot of contributing records. Resolution is terminal.
type Conflict struct {
	ID              string     `json:"id"`
	MemberID        string     `json:"member_id"`
	StatusIDs       []string   `json:"status_ids"`
	Resolved        bool       `json:"resolved"`
	ResolutionNotes string     `json:"resolution_notes,omitempty"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`
	ResolvedBy      string     `json:"resolved_by,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// ConflictDetail is a conflict with the records of its snapshot
type ConflictDetail struct {
	Conflict
	Records []StatusRecord `json:"records"`
}

// MemberConflict describes one member whose records disagree
type MemberConflict struct {
	MemberID  string   `json:"member_id"`
	Values    []Status `json:"values"`
	RecordIDs []string `json:"record_ids"`
}

// ConflictCheck is the conflict flag for one member within a scope
type ConflictCheck struct {
	MemberID string   `json:"member_id"`
	Conflict bool     `json:"conflict"`
	Values   []Status `json:"values"`
}

// ResolvedFilter selects conflicts by resolution state
type ResolvedFilter string

const (
	ResolvedAll   ResolvedFilter = "all"
	ResolvedTrue  ResolvedFilter = "true"
	ResolvedFalse ResolvedFilter = "false"
)

// ParseResolvedFilter accepts true, false, all or an empty string (all)
func ParseResolvedFilter(s string) (ResolvedFilter, bool) {
	switch s {
	case "", string(ResolvedAll):
		return ResolvedAll, true
	case string(ResolvedTrue):
		return ResolvedTrue, true
	case string(ResolvedFalse):
		return ResolvedFalse, true
	}
	return "", false
}

// Matches reports whether c passes the filter
func (f ResolvedFilter) Matches(c Conflict) bool {
	switch f {
	case ResolvedTrue:
		return c.Resolved
	case ResolvedFalse:
		return !c.Resolved
	}
	return true
}

// ResolveConflictRequest represents an admin's resolution of a conflict
type ResolveConflictRequest struct {
	KeepStatusIDs []string `json:"keep_status_ids" validate:"required,min=1,dive,required"`
	Notes         string   `json:"notes" validate:"max=2000"`
}

// DistinctStatuses returns the distinct status values of records in display order
func DistinctStatuses(records []StatusRecord) []Status {
	seen := make(map[Status]struct{})
	for _, r := range records {
		seen[r.Status] = struct{}{}
	}
	values := make([]Status, 0, len(seen))
	for st := range seen {
		values = append(values, st)
	}
	sort.Slice(values, func(i, j int) bool { return values[i].rank() < values[j].rank() })
	return values
}

// DetectConflicts groups records by member and reports every member whose
// non-inert records carry two or more distinct status values. Several
// authors agreeing on one value is not a conflict. Results are ordered by
// member id.
func DetectConflicts(records []StatusRecord) []MemberConflict {
	byMember := make(map[string][]StatusRecord)
	for _, r := range records {
		if r.Inert {
			continue
		}
		byMember[r.MemberID] = append(byMember[r.MemberID], r)
	}

	conflicts := make([]MemberConflict, 0)
	for memberID, group := range byMember {
		values := DistinctStatuses(group)
		if len(values) < 2 {
			continue
		}
		ids := make([]string, 0, len(group))
		for _, r := range group {
			ids = append(ids, r.ID)
		}
		sort.Strings(ids)
		conflicts = append(conflicts, MemberConflict{MemberID: memberID, Values: values, RecordIDs: ids})
	}
	sort.Slice(conflicts, func(i, j int) bool { return conflicts[i].MemberID < conflicts[j].MemberID })
	return conflicts
}

// CheckMember reports the conflict state of one member's records
func CheckMember(memberID string, records []StatusRecord) ConflictCheck {
	active := make([]StatusRecord, 0, len(records))
	for _, r := range records {
		if r.MemberID == memberID && !r.Inert {
			active = append(active, r)
		}
	}
	values := DistinctStatuses(active)
	return ConflictCheck{MemberID: memberID, Conflict: len(values) >= 2, Values: values}
}
