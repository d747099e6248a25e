package domain

import "time"

// StatusCounts tallies members per status. Every status is always present.
type StatusCounts map[Status]int

// NewStatusCounts returns zero-filled counts
func NewStatusCounts() StatusCounts {
	c := make(StatusCounts, len(AllStatuses))
	for _, st := range AllStatuses {
		c[st] = 0
	}
	return c
}

// Total is the number of members counted
func (c StatusCounts) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// Summary is the status and category tally for one scope
type Summary struct {
	Statuses   StatusCounts   `json:"statuses"`
	Categories map[string]int `json:"categories"`
	Total      int            `json:"total"`
}

// NewSummary returns an empty summary with zero-filled status counts
func NewSummary() Summary {
	return Summary{Statuses: NewStatusCounts(), Categories: map[string]int{}}
}

// Add accumulates other into s
func (s *Summary) Add(other Summary) {
	if s.Statuses == nil {
		s.Statuses = NewStatusCounts()
	}
	if s.Categories == nil {
		s.Categories = map[string]int{}
	}
	for st, n := range other.Statuses {
		s.Statuses[st] += n
	}
	for name, n := range other.Categories {
		s.Categories[name] += n
	}
	s.Total += other.Total
}

// CountStatuses resolves, per member, the newest non-inert record inside the
// scope and tallies its status. Each member counts once.
func CountStatuses(records []StatusRecord, scope Scope) StatusCounts {
	counts := NewStatusCounts()
	byMember := make(map[string][]StatusRecord)
	for _, r := range FilterStatusRecords(records, scope, false) {
		byMember[r.MemberID] = append(byMember[r.MemberID], r)
	}
	for _, group := range byMember {
		if latest, ok := LatestOf(group); ok {
			counts[latest.Status]++
		}
	}
	return counts
}

// CountCategories resolves, per member, the newest assignment inside the
// scope and tallies it by category name. Assignments whose category is not
// in names are ignored.
func CountCategories(assignments []CategoryAssignment, scope Scope, names map[string]string) map[string]int {
	counts := map[string]int{}
	byMember := make(map[string][]CategoryAssignment)
	for _, a := range FilterAssignments(assignments, scope) {
		if _, ok := names[a.CategoryID]; !ok {
			continue
		}
		byMember[a.MemberID] = append(byMember[a.MemberID], a)
	}
	for _, group := range byMember {
		if latest, ok := LatestOf(group); ok {
			counts[names[latest.CategoryID]]++
		}
	}
	return counts
}

// Summarize builds the summary for one scope
func Summarize(records []StatusRecord, assignments []CategoryAssignment, scope Scope, names map[string]string) Summary {
	statuses := CountStatuses(records, scope)
	return Summary{
		Statuses:   statuses,
		Categories: CountCategories(assignments, scope, names),
		Total:      statuses.Total(),
	}
}

// LeaderSummary is the summary of one team leader
type LeaderSummary struct {
	Leader  Actor   `json:"leader"`
	Summary Summary `json:"summary"`
}

// SupervisorSummary breaks a supervisor's team down into the supervisor's own
// records, the leaders' combined records and each leader. LeadersTotal adds
// the per-leader summaries, so a member canvassed by two leaders counts twice;
// LeadersDistinct counts each member once at its newest leader record.
type SupervisorSummary struct {
	Supervisor      Actor           `json:"supervisor"`
	Self            Summary         `json:"self"`
	LeadersTotal    Summary         `json:"leaders_total"`
	LeadersDistinct Summary         `json:"leaders_distinct"`
	Leaders         []LeaderSummary `json:"leaders"`
}

// NestedSummary is the dashboard summary for a viewer's role
type NestedSummary struct {
	Role        Role                `json:"role"`
	Org         *Summary            `json:"org,omitempty"`
	Supervisors []SupervisorSummary `json:"supervisors,omitempty"`
	Team        *SupervisorSummary  `json:"team,omitempty"`
	Self        *Summary            `json:"self,omitempty"`
	GeneratedAt time.Time           `json:"generated_at"`
}

// MemberWithLatest is one row of the "my assigned members" view
type MemberWithLatest struct {
	MemberID string        `json:"member_id"`
	FullName string        `json:"full_name"`
	Latest   StatusRecord  `json:"latest_status"`
	Category *CategoryView `json:"category,omitempty"`
}

// MyMembersFilter narrows the "my assigned members" view
type MyMembersFilter struct {
	Status     string
	CategoryID string
	Actor      string
	Limit      int
	Offset     int
}
