package domain

import (
	"sort"
	"strings"
)

// FilterSelf is the actor filter value meaning "only my own records"
const FilterSelf = "self"

// Scope is the set of authors whose records a viewer may see. It is either
// unrestricted or an explicit set of actor ids; an explicit empty set sees
// nothing.
type Scope struct {
	unrestricted bool
	ids          map[string]struct{}
}

// Unrestricted returns a scope that contains every actor
func Unrestricted() Scope {
	return Scope{unrestricted: true}
}

// ActorScope returns a scope containing exactly ids
func ActorScope(ids ...string) Scope {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id != "" {
			set[id] = struct{}{}
		}
	}
	return Scope{ids: set}
}

// EmptyScope returns a scope that sees nothing
func EmptyScope() Scope {
	return Scope{}
}

func (s Scope) IsUnrestricted() bool { return s.unrestricted }

// IsEmpty reports whether the scope can see no records at all
func (s Scope) IsEmpty() bool {
	return !s.unrestricted && len(s.ids) == 0
}

// Contains reports whether records by actorID are visible
func (s Scope) Contains(actorID string) bool {
	if s.unrestricted {
		return true
	}
	_, ok := s.ids[actorID]
	return ok
}

// ActorIDs returns the sorted ids of an explicit scope, or nil when unrestricted
func (s Scope) ActorIDs() []string {
	if s.unrestricted {
		return nil
	}
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Covers reports whether every record visible in other is visible in s
func (s Scope) Covers(other Scope) bool {
	if s.unrestricted {
		return true
	}
	if other.unrestricted {
		return false
	}
	for id := range other.ids {
		if _, ok := s.ids[id]; !ok {
			return false
		}
	}
	return true
}

// Key is a stable fingerprint of the scope, usable in cache keys
func (s Scope) Key() string {
	if s.unrestricted {
		return "*"
	}
	return strings.Join(s.ActorIDs(), ",")
}

func (s Scope) String() string {
	if s.unrestricted {
		return "unrestricted"
	}
	return "actors[" + s.Key() + "]"
}

// FilterStatusRecords keeps the records authored inside the scope. Inert
// records are dropped unless includeInert is set.
func FilterStatusRecords(records []StatusRecord, scope Scope, includeInert bool) []StatusRecord {
	out := make([]StatusRecord, 0, len(records))
	for _, r := range records {
		if !scope.Contains(r.AuthorID) {
			continue
		}
		if r.Inert && !includeInert {
			continue
		}
		out = append(out, r)
	}
	return out
}

// FilterAssignments keeps the assignments made inside the scope
func FilterAssignments(assignments []CategoryAssignment, scope Scope) []CategoryAssignment {
	out := make([]CategoryAssignment, 0, len(assignments))
	for _, a := range assignments {
		if scope.Contains(a.AssignerID) {
			out = append(out, a)
		}
	}
	return out
}
