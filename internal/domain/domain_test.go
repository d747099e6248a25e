package domain

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func rec(id, member, author string, st Status, offset time.Duration) StatusRecord {
	return StatusRecord{
		ID:        id,
		MemberID:  member,
		AuthorID:  author,
		Status:    st,
		CreatedAt: t0.Add(offset),
		UpdatedAt: t0.Add(offset),
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in    string
		want  Status
		valid bool
	}{
		{"chance", StatusChance, true},
		{" voted ", "", false},
		{"  voted\n", "", false},
		{"sure_vote", StatusSureVote, true},
		{"Voted", "", false},
		{"maybe", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseStatus(tt.in)
			assert.Equal(t, tt.valid, ok)
			if tt.valid {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestRole(t *testing.T) {
	assert.True(t, RoleSupervisor.CanAuthor())
	assert.True(t, RoleTeamLeader.CanAuthor())
	assert.False(t, RoleAdmin.CanAuthor())
	assert.False(t, Role("guest").Valid())

	var nilActor *Actor
	assert.False(t, nilActor.IsAdmin())
}

func TestLatestOf(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		_, ok := LatestOf([]StatusRecord(nil))
		assert.False(t, ok)
	})

	t.Run("max createdAt wins", func(t *testing.T) {
		records := []StatusRecord{
			rec("a", "m", "x", StatusCalled, 0),
			rec("b", "m", "y", StatusVoted, 2*time.Minute),
			rec("c", "m", "z", StatusChance, time.Minute),
		}
		got, ok := LatestOf(records)
		require.True(t, ok)
		assert.Equal(t, "b", got.ID)
	})

	t.Run("tie broken by greatest id", func(t *testing.T) {
		records := []StatusRecord{
			rec("b", "m", "x", StatusCalled, 0),
			rec("c", "m", "y", StatusVoted, 0),
			rec("a", "m", "z", StatusChance, 0),
		}
		got, _ := LatestOf(records)
		assert.Equal(t, "c", got.ID)
	})
}

func TestLatestOfIsOrderIndependent(t *testing.T) {
	records := make([]StatusRecord, 0, 20)
	for i := 0; i < 20; i++ {
		records = append(records, rec(string(rune('a'+i)), "m", "x", StatusCalled, time.Duration(i%7)*time.Second))
	}
	want, _ := LatestOf(records)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 50; i++ {
		shuffled := append([]StatusRecord(nil), records...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		got, _ := LatestOf(shuffled)
		assert.Equal(t, want.ID, got.ID)
	}
}

func TestSortNewestFirst(t *testing.T) {
	records := []StatusRecord{
		rec("a", "m", "x", StatusCalled, 0),
		rec("c", "m", "y", StatusVoted, time.Minute),
		rec("b", "m", "z", StatusChance, time.Minute),
		rec("d", "m", "w", StatusChance, -time.Minute),
	}
	SortNewestFirst(records)

	ids := []string{records[0].ID, records[1].ID, records[2].ID, records[3].ID}
	assert.Equal(t, []string{"c", "b", "a", "d"}, ids)

	latest, _ := LatestOf(records)
	assert.Equal(t, records[0].ID, latest.ID)
}

func TestScope(t *testing.T) {
	all := Unrestricted()
	team := ActorScope("s", "l1", "l2")
	leader := ActorScope("l1")
	empty := EmptyScope()

	assert.True(t, all.Contains("anyone"))
	assert.True(t, team.Contains("l2"))
	assert.False(t, leader.Contains("s"))
	assert.True(t, empty.IsEmpty())
	assert.False(t, all.IsEmpty())
	assert.True(t, ActorScope("").IsEmpty())

	assert.True(t, all.Covers(team))
	assert.True(t, team.Covers(leader))
	assert.True(t, team.Covers(empty))
	assert.False(t, leader.Covers(team))
	assert.False(t, team.Covers(all))

	assert.Equal(t, []string{"l1", "l2", "s"}, team.ActorIDs())
	assert.Nil(t, all.ActorIDs())
	assert.Equal(t, "l1,l2,s", team.Key())
	assert.Equal(t, "*", all.Key())
}

func TestFilterStatusRecords(t *testing.T) {
	inert := rec("c", "m", "s", StatusVoted, 0)
	inert.Inert = true
	records := []StatusRecord{
		rec("a", "m", "l1", StatusCalled, 0),
		rec("b", "m", "l2", StatusCalled, 0),
		inert,
	}

	team := ActorScope("s", "l1")
	assert.Len(t, FilterStatusRecords(records, team, false), 1)
	assert.Len(t, FilterStatusRecords(records, team, true), 2)
	assert.Len(t, FilterStatusRecords(records, Unrestricted(), false), 2)
	assert.Empty(t, FilterStatusRecords(records, EmptyScope(), true))
}

func TestDetectConflicts(t *testing.T) {
	tests := []struct {
		name    string
		records []StatusRecord
		want    []string
	}{
		{
			name: "same value from two authors is not a conflict",
			records: []StatusRecord{
				rec("1", "m1", "a", StatusCalled, 0),
				rec("2", "m1", "b", StatusCalled, time.Minute),
			},
			want: []string{},
		},
		{
			name: "distinct values are a conflict",
			records: []StatusRecord{
				rec("1", "m1", "a", StatusCalled, 0),
				rec("2", "m1", "b", StatusVoted, time.Minute),
			},
			want: []string{"m1"},
		},
		{
			name: "single record is not a conflict",
			records: []StatusRecord{
				rec("1", "m1", "a", StatusCalled, 0),
			},
			want: []string{},
		},
		{
			name: "members are grouped independently",
			records: []StatusRecord{
				rec("1", "m2", "a", StatusCalled, 0),
				rec("2", "m2", "b", StatusChance, 0),
				rec("3", "m1", "a", StatusVoted, 0),
				rec("4", "m3", "a", StatusVoted, 0),
				rec("5", "m1", "b", StatusSureVote, 0),
			},
			want: []string{"m1", "m2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectConflicts(tt.records)
			ids := make([]string, 0, len(got))
			for _, c := range got {
				ids = append(ids, c.MemberID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestDetectConflictsIgnoresInert(t *testing.T) {
	archived := rec("2", "m1", "b", StatusVoted, time.Minute)
	archived.Inert = true
	got := DetectConflicts([]StatusRecord{rec("1", "m1", "a", StatusCalled, 0), archived})
	assert.Empty(t, got)
}

func TestDetectConflictsSnapshot(t *testing.T) {
	got := DetectConflicts([]StatusRecord{
		rec("z", "m1", "a", StatusVoted, 0),
		rec("y", "m1", "b", StatusChance, 0),
		rec("x", "m1", "c", StatusChance, 0),
	})
	require.Len(t, got, 1)
	assert.Equal(t, []Status{StatusChance, StatusVoted}, got[0].Values)
	assert.Equal(t, []string{"x", "y", "z"}, got[0].RecordIDs)
}

func TestCheckMember(t *testing.T) {
	records := []StatusRecord{
		rec("1", "m1", "l1", StatusChance, 0),
		rec("2", "m1", "s", StatusVoted, time.Minute),
	}
	check := CheckMember("m1", records)
	assert.True(t, check.Conflict)
	assert.Equal(t, []Status{StatusChance, StatusVoted}, check.Values)

	records[0].Inert = true
	assert.False(t, CheckMember("m1", records).Conflict)
	assert.False(t, CheckMember("other", records).Conflict)
}

func TestParseResolvedFilter(t *testing.T) {
	for _, in := range []string{"", "all", "true", "false"} {
		_, ok := ParseResolvedFilter(in)
		assert.True(t, ok, in)
	}
	_, ok := ParseResolvedFilter("yes")
	assert.False(t, ok)

	open := Conflict{Resolved: false}
	done := Conflict{Resolved: true}
	assert.True(t, ResolvedFalse.Matches(open))
	assert.False(t, ResolvedFalse.Matches(done))
	assert.True(t, ResolvedTrue.Matches(done))
	assert.True(t, ResolvedAll.Matches(open))
}

func TestResolveAssignment(t *testing.T) {
	assignments := []CategoryAssignment{
		{ID: "1", MemberID: "m", CategoryID: "c1", AssignerID: "l1", AssignedAt: t0},
		{ID: "2", MemberID: "m", CategoryID: "c2", AssignerID: "s", AssignedAt: t0.Add(time.Hour)},
	}

	own, ok := ResolveAssignment(assignments, "l1")
	require.True(t, ok)
	assert.Equal(t, "c1", own.CategoryID)

	newest, ok := ResolveAssignment(assignments, "admin")
	require.True(t, ok)
	assert.Equal(t, "c2", newest.CategoryID)

	_, ok = ResolveAssignment(nil, "l1")
	assert.False(t, ok)
}

func TestCountStatuses(t *testing.T) {
	records := []StatusRecord{
		rec("1", "m1", "l1", StatusChance, 0),
		rec("2", "m1", "s", StatusVoted, time.Minute),
		rec("3", "m2", "l1", StatusCalled, 0),
		rec("4", "m3", "l2", StatusCalled, 0),
	}

	org := CountStatuses(records, Unrestricted())
	assert.Equal(t, 1, org[StatusVoted])
	assert.Equal(t, 2, org[StatusCalled])
	assert.Equal(t, 0, org[StatusChance])
	assert.Equal(t, 3, org.Total())
	assert.Len(t, org, len(AllStatuses))

	leader := CountStatuses(records, ActorScope("l1"))
	assert.Equal(t, 1, leader[StatusChance])
	assert.Equal(t, 1, leader[StatusCalled])

	assert.Equal(t, 0, CountStatuses(records, EmptyScope()).Total())
}

func TestCountCategories(t *testing.T) {
	names := map[string]string{"c1": "Strong Supporters", "c2": "Undecided"}
	assignments := []CategoryAssignment{
		{ID: "1", MemberID: "m1", CategoryID: "c1", AssignerID: "l1", AssignedAt: t0},
		{ID: "2", MemberID: "m1", CategoryID: "c2", AssignerID: "l2", AssignedAt: t0.Add(time.Minute)},
		{ID: "3", MemberID: "m2", CategoryID: "c1", AssignerID: "l1", AssignedAt: t0},
		{ID: "4", MemberID: "m3", CategoryID: "gone", AssignerID: "l1", AssignedAt: t0},
	}

	all := CountCategories(assignments, Unrestricted(), names)
	assert.Equal(t, map[string]int{"Strong Supporters": 1, "Undecided": 1}, all)

	l1 := CountCategories(assignments, ActorScope("l1"), names)
	assert.Equal(t, map[string]int{"Strong Supporters": 2}, l1)
}

func TestSummaryAdd(t *testing.T) {
	total := NewSummary()
	a := Summary{Statuses: StatusCounts{StatusCalled: 2}, Categories: map[string]int{"x": 1}, Total: 2}
	b := Summary{Statuses: StatusCounts{StatusCalled: 1, StatusVoted: 1}, Categories: map[string]int{"x": 1, "y": 1}, Total: 2}
	total.Add(a)
	total.Add(b)

	assert.Equal(t, 3, total.Statuses[StatusCalled])
	assert.Equal(t, 1, total.Statuses[StatusVoted])
	assert.Equal(t, 0, total.Statuses[StatusChance])
	assert.Equal(t, 2, total.Categories["x"])
	assert.Equal(t, 4, total.Total)

	var zero Summary
	zero.Add(a)
	assert.Equal(t, 2, zero.Statuses[StatusCalled])
}
