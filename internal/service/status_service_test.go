package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/domain"
	apperrors "github.com/ahmedanwarabdulaziz/ASC-sub000/pkg/errors"
)

func TestStatusWrite_OneRecordPerAuthor(t *testing.T) {
	f := newFixture(t)

	first := f.write(t, f.l1, "m1", domain.StatusCalled)
	second, err := f.svc.Status.Write(f.ctx, f.l1, "m1", &domain.WriteStatusRequest{Status: "will_vote", Notes: "again"})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.CreatedAt.Equal(first.CreatedAt))
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))
	assert.Equal(t, domain.StatusWillVote, second.Status)
	assert.Equal(t, "again", second.Notes)

	// a different author gets a separate record
	f.write(t, f.l2, "m1", domain.StatusVoted)

	records, err := f.svc.Status.ListForMember(f.ctx, f.admin, "m1", "", false)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestStatusWrite_Errors(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		actor  *domain.Actor
		member string
		status string
		want   apperrors.ErrorType
	}{
		{"unauthenticated", nil, "m1", "called", apperrors.ErrorTypeAuthentication},
		{"admin cannot write", f.admin, "m1", "called", apperrors.ErrorTypeAuthorization},
		{"unknown status", f.l1, "m1", "maybe", apperrors.ErrorTypeValidation},
		{"empty status", f.s, "m1", "", apperrors.ErrorTypeValidation},
		{"padded status", f.l1, "m1", "  voted\n", apperrors.ErrorTypeValidation},
		{"unknown member", f.l1, "ghost", "called", apperrors.ErrorTypeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Status.Write(f.ctx, tt.actor, tt.member, &domain.WriteStatusRequest{Status: tt.status})
			assertErrorType(t, err, tt.want)
		})
	}

	records, err := f.svc.Status.ListForMember(f.ctx, f.admin, "m1", "", true)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestStatusList_RespectsScope(t *testing.T) {
	f := newFixture(t)
	rs := f.write(t, f.s, "m1", domain.StatusChance)
	r1 := f.write(t, f.l1, "m1", domain.StatusCalled)
	r2 := f.write(t, f.l2, "m1", domain.StatusVoted)
	r3 := f.write(t, f.l3, "m1", domain.StatusSureVote)

	tests := []struct {
		name   string
		viewer *domain.Actor
		filter string
		want   []string
	}{
		{"admin sees all newest first", f.admin, "", []string{r3.ID, r2.ID, r1.ID, rs.ID}},
		{"admin narrowed to supervisor", f.admin, "s", []string{rs.ID}},
		{"supervisor sees team", f.s, "", []string{r2.ID, r1.ID, rs.ID}},
		{"supervisor narrowed to leader", f.s, "l1", []string{r1.ID}},
		{"supervisor cannot reach other team", f.s, "l3", []string{}},
		{"leader sees own", f.l1, "", []string{r1.ID}},
		{"leader filter ignored", f.l1, "l2", []string{r1.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := f.svc.Status.ListForMember(f.ctx, tt.viewer, "m1", tt.filter, false)
			require.NoError(t, err)
			assert.Equal(t, tt.want, recordIDs(records))
		})
	}

	latest, err := f.svc.Status.LatestForMember(f.ctx, f.s, "m1", "")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, r2.ID, latest.ID)

	none, err := f.svc.Status.LatestForMember(f.ctx, f.s, "m1", "l3")
	require.NoError(t, err)
	assert.Nil(t, none)

	unknown, err := f.svc.Status.ListForMember(f.ctx, f.admin, "ghost", "", false)
	require.NoError(t, err)
	assert.Empty(t, unknown)
}

func TestStatusLatest_TieBreaksOnID(t *testing.T) {
	f := newFixture(t)
	for _, rec := range []*domain.StatusRecord{
		{ID: "rec-a", MemberID: "m2", AuthorID: "l1", Status: domain.StatusCalled, CreatedAt: epoch, UpdatedAt: epoch},
		{ID: "rec-b", MemberID: "m2", AuthorID: "l2", Status: domain.StatusVoted, CreatedAt: epoch, UpdatedAt: epoch},
	} {
		require.NoError(t, f.repos.Status.Upsert(f.ctx, rec))
	}

	for i := 0; i < 3; i++ {
		latest, err := f.svc.Status.LatestForMember(f.ctx, f.s, "m2", "")
		require.NoError(t, err)
		require.NotNil(t, latest)
		assert.Equal(t, "rec-b", latest.ID)
	}

	records, err := f.svc.Status.ListForMember(f.ctx, f.s, "m2", "", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"rec-b", "rec-a"}, recordIDs(records))
}

func TestStatusUpdate_Permissions(t *testing.T) {
	f := newFixture(t)
	rec := f.write(t, f.l1, "m1", domain.StatusCalled)
	voted := string(domain.StatusVoted)
	notes := "door knocked"
	bad := "maybe"

	tests := []struct {
		name  string
		actor *domain.Actor
		id    string
		req   domain.UpdateStatusRequest
		want  apperrors.ErrorType
	}{
		{"other leader", f.l2, rec.ID, domain.UpdateStatusRequest{Status: &voted}, apperrors.ErrorTypeAuthorization},
		{"supervisor", f.s, rec.ID, domain.UpdateStatusRequest{Status: &voted}, apperrors.ErrorTypeAuthorization},
		{"nothing to update", f.l1, rec.ID, domain.UpdateStatusRequest{}, apperrors.ErrorTypeValidation},
		{"invalid status", f.l1, rec.ID, domain.UpdateStatusRequest{Status: &bad}, apperrors.ErrorTypeValidation},
		{"unknown record admin", f.admin, "ghost", domain.UpdateStatusRequest{Notes: &notes}, apperrors.ErrorTypeNotFound},
		{"unknown record leader", f.l1, "ghost", domain.UpdateStatusRequest{Notes: &notes}, apperrors.ErrorTypeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Status.Update(f.ctx, tt.actor, tt.id, &tt.req)
			assertErrorType(t, err, tt.want)
		})
	}

	updated, err := f.svc.Status.Update(f.ctx, f.l1, rec.ID, &domain.UpdateStatusRequest{Status: &voted})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusVoted, updated.Status)
	assert.True(t, updated.CreatedAt.Equal(rec.CreatedAt))

	updated, err = f.svc.Status.Update(f.ctx, f.admin, rec.ID, &domain.UpdateStatusRequest{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusVoted, updated.Status)
	assert.Equal(t, notes, updated.Notes)

	stored, err := f.repos.Status.GetByID(f.ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusVoted, stored.Status)
	assert.Equal(t, notes, stored.Notes)
}

func TestStatusDelete_Permissions(t *testing.T) {
	f := newFixture(t)
	rec := f.write(t, f.l1, "m1", domain.StatusCalled)
	other := f.write(t, f.s, "m1", domain.StatusChance)

	assertErrorType(t, f.svc.Status.Delete(f.ctx, f.l2, rec.ID), apperrors.ErrorTypeAuthorization)
	assertErrorType(t, f.svc.Status.Delete(f.ctx, f.s, other.ID), apperrors.ErrorTypeAuthorization)

	require.NoError(t, f.svc.Status.Delete(f.ctx, f.l1, rec.ID))
	assertErrorType(t, f.svc.Status.Delete(f.ctx, f.admin, rec.ID), apperrors.ErrorTypeNotFound)

	require.NoError(t, f.svc.Status.Delete(f.ctx, f.admin, other.ID))
	records, err := f.svc.Status.ListForMember(f.ctx, f.admin, "m1", "", true)
	require.NoError(t, err)
	assert.Empty(t, records)
}
