package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/domain"
	apperrors "github.com/ahmedanwarabdulaziz/ASC-sub000/pkg/errors"
)

func TestDirectory_CreateActor(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name    string
		creator *domain.Actor
		req     domain.CreateActorRequest
		want    apperrors.ErrorType
	}{
		{"leader cannot create", f.l1, domain.CreateActorRequest{Role: "team_leader", ShortCode: "X1", Name: "X"}, apperrors.ErrorTypeAuthorization},
		{"supervisor cannot create supervisor", f.s, domain.CreateActorRequest{Role: "supervisor", ShortCode: "X2", Name: "X"}, apperrors.ErrorTypeAuthorization},
		{"supervisor cannot parent elsewhere", f.s, domain.CreateActorRequest{Role: "team_leader", SupervisorID: "s2", ShortCode: "X3", Name: "X"}, apperrors.ErrorTypeAuthorization},
		{"leader needs supervisor", f.admin, domain.CreateActorRequest{Role: "team_leader", ShortCode: "X4", Name: "X"}, apperrors.ErrorTypeValidation},
		{"parent must be supervisor", f.admin, domain.CreateActorRequest{Role: "team_leader", SupervisorID: "l1", ShortCode: "X5", Name: "X"}, apperrors.ErrorTypeValidation},
		{"only leaders have a parent", f.admin, domain.CreateActorRequest{Role: "admin", SupervisorID: "s", ShortCode: "X6", Name: "X"}, apperrors.ErrorTypeValidation},
		{"unknown role", f.admin, domain.CreateActorRequest{Role: "owner", ShortCode: "X7", Name: "X"}, apperrors.ErrorTypeValidation},
		{"short code taken", f.admin, domain.CreateActorRequest{Role: "supervisor", ShortCode: "L1", Name: "X"}, apperrors.ErrorTypeValidation},
		{"unauthenticated", nil, domain.CreateActorRequest{Role: "supervisor", ShortCode: "X8", Name: "X"}, apperrors.ErrorTypeAuthentication},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Directory.CreateActor(f.ctx, tt.creator, &tt.req)
			assertErrorType(t, err, tt.want)
		})
	}

	leader, err := f.svc.Directory.CreateActor(f.ctx, f.s, &domain.CreateActorRequest{Role: "team_leader", ShortCode: "L9", Name: "New Lead"})
	require.NoError(t, err)
	assert.Equal(t, "s", leader.SupervisorID)
	assert.NotEmpty(t, leader.ID)

	sup, err := f.svc.Directory.CreateActor(f.ctx, f.admin, &domain.CreateActorRequest{Role: "supervisor", ShortCode: "S9", Name: "New Sup"})
	require.NoError(t, err)
	assert.Empty(t, sup.SupervisorID)

	got, err := f.svc.Directory.GetActor(f.ctx, leader.ID)
	require.NoError(t, err)
	assert.Equal(t, "L9", got.ShortCode)

	// the new leader is immediately part of the supervisor's scope
	scope, err := f.scopes.Resolve(f.ctx, f.s, "")
	require.NoError(t, err)
	assert.True(t, scope.Contains(leader.ID))
}

func TestDirectory_GetAndList(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Directory.GetActor(f.ctx, "ghost")
	assertErrorType(t, err, apperrors.ErrorTypeNotFound)

	ids := func(viewer *domain.Actor) []string {
		actors, err := f.svc.Directory.ListVisible(f.ctx, viewer)
		require.NoError(t, err)
		out := make([]string, 0, len(actors))
		for _, a := range actors {
			out = append(out, a.ID)
		}
		return out
	}

	assert.Equal(t, []string{"admin", "s", "s2", "l1", "l2", "l3"}, ids(f.admin))
	assert.Equal(t, []string{"s", "l1", "l2"}, ids(f.s))
	assert.Equal(t, []string{"l3"}, ids(f.l3))
}

func TestDirectory_CreateActorInvalidatesSummaries(t *testing.T) {
	f := newFixture(t, withCache())
	seedLedger(t, f)
	key := "staging:canvass:summary:s"

	before, err := f.svc.Summary.Summary(f.ctx, f.s)
	require.NoError(t, err)
	require.Len(t, before.Team.Leaders, 2)
	require.True(t, f.mr.Exists(key))

	_, err = f.svc.Summary.Summary(f.ctx, f.admin)
	require.NoError(t, err)
	require.True(t, f.mr.Exists("staging:canvass:summary:admin"))

	leader, err := f.svc.Directory.CreateActor(f.ctx, f.s, &domain.CreateActorRequest{Role: "team_leader", ShortCode: "L9", Name: "New Lead"})
	require.NoError(t, err)
	assert.False(t, f.mr.Exists(key))
	assert.False(t, f.mr.Exists("staging:canvass:summary:admin"))

	after, err := f.svc.Summary.Summary(f.ctx, f.s)
	require.NoError(t, err)
	require.Len(t, after.Team.Leaders, 3)
	assert.Equal(t, leader.ID, after.Team.Leaders[2].Leader.ID)
	assert.Equal(t, 0, after.Team.Leaders[2].Summary.Total)
}
