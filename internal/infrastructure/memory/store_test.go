package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oksasatya/deploydash/internal/domain/entity"
	"github.com/oksasatya/deploydash/internal/domain/repository"
)

func seed(t *testing.T, s *Store, ids ...string) {
	t.Helper()
	users := NewUserRepository(s)
	for _, id := range ids {
		require.NoError(t, users.Create(context.Background(), &entity.User{ID: id, Email: id + "@x.com", Username: id}))
	}
}

func TestUserEmailsAreUnique(t *testing.T) {
	s := NewStore()
	seed(t, s, "a")
	err := NewUserRepository(s).Create(context.Background(), &entity.User{ID: "b", Email: "a@x.com"})
	require.ErrorIs(t, err, repository.ErrDuplicateEmail)
}

func TestReadsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seed(t, s, "owner")
	teams := NewTeamRepository(s)
	require.NoError(t, teams.Create(ctx, &entity.Team{ID: "t", Name: "T", OwnerID: "owner"}))

	got, err := teams.GetByID(ctx, "t")
	require.NoError(t, err)
	got.Name = "mutated"
	got.MemberIDs[0] = "someone"

	again, err := teams.GetByID(ctx, "t")
	require.NoError(t, err)
	require.Equal(t, "T", again.Name)
	require.Equal(t, []string{"owner"}, again.MemberIDs)
}

func TestAcceptInvitationIsSingleUse(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seed(t, s, "owner", "bob")
	teams := NewTeamRepository(s)
	require.NoError(t, teams.Create(ctx, &entity.Team{
		ID: "t", Name: "T", OwnerID: "owner",
		Invitations: []entity.Invitation{{Email: "bob@x.com", Token: "tok", Status: entity.InvitationPending}},
	}))

	_, err := teams.AcceptInvitation(ctx, "tok", "other@x.com", "bob")
	require.ErrorIs(t, err, repository.ErrInvitationNotPending)

	team, err := teams.AcceptInvitation(ctx, "tok", "bob@x.com", "bob")
	require.NoError(t, err)
	require.True(t, team.HasMember("bob"))

	_, err = teams.AcceptInvitation(ctx, "tok", "bob@x.com", "bob")
	require.ErrorIs(t, err, repository.ErrInvitationNotPending)
}

func TestDeleteClearsMemberReferences(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seed(t, s, "owner")
	teams := NewTeamRepository(s)
	users := NewUserRepository(s)
	require.NoError(t, teams.Create(ctx, &entity.Team{ID: "t", Name: "T", OwnerID: "owner"}))

	u, err := users.GetByID(ctx, "owner")
	require.NoError(t, err)
	require.NotNil(t, u.TeamID)

	require.NoError(t, teams.Delete(ctx, "t"))
	u, err = users.GetByID(ctx, "owner")
	require.NoError(t, err)
	require.Nil(t, u.TeamID)
	require.Empty(t, s.TeamIDs())
	require.ErrorIs(t, teams.Delete(ctx, "t"), repository.ErrNotFound)
}

func TestEachVisitsUsersInInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seed(t, s, "c", "a", "b")
	users := NewUserRepository(s)

	var got []string
	require.NoError(t, users.Each(ctx, func(u entity.User) error {
		got = append(got, u.ID)
		// writes from fn must not deadlock
		return users.Create(ctx, &entity.User{ID: u.ID + "2", Email: u.ID + "2@x.com"})
	}))
	require.Equal(t, []string{"c", "a", "b"}, got)
	require.Len(t, s.UserIDs(), 6)

	stop := errors.New("stop")
	calls := 0
	err := users.Each(ctx, func(entity.User) error { calls++; return stop })
	require.ErrorIs(t, err, stop)
	require.Equal(t, 1, calls)
}
