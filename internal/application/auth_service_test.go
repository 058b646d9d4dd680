package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/deploydash/internal/domain/entity"
	"github.com/oksasatya/deploydash/pkg/helpers"
)

type mockVerifier struct{ mock.Mock }

func (m *mockVerifier) Verify(ctx context.Context, assertion string) (Identity, error) {
	args := m.Called(ctx, assertion)
	return args.Get(0).(Identity), args.Error(1)
}

type mockAvatars struct{ mock.Mock }

func (m *mockAvatars) MirrorAvatar(ctx context.Context, userID, sourceURL string) (string, error) {
	args := m.Called(ctx, userID, sourceURL)
	return args.String(0), args.Error(1)
}

type mockIndexer struct{ mock.Mock }

func (m *mockIndexer) IndexUser(ctx context.Context, u *entity.User) error {
	return m.Called(ctx, u).Error(0)
}

func newAuthFixture(v *mockVerifier) (*AuthService, *testStore) {
	store := newTestStore()
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	return NewAuthService(store.users, v, jwt, nil, nil, helpers.NewNopLogger()), store
}

func TestLoginProvisionsOnFirstSight(t *testing.T) {
	ctx := context.Background()
	v := &mockVerifier{}
	v.On("Verify", mock.Anything, "good").Return(Identity{
		Email: "Ann@Example.com", Name: "Ann", Picture: "https://pic/ann", Subject: "g-1",
	}, nil)
	svc, store := newAuthFixture(v)

	first, err := svc.LoginWithGoogle(ctx, "good")
	require.NoError(t, err)
	require.Equal(t, "ann@example.com", first.User.Email)
	require.Equal(t, "Ann", first.User.Username)
	require.Equal(t, "g-1", first.User.GoogleID)
	require.Equal(t, "https://pic/ann", first.User.ProfilePicture)
	require.NotEmpty(t, first.Token)

	claims, err := svc.JWT.ParseAccessToken(first.Token)
	require.NoError(t, err)
	require.Equal(t, first.User.ID, claims.UserID)

	second, err := svc.LoginWithGoogle(ctx, "good")
	require.NoError(t, err)
	require.Equal(t, first.User.ID, second.User.ID)
	require.Len(t, store.UserIDs(), 1)
	v.AssertExpectations(t)
}

func TestLoginRejectsBadAssertions(t *testing.T) {
	ctx := context.Background()
	v := &mockVerifier{}
	v.On("Verify", mock.Anything, "bad").Return(Identity{}, errors.New("signature mismatch"))
	v.On("Verify", mock.Anything, "no-email").Return(Identity{Name: "x"}, nil)
	svc, store := newAuthFixture(v)

	for _, assertion := range []string{"", "  ", "bad", "no-email"} {
		_, err := svc.LoginWithGoogle(ctx, assertion)
		require.ErrorIs(t, err, ErrInvalidAssertion, assertion)
	}
	require.Empty(t, store.UserIDs())
}

func TestLoginMirrorsAvatarAndIndexes(t *testing.T) {
	ctx := context.Background()
	v := &mockVerifier{}
	v.On("Verify", mock.Anything, "tok").Return(Identity{Email: "b@x.com", Name: "Bo", Picture: "https://pic/bo"}, nil)
	avatars := &mockAvatars{}
	avatars.On("MirrorAvatar", mock.Anything, mock.AnythingOfType("string"), "https://pic/bo").
		Return("https://storage.googleapis.com/bucket/avatars/bo.png", nil)
	indexer := &mockIndexer{}
	indexer.On("IndexUser", mock.Anything, mock.AnythingOfType("*entity.User")).Return(errors.New("es down"))

	svc, _ := newAuthFixture(v)
	svc.Avatars = avatars
	svc.Indexer = indexer

	res, err := svc.LoginWithGoogle(ctx, "tok")
	require.NoError(t, err, "index failures must not fail login")
	require.Equal(t, "https://storage.googleapis.com/bucket/avatars/bo.png", res.User.ProfilePicture)
	avatars.AssertExpectations(t)
	indexer.AssertExpectations(t)
}

func TestLoginReindexesReturningUsers(t *testing.T) {
	ctx := context.Background()
	v := &mockVerifier{}
	v.On("Verify", mock.Anything, "tok").Return(Identity{Email: "d@x.com", Name: "Di"}, nil)
	indexer := &mockIndexer{}
	indexer.On("IndexUser", mock.Anything, mock.AnythingOfType("*entity.User")).Return(errors.New("es down")).Once()
	indexer.On("IndexUser", mock.Anything, mock.AnythingOfType("*entity.User")).Return(nil).Once()

	svc, store := newAuthFixture(v)
	svc.Indexer = indexer

	first, err := svc.LoginWithGoogle(ctx, "tok")
	require.NoError(t, err)
	second, err := svc.LoginWithGoogle(ctx, "tok")
	require.NoError(t, err)
	require.Equal(t, first.User.ID, second.User.ID)
	require.Len(t, store.UserIDs(), 1)

	indexer.AssertNumberOfCalls(t, "IndexUser", 2)
	indexer.AssertExpectations(t)
}

func TestLoginKeepsProviderAvatarOnMirrorFailure(t *testing.T) {
	v := &mockVerifier{}
	v.On("Verify", mock.Anything, "tok").Return(Identity{Email: "c@x.com", Picture: "https://pic/c"}, nil)
	avatars := &mockAvatars{}
	avatars.On("MirrorAvatar", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("403"))

	svc, _ := newAuthFixture(v)
	svc.Avatars = avatars

	res, err := svc.LoginWithGoogle(context.Background(), "tok")
	require.NoError(t, err)
	require.Equal(t, "https://pic/c", res.User.ProfilePicture)
}

func TestGetProfile(t *testing.T) {
	svc, store := newAuthFixture(&mockVerifier{})
	store.addUser("u1", "u1@x.com", "U1")

	u, err := svc.GetProfile(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, "u1@x.com", u.Email)

	_, err = svc.GetProfile(context.Background(), "nope")
	require.ErrorIs(t, err, ErrUserNotFound)
}
