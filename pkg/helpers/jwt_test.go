package helpers

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", 24*time.Hour)
	tok, exp, err := m.GenerateAccessToken("user-1")
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(24*time.Hour), exp, 5*time.Second)

	claims, err := m.ParseAccessToken(tok)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.UserID)
	require.Same(t, m, DefaultJWT())
}

func TestJWTRejectsExpired(t *testing.T) {
	m := NewJWTManager("secret", -time.Minute)
	tok, _, err := m.GenerateAccessToken("user-1")
	require.NoError(t, err)

	_, err = m.ParseAccessToken(tok)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	tok, _, err := NewJWTManager("one", time.Hour).GenerateAccessToken("user-1")
	require.NoError(t, err)

	_, err = NewJWTManager("two", time.Hour).ParseAccessToken(tok)
	require.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestJWTRejectsMissingExpiry(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{UserID: "user-1"})
	tok, err := raw.SignedString(m.Secret)
	require.NoError(t, err)

	_, err = m.ParseAccessToken(tok)
	require.Error(t, err)
}

func TestJWTRejectsGarbage(t *testing.T) {
	_, err := NewJWTManager("secret", time.Hour).ParseAccessToken("not-a-token")
	require.Error(t, err)
}

func TestGenInvitationToken(t *testing.T) {
	a, err := GenInvitationToken()
	require.NoError(t, err)
	b, err := GenInvitationToken()
	require.NoError(t, err)
	require.Len(t, a, 2*InvitationTokenBytes)
	require.NotEqual(t, a, b)
}
