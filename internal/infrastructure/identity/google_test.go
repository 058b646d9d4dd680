package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/api/idtoken"
)

func TestGoogleVerifierMapsClaims(t *testing.T) {
	v := &GoogleVerifier{
		ClientID: "client-1",
		Validate: func(_ context.Context, token, aud string) (*idtoken.Payload, error) {
			require.Equal(t, "tok", token)
			require.Equal(t, "client-1", aud)
			return &idtoken.Payload{
				Subject: "1234",
				Claims: map[string]interface{}{
					"email":          "ann@x.com",
					"email_verified": true,
					"name":           "Ann",
					"picture":        "https://pic/ann",
				},
			}, nil
		},
	}

	id, err := v.Verify(context.Background(), "tok")
	require.NoError(t, err)
	require.Equal(t, "ann@x.com", id.Email)
	require.Equal(t, "Ann", id.Name)
	require.Equal(t, "https://pic/ann", id.Picture)
	require.Equal(t, "1234", id.Subject)
}

func TestGoogleVerifierFailures(t *testing.T) {
	_, err := (&GoogleVerifier{}).Verify(context.Background(), "tok")
	require.Error(t, err)

	v := &GoogleVerifier{
		ClientID: "c",
		Validate: func(context.Context, string, string) (*idtoken.Payload, error) {
			return nil, errors.New("idtoken: token expired")
		},
	}
	_, err = v.Verify(context.Background(), "tok")
	require.ErrorContains(t, err, "token expired")

	v.Validate = func(context.Context, string, string) (*idtoken.Payload, error) {
		return &idtoken.Payload{Claims: map[string]interface{}{"email": "x@x.com", "email_verified": false}}, nil
	}
	_, err = v.Verify(context.Background(), "tok")
	require.ErrorContains(t, err, "not verified")
}
