package identity

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/idtoken"

	"github.com/oksasatya/deploydash/internal/application"
)

// ValidateFunc matches idtoken.Validate.
type ValidateFunc func(ctx context.Context, token, audience string) (*idtoken.Payload, error)

// GoogleVerifier checks Google ID tokens issued for ClientID.
type GoogleVerifier struct {
	ClientID string
	Validate ValidateFunc
}

func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{ClientID: clientID, Validate: idtoken.Validate}
}

func (v *GoogleVerifier) Verify(ctx context.Context, assertion string) (application.Identity, error) {
	if v.ClientID == "" {
		return application.Identity{}, errors.New("google client id not configured")
	}
	payload, err := v.Validate(ctx, assertion, v.ClientID)
	if err != nil {
		return application.Identity{}, fmt.Errorf("validate google id token: %w", err)
	}
	if verified, ok := payload.Claims["email_verified"].(bool); ok && !verified {
		return application.Identity{}, errors.New("google email not verified")
	}
	return application.Identity{
		Email:   claim(payload, "email"),
		Name:    claim(payload, "name"),
		Picture: claim(payload, "picture"),
		Subject: payload.Subject,
	}, nil
}

func claim(p *idtoken.Payload, key string) string {
	s, _ := p.Claims[key].(string)
	return s
}

var _ application.IdentityVerifier = (*GoogleVerifier)(nil)
