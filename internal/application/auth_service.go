package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/deploydash/internal/domain/entity"
	repo "github.com/oksasatya/deploydash/internal/domain/repository"
	"github.com/oksasatya/deploydash/pkg/helpers"
)

type AuthService struct {
	Users    repo.UserRepository
	Verifier IdentityVerifier
	JWT      *helpers.JWTManager
	Avatars  AvatarStore      // optional
	Indexer  repo.UserIndexer // optional
	Logger   *logrus.Logger
}

func NewAuthService(users repo.UserRepository, verifier IdentityVerifier, jwt *helpers.JWTManager, avatars AvatarStore, indexer repo.UserIndexer, logger *logrus.Logger) *AuthService {
	return &AuthService{
		Users:    users,
		Verifier: verifier,
		JWT:      jwt,
		Avatars:  avatars,
		Indexer:  indexer,
		Logger:   logger,
	}
}

type LoginResult struct {
	User      *entity.User
	Token     string
	ExpiresAt time.Time
}

// LoginWithGoogle verifies the provider assertion, provisions the user on first sight
// and issues a session token. Every login refreshes the user's search document.
func (s *AuthService) LoginWithGoogle(ctx context.Context, assertion string) (*LoginResult, error) {
	if strings.TrimSpace(assertion) == "" {
		return nil, ErrInvalidAssertion
	}
	id, err := s.Verifier.Verify(ctx, assertion)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssertion, err)
	}
	email := normalizeEmail(id.Email)
	if email == "" {
		return nil, fmt.Errorf("%w: assertion carries no email", ErrInvalidAssertion)
	}

	u, err := s.Users.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		u, err = s.provision(ctx, email, id)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	}
	s.index(ctx, u)

	token, exp, err := s.JWT.GenerateAccessToken(u.ID)
	if err != nil {
		helpers.LogError(s.Logger, "generate access token failed", err, logrus.Fields{"user_id": u.ID})
		return nil, err
	}
	return &LoginResult{User: u, Token: token, ExpiresAt: exp}, nil
}

func (s *AuthService) provision(ctx context.Context, email string, id Identity) (*entity.User, error) {
	u := &entity.User{
		ID:             uuid.NewString(),
		Email:          email,
		Username:       id.Name,
		GoogleID:       id.Subject,
		ProfilePicture: id.Picture,
	}
	if s.Avatars != nil && id.Picture != "" {
		if mirrored, err := s.Avatars.MirrorAvatar(ctx, u.ID, id.Picture); err != nil {
			if s.Logger != nil {
				s.Logger.WithError(err).WithField("user_id", u.ID).Warn("avatar mirroring failed, keeping provider url")
			}
		} else {
			u.ProfilePicture = mirrored
		}
	}

	if err := s.Users.Create(ctx, u); err != nil {
		// concurrent first login for the same email
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return s.Users.GetByEmail(ctx, email)
		}
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "email": u.Email}).Info("user provisioned")
	}
	return u, nil
}

// index upserts the search document; failures are logged and retried on the next login.
func (s *AuthService) index(ctx context.Context, u *entity.User) {
	if s.Indexer == nil {
		return
	}
	if err := s.Indexer.IndexUser(ctx, u); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("user index failed")
	}
}

func (s *AuthService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
