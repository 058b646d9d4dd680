package repository

import (
	"context"

	"github.com/oksasatya/deploydash/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// GetByIDs returns the users found, in the order of ids; unknown ids are skipped.
	GetByIDs(ctx context.Context, ids []string) ([]entity.User, error)
}

// UserDirectory serves email autocomplete for invitations.
type UserDirectory interface {
	// SearchByEmail matches query as a case-insensitive substring of the email.
	SearchByEmail(ctx context.Context, query string, limit int) ([]entity.UserSummary, error)
}

// UserSource walks every stored user, oldest first. It feeds index backfills.
type UserSource interface {
	Each(ctx context.Context, fn func(entity.User) error) error
}

// UserIndexer keeps an external search index in sync with provisioned users.
type UserIndexer interface {
	IndexUser(ctx context.Context, u *entity.User) error
}
