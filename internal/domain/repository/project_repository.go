package repository

import (
	"context"

	"github.com/oksasatya/deploydash/internal/domain/entity"
)

type ProjectRepository interface {
	Create(ctx context.Context, p *entity.Project) error
	// ListVisible returns projects owned by ownerID or, when teamID is set, attached to
	// that team. Newest first.
	ListVisible(ctx context.Context, ownerID string, teamID *string) ([]entity.Project, error)
}
