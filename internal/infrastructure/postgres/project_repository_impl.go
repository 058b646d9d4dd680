package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/deploydash/internal/domain/entity"
	"github.com/oksasatya/deploydash/internal/domain/repository"
)

type ProjectRepository struct {
	pool *pgxpool.Pool
}

func NewProjectRepository(pool *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{pool: pool}
}

func (r *ProjectRepository) Create(ctx context.Context, p *entity.Project) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO projects (id, name, image, port, url, owner_id, team_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`, p.ID, p.Name, p.Image, p.Port, p.URL, p.OwnerID, p.TeamID).Scan(&p.CreatedAt)
}

func (r *ProjectRepository) ListVisible(ctx context.Context, ownerID string, teamID *string) ([]entity.Project, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, image, port, url, owner_id, team_id, created_at
		FROM projects
		WHERE owner_id = $1 OR ($2::uuid IS NOT NULL AND team_id = $2::uuid)
		ORDER BY created_at DESC
	`, ownerID, teamID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Project, error) {
		var p entity.Project
		err := row.Scan(&p.ID, &p.Name, &p.Image, &p.Port, &p.URL, &p.OwnerID, &p.TeamID, &p.CreatedAt)
		return p, err
	})
}

var _ repository.ProjectRepository = (*ProjectRepository)(nil)
